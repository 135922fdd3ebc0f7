// Package repositories holds the gorm queries behind the inventory API.
package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/stockroom/app/models"
	"github.com/shashiranjanraj/stockroom/pkg/metrics"
)

// ErrNotFound is returned when a lookup by business key matches nothing.
var ErrNotFound = errors.New("repositories: record not found")

// InventoryRepository reads stock, catalogue and analytics tables.
type InventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

func (r *InventoryRepository) query(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

// Inventory returns every SKU ordered by sku.
func (r *InventoryRepository) Inventory(ctx context.Context) ([]models.InventoryItem, error) {
	defer metrics.ObserveDBQuery("inventory.all", time.Now())

	items := []models.InventoryItem{}
	err := r.query(ctx).Order("sku").Find(&items).Error
	return items, wrap("inventory", err)
}

// Search matches q against sku, product name and category, case-insensitively.
func (r *InventoryRepository) Search(ctx context.Context, q string) ([]models.InventoryItem, error) {
	defer metrics.ObserveDBQuery("inventory.search", time.Now())

	items := []models.InventoryItem{}
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return items, nil
	}
	like := "%" + escapeLike(q) + "%"
	err := r.query(ctx).
		Where("LOWER(sku) LIKE ? ESCAPE '\\' OR LOWER(product_name) LIKE ? ESCAPE '\\' OR LOWER(category) LIKE ? ESCAPE '\\'", like, like, like).
		Order("sku").
		Find(&items).Error
	return items, wrap("inventory search", err)
}

// Item returns the detail view of one SKU.
func (r *InventoryRepository) Item(ctx context.Context, sku string) (models.InventoryDetails, error) {
	defer metrics.ObserveDBQuery("inventory.item", time.Now())

	var item models.InventoryItem
	err := r.query(ctx).Where("sku = ?", sku).First(&item).Error
	if err != nil {
		return models.InventoryDetails{}, wrap("inventory item "+sku, err)
	}

	d := models.InventoryDetails{InventoryItem: item, ReorderLevel: item.ReorderLevel}
	if item.LeadTimeDays > 0 {
		d.LeadTime = fmt.Sprintf("%d days", item.LeadTimeDays)
	}
	return d, nil
}

// Alternatives returns the substitutes of primarySku, or all of them when
// primarySku is empty.
func (r *InventoryRepository) Alternatives(ctx context.Context, primarySku string) ([]models.AlternativeSku, error) {
	defer metrics.ObserveDBQuery("inventory.alternatives", time.Now())

	alts := []models.AlternativeSku{}
	q := r.query(ctx).Order("primary_sku, alternative_sku")
	if primarySku != "" {
		q = q.Where("primary_sku = ?", primarySku)
	}
	return alts, wrap("alternatives", q.Find(&alts).Error)
}

// Warehouses returns the per-location aggregates.
func (r *InventoryRepository) Warehouses(ctx context.Context) ([]models.WarehouseStock, error) {
	defer metrics.ObserveDBQuery("warehouses.all", time.Now())

	rows := []models.WarehouseStock{}
	return rows, wrap("warehouses", r.query(ctx).Order("warehouse_name").Find(&rows).Error)
}

// Warehouse returns one warehouse with the SKUs stored in its bins. A bin
// location is the warehouse name followed by "-<bin>".
func (r *InventoryRepository) Warehouse(ctx context.Context, name string) (models.WarehouseDetails, error) {
	defer metrics.ObserveDBQuery("warehouses.details", time.Now())

	var w models.WarehouseStock
	if err := r.query(ctx).Where("warehouse_name = ?", name).First(&w).Error; err != nil {
		return models.WarehouseDetails{}, wrap("warehouse "+name, err)
	}

	var stock []models.InventoryItem
	err := r.query(ctx).
		Where("location LIKE ? ESCAPE '\\'", escapeLike(name)+"-%").
		Order("sku").
		Find(&stock).Error
	if err != nil {
		return models.WarehouseDetails{}, wrap("warehouse items "+name, err)
	}

	d := models.WarehouseDetails{
		WarehouseName: w.WarehouseName,
		Location:      w.Location,
		Manager:       w.Manager,
		Status:        w.Status,
		Capacity:      w.Capacity,
		Items:         make([]models.WarehouseItem, 0, len(stock)),
	}
	for _, it := range stock {
		d.Items = append(d.Items, models.WarehouseItem{SKU: it.SKU, Quantity: it.QuantityOnHand, Value: it.TotalValue})
	}
	return d, nil
}

// InventoryByCategory aggregates on-hand and available quantities per
// category. Reserved is on-hand minus available.
func (r *InventoryRepository) InventoryByCategory(ctx context.Context) ([]models.CategoryStock, error) {
	defer metrics.ObserveDBQuery("analytics.inventory", time.Now())

	var rows []struct {
		Category  string
		OnHand    int
		Available int
	}
	err := r.query(ctx).Model(&models.InventoryItem{}).
		Select("category, SUM(quantity_on_hand) AS on_hand, SUM(quantity_available) AS available").
		Group("category").
		Order("category").
		Scan(&rows).Error
	if err != nil {
		return nil, wrap("inventory by category", err)
	}

	out := make([]models.CategoryStock, len(rows))
	for i, row := range rows {
		out[i] = models.CategoryStock{
			Category:  row.Category,
			OnHand:    row.OnHand,
			Reserved:  row.OnHand - row.Available,
			Available: row.Available,
		}
	}
	return out, nil
}

// CostByMonth returns the monthly cost series in calendar order.
func (r *InventoryRepository) CostByMonth(ctx context.Context) ([]models.MonthlyCost, error) {
	defer metrics.ObserveDBQuery("analytics.cost", time.Now())

	rows := []models.MonthlyCost{}
	return rows, wrap("cost by month", r.query(ctx).Order("position").Find(&rows).Error)
}

func wrap(what string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	default:
		return fmt.Errorf("repositories: %s: %w", what, err)
	}
}

// escapeLike escapes LIKE wildcards in user input; '\' is the escape char.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
