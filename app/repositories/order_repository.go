package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/stockroom/app/models"
	"github.com/shashiranjanraj/stockroom/pkg/metrics"
)

// OrderRepository reads customer orders, purchase orders and the CRM tables.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// bySKU narrows q to column = sku when sku is set.
func bySKU(q *gorm.DB, column, sku string) *gorm.DB {
	if sku == "" {
		return q
	}
	return q.Where(column+" = ?", sku)
}

// OpenOrders returns unfulfilled customer orders, newest first.
func (r *OrderRepository) OpenOrders(ctx context.Context, sku string) ([]models.OpenOrder, error) {
	defer metrics.ObserveDBQuery("orders.open", time.Now())

	rows := []models.OpenOrder{}
	q := bySKU(r.db.WithContext(ctx), "sku", sku).Order("order_date desc, order_number")
	return rows, wrap("open orders", q.Find(&rows).Error)
}

// PurchaseOrders returns supplier orders, newest first.
func (r *OrderRepository) PurchaseOrders(ctx context.Context, sku string) ([]models.PurchaseOrder, error) {
	defer metrics.ObserveDBQuery("orders.purchase", time.Now())

	rows := []models.PurchaseOrder{}
	q := bySKU(r.db.WithContext(ctx), "sku", sku).Order("order_date desc, po_number")
	return rows, wrap("purchase orders", q.Find(&rows).Error)
}

func (r *OrderRepository) Leads(ctx context.Context, sku string) ([]models.Lead, error) {
	defer metrics.ObserveDBQuery("crm.leads", time.Now())

	rows := []models.Lead{}
	q := bySKU(r.db.WithContext(ctx), "interested_sku", sku).Order("lead_id")
	return rows, wrap("leads", q.Find(&rows).Error)
}

func (r *OrderRepository) Opportunities(ctx context.Context, sku string) ([]models.Opportunity, error) {
	defer metrics.ObserveDBQuery("crm.opportunities", time.Now())

	rows := []models.Opportunity{}
	q := bySKU(r.db.WithContext(ctx), "sku", sku).Order("opportunity_id")
	return rows, wrap("opportunities", q.Find(&rows).Error)
}
