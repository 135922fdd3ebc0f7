package repositories_test

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/stockroom/app/models"
	"github.com/shashiranjanraj/stockroom/app/repositories"
	"github.com/shashiranjanraj/stockroom/database/seeders"
	"github.com/shashiranjanraj/stockroom/pkg/database"
)

func seededDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open("sqlite", "file::memory:")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	require.NoError(t, seeders.RunAll(db, io.Discard))
	return db
}

func TestInventory_SearchIsCaseInsensitiveAcrossColumns(t *testing.T) {
	repo := repositories.NewInventoryRepository(seededDB(t))
	ctx := context.Background()

	bySKU, err := repo.Search(ctx, "sku-123")
	require.NoError(t, err)
	require.Len(t, bySKU, 1)
	assert.Equal(t, "SKU-12345", bySKU[0].SKU)

	byCategory, err := repo.Search(ctx, "ELECTRONICS")
	require.NoError(t, err)
	assert.Len(t, byCategory, 2)

	none, err := repo.Search(ctx, "100%")
	require.NoError(t, err)
	assert.Empty(t, none)

	blank, err := repo.Search(ctx, "   ")
	require.NoError(t, err)
	assert.NotNil(t, blank)
	assert.Empty(t, blank)
}

func TestInventory_ItemDetails(t *testing.T) {
	repo := repositories.NewInventoryRepository(seededDB(t))

	d, err := repo.Item(context.Background(), "SKU-23456")
	require.NoError(t, err)
	assert.Equal(t, "Standard Gadget", d.ProductName)
	assert.Equal(t, 50, d.ReorderLevel)
	assert.Equal(t, "7 days", d.LeadTime)

	_, err = repo.Item(context.Background(), "SKU-00000")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestInventory_WarehouseItemsByBinPrefix(t *testing.T) {
	repo := repositories.NewInventoryRepository(seededDB(t))

	d, err := repo.Warehouse(context.Background(), "Warehouse B")
	require.NoError(t, err)
	assert.Equal(t, "Los Angeles, CA", d.Location)

	skus := make([]string, 0, len(d.Items))
	for _, it := range d.Items {
		skus = append(skus, it.SKU)
	}
	assert.Equal(t, []string{"SKU-23456", "SKU-56789"}, skus)
}

func TestInventory_Analytics(t *testing.T) {
	repo := repositories.NewInventoryRepository(seededDB(t))
	ctx := context.Background()

	cats, err := repo.InventoryByCategory(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, cats)
	assert.Equal(t, models.CategoryStock{Category: "Accessories", OnHand: 89, Reserved: 44, Available: 45}, cats[0])

	months, err := repo.CostByMonth(ctx)
	require.NoError(t, err)
	require.Len(t, months, 6)
	assert.Equal(t, "Jan", months[0].Month)
	assert.Equal(t, "Jun", months[5].Month)
}

func TestInventory_AlternativesFilter(t *testing.T) {
	repo := repositories.NewInventoryRepository(seededDB(t))

	alts, err := repo.Alternatives(context.Background(), "SKU-12345")
	require.NoError(t, err)
	assert.Len(t, alts, 2)

	all, err := repo.Alternatives(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestOrders_FilterBySKU(t *testing.T) {
	repo := repositories.NewOrderRepository(seededDB(t))
	ctx := context.Background()

	open, err := repo.OpenOrders(ctx, "")
	require.NoError(t, err)
	require.Len(t, open, 3)
	assert.Equal(t, "ORD-1003", open[0].OrderNumber)

	pos, err := repo.PurchaseOrders(ctx, "SKU-45678")
	require.NoError(t, err)
	require.Len(t, pos, 1)
	assert.Equal(t, "PO-5002", pos[0].PONumber)

	leads, err := repo.Leads(ctx, "SKU-34567")
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "Innovation Labs", leads[0].CompanyName)

	opps, err := repo.Opportunities(ctx, "SKU-99999")
	require.NoError(t, err)
	assert.Empty(t, opps)
}
