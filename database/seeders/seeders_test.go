package seeders_test

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/stockroom/app/models"
	"github.com/shashiranjanraj/stockroom/app/samples"
	"github.com/shashiranjanraj/stockroom/database/seeders"
	"github.com/shashiranjanraj/stockroom/pkg/database"
)

func TestRunAll_SeedsSamplesIdempotently(t *testing.T) {
	db, err := database.Open("sqlite", "file::memory:")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))

	require.NoError(t, seeders.RunAll(db, io.Discard))
	require.NoError(t, seeders.RunAll(db, io.Discard))

	var n int64
	require.NoError(t, db.Model(&models.InventoryItem{}).Count(&n).Error)
	assert.EqualValues(t, len(samples.Inventory()), n)

	require.NoError(t, db.Model(&models.AlternativeSku{}).Count(&n).Error)
	assert.EqualValues(t, len(samples.Alternatives()), n)

	var item models.InventoryItem
	require.NoError(t, db.Where("sku = ?", "SKU-12345").First(&item).Error)
	assert.Equal(t, "Premium Widget Pro", item.ProductName)
	assert.Equal(t, "45.99", item.UnitCost.StringFixed(2))
}

func TestNames_RegistrationOrder(t *testing.T) {
	names := seeders.Names()
	require.NotEmpty(t, names)
	assert.Equal(t, "sku_inventory", names[0])
}
