package samples_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/stockroom/app/samples"
)

func TestSearch_MatchesSkuNameOrCategory(t *testing.T) {
	assert.Len(t, samples.Search("electronics"), 2)
	assert.Len(t, samples.Search("gadget"), 1)
	assert.Len(t, samples.Search("sku-4"), 1)
	assert.Empty(t, samples.Search("zzz"))
	assert.Len(t, samples.Search("  "), 5)
}

func TestDetailsFallBackToFirstSample(t *testing.T) {
	assert.Equal(t, "Warehouse B", samples.WarehouseDetails("Warehouse B").WarehouseName)
	assert.Equal(t, "Warehouse A", samples.WarehouseDetails("Nowhere").WarehouseName)

	d := samples.InventoryDetails("SKU-23456")
	assert.Equal(t, 50, d.ReorderLevel)
	assert.Equal(t, "7 days", d.LeadTime)

	d = samples.InventoryDetails("SKU-00000")
	assert.Equal(t, "SKU-12345", d.SKU)
	assert.Equal(t, "14 days", d.LeadTime)
}

func TestAccessorsReturnCopies(t *testing.T) {
	a := samples.WarehouseDetails("Warehouse A")
	a.Items[0].SKU = "changed"
	assert.Equal(t, "SKU-12345", samples.WarehouseDetails("Warehouse A").Items[0].SKU)
}
