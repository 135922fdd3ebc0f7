package collection_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/stockroom/pkg/collection"
)

type line struct {
	SKU   string
	Qty   int
	Value decimal.Decimal
}

var lines = []line{
	{"SKU-1", 5, decimal.RequireFromString("10.50")},
	{"SKU-2", 0, decimal.RequireFromString("0.25")},
	{"SKU-1", 3, decimal.RequireFromString("4.00")},
}

func TestFilter_NeverNil(t *testing.T) {
	none := collection.Filter(lines, func(l line) bool { return false })
	assert.NotNil(t, none)
	assert.Empty(t, none)

	in := collection.Filter(lines, func(l line) bool { return l.Qty > 0 })
	assert.Len(t, in, 2)
}

func TestAggregates(t *testing.T) {
	assert.Equal(t, 8, collection.SumInt(lines, func(l line) int { return l.Qty }))
	assert.Equal(t, "14.75", collection.SumDecimal(lines, func(l line) decimal.Decimal { return l.Value }).StringFixed(2))
	assert.Equal(t, 1, collection.Count(lines, func(l line) bool { return l.Qty == 0 }))
}

func TestUniqueByAndGroupBy(t *testing.T) {
	sku := func(l line) string { return l.SKU }

	uniq := collection.UniqueBy(lines, sku)
	assert.Equal(t, []string{"SKU-1", "SKU-2"}, collection.Map(uniq, sku))
	assert.Equal(t, 5, uniq[0].Qty)

	groups := collection.GroupBy(lines, sku)
	assert.Len(t, groups["SKU-1"], 2)

	byKey := collection.KeyBy(lines, sku)
	assert.Equal(t, 3, byKey["SKU-1"].Qty)
}

func TestFirstAndContains(t *testing.T) {
	got, ok := collection.First(lines, func(l line) bool { return l.SKU == "SKU-2" })
	assert.True(t, ok)
	assert.Equal(t, 0, got.Qty)
	assert.False(t, collection.Contains(lines, func(l line) bool { return l.SKU == "SKU-9" }))
}
