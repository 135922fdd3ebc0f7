package controllers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/stockroom/app/models"
	"github.com/shashiranjanraj/stockroom/app/routes"
	"github.com/shashiranjanraj/stockroom/database/seeders"
	"github.com/shashiranjanraj/stockroom/internal/kernel"
	"github.com/shashiranjanraj/stockroom/pkg/database"
	"github.com/shashiranjanraj/stockroom/pkg/router"
	"github.com/shashiranjanraj/stockroom/pkg/testkit"
)

func seededDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open("sqlite", "file::memory:")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	require.NoError(t, seeders.RunAll(db, io.Discard))
	return db
}

func apiHandler(t *testing.T) http.Handler {
	t.Helper()
	db := seededDB(t)
	k, err := kernel.New(kernel.Options{RateLimit: 1000}, func(r *router.Router) error {
		return routes.RegisterAPI(r, db)
	})
	require.NoError(t, err)
	return k.Handler()
}

func TestAPI_ListsAreBareArrays(t *testing.T) {
	h := apiHandler(t)

	rec := testkit.Serve(t, h, http.MethodGet, "/api/inventory", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var items []models.InventoryItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	assert.Len(t, items, 5)

	rec = testkit.Serve(t, h, http.MethodGet, "/api/inventory/search?q=widget", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "SKU-12345", items[0].SKU)
}

func TestAPI_WrappedMembers(t *testing.T) {
	h := apiHandler(t)

	rec := testkit.Serve(t, h, http.MethodGet, "/api/orders/open?sku=SKU-12345", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var orders struct {
		Orders []models.OpenOrder `json:"orders"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
	require.Len(t, orders.Orders, 1)
	assert.Equal(t, "ORD-1001", orders.Orders[0].OrderNumber)

	rec = testkit.Serve(t, h, http.MethodGet, "/api/inventory/alternatives?primarySku=SKU-23456", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var alts struct {
		Alternatives []models.AlternativeSku `json:"alternatives"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &alts))
	require.Len(t, alts.Alternatives, 1)
	assert.Equal(t, "SKU-23457", alts.Alternatives[0].AlternativeSku)
}

func TestAPI_Details(t *testing.T) {
	h := apiHandler(t)

	rec := testkit.Serve(t, h, http.MethodGet, "/api/inventory/SKU-12345", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var d models.InventoryDetails
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &d))
	assert.Equal(t, "14 days", d.LeadTime)

	rec = testkit.Serve(t, h, http.MethodGet, "/api/inventory/SKU-00000", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	env := testkit.DecodeEnvelope(t, rec, nil)
	assert.Equal(t, http.StatusNotFound, env.Status)

	rec = testkit.Serve(t, h, http.MethodGet, "/api/warehouses/Warehouse%20B", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var wh models.WarehouseDetails
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &wh))
	assert.Equal(t, "Los Angeles, CA", wh.Location)
}

func TestAPI_RejectsOverlongFilter(t *testing.T) {
	h := apiHandler(t)

	long := make([]byte, 101)
	for i := range long {
		long[i] = 'x'
	}
	rec := testkit.Serve(t, h, http.MethodGet, "/api/leads?sku="+string(long), nil)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	env := testkit.DecodeEnvelope(t, rec, nil)
	assert.Contains(t, env.Errors, "sku")
}

func TestAPI_GraphQL(t *testing.T) {
	h := apiHandler(t)

	rec := testkit.Serve(t, h, http.MethodPost, "/api/graphql", map[string]any{
		"query": `query($sku: String!) { item(sku: $sku) { sku productName leadTime } openOrders(sku: $sku) { orderNumber } }`,
		"variables": map[string]any{"sku": "SKU-12345"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out struct {
		Data struct {
			Item struct {
				SKU         string `json:"sku"`
				ProductName string `json:"productName"`
				LeadTime    string `json:"leadTime"`
			} `json:"item"`
			OpenOrders []struct {
				OrderNumber string `json:"orderNumber"`
			} `json:"openOrders"`
		} `json:"data"`
		Errors []any `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Empty(t, out.Errors)
	assert.Equal(t, "Premium Widget Pro", out.Data.Item.ProductName)
	assert.Equal(t, "14 days", out.Data.Item.LeadTime)
	require.Len(t, out.Data.OpenOrders, 1)
	assert.Equal(t, "ORD-1001", out.Data.OpenOrders[0].OrderNumber)

	rec = testkit.Serve(t, h, http.MethodPost, "/api/graphql", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
