package services_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/stockroom/app/models"
	"github.com/shashiranjanraj/stockroom/app/samples"
	"github.com/shashiranjanraj/stockroom/app/services"
	"github.com/shashiranjanraj/stockroom/pkg/apiclient"
	"github.com/shashiranjanraj/stockroom/pkg/cache"
	"github.com/shashiranjanraj/stockroom/pkg/testkit"
)

func noSleep(context.Context, time.Duration) error { return nil }

func newServices(mt *testkit.MockTransport, store cache.Store) *services.Services {
	client := apiclient.New(apiclient.Config{
		BaseURL: "http://upstream.test/api",
		Timeout: time.Second,
		Retry:   apiclient.RetryConfig{Enabled: true, MaxAttempts: 3, Delay: time.Millisecond},
	}, apiclient.WithTransport(mt), apiclient.WithSleeper(noSleep))
	return services.New(client, services.Options{Cache: store, CacheTTL: time.Minute})
}

func TestInventoryItems_Success(t *testing.T) {
	mt := testkit.NewMockTransport().On("/api/inventory", testkit.JSON(http.StatusOK, samples.Inventory()[:2]))
	svc := newServices(mt, nil)

	res := svc.Inventory.Items(context.Background())

	assert.Equal(t, services.StatusSuccess, res.Status)
	assert.False(t, res.Fallback)
	assert.Empty(t, res.Err)
	require.Len(t, res.Data, 2)
	assert.Equal(t, "SKU-12345", res.Data[0].SKU)
}

func TestInventoryItems_EmptyArrayIsEmpty(t *testing.T) {
	mt := testkit.NewMockTransport().On("/api/inventory", testkit.Reply{Status: 200, Body: `[]`})
	res := newServices(mt, nil).Inventory.Items(context.Background())

	assert.Equal(t, services.StatusEmpty, res.Status)
	assert.Empty(t, res.Data)
	assert.False(t, res.Fallback)
}

func TestInventoryItems_NetworkFailureServesSamples(t *testing.T) {
	mt := testkit.NewMockTransport().On("/api/inventory", testkit.NetworkError())
	res := newServices(mt, nil).Inventory.Items(context.Background())

	assert.Equal(t, services.StatusError, res.Status)
	assert.True(t, res.Fallback)
	assert.NotEmpty(t, res.Err)
	assert.Equal(t, samples.Inventory(), res.Data)
	assert.Equal(t, 3, mt.Calls("/api/inventory"))
}

func TestInventoryItems_NullBodyIsMissingPayload(t *testing.T) {
	mt := testkit.NewMockTransport().On("/api/inventory", testkit.Reply{Status: 200, Body: `null`})
	res := newServices(mt, nil).Inventory.Items(context.Background())

	assert.Equal(t, services.StatusError, res.Status)
	assert.Equal(t, services.ErrMissingPayload.Error(), res.Err)
	assert.True(t, res.Fallback)
}

func TestOpenOrders_UnwrapsOrdersMember(t *testing.T) {
	mt := testkit.NewMockTransport().On("/orders/open",
		testkit.JSON(http.StatusOK, map[string]any{"orders": samples.OpenOrders()}))
	res := newServices(mt, nil).Orders.Open(context.Background())

	assert.Equal(t, services.StatusSuccess, res.Status)
	assert.Len(t, res.Data, len(samples.OpenOrders()))
}

func TestOpenOrders_FailureServesEmptyList(t *testing.T) {
	mt := testkit.NewMockTransport().On("/orders/open", testkit.Status(http.StatusInternalServerError))
	res := newServices(mt, nil).Orders.Open(context.Background())

	assert.Equal(t, services.StatusError, res.Status)
	assert.False(t, res.Fallback)
	assert.NotNil(t, res.Data)
	assert.Empty(t, res.Data)
	assert.Equal(t, "API Error: 500 Internal Server Error", res.Err)
	assert.Equal(t, 1, mt.Calls("/orders/open"))
}

func TestOpenOrders_BareArrayIsMissingPayload(t *testing.T) {
	mt := testkit.NewMockTransport().On("/orders/open", testkit.JSON(http.StatusOK, map[string]any{"items": []any{}}))
	res := newServices(mt, nil).Orders.Open(context.Background())

	assert.Equal(t, services.StatusError, res.Status)
	assert.Equal(t, services.ErrMissingPayload.Error(), res.Err)
}

func TestAlternatives_UnwrapsMemberAndSendsFilter(t *testing.T) {
	mt := testkit.NewMockTransport().On("/inventory/alternatives",
		testkit.JSON(http.StatusOK, map[string]any{"alternatives": samples.Alternatives()[:1]}))
	res := newServices(mt, nil).Inventory.Alternatives(context.Background(), "SKU-12345")

	assert.Equal(t, services.StatusSuccess, res.Status)
	require.Len(t, res.Data, 1)

	reqs := mt.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "primarySku=SKU-12345", reqs[0].Query)
}

func TestAlternatives_FailureFiltersSamplesByPrimary(t *testing.T) {
	mt := testkit.NewMockTransport().On("/inventory/alternatives", testkit.Status(http.StatusNotFound))
	res := newServices(mt, nil).Inventory.Alternatives(context.Background(), "SKU-12345")

	assert.Equal(t, services.StatusError, res.Status)
	assert.True(t, res.Fallback)
	for _, a := range res.Data {
		assert.Equal(t, "SKU-12345", a.PrimarySku)
	}
}

func TestSampleFallbackServices(t *testing.T) {
	mt := testkit.NewMockTransport().On("", testkit.Status(http.StatusServiceUnavailable))
	svc := newServices(mt, nil)
	ctx := context.Background()

	purchase := svc.Orders.Purchase(ctx)
	assert.True(t, purchase.Fallback)
	assert.Equal(t, samples.PurchaseOrders(), purchase.Data)

	leads := svc.Leads.Leads(ctx)
	assert.True(t, leads.Fallback)
	assert.Equal(t, samples.Leads(), leads.Data)

	opps := svc.Leads.Opportunities(ctx)
	assert.True(t, opps.Fallback)
	assert.Equal(t, samples.Opportunities(), opps.Data)

	stock := svc.Warehouse.Stock(ctx)
	assert.True(t, stock.Fallback)
	assert.Equal(t, samples.Warehouses(), stock.Data)

	byCat := svc.Analytics.InventoryByCategory(ctx)
	assert.True(t, byCat.Fallback)
	assert.Equal(t, samples.InventoryByCategory(), byCat.Data)

	cost := svc.Analytics.CostByMonth(ctx)
	assert.True(t, cost.Fallback)
	assert.Equal(t, samples.CostByMonth(), cost.Data)

	for _, r := range []services.Status{purchase.Status, leads.Status, opps.Status, stock.Status, byCat.Status, cost.Status} {
		assert.Equal(t, services.StatusError, r)
	}
}

func TestSearch_BlankQueryMakesNoCall(t *testing.T) {
	mt := testkit.NewMockTransport()
	mt.Strict = true

	res := newServices(mt, nil).Search.Inventory(context.Background(), "   ")

	assert.Equal(t, services.StatusEmpty, res.Status)
	assert.Empty(t, res.Data)
	assert.Equal(t, 0, mt.Total())
}

func TestSearch_EncodesQuery(t *testing.T) {
	mt := testkit.NewMockTransport().On("/inventory/search", testkit.JSON(http.StatusOK, samples.Search("widget")))
	res := newServices(mt, nil).Search.Inventory(context.Background(), " widget a ")

	assert.Equal(t, services.StatusSuccess, res.Status)
	reqs := mt.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "q=widget+a", reqs[0].Query)
}

func TestSearch_FailureFiltersSamples(t *testing.T) {
	mt := testkit.NewMockTransport().On("/inventory/search", testkit.NetworkError())
	res := newServices(mt, nil).Search.Inventory(context.Background(), "sku-12345")

	assert.Equal(t, services.StatusError, res.Status)
	assert.True(t, res.Fallback)
	require.Len(t, res.Data, 1)
	assert.Equal(t, "SKU-12345", res.Data[0].SKU)
}

func TestSearch_FailureWithNoSampleMatchIsEmptyFallback(t *testing.T) {
	mt := testkit.NewMockTransport().On("/inventory/search", testkit.NetworkError())
	res := newServices(mt, nil).Search.Inventory(context.Background(), "no-such-thing")

	assert.Equal(t, services.StatusError, res.Status)
	assert.NotNil(t, res.Data)
	assert.Empty(t, res.Data)
}

func TestDetails_WarehouseLiveAndFallback(t *testing.T) {
	live := models.WarehouseDetails{WarehouseName: "Warehouse C", Location: "Chicago, IL", Capacity: 40}
	mt := testkit.NewMockTransport().
		On("/warehouses/Warehouse C", testkit.JSON(http.StatusOK, live)).
		On("/warehouses/Nowhere", testkit.Status(http.StatusNotFound))
	svc := newServices(mt, nil)
	ctx := context.Background()

	res := svc.Details.Warehouse(ctx, "Warehouse C")
	assert.Equal(t, services.StatusSuccess, res.Status)
	assert.Equal(t, live, res.Data)

	miss := svc.Details.Warehouse(ctx, "Nowhere")
	assert.Equal(t, services.StatusError, miss.Status)
	assert.True(t, miss.Fallback)
	assert.Equal(t, "Warehouse A", miss.Data.WarehouseName)
}

func TestDetails_InventoryFallsBackToKnownSku(t *testing.T) {
	mt := testkit.NewMockTransport().On("", testkit.NetworkError())
	svc := newServices(mt, nil)

	res := svc.Details.Inventory(context.Background(), "SKU-23456")
	assert.True(t, res.Fallback)
	assert.Equal(t, "SKU-23456", res.Data.SKU)
	assert.Equal(t, "7 days", res.Data.LeadTime)

	other := svc.Details.Inventory(context.Background(), "SKU-00000")
	assert.Equal(t, "SKU-12345", other.Data.SKU)
}

func TestCache_HitSkipsUpstream(t *testing.T) {
	mt := testkit.NewMockTransport().On("/api/leads", testkit.JSON(http.StatusOK, samples.Leads()))
	svc := newServices(mt, cache.NewMemory())
	ctx := context.Background()

	first := svc.Leads.Leads(ctx)
	second := svc.Leads.Leads(ctx)

	assert.Equal(t, services.StatusSuccess, first.Status)
	assert.Equal(t, services.StatusSuccess, second.Status)
	assert.Len(t, second.Data, len(samples.Leads()))
	assert.Equal(t, 1, mt.Calls("/api/leads"))
}

func TestCache_FailuresAreNotCached(t *testing.T) {
	mt := testkit.NewMockTransport().On("/api/leads",
		testkit.Status(http.StatusBadGateway),
		testkit.JSON(http.StatusOK, samples.Leads()))
	svc := newServices(mt, cache.NewMemory())
	ctx := context.Background()

	assert.Equal(t, services.StatusError, svc.Leads.Leads(ctx).Status)
	assert.Equal(t, services.StatusSuccess, svc.Leads.Leads(ctx).Status)
	assert.Equal(t, 2, mt.Calls("/api/leads"))
}
