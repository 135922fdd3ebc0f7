package services

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/shashiranjanraj/stockroom/app/models"
	"github.com/shashiranjanraj/stockroom/app/samples"
	"github.com/shashiranjanraj/stockroom/config"
	"github.com/shashiranjanraj/stockroom/pkg/apiclient"
	"github.com/shashiranjanraj/stockroom/pkg/cache"
	"github.com/shashiranjanraj/stockroom/pkg/collection"
)

// Endpoints are the inventory API paths, relative to the client base URL.
type Endpoints struct {
	Warehouses       string
	Inventory        string
	InventorySearch  string
	Alternatives     string
	OpenOrders       string
	PurchaseOrders   string
	Leads            string
	Opportunities    string
	AnalyticsByStock string
	AnalyticsCost    string
}

func DefaultEndpoints() Endpoints {
	return Endpoints{
		Warehouses:       "/warehouses",
		Inventory:        "/inventory",
		InventorySearch:  "/inventory/search",
		Alternatives:     "/inventory/alternatives",
		OpenOrders:       "/orders/open",
		PurchaseOrders:   "/orders/purchase",
		Leads:            "/leads",
		Opportunities:    "/opportunities",
		AnalyticsByStock: "/analytics/inventory",
		AnalyticsCost:    "/analytics/cost",
	}
}

// EndpointsFromEnv applies ENDPOINT_<NAME> overrides to the defaults.
func EndpointsFromEnv() Endpoints {
	d := DefaultEndpoints()
	return Endpoints{
		Warehouses:       config.Endpoint("warehouses", d.Warehouses),
		Inventory:        config.Endpoint("inventory", d.Inventory),
		InventorySearch:  config.Endpoint("inventory_search", d.InventorySearch),
		Alternatives:     config.Endpoint("alternatives", d.Alternatives),
		OpenOrders:       config.Endpoint("open_orders", d.OpenOrders),
		PurchaseOrders:   config.Endpoint("purchase_orders", d.PurchaseOrders),
		Leads:            config.Endpoint("leads", d.Leads),
		Opportunities:    config.Endpoint("opportunities", d.Opportunities),
		AnalyticsByStock: config.Endpoint("analytics_inventory", d.AnalyticsByStock),
		AnalyticsCost:    config.Endpoint("analytics_cost", d.AnalyticsCost),
	}
}

// Options configures New.
type Options struct {
	Endpoints Endpoints
	Cache     cache.Store
	CacheTTL  time.Duration
}

// Services groups one service per resource over a shared client.
type Services struct {
	Inventory *InventoryService
	Orders    *OrderService
	Leads     *LeadService
	Warehouse *WarehouseService
	Analytics *AnalyticsService
	Search    *SearchService
	Details   *DetailsService
}

func New(client *apiclient.Client, opts Options) *Services {
	if opts.Cache == nil {
		opts.Cache = cache.Nop{}
	}
	if opts.Endpoints == (Endpoints{}) {
		opts.Endpoints = DefaultEndpoints()
	}
	b := &base{client: client, cache: opts.Cache, ttl: opts.CacheTTL}
	ep := opts.Endpoints
	return &Services{
		Inventory: &InventoryService{base: b, ep: ep},
		Orders:    &OrderService{base: b, ep: ep},
		Leads:     &LeadService{base: b, ep: ep},
		Warehouse: &WarehouseService{base: b, ep: ep},
		Analytics: &AnalyticsService{base: b, ep: ep},
		Search:    &SearchService{base: b, ep: ep},
		Details:   &DetailsService{base: b, ep: ep},
	}
}

// FromEnv wires services from configuration.
func FromEnv(store cache.Store) *Services {
	return New(apiclient.New(apiclient.ConfigFromEnv()), Options{
		Endpoints: EndpointsFromEnv(),
		Cache:     store,
		CacheTTL:  config.CacheTTL(),
	})
}

func withQuery(endpoint, key, value string) string {
	if value == "" {
		return endpoint
	}
	return endpoint + "?" + url.Values{key: {value}}.Encode()
}

// ─── Inventory ───────────────────────────────────────────────────────────────

type InventoryService struct {
	*base
	ep Endpoints
}

func (s *InventoryService) Items(ctx context.Context) Result[[]models.InventoryItem] {
	return call[[]models.InventoryItem, []models.InventoryItem]{
		resource: "inventory",
		endpoint: s.ep.Inventory,
		unwrap:   bare[models.InventoryItem],
		size:     count[models.InventoryItem],
		fallback: sample(samples.Inventory),
	}.run(ctx, s.base)
}

// Alternatives lists substitutes, limited to primarySku when it is set.
func (s *InventoryService) Alternatives(ctx context.Context, primarySku string) Result[[]models.AlternativeSku] {
	return call[alternativesEnvelope[models.AlternativeSku], []models.AlternativeSku]{
		resource: "alternatives",
		endpoint: withQuery(s.ep.Alternatives, "primarySku", primarySku),
		unwrap:   alternativesMember[models.AlternativeSku],
		size:     count[models.AlternativeSku],
		fallback: sample(func() []models.AlternativeSku {
			if primarySku == "" {
				return samples.Alternatives()
			}
			return collection.Filter(samples.Alternatives(), func(a models.AlternativeSku) bool {
				return a.PrimarySku == primarySku
			})
		}),
	}.run(ctx, s.base)
}

// ─── Orders ──────────────────────────────────────────────────────────────────

type OrderService struct {
	*base
	ep Endpoints
}

// Open lists open orders. On failure it serves an empty list, not samples.
func (s *OrderService) Open(ctx context.Context) Result[[]models.OpenOrder] {
	return call[ordersEnvelope[models.OpenOrder], []models.OpenOrder]{
		resource: "open_orders",
		endpoint: s.ep.OpenOrders,
		unwrap:   ordersMember[models.OpenOrder],
		size:     count[models.OpenOrder],
		fallback: emptyList[models.OpenOrder],
	}.run(ctx, s.base)
}

func (s *OrderService) Purchase(ctx context.Context) Result[[]models.PurchaseOrder] {
	return call[[]models.PurchaseOrder, []models.PurchaseOrder]{
		resource: "purchase_orders",
		endpoint: s.ep.PurchaseOrders,
		unwrap:   bare[models.PurchaseOrder],
		size:     count[models.PurchaseOrder],
		fallback: sample(samples.PurchaseOrders),
	}.run(ctx, s.base)
}

// ─── Leads & opportunities ───────────────────────────────────────────────────

type LeadService struct {
	*base
	ep Endpoints
}

func (s *LeadService) Leads(ctx context.Context) Result[[]models.Lead] {
	return call[[]models.Lead, []models.Lead]{
		resource: "leads",
		endpoint: s.ep.Leads,
		unwrap:   bare[models.Lead],
		size:     count[models.Lead],
		fallback: sample(samples.Leads),
	}.run(ctx, s.base)
}

func (s *LeadService) Opportunities(ctx context.Context) Result[[]models.Opportunity] {
	return call[[]models.Opportunity, []models.Opportunity]{
		resource: "opportunities",
		endpoint: s.ep.Opportunities,
		unwrap:   bare[models.Opportunity],
		size:     count[models.Opportunity],
		fallback: sample(samples.Opportunities),
	}.run(ctx, s.base)
}

// ─── Warehouses ──────────────────────────────────────────────────────────────

type WarehouseService struct {
	*base
	ep Endpoints
}

func (s *WarehouseService) Stock(ctx context.Context) Result[[]models.WarehouseStock] {
	return call[[]models.WarehouseStock, []models.WarehouseStock]{
		resource: "warehouses",
		endpoint: s.ep.Warehouses,
		unwrap:   bare[models.WarehouseStock],
		size:     count[models.WarehouseStock],
		fallback: sample(samples.Warehouses),
	}.run(ctx, s.base)
}

// ─── Analytics ───────────────────────────────────────────────────────────────

type AnalyticsService struct {
	*base
	ep Endpoints
}

func (s *AnalyticsService) InventoryByCategory(ctx context.Context) Result[[]models.CategoryStock] {
	return call[[]models.CategoryStock, []models.CategoryStock]{
		resource: "analytics_inventory",
		endpoint: s.ep.AnalyticsByStock,
		unwrap:   bare[models.CategoryStock],
		size:     count[models.CategoryStock],
		fallback: sample(samples.InventoryByCategory),
	}.run(ctx, s.base)
}

func (s *AnalyticsService) CostByMonth(ctx context.Context) Result[[]models.MonthlyCost] {
	return call[[]models.MonthlyCost, []models.MonthlyCost]{
		resource: "analytics_cost",
		endpoint: s.ep.AnalyticsCost,
		unwrap:   bare[models.MonthlyCost],
		size:     count[models.MonthlyCost],
		fallback: sample(samples.CostByMonth),
	}.run(ctx, s.base)
}

// ─── Search ──────────────────────────────────────────────────────────────────

type SearchService struct {
	*base
	ep Endpoints
}

// Inventory searches SKUs, product names and categories. A blank query is
// empty without a network call. On failure the samples matching q are
// served.
func (s *SearchService) Inventory(ctx context.Context, q string) Result[[]models.InventoryItem] {
	q = strings.TrimSpace(q)
	if q == "" {
		return Result[[]models.InventoryItem]{Status: StatusEmpty, Data: []models.InventoryItem{}}
	}
	return call[[]models.InventoryItem, []models.InventoryItem]{
		resource: "inventory_search",
		endpoint: withQuery(s.ep.InventorySearch, "q", q),
		unwrap:   bare[models.InventoryItem],
		size:     count[models.InventoryItem],
		fallback: sample(func() []models.InventoryItem { return nonNil(samples.Search(q)) }),
	}.run(ctx, s.base)
}

// ─── Details ─────────────────────────────────────────────────────────────────

type DetailsService struct {
	*base
	ep Endpoints
}

// Warehouse fetches one warehouse. The fallback is the sample for name, or
// Warehouse A when there is none.
func (s *DetailsService) Warehouse(ctx context.Context, name string) Result[models.WarehouseDetails] {
	return call[*models.WarehouseDetails, models.WarehouseDetails]{
		resource: "warehouse_details",
		endpoint: strings.TrimRight(s.ep.Warehouses, "/") + "/" + url.PathEscape(name),
		unwrap: func(d *models.WarehouseDetails) (models.WarehouseDetails, bool) {
			if d == nil || d.WarehouseName == "" {
				return models.WarehouseDetails{}, false
			}
			return *d, true
		},
		fallback: sample(func() models.WarehouseDetails { return samples.WarehouseDetails(name) }),
	}.run(ctx, s.base)
}

// Inventory fetches one SKU's details. The fallback is the sample for sku,
// or SKU-12345 when there is none.
func (s *DetailsService) Inventory(ctx context.Context, sku string) Result[models.InventoryDetails] {
	return call[*models.InventoryDetails, models.InventoryDetails]{
		resource: "inventory_details",
		endpoint: strings.TrimRight(s.ep.Inventory, "/") + "/" + url.PathEscape(sku),
		unwrap: func(d *models.InventoryDetails) (models.InventoryDetails, bool) {
			if d == nil || d.SKU == "" {
				return models.InventoryDetails{}, false
			}
			return *d, true
		},
		fallback: sample(func() models.InventoryDetails { return samples.InventoryDetails(sku) }),
	}.run(ctx, s.base)
}
