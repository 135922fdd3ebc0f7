package dashboard

import (
	"context"

	"github.com/shashiranjanraj/stockroom/app/models"
	"github.com/shashiranjanraj/stockroom/app/services"
	"github.com/shashiranjanraj/stockroom/pkg/collection"
)

// outcome is a finished section load. apply runs with the page lock held.
type outcome struct {
	status   services.Status
	fallback bool
	err      string
	apply    func(p *Page)
}

func from[T any](r services.Result[T], apply func(p *Page, data T)) outcome {
	return outcome{
		status:   r.Status,
		fallback: r.Fallback,
		err:      r.Err,
		apply:    func(p *Page) { apply(p, r.Data) },
	}
}

type loader func(ctx context.Context, s *services.Services, q string) outcome

var loaders = map[Section]loader{
	SectionInventory: func(ctx context.Context, s *services.Services, q string) outcome {
		r := s.Search.Inventory(ctx, q)
		return from(r, func(p *Page, rows []models.InventoryItem) {
			p.results = rows
			p.inventory.SetRows(rows)
			p.inventory.SetError(r.Status == services.StatusError)
			p.offerChoices(rows)
		})
	},
	SectionAlternatives: func(ctx context.Context, s *services.Services, q string) outcome {
		return from(s.Inventory.Alternatives(ctx, ""), func(p *Page, rows []models.AlternativeSku) {
			p.allAlts = rows
			p.alternatives.SetRows(collection.Filter(rows, func(a models.AlternativeSku) bool { return alternativeMatches(a, q) }))
		})
	},
	SectionOpenOrders: func(ctx context.Context, s *services.Services, q string) outcome {
		return from(s.Orders.Open(ctx), func(p *Page, rows []models.OpenOrder) {
			p.allOpenOrders = rows
			p.openOrders.SetRows(collection.Filter(rows, func(o models.OpenOrder) bool { return openOrderMatches(o, q) }))
		})
	},
	SectionPurchaseOrders: func(ctx context.Context, s *services.Services, q string) outcome {
		return from(s.Orders.Purchase(ctx), func(p *Page, rows []models.PurchaseOrder) {
			p.allPurchases = rows
			p.purchaseOrders.SetRows(collection.Filter(rows, func(o models.PurchaseOrder) bool { return purchaseOrderMatches(o, q) }))
		})
	},
	SectionLeads: func(ctx context.Context, s *services.Services, q string) outcome {
		return from(s.Leads.Leads(ctx), func(p *Page, rows []models.Lead) {
			p.leads.SetRows(collection.Filter(rows, func(l models.Lead) bool { return leadMatches(l, q) }))
		})
	},
	SectionOpportunities: func(ctx context.Context, s *services.Services, q string) outcome {
		return from(s.Leads.Opportunities(ctx), func(p *Page, rows []models.Opportunity) {
			p.allOpportunity = rows
			p.opportunities.SetRows(collection.Filter(rows, func(o models.Opportunity) bool { return opportunityMatches(o, q) }))
		})
	},
	SectionWarehouses: func(ctx context.Context, s *services.Services, _ string) outcome {
		return from(s.Warehouse.Stock(ctx), func(p *Page, rows []models.WarehouseStock) {
			p.warehouses.SetRows(rows)
		})
	},
	SectionInventoryChart: func(ctx context.Context, s *services.Services, _ string) outcome {
		return from(s.Analytics.InventoryByCategory(ctx), func(p *Page, rows []models.CategoryStock) {
			p.byCategory = rows
		})
	},
	SectionCostChart: func(ctx context.Context, s *services.Services, _ string) outcome {
		return from(s.Analytics.CostByMonth(ctx), func(p *Page, rows []models.MonthlyCost) {
			p.costByMonth = rows
		})
	},
}
