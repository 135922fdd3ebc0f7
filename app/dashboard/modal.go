package dashboard

import (
	"context"
	"strings"

	"github.com/shashiranjanraj/stockroom/app/models"
	"github.com/shashiranjanraj/stockroom/pkg/collection"
)

type ModalKind string

const (
	ModalSKUDetail       ModalKind = "sku-detail"
	ModalSKUSelect       ModalKind = "sku-select"
	ModalWarehouseDetail ModalKind = "warehouse-detail"
)

// Modal is the open dialog. A published Modal is never mutated; updates
// replace it.
type Modal struct {
	Kind      ModalKind                `json:"kind"`
	SKU       string                   `json:"sku,omitempty"`
	Name      string                   `json:"name,omitempty"`
	Loading   bool                     `json:"loading"`
	Fallback  bool                     `json:"fallback"`
	Detail    *SKUDetail               `json:"detail,omitempty"`
	Choices   []models.InventoryItem   `json:"choices,omitempty"`
	Warehouse *models.WarehouseDetails `json:"warehouse,omitempty"`
}

// SKUDetail gathers everything the page knows about one SKU.
type SKUDetail struct {
	Item           *models.InventoryItem    `json:"item,omitempty"`
	Details        *models.InventoryDetails `json:"details,omitempty"`
	Alternatives   []models.AlternativeSku  `json:"alternatives"`
	OpenOrders     []models.OpenOrder       `json:"openOrders"`
	PurchaseOrders []models.PurchaseOrder   `json:"purchaseOrders"`
	Opportunities  []models.Opportunity     `json:"opportunities"`
}

// composeDetail must be called with p.mu held.
func (p *Page) composeDetail(sku string) *SKUDetail {
	same := func(s string) bool { return strings.EqualFold(s, sku) }
	d := &SKUDetail{
		Alternatives:   collection.Filter(p.allAlts, func(a models.AlternativeSku) bool { return same(a.PrimarySku) }),
		OpenOrders:     collection.Filter(p.allOpenOrders, func(o models.OpenOrder) bool { return same(o.SKU) }),
		PurchaseOrders: collection.Filter(p.allPurchases, func(o models.PurchaseOrder) bool { return same(o.SKU) }),
		Opportunities:  collection.Filter(p.allOpportunity, func(o models.Opportunity) bool { return same(o.SKU) }),
	}
	if item, ok := collection.First(p.results, func(i models.InventoryItem) bool { return same(i.SKU) }); ok {
		d.Item = &item
	}
	return d
}

// offerChoices opens the selection modal when a search matched several
// SKUs and selects the only match otherwise. Called with p.mu held.
func (p *Page) offerChoices(rows []models.InventoryItem) {
	switch {
	case len(rows) == 1:
		p.selected = rows[0].SKU
	case len(rows) > 1 && p.modal == nil:
		p.modal = &Modal{Kind: ModalSKUSelect, Choices: rows}
	}
}

// openDetails opens the SKU modal, or the warehouse modal when warehouse is
// set. The remote part is fetched by resolveModal.
func (p *Page) openDetails(sku, warehouse string) {
	p.mu.Lock()
	if warehouse != "" {
		p.modal = &Modal{Kind: ModalWarehouseDetail, Name: warehouse, Loading: true}
	} else {
		p.selected = sku
		p.modal = &Modal{Kind: ModalSKUDetail, SKU: sku, Loading: true, Detail: p.composeDetail(sku)}
	}
	p.touch()
	p.mu.Unlock()
	p.emit(Event{Type: EventModal})
}

// resolveModal fetches the remote part of a loading modal. The result is
// dropped if the modal was replaced meanwhile.
func (p *Page) resolveModal(ctx context.Context) {
	p.mu.Lock()
	m := p.modal
	p.mu.Unlock()
	if m == nil || !m.Loading {
		return
	}

	next := *m
	next.Loading = false
	switch m.Kind {
	case ModalSKUDetail:
		r := p.deps.Services.Details.Inventory(ctx, m.SKU)
		det := SKUDetail{}
		if m.Detail != nil {
			det = *m.Detail
		}
		details := r.Data
		det.Details = &details
		next.Detail = &det
		next.Fallback = r.Fallback
	case ModalWarehouseDetail:
		r := p.deps.Services.Details.Warehouse(ctx, m.Name)
		wh := r.Data
		next.Warehouse = &wh
		next.Fallback = r.Fallback
	default:
		return
	}

	p.mu.Lock()
	if p.modal != m {
		p.mu.Unlock()
		return
	}
	p.modal = &next
	p.mu.Unlock()
	p.emit(Event{Type: EventModal})
}

// SelectSKU selects sku, from the selection modal or elsewhere, and opens
// its detail modal.
func (p *Page) SelectSKU(ctx context.Context, sku string) {
	p.openDetails(strings.TrimSpace(sku), "")
	p.resolveModal(ctx)
}

// OpenWarehouse opens the warehouse detail modal for name.
func (p *Page) OpenWarehouse(ctx context.Context, name string) *Modal {
	p.openDetails("", name)
	p.resolveModal(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.modal
}

// CloseModal dismisses any open modal. The selected SKU is kept.
func (p *Page) CloseModal() {
	p.mu.Lock()
	p.modal = nil
	p.touch()
	p.mu.Unlock()
	p.emit(Event{Type: EventModal})
}
