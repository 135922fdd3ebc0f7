package dashboard

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/stockroom/app/models"
	"github.com/shashiranjanraj/stockroom/pkg/collection"
	"github.com/shashiranjanraj/stockroom/pkg/contextmenu"
	"github.com/shashiranjanraj/stockroom/pkg/table"
)

// MetricCard is one headline figure above the tables.
type MetricCard struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Hint  string `json:"hint,omitempty"`
}

type Charts struct {
	InventoryByCategory []models.CategoryStock `json:"inventoryByCategory"`
	CostByMonth         []models.MonthlyCost   `json:"costByMonth"`
}

// Snapshot is the whole renderable state of a page.
type Snapshot struct {
	ID          string                    `json:"id"`
	Query       string                    `json:"query"`
	Phase       Phase                     `json:"phase"`
	Generation  uint64                    `json:"generation"`
	Sections    map[Section]SectionStatus `json:"sections"`
	Tables      map[Section]table.View    `json:"tables"`
	Charts      Charts                    `json:"charts"`
	Metrics     []MetricCard              `json:"metrics"`
	Notice      *Notice                   `json:"notice,omitempty"`
	SelectedSKU string                    `json:"selectedSku,omitempty"`
	Modal       *Modal                    `json:"modal,omitempty"`
	Menu        contextmenu.State         `json:"menu"`
	Export      *ExportLink               `json:"export,omitempty"`
	OpenURL     string                    `json:"openUrl,omitempty"`
}

func (p *Page) Snapshot() Snapshot {
	menu := p.menu.State()

	p.mu.Lock()
	defer p.mu.Unlock()

	s := Snapshot{
		ID:          p.id,
		Query:       p.query,
		Phase:       p.phase,
		Generation:  p.gen,
		Sections:    make(map[Section]SectionStatus, len(p.sections)),
		Tables:      make(map[Section]table.View, len(p.tables)),
		Charts:      Charts{InventoryByCategory: nonNil(p.byCategory), CostByMonth: nonNil(p.costByMonth)},
		Metrics:     p.metricCards(),
		Notice:      p.notice,
		SelectedSKU: p.selected,
		Modal:       p.modal,
		Menu:        menu,
		Export:      p.export,
		OpenURL:     p.openURL,
	}
	for sec, st := range p.sections {
		s.Sections[sec] = st
	}
	for sec, h := range p.tables {
		s.Tables[sec] = h.View()
	}
	return s
}

// metricCards must be called with p.mu held.
func (p *Page) metricCards() []MetricCard {
	value := collection.SumDecimal(p.results, func(i models.InventoryItem) decimal.Decimal { return i.TotalValue })
	low := collection.Count(p.results, func(i models.InventoryItem) bool {
		return i.QuantityAvailable < p.deps.LowStock
	})
	return []MetricCard{
		{Title: "Total SKUs", Value: strconv.Itoa(len(p.results))},
		{Title: "Total Value", Value: "$" + value.StringFixed(2)},
		{Title: "Open Orders", Value: strconv.Itoa(p.openOrders.Len())},
		{Title: "Low Stock Items", Value: strconv.Itoa(low), Hint: "available below " + strconv.Itoa(p.deps.LowStock)},
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
