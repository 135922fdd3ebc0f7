// Package dashboard owns the per-session state of the inventory dashboard:
// the search phase, one table per section, the charts, the context menu and
// the modals.
//
// A search moves the page from idle to searching. Every section then loads
// on its own worker, tagged with the search generation; completions from a
// superseded generation are dropped. The page is loaded once every section
// of the current generation has resolved, successfully or not.
package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shashiranjanraj/stockroom/app/models"
	"github.com/shashiranjanraj/stockroom/app/services"
	"github.com/shashiranjanraj/stockroom/pkg/contextmenu"
	"github.com/shashiranjanraj/stockroom/pkg/csvexport"
	"github.com/shashiranjanraj/stockroom/pkg/logger"
	"github.com/shashiranjanraj/stockroom/pkg/metrics"
	"github.com/shashiranjanraj/stockroom/pkg/storage"
	"github.com/shashiranjanraj/stockroom/pkg/table"
	"github.com/shashiranjanraj/stockroom/pkg/workerpool"
)

type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseSearching Phase = "searching"
	PhaseLoaded    Phase = "loaded"
)

// EmptyQueryNotice is shown when a blank search is submitted.
const EmptyQueryNotice = "Please enter a SKU, product name, or category to search"

var (
	ErrEmptyQuery     = errors.New("dashboard: empty search query")
	ErrUnknownSection = errors.New("dashboard: unknown section")
)

type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

// SectionStatus is the load state of one section.
type SectionStatus struct {
	Loading  bool            `json:"loading"`
	Status   services.Status `json:"status,omitempty"`
	Fallback bool            `json:"fallback"`
	Error    string          `json:"error,omitempty"`
}

// Publisher receives page events keyed by page ID. *ws.Hub satisfies it.
type Publisher interface {
	Publish(topic string, data []byte)
}

// Deps are the collaborators shared by every page.
type Deps struct {
	Services *services.Services
	// Pool runs section loads. Without one each load gets its own goroutine.
	Pool *workerpool.Pool
	// Disk archives single-row CSV exports. Optional.
	Disk   storage.Disk
	Events Publisher
	// Stagger delays section i by i × Stagger.
	Stagger    time.Duration
	LowStock   int
	ProductURL string
}

// Page is one browser session's dashboard. It is safe for concurrent use.
type Page struct {
	id   string
	deps Deps
	life context.Context
	stop context.CancelFunc
	now  func() time.Time

	mu       sync.Mutex
	query    string
	phase    Phase
	gen      uint64
	pending  int
	cancel   context.CancelFunc
	sections map[Section]SectionStatus
	notice   *Notice
	selected string
	modal    *Modal
	export   *ExportLink
	openURL  string
	touched  time.Time

	// unfiltered section data, used to compose SKU details
	results        []models.InventoryItem
	allAlts        []models.AlternativeSku
	allOpenOrders  []models.OpenOrder
	allPurchases   []models.PurchaseOrder
	allOpportunity []models.Opportunity
	byCategory     []models.CategoryStock
	costByMonth    []models.MonthlyCost

	inventory      *table.Table[models.InventoryItem]
	alternatives   *table.Table[models.AlternativeSku]
	openOrders     *table.Table[models.OpenOrder]
	purchaseOrders *table.Table[models.PurchaseOrder]
	leads          *table.Table[models.Lead]
	opportunities  *table.Table[models.Opportunity]
	warehouses     *table.Table[models.WarehouseStock]
	tables         map[Section]table.Handle

	menu *contextmenu.Menu[MenuTarget]
}

// NewPage returns an idle page. Cancelling ctx aborts its in-flight loads.
func NewPage(ctx context.Context, id string, deps Deps) *Page {
	life, stop := context.WithCancel(ctx)
	p := &Page{
		id:       id,
		deps:     deps,
		life:     life,
		stop:     stop,
		now:      time.Now,
		phase:    PhaseIdle,
		sections: make(map[Section]SectionStatus, len(Sections)),
		tables:   make(map[Section]table.Handle, len(TableSections)),
	}
	p.touched = p.now()

	p.inventory = bindTable(p, SectionInventory, inventoryColumns,
		func(r models.InventoryItem) (string, string) { return r.SKU, "" })
	p.alternatives = bindTable(p, SectionAlternatives, alternativeColumns,
		func(r models.AlternativeSku) (string, string) { return r.PrimarySku, "" })
	p.openOrders = bindTable(p, SectionOpenOrders, openOrderColumns,
		func(r models.OpenOrder) (string, string) { return r.SKU, "" })
	p.purchaseOrders = bindTable(p, SectionPurchaseOrders, purchaseOrderColumns,
		func(r models.PurchaseOrder) (string, string) { return r.SKU, "" })
	p.leads = bindTable(p, SectionLeads, leadColumns,
		func(r models.Lead) (string, string) { return r.InterestedSku, "" })
	p.opportunities = bindTable(p, SectionOpportunities, opportunityColumns,
		func(r models.Opportunity) (string, string) { return r.SKU, "" })
	p.warehouses = bindTable(p, SectionWarehouses, warehouseColumns,
		func(r models.WarehouseStock) (string, string) { return "", r.WarehouseName })

	p.menu = contextmenu.New(contextmenu.Handlers[MenuTarget]{
		ViewDetails: p.viewDetails,
		ExportCSV:   p.exportRow,
		ExportExcel: p.exportExcel,
		OpenWebPage: p.openWebPage,
	}, func() { p.emit(Event{Type: EventMenu}) })

	return p
}

// bindTable builds the table of sec and wires its row handlers to the page.
// key returns the row's SKU, or the warehouse name for warehouse rows.
func bindTable[T any](p *Page, sec Section, cols []table.Column[T], key func(T) (sku, warehouse string)) *table.Table[T] {
	var t *table.Table[T]
	t = table.New(cols,
		table.OnRowClick(func(row T) {
			sku, wh := key(row)
			p.openDetails(sku, wh)
		}),
		table.OnRowContextMenu(func(row T, x, y int) {
			sku, wh := key(row)
			p.menu.Open(MenuTarget{Section: sec, SKU: sku, Warehouse: wh, Record: rowRecord(t, row)}, x, y)
			p.emit(Event{Type: EventMenu, Section: sec})
		}),
		table.OnExport(func(f table.Format, rows []T) {
			logger.Debug("dashboard: table export", "page", p.id, "section", sec, "format", f, "rows", len(rows))
		}),
	)
	p.tables[sec] = t
	return t
}

func rowRecord[T any](t *table.Table[T], row T) csvexport.Record {
	cols := t.Columns()
	rec := make(csvexport.Record, len(cols))
	for i, c := range cols {
		rec[i] = csvexport.Field{Name: c.Key, Value: t.Value(row, c.Key)}
	}
	return rec
}

func (p *Page) ID() string { return p.id }

// Close aborts in-flight loads. The page stays readable.
func (p *Page) Close() { p.stop() }

func (p *Page) Phase() Phase {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.phase
}

func (p *Page) Generation() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.gen
}

// LastSeen is when the page was last used.
func (p *Page) LastSeen() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.touched
}

func (p *Page) touch() { p.touched = p.now() }

func (p *Page) setNotice(level NoticeLevel, msg string) {
	p.mu.Lock()
	p.notice = &Notice{Level: level, Message: msg}
	p.touch()
	p.mu.Unlock()
	p.emit(Event{Type: EventNotice})
}

// DismissNotice clears the current notice.
func (p *Page) DismissNotice() {
	p.mu.Lock()
	p.notice = nil
	p.touch()
	p.mu.Unlock()
}

// ─── Search ──────────────────────────────────────────────────────────────────

// Submit starts a search and returns its generation. A blank query only
// raises the empty-query notice: no state change and no network call.
func (p *Page) Submit(ctx context.Context, query string) (uint64, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		metrics.Searches.WithLabelValues("rejected").Inc()
		p.setNotice(NoticeWarning, EmptyQueryNotice)
		return 0, ErrEmptyQuery
	}

	// Loads outlive the request that started them but not the page.
	lctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	unhook := context.AfterFunc(p.life, cancel)

	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	p.gen++
	gen := p.gen
	p.query = q
	p.phase = PhaseSearching
	p.notice = nil
	p.export = nil
	p.openURL = ""
	p.pending = len(Sections)
	p.cancel = func() { unhook(); cancel() }
	for _, sec := range Sections {
		p.sections[sec] = SectionStatus{Loading: true}
	}
	p.touch()
	p.mu.Unlock()

	metrics.Searches.WithLabelValues("accepted").Inc()
	logger.WithCtx(ctx).Info("dashboard: search submitted", "page", p.id, "query", q, "generation", gen)
	p.emit(Event{Type: EventSearch, Generation: gen})

	for i, sec := range Sections {
		p.dispatch(lctx, gen, time.Duration(i)*p.deps.Stagger, sec, q)
	}
	return gen, nil
}

func (p *Page) dispatch(ctx context.Context, gen uint64, delay time.Duration, sec Section, q string) {
	task := func() { p.complete(gen, sec, loaders[sec](ctx, p.deps.Services, q)) }

	submit := func() {
		if p.deps.Pool == nil {
			go task()
			return
		}
		err := p.deps.Pool.Submit("dashboard:"+string(sec), task)
		switch {
		case err == nil:
		case errors.Is(err, workerpool.ErrPoolFull):
			go task()
		default:
			p.complete(gen, sec, outcome{status: services.StatusError, err: err.Error()})
		}
	}

	if delay > 0 {
		time.AfterFunc(delay, submit)
		return
	}
	submit()
}

// complete applies a section result if it belongs to the current
// generation.
func (p *Page) complete(gen uint64, sec Section, out outcome) {
	p.mu.Lock()
	if gen != p.gen {
		p.mu.Unlock()
		metrics.StaleSections.WithLabelValues(string(sec)).Inc()
		logger.Debug("dashboard: stale section discarded", "page", p.id, "section", sec, "generation", gen)
		return
	}
	if out.apply != nil {
		out.apply(p)
	}
	p.sections[sec] = SectionStatus{Status: out.status, Fallback: out.fallback, Error: out.err}
	p.pending--
	loaded := p.pending == 0
	if loaded {
		p.phase = PhaseLoaded
		if p.cancel != nil {
			p.cancel()
			p.cancel = nil
		}
	}
	p.mu.Unlock()

	p.emit(Event{Type: EventSection, Section: sec, Generation: gen})
	if loaded {
		p.emit(Event{Type: EventLoaded, Generation: gen})
	}
}

// ─── Tables ──────────────────────────────────────────────────────────────────

func (p *Page) table(sec Section) (table.Handle, error) {
	h, ok := p.tables[sec]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSection, sec)
	}
	return h, nil
}

// Sort advances the sort cycle of key in the section table.
func (p *Page) Sort(sec Section, key string) error {
	h, err := p.table(sec)
	if err != nil {
		return err
	}
	if err := h.ToggleSort(key); err != nil {
		return err
	}
	p.mu.Lock()
	p.touch()
	p.mu.Unlock()
	p.emit(Event{Type: EventSort, Section: sec})
	return nil
}

// Click selects visible row i of the section and opens its detail modal.
func (p *Page) Click(ctx context.Context, sec Section, i int) error {
	h, err := p.table(sec)
	if err != nil {
		return err
	}
	if err := h.Click(i); err != nil {
		return err
	}
	p.resolveModal(ctx)
	return nil
}

// ContextMenu opens the context menu for visible row i at (x, y).
func (p *Page) ContextMenu(sec Section, i, x, y int) error {
	h, err := p.table(sec)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.touch()
	p.mu.Unlock()
	return h.ContextMenu(i, x, y)
}

// ExportTable renders the visible rows of a section.
func (p *Page) ExportTable(sec Section, format table.Format) (string, error) {
	h, err := p.table(sec)
	if err != nil {
		return "", err
	}
	return h.Export(format)
}

// ─── Events ──────────────────────────────────────────────────────────────────

type EventType string

const (
	EventSearch  EventType = "search"
	EventNotice  EventType = "notice"
	EventSection EventType = "section"
	EventLoaded  EventType = "loaded"
	EventSort    EventType = "sort"
	EventMenu    EventType = "menu"
	EventModal   EventType = "modal"
	EventExport  EventType = "export"
	EventOpen    EventType = "open"
)

// Event tells subscribers which part of the page changed; they fetch the
// snapshot to render it.
type Event struct {
	Type       EventType `json:"type"`
	Section    Section   `json:"section,omitempty"`
	Generation uint64    `json:"generation,omitempty"`
	URL        string    `json:"url,omitempty"`
}

func (p *Page) emit(e Event) {
	if p.deps.Events == nil {
		return
	}
	raw, err := json.Marshal(e)
	if err != nil {
		return
	}
	p.deps.Events.Publish(p.id, raw)
}
