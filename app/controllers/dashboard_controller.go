package controllers

import (
	"embed"
	"errors"
	"html/template"
	"io"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/stockroom/app/dashboard"
	"github.com/shashiranjanraj/stockroom/pkg/contextmenu"
	"github.com/shashiranjanraj/stockroom/pkg/csvexport"
	"github.com/shashiranjanraj/stockroom/pkg/ctx"
	"github.com/shashiranjanraj/stockroom/pkg/logger"
	"github.com/shashiranjanraj/stockroom/pkg/response"
	"github.com/shashiranjanraj/stockroom/pkg/session"
	"github.com/shashiranjanraj/stockroom/pkg/storage"
	"github.com/shashiranjanraj/stockroom/pkg/table"
	"github.com/shashiranjanraj/stockroom/pkg/ws"
)

//go:embed views/*.html
var views embed.FS

var indexTemplate = template.Must(template.ParseFS(views, "views/dashboard.html"))

// AnonymousPage is the page used by requests that carry no session.
const AnonymousPage = "anonymous"

// DashboardController drives one dashboard.Page per browser session.
type DashboardController struct {
	pages *dashboard.Registry
	hub   *ws.Hub
	disk  storage.Disk
}

// NewDashboardController wires the registry, the event hub and the export
// disk. hub and disk may be nil.
func NewDashboardController(pages *dashboard.Registry, hub *ws.Hub, disk storage.Disk) *DashboardController {
	return &DashboardController{pages: pages, hub: hub, disk: disk}
}

func pageID(c *ctx.Context) string {
	if s := session.FromCtx(c.Context()); s != nil {
		return s.ID()
	}
	return AnonymousPage
}

func (h *DashboardController) page(c *ctx.Context) *dashboard.Page {
	return h.pages.Get(pageID(c))
}

// section resolves the {section} parameter, answering 404 when unknown.
func section(c *ctx.Context) (dashboard.Section, bool) {
	sec, ok := dashboard.ParseSection(c.Param("section"))
	if !ok {
		c.NotFound("Unknown section")
	}
	return sec, ok
}

// tableError maps page and table errors onto HTTP statuses.
func tableError(c *ctx.Context, err error) {
	switch {
	case errors.Is(err, dashboard.ErrUnknownSection), errors.Is(err, table.ErrNoRow):
		c.NotFound(err.Error())
	case errors.Is(err, table.ErrNotSortable), errors.Is(err, table.ErrUnknownFormat):
		c.Error(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, table.ErrExportNotImplemented):
		c.Error(http.StatusNotImplemented, "Excel export is not available yet.")
	case errors.Is(err, contextmenu.ErrClosed):
		c.Error(http.StatusConflict, err.Error())
	default:
		logger.WithCtx(c.Context()).Error("dashboard: request failed", "path", c.R.URL.Path, "error", err)
		c.Error(http.StatusInternalServerError, "Internal Server Error")
	}
}

// Index renders the dashboard shell with the current snapshot.
func (h *DashboardController) Index(c *ctx.Context) {
	var b strings.Builder
	if err := indexTemplate.Execute(&b, h.page(c).Snapshot()); err != nil {
		tableError(c, err)
		return
	}
	c.HTML(http.StatusOK, []byte(b.String()))
}

func (h *DashboardController) State(c *ctx.Context) {
	c.Success(h.page(c).Snapshot())
}

type searchInput struct {
	Query string `json:"query" validate:"max=200"`
}

// Search starts a search. A blank query answers 422 with the notice text and
// leaves the page untouched.
func (h *DashboardController) Search(c *ctx.Context) {
	var in searchInput
	if !c.BindJSON(&in) {
		return
	}
	gen, err := h.page(c).Submit(c.Context(), in.Query)
	if errors.Is(err, dashboard.ErrEmptyQuery) {
		c.Error(http.StatusUnprocessableEntity, dashboard.EmptyQueryNotice)
		return
	}
	if err != nil {
		tableError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, response.Envelope{
		Status:  http.StatusAccepted,
		Message: "Search started",
		Data:    map[string]uint64{"generation": gen},
	})
}

type sortInput struct {
	Key string `json:"key" validate:"required,max=64"`
}

func (h *DashboardController) Sort(c *ctx.Context) {
	sec, ok := section(c)
	if !ok {
		return
	}
	var in sortInput
	if !c.BindJSON(&in) {
		return
	}
	p := h.page(c)
	if err := p.Sort(sec, in.Key); err != nil {
		tableError(c, err)
		return
	}
	c.Success(p.Snapshot().Tables[sec])
}

func (h *DashboardController) RowClick(c *ctx.Context) {
	sec, ok := section(c)
	if !ok {
		return
	}
	i, err := c.IntParam("index")
	if err != nil {
		c.Error(http.StatusBadRequest, err.Error())
		return
	}
	p := h.page(c)
	if err := p.Click(c.Context(), sec, i); err != nil {
		tableError(c, err)
		return
	}
	c.Success(p.Snapshot().Modal)
}

type pointInput struct {
	X int `json:"x" validate:"gte=0"`
	Y int `json:"y" validate:"gte=0"`
}

func (h *DashboardController) RowMenu(c *ctx.Context) {
	sec, ok := section(c)
	if !ok {
		return
	}
	i, err := c.IntParam("index")
	if err != nil {
		c.Error(http.StatusBadRequest, err.Error())
		return
	}
	var in pointInput
	if !c.BindJSON(&in) {
		return
	}
	p := h.page(c)
	if err := p.ContextMenu(sec, i, in.X, in.Y); err != nil {
		tableError(c, err)
		return
	}
	c.Success(p.Snapshot().Menu)
}

// ExportTable downloads the visible rows of a section as CSV.
func (h *DashboardController) ExportTable(c *ctx.Context) {
	sec, ok := section(c)
	if !ok {
		return
	}
	format := table.Format(c.DefaultQuery("format", string(table.CSV)))
	doc, err := h.page(c).ExportTable(sec, format)
	if err != nil {
		tableError(c, err)
		return
	}
	_ = csvexport.Attach(c.W, doc, string(sec)+"-export")
}

type menuSelectInput struct {
	Action string `json:"action" validate:"required,in=view-details|export-csv|export-excel|open-web-page"`
}

func (h *DashboardController) MenuSelect(c *ctx.Context) {
	var in menuSelectInput
	if !c.BindJSON(&in) {
		return
	}
	p := h.page(c)
	if err := p.MenuSelect(c.Context(), contextmenu.Action(in.Action)); err != nil {
		if errors.Is(err, contextmenu.ErrClosed) || errors.Is(err, contextmenu.ErrUnknownAction) {
			tableError(c, err)
			return
		}
		// The handler failed but the menu closed; the page carries the notice.
		logger.WithCtx(c.Context()).Warn("dashboard: menu action failed", "action", in.Action, "error", err)
	}
	c.Success(p.Snapshot())
}

type dismissInput struct {
	Key string `json:"key" validate:"nullable,max=32"`
	X   *int   `json:"x"`
	Y   *int   `json:"y"`
}

// MenuDismiss closes the menu on Escape, on a pointer outside it, or
// unconditionally when the body names neither.
func (h *DashboardController) MenuDismiss(c *ctx.Context) {
	var in dismissInput
	if !c.BindJSON(&in) {
		return
	}
	p := h.page(c)
	var closed bool
	switch {
	case in.Key != "":
		closed = p.MenuKeyDown(in.Key)
	case in.X != nil && in.Y != nil:
		closed = p.MenuPointerDown(*in.X, *in.Y)
	default:
		closed = p.MenuDismiss()
	}
	c.Success(map[string]bool{"closed": closed})
}

type skuInput struct {
	SKU string `json:"sku" validate:"required,max=100"`
}

func (h *DashboardController) SelectSKU(c *ctx.Context) {
	var in skuInput
	if !c.BindJSON(&in) {
		return
	}
	p := h.page(c)
	p.SelectSKU(c.Context(), in.SKU)
	c.Success(p.Snapshot().Modal)
}

func (h *DashboardController) CloseModal(c *ctx.Context) {
	h.page(c).CloseModal()
	c.Message("Modal closed", nil)
}

func (h *DashboardController) DismissNotice(c *ctx.Context) {
	h.page(c).DismissNotice()
	c.Message("Notice dismissed", nil)
}

func (h *DashboardController) Warehouse(c *ctx.Context) {
	name := strings.TrimSpace(c.Param("name"))
	if name == "" {
		c.NotFound("Unknown warehouse")
		return
	}
	c.Success(h.page(c).OpenWarehouse(c.Context(), name))
}

// Exports serves archived CSV files from the export disk.
func (h *DashboardController) Exports(c *ctx.Context) {
	if h.disk == nil {
		c.NotFound()
		return
	}
	p := strings.TrimPrefix(c.Param("*"), "/")
	if p == "" || !strings.HasSuffix(p, ".csv") {
		c.NotFound()
		return
	}
	rc, err := h.disk.Open(c.Context(), p)
	if errors.Is(err, storage.ErrNotFound) {
		c.NotFound()
		return
	}
	if err != nil {
		tableError(c, err)
		return
	}
	defer rc.Close()

	c.W.Header().Set("Content-Type", csvexport.MimeType)
	c.W.WriteHeader(http.StatusOK)
	_, _ = io.Copy(c.W, rc)
}

// Events upgrades to a websocket subscribed to this page's events.
func (h *DashboardController) Events(c *ctx.Context) {
	if h.hub == nil {
		c.NotFound()
		return
	}
	h.hub.Upgrade(c.W, c.R, pageID(c))
}
