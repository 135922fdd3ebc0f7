package dashboard

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/shashiranjanraj/stockroom/pkg/contextmenu"
	"github.com/shashiranjanraj/stockroom/pkg/csvexport"
	"github.com/shashiranjanraj/stockroom/pkg/logger"
	"github.com/shashiranjanraj/stockroom/pkg/metrics"
)

const archiveTimeout = 30 * time.Second

// MenuTarget is the row captured by the context menu.
type MenuTarget struct {
	Section   Section
	SKU       string
	Warehouse string
	Record    csvexport.Record
}

func (t MenuTarget) key() string {
	if t.SKU != "" {
		return t.SKU
	}
	return t.Warehouse
}

// ExportLink is the last single-row export. URL is empty when no disk is
// configured; Document always carries the CSV text.
type ExportLink struct {
	Filename string `json:"filename"`
	URL      string `json:"url,omitempty"`
	Document string `json:"document"`
}

// MenuSelect fires action on the open menu. The menu closes whatever the
// action did. Selecting on a closed menu returns contextmenu.ErrClosed.
func (p *Page) MenuSelect(ctx context.Context, action contextmenu.Action) error {
	p.mu.Lock()
	p.touch()
	p.mu.Unlock()

	if err := p.menu.Select(action); err != nil {
		return err
	}
	if action == contextmenu.ViewDetails {
		p.resolveModal(ctx)
	}
	return nil
}

// MenuPointerDown closes the menu when (x, y) is outside it.
func (p *Page) MenuPointerDown(x, y int) bool { return p.menu.PointerDown(x, y) }

// MenuKeyDown closes the menu on Escape.
func (p *Page) MenuKeyDown(key string) bool { return p.menu.KeyDown(key) }

func (p *Page) viewDetails(t MenuTarget) error {
	p.openDetails(t.SKU, t.Warehouse)
	return nil
}

func (p *Page) exportRow(t MenuTarget) error {
	stem := csvexport.Stem(t.Record)
	link := &ExportLink{Filename: csvexport.Filename(stem), Document: csvexport.Encode(t.Record)}

	if p.deps.Disk != nil {
		ctx, cancel := context.WithTimeout(p.life, archiveTimeout)
		defer cancel()
		u, err := csvexport.Archive(ctx, p.deps.Disk, t.Record, stem)
		if err != nil {
			p.setNotice(NoticeError, "Export failed: "+err.Error())
			return err
		}
		link.URL = u
	}
	metrics.Exports.WithLabelValues("csv", "row").Inc()
	logger.Info("dashboard: row exported", "page", p.id, "section", t.Section, "file", link.Filename)

	p.mu.Lock()
	p.export = link
	p.mu.Unlock()
	p.emit(Event{Type: EventExport, URL: link.URL})
	return nil
}

func (p *Page) exportExcel(t MenuTarget) error {
	metrics.Exports.WithLabelValues("excel", "row").Inc()
	logger.Info("dashboard: excel export requested", "page", p.id, "section", t.Section, "key", t.key())
	p.setNotice(NoticeInfo, "Excel export is not available yet.")
	return nil
}

func (p *Page) openWebPage(t MenuTarget) error {
	u := ProductURL(p.deps.ProductURL, t.key())
	p.mu.Lock()
	p.openURL = u
	p.mu.Unlock()
	p.emit(Event{Type: EventOpen, URL: u})
	return nil
}

// ProductURL fills tmpl with the escaped key: at %s when present, appended
// otherwise.
func ProductURL(tmpl, key string) string {
	if tmpl == "" {
		tmpl = "https://www.google.com/search?q=%s"
	}
	k := url.QueryEscape(key)
	if strings.Contains(tmpl, "%s") {
		return fmt.Sprintf(tmpl, k)
	}
	return tmpl + k
}

// MenuDismiss closes the menu however it is open.
func (p *Page) MenuDismiss() bool { return p.menu.Close() }
