// Package tui is the terminal rendition of the dashboard: a search box, one
// tab per table section and the same sortable tables the web page shows,
// all driven by a dashboard.Page.
package tui

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	btable "github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/shashiranjanraj/stockroom/app/dashboard"
	"github.com/shashiranjanraj/stockroom/pkg/table"
)

const maxColumnWidth = 28

// Notifier is a dashboard.Publisher that wakes the program whenever the page
// changes. Bursts collapse into one refresh.
type Notifier struct {
	ch chan struct{}
}

func NewNotifier() *Notifier { return &Notifier{ch: make(chan struct{}, 1)} }

func (n *Notifier) Publish(string, []byte) {
	select {
	case n.ch <- struct{}{}:
	default:
	}
}

func (n *Notifier) wait() tea.Cmd {
	return func() tea.Msg {
		<-n.ch
		return refreshMsg{}
	}
}

type (
	refreshMsg struct{}
	resultMsg  struct{ err error }
)

// Model is the bubbletea model.
type Model struct {
	ctx    context.Context
	page   *dashboard.Page
	notify *Notifier
	st     styles

	input   textinput.Model
	grid    btable.Model
	section int
	column  int
	snap    dashboard.Snapshot
	status  string
	width   int
	height  int
}

// New returns a model over page. A non-empty query is submitted on start.
func New(ctx context.Context, page *dashboard.Page, notify *Notifier, query string) Model {
	in := textinput.New()
	in.Placeholder = "SKU, product name or category"
	in.CharLimit = 200
	in.Prompt = "Search: "
	in.SetValue(query)

	m := Model{
		ctx:    ctx,
		page:   page,
		notify: notify,
		st:     defaultStyles(),
		input:  in,
		grid:   btable.New(btable.WithFocused(true), btable.WithHeight(12), btable.WithWidth(160)),
		height: 24,
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.notify.wait()}
	if q := m.input.Value(); strings.TrimSpace(q) != "" {
		cmds = append(cmds, m.submit(q))
	}
	return tea.Batch(cmds...)
}

func (m Model) currentSection() dashboard.Section {
	return dashboard.TableSections[m.section]
}

func (m Model) submit(q string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.page.Submit(m.ctx, q)
		return resultMsg{err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.grid.SetHeight(max(msg.Height-14, 3))
		m.grid.SetWidth(msg.Width)
		return m, nil

	case refreshMsg:
		m.refresh()
		return m, m.notify.wait()

	case resultMsg:
		m.status = ""
		if msg.err != nil {
			m.status = msg.err.Error()
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if m.input.Focused() {
			return m.updateInput(msg)
		}
		return m.updateKeys(msg)
	}

	var cmd tea.Cmd
	m.grid, cmd = m.grid.Update(msg)
	return m, cmd
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		m.input.Blur()
		m.grid.Focus()
		return m, m.submit(m.input.Value())
	case "esc":
		m.input.Blur()
		m.grid.Focus()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "/":
		m.grid.Blur()
		cmd := m.input.Focus()
		return m, cmd
	case "tab":
		m.section = (m.section + 1) % len(dashboard.TableSections)
		m.column = 0
		m.grid.SetCursor(0)
		m.refresh()
		return m, nil
	case "shift+tab":
		m.section = (m.section + len(dashboard.TableSections) - 1) % len(dashboard.TableSections)
		m.column = 0
		m.grid.SetCursor(0)
		m.refresh()
		return m, nil
	case "left", "h":
		if m.column > 0 {
			m.column--
		}
		m.refresh()
		return m, nil
	case "right", "l":
		if n := len(m.header()); m.column < n-1 {
			m.column++
		}
		m.refresh()
		return m, nil
	case "s":
		hdr := m.header()
		if m.column < len(hdr) {
			m.status = ""
			if err := m.page.Sort(m.currentSection(), hdr[m.column].Key); err != nil {
				m.status = err.Error()
			}
		}
		m.refresh()
		return m, nil
	case "enter":
		sec, row := m.currentSection(), m.grid.Cursor()
		if len(m.grid.Rows()) == 0 {
			return m, nil
		}
		return m, func() tea.Msg {
			return resultMsg{err: m.page.Click(m.ctx, sec, row)}
		}
	case "esc":
		m.page.CloseModal()
		m.page.DismissNotice()
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.grid, cmd = m.grid.Update(msg)
	return m, cmd
}

func (m Model) header() []table.HeaderCell {
	return m.snap.Tables[m.currentSection()].Header
}

// refresh copies the page snapshot into the grid.
func (m *Model) refresh() {
	m.snap = m.page.Snapshot()
	view := m.snap.Tables[m.currentSection()]

	cols := make([]btable.Column, len(view.Header))
	for i, h := range view.Header {
		title := h.Label
		if h.Indicator != "" {
			title += " " + h.Indicator
		}
		if i == m.column {
			title = "[" + title + "]"
		}
		w := utf8.RuneCountInString(title)
		for _, r := range view.Rows {
			if i < len(r) {
				w = max(w, utf8.RuneCountInString(r[i]))
			}
		}
		cols[i] = btable.Column{Title: title, Width: min(w, maxColumnWidth)}
	}
	rows := make([]btable.Row, len(view.Rows))
	for i, r := range view.Rows {
		rows[i] = btable.Row(r)
	}

	// Rows must never be wider than the columns while they are swapped.
	cur := m.grid.Cursor()
	m.grid.SetRows(nil)
	m.grid.SetColumns(cols)
	m.grid.SetRows(rows)
	m.grid.SetCursor(max(min(cur, len(rows)-1), 0))
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.st.title.Render("SKU Warehouse Dashboard"))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("  ")
	b.WriteString(m.st.hint.Render(string(m.snap.Phase)))
	b.WriteString("\n\n")

	cards := make([]string, len(m.snap.Metrics))
	for i, c := range m.snap.Metrics {
		cards[i] = m.st.card.Render(c.Title + "\n" + c.Value)
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	b.WriteString("\n")

	tabs := make([]string, len(dashboard.TableSections))
	for i, sec := range dashboard.TableSections {
		label := sectionLabel(sec)
		if st, ok := m.snap.Sections[sec]; ok && st.Fallback {
			label += "*"
		}
		if i == m.section {
			tabs[i] = m.st.tabActive.Render(label)
		} else {
			tabs[i] = m.st.tab.Render(label)
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n")

	view := m.snap.Tables[m.currentSection()]
	if view.Empty != nil {
		style := m.st.hint
		if view.Empty.Error {
			style = m.st.err
		}
		b.WriteString(style.Render(view.Empty.Title + ": " + view.Empty.Message))
		b.WriteString("\n")
	} else {
		b.WriteString(m.grid.View())
		b.WriteString("\n")
		b.WriteString(m.st.hint.Render(view.CountLine))
		b.WriteString("\n")
	}

	if md := m.snap.Modal; md != nil {
		b.WriteString(m.st.modal.Render(renderModal(md)))
		b.WriteString("\n")
	}
	if n := m.snap.Notice; n != nil {
		style := m.st.hint
		switch n.Level {
		case dashboard.NoticeWarning:
			style = m.st.warn
		case dashboard.NoticeError:
			style = m.st.err
		}
		b.WriteString(style.Render(n.Message))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(m.st.err.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.st.hint.Render("/ search • tab section • ←/→ column • s sort • enter details • esc close • q quit"))
	return b.String()
}

func sectionLabel(sec dashboard.Section) string {
	switch sec {
	case dashboard.SectionInventory:
		return "Inventory"
	case dashboard.SectionAlternatives:
		return "Alternatives"
	case dashboard.SectionOpenOrders:
		return "Open Orders"
	case dashboard.SectionPurchaseOrders:
		return "Purchase Orders"
	case dashboard.SectionLeads:
		return "Leads"
	case dashboard.SectionOpportunities:
		return "Opportunities"
	case dashboard.SectionWarehouses:
		return "Warehouses"
	}
	return string(sec)
}

func renderModal(md *dashboard.Modal) string {
	var lines []string
	switch md.Kind {
	case dashboard.ModalSKUSelect:
		lines = append(lines, "Several SKUs match:")
		for _, c := range md.Choices {
			lines = append(lines, fmt.Sprintf("  %s  %s", c.SKU, c.ProductName))
		}
	case dashboard.ModalWarehouseDetail:
		lines = append(lines, "Warehouse "+md.Name)
		if w := md.Warehouse; w != nil {
			lines = append(lines,
				"Location: "+w.Location,
				"Manager:  "+w.Manager,
				fmt.Sprintf("Capacity: %d", w.Capacity))
		}
	default:
		lines = append(lines, "SKU "+md.SKU)
		if d := md.Detail; d != nil {
			if d.Item != nil {
				lines = append(lines, d.Item.ProductName)
			}
			if d.Details != nil && d.Details.LeadTime != "" {
				lines = append(lines, "Lead time: "+d.Details.LeadTime)
			}
			lines = append(lines,
				fmt.Sprintf("Alternatives: %d  Open orders: %d  Purchase orders: %d",
					len(d.Alternatives), len(d.OpenOrders), len(d.PurchaseOrders)))
		}
	}
	if md.Loading {
		lines = append(lines, "loading…")
	}
	if md.Fallback {
		lines = append(lines, "(sample data)")
	}
	return strings.Join(lines, "\n")
}

// Run starts the program on the terminal and blocks until the user quits.
func Run(ctx context.Context, page *dashboard.Page, notify *Notifier, query string) error {
	p := tea.NewProgram(New(ctx, page, notify, query), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
