// Package contextmenu is the row menu opened by a right click on a table row.
//
// A menu captures one row and offers four actions. It closes on an outside
// pointer-down, on Escape, or after an action runs; exactly one action can
// fire per open/close cycle.
package contextmenu

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrClosed is returned by Select when no menu is open.
	ErrClosed = errors.New("contextmenu: menu is closed")

	// ErrUnknownAction is returned by Select for actions not on the menu.
	ErrUnknownAction = errors.New("contextmenu: unknown action")
)

// Action identifies a menu entry.
type Action string

const (
	ViewDetails Action = "view-details"
	ExportCSV   Action = "export-csv"
	ExportExcel Action = "export-excel"
	OpenWebPage Action = "open-web-page"
)

// Item is one rendered entry.
type Item struct {
	Action Action `json:"action"`
	Label  string `json:"label"`
}

// Items is the fixed action list in display order.
var Items = []Item{
	{Action: ViewDetails, Label: "View Details"},
	{Action: ExportCSV, Label: "Export as CSV"},
	{Action: ExportExcel, Label: "Export as Excel"},
	{Action: OpenWebPage, Label: "Open Web Page"},
}

// Panel geometry in CSS pixels.
const (
	MinWidth   = 180
	ItemHeight = 36
	Padding    = 4
	Height     = len(Actions)*ItemHeight + 2*Padding
)

// Actions lists every valid action.
var Actions = [...]Action{ViewDetails, ExportCSV, ExportExcel, OpenWebPage}

// Handlers are invoked with the captured row. Nil handlers are no-ops.
type Handlers[T any] struct {
	ViewDetails func(row T) error
	ExportCSV   func(row T) error
	ExportExcel func(row T) error
	OpenWebPage func(row T) error
}

func (h Handlers[T]) lookup(a Action) (func(T) error, bool) {
	switch a {
	case ViewDetails:
		return h.ViewDetails, true
	case ExportCSV:
		return h.ExportCSV, true
	case ExportExcel:
		return h.ExportExcel, true
	case OpenWebPage:
		return h.OpenWebPage, true
	}
	return nil, false
}

// State is the rendered projection of the menu.
type State struct {
	Open   bool   `json:"open"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Items  []Item `json:"items,omitempty"`
}

// Menu holds at most one open panel.
type Menu[T any] struct {
	mu       sync.Mutex
	open     bool
	firing   bool
	row      T
	x, y     int
	handlers Handlers[T]
	onClose  func()
}

// New returns a closed menu. onClose, when set, runs after every dismissal.
func New[T any](h Handlers[T], onClose func()) *Menu[T] {
	return &Menu[T]{handlers: h, onClose: onClose}
}

// Open anchors the menu at (x, y) for row, replacing any open menu.
func (m *Menu[T]) Open(row T, x, y int) {
	m.mu.Lock()
	m.open, m.firing = true, false
	m.row, m.x, m.y = row, x, y
	m.mu.Unlock()
}

func (m *Menu[T]) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

// Row returns the captured row while the menu is open.
func (m *Menu[T]) Row() (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.open {
		var zero T
		return zero, false
	}
	return m.row, true
}

func (m *Menu[T]) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.open {
		return State{}
	}
	return State{
		Open:   true,
		X:      m.x,
		Y:      m.y,
		Width:  MinWidth,
		Height: Height,
		Items:  Items,
	}
}

// Select runs the handler bound to action with the captured row and then
// closes the menu, whatever the handler did. A handler panic is re-raised
// after the close.
func (m *Menu[T]) Select(action Action) (err error) {
	fn, ok := m.handlers.lookup(action)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}

	m.mu.Lock()
	if !m.open || m.firing {
		m.mu.Unlock()
		return ErrClosed
	}
	m.firing = true
	row := m.row
	m.mu.Unlock()

	defer m.Close()

	if fn == nil {
		return nil
	}
	if err := fn(row); err != nil {
		return fmt.Errorf("contextmenu: %s: %w", action, err)
	}
	return nil
}

// Contains reports whether (x, y) lies inside the open panel.
func (m *Menu[T]) Contains(x, y int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open && x >= m.x && x < m.x+MinWidth && y >= m.y && y < m.y+Height
}

// PointerDown closes the menu when (x, y) is outside the panel. It reports
// whether the menu was closed.
func (m *Menu[T]) PointerDown(x, y int) bool {
	if !m.IsOpen() || m.Contains(x, y) {
		return false
	}
	return m.Close()
}

// KeyDown closes the menu on Escape. It reports whether the menu was closed.
func (m *Menu[T]) KeyDown(key string) bool {
	if key != "Escape" {
		return false
	}
	return m.Close()
}

// Close dismisses the menu. It reports whether a menu was open.
func (m *Menu[T]) Close() bool {
	m.mu.Lock()
	if !m.open {
		m.mu.Unlock()
		return false
	}
	var zero T
	m.open, m.firing, m.row = false, false, zero
	cb := m.onClose
	m.mu.Unlock()

	if cb != nil {
		cb()
	}
	return true
}
