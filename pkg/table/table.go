// Package table is a sortable, exportable projection over a slice of rows.
//
// Sorting cycles per column: unsorted → ascending → descending → unsorted.
// Selecting another column starts it at ascending. Only one column sorts at
// a time and the sort is stable, so three clicks on a header restore the
// original order.
//
//	t := table.New(columns, table.OnRowClick(func(r models.InventoryItem) { ... }))
//	t.SetRows(items)
//	_ = t.ToggleSort("unitCost")
//	view := t.View()
package table

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/shashiranjanraj/stockroom/pkg/csvexport"
	"github.com/shashiranjanraj/stockroom/pkg/logger"
	"github.com/shashiranjanraj/stockroom/pkg/metrics"
)

var (
	// ErrNotSortable is returned by ToggleSort for unknown or non-sortable keys.
	ErrNotSortable = errors.New("table: column is not sortable")

	// ErrExportNotImplemented is returned for the Excel export intent.
	ErrExportNotImplemented = errors.New("table: export format not implemented")

	// ErrUnknownFormat is returned for export formats other than csv and excel.
	ErrUnknownFormat = errors.New("table: unknown export format")

	// ErrNoRow is returned when a row index is outside the visible rows.
	ErrNoRow = errors.New("table: row index out of range")
)

// Direction is the sort direction of a column.
type Direction int

const (
	Unsorted Direction = iota
	Ascending
	Descending
)

func (d Direction) String() string {
	switch d {
	case Ascending:
		return "asc"
	case Descending:
		return "desc"
	}
	return ""
}

// Format is an export intent.
type Format string

const (
	CSV   Format = "csv"
	Excel Format = "excel"
)

// Column describes one column. Render is optional; without it cells show the
// raw value as text.
type Column[T any] struct {
	Key        string
	Label      string
	Sortable   bool
	Filterable bool
	Render     func(value any, row T) string
}

// Table holds rows, columns and the sort state. It is safe for concurrent
// use; handlers run without the lock held.
type Table[T any] struct {
	mu       sync.RWMutex
	columns  []Column[T]
	rows     []T
	sortKey  string
	sortDir  Direction
	hasError bool

	access   Accessor[T]
	onClick  func(row T)
	onMenu   func(row T, x, y int)
	onExport func(format Format, rows []T)
}

type Option[T any] func(*Table[T])

// WithAccessor replaces the JSON-tag field accessor.
func WithAccessor[T any](a Accessor[T]) Option[T] {
	return func(t *Table[T]) { t.access = a }
}

func OnRowClick[T any](fn func(row T)) Option[T] {
	return func(t *Table[T]) { t.onClick = fn }
}

func OnRowContextMenu[T any](fn func(row T, x, y int)) Option[T] {
	return func(t *Table[T]) { t.onMenu = fn }
}

// OnExport is told about every export intent with the visible rows.
func OnExport[T any](fn func(format Format, rows []T)) Option[T] {
	return func(t *Table[T]) { t.onExport = fn }
}

// WithError sets the initial error flag used by the empty state.
func WithError[T any](failed bool) Option[T] {
	return func(t *Table[T]) { t.hasError = failed }
}

func New[T any](columns []Column[T], opts ...Option[T]) *Table[T] {
	t := &Table[T]{columns: slices.Clone(columns)}
	for _, o := range opts {
		o(t)
	}
	if t.access == nil {
		t.access = FieldAccessor[T]()
	}
	return t
}

// SetRows replaces the dataset. The sort state is kept.
func (t *Table[T]) SetRows(rows []T) {
	t.mu.Lock()
	t.rows = slices.Clone(rows)
	t.mu.Unlock()
}

// SetError sets the flag that selects the failed-search empty state.
func (t *Table[T]) SetError(failed bool) {
	t.mu.Lock()
	t.hasError = failed
	t.mu.Unlock()
}

func (t *Table[T]) Columns() []Column[T] { return slices.Clone(t.columns) }

func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

// Sort returns the active sort key and direction.
func (t *Table[T]) Sort() (string, Direction) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.sortKey, t.sortDir
}

// ToggleSort advances the sort cycle for key.
func (t *Table[T]) ToggleSort(key string) error {
	col, ok := t.column(key)
	if !ok || !col.Sortable {
		return fmt.Errorf("%w: %q", ErrNotSortable, key)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.sortKey != key {
		t.sortKey, t.sortDir = key, Ascending
		return nil
	}
	switch t.sortDir {
	case Ascending:
		t.sortDir = Descending
	default:
		t.sortKey, t.sortDir = "", Unsorted
	}
	return nil
}

// Rows returns the visible rows: a sorted copy when a sort is active, the
// original order otherwise.
func (t *Table[T]) Rows() []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.visible()
}

func (t *Table[T]) visible() []T {
	out := slices.Clone(t.rows)
	if t.sortDir == Unsorted || t.sortKey == "" {
		return out
	}
	key, desc := t.sortKey, t.sortDir == Descending
	slices.SortStableFunc(out, func(a, b T) int {
		c := Compare(t.access(a, key), t.access(b, key))
		if desc {
			return -c
		}
		return c
	})
	return out
}

// Row returns visible row i.
func (t *Table[T]) Row(i int) (T, error) {
	rows := t.Rows()
	if i < 0 || i >= len(rows) {
		var zero T
		return zero, fmt.Errorf("%w: %d", ErrNoRow, i)
	}
	return rows[i], nil
}

// Click fires the row-click handler with visible row i.
func (t *Table[T]) Click(i int) error {
	row, err := t.Row(i)
	if err != nil {
		return err
	}
	if t.onClick != nil {
		t.onClick(row)
	}
	return nil
}

// ContextMenu fires the context-menu handler with visible row i and the
// pointer position.
func (t *Table[T]) ContextMenu(i, x, y int) error {
	row, err := t.Row(i)
	if err != nil {
		return err
	}
	if t.onMenu != nil {
		t.onMenu(row, x, y)
	}
	return nil
}

// Export renders the visible rows. CSV returns a document with a header of
// column keys and one line per row; Excel only logs the intent.
func (t *Table[T]) Export(format Format) (string, error) {
	rows := t.Rows()

	switch format {
	case CSV:
	case Excel:
		logger.Info("table: excel export requested", "rows", len(rows))
		metrics.Exports.WithLabelValues(string(Excel), "table").Inc()
		if t.onExport != nil {
			t.onExport(format, rows)
		}
		return "", ErrExportNotImplemented
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	header := make([]string, len(t.columns))
	for i, c := range t.columns {
		header[i] = c.Key
	}
	lines := make([][]any, len(rows))
	for r, row := range rows {
		cells := make([]any, len(t.columns))
		for i, c := range t.columns {
			cells[i] = t.access(row, c.Key)
		}
		lines[r] = cells
	}

	metrics.Exports.WithLabelValues(string(CSV), "table").Inc()
	if t.onExport != nil {
		t.onExport(format, rows)
	}
	return csvexport.EncodeTable(header, lines), nil
}

// Record returns visible row i as a CSV record in column order, keyed by
// column key.
func (t *Table[T]) Record(i int) (csvexport.Record, error) {
	row, err := t.Row(i)
	if err != nil {
		return nil, err
	}
	rec := make(csvexport.Record, len(t.columns))
	for j, c := range t.columns {
		rec[j] = csvexport.Field{Name: c.Key, Value: t.access(row, c.Key)}
	}
	return rec, nil
}

// Value returns the raw value of key in row.
func (t *Table[T]) Value(row T, key string) any { return t.access(row, key) }

func (t *Table[T]) column(key string) (Column[T], bool) {
	for _, c := range t.columns {
		if c.Key == key {
			return c, true
		}
	}
	return Column[T]{}, false
}
