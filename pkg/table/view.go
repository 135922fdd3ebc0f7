package table

import (
	"fmt"

	"github.com/shashiranjanraj/stockroom/pkg/csvexport"
)

// Empty-state copy.
const (
	EmptyTitle        = "No Data Found"
	EmptyMessage      = "No records match your search criteria. Please try a different search."
	FailedTitle       = "Search Failed"
	FailedMessage     = "Unable to search for the SKU. Please check your input and try again."
	indicatorAsc      = "▲"
	indicatorDesc     = "▼"
	indicatorSortable = "↕"
)

// HeaderCell is one rendered column header.
type HeaderCell struct {
	Key        string `json:"key"`
	Label      string `json:"label"`
	Sortable   bool   `json:"sortable"`
	Filterable bool   `json:"filterable"`
	Sort       string `json:"sort,omitempty"`
	Indicator  string `json:"indicator,omitempty"`
}

// EmptyState is the placeholder shown instead of rows.
type EmptyState struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Error   bool   `json:"error"`
}

// View is the rendered projection of a table.
type View struct {
	Header    []HeaderCell `json:"header"`
	Rows      [][]string   `json:"rows"`
	Count     int          `json:"count"`
	CountLine string       `json:"countLine"`
	Empty     *EmptyState  `json:"empty,omitempty"`
}

// CountLine is the "Showing N record(s)" caption.
func CountLine(n int) string {
	if n == 1 {
		return "Showing 1 record"
	}
	return fmt.Sprintf("Showing %d records", n)
}

func (t *Table[T]) View() View {
	t.mu.RLock()
	defer t.mu.RUnlock()

	v := View{Header: make([]HeaderCell, len(t.columns))}
	for i, c := range t.columns {
		h := HeaderCell{Key: c.Key, Label: c.Label, Sortable: c.Sortable, Filterable: c.Filterable}
		if c.Sortable {
			h.Indicator = indicatorSortable
			if c.Key == t.sortKey {
				h.Sort = t.sortDir.String()
				switch t.sortDir {
				case Ascending:
					h.Indicator = indicatorAsc
				case Descending:
					h.Indicator = indicatorDesc
				}
			}
		}
		v.Header[i] = h
	}

	rows := t.visible()
	v.Count = len(rows)
	v.CountLine = CountLine(len(rows))

	if len(rows) == 0 {
		v.Rows = [][]string{}
		if t.hasError {
			v.Empty = &EmptyState{Title: FailedTitle, Message: FailedMessage, Error: true}
		} else {
			v.Empty = &EmptyState{Title: EmptyTitle, Message: EmptyMessage}
		}
		return v
	}

	v.Rows = make([][]string, len(rows))
	for r, row := range rows {
		cells := make([]string, len(t.columns))
		for i, c := range t.columns {
			raw := t.access(row, c.Key)
			if c.Render != nil {
				cells[i] = c.Render(raw, row)
			} else {
				cells[i] = csvexport.Format(raw)
			}
		}
		v.Rows[r] = cells
	}
	return v
}
