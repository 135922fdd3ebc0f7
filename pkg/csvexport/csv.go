package csvexport

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// MimeType is the content type of every document produced here.
const MimeType = "text/csv;charset=utf-8;"

// Filename returns the download name for stem.
func Filename(stem string) string {
	return strings.TrimSuffix(stem, ".csv") + ".csv"
}

// Stem returns the default stem for a single-row export: data-<first value>,
// or data-export when the record is empty or its first value renders empty.
func Stem(rec Record) string {
	if len(rec) == 0 {
		return "data-export"
	}
	v := Format(rec[0].Value)
	if v == "" {
		return "data-export"
	}
	return "data-" + sanitize(v)
}

// sanitize keeps a stem usable as a file name.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', '\n', '\r', '\t':
			return '_'
		}
		return r
	}, s)
}

// Encode renders rec as a header line and a data line joined by '\n'. There
// is no trailing line break.
func Encode(rec Record) string {
	return joinLines([][]string{headerCells(rec), valueCells(rec)})
}

// EncodeAll renders a header from the first record's names and one line per
// record. Later records are written in the same column order, matched by
// name; missing fields are empty.
func EncodeAll(records []Record) string {
	if len(records) == 0 {
		return ""
	}
	names := records[0].Names()

	lines := make([][]string, 0, len(records)+1)
	lines = append(lines, headerCells(records[0]))
	for _, rec := range records {
		cells := make([]string, len(names))
		for i, n := range names {
			if v, ok := rec.Get(n); ok {
				cells[i] = Cell(v)
			}
		}
		lines = append(lines, cells)
	}
	return joinLines(lines)
}

// EncodeTable renders header names and one line of raw values per row.
func EncodeTable(header []string, rows [][]any) string {
	lines := make([][]string, 0, len(rows)+1)
	lines = append(lines, quoteAll(header))
	for _, r := range rows {
		cells := make([]string, len(r))
		for i, v := range r {
			cells[i] = Cell(v)
		}
		lines = append(lines, cells)
	}
	return joinLines(lines)
}

func headerCells(rec Record) []string { return quoteAll(rec.Names()) }

func valueCells(rec Record) []string {
	out := make([]string, len(rec))
	for i, f := range rec {
		out[i] = Cell(f.Value)
	}
	return out
}

func quoteAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = Quote(s)
	}
	return out
}

// joinLines writes already quoted cells, ',' between cells and '\n' between
// lines.
func joinLines(lines [][]string) string {
	var b strings.Builder
	for i, cells := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strings.Join(cells, ","))
	}
	return b.String()
}

// Cell renders v as one CSV field. Nested maps, slices and structs are JSON
// and always quoted; other values are quoted only when Quote requires it.
func Cell(v any) string {
	s, nested := format(v)
	if nested {
		return wrap(s)
	}
	return Quote(s)
}

// Quote wraps s in double quotes, doubling inner quotes, when it contains a
// comma, a quote or a newline. Other values are returned verbatim.
func Quote(s string) string {
	if !strings.ContainsAny(s, ",\"\n") {
		return s
	}
	return wrap(s)
}

func wrap(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Format renders one value as cell text. nil is empty, text marshalers
// (decimals, times) use their text form, and nested maps, slices and structs
// become JSON.
func Format(v any) string {
	s, _ := format(v)
	return s
}

// format reports whether v was rendered as nested JSON.
func format(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	switch x := v.(type) {
	case string:
		return x, false
	case []byte:
		return string(x), false
	case bool:
		return strconv.FormatBool(x), false
	case int:
		return strconv.Itoa(x), false
	case int64:
		return strconv.FormatInt(x, 10), false
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), false
	case encoding.TextMarshaler:
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
			return "", false
		}
		raw, err := x.MarshalText()
		if err != nil {
			return "", false
		}
		return string(raw), false
	case fmt.Stringer:
		return x.String(), false
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return "", false
		}
		return format(rv.Elem().Interface())
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		if (rv.Kind() == reflect.Map || rv.Kind() == reflect.Slice) && rv.IsNil() {
			return "", false
		}
		return marshalNested(v), true
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 32), false
	}
	return fmt.Sprint(v), false
}
