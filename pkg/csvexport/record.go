// Package csvexport turns records into CSV documents.
//
// A single-record export is exactly two lines, header then values:
//
//	rec := csvexport.Record{{Name: "sku", Value: "A,1"}, {Name: "qty", Value: 5}}
//	csvexport.Encode(rec) // "sku,qty\n\"A,1\",5\n"
package csvexport

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Field is one named value of a record.
type Field struct {
	Name  string
	Value any
}

// Record is an ordered list of fields.
type Record []Field

// Names returns the field names in order.
func (r Record) Names() []string {
	out := make([]string, len(r))
	for i, f := range r {
		out[i] = f.Name
	}
	return out
}

// Get returns the value of the first field called name.
func (r Record) Get(name string) (any, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// FromMap builds a record from m with keys in sorted order.
func FromMap(m map[string]any) Record {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rec := make(Record, 0, len(keys))
	for _, k := range keys {
		rec = append(rec, Field{Name: k, Value: m[k]})
	}
	return rec
}

// FromStruct builds a record from v's exported fields in declaration order,
// named by their JSON tags. Fields tagged "-" are skipped; embedded structs
// are flattened. v may be a pointer.
func FromStruct(v any) (Record, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, fmt.Errorf("csvexport: nil %s", rv.Type())
		}
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String {
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		return FromMap(m), nil
	}
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("csvexport: cannot build a record from %s", rv.Type())
	}

	var rec Record
	appendStruct(&rec, rv)
	return rec, nil
}

// MustFromStruct is FromStruct for values known to be structs.
func MustFromStruct(v any) Record {
	rec, err := FromStruct(v)
	if err != nil {
		panic(err)
	}
	return rec
}

func appendStruct(rec *Record, rv reflect.Value) {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		tag := sf.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")

		fv := rv.Field(i)
		if sf.Anonymous && name == "" && fv.Kind() == reflect.Struct {
			appendStruct(rec, fv)
			continue
		}
		if name == "" {
			name = sf.Name
		}
		*rec = append(*rec, Field{Name: name, Value: fv.Interface()})
	}
}

// JSONName returns the wire name of the struct field called goName on t,
// or "" when there is none.
func JSONName(t reflect.Type, goName string) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	sf, ok := t.FieldByName(goName)
	if !ok {
		return ""
	}
	name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return sf.Name
	}
	return name
}

// marshalNested renders maps, slices and structs as JSON text.
func marshalNested(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(raw)
}
