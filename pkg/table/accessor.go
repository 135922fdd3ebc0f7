package table

import (
	"reflect"
	"strings"
)

// Accessor returns the raw value of the column key for row.
type Accessor[T any] func(row T, key string) any

// FieldAccessor resolves keys against T's JSON tags (or field names when
// untagged). Maps with string keys are looked up directly. The field index is
// computed once per accessor.
func FieldAccessor[T any]() Accessor[T] {
	var zero T
	rt := reflect.TypeOf(&zero).Elem()
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}

	index := map[string][]int{}
	if rt.Kind() == reflect.Struct {
		collectFields(rt, nil, index)
	}

	return func(row T, key string) any {
		rv := reflect.ValueOf(&row).Elem()
		for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
			if rv.IsNil() {
				return nil
			}
			rv = rv.Elem()
		}

		switch rv.Kind() {
		case reflect.Struct:
			path, ok := index[key]
			if !ok {
				return nil
			}
			fv, err := rv.FieldByIndexErr(path)
			if err != nil {
				return nil
			}
			return fv.Interface()
		case reflect.Map:
			if rv.Type().Key().Kind() != reflect.String {
				return nil
			}
			v := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
			if !v.IsValid() {
				return nil
			}
			return v.Interface()
		}
		return nil
	}
}

func collectFields(rt reflect.Type, prefix []int, index map[string][]int) {
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		path := append(append([]int(nil), prefix...), i)

		name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
		if name == "-" {
			continue
		}
		if sf.Anonymous && name == "" && sf.Type.Kind() == reflect.Struct {
			collectFields(sf.Type, path, index)
			continue
		}
		if name == "" {
			name = sf.Name
		}
		if _, taken := index[name]; !taken {
			index[name] = path
		}
	}
}
