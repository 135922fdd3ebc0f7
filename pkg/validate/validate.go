// Package validate checks request structs against `validate` struct tags.
//
// Rules are comma-separated; multi-value parameters use "|":
//
//	required        field must not be zero/empty
//	nullable        if empty, skip the remaining rules for this field
//	min=N / max=N   string: rune length | number: value
//	gte=N / lte=N   number bounds
//	in=a|b|c        value must be one of the listed items
//	alpha_dash      letters, digits, hyphens, underscores
//
// Example:
//
//	type sortInput struct {
//	    Key string `json:"key" validate:"required,alpha_dash,max=64"`
//	}
package validate

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Struct validates every exported field of v that carries a `validate` tag.
// It returns fieldName → message; an empty map means no errors. Field names
// follow the json tag.
func Struct(v interface{}) map[string]string {
	errs := make(map[string]string)
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return errs
	}
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		tag := field.Tag.Get("validate")
		if tag == "" || !field.IsExported() {
			continue
		}

		name := jsonFieldName(field)
		value := rv.Field(i)
		rules := strings.Split(tag, ",")

		if hasRule(rules, "nullable") && isEmpty(value) {
			continue
		}
		for _, rule := range rules {
			if rule == "nullable" {
				continue
			}
			if msg := applyRule(strings.TrimSpace(rule), name, value); msg != "" {
				errs[name] = msg
				break
			}
		}
	}
	return errs
}

// HasErrors returns true when errs is non-empty.
func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

func applyRule(rule, field string, v reflect.Value) string {
	name, param, _ := strings.Cut(rule, "=")

	switch name {
	case "required":
		if isEmpty(v) {
			return fmt.Sprintf("The %s field is required.", field)
		}

	case "min", "max":
		n, err := strconv.ParseFloat(param, 64)
		if err != nil {
			return fmt.Sprintf("invalid rule %q on %s", rule, field)
		}
		size, unit := measure(v)
		if name == "min" && size < n {
			return fmt.Sprintf("The %s field must be at least %s%s.", field, param, unit)
		}
		if name == "max" && size > n {
			return fmt.Sprintf("The %s field may not be greater than %s%s.", field, param, unit)
		}

	case "gte", "lte":
		n, err := strconv.ParseFloat(param, 64)
		if err != nil || !isNumeric(v) {
			return fmt.Sprintf("invalid rule %q on %s", rule, field)
		}
		x := toFloat(v)
		if name == "gte" && x < n {
			return fmt.Sprintf("The %s field must be greater than or equal to %s.", field, param)
		}
		if name == "lte" && x > n {
			return fmt.Sprintf("The %s field must be less than or equal to %s.", field, param)
		}

	case "in":
		s := fmt.Sprint(v.Interface())
		for _, opt := range strings.Split(param, "|") {
			if s == opt {
				return ""
			}
		}
		return fmt.Sprintf("The selected %s is invalid.", field)

	case "alpha_dash":
		if v.Kind() != reflect.String {
			return fmt.Sprintf("invalid rule %q on %s", rule, field)
		}
		for _, r := range v.String() {
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '_' {
				return fmt.Sprintf("The %s field may only contain letters, numbers, dashes and underscores.", field)
			}
		}

	default:
		return fmt.Sprintf("unknown validation rule %q on %s", name, field)
	}
	return ""
}

// measure returns the rune length of strings and the value of numbers.
func measure(v reflect.Value) (float64, string) {
	switch {
	case v.Kind() == reflect.String:
		return float64(utf8.RuneCountInString(v.String())), " characters"
	case isNumeric(v):
		return toFloat(v), ""
	case v.Kind() == reflect.Slice || v.Kind() == reflect.Map:
		return float64(v.Len()), " items"
	}
	return 0, ""
}

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	}
	return v.IsZero()
}

func isNumeric(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func toFloat(v reflect.Value) float64 {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint())
	case reflect.Float32, reflect.Float64:
		return v.Float()
	}
	return 0
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return f.Name
	}
	return name
}

func hasRule(rules []string, target string) bool {
	for _, r := range rules {
		if strings.TrimSpace(r) == target {
			return true
		}
	}
	return false
}
