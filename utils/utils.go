package utils

import (
	"fmt"
	"reflect"
	"strings"
)

// Field is a single named value extracted from a struct.
type Field struct {
	Name  string
	Value any
}

// StructToFields converts a Go struct into an ordered list of fields.
//
// Fields are returned in declaration order. Names follow `json:"name"` tags
// when present, falling back to the Go field name. Fields tagged `json:"-"`
// and unexported fields are skipped, and `omitempty` drops zero values.
// Exported embedded structs without a tag are flattened into the parent.
//
// The input must be a struct or a non-nil pointer to a struct.
//
// Example:
//
//	type Visit struct {
//		Label  string `json:"label"`
//		Visits int    `json:"nb_visits"`
//	}
//	fields, err := StructToFields(Visit{Label: "Paris", Visits: 12})
//	// fields == []Field{{"label", "Paris"}, {"nb_visits", 12}}
func StructToFields(record any) ([]Field, error) {
	val := reflect.ValueOf(record)
	if !val.IsValid() {
		return nil, fmt.Errorf("input record cannot be nil")
	}

	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return nil, fmt.Errorf("input record cannot be a nil pointer to a struct")
		}
		val = val.Elem()
	}

	if val.Kind() != reflect.Struct {
		return nil, fmt.Errorf("input record must be a struct or a pointer to a struct, got %s", val.Kind())
	}

	return appendFields(nil, val), nil
}

func appendFields(fields []Field, val reflect.Value) []Field {
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		if !sf.IsExported() {
			continue
		}

		name, omitEmpty, skip := parseTag(sf)
		if skip {
			continue
		}

		fv := val.Field(i)
		if sf.Anonymous && sf.Tag.Get("json") == "" {
			if fv.Kind() == reflect.Ptr {
				if fv.IsNil() {
					continue
				}
				fv = fv.Elem()
			}
			if fv.Kind() == reflect.Struct {
				fields = appendFields(fields, fv)
				continue
			}
		}
		if omitEmpty && fv.IsZero() {
			continue
		}
		fields = append(fields, Field{Name: name, Value: fv.Interface()})
	}
	return fields
}

// parseTag reads the json tag of a struct field.
func parseTag(sf reflect.StructField) (name string, omitEmpty bool, skip bool) {
	tag := sf.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}
	name = sf.Name
	if tag == "" {
		return name, false, false
	}
	parts := strings.Split(tag, ",")
	if parts[0] != "" {
		name = parts[0]
	}
	for _, opt := range parts[1:] {
		if opt == "omitempty" {
			omitEmpty = true
		}
	}
	return name, omitEmpty, false
}
