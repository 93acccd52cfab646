// Package datatable provides the in-memory report table used by the
// reporting layer: ordered rows of display columns, each carrying a separate
// metadata map, and a registry of named filters that rewrite rows in place.
package datatable

import (
	"fmt"
	"maps"

	"github.com/asaidimu/go-datatable/utils"
)

// Well-known row metadata keys.
const (
	// MetadataSegmentValue holds the raw dimension value of a row.
	MetadataSegmentValue = "segmentValue"
	// MetadataSegmentFilter holds a segment expression selecting the row.
	MetadataSegmentFilter = "segmentFilter"
)

// Column is a named display value of a row.
type Column struct {
	Name  string
	Value any
}

// Row is a single table row: ordered display columns plus metadata.
// A metadata key that was never set is distinct from one set to "".
type Row struct {
	columns  []Column
	index    map[string]int
	metadata map[string]any
}

// NewRow creates a row with the given columns. A repeated column name keeps
// its first position and the last value.
func NewRow(columns ...Column) *Row {
	r := &Row{
		index:    make(map[string]int, len(columns)),
		metadata: make(map[string]any),
	}
	for _, c := range columns {
		r.SetColumn(c.Name, c.Value)
	}
	return r
}

// NewRowFromStruct creates a row whose columns are the exported fields of v,
// in declaration order, named after their json tags.
func NewRowFromStruct(v any) (*Row, error) {
	fields, err := utils.StructToFields(v)
	if err != nil {
		return nil, fmt.Errorf("cannot build row: %w", err)
	}
	columns := make([]Column, len(fields))
	for i, f := range fields {
		columns[i] = Column{Name: f.Name, Value: f.Value}
	}
	return NewRow(columns...), nil
}

// Column returns the value of the named column.
func (r *Row) Column(name string) (any, bool) {
	i, ok := r.index[name]
	if !ok {
		return nil, false
	}
	return r.columns[i].Value, true
}

// SetColumn updates a column in place or appends it if it does not exist.
func (r *Row) SetColumn(name string, value any) {
	if i, ok := r.index[name]; ok {
		r.columns[i].Value = value
		return
	}
	r.index[name] = len(r.columns)
	r.columns = append(r.columns, Column{Name: name, Value: value})
}

// Columns returns a copy of the row's columns in order.
func (r *Row) Columns() []Column {
	out := make([]Column, len(r.columns))
	copy(out, r.columns)
	return out
}

// Metadata returns the metadata value stored under key.
func (r *Row) Metadata(key string) (any, bool) {
	v, ok := r.metadata[key]
	return v, ok
}

// MetadataString returns the metadata value under key as a string.
// Non-string scalars are formatted with %v; a nil value reads as "".
func (r *Row) MetadataString(key string) (string, bool) {
	v, ok := r.metadata[key]
	if !ok {
		return "", false
	}
	switch val := v.(type) {
	case string:
		return val, true
	case nil:
		return "", true
	default:
		return fmt.Sprintf("%v", val), true
	}
}

// SetMetadata stores value under key, replacing any previous value.
func (r *Row) SetMetadata(key string, value any) {
	r.metadata[key] = value
}

// DeleteMetadata removes key and reports whether it was present.
func (r *Row) DeleteMetadata(key string) bool {
	if _, ok := r.metadata[key]; !ok {
		return false
	}
	delete(r.metadata, key)
	return true
}

// AllMetadata returns a copy of the row's metadata.
func (r *Row) AllMetadata() map[string]any {
	return maps.Clone(r.metadata)
}
