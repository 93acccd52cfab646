// Package report describes analytics reports as seen by table filters: a
// report may expose a dimension, and a dimension exposes the segments that
// can select its values.
package report

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownReport is returned when a report name is not in a catalog.
var ErrUnknownReport = errors.New("unknown report")

// Segment is a queryable field tied to a dimension.
type Segment interface {
	// Name is the left-hand side of a segment expression, e.g. "city".
	Name() string
}

// Dimension is an analytical axis a report breaks down by.
type Dimension interface {
	// Segments returns the dimension's segments in preference order.
	Segments() []Segment
}

// Report is a report descriptor.
type Report interface {
	// Dimension returns nil when the report has no dimension.
	Dimension() Dimension
}

// SegmentDefinition is a static Segment.
type SegmentDefinition struct {
	SegmentName string `json:"name" yaml:"name"`
}

func (s SegmentDefinition) Name() string { return s.SegmentName }

// DimensionDefinition is a static Dimension.
type DimensionDefinition struct {
	ID          string              `json:"id" yaml:"id"`
	Definitions []SegmentDefinition `json:"segments" yaml:"segments"`
}

func (d *DimensionDefinition) Segments() []Segment {
	if d == nil {
		return nil
	}
	segments := make([]Segment, len(d.Definitions))
	for i, def := range d.Definitions {
		segments[i] = def
	}
	return segments
}

// Descriptor is a static Report identified by module and action.
type Descriptor struct {
	Module string               `json:"module" yaml:"module"`
	Action string               `json:"action" yaml:"action"`
	Dim    *DimensionDefinition `json:"dimension,omitempty" yaml:"dimension,omitempty"`
}

// Dimension returns the descriptor's dimension. A nil *DimensionDefinition
// is returned as a nil interface.
func (d *Descriptor) Dimension() Dimension {
	if d == nil || d.Dim == nil {
		return nil
	}
	return d.Dim
}

// Name returns "Module.action".
func (d *Descriptor) Name() string {
	return d.Module + "." + d.Action
}

// Catalog maps report names to descriptors.
type Catalog struct {
	reports map[string]Report
	mu      sync.RWMutex
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{reports: make(map[string]Report)}
}

// Register adds or replaces a report.
func (c *Catalog) Register(name string, r Report) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reports[name] = r
}

// RegisterDescriptor registers d under its Name.
func (c *Catalog) RegisterDescriptor(d *Descriptor) {
	c.Register(d.Name(), d)
}

// Lookup returns the report registered under name.
func (c *Catalog) Lookup(name string) (Report, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.reports[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownReport, name)
	}
	return r, nil
}

// Names returns the registered report names, sorted.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.reports))
	for name := range c.reports {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
