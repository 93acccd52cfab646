// Package filter holds the segment-related table filters.
package filter

import (
	"fmt"
	"net/url"

	"github.com/asaidimu/go-datatable/core/datatable"
	"github.com/asaidimu/go-datatable/core/report"
)

// Registered filter names.
const (
	SegmentValueToFilterName = "AddSegmentFilterBySegmentValue"
	PrependFilterStringName  = "PrependSegmentFilter"
)

// SegmentValueToFilter builds a segment filter for every row that carries a
// segment value, using the first segment of the report's dimension.
type SegmentValueToFilter struct {
	report report.Report
}

// NewSegmentValueToFilter creates the filter. A nil report is accepted and
// makes the filter a no-op.
func NewSegmentValueToFilter(r report.Report) *SegmentValueToFilter {
	return &SegmentValueToFilter{report: r}
}

// NewSegmentValueToFilterFromArgs is the registry factory. It accepts no
// arguments, a single nil, or a single report.Report.
func NewSegmentValueToFilterFromArgs(args []any) (datatable.Filter, error) {
	switch len(args) {
	case 0:
		return NewSegmentValueToFilter(nil), nil
	case 1:
		if args[0] == nil {
			return NewSegmentValueToFilter(nil), nil
		}
		r, ok := args[0].(report.Report)
		if !ok {
			return nil, fmt.Errorf("%w: expected a report, got %T", datatable.ErrInvalidArguments, args[0])
		}
		return NewSegmentValueToFilter(r), nil
	default:
		return nil, fmt.Errorf("%w: expected at most 1 argument, got %d", datatable.ErrInvalidArguments, len(args))
	}
}

func (f *SegmentValueToFilter) Name() string { return SegmentValueToFilterName }

// Filter sets segmentFilter on rows that have a segmentValue and no
// segmentFilter yet. Rows are left untouched when no segment is available.
func (f *SegmentValueToFilter) Filter(table *datatable.Table) error {
	segment, ok := f.firstSegment()
	if !ok {
		return nil
	}

	for _, row := range table.Rows() {
		value, ok := row.MetadataString(datatable.MetadataSegmentValue)
		if !ok {
			continue
		}
		if _, exists := row.Metadata(datatable.MetadataSegmentFilter); exists {
			continue
		}
		row.SetMetadata(datatable.MetadataSegmentFilter, segment+"=="+url.QueryEscape(value))
	}
	return nil
}

// firstSegment returns the name of the first segment of the report's
// dimension and whether there is one. The name itself may be empty.
func (f *SegmentValueToFilter) firstSegment() (string, bool) {
	if f.report == nil {
		return "", false
	}
	dimension := f.report.Dimension()
	if dimension == nil {
		return "", false
	}
	segments := dimension.Segments()
	if len(segments) == 0 || segments[0] == nil {
		return "", false
	}
	return segments[0].Name(), true
}
