package filter

import (
	"fmt"

	"github.com/asaidimu/go-datatable/core/datatable"
)

// PrependFilterString prefixes every row's segment filter with a fixed string.
type PrependFilterString struct {
	prefix string
}

// NewPrependFilterString creates the filter.
func NewPrependFilterString(prefix string) *PrependFilterString {
	return &PrependFilterString{prefix: prefix}
}

// NewPrependFilterStringFromArgs is the registry factory. It requires exactly
// one string argument.
func NewPrependFilterStringFromArgs(args []any) (datatable.Filter, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("%w: expected 1 argument, got %d", datatable.ErrInvalidArguments, len(args))
	}
	prefix, ok := args[0].(string)
	if !ok {
		return nil, fmt.Errorf("%w: expected a string prefix, got %T", datatable.ErrInvalidArguments, args[0])
	}
	return NewPrependFilterString(prefix), nil
}

func (f *PrependFilterString) Name() string { return PrependFilterStringName }

// Filter overwrites segmentFilter on every row with prefix + existing value.
// A missing segmentFilter counts as "".
func (f *PrependFilterString) Filter(table *datatable.Table) error {
	for _, row := range table.Rows() {
		existing, _ := row.MetadataString(datatable.MetadataSegmentFilter)
		row.SetMetadata(datatable.MetadataSegmentFilter, f.prefix+existing)
	}
	return nil
}
