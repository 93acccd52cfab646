package filter

import "github.com/asaidimu/go-datatable/core/datatable"

// RegisterDefaults registers the segment filters on registry.
func RegisterDefaults(registry *datatable.Registry) {
	registry.RegisterAll(map[string]datatable.FilterFactory{
		SegmentValueToFilterName: NewSegmentValueToFilterFromArgs,
		PrependFilterStringName:  NewPrependFilterStringFromArgs,
	})
}

func init() {
	RegisterDefaults(datatable.DefaultRegistry())
}
