package report

// Built-in report descriptors.
var (
	GetCity = &Descriptor{
		Module: "UserCountry",
		Action: "getCity",
		Dim: &DimensionDefinition{
			ID:          "UserCountry.City",
			Definitions: []SegmentDefinition{{SegmentName: "city"}},
		},
	}

	GetCountry = &Descriptor{
		Module: "UserCountry",
		Action: "getCountry",
		Dim: &DimensionDefinition{
			ID: "UserCountry.Country",
			Definitions: []SegmentDefinition{
				{SegmentName: "countryCode"},
				{SegmentName: "continentCode"},
			},
		},
	}

	// VisitsSummaryGet has no dimension.
	VisitsSummaryGet = &Descriptor{
		Module: "VisitsSummary",
		Action: "get",
	}

	// GetOutlinks has a dimension without segments.
	GetOutlinks = &Descriptor{
		Module: "Actions",
		Action: "getOutlinks",
		Dim:    &DimensionDefinition{ID: "Actions.Outlink"},
	}
)

// DefaultCatalog returns a new catalog holding the built-in descriptors.
func DefaultCatalog() *Catalog {
	c := NewCatalog()
	for _, d := range []*Descriptor{GetCity, GetCountry, VisitsSummaryGet, GetOutlinks} {
		c.RegisterDescriptor(d)
	}
	return c
}
