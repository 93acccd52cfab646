package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/asaidimu/go-datatable/core/datatable"
	"github.com/asaidimu/go-datatable/core/filter"
	"github.com/asaidimu/go-datatable/core/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const yamlDefinition = `
name: city-drilldown
report: UserCountry.getCity
steps:
  - filter: AddSegmentFilterBySegmentValue
    withReport: true
  - filter: PrependSegmentFilter
    args: ["countryCode==nz;"]
`

const jsonDefinition = `{
	"name": "country",
	"report": "UserCountry.getCountry",
	"steps": [
		{"filter": "AddSegmentFilterBySegmentValue", "withReport": true}
	]
}`

func newTable() *datatable.Table {
	registry := datatable.NewRegistry(nil)
	filter.RegisterDefaults(registry)
	table := datatable.NewTable(datatable.WithRegistry(registry))

	values := []any{"Wellington", nil, "Auckland"}
	for _, v := range values {
		row := datatable.NewRow(datatable.Column{Name: "label", Value: v})
		if v != nil {
			row.SetMetadata(datatable.MetadataSegmentValue, v)
		}
		table.AddRow(row)
	}
	return table
}

func TestParse(t *testing.T) {
	t.Run("yaml", func(t *testing.T) {
		def, err := Parse([]byte(yamlDefinition), FormatYAML)
		require.NoError(t, err)
		assert.Equal(t, "city-drilldown", def.Name)
		assert.Equal(t, "UserCountry.getCity", def.Report)
		require.Len(t, def.Steps, 2)
		assert.True(t, def.Steps[0].WithReport)
		assert.Equal(t, []any{"countryCode==nz;"}, def.Steps[1].Args)
	})

	t.Run("json", func(t *testing.T) {
		def, err := Parse([]byte(jsonDefinition), FormatJSON)
		require.NoError(t, err)
		assert.Equal(t, "UserCountry.getCountry", def.Report)
		assert.Len(t, def.Steps, 1)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := Parse([]byte("{"), FormatJSON)
		assert.Error(t, err)
		_, err = Parse([]byte("steps: [unclosed"), FormatYAML)
		assert.Error(t, err)
	})

	t.Run("missing filter name", func(t *testing.T) {
		_, err := Parse([]byte(`{"steps":[{"args":["x"]}]}`), FormatJSON)
		assert.Error(t, err)
	})

	t.Run("unsupported format", func(t *testing.T) {
		_, err := Parse([]byte(""), Format("toml"))
		assert.True(t, errors.Is(err, ErrUnsupportedFormat))
	})
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "pipeline.yml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(yamlDefinition), 0o644))
	def, err := Load(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "city-drilldown", def.Name)

	jsonPath := filepath.Join(dir, "pipeline.JSON")
	require.NoError(t, os.WriteFile(jsonPath, []byte(jsonDefinition), 0o644))
	def, err = Load(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "country", def.Name)

	_, err = Load(filepath.Join(dir, "pipeline.toml"))
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestPipeline_Apply(t *testing.T) {
	catalog := report.DefaultCatalog()

	t.Run("segment filter then prefix", func(t *testing.T) {
		def, err := Parse([]byte(yamlDefinition), FormatYAML)
		require.NoError(t, err)
		p, err := New(def, catalog, zap.NewNop())
		require.NoError(t, err)
		assert.Same(t, report.GetCity, p.Report())

		table := newTable()
		require.NoError(t, p.Apply(table))
		assert.Equal(t, []any{
			"countryCode==nz;city==Wellington",
			"countryCode==nz;",
			"countryCode==nz;city==Auckland",
		}, table.RowsMetadata(datatable.MetadataSegmentFilter))
	})

	t.Run("first segment of a multi-segment dimension", func(t *testing.T) {
		def, err := Parse([]byte(jsonDefinition), FormatJSON)
		require.NoError(t, err)
		p, err := New(def, catalog, nil)
		require.NoError(t, err)

		table := newTable()
		require.NoError(t, p.Apply(table))
		assert.Equal(t, []any{"countryCode==Wellington", nil, "countryCode==Auckland"},
			table.RowsMetadata(datatable.MetadataSegmentFilter))
	})

	t.Run("no report", func(t *testing.T) {
		def := &Definition{Steps: []Step{{Filter: filter.SegmentValueToFilterName, WithReport: true}}}
		p, err := New(def, catalog, nil)
		require.NoError(t, err)
		assert.Nil(t, p.Report())

		table := newTable()
		require.NoError(t, p.Apply(table))
		assert.Equal(t, []any{nil, nil, nil}, table.RowsMetadata(datatable.MetadataSegmentFilter))
	})

	t.Run("nil catalog falls back to the built-in reports", func(t *testing.T) {
		def, err := Parse([]byte(yamlDefinition), FormatYAML)
		require.NoError(t, err)
		var p *Pipeline
		assert.NotPanics(t, func() {
			p, err = New(def, nil, nil)
		})
		require.NoError(t, err)
		assert.Same(t, report.GetCity, p.Report())

		_, err = New(&Definition{Report: "Nope.get"}, nil, nil)
		assert.True(t, errors.Is(err, report.ErrUnknownReport))
	})

	t.Run("unknown report", func(t *testing.T) {
		_, err := New(&Definition{Name: "x", Report: "Nope.get"}, catalog, nil)
		assert.True(t, errors.Is(err, report.ErrUnknownReport))
	})

	t.Run("failing step", func(t *testing.T) {
		def := &Definition{Steps: []Step{
			{Filter: filter.PrependFilterStringName, Args: []any{"a;"}},
			{Filter: "Missing"},
		}}
		p, err := New(def, catalog, nil)
		require.NoError(t, err)

		table := newTable()
		err = p.Apply(table)
		assert.True(t, errors.Is(err, datatable.ErrUnknownFilter))
		assert.Contains(t, err.Error(), "step 1")
		assert.Equal(t, []any{"a;", "a;", "a;"}, table.RowsMetadata(datatable.MetadataSegmentFilter))
	})
}
