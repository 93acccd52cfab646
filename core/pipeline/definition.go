// Package pipeline loads filter pipelines from JSON or YAML definitions and
// applies them to report tables.
//
// A definition names the report whose dimension drives segment filters and
// an ordered list of filter steps:
//
//	name: city-drilldown
//	report: UserCountry.getCity
//	steps:
//	  - filter: AddSegmentFilterBySegmentValue
//	    withReport: true
//	  - filter: PrependSegmentFilter
//	    args: ["countryCode==nz;"]
package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for definition formats other than JSON and YAML.
var ErrUnsupportedFormat = errors.New("unsupported definition format")

// Format is the encoding of a pipeline definition.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Step is a single filter invocation.
type Step struct {
	Filter string `json:"filter" yaml:"filter"`
	Args   []any  `json:"args,omitempty" yaml:"args,omitempty"`
	// WithReport passes the pipeline's report as the first argument.
	WithReport bool `json:"withReport,omitempty" yaml:"withReport,omitempty"`
}

// Definition describes a pipeline.
type Definition struct {
	Name   string `json:"name,omitempty" yaml:"name,omitempty"`
	Report string `json:"report,omitempty" yaml:"report,omitempty"`
	Steps  []Step `json:"steps" yaml:"steps"`
}

// Parse decodes a definition in the given format and validates it.
func Parse(data []byte, format Format) (*Definition, error) {
	var def Definition
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &def); err != nil {
			return nil, fmt.Errorf("failed to parse JSON pipeline definition: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &def); err != nil {
			return nil, fmt.Errorf("failed to parse YAML pipeline definition: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// Load reads a definition file, choosing the format from its extension.
func Load(path string) (*Definition, error) {
	var format Format
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		format = FormatJSON
	case ".yaml", ".yml":
		format = FormatYAML
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pipeline definition: %w", err)
	}
	return Parse(data, format)
}

// Validate checks that every step names a filter.
func (d *Definition) Validate() error {
	for i, step := range d.Steps {
		if strings.TrimSpace(step.Filter) == "" {
			return fmt.Errorf("pipeline step %d has no filter name", i)
		}
	}
	return nil
}
