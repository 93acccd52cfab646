package pipeline

import (
	"fmt"

	"github.com/asaidimu/go-datatable/core/datatable"
	"github.com/asaidimu/go-datatable/core/report"
	"go.uber.org/zap"
)

// Pipeline is a Definition bound to a resolved report.
type Pipeline struct {
	def    *Definition
	report report.Report
	logger *zap.Logger
}

// New resolves the definition's report in catalog, or in
// report.DefaultCatalog() when catalog is nil. A definition without a
// report is valid; steps using WithReport then receive nil.
func New(def *Definition, catalog *report.Catalog, logger *zap.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if catalog == nil {
		catalog = report.DefaultCatalog()
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}

	p := &Pipeline{def: def, logger: logger}
	if def.Report != "" {
		r, err := catalog.Lookup(def.Report)
		if err != nil {
			return nil, fmt.Errorf("pipeline '%s': %w", def.Name, err)
		}
		p.report = r
	}
	return p, nil
}

// Report returns the resolved report, or nil.
func (p *Pipeline) Report() report.Report {
	return p.report
}

// Apply runs every step over table in order and stops at the first error.
func (p *Pipeline) Apply(table *datatable.Table) error {
	for i, step := range p.def.Steps {
		args := step.Args
		if step.WithReport {
			args = append([]any{p.report}, step.Args...)
		}

		if err := table.Filter(step.Filter, args...); err != nil {
			return fmt.Errorf("pipeline step %d (%s): %w", i, step.Filter, err)
		}
		p.logger.Debug("Pipeline step applied",
			zap.String("pipeline", p.def.Name),
			zap.Int("step", i),
			zap.String("filter", step.Filter),
		)
	}
	return nil
}
