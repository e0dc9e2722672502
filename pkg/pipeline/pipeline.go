// Package pipeline chains the analysis steps for one request: extract the
// change, fetch metrics (fail-open), ask the model for a verdict
// (fail-closed) and generate an optional fix. Each request owns its own
// descriptor/snapshot/verdict/proposal chain; concurrent requests need no
// coordination.
package pipeline

import (
	"context"
	"log/slog"

	"github.com/iacguardian/iac-guardian/pkg/analyzer"
	"github.com/iacguardian/iac-guardian/pkg/extract"
	"github.com/iacguardian/iac-guardian/pkg/fix"
	"github.com/iacguardian/iac-guardian/pkg/metrics"
	"github.com/iacguardian/iac-guardian/pkg/model"
)

// Request is one analysis invocation.
type Request struct {
	Diff          string
	Service       string // optional override; wins over detection
	LookbackHours int

	// FileContents optionally maps changed file paths to current content so
	// fix proposals can include patched copies.
	FileContents map[string]string

	// AutoFix controls whether a fix proposal is attempted.
	AutoFix bool
}

type Pipeline struct {
	provider metrics.Provider
	analyzer *analyzer.Analyzer
	fixer    *fix.Generator
	logger   *slog.Logger
}

func New(provider metrics.Provider, riskAnalyzer *analyzer.Analyzer, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		provider: provider,
		analyzer: riskAnalyzer,
		fixer:    fix.NewGenerator(),
		logger:   logger,
	}
}

// Analyze runs the full chain. Metrics failures degrade to placeholder data
// inside the provider; a model failure is returned as a hard error and no
// verdict is produced.
func (p *Pipeline) Analyze(ctx context.Context, req Request) (*model.Report, error) {
	desc := extract.Extract(req.Diff, req.Service)

	q := metrics.Query{
		Service:        desc.Service,
		LookbackHours:  req.LookbackHours,
		Infrastructure: desc.TerraformChange && !desc.KubernetesChange,
	}
	if q.Infrastructure {
		q.InstanceType = instanceTypeOf(desc)
	}

	snap, err := p.provider.Snapshot(ctx, q)
	if err != nil {
		// Providers built by NewFromConfig never fail (fail-open); a custom
		// provider that does is still treated as fail-open here.
		p.logger.Warn("metrics provider failed, using placeholder snapshot", "error", err)
		snap, _ = metrics.NewPlaceholder().Snapshot(ctx, q)
	}

	verdict, err := p.analyzer.Analyze(ctx, desc, snap)
	if err != nil {
		return nil, err
	}

	report := &model.Report{
		Descriptor: desc,
		Snapshot:   snap,
		Verdict:    verdict,
	}
	if req.AutoFix {
		report.Fix = p.fixer.Generate(desc, snap, req.FileContents)
	}
	return report, nil
}

// instanceTypeOf picks the pre-change instance type for the infrastructure
// metrics query, falling back to the proposed one.
func instanceTypeOf(desc *model.ChangeDescriptor) string {
	for _, fc := range desc.FieldChanges {
		if fc.Field == "instance_type" {
			if fc.OldValue != "" {
				return fc.OldValue
			}
			return fc.NewValue
		}
	}
	return ""
}
