// Package analyzer produces a RiskVerdict for an extracted change. The
// reasoning itself is delegated to a hosted language model; this package
// builds the prompt, issues one model call and parses the reply.
package analyzer

import (
	"context"
	"errors"
	"fmt"

	"github.com/iacguardian/iac-guardian/pkg/config"
	"github.com/iacguardian/iac-guardian/pkg/llm"
	"github.com/iacguardian/iac-guardian/pkg/model"
	"github.com/iacguardian/iac-guardian/pkg/parser"
	"github.com/iacguardian/iac-guardian/pkg/prompts"
)

// ErrModelUnavailable wraps network/auth/quota failures reaching the model.
// Model failures are always surfaced to the caller: a fabricated verdict
// would be worse than no verdict.
var ErrModelUnavailable = errors.New("language model unavailable")

type Analyzer struct {
	llm llm.LLM
}

// NewFromConfig builds an analyzer with the configured LLM provider.
func NewFromConfig(cfg config.Config) (*Analyzer, error) {
	client, err := llm.FromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return &Analyzer{llm: client}, nil
}

// NewWithLLM injects an LLM client directly. Used by tests and by callers
// that already hold a configured client.
func NewWithLLM(l llm.LLM) *Analyzer {
	return &Analyzer{llm: l}
}

// LLMName reports which provider/model backs this analyzer.
func (a *Analyzer) LLMName() string { return a.llm.Name() }

// Analyze sends one prompt embedding the change and its metrics to the
// model and parses the reply into a RiskVerdict. A failed model call is a
// hard error; an unparseable reply is not, and falls back to the
// least-severe verdict with the raw text preserved.
func (a *Analyzer) Analyze(ctx context.Context, desc *model.ChangeDescriptor, snap *model.MetricsSnapshot) (*model.RiskVerdict, error) {
	prompt, err := prompts.BuildRiskPrompt(desc, snap)
	if err != nil {
		return nil, err
	}

	raw, err := a.llm.Chat(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}

	return parser.ParseVerdict(raw), nil
}
