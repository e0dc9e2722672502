package analyzer

import (
	"context"
	"errors"
	"testing"

	"github.com/iacguardian/iac-guardian/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLLM returns a fixed reply or error and records the last prompt.
type fakeLLM struct {
	reply      string
	err        error
	lastPrompt string
}

func (f *fakeLLM) Chat(_ context.Context, prompt string) (string, error) {
	f.lastPrompt = prompt
	return f.reply, f.err
}

func (f *fakeLLM) Name() string { return "fake/test" }

func testDescriptor() *model.ChangeDescriptor {
	return &model.ChangeDescriptor{
		Service: "payment-api",
		FieldChanges: []model.FieldChange{
			{Field: "replicas", OldValue: "20", NewValue: "5"},
		},
		RawDiff:          "-  replicas: 20\n+  replicas: 5\n",
		KubernetesChange: true,
	}
}

func testSnapshot() *model.MetricsSnapshot {
	return &model.MetricsSnapshot{
		Service:      "payment-api",
		Replicas:     20,
		PeakReplicas: 18,
	}
}

func TestAnalyzeParsesVerdict(t *testing.T) {
	llm := &fakeLLM{reply: "RISK LEVEL: CRITICAL\nRATIONALE: Peak needed 18 replicas.\nRECOMMENDATION: Do not reduce below 18."}
	a := NewWithLLM(llm)

	verdict, err := a.Analyze(context.Background(), testDescriptor(), testSnapshot())
	require.NoError(t, err)

	assert.Equal(t, model.SeverityCritical, verdict.Severity)
	assert.Equal(t, "Peak needed 18 replicas.", verdict.Rationale)

	// The prompt embeds the change and the metrics it was judged against.
	assert.Contains(t, llm.lastPrompt, "payment-api")
	assert.Contains(t, llm.lastPrompt, "replicas")
}

func TestAnalyzeModelFailureIsHardError(t *testing.T) {
	a := NewWithLLM(&fakeLLM{err: errors.New("api quota exceeded")})

	verdict, err := a.Analyze(context.Background(), testDescriptor(), testSnapshot())
	require.Error(t, err)
	assert.Nil(t, verdict, "no verdict may be fabricated when the model is unreachable")
	assert.ErrorIs(t, err, ErrModelUnavailable)
	assert.Contains(t, err.Error(), "api quota exceeded")
}

func TestAnalyzeUnparseableReplyIsNotAnError(t *testing.T) {
	a := NewWithLLM(&fakeLLM{reply: "I cannot assess this change."})

	verdict, err := a.Analyze(context.Background(), testDescriptor(), testSnapshot())
	require.NoError(t, err)
	assert.True(t, verdict.Unparsed)
	assert.Equal(t, model.SeverityLow, verdict.Severity)
	assert.Equal(t, "I cannot assess this change.", verdict.RawReply)
}

func TestLLMName(t *testing.T) {
	a := NewWithLLM(&fakeLLM{})
	assert.Equal(t, "fake/test", a.LLMName())
}
