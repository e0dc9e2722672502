package prompts

import (
	"strings"
	"testing"

	"github.com/iacguardian/iac-guardian/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRiskPromptEmbedsChangeAndMetrics(t *testing.T) {
	desc := &model.ChangeDescriptor{
		Service: "payment-api",
		Files: []model.ChangedFile{
			{Path: "payment-api-deployment.yaml", Type: "kubernetes"},
		},
		FieldChanges: []model.FieldChange{
			{Field: "replicas", OldValue: "20", NewValue: "5"},
		},
		RawDiff:          "-  replicas: 20\n+  replicas: 5\n",
		KubernetesChange: true,
	}
	snap := &model.MetricsSnapshot{
		Service:         "payment-api",
		PeakReplicas:    18,
		PeakRequestsMin: 82000,
	}

	prompt, err := BuildRiskPrompt(desc, snap)
	require.NoError(t, err)

	assert.Contains(t, prompt, "Service: payment-api")
	assert.Contains(t, prompt, `replicas: "20" -> "5"`)
	assert.Contains(t, prompt, `"peak_replicas": 18`)
	assert.Contains(t, prompt, "-  replicas: 20")

	// The requested output shape drives the parser downstream.
	assert.Contains(t, prompt, "RISK LEVEL: one of CRITICAL, WARNING or LOW")
	assert.Contains(t, prompt, "RATIONALE:")
	assert.Contains(t, prompt, "RECOMMENDATION:")

	// Live metrics carry no placeholder note.
	assert.NotContains(t, prompt, "placeholder demo metrics")
}

func TestBuildRiskPromptLabelsPlaceholderMetrics(t *testing.T) {
	snap := &model.MetricsSnapshot{Service: "payment-api", Placeholder: true}
	prompt, err := BuildRiskPrompt(&model.ChangeDescriptor{Service: "payment-api"}, snap)
	require.NoError(t, err)
	assert.Contains(t, prompt, "placeholder demo metrics")
}

func TestBuildRiskPromptTruncatesLargeDiffs(t *testing.T) {
	desc := &model.ChangeDescriptor{
		Service: "payment-api",
		RawDiff: strings.Repeat("x", maxDiffBytes) + "TAIL-MARKER",
	}
	prompt, err := BuildRiskPrompt(desc, &model.MetricsSnapshot{})
	require.NoError(t, err)
	assert.NotContains(t, prompt, "TAIL-MARKER")
}
