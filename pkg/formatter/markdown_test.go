package formatter

import (
	"testing"

	"github.com/iacguardian/iac-guardian/pkg/model"
	"github.com/stretchr/testify/assert"
)

func criticalReport() *model.Report {
	return &model.Report{
		Descriptor: &model.ChangeDescriptor{Service: "payment-api"},
		Snapshot: &model.MetricsSnapshot{
			Service:         "payment-api",
			LookbackHours:   168,
			Replicas:        20,
			PeakReplicas:    18,
			AvgCPUPercent:   65,
			PeakCPUPercent:  85,
			RequestsPerMin:  45000,
			PeakRequestsMin: 82000,
			Incidents: []model.Incident{
				{ID: "INC-4521", Date: "2026-02-07", Title: "latency spike"},
			},
		},
		Verdict: &model.RiskVerdict{
			Severity:       model.SeverityCritical,
			Rationale:      "5 replicas cannot cover the 18-replica peak.",
			Recommendation: "Use an HPA with a safe minimum.",
		},
		Fix: &model.FixProposal{
			FixType:     model.FixScaleWithAutoscaling,
			Title:       "Safe scale-down with HPA",
			Description: "HPA between 22 and 33 replicas",
			Body:        "## Safe Alternative\n",
			MinReplicas: 22,
			MaxReplicas: 33,
		},
	}
}

func TestMarkdownCriticalComment(t *testing.T) {
	out := Markdown(criticalReport(), "")

	assert.Contains(t, out, "Risk-CRITICAL")
	assert.Contains(t, out, "## Assessment")
	assert.Contains(t, out, "5 replicas cannot cover the 18-replica peak.")
	assert.Contains(t, out, "## Recommendation")
	assert.Contains(t, out, "Proposed fix details")
	assert.Contains(t, out, "INC-4521")
	assert.NotContains(t, out, "placeholder demo values")
	assert.NotContains(t, out, "Auto-Fix Available")
}

func TestMarkdownFixPRCallout(t *testing.T) {
	out := Markdown(criticalReport(), "https://example.com/pr/42")
	assert.Contains(t, out, "Auto-Fix Available")
	assert.Contains(t, out, "https://example.com/pr/42")
}

func TestMarkdownPlaceholderNote(t *testing.T) {
	report := criticalReport()
	report.Snapshot.Placeholder = true
	out := Markdown(report, "")
	assert.Contains(t, out, "placeholder demo values")
}

func TestMarkdownUnparsedWarning(t *testing.T) {
	report := criticalReport()
	report.Verdict = &model.RiskVerdict{
		Severity:  model.SeverityLow,
		Rationale: "no recognizable verdict",
		Unparsed:  true,
		RawReply:  "gibberish",
	}
	report.Fix = nil

	out := Markdown(report, "")
	assert.Contains(t, out, "Risk-LOW")
	assert.Contains(t, out, "no recognizable risk level")
	assert.NotContains(t, out, "Proposed fix details")
}

func TestWrapText(t *testing.T) {
	out := wrapText("one two three four five", 12, "  ")
	for _, line := range []string{"  one two", "  three four", "  five"} {
		assert.Contains(t, out, line)
	}
}
