package parser

import (
	"testing"

	"github.com/iacguardian/iac-guardian/pkg/model"
	"github.com/stretchr/testify/assert"
)

func TestParseVerdictStructuredReply(t *testing.T) {
	raw := `RISK LEVEL: CRITICAL
RATIONALE: Peak traffic needed 18 replicas; 5 cannot absorb 82000 req/min.
RECOMMENDATION: Keep at least 12 replicas or add an HPA before merging.`

	verdict := ParseVerdict(raw)

	assert.Equal(t, model.SeverityCritical, verdict.Severity)
	assert.False(t, verdict.Unparsed)
	assert.Equal(t, "Peak traffic needed 18 replicas; 5 cannot absorb 82000 req/min.", verdict.Rationale)
	assert.Equal(t, "Keep at least 12 replicas or add an HPA before merging.", verdict.Recommendation)
	assert.Equal(t, raw, verdict.RawReply)
}

func TestParseVerdictKeywordAnywhereAnyCase(t *testing.T) {
	cases := []struct {
		raw  string
		want model.Severity
	}{
		{"this change is cRiTiCaL and must not ship", model.SeverityCritical},
		{"do not merge until capacity is verified", model.SeverityCritical},
		{"Allowing this merge would be CRITICAL for availability", model.SeverityCritical},
		{"proceed with caution, the sizing is generous", model.SeverityWarning},
		{"Warning: the instance count doubles cost", model.SeverityWarning},
		{"risk is LOW, a comment-only change", model.SeverityLow},
	}
	for _, tc := range cases {
		verdict := ParseVerdict(tc.raw)
		assert.Equal(t, tc.want, verdict.Severity, "reply: %s", tc.raw)
		assert.False(t, verdict.Unparsed, "reply: %s", tc.raw)
	}
}

func TestParseVerdictCriticalWinsOverLesserKeywords(t *testing.T) {
	// A critical keyword anywhere outranks warning/low keywords, wherever
	// they sit in the reply.
	for _, raw := range []string{
		"RISK LEVEL: CRITICAL. Treat every warning sign seriously.",
		"Warning signs in the metrics make this change CRITICAL",
		"Low utilization aside, reducing replicas below peak is critical",
	} {
		verdict := ParseVerdict(raw)
		assert.Equal(t, model.SeverityCritical, verdict.Severity, "reply: %s", raw)
	}

	verdict := ParseVerdict("low risk overall, though caution is advised on timing")
	assert.Equal(t, model.SeverityWarning, verdict.Severity)
}

func TestParseVerdictKeywordNeedsWordBoundary(t *testing.T) {
	// "low" inside "allowing"/"below"/"overflow" is not a verdict.
	verdict := ParseVerdict("Allowing traffic to overflow below capacity needs review.")
	assert.Equal(t, model.SeverityLow, verdict.Severity)
	assert.True(t, verdict.Unparsed)
}

func TestParseVerdictNoKeywordFallsBack(t *testing.T) {
	raw := "The change reduces capacity during peak hours and should be reviewed."
	verdict := ParseVerdict(raw)

	assert.Equal(t, model.SeverityLow, verdict.Severity)
	assert.True(t, verdict.Unparsed)
	// The raw reply is never discarded; it doubles as the rationale.
	assert.Equal(t, raw, verdict.RawReply)
	assert.Equal(t, raw, verdict.Rationale)
}

func TestParseVerdictNegatedPhrasesDoNotEscalate(t *testing.T) {
	// Descriptive phrasing like "not over-provisioned" carries no verdict
	// keyword and must not read as a warning.
	verdict := ParseVerdict("The fleet is not over-provisioned for this load.")
	assert.Equal(t, model.SeverityLow, verdict.Severity)
	assert.True(t, verdict.Unparsed)
}

func TestParseVerdictNoneRecommendationDropped(t *testing.T) {
	verdict := ParseVerdict("RISK LEVEL: LOW\nRATIONALE: Annotation change only.\nRECOMMENDATION: none")
	assert.Equal(t, model.SeverityLow, verdict.Severity)
	assert.Empty(t, verdict.Recommendation)
}
