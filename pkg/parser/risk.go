// Package parser maps free-text model replies onto the enumerated risk
// verdict. It is a pure function of the reply text, kept separate from the
// network call so the fallback behavior is unit-testable offline.
package parser

import (
	"regexp"
	"strings"

	"github.com/iacguardian/iac-guardian/pkg/model"
)

// severityPatterns are scanned in severity-precedence order: a critical
// keyword anywhere in the reply wins over any warning keyword, and so on.
// Word boundaries keep "low" from firing inside "allowing" or "below".
var severityPatterns = []struct {
	re       *regexp.Regexp
	severity model.Severity
}{
	{regexp.MustCompile(`(?i)\b(critical|do not merge)\b`), model.SeverityCritical},
	{regexp.MustCompile(`(?i)\b(warning|caution)\b`), model.SeverityWarning},
	{regexp.MustCompile(`(?i)\blow\b`), model.SeverityLow},
}

var (
	rationaleRe      = regexp.MustCompile(`(?im)^\s*RATIONALE:\s*(.+)$`)
	recommendationRe = regexp.MustCompile(`(?im)^\s*RECOMMENDATION:\s*(.+)$`)
)

// ParseVerdict derives a RiskVerdict from the raw model reply. If no
// severity keyword is found, severity defaults to the least severe value and
// the verdict is flagged Unparsed so callers can surface the ambiguity
// instead of presenting false confidence. The raw reply is always preserved.
func ParseVerdict(raw string) *model.RiskVerdict {
	verdict := &model.RiskVerdict{
		Severity: model.SeverityLow,
		RawReply: raw,
	}

	matched := false
	for _, sp := range severityPatterns {
		if sp.re.MatchString(raw) {
			verdict.Severity = sp.severity
			matched = true
			break
		}
	}
	if !matched {
		verdict.Unparsed = true
	}

	if m := rationaleRe.FindStringSubmatch(raw); m != nil {
		verdict.Rationale = strings.TrimSpace(m[1])
	} else {
		verdict.Rationale = strings.TrimSpace(raw)
	}
	if m := recommendationRe.FindStringSubmatch(raw); m != nil {
		rec := strings.TrimSpace(m[1])
		if !strings.EqualFold(rec, "none") {
			verdict.Recommendation = rec
		}
	}

	return verdict
}
