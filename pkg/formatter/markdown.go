package formatter

import (
	"fmt"
	"strings"

	"github.com/iacguardian/iac-guardian/pkg/model"
)

// badge parameters per severity for the comment header.
var severityBadges = map[model.Severity]struct {
	label string
	color string
	emoji string
}{
	model.SeverityCritical: {"CRITICAL", "critical", "🚨"},
	model.SeverityWarning:  {"WARNING", "orange", "⚡"},
	model.SeverityLow:      {"LOW", "green", "✅"},
}

// Markdown renders a report as a GitHub PR comment. A fix PR URL, when
// present, is called out at the top for visibility.
func Markdown(report *model.Report, fixPRURL string) string {
	badge := severityBadges[report.Verdict.Severity]

	var b strings.Builder
	fmt.Fprintf(&b, "# %s IaC Guardian Analysis\n\n", badge.emoji)
	fmt.Fprintf(&b, "![Risk](https://img.shields.io/badge/Risk-%s-%s?style=for-the-badge)\n\n", badge.label, badge.color)

	if fixPRURL != "" {
		fmt.Fprintf(&b, "> [!TIP]\n> **🔧 Auto-Fix Available:** %s\n>\n> Close this PR and merge the fix instead.\n\n", fixPRURL)
	}

	if report.Verdict.Unparsed {
		b.WriteString("> [!WARNING]\n> The model reply contained no recognizable risk level; the verdict below defaults to the least severe value. Review the raw reply.\n\n")
	}

	b.WriteString("## Assessment\n\n")
	b.WriteString(report.Verdict.Rationale)
	b.WriteString("\n")

	if report.Verdict.Recommendation != "" {
		b.WriteString("\n## Recommendation\n\n")
		b.WriteString(report.Verdict.Recommendation)
		b.WriteString("\n")
	}

	if report.Fix != nil {
		b.WriteString("\n<details>\n<summary>🔧 Proposed fix details</summary>\n\n")
		b.WriteString(report.Fix.Body)
		b.WriteString("\n</details>\n")
	}

	if report.Snapshot != nil {
		b.WriteString("\n<details>\n<summary>📊 Metrics used for this analysis</summary>\n\n")
		b.WriteString(metricsTable(report.Snapshot))
		b.WriteString("</details>\n")
	}

	if report.Snapshot != nil && report.Snapshot.Placeholder {
		b.WriteString("\n> [!NOTE]\n> Metrics are placeholder demo values; no live metrics source was configured.\n")
	}

	b.WriteString("\n---\n*Generated automatically by IaC Guardian*\n")
	return b.String()
}

func metricsTable(snap *model.MetricsSnapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "| Metric | Current | Peak (%dh) |\n|---|---|---|\n", snap.LookbackHours)
	fmt.Fprintf(&b, "| Replicas | %d | %d |\n", snap.Replicas, snap.PeakReplicas)
	fmt.Fprintf(&b, "| CPU | %.1f%% | %.1f%% |\n", snap.AvgCPUPercent, snap.PeakCPUPercent)
	if snap.AvgMemoryMi > 0 {
		fmt.Fprintf(&b, "| Memory | %.0fMi | %.0fMi |\n", snap.AvgMemoryMi, snap.PeakMemoryMi)
	}
	if snap.RequestsPerMin > 0 {
		fmt.Fprintf(&b, "| Requests/min | %.0f | %.0f |\n", snap.RequestsPerMin, snap.PeakRequestsMin)
	}
	if len(snap.Incidents) > 0 {
		b.WriteString("\nRecent incidents:\n")
		for _, inc := range snap.Incidents {
			fmt.Fprintf(&b, "- **%s** (%s): %s\n", inc.ID, inc.Date, inc.Title)
		}
	}
	return b.String()
}
