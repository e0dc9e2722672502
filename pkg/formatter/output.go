package formatter

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/iacguardian/iac-guardian/pkg/model"
	"gopkg.in/yaml.v3"
)

// DisplayReport formats and displays an analysis report.
func DisplayReport(report *model.Report, format string) error {
	switch format {
	case "json":
		return displayJSON(report)
	case "yaml":
		return displayYAML(report)
	case "human":
		fallthrough
	default:
		displayHuman(report)
	}
	return nil
}

func displayJSON(report *model.Report) error {
	output, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(output))
	return nil
}

func displayYAML(report *model.Report) error {
	output, err := yaml.Marshal(report)
	if err != nil {
		return err
	}
	fmt.Println(string(output))
	return nil
}

func displayHuman(report *model.Report) {
	yellow := color.New(color.FgYellow, color.Bold)
	green := color.New(color.FgGreen, color.Bold)
	cyan := color.New(color.FgCyan, color.Bold)

	fmt.Println()
	severityColor := getSeverityColor(report.Verdict.Severity)
	severityColor.Printf("%s RISK LEVEL: %s\n\n", getSeverityIcon(report.Verdict.Severity), strings.ToUpper(string(report.Verdict.Severity)))

	if report.Verdict.Unparsed {
		yellow.Println("⚠️  The model reply contained no recognizable risk level; showing the")
		yellow.Println("   least severe verdict. Review the raw reply below before trusting it.")
		fmt.Println()
	}

	cyan.Println("📝 RATIONALE:")
	fmt.Println(wrapText(report.Verdict.Rationale, 80, "   "))
	fmt.Println()

	if report.Verdict.Recommendation != "" {
		cyan.Println("💡 RECOMMENDATION:")
		fmt.Println(wrapText(report.Verdict.Recommendation, 80, "   "))
		fmt.Println()
	}

	if report.Fix != nil {
		green.Println("🔧 FIX AVAILABLE:")
		fmt.Printf("   %s\n", report.Fix.Description)
		for _, f := range report.Fix.Files {
			fmt.Printf("   - %s\n", f.Path)
		}
		fmt.Println()
	}

	if report.Snapshot != nil && report.Snapshot.Placeholder {
		yellow.Println("⚠️  Metrics are placeholder demo values (no live metrics source);")
		yellow.Println("   treat this verdict accordingly.")
		fmt.Println()
	}

	if report.Verdict.Unparsed {
		fmt.Println(strings.Repeat("─", 80))
		fmt.Println("RAW MODEL REPLY:")
		fmt.Println(wrapText(report.Verdict.RawReply, 80, "   "))
	}

	fmt.Println(strings.Repeat("─", 80))
	fmt.Printf("💡 %s\n", color.HiBlackString("Run with -o json or -o yaml for machine-readable output"))
}

func getSeverityColor(severity model.Severity) *color.Color {
	switch severity {
	case model.SeverityCritical:
		return color.New(color.FgRed, color.Bold)
	case model.SeverityWarning:
		return color.New(color.FgYellow, color.Bold)
	case model.SeverityLow:
		return color.New(color.FgGreen, color.Bold)
	default:
		return color.New(color.FgWhite)
	}
}

func getSeverityIcon(severity model.Severity) string {
	switch severity {
	case model.SeverityCritical:
		return "🚨"
	case model.SeverityWarning:
		return "⚠️"
	case model.SeverityLow:
		return "✅"
	default:
		return "⚪"
	}
}

func wrapText(text string, width int, indent string) string {
	var result strings.Builder
	lines := strings.Split(text, "\n")

	for _, line := range lines {
		words := strings.Fields(line)
		if len(words) == 0 {
			result.WriteString("\n")
			continue
		}

		currentLine := indent
		for _, word := range words {
			if len(currentLine)+len(word)+1 > width {
				result.WriteString(currentLine + "\n")
				currentLine = indent + word
			} else if currentLine == indent {
				currentLine += word
			} else {
				currentLine += " " + word
			}
		}

		if currentLine != indent {
			result.WriteString(currentLine + "\n")
		}
	}

	return strings.TrimSuffix(result.String(), "\n")
}
