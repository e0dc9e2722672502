package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/iacguardian/iac-guardian/pkg/analyzer"
	"github.com/iacguardian/iac-guardian/pkg/config"
	"github.com/iacguardian/iac-guardian/pkg/extract"
	"github.com/iacguardian/iac-guardian/pkg/formatter"
	"github.com/iacguardian/iac-guardian/pkg/metrics"
	"github.com/iacguardian/iac-guardian/pkg/model"
	"github.com/iacguardian/iac-guardian/pkg/pipeline"
	"github.com/iacguardian/iac-guardian/pkg/scenarios"
	"github.com/spf13/cobra"
)

var (
	diffFile     string
	scenarioID   string
	serviceName  string
	lookbackHrs  int
	outputFormat string
	noFix        bool
	verbose      bool
)

func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze an infrastructure diff for production risk",
		Long: `Analyze a Kubernetes/Terraform diff against production metrics and block
risky changes before they merge.

With no flags the staged git diff is analyzed, which makes this command
usable directly as a pre-commit hook. Exits non-zero on a critical verdict.

Examples:
  # Analyze the staged diff (pre-commit hook mode)
  iac-guardian analyze

  # Analyze a diff file, or stdin
  iac-guardian analyze -f change.diff
  git diff main | iac-guardian analyze -f -

  # Run a bundled demo scenario
  iac-guardian analyze --scenario peak-traffic-risk`,
		Args: cobra.NoArgs,
		RunE: runAnalyze,
	}

	cmd.Flags().StringVarP(&diffFile, "file", "f", "", "Diff file to analyze ('-' for stdin; default: staged git diff)")
	cmd.Flags().StringVar(&scenarioID, "scenario", "", "Analyze a bundled demo scenario instead of a diff")
	cmd.Flags().StringVarP(&serviceName, "service", "s", "", "Service name override (default: detected from the diff)")
	cmd.Flags().IntVar(&lookbackHrs, "lookback", 0, "Metrics lookback window in hours (default: from config)")
	cmd.Flags().StringVarP(&outputFormat, "output", "o", "human", "Output format (human, json, yaml)")
	cmd.Flags().BoolVar(&noFix, "no-fix", false, "Skip fix proposal generation")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := config.FromEnv()
	logger := newLogger(verbose)

	rawDiff, source, err := loadDiff()
	if err != nil {
		return err
	}
	if rawDiff == "" {
		printSuccess("No infrastructure changes to analyze")
		return nil
	}

	lookback := lookbackHrs
	if lookback <= 0 {
		lookback = cfg.LookbackHours
	}

	printHeader(source, lookback)

	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond)
	s.Suffix = " Extracting changes from diff..."
	s.Start()

	desc := extract.Extract(rawDiff, serviceName)

	s.Stop()
	printSuccess(fmt.Sprintf("Extracted %d changed file(s) for service %q", len(desc.Files), desc.Service))

	riskAnalyzer, err := analyzer.NewFromConfig(cfg)
	if err != nil {
		return err
	}

	provider := metrics.NewFromConfig(cfg, logger)
	p := pipeline.New(provider, riskAnalyzer, logger)

	s.Suffix = fmt.Sprintf(" Analyzing with %s...", riskAnalyzer.LLMName())
	s.Start()

	report, err := p.Analyze(cmd.Context(), pipeline.Request{
		Diff:          rawDiff,
		Service:       serviceName,
		LookbackHours: lookback,
		FileContents:  workingTreeContents(desc),
		AutoFix:       cfg.AutoFix && !noFix,
	})
	s.Stop()

	if err != nil {
		if errors.Is(err, analyzer.ErrModelUnavailable) && !cfg.StrictMode {
			printError(fmt.Sprintf("Analysis unavailable: %v", err))
			printError("Strict mode is off; allowing the change WITHOUT a risk verdict")
			return nil
		}
		return fmt.Errorf("analysis failed: %w", err)
	}
	printSuccess("Analysis complete")

	if err := formatter.DisplayReport(report, outputFormat); err != nil {
		return err
	}

	if report.Verdict.Severity == model.SeverityCritical {
		return fmt.Errorf("critical risk detected; blocking this change")
	}
	return nil
}

// loadDiff resolves the diff source in precedence order: bundled scenario,
// explicit file (or stdin), then the staged git diff.
func loadDiff() (diff, source string, err error) {
	if scenarioID != "" {
		scenario, ok := scenarios.ByID(scenarioID)
		if !ok {
			return "", "", fmt.Errorf("unknown scenario %q (see 'iac-guardian scenarios')", scenarioID)
		}
		if serviceName == "" {
			serviceName = scenario.Service
		}
		return scenario.Diff, "scenario " + scenario.ID, nil
	}

	if diffFile == "-" {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("read diff from stdin: %w", err)
		}
		return string(raw), "stdin", nil
	}

	if diffFile != "" {
		raw, err := os.ReadFile(diffFile)
		if err != nil {
			return "", "", fmt.Errorf("read diff file: %w", err)
		}
		return string(raw), diffFile, nil
	}

	out, err := exec.Command("git", "diff", "--cached").Output()
	if err != nil {
		return "", "", fmt.Errorf("git diff --cached failed (not a git repository?): %w", err)
	}
	return string(out), "staged changes", nil
}

// workingTreeContents reads the current content of each changed file so fix
// proposals can include patched copies. Missing files are skipped; the fix
// generator degrades to instructions without patched content.
func workingTreeContents(desc *model.ChangeDescriptor) map[string]string {
	contents := make(map[string]string, len(desc.Files))
	for _, f := range desc.Files {
		raw, err := os.ReadFile(f.Path)
		if err != nil {
			continue
		}
		contents[f.Path] = string(raw)
	}
	return contents
}

func printHeader(source string, lookback int) {
	cyan := color.New(color.FgCyan, color.Bold)
	fmt.Println()
	cyan.Println("🛡️  IaC Guardian")
	fmt.Printf("📄 Diff source: %s\n", source)
	fmt.Printf("📊 Metrics lookback: %dh\n", lookback)
	fmt.Println()
}

func printSuccess(msg string) {
	green := color.New(color.FgGreen)
	green.Printf("✓ %s\n", msg)
}

func printError(msg string) {
	red := color.New(color.FgRed)
	red.Printf("✗ %s\n", msg)
}
