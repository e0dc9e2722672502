package cmd

import (
	"fmt"
	"os"

	"github.com/iacguardian/iac-guardian/pkg/analyzer"
	"github.com/iacguardian/iac-guardian/pkg/config"
	"github.com/iacguardian/iac-guardian/pkg/formatter"
	"github.com/iacguardian/iac-guardian/pkg/github"
	"github.com/iacguardian/iac-guardian/pkg/metrics"
	"github.com/iacguardian/iac-guardian/pkg/pipeline"
	"github.com/spf13/cobra"
)

var (
	commentRepo string
	commentPR   int
	commentDry  bool
)

func NewCommentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comment",
		Short: "Analyze a pull request and post the verdict as a PR comment",
		Long: `Fetch a pull request's diff, run the risk analysis and post the result
as a PR comment. Re-runs update the existing bot comment in place.

Authentication uses the gh CLI's stored credentials or GH_TOKEN.

Examples:
  # From CI on a pull request
  iac-guardian comment --repo acme/platform --pr 128

  # Preview the comment without posting
  iac-guardian comment --repo acme/platform --pr 128 --dry-run`,
		Args: cobra.NoArgs,
		RunE: runComment,
	}

	cmd.Flags().StringVar(&commentRepo, "repo", os.Getenv("GITHUB_REPOSITORY"), "Repository in owner/name form")
	cmd.Flags().IntVar(&commentPR, "pr", 0, "Pull request number")
	cmd.Flags().StringVarP(&serviceName, "service", "s", "", "Service name override (default: detected from the diff)")
	cmd.Flags().IntVar(&lookbackHrs, "lookback", 0, "Metrics lookback window in hours (default: from config)")
	cmd.Flags().BoolVar(&noFix, "no-fix", false, "Skip fix proposal generation")
	cmd.Flags().BoolVar(&commentDry, "dry-run", false, "Print the comment markdown instead of posting it")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	return cmd
}

func runComment(cmd *cobra.Command, args []string) error {
	if commentRepo == "" {
		return fmt.Errorf("--repo is required (or set GITHUB_REPOSITORY)")
	}
	if commentPR <= 0 {
		return fmt.Errorf("--pr is required")
	}

	cfg := config.FromEnv()
	logger := newLogger(verbose)

	gh, err := github.NewClient(commentRepo)
	if err != nil {
		return err
	}

	rawDiff, err := gh.PullRequestDiff(commentPR)
	if err != nil {
		return err
	}
	if rawDiff == "" {
		logger.Info("pull request has an empty diff, nothing to analyze", "pr", commentPR)
		return nil
	}

	riskAnalyzer, err := analyzer.NewFromConfig(cfg)
	if err != nil {
		return err
	}

	lookback := lookbackHrs
	if lookback <= 0 {
		lookback = cfg.LookbackHours
	}

	provider := metrics.NewFromConfig(cfg, logger)
	p := pipeline.New(provider, riskAnalyzer, logger)

	// A model failure fails the run outright. Posting a made-up verdict to
	// the PR would be worse than a red CI job.
	report, err := p.Analyze(cmd.Context(), pipeline.Request{
		Diff:          rawDiff,
		Service:       serviceName,
		LookbackHours: lookback,
		AutoFix:       cfg.AutoFix && !noFix,
	})
	if err != nil {
		return fmt.Errorf("analysis failed for PR #%d: %w", commentPR, err)
	}

	body := formatter.Markdown(report, "")

	if commentDry {
		fmt.Println(body)
		return nil
	}

	if err := gh.UpsertComment(commentPR, body); err != nil {
		return err
	}
	logger.Info("posted analysis comment",
		"repo", commentRepo,
		"pr", commentPR,
		"severity", report.Verdict.Severity)
	return nil
}
