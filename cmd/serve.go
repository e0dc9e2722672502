package cmd

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/iacguardian/iac-guardian/pkg/analyzer"
	"github.com/iacguardian/iac-guardian/pkg/config"
	"github.com/iacguardian/iac-guardian/pkg/metrics"
	"github.com/iacguardian/iac-guardian/pkg/pipeline"
	"github.com/iacguardian/iac-guardian/pkg/server"
	"github.com/spf13/cobra"
)

var serveAddr string

func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the analysis HTTP API",
		Long: `Serve the analysis pipeline over HTTP for the web UI.

Endpoints:
  GET  /healthz           liveness probe
  GET  /api/v1/scenarios  bundled demo scenarios
  POST /api/v1/analyze    analyze a diff or a scenario`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.FromEnv()
	logger := newLogger(verbose)

	riskAnalyzer, err := analyzer.NewFromConfig(cfg)
	if err != nil {
		return err
	}

	provider := metrics.NewFromConfig(cfg, logger)
	p := pipeline.New(provider, riskAnalyzer, logger)

	if !verbose {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := server.New(p, cfg.LookbackHours, logger)

	logger.Info("starting HTTP API",
		"addr", serveAddr,
		"llm", riskAnalyzer.LLMName(),
		"live_metrics", cfg.HasDatadogCredentials())

	if err := srv.Router().Run(serveAddr); err != nil {
		return fmt.Errorf("HTTP server failed: %w", err)
	}
	return nil
}
