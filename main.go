package main

import (
	"fmt"
	"os"

	"github.com/iacguardian/iac-guardian/cmd"
	"github.com/spf13/cobra"
)

var (
	version = "v0.1.0" // Overwritten at build time
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "iac-guardian",
		Short: "AI-powered risk analysis for infrastructure changes",
		Long: `iac-guardian analyzes Kubernetes and Terraform diffs against production
metrics to catch risky changes (under-scaling, over-provisioning) before they
merge, and proposes safe alternatives.`,
		SilenceUsage: true,
	}

	// Disable automatic 'completion' command added by cobra
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Add subcommands
	rootCmd.AddCommand(
		cmd.NewAnalyzeCmd(),
		cmd.NewServeCmd(),
		cmd.NewCommentCmd(),
		cmd.NewScenariosCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("iac-guardian version %s\n", version)
		},
	}
}
