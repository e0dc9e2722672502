package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/iacguardian/iac-guardian/pkg/scenarios"
	"github.com/spf13/cobra"
)

func NewScenariosCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenarios",
		Short: "List the bundled demo scenarios",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			bold := color.New(color.Bold)
			for _, s := range scenarios.All() {
				bold.Printf("%s", s.ID)
				fmt.Printf("  (%s)\n", s.Service)
				fmt.Printf("    %s\n", s.Description)
			}
		},
	}
}
