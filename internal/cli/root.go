// Package cli implements the flockmark command line interface.
package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "flockmark",
	Short: "Livestock identity resolution and selection scoring",
	Long: `flockmark fuses per-event livestock records into one animal list,
scores every animal against a tiered rubric, and classifies the flock
into selection tiers.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
