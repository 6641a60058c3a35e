// Package cli provides the command-line interface for ethmon.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ethmon/ethmon/internal/cli/commands"
	"github.com/ethmon/ethmon/internal/config"
)

// Execute runs the root command and returns the process exit code.
func Execute(cfg *config.Config) int {
	rootCmd := NewRootCommand(cfg)

	if err := rootCmd.Execute(); err != nil {
		// Print error to stderr (SilenceErrors prevents Cobra from doing this)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// NewRootCommand creates the root cobra command.
func NewRootCommand(cfg *config.Config) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ethmon",
		Short: "Monitor a dual-client Ethereum node deployment",
		Long: `ethmon watches an Erigon (execution layer) + Prysm (consensus layer) node pair.

Commands:
  eta      Estimate time remaining until the consensus client finishes historical sync
  assess   Poll both clients' sync-status endpoints and count warnings/errors in their logs
  analyze  Send log excerpts to the Anthropic API for triage
  history  List previously saved triage analyses

Configuration comes from environment variables, optionally seeded from a YAML
file named by ETHMON_CONFIG.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewEtaCommand(cfg))
	rootCmd.AddCommand(commands.NewAssessCommand(cfg))
	rootCmd.AddCommand(commands.NewAnalyzeCommand(cfg))
	rootCmd.AddCommand(commands.NewHistoryCommand(cfg))
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
