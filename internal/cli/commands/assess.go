package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ethmon/ethmon/internal/config"
	"github.com/ethmon/ethmon/internal/logscan"
	"github.com/ethmon/ethmon/internal/observability"
	"github.com/ethmon/ethmon/internal/syncstatus"
)

// NewAssessCommand creates the assess command.
func NewAssessCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "assess",
		Short: "Check both clients' sync status and scan their logs for issues",
		Long: `Poll the execution client (eth_syncing over JSON-RPC) and the consensus
client (/eth/v1/node/syncing), then count warning and error lines in each
client's log file.

An unreachable endpoint or a missing log file is reported inline in its own
section; the remaining sections still run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, span := observability.StartSpan(cmd.Context(), "assess")
			defer span.End()

			client := syncstatus.NewClient()

			fmt.Println("🔍 Checking Erigon sync status...")
			printJSON(client.Erigon(ctx, cfg.ErigonRPC))

			fmt.Println("\n🔍 Checking Prysm sync status...")
			printJSON(client.Prysm(ctx, cfg.PrysmAPI))

			fmt.Println("\n🧾 Scanning Prysm logs for issues...")
			printScan(cfg.PrysmLog, cfg.PrysmWarnMarker, cfg.PrysmErrMarker)

			fmt.Println("\n🧾 Scanning Erigon logs for issues...")
			printScan(cfg.ErigonLog, cfg.ErigonWarnMarker, cfg.ErigonErrMarker)

			return nil
		},
	}
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to render section: %v\n", err)
		return
	}
	fmt.Println(string(out))
}

func printScan(path, warnMarker, errMarker string) {
	summary, err := logscan.Scan(path, warnMarker, errMarker)
	if err != nil {
		printJSON(map[string]string{"error": err.Error()})
		return
	}
	printJSON(summary)
}
