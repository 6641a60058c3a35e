package commands

import (
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ethmon/ethmon/internal/config"
	"github.com/ethmon/ethmon/internal/eta"
	"github.com/ethmon/ethmon/internal/observability"
)

// NewEtaCommand creates the eta command.
func NewEtaCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "eta [logs-dir]",
		Short: "Estimate time remaining until the consensus client finishes historical sync",
		Long: `Scan the consensus client's log directory for sync-progress lines and
extrapolate a finish time from three windows: full sync, last day, last hour.

Set ALL_TIME_START (ISO-8601) to exclude samples before a known outage or
backfill period from the full-sync window.

Exits non-zero when no progress samples are found at all.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, span := observability.StartSpan(cmd.Context(), "eta")
			defer span.End()

			dir := cfg.LogDir
			if len(args) == 1 {
				dir = args[0]
			}

			floor, err := cfg.AllTimeFloor()
			if err != nil {
				// An unparseable floor must not kill the report; fall back
				// to the true earliest sample.
				log.Warn().Err(err).Msg("Ignoring malformed ALL_TIME_START")
				floor = nil
			}

			now := time.Now().UTC()
			ext, err := eta.ScanDir(dir, now, floor)
			if err != nil {
				span.RecordError(err)
				return err
			}

			eta.WriteReport(os.Stdout, ext, now)
			return nil
		},
	}
}
