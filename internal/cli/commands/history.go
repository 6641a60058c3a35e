package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ethmon/ethmon/internal/config"
	"github.com/ethmon/ethmon/internal/history"
)

// NewHistoryCommand creates the history command.
func NewHistoryCommand(cfg *config.Config) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List previously saved triage analyses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := history.Open(cfg.HistoryDB)
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.Recent(limit)
			if err != nil {
				return err
			}

			if len(records) == 0 {
				fmt.Println("No saved analyses.")
				return nil
			}

			for _, rec := range records {
				fmt.Printf("%s  %s\n", rec.CreatedAt.Format("2006-01-02 15:04:05"), rec.Summary)
				fmt.Printf("%19s%s\n", "", rec.OutputFile)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 10, "Maximum number of analyses to list (0 for all)")
	return cmd
}
