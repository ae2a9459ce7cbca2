package commands

import (
	"fmt"
	"time"

	"github.com/benvon/virality-checker/internal/presentation"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command
func NewHistoryCmd(opts *Options) *cobra.Command {
	var clearHistory bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List or clear past analyses",
		Long:  "List the most recent analyses, newest first. Usage stats are kept when history is cleared.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			if clearHistory {
				if err := a.ledger.ClearHistory(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
				return nil
			}

			entries, err := a.ledger.History(ctx)
			if err != nil {
				return err
			}
			return presentation.RenderHistory(cmd.OutOrStdout(), entries, time.Local)
		},
	}

	cmd.Flags().BoolVar(&clearHistory, "clear", false, "Remove every history entry")
	return cmd
}

// NewStatsCmd creates the stats command
func NewStatsCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show analysis count and estimated cost",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			stats, err := a.ledger.Stats(ctx)
			if err != nil {
				return err
			}
			month, err := a.ledger.CurrentMonth(ctx)
			if err != nil {
				return err
			}
			return presentation.RenderUsage(cmd.OutOrStdout(), month, stats)
		},
	}
}
