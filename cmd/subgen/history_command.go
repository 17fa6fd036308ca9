package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"subgen/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent transcription jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := cfg.HistoryPath()
			if path == "" {
				return errors.New("history is disabled (set history.enabled = true)")
			}
			out := cmd.OutOrStdout()
			if !fileExists(path) {
				fmt.Fprintln(out, "No jobs recorded yet")
				return nil
			}

			store, err := history.Open(path)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			records, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(out, "No jobs recorded yet")
				return nil
			}
			stats, err := store.Stats(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(out, renderHistory(records))
			fmt.Fprintf(out, "Total: %d  Succeeded: %d  Failed: %d  Skipped: %d\n",
				stats.Total, stats.Succeeded, stats.Failed, stats.Skipped)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of jobs to show")
	return cmd
}
