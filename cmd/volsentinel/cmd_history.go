package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"VolSentinel/internal/report"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently recorded analysis runs",
	RunE:  runHistory,
}

var historyLimit int

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of runs to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	rec := openRecorder(cfg)
	defer rec.Close()

	runs, err := rec.RecentRuns(historyLimit)
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), report.FormatHistory(runs))
	return nil
}
