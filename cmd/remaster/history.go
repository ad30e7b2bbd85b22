package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vmunix/remaster/internal/history"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent conversion runs",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of runs to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path := cfg.History.Path
	if path == "" {
		path = history.DefaultPath()
	}
	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	runs, err := store.ListRuns(historyLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no recorded runs")
		return nil
	}

	fmt.Printf("%-5s %-20s %-9s %-9s %-7s %-7s %s\n",
		"ID", "FINISHED", "CODEC", "COMPLETED", "SKIPPED", "FAILED", "DEST")
	for _, r := range runs {
		fmt.Printf("%-5d %-20s %-9s %-9d %-7d %-7d %s\n",
			r.ID, r.FinishedAt.Format("2006-01-02 15:04:05"),
			r.Codec, r.Completed, r.Skipped, r.Failed, r.DestRoot)
	}
	return nil
}
