package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/fivetodo/internal/history"
	"github.com/twiced-technology-gmbh/fivetodo/internal/output"
)

var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Restore the previous state of the task list",
	Long: `Restores the most recent snapshot that differs from the current tasks.
Running undo again keeps walking back through history.`,
	Args: cobra.NoArgs,
	RunE: runUndo,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List undo snapshots",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 10, "number of snapshots to show (0 for all)") //nolint:mnd // default page
	rootCmd.AddCommand(undoCmd, historyCmd)
}

func runUndo(_ *cobra.Command, _ []string) error {
	_, st, err := openStore()
	if err != nil {
		return err
	}
	snap, err := st.Undo()
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{
			"action":   "undo",
			"restored": snap.TS,
			"count":    len(snap.Tasks),
		})
	}
	output.Messagef(os.Stdout, "Restored snapshot from %s (%d tasks)",
		snap.TS.Local().Format("2006-01-02 15:04:05"), len(snap.Tasks))
	return nil
}

// snapshotSummary is the listing form of a snapshot.
type snapshotSummary struct {
	TS    string `json:"ts"`
	Count int    `json:"count"`
	Open  int    `json:"open"`
}

func runHistory(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("limit")

	snaps, err := history.List(cfg.Dir(), limit)
	if err != nil {
		return err
	}

	out := make([]snapshotSummary, len(snaps))
	for i, s := range snaps {
		out[i] = snapshotSummary{TS: s.TS.Format("2006-01-02T15:04:05Z07:00"), Count: len(s.Tasks)}
		for _, t := range s.Tasks {
			if !t.IsDone() {
				out[i].Open++
			}
		}
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, out)
	}
	if len(out) == 0 {
		fmt.Fprintln(os.Stderr, "No snapshots.")
		return nil
	}
	for i, s := range snaps {
		fmt.Fprintf(os.Stdout, "%2d  %s  %d tasks, %d open\n",
			i+1, s.TS.Local().Format("2006-01-02 15:04:05"), out[i].Count, out[i].Open)
	}
	return nil
}
