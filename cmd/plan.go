package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/fivetodo/internal/board"
	"github.com/twiced-technology-gmbh/fivetodo/internal/clierr"
	"github.com/twiced-technology-gmbh/fivetodo/internal/date"
	"github.com/twiced-technology-gmbh/fivetodo/internal/output"
	"github.com/twiced-technology-gmbh/fivetodo/internal/task"
)

var planCmd = &cobra.Command{
	Use:   "plan [ID SLOT]",
	Short: "Show the day planner or assign a task to a slot",
	Long: `Without arguments, prints open tasks grouped into morning, afternoon,
evening and anytime. With an ID and a slot, moves the task into that slot.`,
	Args: cobra.RangeArgs(0, 2), //nolint:mnd // id and slot
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
}

func runPlan(_ *cobra.Command, args []string) error {
	_, st, err := openStore()
	if err != nil {
		return err
	}

	switch len(args) {
	case 0:
		tasks, err := loadTasks(st)
		if err != nil {
			return err
		}
		asOf := date.Of(st.Now())
		cols := board.Planner(board.Derive(tasks, board.ViewParams{Mode: board.ModeAll}, asOf))
		return printColumns(cols, asOf)
	case 1:
		return clierr.New(clierr.InvalidInput, "plan needs both ID and SLOT")
	}

	slot, err := task.ParseSlot(args[1])
	if err != nil {
		return err
	}
	res, err := st.Edit(args[0], task.Patch{Slot: &slot})
	if err != nil {
		return err
	}
	return printMutation("plan", "Planned", res)
}

func printColumns(cols []board.Column, asOf date.Date) error {
	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, cols)
	case output.FormatCompact:
		output.ColumnsCompact(os.Stdout, cols)
	default:
		output.ColumnsTable(os.Stdout, cols, asOf)
	}
	return nil
}
