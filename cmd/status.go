package cmd

import (
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/fivetodo/internal/task"
)

var doneCmd = &cobra.Command{
	Use:   "done ID",
	Short: "Complete a task",
	Long: `Marks a task done. Completing a recurring task creates its next instance,
due one recurrence step after the completed one.`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return runSetStatus(args[0], task.StatusDone, "done", "Completed")
	},
}

var startCmd = &cobra.Command{
	Use:   "start ID",
	Short: "Move a task to doing",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return runSetStatus(args[0], task.StatusDoing, "move", "Started")
	},
}

var reopenCmd = &cobra.Command{
	Use:   "reopen ID",
	Short: "Move a task back to todo",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return runSetStatus(args[0], task.StatusTodo, "move", "Reopened")
	},
}

var toggleCmd = &cobra.Command{
	Use:   "toggle ID",
	Short: "Flip a task between done and todo",
	Args:  cobra.ExactArgs(1),
	RunE:  runToggle,
}

var moveCmd = &cobra.Command{
	Use:   "move ID STATUS",
	Short: "Change a task's status",
	Long:  `Moves a task to todo, doing or done, as when dropping a card on a kanban column.`,
	Args:  cobra.ExactArgs(2), //nolint:mnd // id and status
	RunE:  runMove,
}

func init() {
	rootCmd.AddCommand(doneCmd, startCmd, reopenCmd, toggleCmd, moveCmd)
}

func runSetStatus(ref string, status task.Status, action, verb string) error {
	_, st, err := openStore()
	if err != nil {
		return err
	}
	res, err := st.SetStatus(ref, status)
	if err != nil {
		return err
	}
	return printMutation(action, verb, res)
}

func runToggle(_ *cobra.Command, args []string) error {
	_, st, err := openStore()
	if err != nil {
		return err
	}
	res, err := st.Toggle(args[0])
	if err != nil {
		return err
	}
	verb, action := "Reopened", "reopen"
	if res.Task.IsDone() {
		verb, action = "Completed", "done"
	}
	return printMutation(action, verb, res)
}

func runMove(_ *cobra.Command, args []string) error {
	status, err := task.ParseStatus(args[1])
	if err != nil {
		return err
	}
	return runSetStatus(args[0], status, "move", "Moved")
}
