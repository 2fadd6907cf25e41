package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/fivetodo/internal/output"
	"github.com/twiced-technology-gmbh/fivetodo/internal/store"
	"github.com/twiced-technology-gmbh/fivetodo/internal/task"
)

var subtaskCmd = &cobra.Command{
	Use:     "subtask",
	Aliases: []string{"sub", "check"},
	Short:   "Manage a task's checklist",
	Long: `Adds, toggles, renames and removes checklist items. Items are addressed
by their 1-based position or an ID prefix.`,
}

var subtaskListCmd = &cobra.Command{
	Use:   "list ID",
	Short: "Show a task's checklist",
	Args:  cobra.ExactArgs(1),
	RunE:  runSubtaskList,
}

var subtaskAddCmd = &cobra.Command{
	Use:   "add ID TITLE...",
	Short: "Add a checklist item",
	Args:  cobra.MinimumNArgs(2), //nolint:mnd // id and title
	RunE:  runSubtaskAdd,
}

var subtaskToggleCmd = &cobra.Command{
	Use:   "toggle ID ITEM",
	Short: "Check or uncheck an item",
	Args:  cobra.ExactArgs(2), //nolint:mnd // id and item
	RunE:  runSubtaskToggle,
}

var subtaskRenameCmd = &cobra.Command{
	Use:   "rename ID ITEM TITLE...",
	Short: "Rename an item",
	Args:  cobra.MinimumNArgs(3), //nolint:mnd // id, item and title
	RunE:  runSubtaskRename,
}

var subtaskRemoveCmd = &cobra.Command{
	Use:     "remove ID ITEM",
	Aliases: []string{"rm"},
	Short:   "Remove an item",
	Args:    cobra.ExactArgs(2), //nolint:mnd // id and item
	RunE:    runSubtaskRemove,
}

func init() {
	subtaskCmd.AddCommand(subtaskListCmd, subtaskAddCmd, subtaskToggleCmd, subtaskRenameCmd, subtaskRemoveCmd)
	rootCmd.AddCommand(subtaskCmd)
}

func runSubtaskList(_ *cobra.Command, args []string) error {
	_, st, err := openStore()
	if err != nil {
		return err
	}
	tasks, err := loadTasks(st)
	if err != nil {
		return err
	}
	t, err := task.Find(tasks, args[0])
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, t.Subtasks)
	}
	if len(t.Subtasks) == 0 {
		fmt.Fprintln(os.Stderr, "No checklist items.")
		return nil
	}
	output.SubtaskList(os.Stdout, t)
	return nil
}

// editSubtasks runs fn on the task ref inside a store transaction and logs
// the detail it returns under action.
func editSubtasks(ref, action string, fn func(t *task.Task, now time.Time) (string, error)) (*task.Task, error) {
	_, st, err := openStore()
	if err != nil {
		return nil, err
	}
	var changed *task.Task
	err = st.Update(func(tx *store.Tx) error {
		t, err := tx.Find(ref)
		if err != nil {
			return err
		}
		detail, err := fn(t, tx.Now)
		if err != nil {
			return err
		}
		tx.Put(t)
		tx.Log(action, t.ID, detail)
		changed = t
		return nil
	})
	return changed, err
}

func printSubtasks(action string, t *task.Task, msg string) error {
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, output.Mutation{Action: action, Task: t})
	}
	output.Messagef(os.Stdout, "%s", msg)
	output.SubtaskList(os.Stdout, t)
	return nil
}

func runSubtaskAdd(_ *cobra.Command, args []string) error {
	title := strings.Join(args[1:], " ")
	t, err := editSubtasks(args[0], "subtask", func(t *task.Task, now time.Time) (string, error) {
		s, err := task.AddSubtask(t, title, now)
		if err != nil {
			return "", err
		}
		return "add " + s.Title, nil
	})
	if err != nil {
		return err
	}
	return printSubtasks("subtask_add", t, "Added item to "+t.Title)
}

func runSubtaskToggle(_ *cobra.Command, args []string) error {
	t, err := editSubtasks(args[0], "subtask", func(t *task.Task, now time.Time) (string, error) {
		s, err := task.ToggleSubtask(t, args[1], now)
		if err != nil {
			return "", err
		}
		if s.Done {
			return "check " + s.Title, nil
		}
		return "uncheck " + s.Title, nil
	})
	if err != nil {
		return err
	}
	done, total := task.SubtaskProgress(t)
	return printSubtasks("subtask_toggle", t, fmt.Sprintf("%s: %d/%d done", t.Title, done, total))
}

func runSubtaskRename(_ *cobra.Command, args []string) error {
	title := strings.Join(args[2:], " ")
	t, err := editSubtasks(args[0], "subtask", func(t *task.Task, now time.Time) (string, error) {
		s, err := task.RenameSubtask(t, args[1], title, now)
		if err != nil {
			return "", err
		}
		return "rename " + s.Title, nil
	})
	if err != nil {
		return err
	}
	return printSubtasks("subtask_rename", t, "Renamed item in "+t.Title)
}

func runSubtaskRemove(_ *cobra.Command, args []string) error {
	t, err := editSubtasks(args[0], "subtask", func(t *task.Task, now time.Time) (string, error) {
		s, err := task.RemoveSubtask(t, args[1], now)
		if err != nil {
			return "", err
		}
		return "remove " + s.Title, nil
	})
	if err != nil {
		return err
	}
	return printSubtasks("subtask_remove", t, "Removed item from "+t.Title)
}
