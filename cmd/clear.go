package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/fivetodo/internal/output"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all completed tasks",
	Long:  `Deletes every done task. The removal can be reverted with undo.`,
	Args:  cobra.NoArgs,
	RunE:  runClear,
}

func init() {
	clearCmd.Flags().BoolP("yes", "y", false, "skip confirmation prompt")
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, _ []string) error {
	_, st, err := openStore()
	if err != nil {
		return err
	}

	tasks, err := loadTasks(st)
	if err != nil {
		return err
	}
	var done int
	for _, t := range tasks {
		if t.IsDone() {
			done++
		}
	}
	if done == 0 {
		if outputFormat() == output.FormatJSON {
			return output.JSON(os.Stdout, output.Mutation{Action: "clear"})
		}
		output.Messagef(os.Stdout, "No completed tasks.")
		return nil
	}

	yes, _ := cmd.Flags().GetBool("yes")
	ok, err := confirm(fmt.Sprintf("Remove %d completed tasks?", done), yes)
	if err != nil || !ok {
		return err
	}

	n, err := st.ClearCompleted()
	if err != nil {
		return err
	}
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, output.Mutation{Action: "clear", Count: n})
	}
	output.Messagef(os.Stdout, "Removed %d completed tasks", n)
	return nil
}
