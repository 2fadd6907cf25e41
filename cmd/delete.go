package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/twiced-technology-gmbh/fivetodo/internal/clierr"
	"github.com/twiced-technology-gmbh/fivetodo/internal/output"
	"github.com/twiced-technology-gmbh/fivetodo/internal/task"
)

var deleteCmd = &cobra.Command{
	Use:     "delete ID",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Long: `Removes a task file. Prompts for confirmation in interactive mode.
The deletion can be reverted with undo.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolP("yes", "y", false, "skip confirmation prompt")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
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

	yes, _ := cmd.Flags().GetBool("yes")
	ok, err := confirm(fmt.Sprintf("Delete task %s %q?", t.ShortID(), t.Title), yes)
	if err != nil || !ok {
		return err
	}

	deleted, err := st.Delete(t.ID)
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, output.Mutation{Action: "delete", Task: deleted})
	}
	output.Messagef(os.Stdout, "Deleted task %s: %s", deleted.ShortID(), deleted.Title)
	return nil
}

// confirm asks a yes/no question on stderr. Without a terminal it fails
// with CONFIRMATION_REQUIRED unless yes is set.
func confirm(prompt string, yes bool) (bool, error) {
	if yes {
		return true, nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, clierr.New(clierr.ConfirmationReq,
			"cannot prompt for confirmation (not a terminal); use --yes")
	}
	fmt.Fprintf(os.Stderr, "%s [y/N] ", prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	answer = strings.TrimSpace(strings.ToLower(answer))
	if answer != "y" && answer != "yes" {
		fmt.Fprintln(os.Stderr, "Canceled.")
		return false, nil
	}
	return true, nil
}
