package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/twiced-technology-gmbh/fivetodo/internal/date"
	"github.com/twiced-technology-gmbh/fivetodo/internal/output"
	"github.com/twiced-technology-gmbh/fivetodo/internal/task"
)

const defaultWrap = 80

var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show task details",
	Long: `Displays full details of a single task including its checklist and notes.
ID may be any unique prefix of the task ID. Notes are rendered as markdown.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().Bool("raw", false, "print notes without markdown rendering")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
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

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, t)
	case output.FormatCompact:
		output.TaskDetailCompact(os.Stdout, t)
		return nil
	}

	output.TaskDetail(os.Stdout, t, date.Today())
	if strings.TrimSpace(t.Notes) == "" {
		return nil
	}

	raw, _ := cmd.Flags().GetBool("raw")
	notes := t.Notes
	if !raw {
		rendered, err := renderMarkdown(notes)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: rendering notes: %v\n", err)
		} else {
			notes = rendered
		}
	}
	fmt.Fprintln(os.Stdout)
	fmt.Fprintln(os.Stdout, strings.TrimRight(notes, "\n"))
	return nil
}

// renderMarkdown renders notes for the terminal, falling back to the plain
// style when color is off or stdout is not a terminal.
func renderMarkdown(md string) (string, error) {
	width := defaultWrap
	style := glamour.WithAutoStyle()
	if flagNoColor || !term.IsTerminal(int(os.Stdout.Fd())) {
		style = glamour.WithStandardStyle("notty")
	} else if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = min(w, defaultWrap)
	}

	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return "", fmt.Errorf("creating markdown renderer: %w", err)
	}
	return r.Render(md)
}
