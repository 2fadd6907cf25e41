package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/fivetodo/internal/board"
	"github.com/twiced-technology-gmbh/fivetodo/internal/config"
	"github.com/twiced-technology-gmbh/fivetodo/internal/date"
	"github.com/twiced-technology-gmbh/fivetodo/internal/output"
	"github.com/twiced-technology-gmbh/fivetodo/internal/task"
	"github.com/twiced-technology-gmbh/fivetodo/internal/watcher"
)

var flagWatch bool

var boardCmd = &cobra.Command{
	Use:     "board",
	Aliases: []string{"kanban"},
	Short:   "Show the kanban board",
	Long: `Displays the headline counters and the tasks in todo, doing and done columns.

Use --watch to keep the display live-updating. The board re-renders automatically
whenever task files change on disk (e.g., from another terminal or the TUI).
Press Ctrl+C to stop.`,
	Args: cobra.NoArgs,
	RunE: runBoard,
}

var statsCmd = &cobra.Command{
	Use:     "stats",
	Aliases: []string{"summary"},
	Short:   "Show task counters",
	Long:    `Prints total, done, overdue and due-today counts and the completion rate.`,
	Args:    cobra.NoArgs,
	RunE:    runStats,
}

func init() {
	boardCmd.Flags().BoolVarP(&flagWatch, "watch", "w", false, "live-update the board on file changes")
	boardCmd.Flags().StringP("tag", "t", "", "only tasks with this tag")
	boardCmd.Flags().StringP("search", "s", "", "search title, notes and tags")
	rootCmd.AddCommand(boardCmd, statsCmd)
}

func runBoard(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	p := board.ViewParams{ShowDone: true, Mode: board.ModeAll}
	p.Tag, _ = cmd.Flags().GetString("tag")
	p.Query, _ = cmd.Flags().GetString("search")

	if err := renderBoard(cfg, p); err != nil {
		return err
	}
	if !flagWatch {
		return nil
	}
	return watchBoard(cfg, p)
}

func renderBoard(cfg *config.Config, p board.ViewParams) error {
	tasks, warnings, err := task.ReadAllLenient(cfg.TasksPath())
	if err != nil {
		return err
	}
	printWarnings(warnings)

	asOf := date.Today()
	stats := board.Summary(tasks, asOf)
	cols := board.Kanban(board.Derive(tasks, p, asOf))

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, map[string]any{"stats": stats, "columns": cols})
	case output.FormatCompact:
		output.StatsCompact(os.Stdout, stats)
		output.ColumnsCompact(os.Stdout, cols)
	default:
		output.StatsTable(os.Stdout, cfg.Name, stats)
		fmt.Fprintln(os.Stdout)
		output.ColumnsTable(os.Stdout, cols, asOf)
	}
	return nil
}

func watchBoard(cfg *config.Config, p board.ViewParams) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w, err := watcher.New([]string{cfg.TasksPath(), cfg.Dir()}, func() {
		clearScreen()
		if renderErr := renderBoard(cfg, p); renderErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: rendering board: %v\n", renderErr)
		}
	})
	if err != nil {
		return fmt.Errorf("starting file watcher: %w", err)
	}
	defer w.Close()

	fmt.Fprintln(os.Stderr, "Watching for changes... (Ctrl+C to stop)")

	w.Run(ctx, func(watchErr error) {
		fmt.Fprintf(os.Stderr, "Warning: file watcher: %v\n", watchErr)
	})
	return nil
}

func runStats(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	tasks, warnings, err := task.ReadAllLenient(cfg.TasksPath())
	if err != nil {
		return err
	}
	printWarnings(warnings)

	stats := board.Summary(tasks, date.Today())
	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, map[string]any{
			"stats":     stats,
			"by_status": board.CountByStatus(tasks),
			"tags":      board.Tags(tasks),
		})
	case output.FormatCompact:
		output.StatsCompact(os.Stdout, stats)
	default:
		output.StatsTable(os.Stdout, cfg.Name, stats)
	}
	return nil
}

// clearScreen sends ANSI escape codes to clear the terminal and move the
// cursor to the top-left corner.
func clearScreen() {
	fmt.Fprint(os.Stdout, "\033[2J\033[H")
}
