package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/fivetodo/internal/board"
	"github.com/twiced-technology-gmbh/fivetodo/internal/clierr"
	"github.com/twiced-technology-gmbh/fivetodo/internal/output"
	"github.com/twiced-technology-gmbh/fivetodo/internal/pomodoro"
	"github.com/twiced-technology-gmbh/fivetodo/internal/task"
)

var pomodoroCmd = &cobra.Command{
	Use:     "pomodoro [ID]",
	Aliases: []string{"focus"},
	Short:   "Run a focus timer",
	Long: `Counts down focus and break phases in the terminal. When a task ID is
given the session is bound to that task; only open tasks can be focused.

By default one phase runs. Use --phases to chain several, alternating focus
with short breaks and a long break after every configured number of rounds.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPomodoro,
}

func init() {
	pomodoroCmd.Flags().IntP("phases", "p", 1, "number of phases to run")
	pomodoroCmd.Flags().Bool("settings", false, "print the configured phase lengths and exit")
	rootCmd.AddCommand(pomodoroCmd)
}

func runPomodoro(cmd *cobra.Command, args []string) error {
	cfg, st, err := openStore()
	if err != nil {
		return err
	}
	settings := cfg.PomodoroSettings()

	if show, _ := cmd.Flags().GetBool("settings"); show {
		if outputFormat() == output.FormatJSON {
			return output.JSON(os.Stdout, map[string]any{
				"focus_min":          int(settings.Focus.Minutes()),
				"break_min":          int(settings.Break.Minutes()),
				"long_break_min":     int(settings.LongBreak.Minutes()),
				"rounds_before_long": settings.RoundsBeforeLong,
			})
		}
		output.Messagef(os.Stdout, "Focus %s, break %s, long break %s every %d rounds",
			pomodoro.Format(settings.Focus), pomodoro.Format(settings.Break),
			pomodoro.Format(settings.LongBreak), settings.RoundsBeforeLong)
		return nil
	}

	timer := pomodoro.New(settings)
	var bound string
	if len(args) == 1 {
		tasks, err := loadTasks(st)
		if err != nil {
			return err
		}
		t, err := task.Find(tasks, args[0])
		if err != nil {
			return err
		}
		if t.IsDone() {
			return clierr.Newf(clierr.StatusConflict, "task %s is done; only open tasks can be focused", t.ShortID()).
				WithDetails(map[string]any{"id": t.ID, "status": t.Status})
		}
		timer.Bind(t.ID)
		bound = t.Title
	}

	phases, _ := cmd.Flags().GetInt("phases")
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return runTimer(ctx, cfg.Dir(), timer, bound, max(phases, 1))
}

// runTimer drives timer with a one-second ticker until n phases have ended
// or ctx is canceled.
func runTimer(ctx context.Context, storeDir string, timer *pomodoro.Timer, bound string, n int) error {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	timer.Toggle()
	drawTimer(timer, bound)
	for ended := 0; ended < n; {
		select {
		case <-ctx.Done():
			fmt.Fprintln(os.Stdout)
			return nil
		case <-ticker.C:
		}

		ev, done := timer.Tick(time.Second)
		drawTimer(timer, bound)
		if !done {
			continue
		}
		ended++
		fmt.Fprintf(os.Stdout, "\a\n%s finished, %s next\n", ev.Ended, ev.Next)
		board.LogMutation(storeDir, "pomodoro", ev.Task, fmt.Sprintf("%s finished (round %d)", ev.Ended, ev.Round))
		if ended < n {
			timer.Toggle()
		}
	}
	return nil
}

func drawTimer(timer *pomodoro.Timer, bound string) {
	var b strings.Builder
	output.PomodoroLine(&b, timer, bound)
	fmt.Fprint(os.Stdout, "\r\033[K"+strings.TrimRight(b.String(), "\n"))
}
