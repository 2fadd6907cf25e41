package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/fivetodo/internal/date"
	"github.com/twiced-technology-gmbh/fivetodo/internal/output"
	"github.com/twiced-technology-gmbh/fivetodo/internal/remind"
	"github.com/twiced-technology-gmbh/fivetodo/internal/watcher"
)

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Deliver task reminders",
	Long: `Runs the reminder daemon: every task whose reminder time has passed is
announced once (terminal bell plus message) and marked notified. Reminders
missed while the daemon was not running fire when it starts.

Use --once for a single pass, e.g. from cron. Use --list to show the
reminders that are still armed.`,
	Args: cobra.NoArgs,
	RunE: runRemind,
}

func init() {
	remindCmd.Flags().Bool("once", false, "fire pending reminders and exit")
	remindCmd.Flags().Bool("list", false, "list armed reminders and exit")
	remindCmd.Flags().Bool("no-bell", false, "do not ring the terminal bell")
	rootCmd.AddCommand(remindCmd)
}

func runRemind(cmd *cobra.Command, _ []string) error {
	cfg, st, err := openStore()
	if err != nil {
		return err
	}

	if list, _ := cmd.Flags().GetBool("list"); list {
		tasks, err := loadTasks(st)
		if err != nil {
			return err
		}
		upcoming := remind.Upcoming(tasks, st.Now())
		if outputFormat() == output.FormatJSON {
			return output.JSON(os.Stdout, upcoming)
		}
		output.TaskTable(os.Stdout, upcoming, date.Of(st.Now()))
		return nil
	}

	noBell, _ := cmd.Flags().GetBool("no-bell")
	sched := &remind.Scheduler{
		Store:    st,
		Notifier: remind.TerminalNotifier{W: os.Stdout, Bell: !noBell},
		Now:      st.Now,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if once, _ := cmd.Flags().GetBool("once"); once {
		fired, _, err := sched.RunOnce(ctx)
		if err != nil {
			return err
		}
		if outputFormat() == output.FormatJSON {
			return output.JSON(os.Stdout, output.Mutation{Action: "remind", Count: len(fired)})
		}
		if len(fired) == 0 {
			fmt.Fprintln(os.Stderr, "No reminders due.")
		}
		return nil
	}

	w, changes, err := watcher.NewChan([]string{cfg.TasksPath()})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: file watcher unavailable, polling: %v\n", err)
	} else {
		defer w.Close()
		go w.Run(ctx, func(watchErr error) {
			fmt.Fprintf(os.Stderr, "Warning: file watcher: %v\n", watchErr)
		})
		sched.Changes = changes
	}

	fmt.Fprintln(os.Stderr, "Waiting for reminders... (Ctrl+C to stop)")
	return sched.Run(ctx)
}
