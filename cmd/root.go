// Package cmd implements the fivetodo CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/fivetodo/internal/clierr"
	"github.com/twiced-technology-gmbh/fivetodo/internal/config"
	"github.com/twiced-technology-gmbh/fivetodo/internal/output"
	"github.com/twiced-technology-gmbh/fivetodo/internal/store"
	"github.com/twiced-technology-gmbh/fivetodo/internal/task"
)

// version is set at build time via ldflags.
var version = "dev"

// Global flags.
var (
	flagJSON    bool
	flagTable   bool
	flagCompact bool
	flagDir     string
	flagNoColor bool
)

var rootCmd = &cobra.Command{
	Use:   "fivetodo",
	Short: "Local-first personal task manager",
	Long: `fivetodo keeps your tasks as markdown files in a .fivetodo directory.
Run fivetodo without arguments to open the TUI, or use the subcommands to
capture, plan and complete tasks from the shell.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runTUI,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if flagNoColor || termenv.EnvNoColor() {
			output.DisableColor()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagTable, "table", false, "output as table")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "compact", false, "compact one-line-per-record output")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "oneline", false, "alias for --compact")
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", "", "path to the task store directory")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable color output")
}

// Execute runs the root command.
func Execute() {
	_, err := rootCmd.ExecuteC()
	if err == nil {
		return
	}

	var silent *clierr.SilentError
	if errors.As(err, &silent) {
		os.Exit(silent.Code)
	}

	if outputFormat() == output.FormatJSON {
		var cliErr *clierr.Error
		if errors.As(err, &cliErr) {
			output.JSONError(os.Stdout, cliErr.Code, cliErr.Message, cliErr.Details)
			os.Exit(cliErr.ExitCode())
		}
		output.JSONError(os.Stdout, clierr.InternalError, err.Error(), nil)
		os.Exit(2) //nolint:mnd // exit code 2 for internal errors
	}

	fmt.Fprintln(os.Stderr, "Error:", err)
	var cliErr *clierr.Error
	if errors.As(err, &cliErr) {
		os.Exit(cliErr.ExitCode())
	}
	os.Exit(1)
}

// loadConfig resolves the store directory from --dir, FIVETODO_DIR, the
// working directory tree or the per-user fallback, and loads its config.
func loadConfig() (*config.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}
	return config.Resolve(flagDir, cwd)
}

// openStore loads the config and opens the task store it describes.
func openStore() (*config.Config, *store.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	return cfg, store.Open(cfg), nil
}

// loadTasks reads every task, reporting malformed files on stderr.
func loadTasks(st *store.Store) ([]*task.Task, error) {
	tasks, warnings, err := st.LoadWithWarnings()
	if err != nil {
		return nil, err
	}
	printWarnings(warnings)
	return tasks, nil
}

// outputFormat returns the detected output format from flags/env.
func outputFormat() output.Format {
	return output.Detect(flagJSON, flagTable, flagCompact)
}

// printWarnings writes task read warnings to stderr.
func printWarnings(warnings []task.ReadWarning) {
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: skipping malformed file %s: %v\n", w.File, w.Err)
	}
}

// printMutation reports a committed task change in the selected format.
func printMutation(action, verb string, res store.Result) error {
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, output.Mutation{Action: action, Task: res.Task, Spawned: res.Spawned})
	}
	output.Messagef(os.Stdout, "%s task %s: %s", verb, res.Task.ShortID(), res.Task.Title)
	if res.Spawned != nil {
		due := "--"
		if res.Spawned.Due != nil {
			due = res.Spawned.Due.String()
		}
		output.Messagef(os.Stdout, "  Next: %s due %s", res.Spawned.ShortID(), due)
	}
	return nil
}
