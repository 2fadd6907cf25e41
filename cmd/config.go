package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/fivetodo/internal/clierr"
	"github.com/twiced-technology-gmbh/fivetodo/internal/config"
	"github.com/twiced-technology-gmbh/fivetodo/internal/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify store configuration",
	Long:  `View the full configuration, get a specific key, or set a writable value.`,
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2), //nolint:mnd // key and value
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

// configAccessor describes how to get and set a config key.
type configAccessor struct {
	get      func(*config.Config) any
	set      func(*config.Config, string) error
	writable bool
}

func stringKey(get func(*config.Config) *string) configAccessor {
	return configAccessor{
		get:      func(c *config.Config) any { return *get(c) },
		set:      func(c *config.Config, v string) error { *get(c) = v; return nil },
		writable: true,
	}
}

// intKey parses the value as an integer; Validate checks the range.
func intKey(name string, get func(*config.Config) *int) configAccessor {
	return configAccessor{
		get: func(c *config.Config) any { return *get(c) },
		set: func(c *config.Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return clierr.Newf(clierr.InvalidInput, "invalid %s %q: must be an integer", name, v)
			}
			*get(c) = n
			return nil
		},
		writable: true,
	}
}

func configAccessors() map[string]configAccessor {
	return map[string]configAccessor{
		"version":   {get: func(c *config.Config) any { return c.Version }},
		"tasks_dir": {get: func(c *config.Config) any { return c.TasksDir }},
		"name":      stringKey(func(c *config.Config) *string { return &c.Name }),

		"defaults.priority": stringKey(func(c *config.Config) *string { return &c.Defaults.Priority }),
		"defaults.energy":   stringKey(func(c *config.Config) *string { return &c.Defaults.Energy }),
		"defaults.slot":     stringKey(func(c *config.Config) *string { return &c.Defaults.Slot }),
		"defaults.duration_min": intKey("defaults.duration_min",
			func(c *config.Config) *int { return &c.Defaults.DurationMin }),

		"view.mode": stringKey(func(c *config.Config) *string { return &c.View.Mode }),
		"view.show_done": {
			get: func(c *config.Config) any { return c.View.ShowDone },
			set: func(c *config.Config, v string) error {
				b, err := strconv.ParseBool(v)
				if err != nil {
					return clierr.Newf(clierr.InvalidInput, "invalid view.show_done %q: must be true or false", v)
				}
				c.View.ShowDone = b
				return nil
			},
			writable: true,
		},

		"history.max_snapshots": intKey("history.max_snapshots",
			func(c *config.Config) *int { return &c.History.MaxSnapshots }),

		"pomodoro.focus_min": intKey("pomodoro.focus_min",
			func(c *config.Config) *int { return &c.Pomodoro.FocusMin }),
		"pomodoro.break_min": intKey("pomodoro.break_min",
			func(c *config.Config) *int { return &c.Pomodoro.BreakMin }),
		"pomodoro.long_break_min": intKey("pomodoro.long_break_min",
			func(c *config.Config) *int { return &c.Pomodoro.LongBreakMin }),
		"pomodoro.rounds_before_long": intKey("pomodoro.rounds_before_long",
			func(c *config.Config) *int { return &c.Pomodoro.RoundsBeforeLong }),

		"tui.title_lines": intKey("tui.title_lines",
			func(c *config.Config) *int { return &c.TUI.TitleLines }),
	}
}

// allConfigKeys returns config keys in display order.
func allConfigKeys() []string {
	return []string{
		"version",
		"name",
		"tasks_dir",
		"defaults.priority",
		"defaults.energy",
		"defaults.duration_min",
		"defaults.slot",
		"view.mode",
		"view.show_done",
		"history.max_snapshots",
		"pomodoro.focus_min",
		"pomodoro.break_min",
		"pomodoro.long_break_min",
		"pomodoro.rounds_before_long",
		"tui.title_lines",
	}
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	accessors := configAccessors()

	if outputFormat() == output.FormatJSON {
		m := make(map[string]any, len(accessors))
		for _, key := range allConfigKeys() {
			m[key] = accessors[key].get(cfg)
		}
		return output.JSON(os.Stdout, m)
	}

	for _, key := range allConfigKeys() {
		fmt.Fprintf(os.Stdout, "%-28s %v\n", key, accessors[key].get(cfg))
	}
	return nil
}

func runConfigGet(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	acc, err := lookupConfigKey(args[0])
	if err != nil {
		return err
	}
	val := acc.get(cfg)

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, val)
	}
	fmt.Fprintln(os.Stdout, val)
	return nil
}

func runConfigSet(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	key, value := args[0], args[1]
	acc, err := lookupConfigKey(key)
	if err != nil {
		return err
	}
	if !acc.writable {
		return clierr.Newf(clierr.InvalidInput, "config key %q is read-only", key)
	}

	if err := acc.set(cfg, value); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{"key": key, "value": acc.get(cfg)})
	}
	output.Messagef(os.Stdout, "Set %s = %v", key, acc.get(cfg))
	return nil
}

func lookupConfigKey(key string) (configAccessor, error) {
	acc, ok := configAccessors()[key]
	if !ok {
		return configAccessor{}, clierr.Newf(clierr.InvalidInput, "unknown config key %q", key).
			WithDetails(map[string]any{"key": key, "allowed": strings.Join(allConfigKeys(), ", ")})
	}
	return acc, nil
}
