package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/twiced-technology-gmbh/fivetodo/internal/board"
	"github.com/twiced-technology-gmbh/fivetodo/internal/clierr"
	"github.com/twiced-technology-gmbh/fivetodo/internal/pomodoro"
	"github.com/twiced-technology-gmbh/fivetodo/internal/task"
)

const (
	fileMode = 0o600
	dirMode  = 0o750
)

// Sentinel errors.
var (
	ErrNotFound = errors.New("no task store found (run 'fivetodo init' to create one)")
	ErrInvalid  = errors.New("invalid config")
)

// Config represents the task store configuration.
type Config struct {
	Version  int            `yaml:"version"`
	Name     string         `yaml:"name"`
	TasksDir string         `yaml:"tasks_dir"`
	Defaults DefaultsConfig `yaml:"defaults"`
	View     ViewConfig     `yaml:"view"`
	History  HistoryConfig  `yaml:"history"`
	Pomodoro PomodoroConfig `yaml:"pomodoro"`
	TUI      TUIConfig      `yaml:"tui,omitempty"`

	// dir is the absolute path to the store directory (not serialized).
	dir string `yaml:"-"`
}

// DefaultsConfig holds default values for new tasks.
type DefaultsConfig struct {
	Priority    string `yaml:"priority"`
	Energy      string `yaml:"energy"`
	DurationMin int    `yaml:"duration_min"`
	Slot        string `yaml:"slot"`
}

// ViewConfig holds the list view used when no flags are given.
type ViewConfig struct {
	Mode     string `yaml:"mode"`
	ShowDone bool   `yaml:"show_done"`
}

// HistoryConfig bounds the undo snapshot log.
type HistoryConfig struct {
	MaxSnapshots int `yaml:"max_snapshots"`
}

// PomodoroConfig holds focus timer lengths in minutes.
type PomodoroConfig struct {
	FocusMin         int `yaml:"focus_min"`
	BreakMin         int `yaml:"break_min"`
	LongBreakMin     int `yaml:"long_break_min"`
	RoundsBeforeLong int `yaml:"rounds_before_long"`
}

// TUIConfig holds TUI-specific display settings.
type TUIConfig struct {
	TitleLines int `yaml:"title_lines,omitempty"`
}

// Dir returns the absolute path to the store directory.
func (c *Config) Dir() string {
	return c.dir
}

// TasksPath returns the absolute path to the tasks directory.
func (c *Config) TasksPath() string {
	return filepath.Join(c.dir, c.TasksDir)
}

// ConfigPath returns the absolute path to the config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.dir, ConfigFileName)
}

// SetDir sets the store directory path on the config.
func (c *Config) SetDir(dir string) {
	c.dir = dir
}

// NewDefault creates a Config with default values.
func NewDefault(name string) *Config {
	if name == "" {
		name = DefaultName
	}
	d := task.DefaultValues()
	return &Config{
		Version:  CurrentVersion,
		Name:     name,
		TasksDir: DefaultTasksDir,
		Defaults: DefaultsConfig{
			Priority:    string(d.Priority),
			Energy:      string(d.Energy),
			DurationMin: d.DurationMin,
			Slot:        string(d.Slot),
		},
		View:    ViewConfig{Mode: DefaultViewMode},
		History: HistoryConfig{MaxSnapshots: DefaultMaxSnapshots},
		Pomodoro: PomodoroConfig{
			FocusMin:         DefaultFocusMin,
			BreakMin:         DefaultBreakMin,
			LongBreakMin:     DefaultLongBreakMin,
			RoundsBeforeLong: DefaultRoundsBeforeLong,
		},
		TUI: TUIConfig{TitleLines: DefaultTitleLines},
	}
}

// Validate checks the config for errors.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("%w: unsupported version %d (expected %d)", ErrInvalid, c.Version, CurrentVersion)
	}
	if c.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if c.TasksDir == "" {
		return fmt.Errorf("%w: tasks_dir is required", ErrInvalid)
	}
	if err := c.validateDefaults(); err != nil {
		return err
	}
	if _, err := board.ParseMode(c.View.Mode); err != nil {
		return fmt.Errorf("%w: view.mode: %w", ErrInvalid, err)
	}
	if c.History.MaxSnapshots < 1 {
		return fmt.Errorf("%w: history.max_snapshots must be >= 1", ErrInvalid)
	}
	if err := c.validatePomodoro(); err != nil {
		return err
	}
	return c.validateTUI()
}

func (c *Config) validateDefaults() error {
	if _, err := task.ParsePriority(c.Defaults.Priority); err != nil {
		return fmt.Errorf("%w: defaults.priority: %w", ErrInvalid, err)
	}
	if _, err := task.ParseEnergy(c.Defaults.Energy); err != nil {
		return fmt.Errorf("%w: defaults.energy: %w", ErrInvalid, err)
	}
	if _, err := task.ParseSlot(c.Defaults.Slot); err != nil {
		return fmt.Errorf("%w: defaults.slot: %w", ErrInvalid, err)
	}
	if err := task.ValidateDuration(c.Defaults.DurationMin); err != nil {
		return fmt.Errorf("%w: defaults.duration_min: %w", ErrInvalid, err)
	}
	return nil
}

func (c *Config) validatePomodoro() error {
	p := c.Pomodoro
	fields := []struct {
		name  string
		value int
	}{
		{"pomodoro.focus_min", p.FocusMin},
		{"pomodoro.break_min", p.BreakMin},
		{"pomodoro.long_break_min", p.LongBreakMin},
		{"pomodoro.rounds_before_long", p.RoundsBeforeLong},
	}
	for _, f := range fields {
		if f.value < 1 {
			return fmt.Errorf("%w: %s must be >= 1", ErrInvalid, f.name)
		}
	}
	return nil
}

func (c *Config) validateTUI() error {
	const minTitleLines, maxTitleLines = 1, 3
	if c.TUI.TitleLines < minTitleLines || c.TUI.TitleLines > maxTitleLines {
		return fmt.Errorf("%w: tui.title_lines must be between %d and %d",
			ErrInvalid, minTitleLines, maxTitleLines)
	}
	return nil
}

// TaskDefaults returns the configured defaults for new tasks. Values that
// fail to parse fall back to the built-in defaults.
func (c *Config) TaskDefaults() task.Defaults {
	d := task.DefaultValues()
	if p, err := task.ParsePriority(c.Defaults.Priority); err == nil {
		d.Priority = p
	}
	if e, err := task.ParseEnergy(c.Defaults.Energy); err == nil {
		d.Energy = e
	}
	if s, err := task.ParseSlot(c.Defaults.Slot); err == nil {
		d.Slot = s
	}
	if c.Defaults.DurationMin > 0 {
		d.DurationMin = c.Defaults.DurationMin
	}
	return d
}

// ViewParams returns the default list view.
func (c *Config) ViewParams() board.ViewParams {
	mode, err := board.ParseMode(c.View.Mode)
	if err != nil {
		mode = board.ModeAll
	}
	return board.ViewParams{Mode: mode, ShowDone: c.View.ShowDone}
}

// PomodoroSettings converts the pomodoro section into timer settings.
func (c *Config) PomodoroSettings() pomodoro.Settings {
	p := c.Pomodoro
	return pomodoro.Settings{
		Focus:            time.Duration(p.FocusMin) * time.Minute,
		Break:            time.Duration(p.BreakMin) * time.Minute,
		LongBreak:        time.Duration(p.LongBreakMin) * time.Minute,
		RoundsBeforeLong: p.RoundsBeforeLong,
	}
}

// MaxSnapshots returns the undo history bound.
func (c *Config) MaxSnapshots() int {
	if c.History.MaxSnapshots < 1 {
		return DefaultMaxSnapshots
	}
	return c.History.MaxSnapshots
}

// TitleLines returns the configured number of title lines for TUI cards.
// Returns DefaultTitleLines if the value is unset (zero).
func (c *Config) TitleLines() int {
	if c.TUI.TitleLines == 0 {
		return DefaultTitleLines
	}
	return c.TUI.TitleLines
}

// Init creates a new store in the given directory with default settings.
// It creates the store directory, tasks subdirectory, and config file.
func Init(dir, name string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	if _, err := os.Stat(filepath.Join(absDir, ConfigFileName)); err == nil {
		return nil, clierr.Newf(clierr.StoreAlreadyExists, "task store already exists in %s", absDir).
			WithDetails(map[string]any{"dir": absDir})
	}

	cfg := NewDefault(name)
	cfg.SetDir(absDir)

	if err := os.MkdirAll(cfg.TasksPath(), dirMode); err != nil {
		return nil, fmt.Errorf("creating tasks directory: %w", err)
	}

	if err := cfg.Save(); err != nil {
		return nil, fmt.Errorf("writing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to its config file.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(c.ConfigPath(), data, fileMode)
}

// Load reads and validates a config from the given store directory.
func Load(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	path := filepath.Join(absDir, ConfigFileName)
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted source
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.dir = absDir

	oldVersion := cfg.Version
	if err := migrate(&cfg); err != nil {
		return nil, err
	}

	// Persist migrated config so future loads skip re-migration.
	if cfg.Version != oldVersion {
		if err := cfg.Save(); err != nil {
			return nil, fmt.Errorf("saving migrated config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// FindDir walks upward from startDir looking for a store directory
// containing config.yml. Returns the absolute path to the store directory.
func FindDir(startDir string) (string, error) {
	absStart, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	dir := absStart
	for {
		candidate := filepath.Join(dir, DefaultDir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return filepath.Join(dir, DefaultDir), nil
		}

		// Also check if we're inside the store directory itself.
		candidate = filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", clierr.New(clierr.StoreNotFound,
				"no task store found (run 'fivetodo init' to create one)")
		}
		dir = parent
	}
}

// HomeDir returns the per-user fallback store directory.
func HomeDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating user config dir: %w", err)
	}
	return filepath.Join(base, DefaultName), nil
}

// Resolve locates the store to use. An explicit dir wins, then the
// FIVETODO_DIR environment variable, then the nearest .fivetodo above
// startDir. When none exists the per-user store is used, created on first use.
func Resolve(explicit, startDir string) (*Config, error) {
	if explicit == "" {
		explicit = os.Getenv(EnvDir)
	}
	if explicit != "" {
		cfg, err := Load(explicit)
		if errors.Is(err, ErrNotFound) {
			return nil, clierr.Newf(clierr.StoreNotFound, "no task store in %s (run 'fivetodo init')", explicit).
				WithDetails(map[string]any{"dir": explicit})
		}
		return cfg, err
	}

	dir, err := FindDir(startDir)
	if err == nil {
		return Load(dir)
	}
	if clierr.CodeOf(err) != clierr.StoreNotFound {
		return nil, err
	}

	home, herr := HomeDir()
	if herr != nil {
		return nil, err
	}
	cfg, lerr := Load(home)
	if errors.Is(lerr, ErrNotFound) {
		return Init(home, DefaultName)
	}
	return cfg, lerr
}
