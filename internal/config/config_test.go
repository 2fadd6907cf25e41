package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/fivetodo/internal/board"
	"github.com/twiced-technology-gmbh/fivetodo/internal/clierr"
	"github.com/twiced-technology-gmbh/fivetodo/internal/task"
)

func TestInitAndLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), DefaultDir)

	cfg, err := Init(dir, "home")
	require.NoError(t, err)
	assert.DirExists(t, cfg.TasksPath())
	assert.FileExists(t, cfg.ConfigPath())

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "home", loaded.Name)
	assert.Equal(t, CurrentVersion, loaded.Version)
	assert.Equal(t, task.DefaultValues(), loaded.TaskDefaults())
	assert.Equal(t, board.ModeAll, loaded.ViewParams().Mode)
	assert.Equal(t, 25*time.Minute, loaded.PomodoroSettings().Focus)
	assert.Equal(t, DefaultMaxSnapshots, loaded.MaxSnapshots())
}

func TestInitTwiceFails(t *testing.T) {
	dir := t.TempDir()
	_, err := Init(dir, "")
	require.NoError(t, err)

	_, err = Init(dir, "")
	assert.Equal(t, clierr.StoreAlreadyExists, clierr.CodeOf(err))
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMigrateV1(t *testing.T) {
	dir := t.TempDir()
	v1 := `version: 1
name: legacy
tasks_dir: tasks
defaults:
  priority: high
  energy: low
  duration_min: 30
  slot: morning
view:
  mode: today
  show_done: true
tui:
  title_lines: 1
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(v1), 0o600))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, CurrentVersion, cfg.Version)
	assert.Equal(t, DefaultFocusMin, cfg.Pomodoro.FocusMin)
	assert.Equal(t, DefaultRoundsBeforeLong, cfg.Pomodoro.RoundsBeforeLong)
	assert.Equal(t, DefaultMaxSnapshots, cfg.History.MaxSnapshots)
	assert.Equal(t, task.PriorityHigh, cfg.TaskDefaults().Priority)
	assert.Equal(t, task.SlotMorning, cfg.TaskDefaults().Slot)
	assert.Equal(t, 30, cfg.TaskDefaults().DurationMin)
	assert.True(t, cfg.ViewParams().ShowDone)

	// Migrated config is persisted.
	data, err := os.ReadFile(filepath.Join(dir, ConfigFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "version: 2")
}

func TestMigrateRejectsNewer(t *testing.T) {
	cfg := NewDefault("x")
	cfg.Version = CurrentVersion + 1
	assert.ErrorIs(t, migrate(cfg), ErrInvalid)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty name", func(c *Config) { c.Name = "" }},
		{"bad priority", func(c *Config) { c.Defaults.Priority = "whenever" }},
		{"bad energy", func(c *Config) { c.Defaults.Energy = "huge" }},
		{"bad slot", func(c *Config) { c.Defaults.Slot = "night" }},
		{"zero duration", func(c *Config) { c.Defaults.DurationMin = 0 }},
		{"bad mode", func(c *Config) { c.View.Mode = "someday" }},
		{"no history", func(c *Config) { c.History.MaxSnapshots = 0 }},
		{"no focus", func(c *Config) { c.Pomodoro.FocusMin = 0 }},
		{"title lines", func(c *Config) { c.TUI.TitleLines = 4 }},
	}
	require.NoError(t, NewDefault("ok").Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefault("ok")
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

func TestFindDir(t *testing.T) {
	root := t.TempDir()
	store := filepath.Join(root, DefaultDir)
	_, err := Init(store, "")
	require.NoError(t, err)

	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o750))

	found, err := FindDir(nested)
	require.NoError(t, err)
	assert.Equal(t, store, found)

	found, err = FindDir(store)
	require.NoError(t, err)
	assert.Equal(t, store, found)
}

func TestResolveExplicitAndHomeFallback(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv("HOME", home)
	t.Setenv(EnvDir, "")

	explicit := t.TempDir()
	_, err := Resolve(explicit, explicit)
	assert.Equal(t, clierr.StoreNotFound, clierr.CodeOf(err))

	_, err = Init(explicit, "explicit")
	require.NoError(t, err)
	cfg, err := Resolve(explicit, "")
	require.NoError(t, err)
	assert.Equal(t, "explicit", cfg.Name)

	// No store above an empty directory: the per-user store is created.
	userDir, err := HomeDir()
	require.NoError(t, err)
	cfg, err = Resolve("", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, userDir, cfg.Dir())
	assert.FileExists(t, filepath.Join(userDir, ConfigFileName))
}
