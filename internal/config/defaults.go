// Package config handles store configuration.
package config

const (
	// DefaultDir is the store directory name looked up from the working directory.
	DefaultDir = ".fivetodo"
	// DefaultTasksDir is the default tasks subdirectory name.
	DefaultTasksDir = "tasks"
	// DefaultName is the name given to a store created without one.
	DefaultName = "fivetodo"
	// DefaultViewMode is the list mode used when none is given.
	DefaultViewMode = "all"
	// DefaultMaxSnapshots bounds the undo history.
	DefaultMaxSnapshots = 50
	// DefaultTitleLines is the default number of title lines in TUI cards.
	DefaultTitleLines = 2

	// Pomodoro defaults, in minutes.
	DefaultFocusMin         = 25
	DefaultBreakMin         = 5
	DefaultLongBreakMin     = 15
	DefaultRoundsBeforeLong = 4

	// ConfigFileName is the name of the config file within the store directory.
	ConfigFileName = "config.yml"

	// CurrentVersion is the current config schema version.
	CurrentVersion = 2

	// EnvDir overrides store discovery when set.
	EnvDir = "FIVETODO_DIR"
)
