package config

import "fmt"

// migrate upgrades a config from its current version to CurrentVersion.
// Each migration function transforms the config one version forward.
// Returns an error if the config version is newer than what this binary supports.
func migrate(cfg *Config) error {
	if cfg.Version == CurrentVersion {
		return nil
	}
	if cfg.Version > CurrentVersion {
		return fmt.Errorf(
			"%w: config version %d is newer than supported version %d (upgrade fivetodo)",
			ErrInvalid, cfg.Version, CurrentVersion,
		)
	}
	if cfg.Version < 1 {
		return fmt.Errorf("%w: config version %d is invalid", ErrInvalid, cfg.Version)
	}

	for cfg.Version < CurrentVersion {
		fn, ok := migrations[cfg.Version]
		if !ok {
			return fmt.Errorf("%w: no migration path from version %d", ErrInvalid, cfg.Version)
		}
		if err := fn(cfg); err != nil {
			return fmt.Errorf("migrating config from v%d: %w", cfg.Version, err)
		}
	}

	return nil
}

// migrations maps each version to the function that migrates it to the next version.
// The migration function must increment cfg.Version after a successful migration.
var migrations = map[int]func(*Config) error{
	1: migrateV1ToV2,
}

// migrateV1ToV2 adds the pomodoro section and the history bound.
func migrateV1ToV2(cfg *Config) error { //nolint:unparam // signature must match migrations map type
	p := &cfg.Pomodoro
	if p.FocusMin == 0 {
		p.FocusMin = DefaultFocusMin
	}
	if p.BreakMin == 0 {
		p.BreakMin = DefaultBreakMin
	}
	if p.LongBreakMin == 0 {
		p.LongBreakMin = DefaultLongBreakMin
	}
	if p.RoundsBeforeLong == 0 {
		p.RoundsBeforeLong = DefaultRoundsBeforeLong
	}
	if cfg.History.MaxSnapshots == 0 {
		cfg.History.MaxSnapshots = DefaultMaxSnapshots
	}
	cfg.Version = 2
	return nil
}
