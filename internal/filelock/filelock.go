// Package filelock provides advisory file locking so that concurrent
// fivetodo processes (CLI, TUI, reminder daemon) serialize store writes.
package filelock

import (
	"fmt"
	"os"
	"path/filepath"
)

const lockFileMode = 0o600

// FileName is the lock file kept inside the store directory.
const FileName = ".lock"

// Lock acquires an exclusive advisory lock on the file at path,
// creating it if it does not exist. The returned function releases
// the lock and must be called when the critical section is done.
//
// Only one process can hold the lock at a time; other callers block
// until the lock is available.
func Lock(path string) (unlock func() error, err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, lockFileMode) //nolint:gosec // lock file path from trusted source
	if err != nil {
		return nil, err
	}

	if err := lockFile(f); err != nil {
		_ = f.Close()
		return nil, err
	}

	return func() error {
		unlockErr := unlockFile(f)
		closeErr := f.Close()
		if unlockErr != nil {
			return unlockErr
		}
		return closeErr
	}, nil
}

// WithStore runs fn while holding the lock of the store rooted at storeDir.
func WithStore(storeDir string, fn func() error) error {
	unlock, err := Lock(filepath.Join(storeDir, FileName))
	if err != nil {
		return fmt.Errorf("locking store: %w", err)
	}
	fnErr := fn()
	if err := unlock(); err != nil && fnErr == nil {
		return fmt.Errorf("unlocking store: %w", err)
	}
	return fnErr
}
