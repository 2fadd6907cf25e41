//go:build windows

package filelock

import (
	"errors"
	"os"
	"time"

	"golang.org/x/sys/windows"
)

// retryInterval is how long lockFile yields between non-blocking attempts.
const retryInterval = 2 * time.Millisecond

// lockRange covers the first byte of the lock file.
const lockRange = 1

func lockFile(f *os.File) error {
	h := windows.Handle(f.Fd())
	for {
		err := windows.LockFileEx(h,
			windows.LOCKFILE_EXCLUSIVE_LOCK|windows.LOCKFILE_FAIL_IMMEDIATELY,
			0, lockRange, 0, new(windows.Overlapped))
		if err == nil {
			return nil
		}
		// A blocking LockFileEx would pin the OS thread; poll instead.
		if !errors.Is(err, windows.ERROR_LOCK_VIOLATION) {
			return err
		}
		time.Sleep(retryInterval)
	}
}

func unlockFile(f *os.File) error {
	return windows.UnlockFileEx(windows.Handle(f.Fd()), 0, lockRange, 0, new(windows.Overlapped))
}
