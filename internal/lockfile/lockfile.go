// Package lockfile provides advisory cross-process locking scoped to an open
// file descriptor.
//
// The announcement daemon and the configuration editor share INI files and the
// reload marker through the filesystem. Every read happens under a shared lock
// and every write under an exclusive lock so neither process observes a torn
// document. Locks are released unconditionally when the callback returns,
// including on error.
package lockfile

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// WithShared opens path read-only, acquires a shared advisory lock on the
// descriptor, and invokes fn with the locked file. Acquisition blocks until
// the lock is available. If the open fails no lock is attempted and the error
// propagates.
func WithShared(path string, fn func(f *os.File) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	return withLocked(f, unix.LOCK_SH, fn)
}

// WithExclusive opens path for writing using the provided flags (for example
// os.O_WRONLY|os.O_CREATE|os.O_TRUNC), acquires an exclusive advisory lock on
// the descriptor, and invokes fn with the locked file.
func WithExclusive(path string, flag int, fn func(f *os.File) error) error {
	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return err
	}
	return withLocked(f, unix.LOCK_EX, fn)
}

func withLocked(f *os.File, how int, fn func(f *os.File) error) (err error) {
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if err := unix.Flock(int(f.Fd()), how); err != nil {
		return fmt.Errorf("lock %s: %w", f.Name(), err)
	}
	defer func() {
		// Unlock before close so waiters are released even if close fails.
		if unlockErr := unix.Flock(int(f.Fd()), unix.LOCK_UN); unlockErr != nil && err == nil {
			err = fmt.Errorf("unlock %s: %w", f.Name(), unlockErr)
		}
	}()

	return fn(f)
}
