// Package runlock enforces single-instance execution of mutating commands
// through a file lock in the data directory.
package runlock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"curator/internal/config"
)

// ErrHeld indicates another curator process owns the lock.
var ErrHeld = errors.New("another curator sync is already running")

// Lock guards a mutating run against concurrent invocations.
type Lock struct {
	path string
	lock *flock.Flock
}

// Acquire takes the run lock, creating the parent directory if needed.
func Acquire(cfg *config.Config) (*Lock, error) {
	path := cfg.LockPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	fileLock := flock.New(path)
	ok, err := fileLock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, ErrHeld
	}
	return &Lock{path: path, lock: fileLock}, nil
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Release drops the lock. Releasing a nil lock is a no-op.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
