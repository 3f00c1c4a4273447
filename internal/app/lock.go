package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrAlreadyRunning is returned when another dashboard holds the lock.
var ErrAlreadyRunning = errors.New("another tasko dashboard is already running")

// Lock takes the single-instance lock in dir. The returned function
// releases it.
func Lock(dir string) (func() error, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating lock directory %s: %w", dir, err)
	}

	fl := flock.New(filepath.Join(dir, "tasko.lock"))
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquiring lock: %w", err)
	}
	if !ok {
		return nil, ErrAlreadyRunning
	}
	return fl.Unlock, nil
}
