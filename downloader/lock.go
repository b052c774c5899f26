package downloader

import (
	"fmt"
	"os"

	"github.com/gofrs/flock"

	"github.com/ytget/tnadl/errs"
)

// LockSuffix is appended to the output path to name its lock file.
const LockSuffix = ".lock"

// acquireLock takes a non-blocking exclusive lock on path+LockSuffix. The
// returned func releases it and removes the lock file.
func acquireLock(path string) (func() error, error) {
	lockPath := path + LockSuffix
	fl := flock.New(lockPath)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("%w: acquire lock %s: %w", errs.ErrTransfer, lockPath, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s is being written by another process", errs.ErrTransfer, path)
	}
	return func() error {
		if err := fl.Unlock(); err != nil {
			return err
		}
		if err := os.Remove(lockPath); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}, nil
}
