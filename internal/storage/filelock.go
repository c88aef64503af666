package storage

import (
	"errors"
	"os"
)

// ErrWouldBlock signals that a non-blocking lock attempt failed because
// another process holds the lock.
var ErrWouldBlock = errors.New("file lock would block")

// AcquireLockHandle tries to take an exclusive lock on path without
// blocking. It reports ok=false (and no error) if another process holds it.
// Closing the returned handle releases the lock but leaves the lock file;
// ReleaseLockHandle releases and removes it.
func AcquireLockHandle(path string) (f *os.File, ok bool, err error) {
	f, err = acquireFileLock(path)
	if err != nil {
		if errors.Is(err, ErrWouldBlock) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return f, true, nil
}

// ReleaseLockHandle releases a lock taken by AcquireLockHandle and removes
// the lock file.
func ReleaseLockHandle(f *os.File) error { return releaseFileLock(f) }
