//go:build windows

package lock

import (
	"os"
)

// Acquire takes an exclusive lock guarding path.
//
// On Windows, this is implemented by atomically creating the sibling file
// "<path>.lock". If the file already exists ErrBusy is returned.
//
// The returned file handle must be kept open for the duration of the lock.
func Acquire(path string) (*os.File, error) {
	f, err := os.OpenFile(FileName(path), os.O_CREATE|os.O_EXCL|os.O_RDWR, 0644)
	if err != nil {
		return nil, ErrBusy
	}

	return f, nil
}

// Release drops a lock taken by Acquire and removes the lock file. It should
// be called exactly once for each successful Acquire call.
func Release(f *os.File) error {
	name := f.Name()
	if err := f.Close(); err != nil {
		return err
	}
	return os.Remove(name)
}
