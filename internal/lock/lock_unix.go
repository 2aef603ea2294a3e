//go:build unix

package lock

import (
	"fmt"
	"os"
	"syscall"
)

// Acquire takes an exclusive, non-blocking advisory lock guarding path.
//
// On Unix systems, this uses flock(2) on the sibling file "<path>.lock". If
// the lock is held elsewhere ErrBusy is returned.
//
// The returned file handle must remain open for the duration of the lock.
func Acquire(path string) (*os.File, error) {
	name := FileName(path)

	for {
		f, err := os.OpenFile(name, os.O_CREATE|os.O_RDWR, 0644)
		if err != nil {
			return nil, fmt.Errorf("unable to open lock file: %w", err)
		}

		err = syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
		if err != nil {
			f.Close()
			return nil, ErrBusy
		}

		if current(f) {
			return f, nil
		}

		// The holder released and removed the file between our open and
		// flock. Our inode is orphaned, so start over on the new path.
		syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
		f.Close()
	}
}

// current reports whether f is still the file linked at its name.
func current(f *os.File) bool {
	held, err := f.Stat()
	if err != nil {
		return false
	}
	onDisk, err := os.Stat(f.Name())
	if err != nil {
		return false
	}

	return os.SameFile(held, onDisk)
}

// Release drops a lock taken by Acquire and removes the lock file.
func Release(f *os.File) error {
	name := f.Name()

	// Remove while still locked. A process that opened the old inode sees
	// it unlinked after its flock and retries in Acquire.
	rmErr := os.Remove(name)
	syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
	if err := f.Close(); err != nil {
		return err
	}
	if rmErr != nil && !os.IsNotExist(rmErr) {
		return rmErr
	}

	return nil
}
