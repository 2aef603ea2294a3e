// Package lock keeps two walletool processes from writing the same
// destination file at once.
package lock

import "errors"

// Suffix is appended to the guarded path to form the lock file name.
const Suffix = ".lock"

var ErrBusy = errors.New("destination already in use by another walletool instance")

// FileName returns the lock file used to guard path.
func FileName(path string) string {
	return path + Suffix
}
