package utils

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const DesktopDirName = "Desktop"

var ErrNoHomeDir = errors.New("Cannot determine home directory")

// Indicates if the given path exists or not (works for both files and directories)
func PathExists(filepath string) bool {
	_, err := os.Stat(filepath)
	return err == nil
}

// DesktopDir returns override if set, otherwise the Desktop folder inside
// the user's home directory.
func DesktopDir(override string) (string, error) {
	if override != "" {
		return override, nil
	}

	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "", ErrNoHomeDir
	}

	return filepath.Join(home, DesktopDirName), nil
}

// CopyFile copies src to dst byte for byte. The data is written to a
// temporary file next to dst, synced and renamed over dst, so dst is either
// the old file or a complete copy. Returns the number of bytes copied.
func CopyFile(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, fmt.Errorf("Cannot open source wallet file: %w", err)
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".tmp-*")
	if err != nil {
		return 0, fmt.Errorf("Cannot create destination file: %w", err)
	}
	tmpName := tmp.Name()

	n, err := io.Copy(tmp, in)
	if err == nil {
		err = tmp.Chmod(0644)
	}
	if err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("Error occurred while writing destination file: %w", err)
	}

	if err := os.Rename(tmpName, dst); err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("Error occurred while writing destination file: %w", err)
	}

	return n, nil
}
