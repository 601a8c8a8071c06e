// Package filex holds filesystem helpers for the local media store.
package filex

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// EnsureDir creates dir (and parents) if missing and returns its absolute
// path.
func EnsureDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("abs %s: %w", dir, err)
	}
	if err := os.MkdirAll(abs, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", abs, err)
	}
	return abs, nil
}

// MediaFileName returns a collision-free file name for a captured media file,
// keeping the original extension. ext may be given with or without the dot.
func MediaFileName(ext string) string {
	if ext != "" && ext[0] != '.' {
		ext = "." + ext
	}
	return uuid.NewString() + ext
}

// RemoveIfExists deletes the file at path; a missing file is not an error.
func RemoveIfExists(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}
