// Package app resolves where nutri keeps its data on disk.
package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	appDirName = "nutri"
	dbFileName = "nutri.db"
)

// DefaultDBPath is <user config dir>/nutri/nutri.db.
func DefaultDBPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appDirName, dbFileName), nil
}

// EnsureDBDir creates the parent of path, readable by the owner only, and
// refuses a path that is itself a directory.
func EnsureDBDir(path string) error {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return fmt.Errorf("database path %s is a directory", path)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat database path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create db directory: %w", err)
	}
	return nil
}
