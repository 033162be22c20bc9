package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// Defaults for the datastore location, shared with the config layer.
const (
	DefaultDBFile  = "todo.db"
	DefaultDataDir = ".todo"
)

// CheckExists verifies if the datastore exists at the given path.
// Returns true if the store exists, false otherwise.
func CheckExists(dbPath string) (bool, error) {
	info, err := os.Stat(dbPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check store existence: %w", err)
	}
	if info.IsDir() {
		return false, fmt.Errorf("datastore path is a directory, expected file: %s", dbPath)
	}
	return true, nil
}

// GetDBPath returns the full path to the database file.
// An empty dataDir or dbFile falls back to the defaults.
func GetDBPath(dataDir, dbFile string) string {
	if dataDir == "" {
		dataDir = DefaultDataDir
	}
	if dbFile == "" {
		dbFile = DefaultDBFile
	}
	return filepath.Join(dataDir, dbFile)
}

// EnsureDataDir creates the directory holding the database file.
func EnsureDataDir(dbPath string) error {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}
