package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// appDirName is the directory created under os.UserConfigDir().
const appDirName = "pelusa"

// To enable testing without polluting the user's home directory, the data
// directory is resolved through a variable that tests (and the PELUSA_DATA_DIR
// override) can replace.
var dataDirectory = defaultDataDirectory

// SetDataDirectory makes all stores use dir as their data directory.
func SetDataDirectory(dir string) {
	dataDirectory = func() (string, error) { return dir, nil }
}

// SetTestPaths points the data directory at dir.
// This should only be used in tests.
func SetTestPaths(dir string) { SetDataDirectory(dir) }

// ResetPaths restores the default data directory.
func ResetPaths() { dataDirectory = defaultDataDirectory }

func defaultDataDirectory() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, appDirName), nil
}

// DataDirectory returns the root directory for all persisted data.
// Defaults to {UserConfigDir}/pelusa.
func DataDirectory() (string, error) { return dataDirectory() }

// LocalDirectory returns the directory of the user-wide file store.
func LocalDirectory() (string, error) {
	dir, err := dataDirectory()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "local"), nil
}

// LocalFilePath returns the file holding key in the user-wide file store.
// File naming: local/{key}.json
func LocalFilePath(key string) (string, error) {
	dir, err := LocalDirectory()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, key+".json"), nil
}

// DatabasePath returns the path of the SQLite database used by the sqlite backend.
func DatabasePath() (string, error) {
	dir, err := dataDirectory()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "pelusa.db"), nil
}

// SessionDirectory returns the directory holding per-session stores.
func SessionDirectory() (string, error) {
	dir, err := dataDirectory()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "sessions"), nil
}

// SessionFilePath returns the path of a session store file.
// File naming: sessions/{session_id}.session.json
func SessionFilePath(sessionID string) (string, error) {
	dir, err := SessionDirectory()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, sessionID+sessionFileSuffix), nil
}

// SessionLockFilePath returns the path of a session lock file.
// File naming: sessions/{session_id}.session.lock
func SessionLockFilePath(sessionID string) (string, error) {
	dir, err := SessionDirectory()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, sessionID+sessionLockSuffix), nil
}

const (
	sessionFileSuffix = ".session.json"
	sessionLockSuffix = ".session.lock"
)
