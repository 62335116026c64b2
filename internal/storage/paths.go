// Package storage persists evaluation caches, archived games and result statistics in BadgerDB.
package storage

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "gameplay"

// GetDataDir returns the per-user data directory, creating it if needed:
// ~/Library/Application Support/gameplay on macOS, %APPDATA%\gameplay on Windows and
// $XDG_DATA_HOME/gameplay (default ~/.local/share/gameplay) elsewhere.
func GetDataDir() (string, error) {
	base, err := userDataBase()
	if err != nil {
		return "", err
	}
	return ensureDir(filepath.Join(base, appName))
}

func userDataBase() (string, error) {
	env := "XDG_DATA_HOME"
	if runtime.GOOS == "windows" {
		env = "APPDATA"
	}
	if dir := os.Getenv(env); dir != "" && runtime.GOOS != "darwin" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support"), nil
	case "windows":
		return filepath.Join(home, "AppData", "Roaming"), nil
	}
	return filepath.Join(home, ".local", "share"), nil
}

// GetDatabaseDir returns the directory of the database holding the evaluation cache and the
// game archive.
func GetDatabaseDir() (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	return ensureDir(filepath.Join(dataDir, "archive"))
}

func ensureDir(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}
