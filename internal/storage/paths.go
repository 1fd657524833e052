// Package storage persists engine preferences and a log of past searches.
package storage

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const appName = "ampersand"

const dirPermissions = 0o755

// DataDir returns the per-user data directory, creating it if needed.
// On Linux this is $XDG_DATA_HOME/ampersand.
func DataDir() (string, error) {
	dir := filepath.Join(xdg.DataHome, appName)
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return "", err
	}
	return dir, nil
}

// DatabaseDir returns the badger directory under base, creating it if
// needed. An empty base means DataDir.
func DatabaseDir(base string) (string, error) {
	if base == "" {
		var err error
		if base, err = DataDir(); err != nil {
			return "", err
		}
	}
	dir := filepath.Join(base, "db")
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return "", err
	}
	return dir, nil
}
