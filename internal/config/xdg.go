// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"
)

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), "chronos", "config.toml")
}

// DefaultDataDir returns the default directory for the database and logs.
func DefaultDataDir() string {
	return filepath.Join(XDGDataHome(), "chronos")
}

// DBDir returns the Badger database directory under dataDir.
func DBDir(dataDir string) string {
	return filepath.Join(dataDir, "db")
}

// LogPath returns the log file path under dataDir.
func LogPath(dataDir string) string {
	return filepath.Join(dataDir, "chronos.log")
}
