package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// FilePermissions is the default permission mode for regular files (read/write for owner, read for others)
	FilePermissions = 0644
	// DirPermissions is the default permission mode for directories (rwxr-xr-x)
	DirPermissions = 0755

	// HomeEnv overrides the configuration directory
	HomeEnv = "TALLY_HOME"
)

var (
	// ConfigDir is the global configuration directory (~/.tally)
	ConfigDir string

	// StateDir holds one JSON file per storage key (file backend)
	StateDir string

	// DatabasePath is the SQLite database file (sqlite backend)
	DatabasePath string

	// SettingsFile is the YAML settings file
	SettingsFile string

	// KeybindsFile is the user keybinding overrides file
	KeybindsFile string

	// LogFile is the default log destination
	LogFile string
)

// Initialize sets up the configuration directories
// It creates ~/.tally/ (or $TALLY_HOME) if it doesn't exist
func Initialize() error {
	dir := os.Getenv(HomeEnv)
	if dir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(homeDir, ".tally")
	}
	return InitializeAt(dir)
}

// InitializeAt sets every global path relative to dir and creates the
// directories
func InitializeAt(dir string) error {
	ConfigDir = dir
	StateDir = filepath.Join(ConfigDir, "state")
	DatabasePath = filepath.Join(ConfigDir, "tally.db")
	SettingsFile = filepath.Join(ConfigDir, "settings.yaml")
	KeybindsFile = filepath.Join(ConfigDir, "keybinds.json")
	LogFile = filepath.Join(ConfigDir, "tally.log")

	dirs := []string{ConfigDir, StateDir}
	for _, d := range dirs {
		if err := os.MkdirAll(d, DirPermissions); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", d, err)
		}
	}

	return nil
}

// LocalSettingsExists checks if there's a settings.yaml in the working directory
func LocalSettingsExists() bool {
	_, err := os.Stat("settings.yaml")
	return err == nil
}

// GetSettingsFilePath returns the settings file path (local or global)
func GetSettingsFilePath() string {
	if LocalSettingsExists() {
		return "settings.yaml"
	}
	return SettingsFile
}
