package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage backends
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

const (
	// DefaultStorageKey is the key the counter snapshot is stored under
	DefaultStorageKey = "tally-state"

	// DefaultPollInterval is how often the sqlite backend checks for changes
	DefaultPollInterval = 500 * time.Millisecond
)

// Settings is the contents of settings.yaml
type Settings struct {
	Storage StorageSettings `yaml:"storage"`
	Log     LogSettings     `yaml:"log"`
	UI      UISettings      `yaml:"ui"`
}

// StorageSettings selects where snapshots are kept
type StorageSettings struct {
	Backend string `yaml:"backend"`
	Key     string `yaml:"key"`

	// Path is a directory for the file backend and a database file for
	// the sqlite backend. Empty means the default location.
	Path string `yaml:"path,omitempty"`

	PollInterval time.Duration `yaml:"poll_interval,omitempty"`
}

// LogSettings configures the file logger
type LogSettings struct {
	Level string `yaml:"level"`
	File  string `yaml:"file,omitempty"`
}

// UISettings configures the terminal UI
type UISettings struct {
	AltScreen bool `yaml:"alt_screen"`
}

// DefaultSettings returns the settings used when no file exists
func DefaultSettings() Settings {
	return Settings{
		Storage: StorageSettings{
			Backend:      BackendFile,
			Key:          DefaultStorageKey,
			PollInterval: DefaultPollInterval,
		},
		Log: LogSettings{
			Level: "info",
		},
		UI: UISettings{
			AltScreen: true,
		},
	}
}

// LoadSettings reads settings from path, falling back to defaults for the
// file as a whole when it is absent and for any field left empty
func LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings.withPaths(), nil
		}
		return Settings{}, fmt.Errorf("failed to read settings file: %w", err)
	}

	if err := yaml.Unmarshal(data, &settings); err != nil {
		return Settings{}, fmt.Errorf("failed to parse settings file: %w", err)
	}

	settings = settings.withDefaults().withPaths()
	if err := settings.Validate(); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

// SaveSettings writes settings to path as YAML
func SaveSettings(path string, settings Settings) error {
	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.WriteFile(path, data, FilePermissions); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}

// Validate checks enumerated fields
func (s Settings) Validate() error {
	switch s.Storage.Backend {
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("unknown storage backend %q (want %q or %q)", s.Storage.Backend, BackendFile, BackendSQLite)
	}

	switch s.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", s.Log.Level)
	}

	if s.Storage.PollInterval < 0 {
		return fmt.Errorf("storage poll_interval must not be negative")
	}
	return nil
}

func (s Settings) withDefaults() Settings {
	defaults := DefaultSettings()
	if s.Storage.Backend == "" {
		s.Storage.Backend = defaults.Storage.Backend
	}
	if s.Storage.Key == "" {
		s.Storage.Key = defaults.Storage.Key
	}
	if s.Storage.PollInterval == 0 {
		s.Storage.PollInterval = defaults.Storage.PollInterval
	}
	if s.Log.Level == "" {
		s.Log.Level = defaults.Log.Level
	}
	return s
}

// withPaths fills empty paths from the initialized global locations
func (s Settings) withPaths() Settings {
	if s.Storage.Path == "" {
		if s.Storage.Backend == BackendSQLite {
			s.Storage.Path = DatabasePath
		} else {
			s.Storage.Path = StateDir
		}
	}
	if s.Log.File == "" {
		s.Log.File = LogFile
	}
	return s
}
