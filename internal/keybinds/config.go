package keybinds

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"

	"github.com/studiowebux/tally/internal/config"
)

// Config represents the user's keybinding configuration. Each section maps
// a key to an action name.
type Config struct {
	Version       string            `json:"version"`
	Global        map[string]string `json:"global,omitempty"`
	Normal        map[string]string `json:"normal,omitempty"`
	StepInput     map[string]string `json:"step_input,omitempty"`
	Modal         map[string]string `json:"modal,omitempty"`
	FilePicker    map[string]string `json:"file_picker,omitempty"`
	HistoryFilter map[string]string `json:"history_filter,omitempty"`
	Help          map[string]string `json:"help,omitempty"`
}

const configHeader = `// tally keybindings
// Each section maps a key to an action. Use "none" to remove a default.
// Comments and trailing commas are allowed.
`

// sections pairs each context with its config map
func (c *Config) sections() map[Context]*map[string]string {
	return map[Context]*map[string]string{
		ContextGlobal:        &c.Global,
		ContextNormal:        &c.Normal,
		ContextStepInput:     &c.StepInput,
		ContextModal:         &c.Modal,
		ContextFilePicker:    &c.FilePicker,
		ContextHistoryFilter: &c.HistoryFilter,
		ContextHelp:          &c.Help,
	}
}

// ParseConfig decodes JSON with comments
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(jsonc.ToJSON(data), &cfg); err != nil {
		return nil, fmt.Errorf("invalid keybinds.json format: %w", err)
	}
	return &cfg, nil
}

// LoadConfig loads keybinding configuration from a file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseConfig(data)
}

// SaveConfig writes the configuration with a comment header
func SaveConfig(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	data = append([]byte(configHeader), data...)
	data = append(data, '\n')

	return os.WriteFile(path, data, config.FilePermissions)
}

// ApplyConfig applies user configuration to a registry.
// User bindings override default bindings.
func ApplyConfig(registry *Registry, cfg *Config) error {
	validator := NewValidator()
	result := validator.ValidateConfig(cfg)
	if result.HasErrors() {
		return fmt.Errorf("invalid keybindings:\n%s", result.String())
	}

	for context, section := range cfg.sections() {
		for key, actionStr := range *section {
			action := Action(actionStr)
			if action == ActionNone {
				registry.Unregister(context, key)
				continue
			}
			registry.Register(context, key, action)
		}
	}

	return nil
}

// LoadOrDefault loads user config if it exists, otherwise returns default registry
func LoadOrDefault(configPath string) (*Registry, error) {
	registry := NewDefaultRegistry()

	cfg, err := LoadConfig(configPath)
	if errors.Is(err, os.ErrNotExist) {
		return registry, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load keybinds.json: %w", err)
	}

	if err := ApplyConfig(registry, cfg); err != nil {
		return nil, fmt.Errorf("failed to apply keybinds config: %w", err)
	}

	return registry, nil
}

// GetDefaultConfigPath returns the default path for keybinds.json
func GetDefaultConfigPath() string {
	return config.KeybindsFile
}

// ExportRegistry converts a registry into a config file
func ExportRegistry(registry *Registry) *Config {
	cfg := &Config{Version: "1.0"}
	for context, section := range cfg.sections() {
		bindings := registry.bindings[context]
		if len(bindings) == 0 {
			continue
		}
		m := make(map[string]string, len(bindings))
		for key, action := range bindings {
			m[key] = string(action)
		}
		*section = m
	}
	return cfg
}

// CreateExampleConfig writes the default bindings to path
func CreateExampleConfig(path string) error {
	return SaveConfig(ExportRegistry(NewDefaultRegistry()), path)
}
