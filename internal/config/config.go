// Package config loads the optional YAML config file from the XDG
// config directory. A missing file yields defaults; preferences
// changed at runtime persist to the settings table, not here.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds startup settings.
type Config struct {
	// DatabasePath overrides the default database location.
	DatabasePath string `yaml:"database_path"`
	// LogFile overrides the default log location. Logs go to a file
	// because stdout belongs to the terminal UI.
	LogFile string `yaml:"log_file"`
	// LogLevel is debug, info, warn or error.
	LogLevel string `yaml:"log_level"`
	// Default preferences, used until the settings table has values.
	Theme    string `yaml:"theme"`
	Language string `yaml:"language"`
	Role     string `yaml:"role"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel: "info",
		Theme:    "dark",
		Language: "en",
		Role:     "manager",
	}
}

// Load reads the config file at path, or the default location when
// path is empty. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		var err error
		if path, err = defaultPath(); err != nil {
			return cfg, err
		}
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func defaultPath() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "teamdash", "config.yaml"), nil
}
