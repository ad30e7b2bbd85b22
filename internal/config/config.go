// Package config handles TOML configuration loading for the converter.
// CLI flags override anything set here; the file only supplies defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Convert ConvertConfig `toml:"convert"`
	History HistoryConfig `toml:"history"`
}

// ConvertConfig supplies defaults for the convert command.
type ConvertConfig struct {
	Codec            string   `toml:"codec"`
	Quality          *int     `toml:"quality"`
	Bitrate          *int     `toml:"bitrate"`
	Template         string   `toml:"template"`
	PlaylistTemplate string   `toml:"playlist_template"`
	PlaylistFormat   string   `toml:"playlist_format"`
	Jobs             int      `toml:"jobs"`
	NoTranscodeFor   []string `toml:"no_transcode_for"`
	LogLevel         string   `toml:"log_level"`
}

// HistoryConfig configures the run-history database.
type HistoryConfig struct {
	Path     string `toml:"path"`
	Disabled bool   `toml:"disabled"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Convert: ConvertConfig{
			Codec: "copy",
		},
	}
}

// DefaultPath returns the XDG-compliant default config path.
func DefaultPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "./remaster.toml"
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "remaster", "config.toml")
}

// Load reads and validates the config file at path. A missing file is
// not an error: the defaults apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, &ConfigError{Path: path, Errors: errs}
	}
	return cfg, nil
}
