package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	serrors "github.com/tessro/serenade/internal/errors"
)

// Load reads configuration from standard locations with environment overrides.
// Search order: ~/.serenaderc, $XDG_CONFIG_HOME/serenade/config.toml, ~/.config/serenade/config.toml
func Load() (*Config, error) {
	cfg := &Config{}

	// Try loading from file
	path := findConfigFile()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", serrors.ErrInvalidConfig, path, err)
		}
	}

	// Apply defaults, then environment variable overrides
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)

	return cfg, nil
}

// LoadFrom reads configuration from a specific file path.
func LoadFrom(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", serrors.ErrConfigNotFound, path)
	}

	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", serrors.ErrInvalidConfig, path, err)
	}
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)
	return cfg, nil
}

// Dir returns the per-user directory for serenade state: the default log
// file and the audio files referenced by the built-in catalog.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "serenade")
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, "serenade")
}

// findConfigFile returns the first existing config file path.
func findConfigFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	paths := []string{
		filepath.Join(home, ".serenaderc"),
	}

	// XDG_CONFIG_HOME or default
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	paths = append(paths, filepath.Join(xdgConfig, "serenade", "config.toml"))

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) {
	// Catalog
	if v := os.Getenv("SERENADE_CATALOG_PATH"); v != "" {
		cfg.Catalog.Path = v
	}

	// Landing
	if v := os.Getenv("SERENADE_LANDING_RECIPIENT"); v != "" {
		cfg.Landing.Recipient = v
	}

	// Player
	if v := os.Getenv("SERENADE_PLAYER_SKIP_SECONDS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Player.SkipSeconds = i
		}
	}
	if v := os.Getenv("SERENADE_PLAYER_MUTE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Player.Mute = b
		}
	}

	// TUI
	if v := os.Getenv("SERENADE_TUI_THEME"); v != "" {
		cfg.TUI.Theme = v
	}
	if v := os.Getenv("SERENADE_TUI_REFRESH_INTERVAL"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.TUI.RefreshInterval = i
		}
	}

	// Log
	if v := os.Getenv("SERENADE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("SERENADE_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}
