// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the complete client configuration.
type Config struct {
	// Server holds backend connection settings.
	Server ServerConfig `toml:"server"`

	// UI holds presentation settings.
	UI UIConfig `toml:"ui"`

	// Storage holds local state settings.
	Storage StorageConfig `toml:"storage"`
}

// ServerConfig contains backend connection configuration.
type ServerConfig struct {
	// URL is the DreamHub backend base URL.
	URL string `toml:"url"`
	// TimeoutSecs is the per-request timeout in seconds.
	TimeoutSecs int `toml:"timeout_secs"`
	// MaxRetries is the number of attempts for transient errors.
	MaxRetries int `toml:"max_retries"`
}

// UIConfig contains presentation configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme"`
	// Markdown renders assistant replies through the markdown renderer.
	Markdown bool `toml:"markdown"`
	// CompactMode uses a more compact layout.
	CompactMode bool `toml:"compact_mode"`
}

// StorageConfig contains local state configuration.
type StorageConfig struct {
	// StateDir is where the session file and chat cache live.
	// Empty means ~/.dreamhub.
	StateDir string `toml:"state_dir"`
	// CacheEnabled controls the local SQLite chat cache.
	CacheEnabled bool `toml:"cache_enabled"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			URL:         "http://localhost:8080",
			TimeoutSecs: 60,
			MaxRetries:  3,
		},
		UI: UIConfig{
			Theme:       "dark",
			Markdown:    true,
			CompactMode: false,
		},
		Storage: StorageConfig{
			StateDir:     "",
			CacheEnabled: true,
		},
	}
}

// =============================================================================
// PATHS
// =============================================================================

// Dir returns the configuration directory, ~/.dreamhub.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".dreamhub"), nil
}

// Path returns the config file location, ~/.dreamhub/config.toml.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// StateDir resolves the local state directory, honoring the configured
// override.
func (c *Config) StateDir() (string, error) {
	if c.Storage.StateDir != "" {
		return c.Storage.StateDir, nil
	}
	return Dir()
}

// =============================================================================
// LOAD
// =============================================================================

// Load reads the config file, fills defaults, applies environment
// overrides, and validates. A missing file yields the defaults.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from a specific file path.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if _, statErr := os.Stat(path); statErr == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
	}

	fillDefaults(cfg)
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// fillDefaults fills in any missing values with defaults.
func fillDefaults(cfg *Config) {
	defaults := Default()

	if cfg.Server.URL == "" {
		cfg.Server.URL = defaults.Server.URL
	}
	if cfg.Server.TimeoutSecs <= 0 {
		cfg.Server.TimeoutSecs = defaults.Server.TimeoutSecs
	}
	if cfg.Server.MaxRetries <= 0 {
		cfg.Server.MaxRetries = defaults.Server.MaxRetries
	}
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = defaults.UI.Theme
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies DREAMHUB_* environment variables on top of
// the loaded configuration. The environment wins over the file.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("DREAMHUB_SERVER_URL"); v != "" {
		c.Server.URL = v
	}
	if v := os.Getenv("DREAMHUB_TIMEOUT_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Server.TimeoutSecs = n
		}
	}
	if v := os.Getenv("DREAMHUB_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Server.MaxRetries = n
		}
	}
	if v := os.Getenv("DREAMHUB_THEME"); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv("DREAMHUB_STATE_DIR"); v != "" {
		c.Storage.StateDir = v
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError reports one invalid configuration field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the configuration for unusable values.
func (c *Config) Validate() error {
	var errs ValidateErrors

	u, err := url.Parse(c.Server.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, ValidationError{
			Field:   "server.url",
			Message: fmt.Sprintf("invalid URL %q, expected http(s)://host[:port]", c.Server.URL),
		})
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errs = append(errs, ValidationError{
			Field:   "server.url",
			Message: fmt.Sprintf("unsupported scheme %q", u.Scheme),
		})
	}

	if c.Server.TimeoutSecs <= 0 {
		errs = append(errs, ValidationError{
			Field:   "server.timeout_secs",
			Message: "must be positive",
		})
	}
	if c.Server.MaxRetries <= 0 {
		errs = append(errs, ValidationError{
			Field:   "server.max_retries",
			Message: "must be positive",
		})
	}

	validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme %q, must be one of: dark, light, auto", c.UI.Theme),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// SAVE
// =============================================================================

// Save writes the configuration to the default location.
func Save(cfg *Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	return SaveToPath(cfg, path)
}

// SaveToPath writes the configuration as TOML. The file is created
// 0600: it lives next to the session file and may name private hosts.
func SaveToPath(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	fmt.Fprintln(file, "# dreamhub-tui configuration file")
	fmt.Fprintln(file, "")

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}
