// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading for tutorchat.
//
// Configuration comes from ~/.tutorchat/config.toml with environment
// variable overrides (TUTORCHAT_*) applied on top, falling back to
// built-in defaults when no file exists.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/tutorchat-tui/internal/model"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the complete tutorchat configuration.
type Config struct {
	Backend BackendConfig `toml:"backend"`
	Profile ProfileConfig `toml:"profile"`
	Search  SearchConfig  `toml:"search"`
	Storage StorageConfig `toml:"storage"`
	Logging LoggingConfig `toml:"logging"`
}

// BackendConfig points at the answer-generation service.
type BackendConfig struct {
	// URL is the base address of the tutoring backend.
	URL string `toml:"url"`
	// ModelType overrides the provider when the profile leaves it unset:
	// "openai" (hosted) or "local" (LM Studio style local server).
	ModelType string `toml:"model_type"`
	// TimeoutSecs bounds one answer call. 0 selects the built-in default.
	TimeoutSecs int `toml:"timeout_secs"`
}

// ProfileConfig is the default tutor persona used when none is chosen
// interactively.
type ProfileConfig struct {
	Name         string `toml:"name"`
	Field        string `toml:"field"`
	TeachingMode string `toml:"teaching_mode"`
	AdviceType   string `toml:"advice_type"`
	ModelType    string `toml:"model_type"`
}

// SearchConfig controls web-search augmentation.
type SearchConfig struct {
	// Enabled is the initial state of the search toggle.
	Enabled bool `toml:"enabled"`
}

// StorageConfig selects where conversations are persisted.
type StorageConfig struct {
	// Dir is the storage location. Empty selects
	// ~/.tutorchat/conversations.
	Dir string `toml:"dir"`
	// Backend is "file" (one JSON file per conversation) or "sqlite"
	// (single embedded database file).
	Backend string `toml:"backend"`
}

// LoggingConfig controls the background log.
type LoggingConfig struct {
	// File receives background errors (persistence failures, dropped
	// stale turns). Empty selects ~/.tutorchat/tutorchat.log.
	File string `toml:"file"`
}

// Storage backend names.
const (
	StorageFile   = "file"
	StorageSQLite = "sqlite"
)

// =============================================================================
// DEFAULTS & PATHS
// =============================================================================

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			URL:         "http://localhost:8000",
			ModelType:   model.ModelTypeDefault,
			TimeoutSecs: 120,
		},
		Search:  SearchConfig{Enabled: false},
		Storage: StorageConfig{Backend: StorageFile},
	}
}

// ConfigDir returns the tutorchat configuration directory.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".tutorchat"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// =============================================================================
// LOAD
// =============================================================================

// Load reads the config file if present, applies environment overrides,
// fills defaults, and validates. A missing file is not an error.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from an explicit file path. A missing
// file yields the defaults (plus env overrides).
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ApplyEnvOverrides applies TUTORCHAT_* environment variables on top of
// the loaded values.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("TUTORCHAT_BACKEND_URL"); v != "" {
		c.Backend.URL = v
	}
	if v := os.Getenv("TUTORCHAT_MODEL_TYPE"); v != "" {
		c.Backend.ModelType = v
	}
	if v := os.Getenv("TUTORCHAT_TIMEOUT_SECS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			c.Backend.TimeoutSecs = secs
		}
	}
	if v := os.Getenv("TUTORCHAT_SEARCH"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.Search.Enabled = enabled
		}
	}
	if v := os.Getenv("TUTORCHAT_STORAGE_DIR"); v != "" {
		c.Storage.Dir = v
	}
	if v := os.Getenv("TUTORCHAT_STORAGE_BACKEND"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("TUTORCHAT_LOG_FILE"); v != "" {
		c.Logging.File = v
	}
}

// SetDefaults fills derived values left empty by the file and environment.
func (c *Config) SetDefaults() {
	if c.Backend.URL == "" {
		c.Backend.URL = Default().Backend.URL
	}
	if c.Backend.ModelType == "" {
		c.Backend.ModelType = model.ModelTypeDefault
	}
	if c.Backend.TimeoutSecs < 0 {
		c.Backend.TimeoutSecs = 0
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = StorageFile
	}
	if dir, err := ConfigDir(); err == nil {
		if c.Storage.Dir == "" {
			c.Storage.Dir = filepath.Join(dir, "conversations")
		}
		if c.Logging.File == "" {
			c.Logging.File = filepath.Join(dir, "tutorchat.log")
		}
	}
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Backend.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("backend.url %q is not a valid URL", c.Backend.URL)
	}
	switch c.Storage.Backend {
	case StorageFile, StorageSQLite:
	default:
		return fmt.Errorf("storage.backend %q is not one of %q, %q",
			c.Storage.Backend, StorageFile, StorageSQLite)
	}
	return nil
}

// =============================================================================
// SAVE & CONVERSION
// =============================================================================

// Save writes the configuration to the default path.
func Save(cfg *Config) error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}
	path, err := ConfigPath()
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// TutorProfile converts the configured default persona to the domain type.
// An empty profile section yields a zero profile; the engine substitutes
// the generic greeting and fallback persona.
func (c *Config) TutorProfile() model.TutorProfile {
	p := model.TutorProfile{
		Name:         c.Profile.Name,
		Field:        c.Profile.Field,
		TeachingMode: c.Profile.TeachingMode,
		AdviceType:   c.Profile.AdviceType,
		ModelType:    c.Profile.ModelType,
	}
	if !p.IsZero() && p.ModelType == "" {
		p.ModelType = c.Backend.ModelType
	}
	return p
}
