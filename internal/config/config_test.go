// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jeranaias/tutorchat-tui/internal/model"
)

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if cfg.Backend.URL != "http://localhost:8000" {
		t.Errorf("Backend.URL = %q", cfg.Backend.URL)
	}
	if cfg.Backend.ModelType != model.ModelTypeDefault {
		t.Errorf("Backend.ModelType = %q", cfg.Backend.ModelType)
	}
	if cfg.Storage.Backend != StorageFile {
		t.Errorf("Storage.Backend = %q", cfg.Storage.Backend)
	}
	if cfg.Search.Enabled {
		t.Error("Search.Enabled should default to false")
	}
	if cfg.Storage.Dir == "" || cfg.Logging.File == "" {
		t.Error("derived paths not filled")
	}
}

func TestLoadFromPath_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[backend]
url = "http://tutor.example.com:9000"
model_type = "local"
timeout_secs = 30

[profile]
name = "Chen"
field = "Physics"
teaching_mode = "Socratic"
advice_type = "research"

[search]
enabled = true

[storage]
backend = "sqlite"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if cfg.Backend.URL != "http://tutor.example.com:9000" {
		t.Errorf("Backend.URL = %q", cfg.Backend.URL)
	}
	if cfg.Backend.TimeoutSecs != 30 {
		t.Errorf("Backend.TimeoutSecs = %d", cfg.Backend.TimeoutSecs)
	}
	if !cfg.Search.Enabled {
		t.Error("Search.Enabled not loaded")
	}
	if cfg.Storage.Backend != StorageSQLite {
		t.Errorf("Storage.Backend = %q", cfg.Storage.Backend)
	}

	profile := cfg.TutorProfile()
	if profile.Name != "Chen" || profile.TeachingMode != "Socratic" {
		t.Errorf("TutorProfile() = %+v", profile)
	}
	// The persona inherits the backend's model type when it names none.
	if profile.ModelType != model.ModelTypeLocal {
		t.Errorf("profile.ModelType = %q, want local", profile.ModelType)
	}
}

func TestLoadFromPath_EnvOverrides(t *testing.T) {
	t.Setenv("TUTORCHAT_BACKEND_URL", "http://127.0.0.1:8111")
	t.Setenv("TUTORCHAT_SEARCH", "true")
	t.Setenv("TUTORCHAT_STORAGE_BACKEND", "sqlite")
	t.Setenv("TUTORCHAT_TIMEOUT_SECS", "15")

	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if cfg.Backend.URL != "http://127.0.0.1:8111" {
		t.Errorf("env URL override not applied: %q", cfg.Backend.URL)
	}
	if !cfg.Search.Enabled {
		t.Error("env search override not applied")
	}
	if cfg.Storage.Backend != StorageSQLite {
		t.Errorf("env storage override not applied: %q", cfg.Storage.Backend)
	}
	if cfg.Backend.TimeoutSecs != 15 {
		t.Errorf("env timeout override not applied: %d", cfg.Backend.TimeoutSecs)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}

	cfg.Backend.URL = "not a url"
	if err := cfg.Validate(); err == nil {
		t.Error("invalid URL must fail validation")
	}

	cfg = Default()
	cfg.SetDefaults()
	cfg.Storage.Backend = "redis"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown storage backend must fail validation")
	}
}

func TestTutorProfile_ZeroStaysZero(t *testing.T) {
	cfg := Default()
	cfg.SetDefaults()

	profile := cfg.TutorProfile()
	if !profile.IsZero() {
		t.Errorf("empty profile section must yield a zero profile, got %+v", profile)
	}
}
