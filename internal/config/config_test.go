package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.URL != DefaultServerURL {
		t.Errorf("expected default server URL, got %s", cfg.Server.URL)
	}
	if cfg.Storage.Backend != "keyring" {
		t.Errorf("expected keyring backend, got %s", cfg.Storage.Backend)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected info level, got %s", cfg.Logging.Level)
	}
}

func TestLoad_FromFile(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	configDir := filepath.Join(tempHome, ".katy")
	if err := os.MkdirAll(configDir, 0700); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}

	content := "server:\n  url: https://clinic.example.com/api\nstorage:\n  backend: file\n"
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.URL != "https://clinic.example.com/api" {
		t.Errorf("unexpected server URL: %s", cfg.Server.URL)
	}
	if cfg.Storage.Backend != "file" {
		t.Errorf("unexpected backend: %s", cfg.Storage.Backend)
	}
	// Untouched sections keep their defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("unexpected level: %s", cfg.Logging.Level)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("KATY_SERVER_URL", "http://localhost:4000/api")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.URL != "http://localhost:4000/api" {
		t.Errorf("env override not applied: %s", cfg.Server.URL)
	}
}

func TestLoad_RejectsUnknownBackend(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("KATY_STORAGE_BACKEND", "etcd")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	cfg.Server.URL = "https://staging.kyd.cl/api"

	if err := Save(cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded, err := Load()
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.Server.URL != "https://staging.kyd.cl/api" {
		t.Errorf("round trip lost server URL: %s", reloaded.Server.URL)
	}
}
