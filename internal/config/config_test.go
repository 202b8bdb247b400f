package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Server.ListenAddr != ":8080" {
		t.Errorf("ListenAddr = %q, want :8080", cfg.Server.ListenAddr)
	}
	if cfg.Server.LogLevel != "info" || cfg.Server.LogFormat != "text" {
		t.Errorf("log defaults = %q/%q, want info/text", cfg.Server.LogLevel, cfg.Server.LogFormat)
	}
	if cfg.Cache.StatusTTL != 30*time.Second {
		t.Errorf("StatusTTL = %v, want 30s", cfg.Cache.StatusTTL)
	}
	if cfg.Telemetry.Enabled {
		t.Error("telemetry enabled by default")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{"server":{"listen_addr":":9090","log_format":"json"},"profiles":{"path":"/var/lib/quasar/profiles.yaml"}}`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if cfg.Server.ListenAddr != ":9090" {
		t.Errorf("ListenAddr = %q, want :9090", cfg.Server.ListenAddr)
	}
	if cfg.Server.LogFormat != "json" {
		t.Errorf("LogFormat = %q, want json", cfg.Server.LogFormat)
	}
	if cfg.Profiles.Path != "/var/lib/quasar/profiles.yaml" {
		t.Errorf("Profiles.Path = %q", cfg.Profiles.Path)
	}
	// Unset fields keep their defaults.
	if cfg.Server.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want default info", cfg.Server.LogLevel)
	}
}

func TestLoadFromFileErrors(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromFile(path); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("QUASAR_LISTEN_ADDR", ":7070")
	t.Setenv("QUASAR_LOG_LEVEL", "debug")
	t.Setenv("QUASAR_PROFILES_PATH", "/tmp/p.yaml")
	t.Setenv("QUASAR_OTLP_ENDPOINT", "collector:4318")

	cfg := DefaultConfig()
	LoadFromEnv(cfg)

	if cfg.Server.ListenAddr != ":7070" {
		t.Errorf("ListenAddr = %q, want :7070", cfg.Server.ListenAddr)
	}
	if cfg.Server.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.Server.LogLevel)
	}
	if cfg.Profiles.Path != "/tmp/p.yaml" {
		t.Errorf("Profiles.Path = %q", cfg.Profiles.Path)
	}
	if !cfg.Telemetry.Enabled || cfg.Telemetry.Endpoint != "collector:4318" {
		t.Errorf("telemetry = %+v, want enabled with collector endpoint", cfg.Telemetry)
	}
}
