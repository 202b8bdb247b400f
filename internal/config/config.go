package config

import (
	"encoding/json"
	"os"
	"time"
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	ListenAddr string `json:"listen_addr"`
	LogLevel   string `json:"log_level"`
	LogFormat  string `json:"log_format"`
}

// ProfilesConfig holds connection-profile store settings.
type ProfilesConfig struct {
	Path string `json:"path"`
}

// CacheConfig holds SSL status cache settings.
type CacheConfig struct {
	StatusTTL time.Duration `json:"status_ttl"`
}

// TelemetryConfig holds tracing settings.
type TelemetryConfig struct {
	Enabled    bool    `json:"enabled"`
	Exporter   string  `json:"exporter"`
	Endpoint   string  `json:"endpoint"`
	SampleRate float64 `json:"sample_rate"`
}

// Config is the central configuration struct embedding all component configs.
type Config struct {
	Server    ServerConfig    `json:"server"`
	Profiles  ProfilesConfig  `json:"profiles"`
	Cache     CacheConfig     `json:"cache"`
	Telemetry TelemetryConfig `json:"telemetry"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			ListenAddr: ":8080",
			LogLevel:   "info",
			LogFormat:  "text",
		},
		Profiles: ProfilesConfig{
			Path: "profiles.yaml",
		},
		Cache: CacheConfig{
			StatusTTL: 30 * time.Second,
		},
		Telemetry: TelemetryConfig{
			Enabled:    false,
			Exporter:   "otlp-http",
			Endpoint:   "localhost:4318",
			SampleRate: 1.0,
		},
	}
}

// LoadFromFile loads configuration from a JSON file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromEnv applies environment variable overrides to the config.
func LoadFromEnv(cfg *Config) {
	if v := os.Getenv("QUASAR_LISTEN_ADDR"); v != "" {
		cfg.Server.ListenAddr = v
	}
	if v := os.Getenv("QUASAR_LOG_LEVEL"); v != "" {
		cfg.Server.LogLevel = v
	}
	if v := os.Getenv("QUASAR_LOG_FORMAT"); v != "" {
		cfg.Server.LogFormat = v
	}
	if v := os.Getenv("QUASAR_PROFILES_PATH"); v != "" {
		cfg.Profiles.Path = v
	}
	if v := os.Getenv("QUASAR_OTLP_ENDPOINT"); v != "" {
		cfg.Telemetry.Endpoint = v
		cfg.Telemetry.Enabled = true
	}
}
