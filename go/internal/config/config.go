package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mcdev12/dynastydroid/go/clients/botsports_client"
	"github.com/mcdev12/dynastydroid/go/internal/relay"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Config holds the client settings. Environment variables provide the
// defaults; an optional YAML file overrides them.
type Config struct {
	APIBaseURL       string `yaml:"api_base_url"`
	StateDir         string `yaml:"state_dir"`
	LogLevel         string `yaml:"log_level"`
	DashboardPort    int    `yaml:"dashboard_port"`
	NATSURL          string `yaml:"nats_url"`
	ChatRelaySubject string `yaml:"chat_relay_subject"`
	DemoFallback     bool   `yaml:"demo_fallback"`
	HistoryLimit     int    `yaml:"chat_history_limit"`
}

// NewConfigFromEnv reads the environment (with defaults).
func NewConfigFromEnv() Config {
	return Config{
		APIBaseURL:       getEnv("BOTSPORTS_API_BASE_URL", botsports_client.BaseURL),
		StateDir:         getEnv("DYNASTYDROID_STATE_DIR", defaultStateDir()),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		DashboardPort:    getEnvAsInt("DASHBOARD_PORT", 8080),
		NATSURL:          getEnv("NATS_URL", ""),
		ChatRelaySubject: getEnv("CHAT_RELAY_SUBJECT", relay.DefaultSubjectPrefix),
		DemoFallback:     getEnvAsBool("DEMO_FALLBACK", true),
		HistoryLimit:     getEnvAsInt("CHAT_HISTORY_LIMIT", botsports_client.DefaultHistoryLimit),
	}
}

// Load builds the config from the environment, applies path on top when it
// is not empty and validates the result.
func Load(path string) (Config, error) {
	cfg := NewConfigFromEnv()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.HistoryLimit = clampHistoryLimit(cfg.HistoryLimit)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// clampHistoryLimit keeps the history page within what the backend serves.
// Unset or negative values mean the default.
func clampHistoryLimit(limit int) int {
	switch {
	case limit <= 0:
		return botsports_client.DefaultHistoryLimit
	case limit > botsports_client.MaxHistoryLimit:
		return botsports_client.MaxHistoryLimit
	}
	return limit
}

func (c Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("api_base_url is required")
	}
	if c.StateDir == "" {
		return fmt.Errorf("state_dir is required")
	}
	if c.DashboardPort <= 0 || c.DashboardPort > 65535 {
		return fmt.Errorf("dashboard_port %d is out of range", c.DashboardPort)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	return nil
}

// Level is the parsed log level, info when unset or invalid.
func (c Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil || c.LogLevel == "" {
		return zerolog.InfoLevel
	}
	return level
}

// Addr is the dashboard listen address.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.DashboardPort)
}

// RelayConfig returns the NATS relay settings; ok is false when the relay
// is off.
func (c Config) RelayConfig() (relay.Config, bool) {
	if c.NATSURL == "" {
		return relay.Config{}, false
	}
	rc := relay.DefaultConfig()
	rc.URL = c.NATSURL
	if c.ChatRelaySubject != "" {
		rc.SubjectPrefix = c.ChatRelaySubject
	}
	return rc, true
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".dynastydroid", "state")
	}
	return filepath.Join(home, ".dynastydroid", "state")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}
