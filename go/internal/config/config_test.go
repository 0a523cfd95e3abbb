package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{
		"BOTSPORTS_API_BASE_URL", "DYNASTYDROID_STATE_DIR", "LOG_LEVEL", "DASHBOARD_PORT",
		"NATS_URL", "CHAT_RELAY_SUBJECT", "DEMO_FALLBACK", "CHAT_HISTORY_LIMIT",
	} {
		t.Setenv(key, "")
	}

	cfg := NewConfigFromEnv()
	assert.Equal(t, "https://bot-sports-empire.onrender.com/api/v1", cfg.APIBaseURL)
	assert.Equal(t, 8080, cfg.DashboardPort)
	assert.Equal(t, 50, cfg.HistoryLimit)
	assert.Equal(t, "chat.rooms", cfg.ChatRelaySubject)
	assert.True(t, cfg.DemoFallback)
	assert.Equal(t, zerolog.InfoLevel, cfg.Level())
	assert.Equal(t, ":8080", cfg.Addr())

	_, ok := cfg.RelayConfig()
	assert.False(t, ok)
}

func TestNewConfigFromEnv_Overrides(t *testing.T) {
	t.Setenv("BOTSPORTS_API_BASE_URL", "http://localhost:8000/api/v1")
	t.Setenv("DASHBOARD_PORT", "9090")
	t.Setenv("DEMO_FALLBACK", "false")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("NATS_URL", "nats://localhost:4222")
	t.Setenv("CHAT_HISTORY_LIMIT", "not-a-number")

	cfg := NewConfigFromEnv()
	assert.Equal(t, "http://localhost:8000/api/v1", cfg.APIBaseURL)
	assert.Equal(t, 9090, cfg.DashboardPort)
	assert.False(t, cfg.DemoFallback)
	assert.Equal(t, zerolog.DebugLevel, cfg.Level())
	assert.Equal(t, 50, cfg.HistoryLimit)

	rc, ok := cfg.RelayConfig()
	require.True(t, ok)
	assert.Equal(t, "nats://localhost:4222", rc.URL)
	assert.Equal(t, "chat.rooms", rc.SubjectPrefix)
}

func TestLoad_YAMLOverridesEnv(t *testing.T) {
	t.Setenv("DASHBOARD_PORT", "9090")
	t.Setenv("LOG_LEVEL", "")

	path := filepath.Join(t.TempDir(), "dynastydroid.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api_base_url: http://staging.example.com/api/v1
state_dir: /tmp/dd-state
chat_history_limit: 20
demo_fallback: true
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://staging.example.com/api/v1", cfg.APIBaseURL)
	assert.Equal(t, "/tmp/dd-state", cfg.StateDir)
	assert.Equal(t, 20, cfg.HistoryLimit)
	assert.True(t, cfg.DemoFallback)
	assert.Equal(t, 9090, cfg.DashboardPort)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dashboard_port: 700000\n"), 0o600))
	_, err = Load(path)
	assert.ErrorContains(t, err, "dashboard_port")

	require.NoError(t, os.WriteFile(path, []byte("log_level: loud\n"), 0o600))
	_, err = Load(path)
	assert.ErrorContains(t, err, "log_level")
}

func TestLoad_EmptyPathUsesEnv(t *testing.T) {
	t.Setenv("DASHBOARD_PORT", "7070")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.DashboardPort)
}

func TestLoad_ValidatesEnvWithoutFile(t *testing.T) {
	t.Setenv("DASHBOARD_PORT", "70000")
	_, err := Load("")
	assert.ErrorContains(t, err, "dashboard_port")

	t.Setenv("DASHBOARD_PORT", "")
	t.Setenv("LOG_LEVEL", "loud")
	_, err = Load("")
	assert.ErrorContains(t, err, "log_level")
}

func TestLoad_ClampsHistoryLimit(t *testing.T) {
	tests := []struct {
		env  string
		want int
	}{
		{"200", 50},
		{"50", 50},
		{"10", 10},
		{"0", 50},
		{"-3", 50},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", "")
			t.Setenv("DASHBOARD_PORT", "")
			t.Setenv("CHAT_HISTORY_LIMIT", tt.env)
			cfg, err := Load("")
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.HistoryLimit)
		})
	}
}
