package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadAndGet(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	Load()

	got := Get("missing", "default")
	require.Equal(t, "default", got)
	require.Equal(t, "http://127.0.0.1:8000", Get("api_base_url", ""))
	require.Equal(t, 50, GetInt("notifications_limit", 0))
	require.Equal(t, 30, GetInt("poll_interval_seconds", 0))
}

func TestEnvOverridesFile(t *testing.T) {
	tmp := t.TempDir()
	configDir := filepath.Join(tmp, "deptdesk")
	require.NoError(t, os.MkdirAll(configDir, 0755))
	content := "api_base_url = \"https://from-file.example.com\"\nnotifications_limit = 25\n"
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(content), 0644))

	t.Setenv("XDG_CONFIG_HOME", tmp)
	t.Setenv("DEPTDESK_API_BASE_URL", "https://from-env.example.com")
	Load()

	// Env wins over file; file wins over defaults.
	require.Equal(t, "https://from-env.example.com", Get("api_base_url", ""))
	require.Equal(t, 25, GetInt("notifications_limit", 0))
}

func TestValidatorsFallBackToDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("DEPTDESK_POLL_INTERVAL_SECONDS", "-5")
	t.Setenv("DEPTDESK_LOGGING_LEVEL", "loud")
	t.Setenv("DEPTDESK_DEBUG", "maybe")
	Load()

	require.Equal(t, 30, GetInt("poll_interval_seconds", 0))
	require.Equal(t, "info", Get("logging_level", ""))
	require.False(t, GetBool("debug", false))
}

func TestBoolNormalization(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("DEPTDESK_QUIET", "yes")
	Load()

	require.True(t, GetBool("quiet", false))
	require.Equal(t, "true", Get("quiet", ""))
}
