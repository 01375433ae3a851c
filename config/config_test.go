package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vledera/go-adminfront/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, ":4000", cfg.Server.Addr)
	assert.Equal(t, "http://localhost:5000", cfg.Backend.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, "adminfront_session", cfg.Session.CookieName)
	assert.True(t, cfg.Session.Secure)
}

func TestLoadFromTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "adminfront.toml")
	raw := `
debug = true

[server]
addr = ":8088"

[backend]
base_url = "https://api.example.com"
timeout = "5s"

[session]
cookie_name = "panel_session"
secure = false
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, ":8088", cfg.Server.Addr)
	assert.Equal(t, "https://api.example.com", cfg.Backend.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, "panel_session", cfg.Session.CookieName)
	assert.False(t, cfg.Session.Secure)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "adminfront.toml")
	raw := `
[backend]
base_url = "https://api.example.com"
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	t.Setenv("ADMINFRONT_BACKEND_URL", "https://staging.example.com")
	t.Setenv("ADMINFRONT_ADDR", ":9999")
	t.Setenv("ADMINFRONT_COOKIE_SECURE", "false")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://staging.example.com", cfg.Backend.BaseURL)
	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.False(t, cfg.Session.Secure)
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default().Backend.BaseURL, cfg.Backend.BaseURL)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Run("bad timeout", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "adminfront.toml")
		raw := `
[backend]
base_url = "http://localhost:5000"
timeout = "soon"
`
		require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

		_, err := config.Load(path)
		assert.Error(t, err)
	})

	t.Run("bad backend url", func(t *testing.T) {
		t.Setenv("ADMINFRONT_BACKEND_URL", "localhost:5000")

		_, err := config.Load("")
		assert.Error(t, err)
	})
}
