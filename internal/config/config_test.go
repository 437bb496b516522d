package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoadDefaultsWithoutConfigFile(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, DefaultRefreshInterval, cfg.RefreshInterval)
	assert.Equal(t, "local", cfg.LogEnv)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "Iv1.b507a08c87ecfe98", cfg.GitHubClientID)
	assert.Equal(t, "https://github.com/login/device/code", cfg.GitHubDeviceAuthURL)
	assert.Equal(t, "https://github.com/login/oauth/access_token", cfg.GitHubTokenURL)
	assert.Equal(t, "https://api.github.com/", cfg.GitHubAPIURL)
	assert.Equal(t, DefaultListenAddr, cfg.ListenAddr)
	assert.False(t, cfg.NoBrowser)
	assert.True(t, cfg.Notifications)
	assert.Equal(t, "copilot-usage", cfg.KeyringService)
	assert.Equal(t, filepath.Join(cfg.StateDir, "secrets"), cfg.SecretsDir)
	assert.Equal(t, path, cfg.Viper.GetString(KeyPreferencesPath))
}

func TestLoadReadsConfigFile(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, `
[refresh]
interval = "2m"

[log]
level = "debug"

[github]
client_id = "Iv1.custom"

[display]
show_bar = false
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2*time.Minute, cfg.RefreshInterval)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "Iv1.custom", cfg.GitHubClientID)
	assert.False(t, cfg.Viper.GetBool("display.show_bar"))
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "[refresh]\ninterval = \"2m\"\n")

	t.Setenv("CU_REFRESH_INTERVAL", "90")
	t.Setenv("CU_NO_BROWSER", "true")
	t.Setenv("CU_LISTEN", "127.0.0.1:9999")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 90*time.Second, cfg.RefreshInterval)
	assert.True(t, cfg.NoBrowser)
	assert.Equal(t, "127.0.0.1:9999", cfg.ListenAddr)
}

func TestLoadReadsDotEnvNextToConfig(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".env"), "CU_LOG_LEVEL=warn\n")
	t.Cleanup(func() { _ = os.Unsetenv("CU_LOG_LEVEL") })

	cfg, err := Load(filepath.Join(dir, "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadRejectsBadInterval(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")

	t.Setenv("CU_REFRESH_INTERVAL", "soon")
	_, err := Load(path)
	require.ErrorContains(t, err, "invalid refresh.interval")

	t.Setenv("CU_REFRESH_INTERVAL", "5s")
	_, err = Load(path)
	require.ErrorContains(t, err, "must be at least 30s")
}

func TestLoadReportsMalformedConfig(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "[refresh\ninterval =")

	_, err := Load(path)
	require.ErrorContains(t, err, "read config file")
}
