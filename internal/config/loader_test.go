package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/maxviazov/settings-service/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

// clearEnv blanks every variable the loader consults so the host environment can't leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"APP_APP_PORT", "APP_STORAGE_PATH", "APP_STORAGE_MAX_CONNS",
		"APP_PAGINATION_DEFAULT_LIMIT", "APP_PAGINATION_MAX_LIMIT",
		"DATABASE_PATH", "DEFAULT_LIMIT", "MAX_LIMIT", "PORT",
	} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

func TestConfigLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "settings-service", cfg.App.Name)
	assert.Equal(t, 3000, cfg.App.Port)
	assert.Equal(t, 5, cfg.App.ShutdownTimeout)
	assert.Equal(t, "./data/settings.db", cfg.Storage.Path)
	assert.Equal(t, 5, cfg.Storage.MaxConns)
	assert.Equal(t, 5000, cfg.Storage.BusyTimeoutMS)
	assert.Equal(t, 10, cfg.Pagination.DefaultLimit)
	assert.Equal(t, 100, cfg.Pagination.MaxLimit)
}

func TestConfigLoad_EmptyPathUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.App.Port)
}

func TestConfigLoad_FromYAMLAndEnv(t *testing.T) {
	clearEnv(t)
	yaml := `
app:
  name: settings-service
  port: 18080

logger:
  level: info
  format: json

storage:
  path: /var/lib/settings/settings.db
  max_conns: 3

pagination:
  default_limit: 25
  max_limit: 50
`
	path := writeTempConfig(t, yaml)
	t.Setenv("APP_PAGINATION_MAX_LIMIT", "75")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 18080, cfg.App.Port)
	assert.Equal(t, "/var/lib/settings/settings.db", cfg.Storage.Path)
	assert.Equal(t, 3, cfg.Storage.MaxConns)
	assert.Equal(t, 25, cfg.Pagination.DefaultLimit)
	assert.Equal(t, 75, cfg.Pagination.MaxLimit)
	assert.Equal(t, "info", cfg.Logger.Level)
}

func TestConfigLoad_LegacyEnvNames(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_PATH", "/tmp/legacy.db")
	t.Setenv("DEFAULT_LIMIT", "20")
	t.Setenv("MAX_LIMIT", "40")
	t.Setenv("PORT", "8081")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/legacy.db", cfg.Storage.Path)
	assert.Equal(t, 20, cfg.Pagination.DefaultLimit)
	assert.Equal(t, 40, cfg.Pagination.MaxLimit)
	assert.Equal(t, 8081, cfg.App.Port)
}

func TestConfigLoad_PrefixedEnvWinsOverLegacy(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_PATH", "/tmp/legacy.db")
	t.Setenv("APP_STORAGE_PATH", "/tmp/current.db")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/current.db", cfg.Storage.Path)
}

func TestConfigLoad_MalformedFileFails(t *testing.T) {
	clearEnv(t)
	path := writeTempConfig(t, "app: [unterminated\n")
	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestConfigLoad_ValidationFails(t *testing.T) {
	clearEnv(t)
	cases := map[string]string{
		"port out of range": "app:\n  port: 70000\n",
		"zero max conns":    "storage:\n  max_conns: 0\n",
		"zero max limit":    "pagination:\n  max_limit: 0\n",
	}
	for name, yaml := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.Load(writeTempConfig(t, yaml))
			assert.Error(t, err)
		})
	}
}
