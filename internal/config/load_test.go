package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The session secret is the only setting with no default, so most
// tests only need to provide it.
const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoad_DefaultsWithSecret(t *testing.T) {
	t.Setenv("WORKBENCH_AUTH_SESSION_SECRET", testSecret)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, "data/tasks", cfg.Storage.TasksRoot)
	assert.Equal(t, "data/logs", cfg.Storage.LogsRoot)
	assert.Equal(t, "workbench-api/1.0", cfg.GitHub.UserAgent)
	assert.Equal(t, "ko", cfg.I18n.DefaultLocale)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("WORKBENCH_AUTH_SESSION_SECRET", testSecret)
	t.Setenv("WORKBENCH_SERVER_PORT", "9090")
	t.Setenv("WORKBENCH_SERVER_LOG_LEVEL", "debug")
	t.Setenv("WORKBENCH_STORAGE_TASKS_ROOT", "/data/epics")
	t.Setenv("WORKBENCH_I18N_DEFAULT_LOCALE", "en")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "/data/epics", cfg.Storage.TasksRoot)
	assert.Equal(t, "en", cfg.I18n.DefaultLocale)
}

func TestLoad_ValidationFailures(t *testing.T) {
	t.Run("missing secret", func(t *testing.T) {
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("short secret", func(t *testing.T) {
		t.Setenv("WORKBENCH_AUTH_SESSION_SECRET", "too-short")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("bad log level", func(t *testing.T) {
		t.Setenv("WORKBENCH_AUTH_SESSION_SECRET", testSecret)
		t.Setenv("WORKBENCH_SERVER_LOG_LEVEL", "loud")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("bad locale", func(t *testing.T) {
		t.Setenv("WORKBENCH_AUTH_SESSION_SECRET", testSecret)
		t.Setenv("WORKBENCH_I18N_DEFAULT_LOCALE", "fr")
		_, err := Load()
		assert.Error(t, err)
	})
}
