package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var keys = []string{
	"DB_DSN", "ENV", "HTTP_ADDR", "JWT_HMAC_SECRET", "REMINDER_SECRET",
	"REMINDER_INTERVAL", "REMINDER_TIMEOUT", "TIMEZONE", "TELEGRAM_TOKEN", "AUTO_MIGRATE",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func noEnvFile(t *testing.T) Options {
	return Options{EnvFile: filepath.Join(t.TempDir(), "missing.env")}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(noEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "America/Sao_Paulo", cfg.Timezone)
	assert.Equal(t, time.Duration(0), cfg.ReminderInterval)
	assert.Equal(t, 2*time.Minute, cfg.ReminderTimeout)
	assert.False(t, cfg.AutoMigrate)
	assert.False(t, cfg.IsProduction())
	require.NotNil(t, cfg.Location)
}

func TestLoad_RequireDB(t *testing.T) {
	clearEnv(t)

	_, err := Load(Options{EnvFile: noEnvFile(t).EnvFile, RequireDB: true})
	require.Error(t, err)

	t.Setenv("DB_DSN", "postgres://localhost/agenda")
	cfg, err := Load(Options{EnvFile: noEnvFile(t).EnvFile, RequireDB: true})
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/agenda", cfg.DBDSN)
}

func TestLoad_FromEnvFile(t *testing.T) {
	clearEnv(t)
	for _, k := range keys {
		os.Unsetenv(k)
	}

	path := filepath.Join(t.TempDir(), "test.env")
	content := "ENV=production\nREMINDER_INTERVAL=1m\nAUTO_MIGRATE=true\nTIMEZONE=UTC\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(Options{EnvFile: path})
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, time.Minute, cfg.ReminderInterval)
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, time.UTC, cfg.Location)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := map[string]string{
		"REMINDER_INTERVAL": "soon",
		"REMINDER_TIMEOUT":  "-5s",
		"AUTO_MIGRATE":      "maybe",
		"TIMEZONE":          "Mars/Olympus",
	}

	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)

			_, err := Load(noEnvFile(t))
			assert.Error(t, err)
		})
	}
}
