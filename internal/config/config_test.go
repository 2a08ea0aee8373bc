package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"laoud/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, "laoud.db", cfg.DatabaseDSN)
	assert.Equal(t, "gorm", cfg.StateBackend)
	assert.Equal(t, 720*time.Hour, cfg.RedisTTL)
	assert.Empty(t, cfg.RabbitMQURL)
	assert.Empty(t, cfg.CatalogFile)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.Equal(t, 2*time.Second, cfg.CardDelay)
	assert.Equal(t, 1500*time.Millisecond, cfg.PayPalDelay)
	assert.Equal(t, 1500*time.Millisecond, cfg.BankDelay)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := "APP_PORT: \":9090\"\nSTATE_BACKEND: memory\nCHECKOUT_CARD_DELAY: 250ms\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))
	t.Setenv("STATE_BACKEND", "redis")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.AppPort)
	assert.Equal(t, "redis", cfg.StateBackend)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 250*time.Millisecond, cfg.CardDelay)
}

func TestLoad_RejectsUnknownBackend(t *testing.T) {
	t.Setenv("STATE_BACKEND", "etcd")

	_, err := config.Load(t.TempDir())
	assert.ErrorContains(t, err, "invalid config")
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("APP_PORT: [unclosed"), 0o600))

	_, err := config.Load(dir)
	assert.ErrorContains(t, err, "failed to read config file")
}
