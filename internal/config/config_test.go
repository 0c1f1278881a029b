package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(orig) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "seller-insights.db", cfg.Store.DatabaseURL)
	assert.Equal(t, "data", cfg.Data.Dir)
	assert.Equal(t, 8, cfg.Analysis.MaxConcurrentSellers)
	assert.Equal(t, 2, cfg.Analysis.LowReviewScore)
	assert.Equal(t, 500, cfg.Logistics.MaxCustomerPoints)
	assert.Equal(t, "reports", cfg.Report.OutputDir)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := []byte("store:\n  driver: postgres\n  database_url: postgres://localhost/insights\nserver:\n  port: 9090\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o644))
	chdir(t, dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/insights", cfg.Store.DatabaseURL)
	assert.Equal(t, 9090, cfg.Server.Port)
	// Unset keys keep their defaults.
	assert.Equal(t, "data", cfg.Data.Dir)
}

func TestLoad_EnvOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("SELLER_STORE_DRIVER", "postgres")
	t.Setenv("SELLER_SERVER_PORT", "3000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("store: [not: valid"), 0o644))
	chdir(t, dir)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read file")
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "json"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "console"}))

	err := InitLogger(LogConfig{Level: "nope", Format: "json"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse log level")
}
