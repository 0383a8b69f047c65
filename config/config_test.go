package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "admin@glassbird.com", cfg.AdminEmail)
	assert.Equal(t, 10*time.Second, cfg.AuthTimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.SimulatedAuthDelay)
	assert.Equal(t, "database", cfg.IdentityMode)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.env"), []byte("HTTP_PORT=:9000\nDB_NAME=from_file\n"), 0o600))
	t.Setenv("DB_NAME", "from_env")
	t.Setenv("AUTH_TIMEOUT", "3s")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.HTTPPort)
	assert.Equal(t, "from_env", cfg.DBName)
	assert.Equal(t, 3*time.Second, cfg.AuthTimeout)
}

func TestOrigins(t *testing.T) {
	cfg := Config{AllowedOrigins: "https://glassbird.dev, http://localhost:5173,"}

	assert.Equal(t, []string{"https://glassbird.dev", "http://localhost:5173"}, cfg.Origins())
}
