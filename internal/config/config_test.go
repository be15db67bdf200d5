package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Type)
	assert.Equal(t, 24, cfg.Auth.TokenTTLHours)
	assert.False(t, cfg.Cache.Enabled)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, "03:00", cfg.Snapshot.DailyRunTime)
	assert.Equal(t, 90, cfg.Snapshot.DeleteLogRetentionDays)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9090
database:
  type: postgres
  postgres:
    host: db.internal
    port: 5432
auth:
  jwt_secret: topsecret
  token_ttl_hours: 48
rate_limit:
  enabled: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Type)
	assert.Equal(t, "db.internal", cfg.Database.Postgres.Host)
	assert.Equal(t, "topsecret", cfg.Auth.JWTSecret)
	assert.Equal(t, 48, cfg.Auth.TokenTTLHours)
	assert.False(t, cfg.RateLimit.Enabled)

	// Untouched sections keep their defaults.
	assert.Equal(t, "03:00", cfg.Snapshot.DailyRunTime)
}

func TestLoadConfigMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestGetTokenTTL(t *testing.T) {
	cfg := AuthConfig{TokenTTLHours: 12}
	assert.Equal(t, 12*time.Hour, cfg.GetTokenTTL())

	cfg.TokenTTLHours = 0
	assert.Equal(t, 24*time.Hour, cfg.GetTokenTTL())
}

func TestGetCacheTTL(t *testing.T) {
	cfg := CacheConfig{TTLSeconds: 30}
	assert.Equal(t, 30*time.Second, cfg.GetCacheTTL())

	cfg.TTLSeconds = 0
	assert.Equal(t, time.Minute, cfg.GetCacheTTL())
}
