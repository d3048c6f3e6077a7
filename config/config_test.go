package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "chathub_dev", cfg.MongoDBName)
	assert.Equal(t, "mongo", cfg.SessionStore)
	assert.Equal(t, 30, cfg.SessionTTLMin)
	assert.Equal(t, 5, cfg.MaxConcurrentSessions)
	assert.Empty(t, cfg.AllowedIPs)
	assert.True(t, cfg.RequireEmailVerification)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("MAX_CONCURRENT_SESSIONS", "2")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, "redis", cfg.SessionStore)
	assert.Equal(t, 2, cfg.MaxConcurrentSessions)
}
