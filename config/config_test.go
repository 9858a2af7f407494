package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := &Config{}
	err := LoadConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, "CodeTube", cfg.App.Name)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, 15*time.Minute, cfg.Verification.TTL)
	assert.Equal(t, 3, cfg.Verification.MaxAttempts)
	assert.Equal(t, 168*time.Hour, cfg.JWT.AccessExpiry)
	assert.Equal(t, 720*time.Hour, cfg.RefreshToken.Expiry)
	assert.Equal(t, 587, cfg.Mail.Port)
	assert.Equal(t, 5, cfg.RateLimit.SendCodeRate)
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("CODETUBE_VERIFICATION_TTL", "30m")
	t.Setenv("CODETUBE_VERIFICATION_MAX_ATTEMPTS", "5")
	t.Setenv("CODETUBE_JWT_SECRET", "override-secret")
	t.Setenv("CODETUBE_DB_DRIVER", "postgres")

	cfg := &Config{}
	err := LoadConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, 30*time.Minute, cfg.Verification.TTL)
	assert.Equal(t, 5, cfg.Verification.MaxAttempts)
	assert.Equal(t, "override-secret", cfg.JWT.SecretKey)
	assert.Equal(t, "postgres", cfg.Database.Driver)
}
