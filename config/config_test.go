package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("DB_NAME", "dugout_test")
	t.Setenv("JWT_ACCESS_TOKEN_EXPIRY_MINUTES", "30")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.App.Env)
	assert.Equal(t, "dugout_test", cfg.DB.Name)
	assert.Equal(t, 30, cfg.JWT.AccessTokenExpiryMinutes)
	assert.Equal(t, 7, cfg.JWT.RefreshTokenExpiryDays)
	assert.Equal(t, 30, cfg.Assistant.TimeoutSeconds)
	assert.Equal(t, "dugout_changes", cfg.Realtime.NotifyChannel)
	assert.Same(t, cfg, GetConfig())
}

func TestLoadConfigRejectsBadInteger(t *testing.T) {
	t.Setenv("JWT_REFRESH_TOKEN_EXPIRY_DAYS", "seven")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_REFRESH_TOKEN_EXPIRY_DAYS")
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{}
	cfg.DB.Host = "db"
	cfg.DB.User = "coach"
	cfg.DB.Password = "secret"
	cfg.DB.Name = "dugout"
	cfg.DB.Port = "5433"
	cfg.DB.SSLMode = "require"

	assert.Equal(t,
		"host=db user=coach password=secret dbname=dugout port=5433 sslmode=require TimeZone=UTC",
		cfg.PostgresDSN())
}

func TestGormConfigTranslatesErrors(t *testing.T) {
	dev := GormConfig("development")
	assert.True(t, dev.TranslateError)
	assert.NotNil(t, dev.Logger)

	prod := GormConfig("production")
	assert.True(t, prod.TranslateError)
	assert.NotNil(t, prod.Logger)
}

func TestNewLogger(t *testing.T) {
	cfg := &Config{}
	cfg.App.Env = "production"
	log, err := NewLogger(cfg)
	require.NoError(t, err)
	assert.NotNil(t, log)
}
