package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	settings, err := LoadFrom(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 3001, settings.Server.Port)
	require.Equal(t, ":3001", settings.Addr())
	require.Equal(t, 50, settings.Server.BodyLimitMB)
	require.Equal(t, "memory", settings.DB.Driver)
	require.Equal(t, 60, settings.Credits.SignupMinutes)
	require.Equal(t, 500, settings.Credits.TopUpMinutes)
	require.Equal(t, 15*time.Minute, settings.RateLimit.Window)
	require.Equal(t, 100, settings.RateLimit.Max)
	require.Equal(t, 5*time.Minute, settings.Engine.Timeout())
	require.Equal(t, 24*time.Hour, settings.Auth.TokenTTL())
	require.Equal(t, "dev", settings.Env)
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	yaml := `
server:
  port: 8080
  allowedOrigins: ["https://scribe.example.com"]
database:
  driver: mysql
  host: db
  port: 3307
  username: scribe
  password: secret
  name: ledger
credits:
  signupMinutes: 30
rateLimit:
  window: 1m
  max: 5
debug: true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config_dev.yaml"), []byte(yaml), 0o600))
	t.Setenv("AUDIOSCRIBE_ENGINE_APIKEY", "key-from-env")
	t.Setenv("AUDIOSCRIBE_SERVER_PORT", "9090")

	settings, err := LoadFrom(dir)
	require.NoError(t, err)

	require.Equal(t, 9090, settings.Server.Port)
	require.Equal(t, []string{"https://scribe.example.com"}, settings.Server.AllowedOrigins)
	require.Equal(t, "mysql", settings.DB.Driver)
	require.Equal(t, "scribe:secret@tcp(db:3307)/ledger?charset=utf8mb4&parseTime=True&loc=UTC", settings.DB.DSN())
	require.Equal(t, 30, settings.Credits.SignupMinutes)
	require.Equal(t, time.Minute, settings.RateLimit.Window)
	require.Equal(t, 5, settings.RateLimit.Max)
	require.Equal(t, "key-from-env", settings.Engine.APIKey)
	require.True(t, settings.Debug)
}

func TestLoadRejectsBrokenFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config_dev.yaml"), []byte("server: [unclosed"), 0o600))

	_, err := LoadFrom(dir)
	require.Error(t, err)
}
