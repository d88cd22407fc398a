package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 9090
  read_timeout_seconds: 15
  write_timeout_seconds: 20

line:
  channel_secret: "secret"
  channel_access_token: "token"
  verify_token_on_start: true

storage:
  path: "/var/lib/linebridge/messages.json"

logging:
  level: "debug"

rate_limit:
  enabled: true
  rps: 5.0
  burst: 10

circuit_breaker:
  enabled: true
  failure_ratio: 0.6
  min_requests: 5
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "secret", cfg.Line.ChannelSecret)
	assert.True(t, cfg.Line.VerifyTokenOnStart)
	assert.Equal(t, "/var/lib/linebridge/messages.json", cfg.Storage.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 5.0, cfg.RateLimit.RPS)
	assert.True(t, cfg.CircuitBreaker.Enabled)
	assert.Equal(t, 0.6, cfg.CircuitBreaker.FailureRatio)
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 8080
  read_timeout_seconds: 10
  write_timeout_seconds: 10

line:
  channel_secret: "secret"
  channel_access_token: "token"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "data/messages.json", cfg.Storage.Path)
	assert.Equal(t, "https://api.line.me", cfg.Line.APIEndpoint)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("LINE_CHANNEL_SECRET", "env-secret")
	t.Setenv("STORAGE_PATH", "/tmp/env-messages.json")

	path := writeConfigFile(t, `
server:
  port: 8080
  read_timeout_seconds: 10
  write_timeout_seconds: 10

line:
  channel_secret: "file-secret"
  channel_access_token: "token"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "env-secret", cfg.Line.ChannelSecret)
	assert.Equal(t, "/tmp/env-messages.json", cfg.Storage.Path)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadConfig_InvalidConfig(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 8080
  read_timeout_seconds: 10
  write_timeout_seconds: 10

line:
  channel_access_token: "token"
`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "channel secret")
}
