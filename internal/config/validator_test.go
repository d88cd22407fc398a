package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTestConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:                8080,
			ReadTimeoutSeconds:  10,
			WriteTimeoutSeconds: 10,
		},
		Line: LineConfig{
			ChannelSecret:      "secret",
			ChannelAccessToken: "token",
			APIEndpoint:        "https://api.line.me",
		},
		Storage: StorageConfig{
			Path: "data/messages.json",
		},
	}
}

func TestValidateStatic_Valid(t *testing.T) {
	assert.NoError(t, ValidateStatic(validTestConfig()))
}

func TestValidateStatic_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{
			name:   "port zero",
			mutate: func(c *Config) { c.Server.Port = 0 },
		},
		{
			name:   "port out of range",
			mutate: func(c *Config) { c.Server.Port = 70000 },
		},
		{
			name:   "zero read timeout",
			mutate: func(c *Config) { c.Server.ReadTimeoutSeconds = 0 },
		},
		{
			name:   "missing channel secret",
			mutate: func(c *Config) { c.Line.ChannelSecret = "" },
		},
		{
			name:   "missing access token",
			mutate: func(c *Config) { c.Line.ChannelAccessToken = "" },
		},
		{
			name:   "endpoint without scheme",
			mutate: func(c *Config) { c.Line.APIEndpoint = "api.line.me" },
		},
		{
			name:   "negative retry attempts",
			mutate: func(c *Config) { c.Line.Retry.MaxAttempts = -1 },
		},
		{
			name: "max interval below initial",
			mutate: func(c *Config) {
				c.Line.Retry.InitialInterval = 10
				c.Line.Retry.MaxInterval = 5
			},
		},
		{
			name:   "empty storage path",
			mutate: func(c *Config) { c.Storage.Path = "" },
		},
		{
			name:   "storage path is a directory",
			mutate: func(c *Config) { c.Storage.Path = "data/" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig()
			tt.mutate(cfg)
			require.Error(t, ValidateStatic(cfg))
		})
	}
}
