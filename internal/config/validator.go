package config

import (
	"fmt"
	"strings"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

func ValidateStatic(cfg *Config) error {
	var errors []error

	if err := validateServer(cfg.Server); err != nil {
		errors = append(errors, err)
	}

	if err := validateLine(cfg.Line); err != nil {
		errors = append(errors, err)
	}

	if err := validateStorage(cfg.Storage); err != nil {
		errors = append(errors, err)
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %v", errors)
	}

	return nil
}

func validateServer(cfg ServerConfig) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return &ValidationError{
			Field:   "server.port",
			Message: fmt.Sprintf("port must be between 1 and 65535, got %d", cfg.Port),
		}
	}

	if cfg.ReadTimeoutSeconds <= 0 {
		return &ValidationError{
			Field:   "server.read_timeout_seconds",
			Message: "read timeout must be positive",
		}
	}

	if cfg.WriteTimeoutSeconds <= 0 {
		return &ValidationError{
			Field:   "server.write_timeout_seconds",
			Message: "write timeout must be positive",
		}
	}

	return nil
}

func validateLine(cfg LineConfig) error {
	if cfg.ChannelSecret == "" {
		return &ValidationError{
			Field:   "line.channel_secret",
			Message: "channel secret is required for webhook signature verification",
		}
	}

	if cfg.ChannelAccessToken == "" {
		return &ValidationError{
			Field:   "line.channel_access_token",
			Message: "channel access token is required",
		}
	}

	if cfg.APIEndpoint != "" && !strings.HasPrefix(cfg.APIEndpoint, "https://") && !strings.HasPrefix(cfg.APIEndpoint, "http://") {
		return &ValidationError{
			Field:   "line.api_endpoint",
			Message: fmt.Sprintf("API endpoint must be an http(s) URL, got %s", cfg.APIEndpoint),
		}
	}

	if cfg.Retry.MaxAttempts < 0 {
		return &ValidationError{
			Field:   "line.retry.max_attempts",
			Message: "max_attempts must be non-negative",
		}
	}

	if cfg.Retry.MaxInterval > 0 && cfg.Retry.InitialInterval > 0 && cfg.Retry.MaxInterval < cfg.Retry.InitialInterval {
		return &ValidationError{
			Field:   "line.retry.max_interval",
			Message: "max_interval must be greater than or equal to initial_interval",
		}
	}

	return nil
}

func validateStorage(cfg StorageConfig) error {
	if cfg.Path == "" {
		return &ValidationError{
			Field:   "storage.path",
			Message: "storage path is required",
		}
	}

	if strings.HasSuffix(cfg.Path, "/") {
		return &ValidationError{
			Field:   "storage.path",
			Message: fmt.Sprintf("storage path must be a file, not a directory: %s", cfg.Path),
		}
	}

	return nil
}
