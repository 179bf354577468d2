package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate validates the loaded configuration and returns any errors.
func Validate(config *Config) error {
	var validationErrors []string

	if err := validateDatabaseConfig(&config.Database); err != nil {
		validationErrors = append(validationErrors, err.Error())
	}

	if err := validateServerConfig(&config.Server); err != nil {
		validationErrors = append(validationErrors, err.Error())
	}

	if err := validateApplicationConfig(&config.Application); err != nil {
		validationErrors = append(validationErrors, err.Error())
	}

	if len(validationErrors) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(validationErrors, "; "))
	}

	return nil
}

// validateDatabaseConfig validates database configuration.
func validateDatabaseConfig(db *DatabaseConfig) error {
	if db.Host == "" {
		return errors.New("database host is required")
	}

	if db.Port <= 0 || db.Port > 65535 {
		return errors.New("database port must be between 1 and 65535")
	}

	if db.User == "" {
		return errors.New("database user is required")
	}

	if db.Database == "" {
		return errors.New("database name is required")
	}

	validSSLModes := []string{"disable", "allow", "prefer", "require", "verify-ca", "verify-full"}
	validSSL := false
	for _, mode := range validSSLModes {
		if db.SSLMode == mode {
			validSSL = true
			break
		}
	}
	if !validSSL {
		return fmt.Errorf("invalid SSL mode: %s, must be one of: %s", db.SSLMode, strings.Join(validSSLModes, ", "))
	}

	if db.MaxConns <= 0 {
		return errors.New("database max connections must be positive")
	}

	if db.MinConns < 0 || db.MinConns > db.MaxConns {
		return errors.New("database min connections must be between 0 and max connections")
	}

	return nil
}

// validateServerConfig validates HTTP server configuration.
func validateServerConfig(server *ServerConfig) error {
	if server.Port <= 0 || server.Port > 65535 {
		return errors.New("server port must be between 1 and 65535")
	}

	if server.Host == "" {
		return errors.New("server host is required")
	}

	if server.ReadTimeout <= 0 || server.WriteTimeout <= 0 || server.IdleTimeout <= 0 {
		return errors.New("server timeouts must be positive")
	}

	return nil
}

// validateApplicationConfig validates application configuration.
func validateApplicationConfig(app *ApplicationConfig) error {
	if app.ShutdownTimeout <= 0 {
		return errors.New("shutdown timeout must be positive")
	}

	if app.RateLimitRequests < 0 {
		return errors.New("rate limit requests must not be negative")
	}

	if app.RateLimitBurst < 0 {
		return errors.New("rate limit burst must not be negative")
	}

	return nil
}
