// Package config provides configuration loading for the goUserRegistry service.
package config

// Config represents the application configuration.
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Logging     LoggingConfig
	HealthCheck HealthCheckConfig
	Application ApplicationConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         int    // Server port number
	Host         string // Server host address
	ReadTimeout  int    // Read timeout in seconds
	WriteTimeout int    // Write timeout in seconds
	IdleTimeout  int    // Idle timeout in seconds
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	Host     string // Database host address
	Port     int    // Database port number
	User     string // Database username
	Password string // Database password
	Database string // Database name
	SSLMode  string // SSL mode (disable, require, etc.)
	MaxConns int    // Maximum pool connections
	MinConns int    // Minimum pool connections
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string // Log level (debug, info, warn, error)
}

// HealthCheckConfig holds health check configuration.
type HealthCheckConfig struct {
	Enabled bool // Enable the database checker on /health
}

// ApplicationConfig holds application-specific configuration.
type ApplicationConfig struct {
	Environment       string // Environment (development, staging, production, test)
	ShutdownTimeout   int    // Shutdown timeout in seconds
	RateLimitRequests int    // Rate limit requests per minute
	RateLimitBurst    int    // Rate limit burst size
}
