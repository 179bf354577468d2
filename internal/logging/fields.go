// Package logging provides standard field definitions for structured logging.
package logging

// Standard field names for structured log records.
const (
	FieldRequestID  = "req_id"
	FieldHTTPMethod = "method"
	FieldHTTPPath   = "path"
	FieldHTTPStatus = "status"
	FieldLatencyMs  = "latency_ms"
	FieldService    = "service"
	FieldVersion    = "version"
	FieldError      = "error"
	FieldUserName   = "user_name"
)

// Log levels accepted by NewStructuredLogger.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)
