package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/chybatronik/goUserRegistry/internal/logging"
)

// HealthCheckResponse represents the health check response format.
type HealthCheckResponse struct {
	Status        string                 `json:"status"` // healthy|unhealthy
	Timestamp     int64                  `json:"timestamp"`
	Service       string                 `json:"service"`
	Version       string                 `json:"version"`
	UptimeSeconds int64                  `json:"uptime_seconds"`
	Checks        map[string]HealthCheck `json:"checks"`
}

// HealthCheck represents an individual health check result with timing.
type HealthCheck struct {
	Status         string `json:"status"`
	ResponseTimeMs int64  `json:"response_time_ms"`
	Error          string `json:"error,omitempty"`
}

// HealthChecker is the interface health check components implement.
type HealthChecker interface {
	CheckHealth(ctx context.Context) HealthCheck
	Name() string
}

// HealthHandler serves /health with pluggable checkers.
type HealthHandler struct {
	checkers  []HealthChecker
	startTime time.Time
	version   string
	service   string
	mu        sync.RWMutex
	logger    *logging.Logger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(service, version string, logger *logging.Logger) *HealthHandler {
	return &HealthHandler{
		checkers:  make([]HealthChecker, 0),
		startTime: time.Now(),
		version:   version,
		service:   service,
		logger:    logger,
	}
}

// AddChecker adds a health checker to the handler.
func (h *HealthHandler) AddChecker(checker HealthChecker) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checkers = append(h.checkers, checker)
}

// ServeHTTP handles health check requests.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	response := HealthCheckResponse{
		Timestamp:     time.Now().Unix(),
		Service:       h.service,
		Version:       h.version,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		Checks:        make(map[string]HealthCheck),
	}

	h.mu.RLock()
	checkers := make([]HealthChecker, len(h.checkers))
	copy(checkers, h.checkers)
	h.mu.RUnlock()

	allHealthy := true
	for _, checker := range checkers {
		check := checker.CheckHealth(ctx)
		response.Checks[checker.Name()] = check
		if check.Status != "healthy" {
			allHealthy = false
			h.logger.Warn("Health check failed",
				"check_name", checker.Name(),
				"check_error", check.Error,
			)
		}
	}

	statusCode := http.StatusOK
	response.Status = "healthy"
	if !allHealthy {
		statusCode = http.StatusServiceUnavailable
		response.Status = "unhealthy"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Failed to encode health response", logging.FieldError, err)
	}
}
