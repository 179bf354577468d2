package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/chybatronik/goUserRegistry/internal/logging"
)

// RecoveryMiddleware converts panics in downstream handlers into a generic
// 500 JSON response. Nothing reaches the client beyond the generic message.
type RecoveryMiddleware struct {
	next   http.Handler
	logger *logging.Logger
}

// NewRecoveryMiddleware creates a panic recovery middleware.
func NewRecoveryMiddleware(logger *logging.Logger, next http.Handler) *RecoveryMiddleware {
	return &RecoveryMiddleware{
		next:   next,
		logger: logger,
	}
}

// ServeHTTP implements http.Handler with panic recovery.
func (rm *RecoveryMiddleware) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	wrapped := NewResponseWriter(w)

	defer func() {
		if rec := recover(); rec != nil {
			rm.logger.Error("Panic recovered while handling request",
				"panic", rec,
				"method", r.Method,
				"path", r.URL.Path,
				logging.FieldRequestID, GetRequestID(r.Context()),
			)

			// If the handler already started the response there is nothing
			// safe left to write.
			if wrapped.HasBody() {
				return
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			if err := json.NewEncoder(w).Encode(map[string]string{
				"message": "internal server error",
			}); err != nil {
				rm.logger.Error("Failed to encode panic response", logging.FieldError, err)
			}
		}
	}()

	rm.next.ServeHTTP(wrapped, r)
}
