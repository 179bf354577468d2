package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chybatronik/goUserRegistry/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecoveryMiddlewareConvertsPanicTo500(t *testing.T) {
	logger := logging.NewStructuredLogger("error", "goUserRegistry", "test")
	handler := NewRecoveryMiddleware(logger, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest("GET", "/users", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "internal server error", body["message"])
}

func TestRecoveryMiddlewarePassesThroughNormalResponses(t *testing.T) {
	logger := logging.NewStructuredLogger("error", "goUserRegistry", "test")
	handler := NewRecoveryMiddleware(logger, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"count":1}`))
	}))

	req := httptest.NewRequest("POST", "/user", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"count":1}`, w.Body.String())
}

func TestRecoveryMiddlewareDoesNotOverwritePartialResponse(t *testing.T) {
	logger := logging.NewStructuredLogger("error", "goUserRegistry", "test")
	handler := NewRecoveryMiddleware(logger, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"partial":`))
		panic("encoder blew up mid-body")
	}))

	req := httptest.NewRequest("GET", "/users", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	// The partial body is left alone; no generic JSON is appended.
	assert.Equal(t, `{"partial":`, w.Body.String())
}
