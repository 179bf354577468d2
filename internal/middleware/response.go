// Package middleware provides HTTP middleware for the goUserRegistry service.
package middleware

import (
	"net/http"
	"sync/atomic"
)

// ResponseWriter wraps http.ResponseWriter and records the status code and
// body size written by downstream handlers.
type ResponseWriter struct {
	http.ResponseWriter
	statusCode int32
	written    int32
}

// NewResponseWriter creates a status-capturing response writer.
func NewResponseWriter(w http.ResponseWriter) *ResponseWriter {
	return &ResponseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *ResponseWriter) WriteHeader(code int) {
	atomic.StoreInt32(&rw.statusCode, int32(code))
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *ResponseWriter) Write(data []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(data)
	if n > 0 {
		atomic.AddInt32(&rw.written, int32(n))
	}
	return n, err
}

// StatusCode returns the last status code written, defaulting to 200.
func (rw *ResponseWriter) StatusCode() int {
	return int(atomic.LoadInt32(&rw.statusCode))
}

// BytesWritten returns the number of body bytes written.
func (rw *ResponseWriter) BytesWritten() int {
	return int(atomic.LoadInt32(&rw.written))
}

// HasBody reports whether any body bytes were written.
func (rw *ResponseWriter) HasBody() bool {
	return atomic.LoadInt32(&rw.written) > 0
}
