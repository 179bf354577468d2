package middleware

import (
	"encoding/json"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter implements IP-based rate limiting.
type RateLimiter struct {
	visitors map[string]*visitor
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
}

// visitor tracks rate limiting state for a single IP.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// SecurityRateLimit creates a rate limiting middleware.
// requestsPerSecond: sustained per-IP rate; burst: maximum burst of requests.
func SecurityRateLimit(requestsPerSecond float64, burst int) func(http.Handler) http.Handler {
	limiter := &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate.Limit(requestsPerSecond),
		burst:    burst,
	}

	go limiter.cleanupVisitors()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := extractIP(r)
			if ip == "" {
				// Cannot attribute the request to an IP; let it through.
				log.Printf("Rate limiting: unable to extract IP from %s", r.RemoteAddr)
				next.ServeHTTP(w, r)
				return
			}

			if !limiter.Allow(ip) {
				writeRateLimitResponse(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Allow checks if an IP is allowed to make a request.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if rl.rate == 0 {
		return true
	}

	v, exists := rl.visitors[ip]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	return v.limiter.Allow()
}

// cleanupVisitors removes idle visitors to keep the map bounded.
func (rl *RateLimiter) cleanupVisitors() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		for ip, v := range rl.visitors {
			if time.Since(v.lastSeen) > 10*time.Minute {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// extractIP extracts the client IP from the request.
func extractIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RemoteAddr without a port, use as-is if it parses.
		if net.ParseIP(r.RemoteAddr) != nil {
			return r.RemoteAddr
		}
		return ""
	}
	return host
}

// writeRateLimitResponse writes the 429 JSON response.
func writeRateLimitResponse(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Retry-After", "60")
	w.WriteHeader(http.StatusTooManyRequests)
	json.NewEncoder(w).Encode(map[string]string{
		"message": "too many requests",
	})
}
