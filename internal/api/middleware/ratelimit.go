package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Limiter decides whether a client key is still within quota
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimiter throttles requests per client IP using a shared Limiter
type RateLimiter struct {
	limiter    Limiter
	retryAfter time.Duration
}

// NewRateLimiter creates a rate limiting middleware.
// retryAfter is advertised to throttled clients (normally the window length).
func NewRateLimiter(limiter Limiter, retryAfter time.Duration) *RateLimiter {
	return &RateLimiter{limiter: limiter, retryAfter: retryAfter}
}

// Middleware returns a rate limiting middleware
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := getClientIP(r)

		allowed, err := rl.limiter.Allow(r.Context(), clientID)
		if err != nil {
			// Limiter backend down: fail closed
			slog.Error("rate limiter unavailable", "client", clientID, "error", err)
			writeJSONError(w, http.StatusServiceUnavailable, "Service temporarily unavailable")
			return
		}
		if !allowed {
			if rl.retryAfter > 0 {
				w.Header().Set("Retry-After", strconv.Itoa(int(rl.retryAfter.Seconds())))
			}
			writeJSONError(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// getClientIP returns the client IP from RemoteAddr.
// Forwarding headers are left to chi's RealIP, which runs earlier in the chain;
// reading them here would let a client pick its own rate limit key.
func getClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RealIP stores a bare address without a port
		return strings.TrimSpace(r.RemoteAddr)
	}
	return host
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		slog.Error("failed to write error response", "error", err)
	}
}
