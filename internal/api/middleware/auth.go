package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"lostfound/internal/identity"

	"github.com/golang-jwt/jwt/v5"
)

// SessionVerifier validates a provider session token
type SessionVerifier interface {
	Verify(ctx context.Context, token string) (*identity.Claims, error)
}

// SessionAuthMiddleware authenticates requests with identity-provider session tokens
// sent as "Authorization: Bearer <token>"
type SessionAuthMiddleware struct {
	verifier SessionVerifier
}

// NewSessionAuthMiddleware creates a new session auth middleware
func NewSessionAuthMiddleware(verifier SessionVerifier) *SessionAuthMiddleware {
	return &SessionAuthMiddleware{verifier: verifier}
}

// RequireAuth rejects requests without a valid session with 401.
// On success the verified claims are injected into the request context.
func (m *SessionAuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeAuthError(w, "Unauthorized")
			return
		}

		claims, err := m.verifier.Verify(r.Context(), token)
		if err != nil {
			slog.Warn("session verification failed",
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
				"issuer", unverifiedIssuer(token),
				"error", err,
			)
			writeAuthError(w, "Unauthorized")
			return
		}

		next.ServeHTTP(w, r.WithContext(identity.WithClaims(r.Context(), claims)))
	})
}

// OptionalAuth loads the session when one is present and valid, and otherwise
// lets the request through anonymously
func (m *SessionAuthMiddleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := m.verifier.Verify(r.Context(), token)
		if err != nil {
			slog.Debug("optional auth failed", "path", r.URL.Path, "error", err)
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(identity.WithClaims(r.Context(), claims)))
	})
}

// GetUserID returns the authenticated user's provider id, or "" when anonymous
func GetUserID(r *http.Request) string {
	return identity.UserIDFromContext(r.Context())
}

// SetTestUserID marks ctx as authenticated for userID.
// Only for tests that exercise handlers without a real session token.
func SetTestUserID(ctx context.Context, userID string) context.Context {
	return identity.WithClaims(ctx, &identity.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: userID},
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	return token, token != ""
}

// unverifiedIssuer extracts iss for logging only; it is never trusted
func unverifiedIssuer(token string) string {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "unknown"
	}
	iss, _ := claims["iss"].(string)
	return iss
}

// writeAuthError writes a 401 JSON error response
func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		slog.Error("failed to write auth error response", "error", err)
	}
}
