// Package identity talks to the external identity provider: it verifies
// session tokens against the provider's JWKS and loads user profiles from
// the provider's Backend API.
package identity

import (
	"context"
	"fmt"

	"lostfound/internal/core/users"
)

type contextKey string

const claimsKey contextKey = "identity.claims"

// WithClaims stores verified session claims in ctx
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext returns the verified session claims, or nil when the
// request is anonymous
func ClaimsFromContext(ctx context.Context) *Claims {
	claims, _ := ctx.Value(claimsKey).(*Claims)
	return claims
}

// UserIDFromContext returns the authenticated user id, or "" when anonymous
func UserIDFromContext(ctx context.Context) string {
	if claims := ClaimsFromContext(ctx); claims != nil {
		return claims.UserID()
	}
	return ""
}

// ProfileFetcher loads a user profile by provider user id
type ProfileFetcher interface {
	GetUser(ctx context.Context, userID string) (*users.ExternalIdentity, error)
}

// Provider resolves the caller's identity from the request context
type Provider struct {
	profiles ProfileFetcher
}

// NewProvider creates a users.IdentityProvider backed by profiles
func NewProvider(profiles ProfileFetcher) *Provider {
	return &Provider{profiles: profiles}
}

var _ users.IdentityProvider = (*Provider)(nil)

// CurrentUser returns the authenticated caller's profile, or nil, nil when
// the request carries no verified session
func (p *Provider) CurrentUser(ctx context.Context) (*users.ExternalIdentity, error) {
	userID := UserIDFromContext(ctx)
	if userID == "" {
		return nil, nil
	}

	identity, err := p.profiles.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile for %s: %w", userID, err)
	}
	return identity, nil
}
