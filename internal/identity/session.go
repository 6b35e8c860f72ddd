package identity

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the session token claims issued by the identity provider
type Claims struct {
	jwt.RegisteredClaims
	// AuthorizedParty is the origin the session was issued to
	AuthorizedParty string `json:"azp,omitempty"`
	SessionID       string `json:"sid,omitempty"`
}

// UserID returns the provider's user id (the token subject)
func (c *Claims) UserID() string {
	return c.Subject
}

// VerifierConfig configures session token verification
type VerifierConfig struct {
	Issuer string
	// AuthorizedParties lists the origins allowed in the azp claim.
	// Empty means azp is not checked.
	AuthorizedParties []string
	Leeway            time.Duration
}

// Verifier validates session tokens against the provider's published keys
type Verifier struct {
	keys   KeyFetcher
	config VerifierConfig
}

// NewVerifier creates a session verifier
func NewVerifier(keys KeyFetcher, config VerifierConfig) *Verifier {
	if config.Leeway == 0 {
		config.Leeway = 5 * time.Second
	}
	return &Verifier{keys: keys, config: config}
}

// Verify parses tokenString, checks its signature against the JWKS and
// validates issuer, expiry and authorized party
func (v *Verifier) Verify(ctx context.Context, tokenString string) (*Claims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.config.Leeway),
	}
	if v.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.config.Issuer))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		kid, ok := token.Header["kid"].(string)
		if !ok || kid == "" {
			return nil, fmt.Errorf("missing kid in token header")
		}
		return v.keys.FetchPublicKey(ctx, kid)
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to verify session token: %w", err)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("session token has no subject")
	}

	if len(v.config.AuthorizedParties) > 0 && claims.AuthorizedParty != "" &&
		!slices.Contains(v.config.AuthorizedParties, claims.AuthorizedParty) {
		return nil, fmt.Errorf("%w: %s", ErrUnauthorizedParty, claims.AuthorizedParty)
	}

	return claims, nil
}
