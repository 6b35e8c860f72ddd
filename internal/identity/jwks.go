package identity

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
)

// KeyFetcher resolves the public key a session token was signed with
type KeyFetcher interface {
	FetchPublicKey(ctx context.Context, kid string) (any, error)
}

// CachedJWKSFetcher fetches the identity provider's JWKS and keeps it cached.
// Keys are refreshed in the background; an unknown kid forces at most one
// refresh per forcedRefreshInterval so rotated keys are picked up quickly.
type CachedJWKSFetcher struct {
	lastForced time.Time
	cache      *jwk.Cache
	jwksURL    string
	mu         sync.Mutex
}

const forcedRefreshInterval = 30 * time.Second

// NewCachedJWKSFetcher registers jwksURL with a jwk.Cache.
// ctx bounds the lifetime of the cache's background refresh goroutine.
func NewCachedJWKSFetcher(ctx context.Context, jwksURL string, refreshInterval time.Duration) (*CachedJWKSFetcher, error) {
	if jwksURL == "" {
		return nil, fmt.Errorf("JWKS URL is required")
	}

	cache := jwk.NewCache(ctx)
	if err := cache.Register(jwksURL, jwk.WithMinRefreshInterval(refreshInterval)); err != nil {
		return nil, fmt.Errorf("failed to register JWKS URL: %w", err)
	}

	return &CachedJWKSFetcher{
		cache:   cache,
		jwksURL: jwksURL,
	}, nil
}

// FetchPublicKey returns the raw public key (e.g. *rsa.PublicKey) for kid
func (f *CachedJWKSFetcher) FetchPublicKey(ctx context.Context, kid string) (any, error) {
	set, err := f.cache.Get(ctx, f.jwksURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch JWKS: %w", err)
	}

	key, ok := set.LookupKeyID(kid)
	if !ok {
		// Key not found in cache - try refreshing once
		set, err = f.forceRefresh(ctx)
		if err != nil {
			return nil, err
		}
		if key, ok = set.LookupKeyID(kid); !ok {
			return nil, fmt.Errorf("%w: kid=%q", ErrUnknownKey, kid)
		}
	}

	var raw any
	if err := key.Raw(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode JWK %q: %w", kid, err)
	}
	return raw, nil
}

func (f *CachedJWKSFetcher) forceRefresh(ctx context.Context) (jwk.Set, error) {
	f.mu.Lock()
	throttled := time.Since(f.lastForced) < forcedRefreshInterval
	if !throttled {
		f.lastForced = time.Now()
	}
	f.mu.Unlock()

	if throttled {
		return f.cache.Get(ctx, f.jwksURL)
	}

	slog.Debug("refreshing JWKS for unknown key id", "url", f.jwksURL)
	set, err := f.cache.Refresh(ctx, f.jwksURL)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh JWKS: %w", err)
	}
	return set, nil
}
