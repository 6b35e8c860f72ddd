package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"lostfound/internal/core/users"
)

// ErrProviderUnavailable is returned while the breaker is open
var ErrProviderUnavailable = errors.New("identity provider temporarily unavailable")

type breakerState int

const (
	breakerClosed breakerState = iota
	breakerOpen
	breakerHalfOpen
)

func (s breakerState) String() string {
	switch s {
	case breakerOpen:
		return "open"
	case breakerHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

// BreakerFetcher wraps a ProfileFetcher and stops calling the Backend API
// after consecutive failures, so requests fail fast while it is down.
// After cooldown one probe request is let through; success closes the breaker.
type BreakerFetcher struct {
	openedAt  time.Time
	next      ProfileFetcher
	now       func() time.Time
	failures  int
	threshold int
	cooldown  time.Duration
	state     breakerState
	probing   bool
	mu        sync.Mutex
}

// NewBreakerFetcher wraps next; threshold and cooldown fall back to 5 and 30s
func NewBreakerFetcher(next ProfileFetcher, threshold int, cooldown time.Duration) *BreakerFetcher {
	if threshold <= 0 {
		threshold = 5
	}
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}
	return &BreakerFetcher{
		next:      next,
		threshold: threshold,
		cooldown:  cooldown,
		now:       time.Now,
	}
}

// GetUser calls through to the wrapped fetcher unless the breaker is open
func (b *BreakerFetcher) GetUser(ctx context.Context, userID string) (*users.ExternalIdentity, error) {
	if err := b.acquire(); err != nil {
		return nil, err
	}

	identity, err := b.next.GetUser(ctx, userID)
	switch {
	case err == nil:
		b.recordSuccess()
	case ctx.Err() != nil:
		// A cancelled caller says nothing about the provider's health
		b.release()
	default:
		b.recordFailure(err)
	}
	return identity, err
}

func (b *BreakerFetcher) release() {
	b.mu.Lock()
	b.probing = false
	b.mu.Unlock()
}

func (b *BreakerFetcher) acquire() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case breakerOpen:
		if b.now().Sub(b.openedAt) < b.cooldown {
			return fmt.Errorf("%w (retry after %s)", ErrProviderUnavailable,
				b.openedAt.Add(b.cooldown).Format(time.RFC3339))
		}
		b.setState(breakerHalfOpen)
		b.probing = true
		return nil
	case breakerHalfOpen:
		if b.probing {
			return ErrProviderUnavailable
		}
		b.probing = true
		return nil
	default:
		return nil
	}
}

func (b *BreakerFetcher) recordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures = 0
	b.probing = false
	if b.state != breakerClosed {
		b.setState(breakerClosed)
	}
}

func (b *BreakerFetcher) recordFailure(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures++
	b.probing = false

	if b.state == breakerHalfOpen || b.failures >= b.threshold {
		b.openedAt = b.now()
		if b.state != breakerOpen {
			slog.Warn("identity provider failing; short-circuiting profile lookups",
				"failures", b.failures,
				"cooldown", b.cooldown,
				"error", err,
			)
		}
		b.setState(breakerOpen)
		return
	}

	slog.Debug("identity provider call failed", "failures", b.failures, "threshold", b.threshold, "error", err)
}

// setState must be called with mu held
func (b *BreakerFetcher) setState(s breakerState) {
	if b.state == s {
		return
	}
	slog.Info("identity provider breaker state changed", "from", b.state.String(), "to", s.String())
	b.state = s
}
