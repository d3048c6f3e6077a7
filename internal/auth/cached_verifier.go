package auth

import (
	"context"
	"time"

	"github.com/chathub-dev/chathub/domain"
	"github.com/jellydator/ttlcache/v3"
)

// CachedVerifier decorates a Verifier with a short-lived in-memory cache so
// repeated requests carrying the same token skip signature verification.
// Only positive results are cached; the TTL stays short because revocation
// happens at the identity provider.
type CachedVerifier struct {
	inner Verifier
	cache *ttlcache.Cache[string, *domain.Identity]
	ttl   time.Duration
}

// NewCachedVerifier creates a CachedVerifier with automatic cleanup.
func NewCachedVerifier(inner Verifier, ttl time.Duration) *CachedVerifier {
	cache := ttlcache.New(
		ttlcache.WithTTL[string, *domain.Identity](ttl),
		ttlcache.WithDisableTouchOnHit[string, *domain.Identity](),
	)

	// Start the cleanup process
	go cache.Start()

	return &CachedVerifier{
		inner: inner,
		cache: cache,
		ttl:   ttl,
	}
}

// Verify implements Verifier.
func (v *CachedVerifier) Verify(ctx context.Context, bearerToken string) (*domain.Identity, error) {
	if item := v.cache.Get(bearerToken); item != nil {
		return item.Value(), nil
	}

	identity, err := v.inner.Verify(ctx, bearerToken)
	if err != nil {
		return nil, err
	}

	// The entry must die with the token: cache for the configured TTL or the
	// token's remaining lifetime, whichever ends first.
	ttl := v.ttl
	if !identity.ExpiresAt.IsZero() {
		if remaining := time.Until(identity.ExpiresAt); remaining < ttl {
			ttl = remaining
		}
	}
	if ttl > 0 {
		v.cache.Set(bearerToken, identity, ttl)
	}
	return identity, nil
}

// Close stops the cleanup goroutine.
func (v *CachedVerifier) Close() error {
	v.cache.Stop()
	return nil
}

// Ensure interface compliance
var _ Verifier = (*CachedVerifier)(nil)
