package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// JWKSFetcher loads a key set; swapped out in tests.
type JWKSFetcher interface {
	FetchKeys(ctx context.Context, jwksURL string) (jwk.Set, error)
}

type httpJWKSFetcher struct{}

func (httpJWKSFetcher) FetchKeys(ctx context.Context, jwksURL string) (jwk.Set, error) {
	return jwk.Fetch(ctx, jwksURL)
}

// JWKSVerifier verifies tokens issued by an external provider against its published key set.
type JWKSVerifier struct {
	jwksURL  string
	issuer   string
	audience string
	cacheTTL time.Duration
	fetcher  JWKSFetcher

	mu        sync.RWMutex
	keySet    jwk.Set
	lastFetch time.Time
}

// NewJWKSVerifier creates a verifier that caches the key set for cacheTTL.
// A nil fetcher fetches over HTTP.
func NewJWKSVerifier(jwksURL, issuer, audience string, cacheTTL time.Duration, fetcher JWKSFetcher) *JWKSVerifier {
	if fetcher == nil {
		fetcher = httpJWKSFetcher{}
	}
	return &JWKSVerifier{
		jwksURL:  jwksURL,
		issuer:   issuer,
		audience: audience,
		cacheTTL: cacheTTL,
		fetcher:  fetcher,
	}
}

func (v *JWKSVerifier) Verify(ctx context.Context, tokenString string) (*Identity, error) {
	keySet, err := v.getKeySet(ctx)
	if err != nil {
		return nil, err
	}

	opts := []jwt.ParseOption{jwt.WithKeySet(keySet), jwt.WithValidate(true)}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	token, err := jwt.Parse([]byte(tokenString), opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	var email string
	if raw, ok := token.Get("email"); ok {
		email, _ = raw.(string)
	}
	email = normalizeEmail(email)
	if email == "" {
		return nil, fmt.Errorf("%w: missing email claim", ErrInvalidToken)
	}
	return &Identity{Subject: token.Subject(), Email: email}, nil
}

// getKeySet serves the cached set until the TTL passes; a failed refresh falls back to the stale set.
func (v *JWKSVerifier) getKeySet(ctx context.Context) (jwk.Set, error) {
	v.mu.RLock()
	if v.keySet != nil && time.Since(v.lastFetch) < v.cacheTTL {
		defer v.mu.RUnlock()
		return v.keySet, nil
	}
	v.mu.RUnlock()

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.keySet != nil && time.Since(v.lastFetch) < v.cacheTTL {
		return v.keySet, nil
	}

	keySet, err := v.fetcher.FetchKeys(ctx, v.jwksURL)
	if err != nil {
		if v.keySet != nil {
			return v.keySet, nil
		}
		return nil, fmt.Errorf("JWKS fetch failed: %w", err)
	}

	v.keySet = keySet
	v.lastFetch = time.Now()
	return keySet, nil
}
