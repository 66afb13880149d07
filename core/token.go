package core

import (
	"context"
	"errors"
	"strings"
)

// ErrInvalidToken is returned by verifiers for any token that does not resolve to an identity.
var ErrInvalidToken = errors.New("invalid or expired token")

// Identity is the user a bearer token resolves to.
type Identity struct {
	Subject string
	Email   string
}

// TokenVerifier resolves a bearer token to an identity.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// TokenVerifierFunc adapts a function to TokenVerifier.
type TokenVerifierFunc func(ctx context.Context, token string) (*Identity, error)

func (f TokenVerifierFunc) Verify(ctx context.Context, token string) (*Identity, error) {
	return f(ctx, token)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
