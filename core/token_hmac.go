package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AdminClaims are the claims carried by self-issued admin tokens.
type AdminClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// HMACVerifier verifies HS256 tokens signed with a shared secret.
type HMACVerifier struct {
	secret   []byte
	issuer   string
	audience string
}

// NewHMACVerifier returns a verifier; issuer and audience are checked only when non-empty.
func NewHMACVerifier(secret, issuer, audience string) (*HMACVerifier, error) {
	if secret == "" {
		return nil, errors.New("empty token secret")
	}
	return &HMACVerifier{secret: []byte(secret), issuer: issuer, audience: audience}, nil
}

func (v *HMACVerifier) Verify(_ context.Context, tokenString string) (*Identity, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	claims := &AdminClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	email := normalizeEmail(claims.Email)
	if email == "" {
		return nil, fmt.Errorf("%w: missing email claim", ErrInvalidToken)
	}
	return &Identity{Subject: claims.Subject, Email: email}, nil
}

// IssueToken signs an HS256 admin token for email, valid for ttl.
func IssueToken(secret, email, issuer, audience string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("empty token secret")
	}
	email = normalizeEmail(email)
	if email == "" {
		return "", errors.New("empty email")
	}

	now := time.Now()
	claims := AdminClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if audience != "" {
		claims.Audience = jwt.ClaimStrings{audience}
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
