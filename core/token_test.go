package core

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHMACVerifier_RoundTrip(t *testing.T) {
	token, err := IssueToken("s3cret", " Admin@Example.com ", "catalog", "admin", time.Hour)
	require.NoError(t, err)

	v, err := NewHMACVerifier("s3cret", "catalog", "admin")
	require.NoError(t, err)

	id, err := v.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", id.Email)
}

func TestHMACVerifier_Rejects(t *testing.T) {
	v, err := NewHMACVerifier("s3cret", "", "")
	require.NoError(t, err)

	wrongKey, err := IssueToken("other", "admin@example.com", "", "", time.Hour)
	require.NoError(t, err)
	_, err = v.Verify(context.Background(), wrongKey)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := IssueToken("s3cret", "admin@example.com", "", "", -time.Minute)
	require.NoError(t, err)
	_, err = v.Verify(context.Background(), expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = v.Verify(context.Background(), "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewHMACVerifier("", "", "")
	assert.Error(t, err)
}

type staticFetcher struct {
	set   jwk.Set
	err   error
	calls int
}

func (f *staticFetcher) FetchKeys(context.Context, string) (jwk.Set, error) {
	f.calls++
	return f.set, f.err
}

func signedRS256(t *testing.T) (jwk.Set, string) {
	t.Helper()
	raw, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	priv, err := jwk.FromRaw(raw)
	require.NoError(t, err)
	require.NoError(t, priv.Set(jwk.KeyIDKey, "k1"))
	require.NoError(t, priv.Set(jwk.AlgorithmKey, jwa.RS256))

	pub, err := priv.PublicKey()
	require.NoError(t, err)
	require.NoError(t, pub.Set(jwk.KeyIDKey, "k1"))
	require.NoError(t, pub.Set(jwk.AlgorithmKey, jwa.RS256))
	set := jwk.NewSet()
	require.NoError(t, set.AddKey(pub))

	tok, err := jwt.NewBuilder().
		Issuer("https://auth.example.com").
		Subject("user-1").
		Expiration(time.Now().Add(time.Hour)).
		Claim("email", "Owner@Example.com").
		Build()
	require.NoError(t, err)

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.RS256, priv))
	require.NoError(t, err)
	return set, string(signed)
}

func TestJWKSVerifier_VerifiesAndCaches(t *testing.T) {
	set, token := signedRS256(t)
	fetcher := &staticFetcher{set: set}
	v := NewJWKSVerifier("https://auth.example.com/jwks", "https://auth.example.com", "", time.Minute, fetcher)

	for i := 0; i < 2; i++ {
		id, err := v.Verify(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, "owner@example.com", id.Email)
		assert.Equal(t, "user-1", id.Subject)
	}
	assert.Equal(t, 1, fetcher.calls)
}

func TestJWKSVerifier_FetchFailure(t *testing.T) {
	_, token := signedRS256(t)
	v := NewJWKSVerifier("https://auth.example.com/jwks", "", "", time.Minute, &staticFetcher{err: errors.New("down")})

	_, err := v.Verify(context.Background(), token)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidToken)
}
