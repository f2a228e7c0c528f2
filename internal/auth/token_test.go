package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck/internal/config"
	"github.com/taskdeck/taskdeck/pkg/cerr"
)

func newTokenService(secret string, ttl time.Duration) *TokenService {
	return NewTokenService(&config.AuthEnv{JWTSecret: secret, TokenTTL: ttl})
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newTokenService("test-secret", time.Hour)

	token, err := svc.Issue(Identity{ID: "u1", Email: "u1@example.com", Role: "member"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	identity, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", identity.ID)
	assert.Equal(t, "u1@example.com", identity.Email)
	assert.Equal(t, "member", identity.Role)
}

func TestTokenExpired(t *testing.T) {
	svc := newTokenService("test-secret", -time.Minute)

	token, err := svc.Issue(Identity{ID: "u1", Email: "u1@example.com"})
	require.NoError(t, err)

	_, err = svc.Verify(token)
	require.Error(t, err)
	assert.True(t, cerr.IsCode(err, cerr.Unauthenticated))
}

func TestTokenMalformed(t *testing.T) {
	svc := newTokenService("test-secret", time.Hour)

	_, err := svc.Verify("not-a-token")
	require.Error(t, err)
	assert.True(t, cerr.IsCode(err, cerr.Unauthenticated))
}

func TestTokenWrongSecret(t *testing.T) {
	issuer := newTokenService("secret-a", time.Hour)
	verifier := newTokenService("secret-b", time.Hour)

	token, err := issuer.Issue(Identity{ID: "u1", Email: "u1@example.com"})
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.Error(t, err)
	assert.True(t, cerr.IsCode(err, cerr.Unauthenticated))
}
