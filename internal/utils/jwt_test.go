package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	at, err := NewAccessToken("secret", 42, "VOLUNTEER", 15)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC().Add(15*time.Minute), at.Exp, 5*time.Second)

	id, role, err := VerifyAccessToken("secret", at.Token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)
	assert.Equal(t, "VOLUNTEER", role)
}

func TestVerifyAccessTokenWrongSecret(t *testing.T) {
	at, err := NewAccessToken("secret", 42, "NGO", 15)
	require.NoError(t, err)

	_, _, err = VerifyAccessToken("other-secret", at.Token)
	assert.Error(t, err)
}

func TestVerifyAccessTokenGarbage(t *testing.T) {
	_, _, err := VerifyAccessToken("secret", "not-a-jwt")
	assert.Error(t, err)

	_, _, err = VerifyAccessToken("secret", "")
	assert.Error(t, err)
}

func TestVerifyAccessTokenExpired(t *testing.T) {
	at, err := NewAccessToken("secret", 42, "NGO", -1)
	require.NoError(t, err)

	_, _, err = VerifyAccessToken("secret", at.Token)
	assert.Error(t, err)
}

func TestNewRefreshTokenIsRandom(t *testing.T) {
	a, err := NewRefreshToken(30)
	require.NoError(t, err)
	b, err := NewRefreshToken(30)
	require.NoError(t, err)

	assert.Len(t, a.Raw, 96, "48 random bytes hex-encoded")
	assert.NotEqual(t, a.Raw, b.Raw)
}

func TestHashRefreshRawIsStable(t *testing.T) {
	h1 := HashRefreshRaw("token")
	h2 := HashRefreshRaw("token")
	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64)
	assert.NotEqual(t, h1, HashRefreshRaw("other"))
}
