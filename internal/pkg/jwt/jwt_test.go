package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeReadsClaimsWithoutSecret(t *testing.T) {
	exp := time.Now().Add(10 * time.Minute).Truncate(time.Second)
	tok, err := GenerateAccessToken(7, "ana", "ADMIN", "backend-secret", exp)
	require.NoError(t, err)

	claims, err := Decode(tok)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "ADMIN", claims.Role)
	assert.True(t, claims.ExpiresAt.Time.Equal(exp))
}

func TestDecodeAcceptsExpiredToken(t *testing.T) {
	tok, err := GenerateAccessToken(1, "ana", "USER", "s", time.Now().Add(-time.Hour))
	require.NoError(t, err)

	left, err := TimeUntilExpiry(tok, time.Now())
	require.NoError(t, err)
	assert.Less(t, left, time.Duration(0))
}

func TestDecodeMalformed(t *testing.T) {
	for _, tok := range []string{"", "abc", "a.b.c", "not-a-jwt.at-all"} {
		_, err := Decode(tok)
		assert.ErrorIs(t, err, ErrTokenMalformed, tok)
	}
}

func TestExpiresAtWithoutExp(t *testing.T) {
	// {"alg":"none"}.{"sub":"x"}.
	_, err := ExpiresAt("eyJhbGciOiJub25lIn0.eyJzdWIiOiJ4In0.")
	assert.ErrorIs(t, err, ErrNoExpiry)
}
