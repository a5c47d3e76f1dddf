package helpers

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Hour, "campus-auth")

	tok, exp, err := m.GenerateAccessToken("acc-1", "a@x.com", "sid-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := m.ParseAccessToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", claims.AccountID())
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, "sid-1", claims.SessionID)
	assert.Equal(t, "campus-auth", claims.Issuer)
	assert.Same(t, m, DefaultJWT())
}

func TestJWTManager_RejectsWrongSecret(t *testing.T) {
	signer := NewJWTManager("one", time.Hour, "")
	verifier := NewJWTManager("two", time.Hour, "")

	tok, _, err := signer.GenerateAccessToken("acc-1", "a@x.com", "")
	require.NoError(t, err)

	_, err = verifier.ParseAccessToken(tok)
	assert.Error(t, err)
}

func TestJWTManager_RejectsExpired(t *testing.T) {
	m := NewJWTManager("secret", -time.Minute, "")

	tok, _, err := m.GenerateAccessToken("acc-1", "a@x.com", "")
	require.NoError(t, err)

	_, err = m.ParseAccessToken(tok)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWTManager_RejectsNonHMAC(t *testing.T) {
	m := NewJWTManager("secret", time.Hour, "")
	tok := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "acc-1"},
	})
	s, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = m.ParseAccessToken(s)
	assert.Error(t, err)
}
