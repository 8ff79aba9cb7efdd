package token

import (
	"testing"
	"time"

	"handyhub-session-svc/src/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, claims jwt.Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestExpirationFromJWT(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	tok := signed(t, Claims{
		UserID:    "u1",
		TokenType: "access",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})

	got, err := ExpirationFromJWT(tok)
	require.NoError(t, err)
	assert.True(t, exp.Equal(got), "want %v got %v", exp, got)
}

func TestExpirationFromJWT_AlreadyExpired(t *testing.T) {
	// expired tokens still decode; the session manager decides what to do with them
	exp := time.Now().Add(-time.Hour).Truncate(time.Second)
	tok := signed(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)})

	got, err := ExpirationFromJWT(tok)
	require.NoError(t, err)
	assert.True(t, exp.Equal(got))
}

func TestExpirationFromJWT_NoExp(t *testing.T) {
	tok := signed(t, jwt.RegisteredClaims{Subject: "u1"})

	_, err := ExpirationFromJWT(tok)
	assert.ErrorIs(t, err, models.ErrTokenNoExpiration)
}

func TestExpirationFromJWT_Malformed(t *testing.T) {
	_, err := ExpirationFromJWT("not-a-jwt")
	assert.ErrorIs(t, err, models.ErrTokenMalformed)

	_, err = ExpirationFromJWT("   ")
	assert.ErrorIs(t, err, models.ErrTokenRequired)
}

func TestParseUnverified_Claims(t *testing.T) {
	tok := signed(t, Claims{UserID: "u1", SessionID: "s1", Role: "client"})

	claims, err := ParseUnverified(tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "s1", claims.SessionID)
	assert.Equal(t, "client", claims.Role)
}

func TestExtractBearer(t *testing.T) {
	assert.Equal(t, "abc", ExtractBearer("Bearer abc"))
	assert.Equal(t, "", ExtractBearer("Basic abc"))
	assert.Equal(t, "", ExtractBearer(""))
	assert.Equal(t, "", ExtractBearer("Bearer "))
}
