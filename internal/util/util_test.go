package util

import (
	"testing"
	"time"

	"mls_backend/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseID(t *testing.T) {
	assert.Equal(t, uint(42), ParseID("42"))
	assert.Equal(t, uint(0), ParseID(""))
	assert.Equal(t, uint(0), ParseID("abc"))
	assert.Equal(t, uint(0), ParseID("-1"))
}

func TestJWTRoundTrip(t *testing.T) {
	user := &model.User{Email: "trainer@example.com", Role: model.Trainer}
	user.ID = 7

	token, err := GenerateJWT(user, "0123456789abcdef0123456789abcdef", time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token, "0123456789abcdef0123456789abcdef")
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, model.Trainer, claims.Role)
	assert.Equal(t, Actor{UserID: 7, Role: model.Trainer}, claims.Actor())
}

func TestParseJWTRejectsBadTokens(t *testing.T) {
	user := &model.User{Email: "trainer@example.com", Role: model.Trainer}
	user.ID = 7

	token, err := GenerateJWT(user, "0123456789abcdef0123456789abcdef", time.Hour)
	require.NoError(t, err)

	_, err = ParseJWT(token, "wrong-secret")
	assert.Error(t, err)

	// Only HS256 is accepted; an unsigned token never reaches the key func.
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: 7})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = ParseJWT(raw, "0123456789abcdef0123456789abcdef")
	assert.Error(t, err)

	expired, err := GenerateJWT(user, "0123456789abcdef0123456789abcdef", -time.Minute)
	require.NoError(t, err)
	_, err = ParseJWT(expired, "0123456789abcdef0123456789abcdef")
	assert.Error(t, err)
}
