package util

import (
	"ai_learn_backend/internal/model"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	user := &model.User{ID: 7, Username: "alice", Role: model.Teacher}

	tok, err := GenerateJWT(user, "secret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(tok, "secret")
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, model.Teacher, claims.Role)
	assert.Equal(t, TokenIssuer, claims.Issuer)
	assert.NotEmpty(t, claims.ID)

	_, err = ParseJWT(tok, "other-secret")
	assert.Error(t, err)
}

func TestParseJWTRejectsExpiredAndForeignTokens(t *testing.T) {
	user := &model.User{ID: 1, Username: "bob", Role: model.Student}

	expired, err := GenerateJWT(user, "secret", -time.Minute)
	require.NoError(t, err)
	_, err = ParseJWT(expired, "secret")
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    "someone-else",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = ParseJWT(foreign, "secret")
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)
}

func TestParseID(t *testing.T) {
	id, ok := ParseID("42")
	assert.True(t, ok)
	assert.Equal(t, uint(42), id)

	for _, s := range []string{"", "0", "-1", "abc", "99999999999"} {
		_, ok := ParseID(s)
		assert.False(t, ok, s)
	}
}
