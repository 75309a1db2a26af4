package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT("u1", "test-secret")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := ParseJWT(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	token, err := GenerateJWT("u1", "test-secret")
	require.NoError(t, err)

	_, err = ParseJWT(token, "other-secret")
	assert.Error(t, err)
}

func TestJWTRejectsGarbage(t *testing.T) {
	_, err := ParseJWT("not.a.token", "test-secret")
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("Prodex@123")
	require.NoError(t, err)
	assert.NotEqual(t, "Prodex@123", hash)

	assert.True(t, CheckPassword("Prodex@123", hash))
	assert.False(t, CheckPassword("wrong", hash))
}
