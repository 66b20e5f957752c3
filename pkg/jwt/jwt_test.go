package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken("64b7f0c2a1b2c3d4e5f60718", "ann@example.com", "secret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "64b7f0c2a1b2c3d4e5f60718", claims.UserID)
	assert.Equal(t, "ann@example.com", claims.Email)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken("id", "ann@example.com", "secret", time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(token, "other")
	assert.Error(t, err)
}

func TestParseTokenRejectsExpiredToken(t *testing.T) {
	token, err := GenerateToken("id", "ann@example.com", "secret", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token, "secret")
	assert.Error(t, err)
}
