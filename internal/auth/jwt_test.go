package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseAccessToken(t *testing.T) {
	tm := NewTokenManager("test-secret", 15, 30)

	token, err := tm.GenerateAccessToken("user-1", "regular")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tm.ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "regular", claims.Role)
	assert.NotEmpty(t, claims.ID, "jti нужен для blocklist")
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}

func TestParseAccessToken_WrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret-one", 15, 30).GenerateAccessToken("user-1", "regular")
	require.NoError(t, err)

	_, err = NewTokenManager("secret-two", 15, 30).ParseAccessToken(token)
	assert.Error(t, err)
}

func TestParseAccessToken_Garbage(t *testing.T) {
	tm := NewTokenManager("test-secret", 15, 30)

	_, err := tm.ParseAccessToken("not.a.token")
	assert.Error(t, err)
}

func TestGenerateRefreshToken(t *testing.T) {
	tm := NewTokenManager("test-secret", 15, 30)

	raw1, exp, err := tm.GenerateRefreshToken()
	require.NoError(t, err)
	raw2, _, err := tm.GenerateRefreshToken()
	require.NoError(t, err)

	assert.NotEqual(t, raw1, raw2)
	assert.True(t, exp.After(time.Now().Add(29*24*time.Hour)))

	// В БД хранится только хеш
	hash := HashRefreshToken(raw1)
	assert.NotEqual(t, raw1, hash)
	assert.Equal(t, hash, HashRefreshToken(raw1))
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)

	assert.True(t, CheckPasswordHash("secret123", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestValidatePassword(t *testing.T) {
	assert.Error(t, ValidatePassword("short"))
	assert.NoError(t, ValidatePassword("longenough"))
}
