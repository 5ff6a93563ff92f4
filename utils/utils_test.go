package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("P@ssword")
	require.NoError(t, err)
	assert.NotEqual(t, "P@ssword", hash)

	assert.NoError(t, CheckPassword(hash, "P@ssword"))
	assert.Error(t, CheckPassword(hash, "p@ssword"))
}

func TestPinHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("123")
	require.NoError(t, err)
	assert.NoError(t, CheckPassword(hash, "123"))
	assert.Error(t, CheckPassword(hash, "124"))
}

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken("user-1", "admin@cbms.com", "admin", time.Hour, "secret")
	require.NoError(t, err)

	claims, err := ValidateToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "admin@cbms.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken("user-1", "admin@cbms.com", "admin", time.Hour, "secret")
	require.NoError(t, err)

	_, err = ValidateToken(token, "other-secret")
	assert.Error(t, err)
}

func TestValidateTokenExpired(t *testing.T) {
	token, err := GenerateAccessToken("user-1", "admin@cbms.com", "admin", -time.Minute, "secret")
	require.NoError(t, err)

	_, err = ValidateToken(token, "secret")
	assert.Error(t, err)
}

func TestValidateTokenMalformed(t *testing.T) {
	_, err := ValidateToken("not-a-token", "secret")
	assert.Error(t, err)
}

func TestGenerateSlug(t *testing.T) {
	assert.Equal(t, "year-7-science", GenerateSlug("Year 7 Science"))
	assert.Equal(t, "francais-avance", GenerateSlug("Français Avancé"))
	assert.Equal(t, "a-b", GenerateSlug("--A__B--"))
}

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 20, ParseIntDefault("", 20))
	assert.Equal(t, 7, ParseIntDefault("7", 20))
	assert.Equal(t, 20, ParseIntDefault("abc", 20))
}
