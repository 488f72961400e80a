package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseJWT(t *testing.T) {
	token, err := GenerateJWT("operator", "secret-key-for-tests", time.Hour, "balance-updater")
	require.NoError(t, err)

	claims, err := ParseAndValidateJWT(token, "secret-key-for-tests")
	require.NoError(t, err)
	assert.Equal(t, "operator", claims.Subject)
	assert.Equal(t, "balance-updater", claims.Issuer)

	_, err = ParseAndValidateJWT(token, "wrong-secret")
	assert.ErrorIs(t, err, jwt.ErrSignatureInvalid)
}

func TestParseJWT_Expired(t *testing.T) {
	token, err := GenerateJWT("operator", "secret", -time.Minute, "balance-updater")
	require.NoError(t, err)

	_, err = ParseAndValidateJWT(token, "secret")
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}
