package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateJWT(t *testing.T) {
	signed, err := GenerateJWT(42, "coach", "access-secret", 15)
	require.NoError(t, err)

	claims, err := ValidateJWT(signed, "access-secret")
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "coach", claims.Role)
	assert.Equal(t, "dugout", claims.Issuer)
}

func TestValidateJWTRejects(t *testing.T) {
	signed, err := GenerateJWT(42, "coach", "access-secret", 15)
	require.NoError(t, err)

	_, err = ValidateJWT(signed, "other-secret")
	assert.Error(t, err)

	expired, err := GenerateJWT(42, "coach", "access-secret", -5)
	require.NoError(t, err)
	_, err = ValidateJWT(expired, "access-secret")
	assert.EqualError(t, err, "token has expired")

	_, err = ValidateJWT("", "access-secret")
	assert.Error(t, err)
}
