package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestIssueAndVerify(t *testing.T) {
	signed, err := Issue(testSecret, "user-1", "user", UserLoginTTL)
	require.NoError(t, err)

	claims, err := Verify(testSecret, signed)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.ID)
	assert.Equal(t, "user", claims.Role)
}

func TestVerifyExpired(t *testing.T) {
	signed, err := Issue(testSecret, "user-1", "user", -time.Minute)
	require.NoError(t, err)

	_, err = Verify(testSecret, signed)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestVerifyWrongSecret(t *testing.T) {
	signed, err := Issue(testSecret, "user-1", "user", UserLoginTTL)
	require.NoError(t, err)

	_, err = Verify("another-secret", signed)
	assert.ErrorIs(t, err, ErrSignatureInvalid)
}

func TestVerifyMalformed(t *testing.T) {
	_, err := Verify(testSecret, "not-a-token")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestAsymmetricTTLs(t *testing.T) {
	// Registration-issued tokens intentionally outlive login-issued ones.
	assert.Equal(t, 30*24*time.Hour, UserRegisterTTL)
	assert.Equal(t, 24*time.Hour, UserLoginTTL)
	assert.Equal(t, 24*time.Hour, AdminTTL)
}
