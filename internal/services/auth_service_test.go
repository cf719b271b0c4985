package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordNeverStoresPlaintext(t *testing.T) {
	svc := NewAuthService("test-secret", time.Hour)

	hash, err := svc.HashPassword("Passw0rd!")
	require.NoError(t, err)

	assert.NotEqual(t, "Passw0rd!", hash)
	assert.True(t, svc.CheckPassword(hash, "Passw0rd!"))
	assert.False(t, svc.CheckPassword(hash, "passw0rd!"))
}

func TestSignAndValidateToken(t *testing.T) {
	svc := NewAuthService("test-secret", time.Hour)

	token, err := svc.SignToken(42)
	require.NoError(t, err)

	userID, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, 42, userID)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	svc := NewAuthService("test-secret", -time.Minute)

	token, err := svc.SignToken(42)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewAuthService("secret-a", time.Hour)
	verifier := NewAuthService("secret-b", time.Hour)

	token, err := issuer.SignToken(42)
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := NewAuthService("test-secret", time.Hour)

	_, err := svc.ValidateToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
