package auth_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/fleet-hub/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := auth.NewJWTService("test-secret", time.Hour)
	userID := uuid.New()

	token, err := svc.GenerateToken(userID, "user@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, "fleet-hub", claims.Issuer)
	assert.Equal(t, userID.String(), claims.Subject)
}

func TestJWTService_ValidateToken_Invalid(t *testing.T) {
	svc := auth.NewJWTService("test-secret", time.Hour)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"empty token", "", auth.ErrInvalidToken},
		{"garbage token", "not.a.jwt", auth.ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateToken(tt.token)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestJWTService_ValidateToken_WrongSecret(t *testing.T) {
	issuer := auth.NewJWTService("secret-one", time.Hour)
	verifier := auth.NewJWTService("secret-two", time.Hour)

	token, err := issuer.GenerateToken(uuid.New(), "user@example.com")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestJWTService_ValidateToken_Expired(t *testing.T) {
	svc := auth.NewJWTService("test-secret", -time.Minute)

	token, err := svc.GenerateToken(uuid.New(), "user@example.com")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, auth.ErrExpiredToken)
}

func TestJWTService_Authenticate(t *testing.T) {
	svc := auth.NewJWTService("test-secret", time.Hour)
	userID := uuid.New()

	token, err := svc.GenerateToken(userID, "user@example.com")
	require.NoError(t, err)

	got, err := svc.Authenticate(token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)

	_, err = svc.Authenticate("garbage")
	assert.Error(t, err)
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := auth.HashPassword("s3cret-password")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-password", hash)

	assert.True(t, auth.CheckPassword("s3cret-password", hash))
	assert.False(t, auth.CheckPassword("wrong-password", hash))
}
