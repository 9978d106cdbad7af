package jwt

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaker_GenerateAndParseToken_ValidCases(t *testing.T) {
	secretKey := "test_secret_key_1234567890"
	tokenTTL := 15 * time.Minute
	maker := NewMaker(secretKey, tokenTTL)
	assert.Equal(t, tokenTTL, maker.TokenTTL())

	tests := []struct {
		name    string
		email   string
		role    string
		userUID string
	}{
		{
			name:    "admin user",
			email:   "admin@example.com",
			role:    "admin",
			userUID: "5f64c5e7-0001-4f38-a74c-5ad22f1a0001",
		},
		{
			name:    "regular user",
			email:   "user@example.com",
			role:    "user",
			userUID: "5f64c5e7-0002-4f38-a74c-5ad22f1a0002",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, jti, err := maker.GenerateToken(tt.email, tt.role, tt.userUID)
			require.NoError(t, err)
			assert.NotEmpty(t, token)
			assert.NotEmpty(t, jti)

			claims, err := maker.ParseToken(token)
			require.NoError(t, err)

			assert.Equal(t, tt.email, claims.Email)
			assert.Equal(t, tt.role, claims.Role)
			assert.Equal(t, tt.userUID, claims.UserUID)
			assert.Equal(t, jti, claims.ID)
			assert.WithinDuration(t, time.Now(), claims.IssuedAt.Time, time.Second)
			assert.WithinDuration(t, time.Now().Add(tokenTTL), claims.ExpiresAt.Time, time.Second)
		})
	}
}

func TestMaker_GenerateToken_UniqueJTI(t *testing.T) {
	maker := NewMaker("test_secret_key_1234567890", time.Minute)

	_, jti1, err := maker.GenerateToken("user@example.com", "user", "uid-1")
	require.NoError(t, err)
	_, jti2, err := maker.GenerateToken("user@example.com", "user", "uid-1")
	require.NoError(t, err)

	assert.NotEqual(t, jti1, jti2)
}

func TestMaker_ParseToken_InvalidTokens(t *testing.T) {
	secretKey := "test_secret_key_1234567890"
	maker := NewMaker(secretKey, 15*time.Minute)

	validToken, _, err := maker.GenerateToken("user@example.com", "user", "uid-1")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "empty token",
			token: "",
		},
		{
			name:  "malformed token",
			token: "invalid.token.here",
		},
		{
			name:  "expired token",
			token: createExpiredToken(t, secretKey),
		},
		{
			name:  "wrong secret key",
			token: createTokenWithWrongSecret(t),
		},
		{
			name:  "tampered token",
			token: validToken + "tampered",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := maker.ParseToken(tt.token)
			assert.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}

func createExpiredToken(t *testing.T, secretKey string) string {
	t.Helper()
	claims := CustomClaims{
		Email: "user@example.com",
		Role:  "user",
		RegisteredClaims: gojwt.RegisteredClaims{
			ID:        "expired-jti",
			IssuedAt:  gojwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secretKey))
	require.NoError(t, err)
	return signed
}

func createTokenWithWrongSecret(t *testing.T) string {
	t.Helper()
	maker := NewMaker("completely_different_secret", 15*time.Minute)
	token, _, err := maker.GenerateToken("user@example.com", "user", "uid-1")
	require.NoError(t, err)
	return token
}
