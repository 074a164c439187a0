package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt-testing"

func TestGenerateToken(t *testing.T) {
	tests := []struct {
		name     string
		userID   uint
		email    string
		role     int
		remember bool
	}{
		{
			name:     "User role token",
			userID:   1,
			email:    "test@example.com",
			role:     2,
			remember: false,
		},
		{
			name:     "Admin role token with remember",
			userID:   2,
			email:    "admin@example.com",
			role:     1,
			remember: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := GenerateToken(
				tt.userID,
				tt.email,
				tt.role,
				tt.remember,
				testSecret,
				15*time.Minute,
				7*24*time.Hour,
			)
			require.NoError(t, err)
			assert.NotEmpty(t, token)

			claims, err := ValidateToken(token, testSecret)
			require.NoError(t, err)
			assert.Equal(t, tt.userID, claims.UserID)
			assert.Equal(t, tt.email, claims.Email)
			assert.Equal(t, tt.role, claims.Role)
			assert.Equal(t, tt.remember, claims.Remember)
			require.NotNil(t, claims.IssuedAt)
			require.NotNil(t, claims.ExpiresAt)
		})
	}
}

func TestGenerateToken_RememberExtendsExpiry(t *testing.T) {
	short, err := GenerateToken(1, "a@b.com", 2, false, testSecret, 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)
	long, err := GenerateToken(1, "a@b.com", 2, true, testSecret, 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)

	shortClaims, err := ValidateToken(short, testSecret)
	require.NoError(t, err)
	longClaims, err := ValidateToken(long, testSecret)
	require.NoError(t, err)

	assert.True(t, longClaims.ExpiresAt.Time.After(shortClaims.ExpiresAt.Time))
}

func TestValidateToken(t *testing.T) {
	token, err := GenerateToken(123, "test@example.com", 2, false, testSecret, 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)

	expired, err := GenerateToken(123, "test@example.com", 2, false, testSecret, -1*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		secret  string
		wantErr error
	}{
		{
			name:    "Valid token",
			token:   token,
			secret:  testSecret,
			wantErr: nil,
		},
		{
			name:    "Invalid secret",
			token:   token,
			secret:  "wrong-secret",
			wantErr: ErrInvalidToken,
		},
		{
			name:    "Invalid token format",
			token:   "invalid.token.format",
			secret:  testSecret,
			wantErr: ErrInvalidToken,
		},
		{
			name:    "Empty token",
			token:   "",
			secret:  testSecret,
			wantErr: ErrInvalidToken,
		},
		{
			name:    "Expired token",
			token:   expired,
			secret:  testSecret,
			wantErr: ErrExpiredToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ValidateToken(tt.token, tt.secret)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
			} else {
				require.NoError(t, err)
				require.NotNil(t, claims)
				assert.Equal(t, uint(123), claims.UserID)
			}
		})
	}
}
