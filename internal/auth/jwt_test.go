package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager(t *testing.T) {
	tm := NewTokenManager("test-secret-key-for-testing", time.Hour, 24*time.Hour)

	t.Run("RoundTrip", func(t *testing.T) {
		token, err := tm.GenerateAccessToken(42, "jane@example.com")
		require.NoError(t, err)

		claims, err := tm.ValidateAccessToken(token)
		require.NoError(t, err)
		assert.Equal(t, int64(42), claims.UserID)
		assert.Equal(t, "jane@example.com", claims.Email)
		assert.Equal(t, "42", claims.Subject)
	})

	t.Run("Expired", func(t *testing.T) {
		issued := time.Now().Add(-2 * time.Hour)
		old := NewTokenManager("test-secret-key-for-testing", time.Hour, time.Hour)
		old.now = func() time.Time { return issued }

		token, err := old.GenerateAccessToken(1, "a@example.com")
		require.NoError(t, err)

		_, err = tm.ValidateAccessToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		other := NewTokenManager("another-secret", time.Hour, time.Hour)
		token, err := other.GenerateAccessToken(1, "a@example.com")
		require.NoError(t, err)

		_, err = tm.ValidateAccessToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := tm.ValidateAccessToken("not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("DefaultTTLs", func(t *testing.T) {
		d := NewTokenManager("s", 0, 0)
		assert.Equal(t, time.Hour, d.AccessTTL())
		assert.Equal(t, 7*24*time.Hour, d.RefreshTTL())
	})
}

func TestGenerateRefreshToken(t *testing.T) {
	a, err := GenerateRefreshToken()
	require.NoError(t, err)
	b, err := GenerateRefreshToken()
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		token  string
		ok     bool
	}{
		{"valid", "Bearer abc.def", "abc.def", true},
		{"lowercase scheme", "bearer abc", "abc", true},
		{"empty", "", "", false},
		{"scheme only", "Bearer ", "", false},
		{"basic auth", "Basic dXNlcjpwYXNz", "", false},
		{"blank token", "Bearer    ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, ok := ExtractBearerToken(tt.header)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.token, token)
		})
	}
}
