package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAccessSecret = "test-access-secret"

func TestNewService(t *testing.T) {
	service := NewService(testAccessSecret, 15*time.Minute)

	assert.Equal(t, testAccessSecret, service.secret)
	assert.Equal(t, 15*time.Minute, service.accessTokenExpiry)
}

func TestGenerateAccessToken(t *testing.T) {
	service := NewService(testAccessSecret, 15*time.Minute)

	token, err := service.GenerateAccessToken("user-123", "passenger@example.com", false)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "passenger@example.com", claims.Email)
	assert.False(t, claims.IsAdmin)
	assert.Equal(t, "letsgo-booking", claims.Issuer)
	assert.Equal(t, "user-123", claims.Subject)
}

func TestValidateAccessToken(t *testing.T) {
	service := NewService(testAccessSecret, 15*time.Minute)

	t.Run("Admin Claim Round Trip", func(t *testing.T) {
		token, err := service.GenerateAccessToken("admin-1", "ops@example.com", true)
		require.NoError(t, err)

		claims, err := service.ValidateAccessToken(token)
		require.NoError(t, err)
		assert.True(t, claims.IsAdmin)
	})

	t.Run("Wrong Secret Rejected", func(t *testing.T) {
		other := NewService("some-other-secret", 15*time.Minute)
		token, err := other.GenerateAccessToken("user-123", "passenger@example.com", false)
		require.NoError(t, err)

		_, err = service.ValidateAccessToken(token)
		assert.Error(t, err)
	})

	t.Run("Garbage Token Rejected", func(t *testing.T) {
		_, err := service.ValidateAccessToken("not.a.token")
		assert.Error(t, err)
	})

	t.Run("Expired Token Rejected", func(t *testing.T) {
		expired := NewService(testAccessSecret, -time.Minute)
		token, err := expired.GenerateAccessToken("user-123", "passenger@example.com", false)
		require.NoError(t, err)

		_, err = service.ValidateAccessToken(token)
		assert.Error(t, err)
		assert.True(t, service.IsTokenExpired(token))
	})
}

func TestIsTokenExpired(t *testing.T) {
	service := NewService(testAccessSecret, 15*time.Minute)

	token, err := service.GenerateAccessToken("user-123", "passenger@example.com", false)
	require.NoError(t, err)

	assert.False(t, service.IsTokenExpired(token))
	assert.False(t, service.IsTokenExpired("not.a.token"))
}
