package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("test-secret"))

	token, expires, err := svc.GenerateAccessToken(Identity{
		UserID:    "user-1",
		Email:     "cashier@example.com",
		Roles:     []string{"cashier"},
		BranchIDs: []string{"0190c2a0-0000-7000-8000-000000000001"},
	})
	require.NoError(t, err)
	assert.True(t, expires.After(time.Now()))

	user, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.UserID)
	assert.Equal(t, "cashier@example.com", user.Email)
	assert.Equal(t, []string{"0190c2a0-0000-7000-8000-000000000001"}, user.BranchIDs)
	assert.False(t, user.IsAdmin)
}

func TestJWTService_Rejects(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("test-secret"))

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTService(DefaultJWTConfig("other-secret"))
		token, _, err := other.GenerateAccessToken(Identity{UserID: "u"})
		require.NoError(t, err)
		_, err = svc.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		cfg := DefaultJWTConfig("test-secret")
		cfg.AccessTokenTTL = -time.Minute
		token, _, err := NewJWTService(cfg).GenerateAccessToken(Identity{UserID: "u"})
		require.NoError(t, err)
		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		cfg := DefaultJWTConfig("test-secret")
		cfg.Issuer = "someone-else"
		token, _, err := NewJWTService(cfg).GenerateAccessToken(Identity{UserID: "u"})
		require.NoError(t, err)
		_, err = svc.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateToken("not.a.token")
		assert.Error(t, err)
	})
}
