package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)

	t.Run("ShouldRoundTripClaims", func(t *testing.T) {
		token, err := manager.GenerateToken("john.doe")
		require.NoError(t, err)

		claims, err := manager.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "john.doe", claims.UserID)
	})

	t.Run("ShouldRejectTokenSignedWithDifferentSecret", func(t *testing.T) {
		other := NewJWTManager("other-secret", time.Hour)
		token, err := other.GenerateToken("mallory")
		require.NoError(t, err)

		_, err = manager.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("ShouldRejectExpiredToken", func(t *testing.T) {
		expired := NewJWTManager("test-secret", -time.Minute)
		token, err := expired.GenerateToken("john.doe")
		require.NoError(t, err)

		_, err = manager.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("ShouldRejectGarbageToken", func(t *testing.T) {
		_, err := manager.ValidateToken("not.a.token")
		assert.Error(t, err)
	})

	t.Run("ShouldReportConfiguredDuration", func(t *testing.T) {
		assert.Equal(t, time.Hour, manager.GetTokenDuration())
	})
}
