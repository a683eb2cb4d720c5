package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	t.Run("ShouldResolveKnownKeys", func(t *testing.T) {
		c, ok := ParseCategory("password_reset")
		require.True(t, ok)
		assert.Equal(t, CategoryPasswordReset, c)
	})

	t.Run("ShouldNormalizeCaseAndWhitespace", func(t *testing.T) {
		c, ok := ParseCategory("  Security_Incident ")
		require.True(t, ok)
		assert.Equal(t, CategorySecurityIncident, c)
	})

	t.Run("ShouldRejectUnknownKeys", func(t *testing.T) {
		_, ok := ParseCategory("time_travel_support")
		assert.False(t, ok)
	})
}

func TestDisplayName(t *testing.T) {
	t.Run("ShouldTitleCaseUnderscoredKeys", func(t *testing.T) {
		assert.Equal(t, "Password Reset", CategoryPasswordReset.DisplayName())
		assert.Equal(t, "Software Installation", CategorySoftwareInstall.DisplayName())
		assert.Equal(t, "Policy Question", CategoryPolicyQuestion.DisplayName())
	})
}

func TestClamp01(t *testing.T) {
	t.Run("ShouldBoundValuesToUnitInterval", func(t *testing.T) {
		assert.Equal(t, 0.0, Clamp01(-0.3))
		assert.Equal(t, 0.5, Clamp01(0.5))
		assert.Equal(t, 1.0, Clamp01(1.7))
	})
}
