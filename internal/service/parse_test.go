package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfidence(t *testing.T) {
	t.Run("ShouldParsePlainNumber", func(t *testing.T) {
		v, ok := parseConfidence("0.85")
		require.True(t, ok)
		assert.InDelta(t, 0.85, v, 1e-9)
	})

	t.Run("ShouldParseNumberInsideSentence", func(t *testing.T) {
		v, ok := parseConfidence("My confidence is 0.9 for this one.")
		require.True(t, ok)
		assert.InDelta(t, 0.9, v, 1e-9)
	})

	t.Run("ShouldClampOutOfRangeValues", func(t *testing.T) {
		v, ok := parseConfidence("1.5")
		require.True(t, ok)
		assert.Equal(t, 1.0, v)
	})

	t.Run("ShouldParseLeadingDotFloat", func(t *testing.T) {
		v, ok := parseConfidence(".7")
		require.True(t, ok)
		assert.InDelta(t, 0.7, v, 1e-9)
	})

	t.Run("ShouldReportFailureWhenNoNumberPresent", func(t *testing.T) {
		_, ok := parseConfidence("fairly high")
		assert.False(t, ok)
	})
}

func TestParseChunkIndices(t *testing.T) {
	t.Run("ShouldParseCommaSeparatedIndices", func(t *testing.T) {
		assert.Equal(t, []int{3, 7, 12}, parseChunkIndices("3, 7, 12", 3, 20))
	})

	t.Run("ShouldReturnNothingForNoneSentinel", func(t *testing.T) {
		assert.Nil(t, parseChunkIndices("none", 3, 20))
		assert.Nil(t, parseChunkIndices("  None ", 3, 20))
	})

	t.Run("ShouldDiscardOutOfRangeIndices", func(t *testing.T) {
		assert.Equal(t, []int{1, 2}, parseChunkIndices("1, 99, 2", 3, 5))
	})

	t.Run("ShouldCapResultCount", func(t *testing.T) {
		assert.Equal(t, []int{0, 1, 2}, parseChunkIndices("0, 1, 2, 3, 4", 3, 10))
	})

	t.Run("ShouldReturnNothingForGarbage", func(t *testing.T) {
		assert.Nil(t, parseChunkIndices("no idea, sorry", 3, 10))
	})
}

func TestMatchCategory(t *testing.T) {
	labels := []string{"Password Reset", "Software Installation", "Email Configuration"}

	t.Run("ShouldMatchExactLabel", func(t *testing.T) {
		assert.Equal(t, "Software Installation", matchCategory("Software Installation", labels))
	})

	t.Run("ShouldMatchLabelInsideSentence", func(t *testing.T) {
		assert.Equal(t, "Email Configuration",
			matchCategory("I think this is an email configuration problem", labels))
	})

	t.Run("ShouldMatchPartialReplyInsideLabel", func(t *testing.T) {
		assert.Equal(t, "Password Reset", matchCategory("password", labels))
	})

	t.Run("ShouldDefaultToFirstLabelWhenUnmatched", func(t *testing.T) {
		assert.Equal(t, "Password Reset", matchCategory("printer on fire", labels))
	})

	t.Run("ShouldDefaultToFirstLabelOnEmptyReply", func(t *testing.T) {
		assert.Equal(t, "Password Reset", matchCategory("", labels))
	})
}
