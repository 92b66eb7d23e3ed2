package moderation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectShadowModeration(t *testing.T) {
	enabled := defaultThresholds()

	t.Run("no image analysis", func(t *testing.T) {
		assert.Nil(t, DetectShadowModeration(nil, enabled))
	})

	t.Run("disabled by config", func(t *testing.T) {
		disabled := enabled
		disabled.MinorsShadowModerationEnabled = false
		image := &ImageAnalysis{
			HasExplicitContent: true,
			MinorsRisk:         MinorsRisk{Detected: true, Confidence: 0.9},
			Valid:              true,
		}
		assert.Nil(t, DetectShadowModeration(image, disabled))
	})

	t.Run("minors without sexual content", func(t *testing.T) {
		image := &ImageAnalysis{
			MinorsRisk: MinorsRisk{Detected: true, Confidence: 0.9},
			Valid:      true,
		}
		assert.Nil(t, DetectShadowModeration(image, enabled))
	})

	t.Run("sexual content without minors", func(t *testing.T) {
		image := &ImageAnalysis{HasExplicitContent: true, Valid: true}
		assert.Nil(t, DetectShadowModeration(image, enabled))
	})

	t.Run("minors with explicit content", func(t *testing.T) {
		image := &ImageAnalysis{
			HasExplicitContent: true,
			MinorsRisk:         MinorsRisk{Detected: true, Confidence: 0.9},
			Valid:              true,
		}
		sm := DetectShadowModeration(image, enabled)
		require.NotNil(t, sm)
		assert.True(t, sm.Flagged)
		assert.True(t, sm.Escalated)
		assert.Equal(t, ShadowModerationReason, sm.Reason)
	})

	t.Run("minors with suggestive content", func(t *testing.T) {
		image := &ImageAnalysis{
			HasSuggestiveContent: true,
			MinorsRisk:           MinorsRisk{Detected: true, Confidence: 0.7},
			Valid:                true,
		}
		sm := DetectShadowModeration(image, enabled)
		require.NotNil(t, sm)
		assert.True(t, sm.Flagged)
	})
}
