package classifier

import (
	"context"

	"closetguard/internal/moderation"
)

// Disabled is the classifier used when no image backend is configured.
// Every call fails, which the engine converts into the fail-safe invalid
// image analysis: image submissions degrade toward human review instead of
// being silently approved on a missing signal.
type Disabled struct{}

var _ moderation.ImageClassifier = Disabled{}

func (Disabled) DetectLabels(ctx context.Context, imageRef string, minConfidence float64) ([]moderation.Label, error) {
	return nil, moderation.ErrClassifierUnavailable
}
