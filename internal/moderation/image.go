package moderation

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"closetguard/internal/metrics"
	"closetguard/internal/tracing"
)

// ImageClassifier detects moderation labels for an image reference.
// Returned labels are ordered by the classifier (most significant first)
// with confidence values on its native 0-100 scale. Implementations must
// honor context cancellation.
type ImageClassifier interface {
	DetectLabels(ctx context.Context, imageRef string, minConfidence float64) ([]Label, error)
}

// ErrClassifierUnavailable is returned by classifiers that are not configured
var ErrClassifierUnavailable = errors.New("image classifier unavailable")

// AnalyzeImage calls the classifier with a bounded timeout and normalizes
// its output into content flags. Any classifier error or timeout yields the
// fail-safe analysis (Valid=false, all flags false, zero confidence); the
// failure is logged and counted but never propagated, so a classifier
// outage degrades toward human review rather than blocking decisions.
func AnalyzeImage(ctx context.Context, classifier ImageClassifier, imageRef string, cfg Config) ImageAnalysis {
	ctx, cancel := context.WithTimeout(ctx, cfg.ClassifierTimeout())
	defer cancel()

	ctx, span := tracing.ClassifierSpan(ctx, imageRef)
	defer span.End()

	start := time.Now()
	labels, err := classifier.DetectLabels(ctx, imageRef, cfg.MinLabelConfidence)
	metrics.ClassifierRequestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		tracing.EndWithError(span, err)
		metrics.ClassifierErrorsTotal.Inc()
		log.Error().Err(err).Str("image", imageRef).Msg("moderation: image classification failed")
		return ImageAnalysis{TopLabel: "ERROR"}
	}

	analysis := ImageAnalysis{
		Labels:   labels,
		TopLabel: "NONE",
		Valid:    true,
	}
	if len(labels) > 0 {
		analysis.TopLabel = labels[0].Name
		analysis.TopConfidence = labels[0].Confidence / 100
	}

	analysis.HasExplicitContent = hasLabel(labels, cfg.Labels.Explicit)
	analysis.HasSuggestiveContent = hasLabel(labels, cfg.Labels.Suggestive)
	analysis.HasWeapons = hasLabel(labels, cfg.Labels.Weapons)
	analysis.MinorsRisk = MinorsRisk{
		Detected:   hasLabel(labels, cfg.Labels.Minors),
		Confidence: labelConfidence(labels, cfg.Labels.Minors) / 100,
	}

	return analysis
}

// hasLabel reports whether any returned label matches one of the names
func hasLabel(labels []Label, names []string) bool {
	for _, l := range labels {
		for _, name := range names {
			if l.Name == name {
				return true
			}
		}
	}
	return false
}

// labelConfidence returns the confidence of the first label matching one of
// the names, on the classifier's 0-100 scale. Zero when absent.
func labelConfidence(labels []Label, names []string) float64 {
	for _, l := range labels {
		for _, name := range names {
			if l.Name == name {
				return l.Confidence
			}
		}
	}
	return 0
}
