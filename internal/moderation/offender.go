package moderation

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// offenderHistoryWindow is how many recent audit records are scanned per lookup
const offenderHistoryWindow = 10

// maxRecordedStrikes caps the strike records returned for audit display
const maxRecordedStrikes = 5

// RepeatOffenderTracker derives strike counts from the audit history.
// Nothing is ever incremented: the history is the count, and strikes
// accumulate only as REJECTED decisions are appended to the store.
type RepeatOffenderTracker struct {
	store  AuditStore
	config ConfigSource
}

// NewRepeatOffenderTracker creates a tracker over the given audit store
func NewRepeatOffenderTracker(store AuditStore, config ConfigSource) *RepeatOffenderTracker {
	return &RepeatOffenderTracker{store: store, config: config}
}

// Status recomputes the repeat-offender projection for a user. A store read
// failure degrades to zero strikes so history unavailability cannot block
// decisions; the error is returned alongside the zero status so callers can
// flag the degraded mode on the resulting decision.
func (t *RepeatOffenderTracker) Status(ctx context.Context, userID string) (RepeatOffenderStatus, error) {
	threshold := t.config.Current().Thresholds.RepeatOffenderStrikeThreshold

	recent, err := t.store.QueryRecent(ctx, userID, offenderHistoryWindow)
	if err != nil {
		log.Error().Err(err).Str("user", userID).Msg("moderation: repeat offender history unavailable")
		return RepeatOffenderStatus{UserID: userID}, fmt.Errorf("query audit history: %w", err)
	}

	var strikes []Decision
	for _, d := range recent {
		if d.Status == StatusRejected {
			strikes = append(strikes, d)
		}
	}

	status := RepeatOffenderStatus{
		UserID:               userID,
		StrikeCount:          len(strikes),
		RequiresManualReview: len(strikes) >= threshold,
	}
	if len(strikes) > 0 {
		last := strikes[0].SubmittedAt
		status.LastStrikeAt = &last
	}
	if len(strikes) > maxRecordedStrikes {
		strikes = strikes[:maxRecordedStrikes]
	}
	status.Strikes = strikes

	return status, nil
}
