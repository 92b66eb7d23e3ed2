package moderation_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"closetguard/internal/database/memstore"
	"closetguard/internal/moderation"
)

func newTracker(store moderation.AuditStore) *moderation.RepeatOffenderTracker {
	return moderation.NewRepeatOffenderTracker(store, moderation.Static(moderation.DefaultConfig()))
}

func appendDecision(t *testing.T, store *memstore.AuditStore, userID string, status moderation.Status, at time.Time) {
	t.Helper()
	require.NoError(t, store.Append(context.Background(), moderation.Decision{
		ItemID:      "item",
		UserID:      userID,
		Status:      status,
		SubmittedAt: at,
	}))
}

func TestOffenderStatus_CountsOnlyRejections(t *testing.T) {
	store := memstore.New()
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	appendDecision(t, store, "u1", moderation.StatusApproved, base)
	appendDecision(t, store, "u1", moderation.StatusRejected, base.Add(1*time.Minute))
	appendDecision(t, store, "u1", moderation.StatusPendingHumanReview, base.Add(2*time.Minute))
	appendDecision(t, store, "u1", moderation.StatusRejected, base.Add(3*time.Minute))
	appendDecision(t, store, "u2", moderation.StatusRejected, base.Add(4*time.Minute))

	status, err := newTracker(store).Status(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", status.UserID)
	assert.Equal(t, 2, status.StrikeCount)
	assert.False(t, status.RequiresManualReview)
	require.NotNil(t, status.LastStrikeAt)
	// Newest rejection first
	assert.Equal(t, base.Add(3*time.Minute), *status.LastStrikeAt)
	require.Len(t, status.Strikes, 2)
	assert.Equal(t, base.Add(3*time.Minute), status.Strikes[0].SubmittedAt)
}

func TestOffenderStatus_ThresholdTriggersReview(t *testing.T) {
	store := memstore.New()
	base := time.Now()
	for i := 0; i < 3; i++ {
		appendDecision(t, store, "u1", moderation.StatusRejected, base.Add(time.Duration(i)*time.Minute))
	}

	status, err := newTracker(store).Status(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, status.StrikeCount)
	assert.True(t, status.RequiresManualReview)
}

func TestOffenderStatus_WindowLimitsLookback(t *testing.T) {
	store := memstore.New()
	base := time.Now()

	// An old rejection pushed out of the ten-record window by newer activity
	appendDecision(t, store, "u1", moderation.StatusRejected, base)
	for i := 0; i < 10; i++ {
		appendDecision(t, store, "u1", moderation.StatusApproved, base.Add(time.Duration(i+1)*time.Minute))
	}

	status, err := newTracker(store).Status(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, status.StrikeCount)
	assert.Nil(t, status.LastStrikeAt)
	assert.Empty(t, status.Strikes)
}

func TestOffenderStatus_StrikeListIsCapped(t *testing.T) {
	store := memstore.New()
	base := time.Now()
	for i := 0; i < 8; i++ {
		appendDecision(t, store, "u1", moderation.StatusRejected, base.Add(time.Duration(i)*time.Minute))
	}

	status, err := newTracker(store).Status(context.Background(), "u1")
	require.NoError(t, err)
	// All strikes inside the window count, but only five are returned
	assert.Equal(t, 8, status.StrikeCount)
	assert.Len(t, status.Strikes, 5)
	assert.True(t, status.RequiresManualReview)
}

func TestOffenderStatus_StoreFailureDegrades(t *testing.T) {
	store := memstore.New()
	store.QueryErr = errors.New("store offline")

	status, err := newTracker(store).Status(context.Background(), "u1")
	require.Error(t, err)
	assert.Equal(t, "u1", status.UserID)
	assert.Equal(t, 0, status.StrikeCount)
	assert.False(t, status.RequiresManualReview)
}

func TestOffenderStatus_UnknownUser(t *testing.T) {
	status, err := newTracker(memstore.New()).Status(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Equal(t, 0, status.StrikeCount)
	assert.False(t, status.RequiresManualReview)
	assert.Nil(t, status.LastStrikeAt)
}
