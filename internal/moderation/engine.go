package moderation

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"closetguard/internal/metrics"
	"closetguard/internal/tracing"
)

// ErrNoContent is returned when a submission carries nothing to moderate.
// This is a caller contract violation, not a moderatable state.
var ErrNoContent = errors.New("content item has no text, image, tags or description")

// Engine merges analyzer signals into a single analysis and applies the
// decision policy. It depends only on the ImageClassifier, AuditStore and
// ConfigSource interfaces; collaborators are injected at construction.
type Engine struct {
	classifier ImageClassifier
	store      AuditStore
	config     ConfigSource
	offenders  *RepeatOffenderTracker

	// userLocks serializes decision-making per user so two concurrent
	// submissions cannot both read a strike count one below the threshold
	// before either has appended its own record.
	mu        sync.Mutex
	userLocks map[string]*sync.Mutex
}

// NewEngine creates a moderation engine
func NewEngine(classifier ImageClassifier, store AuditStore, config ConfigSource) *Engine {
	return &Engine{
		classifier: classifier,
		store:      store,
		config:     config,
		offenders:  NewRepeatOffenderTracker(store, config),
		userLocks:  make(map[string]*sync.Mutex),
	}
}

func (e *Engine) userLock(userID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()

	lock, ok := e.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		e.userLocks[userID] = lock
	}
	return lock
}

// Analyze runs the content analyzers and the repeat-offender lookup and
// merges their outputs. The analyzers share no state and run concurrently.
// The returned warnings flag degraded signals (currently only unavailable
// offender history) and belong on the eventual decision.
func (e *Engine) Analyze(ctx context.Context, item ContentItem) (Analysis, []string, error) {
	if !item.HasContent() {
		return Analysis{}, nil, ErrNoContent
	}

	cfg := e.config.Current()

	ctx, span := tracing.AnalysisSpan(ctx, item.ItemID, item.UserID)
	defer span.End()

	var (
		text        *TextAnalysis
		image       *ImageAnalysis
		metadata    *MetadataAnalysis
		offender    RepeatOffenderStatus
		offenderErr error
	)

	g, gCtx := errgroup.WithContext(ctx)

	if item.Text != "" {
		g.Go(func() error {
			t := AnalyzeText(item.Text, cfg.ProfanityList)
			text = &t
			return nil
		})
	}

	if item.ImageKey != "" {
		g.Go(func() error {
			img := AnalyzeImage(gCtx, e.classifier, item.ImageKey, cfg)
			image = &img
			return nil
		})
	}

	if len(item.Tags) > 0 || item.Description != "" {
		g.Go(func() error {
			m := AnalyzeMetadata(item.Tags, item.Description, cfg.RestrictedTags)
			metadata = &m
			return nil
		})
	}

	g.Go(func() error {
		offender, offenderErr = e.offenders.Status(gCtx, item.UserID)
		// Unavailable history degrades to zero strikes, never fails analysis
		return nil
	})

	// Analyzer failures degrade in place; no goroutine returns an error
	_ = g.Wait()

	analysis := Analysis{
		Text:     text,
		Image:    image,
		Metadata: metadata,
		RepeatOffender: RepeatOffender{
			IsRepeatOffender:     offender.StrikeCount >= cfg.Thresholds.RepeatOffenderStrikeThreshold,
			StrikeCount:          offender.StrikeCount,
			RequiresManualReview: offender.RequiresManualReview,
		},
	}

	analysis.ShadowModeration = DetectShadowModeration(image, cfg.Thresholds)

	// Single-signal confidence: image dominates, then text, else zero
	switch {
	case image != nil:
		analysis.OverallConfidence = image.TopConfidence
	case text != nil:
		if text.HasProfanity {
			analysis.OverallConfidence = 0.95
		} else {
			analysis.OverallConfidence = 0.30
		}
	}

	var warnings []string
	if offenderErr != nil {
		warnings = append(warnings, WarningOffenderHistoryUnavailable)
	}

	return analysis, warnings, nil
}

// Decide applies the ordered decision rules to a completed analysis.
// It never persists anything; callers that need strike accounting use
// Moderate instead.
func (e *Engine) Decide(item ContentItem, analysis Analysis) Decision {
	return decide(item, analysis, e.config.Current().Thresholds, time.Now())
}

func decide(item ContentItem, analysis Analysis, t Thresholds, now time.Time) Decision {
	for _, rule := range decisionRules() {
		d, ok := rule(analysis, t)
		if !ok {
			continue
		}
		d.ItemID = item.ItemID
		d.UserID = item.UserID
		d.Analysis = analysis
		d.SubmittedAt = now
		d.ReviewedAt = now
		return d
	}

	// Unreachable: the threshold rule always claims
	return Decision{}
}

// Moderate runs the full pipeline: validate, analyze, decide, persist.
// The decision is returned even when the audit append fails; the failure is
// logged and surfaced as a warning, since an unpersisted rejection breaks
// future strike counting and must not pass silently.
func (e *Engine) Moderate(ctx context.Context, item ContentItem) (Decision, error) {
	if !item.HasContent() {
		return Decision{}, ErrNoContent
	}

	lock := e.userLock(item.UserID)
	lock.Lock()
	defer lock.Unlock()

	analysis, warnings, err := e.Analyze(ctx, item)
	if err != nil {
		return Decision{}, err
	}

	decision := e.Decide(item, analysis)
	decision.Warnings = warnings

	// Appending a REJECTED decision is what records the strike; there is
	// no separately incremented counter.
	if err := e.store.Append(ctx, decision); err != nil {
		metrics.AuditWriteFailuresTotal.Inc()
		log.Error().Err(err).
			Str("item", item.ItemID).
			Str("user", item.UserID).
			Msg("moderation: failed to persist decision")
		decision.Warnings = append(decision.Warnings, WarningAuditWriteFailed)
	}

	metrics.DecisionsTotal.WithLabelValues(string(decision.Status)).Inc()
	if decision.Analysis.ShadowModeration != nil && decision.Analysis.ShadowModeration.Flagged {
		metrics.ShadowModerationTotal.Inc()
	}
	if decision.Reason == reasonRepeatOffender {
		metrics.RepeatOffenderHoldsTotal.Inc()
	}

	log.Info().
		Str("item", item.ItemID).
		Str("user", item.UserID).
		Str("status", string(decision.Status)).
		Float64("confidence", decision.Confidence).
		Str("reason", decision.Reason).
		Msg("moderation: decision made")

	return decision, nil
}

// OffenderStatus exposes the repeat-offender projection for a user
func (e *Engine) OffenderStatus(ctx context.Context, userID string) (RepeatOffenderStatus, error) {
	return e.offenders.Status(ctx, userID)
}
