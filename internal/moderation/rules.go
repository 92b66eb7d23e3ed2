package moderation

// Reason strings surfaced to submitters
const (
	reasonShadowModeration = "Content violates minors safety policy"
	reasonRepeatOffender   = "Account under review due to repeat violations"
	reasonAutoReject       = "Content violates community guidelines"
	reasonHumanReview      = "Content flagged for human review"
	reasonAutoApprove      = "Content passed moderation checks"
	reasonBorderline       = "Content requires human review"
)

// decisionRule inspects a completed analysis and either claims the verdict
// or passes. Rule order is the safety contract: shadow moderation outranks
// repeat-offender holds, which outrank the confidence tiers. The first rule
// to claim wins; the threshold rule always claims.
type decisionRule func(a Analysis, t Thresholds) (Decision, bool)

func decisionRules() []decisionRule {
	return []decisionRule{
		shadowModerationRule,
		repeatOffenderRule,
		thresholdRule,
	}
}

// shadowModerationRule forces rejection without appeal when the minors
// safety escalation fired, bypassing thresholds and repeat-offender state.
func shadowModerationRule(a Analysis, _ Thresholds) (Decision, bool) {
	if a.ShadowModeration == nil || !a.ShadowModeration.Flagged {
		return Decision{}, false
	}
	return Decision{
		Status:     StatusRejected,
		Confidence: 1.0,
		Reason:     reasonShadowModeration,
		Appealable: false,
	}, true
}

// repeatOffenderRule holds everything from a user over the strike threshold
// for human review, regardless of the current item's own confidence.
func repeatOffenderRule(a Analysis, _ Thresholds) (Decision, bool) {
	if !a.RepeatOffender.RequiresManualReview {
		return Decision{}, false
	}
	return Decision{
		Status:     StatusPendingHumanReview,
		Confidence: a.OverallConfidence,
		Reason:     reasonRepeatOffender,
		Appealable: true,
	}, true
}

// thresholdRule applies the confidence tiers. The reject and review bounds
// are inclusive; the approve bound is strict, so a score exactly at the
// auto-approve cutoff falls through to borderline review.
func thresholdRule(a Analysis, t Thresholds) (Decision, bool) {
	d := Decision{Confidence: a.OverallConfidence, Appealable: true}
	switch {
	case a.OverallConfidence >= t.AutoRejectThreshold:
		d.Status = StatusRejected
		d.Reason = reasonAutoReject
	case a.OverallConfidence >= t.HumanReviewThreshold:
		d.Status = StatusPendingHumanReview
		d.Reason = reasonHumanReview
	case a.OverallConfidence < t.AutoApproveThreshold:
		d.Status = StatusApproved
		d.Reason = reasonAutoApprove
	default:
		d.Status = StatusPendingHumanReview
		d.Reason = reasonBorderline
	}
	return d, true
}
