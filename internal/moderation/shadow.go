package moderation

// ShadowModerationReason is recorded on forced minors-safety escalations
const ShadowModerationReason = "minors_sexual_content"

// DetectShadowModeration checks an image analysis for the minors plus
// sexual-content combination that forces escalation past every other rule.
// Pure function; returns nil when image analysis did not run, the feature
// is disabled, or the combination is absent.
func DetectShadowModeration(image *ImageAnalysis, t Thresholds) *ShadowModeration {
	if image == nil || !t.MinorsShadowModerationEnabled {
		return nil
	}

	sexual := image.HasExplicitContent || image.HasSuggestiveContent
	if !image.MinorsRisk.Detected || !sexual {
		return nil
	}

	return &ShadowModeration{
		Flagged:   true,
		Reason:    ShadowModerationReason,
		Escalated: true,
	}
}
