package moderation

import "time"

// Status represents the terminal verdict for a moderated content item
type Status string

const (
	StatusApproved           Status = "APPROVED"
	StatusPendingHumanReview Status = "PENDING_HUMAN_REVIEW"
	StatusRejected           Status = "REJECTED"
)

// ContentItem is a user submission awaiting a moderation verdict.
// Any combination of text, image reference, tags and description may be
// present, but at least one of them must be.
type ContentItem struct {
	ItemID      string   `json:"item_id"`
	UserID      string   `json:"user_id"`
	Text        string   `json:"text,omitempty"`
	ImageKey    string   `json:"image_key,omitempty"` // object-store key of the uploaded image
	Tags        []string `json:"tags,omitempty"`
	Description string   `json:"description,omitempty"`
}

// HasContent reports whether the item carries anything to moderate
func (c ContentItem) HasContent() bool {
	return c.Text != "" || c.ImageKey != "" || len(c.Tags) > 0 || c.Description != ""
}

// TextAnalysis is the profanity and spam scoring result for a text blob
type TextAnalysis struct {
	HasProfanity     bool     `json:"has_profanity"`
	ProfanityMatches []string `json:"profanity_matches,omitempty"`
	SpamScore        int      `json:"spam_score"` // 0-100
	CharacterCount   int      `json:"character_count"`
	Valid            bool     `json:"valid"`
}

// Label is a single classifier result. Confidence is on the classifier's
// native 0-100 scale; normalization to 0-1 happens during image analysis.
type Label struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// MinorsRisk captures whether a minors-class label was detected and at what
// confidence (normalized to 0-1).
type MinorsRisk struct {
	Detected   bool    `json:"detected"`
	Confidence float64 `json:"confidence"`
}

// ImageAnalysis is the normalized classifier output for an image.
// Valid=false is the fail-safe state after a classifier error: all flags
// false, zero confidence, TopLabel "ERROR". The engine treats it as
// insufficient evidence, never as a clean result.
type ImageAnalysis struct {
	Labels               []Label    `json:"labels,omitempty"`
	TopLabel             string     `json:"top_label"`
	TopConfidence        float64    `json:"top_confidence"` // 0-1
	HasExplicitContent   bool       `json:"has_explicit_content"`
	HasSuggestiveContent bool       `json:"has_suggestive_content"`
	HasWeapons           bool       `json:"has_weapons"`
	MinorsRisk           MinorsRisk `json:"minors_risk"`
	Valid                bool       `json:"valid"`
}

// MetadataAnalysis is the tag and description validation result
type MetadataAnalysis struct {
	TagsValid            bool     `json:"tags_valid"`
	InvalidTags          []string `json:"invalid_tags,omitempty"`
	DescriptionValid     bool     `json:"description_valid"`
	DescriptionLength    int      `json:"description_length"`
	BrandSafetyCompliant bool     `json:"brand_safety_compliant"`
	Valid                bool     `json:"valid"`
}

// RepeatOffender summarizes the submitting user's recent rejection history
type RepeatOffender struct {
	IsRepeatOffender     bool `json:"is_repeat_offender"`
	StrikeCount          int  `json:"strike_count"`
	RequiresManualReview bool `json:"requires_manual_review"`
}

// ShadowModeration flags the minors plus sexual-content escalation path
type ShadowModeration struct {
	Flagged   bool   `json:"flagged"`
	Reason    string `json:"reason,omitempty"`
	Escalated bool   `json:"escalated"`
}

// Analysis is the merged per-request view of every signal. It is built
// fresh for each submission and snapshotted into the decision; it is never
// persisted on its own.
type Analysis struct {
	Text             *TextAnalysis     `json:"text,omitempty"`
	Image            *ImageAnalysis    `json:"image,omitempty"`
	Metadata         *MetadataAnalysis `json:"metadata,omitempty"`
	RepeatOffender   RepeatOffender    `json:"repeat_offender"`
	ShadowModeration *ShadowModeration `json:"shadow_moderation,omitempty"`

	// OverallConfidence is derived from exactly one dominant signal:
	// the image result if image analysis ran, else the text result,
	// else zero. Metadata never contributes to the score.
	OverallConfidence float64 `json:"overall_confidence"`
}

// Decision is the persisted moderation verdict. Records are immutable once
// written; strike counting derives entirely from the stored history.
type Decision struct {
	ItemID      string    `json:"item_id"`
	UserID      string    `json:"user_id"`
	Status      Status    `json:"status"`
	Confidence  float64   `json:"confidence"`
	Reason      string    `json:"reason"`
	Analysis    Analysis  `json:"analysis"`
	SubmittedAt time.Time `json:"submitted_at"`
	ReviewedAt  time.Time `json:"reviewed_at"`
	Appealable  bool      `json:"appealable"`

	// Warnings flags degraded-mode conditions (unavailable history,
	// failed audit writes). Transient, not part of the stored record.
	Warnings []string `json:"warnings,omitempty"`
}

// Degraded-mode warning flags surfaced on decisions
const (
	WarningOffenderHistoryUnavailable = "repeat_offender_history_unavailable"
	WarningAuditWriteFailed           = "audit_write_failed"
)

// RepeatOffenderStatus is the read-only projection of a user's strike
// history, recomputed from the audit store on every call.
type RepeatOffenderStatus struct {
	UserID               string     `json:"user_id"`
	StrikeCount          int        `json:"strike_count"`
	LastStrikeAt         *time.Time `json:"last_strike_at,omitempty"`
	RequiresManualReview bool       `json:"requires_manual_review"`
	Strikes              []Decision `json:"strikes,omitempty"` // most recent rejections, capped for display
}
