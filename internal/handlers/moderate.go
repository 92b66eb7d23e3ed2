package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"closetguard/internal/moderation"
)

// ModerateRequest is the JSON body for content submissions.
type ModerateRequest struct {
	ItemID      string   `json:"item_id"`
	UserID      string   `json:"user_id"`
	Text        string   `json:"text,omitempty"`
	ImageKey    string   `json:"image_key,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Description string   `json:"description,omitempty"`
}

// HandleModerate handles POST /api/moderate. It validates the submission,
// runs the full analysis and decision pipeline, and returns the persisted
// decision. Partial analyzer failures never fail the request; they surface
// as warnings on the decision.
func (h *Handler) HandleModerate(w http.ResponseWriter, r *http.Request) {
	var req ModerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if req.ItemID == "" {
		writeError(w, "item_id is required", http.StatusBadRequest)
		return
	}
	if req.UserID == "" {
		writeError(w, "user_id is required", http.StatusBadRequest)
		return
	}

	item := moderation.ContentItem{
		ItemID:      req.ItemID,
		UserID:      req.UserID,
		Text:        req.Text,
		ImageKey:    req.ImageKey,
		Tags:        req.Tags,
		Description: req.Description,
	}

	decision, err := h.engine.Moderate(r.Context(), item)
	if err != nil {
		if errors.Is(err, moderation.ErrNoContent) {
			writeError(w, "Submission has no content to moderate", http.StatusBadRequest)
			return
		}
		log.Error().Err(err).Str("item", req.ItemID).Msg("moderation request failed")
		writeError(w, "Failed to moderate content", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, decision)
}
