package handlers

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/rs/zerolog/log"

	"closetguard/internal/metrics"
	"closetguard/internal/moderation"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 200
)

// HandleAuditLog handles GET /api/audit. Returns the most recent decisions
// across all users, newest first.
func (h *Handler) HandleAuditLog(w http.ResponseWriter, r *http.Request) {
	limit := defaultAuditLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}
	if limit > maxAuditLimit {
		limit = maxAuditLimit
	}

	decisions, err := h.store.ListRecent(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("failed to list audit log")
		writeError(w, "Failed to list audit log", http.StatusInternalServerError)
		return
	}
	if decisions == nil {
		decisions = []moderation.Decision{}
	}

	writeJSON(w, http.StatusOK, decisions)
}

// HandleOffenderStatus handles GET /api/offenders/{user}. Returns the
// derived repeat-offender projection for a user.
func (h *Handler) HandleOffenderStatus(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("user")
	if userID == "" {
		writeError(w, "user is required", http.StatusBadRequest)
		return
	}

	status, err := h.engine.OffenderStatus(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user", userID).Msg("failed to compute offender status")
		writeError(w, "Failed to compute offender status", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, status)
}

// HandleConfig handles GET /api/config. Returns the current configuration
// snapshot the engine is deciding with.
func (h *Handler) HandleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.config.Current())
}

// HandleConfigReload handles POST /api/config/reload. A failed reload keeps
// the previous snapshot in effect and reports the error.
func (h *Handler) HandleConfigReload(w http.ResponseWriter, r *http.Request) {
	if err := h.config.Reload(); err != nil {
		log.Error().Err(err).Msg("config reload failed")
		writeError(w, "Reload failed: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	log.Info().Msg("moderation config reloaded")
	writeJSON(w, http.StatusOK, h.config.Current())
}

// ModerationStats summarizes decision counters for the admin dashboard.
type ModerationStats struct {
	Approved          float64 `json:"approved"`
	PendingReview     float64 `json:"pending_review"`
	Rejected          float64 `json:"rejected"`
	ShadowEscalations float64 `json:"shadow_escalations"`
	RepeatHolds       float64 `json:"repeat_offender_holds"`
	ClassifierErrors  float64 `json:"classifier_errors"`
}

// HandleStats handles GET /api/stats. Reads the live Prometheus counters so
// the numbers always match what /metrics reports.
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats := ModerationStats{
		Approved:          getCounterValue(metrics.DecisionsTotal.WithLabelValues(string(moderation.StatusApproved))),
		PendingReview:     getCounterValue(metrics.DecisionsTotal.WithLabelValues(string(moderation.StatusPendingHumanReview))),
		Rejected:          getCounterValue(metrics.DecisionsTotal.WithLabelValues(string(moderation.StatusRejected))),
		ShadowEscalations: getCounterValue(metrics.ShadowModerationTotal),
		RepeatHolds:       getCounterValue(metrics.RepeatOffenderHoldsTotal),
		ClassifierErrors:  getCounterValue(metrics.ClassifierErrorsTotal),
	}

	writeJSON(w, http.StatusOK, stats)
}

// getCounterValue reads the current value of a prometheus.Counter.
func getCounterValue(c prometheus.Counter) float64 {
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		return 0
	}
	if m.Counter != nil {
		return m.GetCounter().GetValue()
	}
	return 0
}
