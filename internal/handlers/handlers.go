// Package handlers implements the HTTP API for the moderation engine.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"closetguard/internal/moderation"
)

// Handler holds the dependencies for all HTTP handlers.
type Handler struct {
	engine *moderation.Engine
	store  moderation.AuditStore
	config *moderation.FileConfig
}

// NewHandler creates a handler with all dependencies via constructor injection.
func NewHandler(engine *moderation.Engine, store moderation.AuditStore, config *moderation.FileConfig) *Handler {
	return &Handler{
		engine: engine,
		store:  store,
		config: config,
	}
}

// errorResponse is the JSON error body shared by all endpoints.
type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, errorResponse{Error: message})
}

// HandleHealthz reports liveness.
func (h *Handler) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
