package routing

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"closetguard/internal/classifier"
	"closetguard/internal/database/memstore"
	"closetguard/internal/handlers"
	"closetguard/internal/moderation"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	store := memstore.New()
	config, err := moderation.NewFileConfig("")
	require.NoError(t, err)
	engine := moderation.NewEngine(classifier.Disabled{}, store, config)

	return SetupRouter(Config{
		Handlers: handlers.NewHandler(engine, store, config),
		Logger:   zerolog.Nop(),
	})
}

func TestRouter_Moderate(t *testing.T) {
	router := newTestRouter(t)

	body, err := json.Marshal(handlers.ModerateRequest{
		ItemID: "item-1",
		UserID: "user-1",
		Text:   "a nice scarf",
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/moderate", bytes.NewReader(body)))

	require.Equal(t, http.StatusOK, w.Code)
	var d moderation.Decision
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &d))
	assert.Equal(t, moderation.StatusApproved, d.Status)
}

func TestRouter_OffenderPathValue(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/offenders/user-42", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var status moderation.RepeatOffenderStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, "user-42", status.UserID)
}

func TestRouter_Routes(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/healthz", http.StatusOK},
		{http.MethodGet, "/api/audit", http.StatusOK},
		{http.MethodGet, "/api/config", http.StatusOK},
		{http.MethodGet, "/api/stats", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/api/moderate", http.StatusMethodNotAllowed},
		{http.MethodGet, "/nope", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
