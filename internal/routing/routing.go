package routing

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"closetguard/internal/handlers"
	"closetguard/internal/middleware"
)

// Config holds the configuration needed for setting up routes
type Config struct {
	Handlers *handlers.Handler
	Logger   zerolog.Logger
}

// SetupRouter creates and configures the HTTP router with all routes and middleware
func SetupRouter(cfg Config) http.Handler {
	h := cfg.Handlers
	mux := http.NewServeMux()

	// Moderation pipeline
	mux.HandleFunc("POST /api/moderate", h.HandleModerate)

	// Audit and repeat-offender views
	mux.HandleFunc("GET /api/audit", h.HandleAuditLog)
	mux.HandleFunc("GET /api/offenders/{user}", h.HandleOffenderStatus)

	// Threshold configuration
	mux.HandleFunc("GET /api/config", h.HandleConfig)
	mux.HandleFunc("POST /api/config/reload", h.HandleConfigReload)

	// Operational endpoints
	mux.HandleFunc("GET /api/stats", h.HandleStats)
	mux.HandleFunc("GET /healthz", h.HandleHealthz)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Apply middleware in order (outermost first, innermost last)
	var handler http.Handler = mux

	// 1. Trace every request
	handler = otelhttp.NewHandler(handler, "http.server")

	// 2. Logging middleware (outermost - wraps everything)
	handler = middleware.LoggingMiddleware(cfg.Logger)(handler)

	return handler
}
