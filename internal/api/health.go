package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

const defaultHealthCheckTimeout = 5 * time.Second

// Pinger verifies connectivity to the session database.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Capabilities reports which optional dependencies loaded at startup.
type Capabilities interface {
	DataLoaded() bool
	AIEnabled() bool
	Customers() int
}

// HealthHandler handles health and capability endpoints.
type HealthHandler struct {
	db      Pinger
	caps    Capabilities
	timeout time.Duration
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(db Pinger, caps Capabilities) *HealthHandler {
	return &HealthHandler{db: db, caps: caps, timeout: defaultHealthCheckTimeout}
}

// Health returns the health status of the API and its dependencies. Only an
// unreachable database makes the service unhealthy: a missing dataset or
// model is reported but still serves conversational error replies.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	checks := map[string]string{"api": "ok"}
	status := map[string]interface{}{
		"status": "healthy",
		"checks": checks,
	}
	statusCode := http.StatusOK

	if err := h.db.Ping(ctx); err != nil {
		slog.Error("Health check failed", "error", err)
		status["status"] = "unhealthy"
		checks["database"] = "unreachable"
		statusCode = http.StatusServiceUnavailable
	} else {
		checks["database"] = "ok"
	}

	checks["directory"] = "ok"
	if !h.caps.DataLoaded() {
		checks["directory"] = "not_loaded"
		if statusCode == http.StatusOK {
			status["status"] = "degraded"
		}
	}
	checks["llm"] = "ok"
	if !h.caps.AIEnabled() {
		checks["llm"] = "disabled"
		if statusCode == http.StatusOK {
			status["status"] = "degraded"
		}
	}

	JSON(w, statusCode, status)
}

// Config reports the feature flags the UI needs.
func (h *HealthHandler) Config(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]interface{}{
		"ai_enabled":  h.caps.AIEnabled(),
		"data_loaded": h.caps.DataLoaded(),
		"customers":   h.caps.Customers(),
	})
}

// RegisterRoutes registers the health and config routes.
func (h *HealthHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Get("/config", h.Config)
	})
}
