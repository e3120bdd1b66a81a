package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"media-reseller-go/internal/models"
)

// Pinger checks a backing service
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health and readiness checks
type HealthHandler struct {
	responder
	redis   Pinger
	version string
}

// NewHealthHandler creates a new health handler. redis is nil when the
// in-memory limiter is in use.
func NewHealthHandler(redis Pinger, version string, logger *zap.Logger) *HealthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HealthHandler{
		redis:     redis,
		version:   version,
		responder: responder{logger: logger},
	}
}

// HandleHealth handles GET /api/v1/health (liveness probe).
// Always 200 while the process is up.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.respondWithJSON(w, http.StatusOK, models.HealthResponse{
		Status:  "ok",
		Version: h.version,
	})
}

// HandleReady handles GET /api/v1/ready (readiness probe)
func (h *HealthHandler) HandleReady(w http.ResponseWriter, r *http.Request) {
	if h.redis != nil {
		if err := h.redis.Ping(r.Context()); err != nil {
			h.logger.Error("readiness check failed: redis unavailable", zap.Error(err))
			h.respondWithError(w, http.StatusServiceUnavailable, "service unavailable")
			return
		}
	}

	h.respondWithJSON(w, http.StatusOK, models.HealthResponse{
		Status:  "ready",
		Version: h.version,
	})
}
