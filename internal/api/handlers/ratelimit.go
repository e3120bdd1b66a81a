package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"media-reseller-go/internal/ratelimit"
)

// RateLimitHandler exposes limiter statistics
type RateLimitHandler struct {
	responder
	limiter ratelimit.Interface
}

// NewRateLimitHandler creates a new rate limit stats handler
func NewRateLimitHandler(limiter ratelimit.Interface, logger *zap.Logger) *RateLimitHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RateLimitHandler{
		limiter:   limiter,
		responder: responder{logger: logger},
	}
}

// Handle handles GET /api/v1/ratelimit/{endpoint}
func (h *RateLimitHandler) Handle(w http.ResponseWriter, r *http.Request) {
	endpointID := chi.URLParam(r, "endpoint")
	if endpointID == "" {
		h.respondWithError(w, http.StatusBadRequest, "endpoint is required")
		return
	}

	stats, err := h.limiter.Stats(r.Context(), endpointID)
	if err != nil {
		h.logger.Error("failed to read rate limit stats",
			zap.Error(err),
			zap.String("endpoint", endpointID),
		)
		h.respondWithError(w, http.StatusServiceUnavailable, "rate limiter unavailable")
		return
	}

	h.respondWithJSON(w, http.StatusOK, stats)
}
