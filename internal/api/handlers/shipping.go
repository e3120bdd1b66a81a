package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"media-reseller-go/internal/models"
	"media-reseller-go/internal/shipping"
)

// ShippingHandler serves shipping quotes and estimates
type ShippingHandler struct {
	responder
	calc *shipping.Calculator
}

// NewShippingHandler creates a new shipping handler
func NewShippingHandler(calc *shipping.Calculator, logger *zap.Logger) *ShippingHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShippingHandler{
		calc:      calc,
		responder: responder{logger: logger},
	}
}

// HandleQuote handles POST /api/v1/shipping/quote
func (h *ShippingHandler) HandleQuote(w http.ResponseWriter, r *http.Request) {
	var req models.ShippingQuoteRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.Warn("failed to decode shipping quote request", zap.Error(err))
		h.respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.WeightOz < 0 {
		h.respondWithError(w, http.StatusBadRequest, "weight_oz cannot be negative")
		return
	}

	method, err := shipping.ParseMethod(req.Method)
	if err != nil {
		h.respondWithDomainError(w, err, "quote failed")
		return
	}

	quote, err := h.calc.Quote(method, req.WeightOz)
	if err != nil {
		h.logger.Error("shipping quote failed", zap.Error(err), zap.String("method", string(method)))
		h.respondWithDomainError(w, err, "quote failed")
		return
	}

	h.respondWithJSON(w, http.StatusOK, quote)
}

// HandleEstimate handles GET /api/v1/shipping/estimate?media_type=&weight_oz=
func (h *ShippingHandler) HandleEstimate(w http.ResponseWriter, r *http.Request) {
	mediaType := r.URL.Query().Get("media_type")

	var weight float64
	if raw := r.URL.Query().Get("weight_oz"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed < 0 {
			h.respondWithError(w, http.StatusBadRequest, "weight_oz must be a non-negative number")
			return
		}
		weight = parsed
	}

	estimate, err := h.calc.EstimateForMediaType(mediaType, weight)
	if err != nil {
		h.logger.Error("shipping estimate failed", zap.Error(err), zap.String("media_type", mediaType))
		h.respondWithDomainError(w, err, "estimate failed")
		return
	}

	h.respondWithJSON(w, http.StatusOK, estimate)
}

// HandleBulk handles POST /api/v1/shipping/bulk
func (h *ShippingHandler) HandleBulk(w http.ResponseWriter, r *http.Request) {
	var req models.BulkShippingRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.Warn("failed to decode bulk shipping request", zap.Error(err))
		h.respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	items := make([]shipping.BulkItem, len(req.Items))
	for i, item := range req.Items {
		if item.WeightOz != nil && *item.WeightOz < 0 {
			h.respondWithError(w, http.StatusBadRequest, "weight_oz cannot be negative")
			return
		}
		items[i] = item
		if item.Method != "" {
			method, err := shipping.ParseMethod(string(item.Method))
			if err != nil {
				h.respondWithDomainError(w, err, "bulk estimate failed")
				return
			}
			items[i].Method = method
		}
	}

	estimate, err := h.calc.BulkEstimate(items)
	if err != nil {
		h.respondWithDomainError(w, err, "bulk estimate failed")
		return
	}

	h.logger.Debug("bulk shipping estimate",
		zap.Int("count", estimate.Count),
		zap.String("total_cost", estimate.TotalCost.StringFixed(2)),
	)
	h.respondWithJSON(w, http.StatusOK, estimate)
}
