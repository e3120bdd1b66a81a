package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"media-reseller-go/internal/domain"
	"media-reseller-go/internal/models"
	"media-reseller-go/internal/pricing"
)

// PricingHandler serves list price and pricing matrix requests
type PricingHandler struct {
	responder
	engine *pricing.Engine
}

// NewPricingHandler creates a new pricing handler
func NewPricingHandler(engine *pricing.Engine, logger *zap.Logger) *PricingHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PricingHandler{
		engine:    engine,
		responder: responder{logger: logger},
	}
}

// Handle handles POST /api/v1/price
func (h *PricingHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.PriceRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.Warn("failed to decode price request", zap.Error(err))
		h.respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in, err := h.buildInput(req)
	if err != nil {
		h.respondWithDomainError(w, err, "pricing failed")
		return
	}

	result, err := h.engine.Price(in)
	if err != nil {
		h.logger.Warn("pricing rejected", zap.Error(err))
		h.respondWithDomainError(w, err, "pricing failed")
		return
	}

	h.respondWithJSON(w, http.StatusOK, models.PriceResponse{
		MediaCategory: in.Category,
		Condition:     in.Condition,
		Result:        result,
	})
}

// HandleMatrix handles POST /api/v1/price/matrix
func (h *PricingHandler) HandleMatrix(w http.ResponseWriter, r *http.Request) {
	var req models.MatrixRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.Warn("failed to decode matrix request", zap.Error(err))
		h.respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in, err := h.buildInput(req.PriceRequest)
	if err != nil {
		h.respondWithDomainError(w, err, "pricing failed")
		return
	}

	matrix, err := h.engine.Matrix(in, req.Markups...)
	if err != nil {
		h.logger.Warn("pricing matrix rejected", zap.Error(err))
		h.respondWithDomainError(w, err, "pricing failed")
		return
	}

	h.respondWithJSON(w, http.StatusOK, matrix)
}

// buildInput applies the engine defaults to a price request
func (h *PricingHandler) buildInput(req models.PriceRequest) (pricing.Input, error) {
	if req.MedianPrice == nil {
		return pricing.Input{}, validationError("median_price is required")
	}
	if req.MediaType == "" {
		return pricing.Input{}, validationError("media_type is required")
	}

	category := domain.ParseMediaCategory(req.MediaType)
	if !category.Known() {
		h.logger.Warn("unknown media type, using default shipping",
			zap.String("media_type", req.MediaType),
		)
	}
	condition := domain.NormalizeCondition(req.Condition, h.logger)

	in := h.engine.NewInput(*req.MedianPrice, category, condition)
	if req.MarkupFraction != nil {
		in.MarkupFraction = *req.MarkupFraction
	}
	if req.CostOfGoods != nil {
		in.CostOfGoods = *req.CostOfGoods
	}
	return in, nil
}
