package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"media-reseller-go/internal/domain"
	"media-reseller-go/internal/models"
	"media-reseller-go/internal/pricing"
	"media-reseller-go/internal/shipping"
)

// IntakeHandler turns a scanned item into its SKU, and optionally its price
// and shipping estimate
type IntakeHandler struct {
	responder
	engine *pricing.Engine
	calc   *shipping.Calculator
}

// NewIntakeHandler creates a new intake handler
func NewIntakeHandler(engine *pricing.Engine, calc *shipping.Calculator, logger *zap.Logger) *IntakeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IntakeHandler{
		engine:    engine,
		calc:      calc,
		responder: responder{logger: logger},
	}
}

// HandleSKU handles POST /api/v1/sku
func (h *IntakeHandler) HandleSKU(w http.ResponseWriter, r *http.Request) {
	var req models.SKURequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.Warn("failed to decode sku request", zap.Error(err))
		h.respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	barcode, condition, recognized, err := h.identify(req.UPC, req.Condition)
	if err != nil {
		h.respondWithDomainError(w, err, "sku failed")
		return
	}

	h.respondWithJSON(w, http.StatusOK, models.SKUResponse{
		SKU:                 domain.BuildSKU(barcode.Code, condition),
		Barcode:             barcode,
		Condition:           condition,
		ConditionRecognized: recognized,
	})
}

// Handle handles POST /api/v1/intake
func (h *IntakeHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.IntakeRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.Warn("failed to decode intake request", zap.Error(err))
		h.respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.MedianPrice == nil {
		h.respondWithError(w, http.StatusBadRequest, "median_price is required")
		return
	}
	if req.WeightOz < 0 {
		h.respondWithError(w, http.StatusBadRequest, "weight_oz cannot be negative")
		return
	}

	barcode, condition, recognized, err := h.identify(req.UPC, req.Condition)
	if err != nil {
		h.respondWithDomainError(w, err, "intake failed")
		return
	}

	category := domain.ParseMediaCategory(req.MediaType)
	in := h.engine.NewInput(*req.MedianPrice, category, condition)
	if req.CostOfGoods != nil {
		in.CostOfGoods = *req.CostOfGoods
	}
	result, err := h.engine.Price(in)
	if err != nil {
		h.respondWithDomainError(w, err, "intake failed")
		return
	}

	shippingType := req.ShippingMediaType
	if shippingType == "" {
		shippingType = shippingProfile(category)
	}
	estimate, err := h.calc.EstimateForMediaType(shippingType, req.WeightOz)
	if err != nil {
		h.logger.Error("intake shipping estimate failed", zap.Error(err))
		h.respondWithDomainError(w, err, "intake failed")
		return
	}

	sku := domain.BuildSKU(barcode.Code, condition)
	h.logger.Info("item intake",
		zap.String("sku", sku),
		zap.String("media_category", category.String()),
		zap.String("list_price", result.ListPrice.StringFixed(2)),
		zap.Bool("meets_margin", result.MeetsMarginThreshold),
	)

	h.respondWithJSON(w, http.StatusOK, models.IntakeResponse{
		SKU:                 sku,
		Barcode:             barcode,
		MediaCategory:       category,
		Condition:           condition,
		ConditionRecognized: recognized,
		Pricing:             result,
		Shipping:            estimate,
	})
}

// identify validates the barcode and normalizes the condition
func (h *IntakeHandler) identify(upc, rawCondition string) (domain.Barcode, domain.ItemCondition, bool, error) {
	barcode, err := domain.ValidateBarcode(upc)
	if err != nil {
		h.logger.Warn("invalid barcode", zap.String("upc", upc), zap.Error(err))
		return domain.Barcode{}, "", false, err
	}
	if barcode.Unusual() {
		h.logger.Warn("unusual barcode length",
			zap.String("upc", barcode.Code),
			zap.String("type", string(barcode.Type)),
		)
	}

	_, recognized := domain.ParseCondition(rawCondition)
	condition := domain.NormalizeCondition(rawCondition, h.logger)
	return barcode, condition, recognized, nil
}

// shippingProfile picks the packed-weight profile for a category
func shippingProfile(category domain.MediaCategory) string {
	switch category {
	case domain.MediaDVD:
		return "dvd"
	case domain.MediaMusicCD:
		return "cd"
	default:
		return ""
	}
}
