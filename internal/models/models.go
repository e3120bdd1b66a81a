package models

import (
	"github.com/shopspring/decimal"

	"media-reseller-go/internal/domain"
	"media-reseller-go/internal/pricing"
	"media-reseller-go/internal/shipping"
)

// PriceRequest is the body of POST /api/v1/price. Omitted markup and cost of
// goods fall back to the configured defaults.
type PriceRequest struct {
	MedianPrice    *decimal.Decimal `json:"median_price"`
	MediaType      string           `json:"media_type"`
	Condition      string           `json:"condition"`
	MarkupFraction *decimal.Decimal `json:"markup_fraction,omitempty"`
	CostOfGoods    *decimal.Decimal `json:"cost_of_goods,omitempty"`
}

// MatrixRequest is the body of POST /api/v1/price/matrix
type MatrixRequest struct {
	PriceRequest
	Markups []decimal.Decimal `json:"markups,omitempty"`
}

type PriceResponse struct {
	MediaCategory domain.MediaCategory `json:"media_category"`
	Condition     domain.ItemCondition `json:"condition"`
	pricing.Result
}

type ShippingQuoteRequest struct {
	Method   string  `json:"method"`
	WeightOz float64 `json:"weight_oz"`
}

type BulkShippingRequest struct {
	Items []shipping.BulkItem `json:"items"`
}

// SKURequest is the body of POST /api/v1/sku
type SKURequest struct {
	UPC       string `json:"upc"`
	Condition string `json:"condition"`
}

type SKUResponse struct {
	SKU       string               `json:"sku"`
	Barcode   domain.Barcode       `json:"barcode"`
	Condition domain.ItemCondition `json:"condition"`
	// ConditionRecognized is false when the input condition fell back to Acceptable
	ConditionRecognized bool `json:"condition_recognized"`
}

// IntakeRequest describes one item arriving at intake: its barcode, the
// graded condition and the market median found for it.
type IntakeRequest struct {
	UPC         string           `json:"upc"`
	Condition   string           `json:"condition"`
	MediaType   string           `json:"media_type"`
	MedianPrice *decimal.Decimal `json:"median_price"`
	CostOfGoods *decimal.Decimal `json:"cost_of_goods,omitempty"`
	// ShippingMediaType selects the packed-weight profile (dvd, bluray,
	// steelbook...). When empty, dvd items use the dvd profile, music_cd
	// items the cd profile and everything else the 5 oz default.
	ShippingMediaType string  `json:"shipping_media_type,omitempty"`
	WeightOz          float64 `json:"weight_oz,omitempty"`
}

type IntakeResponse struct {
	SKU                 string               `json:"sku"`
	Barcode             domain.Barcode       `json:"barcode"`
	MediaCategory       domain.MediaCategory `json:"media_category"`
	Condition           domain.ItemCondition `json:"condition"`
	ConditionRecognized bool                 `json:"condition_recognized"`
	Pricing             pricing.Result       `json:"pricing"`
	Shipping            shipping.Estimate    `json:"shipping"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}
