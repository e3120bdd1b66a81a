// Package pricing turns a market median price into an eBay list price,
// best-offer thresholds and a profitability verdict.
package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"media-reseller-go/internal/domain"
)

// ErrInvalidInput is returned for negative, oversized or over-precise
// prices, markups or costs.
var ErrInvalidInput = errors.New("invalid pricing input")

var (
	// MinListPrice is the floor applied to every list price.
	MinListPrice = decimal.RequireFromString("5.00")
	// MinProfitMargin is the smallest acceptable profit on an accepted offer.
	MinProfitMargin = decimal.RequireFromString("2.75")
	// DefaultMarkup is added on top of the median.
	DefaultMarkup = decimal.RequireFromString("0.10")
	// DefaultCostOfGoods is the current per-item acquisition cost.
	DefaultCostOfGoods = decimal.RequireFromString("1.00")

	autoAcceptFraction = decimal.RequireFromString("0.80")
	minimumAskFraction = decimal.RequireFromString("0.70")
)

// Item weights in ounces.
const (
	WeightVideoGameOz = 6.0
	WeightDVDOz       = 5.0
	WeightMusicCDOz   = 5.0
	WeightDiscOnlyOz  = 4.0
)

// flatShipping is the per-category shipping estimate used for the margin
// check. Video games ship free via Ground Advantage. This table is
// independent of the tiered quotes in package shipping.
var (
	flatShipping = map[domain.MediaCategory]decimal.Decimal{
		domain.MediaVideoGame: decimal.Zero,
		domain.MediaDVD:       decimal.RequireFromString("3.50"),
		domain.MediaMusicCD:   decimal.RequireFromString("3.50"),
	}
	defaultFlatShipping = decimal.RequireFromString("3.50")
)

// Input is one pricing request. Use NewInput for the default markup and
// cost of goods.
type Input struct {
	MedianPrice    decimal.Decimal      `json:"median_price"`
	MarkupFraction decimal.Decimal      `json:"markup_fraction"`
	CostOfGoods    decimal.Decimal      `json:"cost_of_goods"`
	Category       domain.MediaCategory `json:"media_category"`
	Condition      domain.ItemCondition `json:"condition"`
}

// NewInput builds an Input with DefaultMarkup and DefaultCostOfGoods.
func NewInput(median decimal.Decimal, category domain.MediaCategory, condition domain.ItemCondition) Input {
	return Input{
		MedianPrice:    median,
		MarkupFraction: DefaultMarkup,
		CostOfGoods:    DefaultCostOfGoods,
		Category:       category,
		Condition:      condition,
	}
}

// Bounds on accepted amounts. Scale and digit limits are checked before any
// arithmetic so a tiny literal such as 1e400000000 cannot force a huge rescale.
var (
	MaxAmount         = decimal.NewFromInt(1_000_000_000)
	MaxMarkupFraction = decimal.NewFromInt(100)
)

const (
	maxAmountScale    = 8
	maxAmountExponent = 9
	maxAmountDigits   = 20
)

// Validate rejects negative, oversized or over-precise amounts.
func (in Input) Validate() error {
	if err := checkAmount("median_price", in.MedianPrice, MaxAmount); err != nil {
		return err
	}
	if err := checkAmount("markup_fraction", in.MarkupFraction, MaxMarkupFraction); err != nil {
		return err
	}
	return checkAmount("cost_of_goods", in.CostOfGoods, MaxAmount)
}

func checkAmount(field string, v, limit decimal.Decimal) error {
	exp := v.Exponent()
	if exp < -maxAmountScale || exp > maxAmountExponent || v.NumDigits() > maxAmountDigits {
		return fmt.Errorf("%w: %s is out of range", ErrInvalidInput, field)
	}
	if v.IsNegative() {
		return fmt.Errorf("%w: %s %s is negative", ErrInvalidInput, field, v)
	}
	if v.GreaterThan(limit) {
		return fmt.Errorf("%w: %s %s exceeds %s", ErrInvalidInput, field, v, limit)
	}
	return nil
}

// Offers are the best-offer thresholds derived from a list price.
type Offers struct {
	AutoAccept decimal.Decimal `json:"auto_accept"`
	MinimumAsk decimal.Decimal `json:"minimum_ask"`
}

// Result is the outcome of pricing one item. MinimumAskPrice <=
// AutoAcceptPrice <= ListPrice always holds.
type Result struct {
	ListPrice            decimal.Decimal `json:"list_price"`
	AutoAcceptPrice      decimal.Decimal `json:"auto_accept_price"`
	MinimumAskPrice      decimal.Decimal `json:"minimum_ask_price"`
	ProfitAtAutoAccept   decimal.Decimal `json:"profit_at_auto_accept"`
	ProfitAtMinimum      decimal.Decimal `json:"profit_at_minimum"`
	MeetsMarginThreshold bool            `json:"meets_margin_threshold"`
	ShippingCost         decimal.Decimal `json:"shipping_cost"`
	WeightOz             float64         `json:"weight_oz"`
}

// WeightOz resolves the packed weight of an item. Disc-only items weigh the
// same regardless of category.
func WeightOz(category domain.MediaCategory, condition domain.ItemCondition) float64 {
	if !condition.FullItem() {
		return WeightDiscOnlyOz
	}
	switch category {
	case domain.MediaVideoGame:
		return WeightVideoGameOz
	case domain.MediaDVD:
		return WeightDVDOz
	default:
		return WeightMusicCDOz
	}
}

// ShippingCost returns the flat shipping estimate for a category.
func ShippingCost(category domain.MediaCategory) decimal.Decimal {
	if c, ok := flatShipping[category]; ok {
		return c
	}
	return defaultFlatShipping
}

// ListPrice is median * (1 + markup), floored at MinListPrice. The result is
// exact; callers round for display.
func ListPrice(median, markup decimal.Decimal) decimal.Decimal {
	return decimal.Max(median.Mul(decimal.NewFromInt(1).Add(markup)), MinListPrice)
}

// BestOffers computes the auto-accept (80%) and minimum-ask (70%) thresholds,
// each rounded half-up to cents.
func BestOffers(listPrice decimal.Decimal) Offers {
	return Offers{
		AutoAccept: listPrice.Mul(autoAcceptFraction).Round(2),
		MinimumAsk: listPrice.Mul(minimumAskFraction).Round(2),
	}
}
