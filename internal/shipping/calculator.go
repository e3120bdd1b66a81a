// Package shipping quotes USPS shipping costs from a per-method base rate
// plus a weight-tiered surcharge.
package shipping

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrUnknownMethod is returned for a shipping method with no configured rate.
var ErrUnknownMethod = errors.New("unknown shipping method")

// ErrInvalidWeight is returned for a NaN or infinite parcel weight.
var ErrInvalidWeight = errors.New("invalid parcel weight")

// Method is a supported shipping service.
type Method string

const (
	MediaMail       Method = "media_mail"
	GroundAdvantage Method = "ground_advantage"
)

// DefaultWeightOz is used for bulk items that do not carry a weight.
const DefaultWeightOz = 5.0

// ParseMethod normalises a method name.
func ParseMethod(s string) (Method, error) {
	switch m := Method(strings.ToLower(strings.TrimSpace(s))); m {
	case MediaMail, GroundAdvantage:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMethod, s)
	}
}

// tier is an exclusive upper weight bound and the surcharge below it.
type tier struct {
	limitOz   float64
	surcharge decimal.Decimal
}

// surchargeTiers is evaluated in order; the first tier whose bound is
// strictly greater than the weight wins. Heavier items take overflowSurcharge.
var (
	surchargeTiers = []tier{
		{limitOz: 16, surcharge: decimal.RequireFromString("0.00")},
		{limitOz: 32, surcharge: decimal.RequireFromString("0.50")},
		{limitOz: 48, surcharge: decimal.RequireFromString("1.00")},
		{limitOz: 64, surcharge: decimal.RequireFromString("1.50")},
		{limitOz: 128, surcharge: decimal.RequireFromString("2.00")},
	}
	overflowSurcharge = decimal.RequireFromString("3.00")
)

// DefaultRates are the base rates for a typical 4-8 oz disc.
func DefaultRates() map[Method]decimal.Decimal {
	return map[Method]decimal.Decimal{
		MediaMail:       decimal.RequireFromString("4.47"),
		GroundAdvantage: decimal.RequireFromString("5.25"),
	}
}

// Quote is the cost breakdown for one parcel.
type Quote struct {
	Method    Method          `json:"method"`
	WeightOz  float64         `json:"weight_oz"`
	BaseRate  decimal.Decimal `json:"base_rate"`
	Surcharge decimal.Decimal `json:"surcharge"`
	TotalCost decimal.Decimal `json:"total_cost"`
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithRate overrides the base rate for one method.
func WithRate(method Method, rate decimal.Decimal) Option {
	return func(c *Calculator) {
		c.rates[method] = rate
	}
}

// Calculator holds the rate table. It is read-only after construction and
// safe for concurrent use.
type Calculator struct {
	rates map[Method]decimal.Decimal
}

// NewCalculator creates a calculator with the default rates, then applies opts.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{rates: DefaultRates()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Rate returns the configured base rate for a method.
func (c *Calculator) Rate(method Method) (decimal.Decimal, error) {
	rate, ok := c.rates[method]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}
	return rate, nil
}

// Surcharge returns the weight surcharge. It never decreases as weight grows.
// Non-finite weights take no surcharge; Quote rejects them.
func Surcharge(weightOz float64) decimal.Decimal {
	if weightOz <= 0 || !isFinite(weightOz) {
		return decimal.Zero
	}
	for _, t := range surchargeTiers {
		if weightOz < t.limitOz {
			return t.surcharge
		}
	}
	return overflowSurcharge
}

// Quote prices a single parcel.
func (c *Calculator) Quote(method Method, weightOz float64) (Quote, error) {
	if !isFinite(weightOz) {
		return Quote{}, fmt.Errorf("%w: %v oz", ErrInvalidWeight, weightOz)
	}
	base, err := c.Rate(method)
	if err != nil {
		return Quote{}, err
	}
	surcharge := Surcharge(weightOz)
	return Quote{
		Method:    method,
		WeightOz:  weightOz,
		BaseRate:  base,
		Surcharge: surcharge,
		TotalCost: base.Add(surcharge).Round(2),
	}, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
