package pricing

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"media-reseller-go/internal/api/middleware"
	"media-reseller-go/internal/domain"
)

// DefaultMatrixMarkups are the scenarios compared side by side by Matrix.
var DefaultMatrixMarkups = []decimal.Decimal{
	decimal.RequireFromString("0.05"),
	decimal.RequireFromString("0.10"),
	decimal.RequireFromString("0.15"),
	decimal.RequireFromString("0.20"),
}

// Engine prices items. It holds no mutable state and is safe for concurrent use.
type Engine struct {
	logger      *zap.Logger
	markup      decimal.Decimal
	costOfGoods decimal.Decimal
}

// Option configures an Engine.
type Option func(*Engine)

// WithDefaults overrides the markup and cost of goods applied by Engine.NewInput.
func WithDefaults(markup, costOfGoods decimal.Decimal) Option {
	return func(e *Engine) {
		e.markup = markup
		e.costOfGoods = costOfGoods
	}
}

// NewEngine creates a pricing engine. A nil logger disables diagnostics.
func NewEngine(logger *zap.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		logger:      logger,
		markup:      DefaultMarkup,
		costOfGoods: DefaultCostOfGoods,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewInput builds an Input using the engine's configured defaults.
func (e *Engine) NewInput(median decimal.Decimal, category domain.MediaCategory, condition domain.ItemCondition) Input {
	return Input{
		MedianPrice:    median,
		MarkupFraction: e.markup,
		CostOfGoods:    e.costOfGoods,
		Category:       category,
		Condition:      condition,
	}
}

// Price computes the list price, offer thresholds and margin verdict for one
// item. A sub-margin result is not an error: it comes back with
// MeetsMarginThreshold=false and a warning is logged.
func (e *Engine) Price(in Input) (Result, error) {
	if err := in.Validate(); err != nil {
		return Result{}, err
	}
	res := e.compute(in)

	verdict := "pass"
	if !res.MeetsMarginThreshold {
		verdict = "fail"
	}
	middleware.PricingVerdictsTotal.WithLabelValues(in.Category.String(), verdict).Inc()

	return res, nil
}

func (e *Engine) compute(in Input) Result {
	shipping := ShippingCost(in.Category)
	list := ListPrice(in.MedianPrice, in.MarkupFraction)
	offers := BestOffers(list)

	profitAuto := offers.AutoAccept.Sub(in.CostOfGoods).Sub(shipping)
	profitMin := offers.MinimumAsk.Sub(in.CostOfGoods).Sub(shipping)

	if profitAuto.LessThan(MinProfitMargin) {
		e.logger.Warn("auto-accept price below minimum profit",
			zap.String("category", in.Category.String()),
			zap.String("auto_accept", offers.AutoAccept.StringFixed(2)),
			zap.String("profit", profitAuto.StringFixed(2)),
			zap.String("required", MinProfitMargin.StringFixed(2)),
		)
	}
	if profitMin.LessThan(MinProfitMargin) {
		e.logger.Warn("minimum ask below minimum profit",
			zap.String("category", in.Category.String()),
			zap.String("minimum_ask", offers.MinimumAsk.StringFixed(2)),
			zap.String("profit", profitMin.StringFixed(2)),
			zap.String("required", MinProfitMargin.StringFixed(2)),
		)
	}

	return Result{
		ListPrice:            list.Round(2),
		AutoAcceptPrice:      offers.AutoAccept,
		MinimumAskPrice:      offers.MinimumAsk,
		ProfitAtAutoAccept:   profitAuto.Round(2),
		ProfitAtMinimum:      profitMin.Round(2),
		MeetsMarginThreshold: profitAuto.GreaterThanOrEqual(MinProfitMargin),
		ShippingCost:         shipping,
		WeightOz:             WeightOz(in.Category, in.Condition),
	}
}

// Scenario is one markup level of a pricing matrix.
type Scenario struct {
	MarkupPercent        decimal.Decimal `json:"markup_percent"`
	MedianPrice          decimal.Decimal `json:"median_price"`
	ListPrice            decimal.Decimal `json:"list_price"`
	BestOffers           Offers          `json:"best_offers"`
	ProfitAtAutoAccept   decimal.Decimal `json:"profit_at_auto_accept"`
	ProfitAtMinimum      decimal.Decimal `json:"profit_at_minimum"`
	MeetsMarginThreshold bool            `json:"meets_margin_threshold"`
}

// Matrix compares several markups for the same item.
type Matrix struct {
	Category     domain.MediaCategory `json:"media_category"`
	Condition    domain.ItemCondition `json:"condition"`
	CostOfGoods  decimal.Decimal      `json:"cost_of_goods"`
	WeightOz     float64              `json:"weight_oz"`
	ShippingCost decimal.Decimal      `json:"shipping_cost"`
	Scenarios    []Scenario           `json:"scenarios"`
}

// Matrix prices in once per markup, in the order given. With no markups it
// uses DefaultMatrixMarkups. in.MarkupFraction is ignored.
func (e *Engine) Matrix(in Input, markups ...decimal.Decimal) (Matrix, error) {
	if len(markups) == 0 {
		markups = DefaultMatrixMarkups
	}
	if err := in.Validate(); err != nil {
		return Matrix{}, err
	}

	m := Matrix{
		Category:     in.Category,
		Condition:    in.Condition,
		CostOfGoods:  in.CostOfGoods,
		WeightOz:     WeightOz(in.Category, in.Condition),
		ShippingCost: ShippingCost(in.Category),
		Scenarios:    make([]Scenario, 0, len(markups)),
	}
	for _, markup := range markups {
		scenarioIn := in
		scenarioIn.MarkupFraction = markup
		if err := scenarioIn.Validate(); err != nil {
			return Matrix{}, err
		}
		res := e.compute(scenarioIn)
		m.Scenarios = append(m.Scenarios, Scenario{
			MarkupPercent:        markup.Mul(decimal.NewFromInt(100)),
			MedianPrice:          in.MedianPrice,
			ListPrice:            res.ListPrice,
			BestOffers:           Offers{AutoAccept: res.AutoAcceptPrice, MinimumAsk: res.MinimumAskPrice},
			ProfitAtAutoAccept:   res.ProfitAtAutoAccept,
			ProfitAtMinimum:      res.ProfitAtMinimum,
			MeetsMarginThreshold: res.MeetsMarginThreshold,
		})
	}
	return m, nil
}
