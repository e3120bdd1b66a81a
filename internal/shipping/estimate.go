package shipping

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// mediaWeights are typical packed weights in ounces keyed by loose media label.
var mediaWeights = map[string]float64{
	"dvd":       4.5,
	"bluray":    4.0,
	"cd":        3.0,
	"vinyl":     6.0,
	"steelbook": 8.0,
	"boxset":    12.0,
}

const fallbackMediaWeightOz = 5.0

// MediaWeight returns the default packed weight for a media label.
func MediaWeight(mediaType string) float64 {
	if w, ok := mediaWeights[strings.ToLower(strings.TrimSpace(mediaType))]; ok {
		return w
	}
	return fallbackMediaWeightOz
}

// Estimate compares both methods for one item.
type Estimate struct {
	MediaType       string  `json:"media_type"`
	WeightOz        float64 `json:"estimated_weight_oz"`
	MediaMail       Quote   `json:"media_mail"`
	GroundAdvantage Quote   `json:"ground_advantage"`
	Recommended     Method  `json:"recommended"`
}

// EstimateForMediaType quotes both methods for a media label. A weightOz of
// zero or less uses the label's default weight. Ties recommend Media Mail.
func (c *Calculator) EstimateForMediaType(mediaType string, weightOz float64) (Estimate, error) {
	if !isFinite(weightOz) {
		return Estimate{}, fmt.Errorf("%w: %v oz", ErrInvalidWeight, weightOz)
	}
	if weightOz <= 0 {
		weightOz = MediaWeight(mediaType)
	}

	mm, err := c.Quote(MediaMail, weightOz)
	if err != nil {
		return Estimate{}, err
	}
	ga, err := c.Quote(GroundAdvantage, weightOz)
	if err != nil {
		return Estimate{}, err
	}

	recommended := MediaMail
	if ga.TotalCost.LessThan(mm.TotalCost) {
		recommended = GroundAdvantage
	}

	return Estimate{
		MediaType:       mediaType,
		WeightOz:        weightOz,
		MediaMail:       mm,
		GroundAdvantage: ga,
		Recommended:     recommended,
	}, nil
}

// BulkItem is one parcel in a bulk estimate. Empty Method means Media Mail
// and a nil WeightOz means DefaultWeightOz; an explicit zero is kept.
type BulkItem struct {
	Method   Method   `json:"method"`
	WeightOz *float64 `json:"weight_oz,omitempty"`
}

// BulkEstimate is the per-item quotes and their rounded sum.
type BulkEstimate struct {
	Items     []Quote         `json:"items"`
	TotalCost decimal.Decimal `json:"total_cost"`
	Count     int             `json:"count"`
}

// BulkEstimate quotes every item independently. An unknown method or
// invalid weight anywhere fails the whole batch.
func (c *Calculator) BulkEstimate(items []BulkItem) (BulkEstimate, error) {
	out := BulkEstimate{
		Items:     make([]Quote, 0, len(items)),
		TotalCost: decimal.Zero,
		Count:     len(items),
	}
	for i, item := range items {
		method := item.Method
		if method == "" {
			method = MediaMail
		}
		weight := DefaultWeightOz
		if item.WeightOz != nil {
			weight = *item.WeightOz
		}
		q, err := c.Quote(method, weight)
		if err != nil {
			return BulkEstimate{}, fmt.Errorf("item %d: %w", i, err)
		}
		out.Items = append(out.Items, q)
		out.TotalCost = out.TotalCost.Add(q.TotalCost)
	}
	out.TotalCost = out.TotalCost.Round(2)
	return out, nil
}
