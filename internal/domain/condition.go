package domain

import (
	"strings"

	"go.uber.org/zap"
)

// ItemCondition is the listed condition tier of an item.
//
//   - New: sealed, original packaging
//   - VeryGood: full item with case, disc, cover art and manual
//   - Acceptable: disc only, no case or cover
type ItemCondition string

const (
	ConditionNew        ItemCondition = "New"
	ConditionVeryGood   ItemCondition = "Very Good"
	ConditionAcceptable ItemCondition = "Acceptable"
)

// String returns the display name of the condition.
func (c ItemCondition) String() string {
	return string(c)
}

// FullItem reports whether the condition ships with case and cover.
func (c ItemCondition) FullItem() bool {
	return c == ConditionNew || c == ConditionVeryGood
}

// SKUSuffix returns the suffix appended to the UPC for this condition.
func (c ItemCondition) SKUSuffix() string {
	switch c {
	case ConditionNew:
		return ""
	case ConditionVeryGood:
		return "-VG"
	default:
		return "-A"
	}
}

// ParseCondition maps a free-form condition string onto a canonical
// ItemCondition. Matching is case-insensitive. Unrecognised input yields
// ConditionAcceptable and ok=false so the caller can surface a warning.
func ParseCondition(s string) (cond ItemCondition, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "new":
		return ConditionNew, true
	case "very good", "vg", "verygood", "very_good":
		return ConditionVeryGood, true
	case "acceptable", "disc-only", "disc only", "disc_only":
		return ConditionAcceptable, true
	default:
		return ConditionAcceptable, false
	}
}

// NormalizeCondition is ParseCondition plus the warning log for input that
// had to fall back to Acceptable.
func NormalizeCondition(s string, logger *zap.Logger) ItemCondition {
	cond, ok := ParseCondition(s)
	if !ok {
		if logger == nil {
			logger = zap.NewNop()
		}
		logger.Warn("unknown condition, defaulting to acceptable",
			zap.String("condition", s),
		)
	}
	return cond
}

// BuildSKU derives the stock-keeping unit for an item from its UPC and
// condition. New items keep the bare UPC; anything that is not New or
// Very Good is labelled disc-only.
func BuildSKU(upc string, condition ItemCondition) string {
	return upc + condition.SKUSuffix()
}
