package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"media-reseller-go/internal/domain"
)

func TestListPrice(t *testing.T) {
	tests := []struct {
		median, markup, expected string
	}{
		{"35.00", "0.10", "38.50"},
		{"10", "0.20", "12"},
		{"2.00", "0.10", "5.00"},
		{"0", "0.10", "5.00"},
		{"4.5454", "0.10", "5.00"},
		{"4.55", "0.10", "5.005"},
		{"100", "0", "100"},
	}

	for _, tt := range tests {
		t.Run(tt.median+"@"+tt.markup, func(t *testing.T) {
			assertMoney(t, "list", tt.expected, ListPrice(d(tt.median), d(tt.markup)))
		})
	}
}

func TestBestOffersHalfUpRounding(t *testing.T) {
	tests := []struct {
		list, auto, min string
	}{
		// 8.004 rounds down, 7.0035 rounds half-up to 7.00
		{"10.005", "8.00", "7.00"},
		// 0.8 * 5.00625 = 4.005 exactly, 0.7 * 5.00625 = 3.504375
		{"5.00625", "4.01", "3.50"},
		{"38.50", "30.80", "26.95"},
		{"15.75", "12.60", "11.03"},
		{"5.00", "4.00", "3.50"},
	}

	for _, tt := range tests {
		t.Run(tt.list, func(t *testing.T) {
			offers := BestOffers(d(tt.list))
			assertMoney(t, "auto_accept", tt.auto, offers.AutoAccept)
			assertMoney(t, "minimum_ask", tt.min, offers.MinimumAsk)
		})
	}
}

func TestWeightOz(t *testing.T) {
	tests := []struct {
		category  domain.MediaCategory
		condition domain.ItemCondition
		expected  float64
	}{
		{domain.MediaVideoGame, domain.ConditionNew, 6},
		{domain.MediaVideoGame, domain.ConditionVeryGood, 6},
		{domain.MediaDVD, domain.ConditionVeryGood, 5},
		{domain.MediaMusicCD, domain.ConditionNew, 5},
		{domain.MediaUnknown, domain.ConditionNew, 5},
		{domain.MediaVideoGame, domain.ConditionAcceptable, 4},
		{domain.MediaDVD, domain.ConditionAcceptable, 4},
		{domain.MediaMusicCD, domain.ConditionAcceptable, 4},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, WeightOz(tt.category, tt.condition), "%s/%s", tt.category, tt.condition)
	}
}

func TestShippingCost(t *testing.T) {
	assertMoney(t, "video game", "0", ShippingCost(domain.MediaVideoGame))
	assertMoney(t, "dvd", "3.50", ShippingCost(domain.MediaDVD))
	assertMoney(t, "cd", "3.50", ShippingCost(domain.MediaMusicCD))
	assertMoney(t, "unknown", "3.50", ShippingCost(domain.MediaUnknown))
}
