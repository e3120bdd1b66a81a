package shipping

import (
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateForMediaTypeDefaultWeights(t *testing.T) {
	c := NewCalculator()

	tests := []struct {
		mediaType string
		weight    float64
	}{
		{"dvd", 4.5},
		{"BluRay", 4.0},
		{"cd", 3.0},
		{"vinyl", 6.0},
		{"steelbook", 8.0},
		{"boxset", 12.0},
		{"laserdisc", 5.0},
	}

	for _, tt := range tests {
		t.Run(tt.mediaType, func(t *testing.T) {
			est, err := c.EstimateForMediaType(tt.mediaType, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.weight, est.WeightOz)
			assert.Equal(t, tt.mediaType, est.MediaType)
			assertMoney(t, "media mail", "4.47", est.MediaMail.TotalCost)
			assertMoney(t, "ground", "5.25", est.GroundAdvantage.TotalCost)
			assert.Equal(t, MediaMail, est.Recommended)
		})
	}
}

func TestEstimateForMediaTypeWeightOverride(t *testing.T) {
	c := NewCalculator()

	est, err := c.EstimateForMediaType("boxset", 40)
	require.NoError(t, err)
	assert.Equal(t, 40.0, est.WeightOz)
	assertMoney(t, "media mail", "5.47", est.MediaMail.TotalCost)
	assertMoney(t, "ground", "6.25", est.GroundAdvantage.TotalCost)
}

func TestEstimateRecommendation(t *testing.T) {
	t.Run("cheaper ground wins", func(t *testing.T) {
		c := NewCalculator(WithRate(GroundAdvantage, decimal.RequireFromString("3.99")))
		est, err := c.EstimateForMediaType("dvd", 0)
		require.NoError(t, err)
		assert.Equal(t, GroundAdvantage, est.Recommended)
	})

	t.Run("tie favors media mail", func(t *testing.T) {
		c := NewCalculator(WithRate(GroundAdvantage, decimal.RequireFromString("4.47")))
		est, err := c.EstimateForMediaType("dvd", 0)
		require.NoError(t, err)
		assert.Equal(t, MediaMail, est.Recommended)
	})
}

func TestBulkEstimate(t *testing.T) {
	c := NewCalculator()

	res, err := c.BulkEstimate([]BulkItem{
		{Method: MediaMail, WeightOz: oz(6)},
		{Method: GroundAdvantage, WeightOz: oz(20)},
		{},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, res.Count)
	require.Len(t, res.Items, 3)
	assertMoney(t, "first", "4.47", res.Items[0].TotalCost)
	assertMoney(t, "second", "5.75", res.Items[1].TotalCost)
	assert.Equal(t, MediaMail, res.Items[2].Method)
	assert.Equal(t, DefaultWeightOz, res.Items[2].WeightOz)
	assertMoney(t, "total", "14.69", res.TotalCost)
}

func TestBulkEstimateKeepsExplicitZeroWeight(t *testing.T) {
	res, err := NewCalculator().BulkEstimate([]BulkItem{
		{Method: MediaMail, WeightOz: oz(0)},
		{Method: MediaMail},
	})
	require.NoError(t, err)
	require.Len(t, res.Items, 2)
	assert.Equal(t, 0.0, res.Items[0].WeightOz)
	assert.Equal(t, DefaultWeightOz, res.Items[1].WeightOz)
	assertMoney(t, "total", "8.94", res.TotalCost)
}

func TestBulkEstimateRejectsNonFiniteWeight(t *testing.T) {
	_, err := NewCalculator().BulkEstimate([]BulkItem{
		{Method: MediaMail, WeightOz: oz(6)},
		{Method: MediaMail, WeightOz: oz(math.Inf(1))},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidWeight))
	assert.Contains(t, err.Error(), "item 1")
}

func TestBulkEstimateEmpty(t *testing.T) {
	res, err := NewCalculator().BulkEstimate(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Count)
	assert.Empty(t, res.Items)
	assert.True(t, res.TotalCost.IsZero())
}

func TestBulkEstimateUnknownMethod(t *testing.T) {
	_, err := NewCalculator().BulkEstimate([]BulkItem{
		{Method: MediaMail, WeightOz: oz(6)},
		{Method: Method("freight"), WeightOz: oz(6)},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownMethod))
	assert.Contains(t, err.Error(), "item 1")
}

func oz(v float64) *float64 {
	return &v
}
