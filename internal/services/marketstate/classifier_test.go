package marketstate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"SharkScan/internal/domain/models"
)

func series(n int, f func(i int) (open, high, low, close float64)) models.Series {
	start := time.Date(2024, 10, 10, 9, 0, 0, 0, time.FixedZone("Asia/Ho_Chi_Minh", 7*3600))
	out := make(models.Series, n)
	for i := range out {
		o, h, l, c := f(i)
		out[i] = models.Candle{Time: start.Add(time.Duration(i) * time.Minute), Open: o, High: h, Low: l, Close: c, Volume: 1000}
	}
	return out
}

func TestFlatSeriesIsNotTradable(t *testing.T) {
	s := series(60, func(int) (float64, float64, float64, float64) { return 22, 22, 22, 22 })
	got := New().Analyze(s)
	assert.False(t, got.Tradable)
	assert.Equal(t, models.MarketLowVolatility, got.Type)
	assert.NotEmpty(t, got.Description)
	assert.InDelta(t, 1.0, got.RelVol, 1e-9)
}

func TestTightRangeIsNotTradable(t *testing.T) {
	// atr ~0.02/22 and range ~0.03/22, both under the thresholds
	s := series(60, func(i int) (float64, float64, float64, float64) {
		p := 22 + 0.01*float64(i%2)
		return p, p + 0.01, p - 0.01, p
	})
	got := New().Analyze(s)
	assert.Less(t, got.ATRPct, minATRPct)
	assert.Less(t, got.PriceRange, minPriceRange)
	assert.False(t, got.Tradable)
}

func TestWideRangeIsTradable(t *testing.T) {
	// small bars but a drift that covers more than 1% of price
	s := series(60, func(i int) (float64, float64, float64, float64) {
		p := 22 + 0.01*float64(i)
		return p, p + 0.005, p - 0.005, p
	})
	got := New().Analyze(s)
	assert.GreaterOrEqual(t, got.PriceRange, minPriceRange)
	assert.True(t, got.Tradable)
	assert.Equal(t, models.MarketNormal, got.Type)
}

func TestVolatileBarsAreTradable(t *testing.T) {
	// every bar swings ~1% around the same close
	s := series(60, func(i int) (float64, float64, float64, float64) {
		return 22, 22.11, 21.89, 22
	})
	got := New().Analyze(s)
	assert.GreaterOrEqual(t, got.ATRPct, minATRPct)
	assert.True(t, got.Tradable)
}

func TestEmptySeries(t *testing.T) {
	got := New().Analyze(nil)
	assert.False(t, got.Tradable)
}
