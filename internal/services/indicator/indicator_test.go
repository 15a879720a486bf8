package indicator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ramp(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}

func TestEMAShortInputIsNaN(t *testing.T) {
	got := EMA(ramp(10, 1, 1), 50)
	require.Len(t, got, 10)
	for _, v := range got {
		assert.True(t, math.IsNaN(v))
	}
}

func TestEMAWarmup(t *testing.T) {
	got := EMA(ramp(30, 1, 1), 10)
	require.Len(t, got, 30)
	assert.True(t, math.IsNaN(got[8]))
	assert.InDelta(t, 5.5, got[9], 1e-9, "seed is the SMA of the first period values")
	assert.Greater(t, got[29], got[20])
}

func TestSMAAndRelativeVolume(t *testing.T) {
	vol := []float64{100, 100, 100, 100, 400}
	sma := SMA(vol, 4)
	assert.True(t, math.IsNaN(sma[2]))
	assert.InDelta(t, 100, sma[3], 1e-9)
	assert.InDelta(t, 175, sma[4], 1e-9)

	rvol := RelativeVolume(vol, 4)
	assert.True(t, math.IsNaN(rvol[0]))
	assert.InDelta(t, 400.0/175.0, rvol[4], 1e-9)
}

func TestATRConstantRange(t *testing.T) {
	n := 40
	closes := make([]float64, n)
	highs := make([]float64, n)
	lows := make([]float64, n)
	for i := range closes {
		closes[i] = 22
		highs[i] = 22.25
		lows[i] = 21.75
	}
	atr := ATR(highs, lows, closes, 14)
	assert.True(t, math.IsNaN(atr[13]))
	assert.InDelta(t, 0.5, Last(atr), 1e-9)

	assert.True(t, math.IsNaN(Last(ATR(highs[:10], lows[:10], closes[:10], 14))))
}

func TestVWAP(t *testing.T) {
	h := []float64{11, 12}
	l := []float64{9, 10}
	c := []float64{10, 11}
	v := []float64{0, 100}
	got := VWAP(h, l, c, v)
	assert.True(t, math.IsNaN(got[0]))
	assert.InDelta(t, 11, got[1], 1e-9)
}

func TestPriorExtremes(t *testing.T) {
	vals := []float64{3, 1, 4, 1, 5, 9}
	mx := PriorMax(vals, 3)
	mn := PriorMin(vals, 3)
	assert.True(t, math.IsNaN(mx[2]))
	assert.Equal(t, 4.0, mx[3])
	assert.Equal(t, 5.0, mx[5])
	assert.Equal(t, 1.0, mn[4])
}

func TestHelpers(t *testing.T) {
	lo, hi := MinMax([]float64{3, -1, 7})
	assert.Equal(t, -1.0, lo)
	assert.Equal(t, 7.0, hi)
	assert.Equal(t, 3.0, Mean([]float64{2, 4}))
	assert.True(t, math.IsNaN(Last(nil)))
	assert.False(t, Valid(math.NaN()))
}
