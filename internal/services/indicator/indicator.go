// Package indicator wraps go-talib with NaN-padded, length-preserving outputs.
// talib leaves its warm-up region zero-filled and panics on inputs shorter
// than the period; callers here get NaN for every bar that is undefined.
package indicator

import (
	"math"

	"github.com/markcheno/go-talib"
)

// EMA returns the exponential moving average, NaN for the first period-1 bars.
func EMA(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period {
		return nanSeries(len(values))
	}
	return maskLeading(talib.Ema(values, period), period-1)
}

// SMA returns the simple moving average, NaN for the first period-1 bars.
func SMA(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period {
		return nanSeries(len(values))
	}
	return maskLeading(talib.Sma(values, period), period-1)
}

// ATR returns Wilder's average true range, NaN for the first period bars.
func ATR(high, low, close []float64, period int) []float64 {
	if period <= 0 || len(close) <= period {
		return nanSeries(len(close))
	}
	return maskLeading(talib.Atr(high, low, close, period), period)
}

// RSI returns the relative strength index, NaN for the first period bars.
func RSI(values []float64, period int) []float64 {
	if period <= 0 || len(values) <= period {
		return nanSeries(len(values))
	}
	return maskLeading(talib.Rsi(values, period), period)
}

// RelativeVolume divides each volume by its rolling SMA. Bars with an
// undefined or zero baseline are NaN.
func RelativeVolume(volume []float64, window int) []float64 {
	base := SMA(volume, window)
	out := make([]float64, len(volume))
	for i := range volume {
		if math.IsNaN(base[i]) || base[i] <= 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = volume[i] / base[i]
	}
	return out
}

// VWAP is the cumulative volume-weighted typical price (hlc3). NaN until
// some volume has traded.
func VWAP(high, low, close, volume []float64) []float64 {
	out := make([]float64, len(close))
	var pv, vol float64
	for i := range close {
		tp := (high[i] + low[i] + close[i]) / 3
		pv += tp * volume[i]
		vol += volume[i]
		if vol <= 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = pv / vol
	}
	return out
}

// PriorMax is the max of values[i-window .. i-1]; NaN until window prior bars exist.
func PriorMax(values []float64, window int) []float64 {
	return priorExtreme(values, window, math.Max)
}

// PriorMin is the min of values[i-window .. i-1]; NaN until window prior bars exist.
func PriorMin(values []float64, window int) []float64 {
	return priorExtreme(values, window, math.Min)
}

func priorExtreme(values []float64, window int, pick func(a, b float64) float64) []float64 {
	out := nanSeries(len(values))
	if window <= 0 {
		return out
	}
	for i := window; i < len(values); i++ {
		v := values[i-window]
		for j := i - window + 1; j < i; j++ {
			v = pick(v, values[j])
		}
		out[i] = v
	}
	return out
}

// Last returns the final value of a series, NaN when empty.
func Last(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return values[len(values)-1]
}

// Valid reports whether v is a usable indicator value.
func Valid(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func MinMax(values []float64) (lo, hi float64) {
	if len(values) == 0 {
		return 0, 0
	}
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

func maskLeading(values []float64, n int) []float64 {
	for i := 0; i < n && i < len(values); i++ {
		values[i] = math.NaN()
	}
	for i, v := range values {
		if math.IsInf(v, 0) {
			values[i] = math.NaN()
		}
	}
	return values
}

func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
