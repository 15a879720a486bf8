// Package testutil builds deterministic candle series for tests.
package testutil

import (
	"time"

	"SharkScan/internal/domain/models"
	"SharkScan/pkg/util"
)

// Start is the first candle time of every fixture.
var Start = time.Date(2024, 10, 10, 9, 0, 0, 0, util.VN)

// Flat returns n identical candles at price with constant volume.
func Flat(n int, price float64, step time.Duration) models.Series {
	out := make(models.Series, n)
	for i := range out {
		out[i] = models.Candle{
			Time: Start.Add(time.Duration(i) * step),
			Open: price, High: price, Low: price, Close: price,
			Volume: 1000,
		}
	}
	return out
}

// Ascending returns n bullish candles climbing 0.1 per bar from base.
func Ascending(n int, base float64, step time.Duration) models.Series {
	out := make(models.Series, n)
	for i := range out {
		p := base + 0.1*float64(i)
		out[i] = models.Candle{
			Time:   Start.Add(time.Duration(i) * step),
			Open:   p,
			High:   p + 0.1,
			Low:    p - 0.02,
			Close:  p + 0.08,
			Volume: 1000,
		}
	}
	return out
}

// OrderBlockSetup is an ascending series with one high-volume bearish dip at
// index dip, followed by a candle that breaks above the prior highs.
func OrderBlockSetup(n, dip int, step time.Duration) models.Series {
	s := Ascending(n, 20, step)
	p := s[dip].Open
	s[dip].Open = p + 0.05
	s[dip].Close = p - 0.15
	s[dip].High = p + 0.07
	s[dip].Low = p - 0.2
	s[dip].Volume = 3000
	return s
}

// BreakoutSetup is n-1 tight candles around 20 followed by one wide bullish
// candle on 4x volume that clears the recent highs.
func BreakoutSetup(n int, step time.Duration) models.Series {
	out := make(models.Series, n)
	for i := range out {
		out[i] = models.Candle{
			Time:   Start.Add(time.Duration(i) * step),
			Open:   20,
			High:   20.05,
			Low:    19.95,
			Close:  20.02,
			Volume: 1000,
		}
	}
	out[n-1] = models.Candle{
		Time:   out[n-1].Time,
		Open:   20,
		High:   20.42,
		Low:    19.98,
		Close:  20.4,
		Volume: 4000,
	}
	return out
}

// SpringSetup ramps from 18 to 20 over 50 bars, holds a 19.9-20.1 range for
// 30 bars, then prints one spring bar that undershoots the range low by 0.01
// and closes back inside on 3x volume.
func SpringSetup(step time.Duration) models.Series {
	var out models.Series
	for i := 0; i < 50; i++ {
		p := 18 + 2*float64(i)/49
		out = append(out, models.Candle{Open: p - 0.02, High: p + 0.03, Low: p - 0.05, Close: p, Volume: 1000})
	}
	for i := 0; i < 30; i++ {
		out = append(out, models.Candle{Open: 20, High: 20.1, Low: 19.9, Close: 20.05, Volume: 1000})
	}
	out = append(out, models.Candle{Open: 19.95, High: 20.08, Low: 19.89, Close: 20.06, Volume: 3000})
	for i := range out {
		out[i].Time = Start.Add(time.Duration(i) * step)
	}
	return out
}
