package models

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"
)

var (
	ErrEmptySeries      = errors.New("empty candle series")
	ErrInsufficientData = errors.New("insufficient data")
	ErrMissingColumns   = errors.New("missing required columns")
	ErrInvalidCandle    = errors.New("invalid candle")
	ErrUnorderedSeries  = errors.New("candle times must be strictly increasing")
)

// RequiredColumns are the fields every candle record must carry.
var RequiredColumns = []string{"time", "open", "high", "low", "close", "volume"}

// Candle is one OHLCV bucket.
type Candle struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// Bearish reports close < open.
func (c Candle) Bearish() bool { return c.Close < c.Open }

// Body is the absolute open/close distance.
func (c Candle) Body() float64 { return math.Abs(c.Close - c.Open) }

// UpperWick is the distance from the top of the body to the high.
func (c Candle) UpperWick() float64 { return c.High - math.Max(c.Open, c.Close) }

// Check verifies finiteness and low <= min(open,close) <= max(open,close) <= high.
func (c Candle) Check() error {
	for _, v := range []float64{c.Open, c.High, c.Low, c.Close} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite price at %s", ErrInvalidCandle, c.Time.Format(time.RFC3339))
		}
	}
	if c.Volume < 0 {
		return fmt.Errorf("%w: negative volume at %s", ErrInvalidCandle, c.Time.Format(time.RFC3339))
	}
	lo, hi := math.Min(c.Open, c.Close), math.Max(c.Open, c.Close)
	if c.Low > lo || hi > c.High {
		return fmt.Errorf("%w: OHLC out of range at %s", ErrInvalidCandle, c.Time.Format(time.RFC3339))
	}
	return nil
}

// Series is an ascending-by-time sequence of candles. Consumers treat it as
// read-only and copy before deriving working columns.
type Series []Candle

// Validate checks the series has at least minLen well-formed, strictly
// increasing candles.
func (s Series) Validate(minLen int) error {
	if len(s) == 0 {
		return ErrEmptySeries
	}
	if len(s) < minLen {
		return fmt.Errorf("%w: need %d candles, got %d", ErrInsufficientData, minLen, len(s))
	}
	for i, c := range s {
		if err := c.Check(); err != nil {
			return err
		}
		if i > 0 && !c.Time.After(s[i-1].Time) {
			return fmt.Errorf("%w (index %d)", ErrUnorderedSeries, i)
		}
	}
	return nil
}

// Clone returns an independent copy.
func (s Series) Clone() Series {
	out := make(Series, len(s))
	copy(out, s)
	return out
}

func (s Series) Last() Candle { return s[len(s)-1] }

// Tail returns the last n candles (or all of them).
func (s Series) Tail(n int) Series {
	if n <= 0 || n >= len(s) {
		return s
	}
	return s[len(s)-n:]
}

// Since keeps candles at or after the last candle time minus d.
func (s Series) Since(d time.Duration) Series {
	if len(s) == 0 || d <= 0 {
		return s
	}
	cutoff := s.Last().Time.Add(-d)
	idx := sort.Search(len(s), func(i int) bool { return !s[i].Time.Before(cutoff) })
	return s[idx:]
}

func (s Series) Opens() []float64  { return s.column(func(c Candle) float64 { return c.Open }) }
func (s Series) Highs() []float64  { return s.column(func(c Candle) float64 { return c.High }) }
func (s Series) Lows() []float64   { return s.column(func(c Candle) float64 { return c.Low }) }
func (s Series) Closes() []float64 { return s.column(func(c Candle) float64 { return c.Close }) }
func (s Series) Volumes() []float64 {
	return s.column(func(c Candle) float64 { return float64(c.Volume) })
}

func (s Series) column(f func(Candle) float64) []float64 {
	out := make([]float64, len(s))
	for i, c := range s {
		out[i] = f(c)
	}
	return out
}

// NormalizeSeries converts times to loc, sorts ascending, keeps the last
// record for duplicate timestamps and drops malformed candles. The input is
// not modified.
func NormalizeSeries(in []Candle, loc *time.Location) Series {
	if len(in) == 0 {
		return Series{}
	}
	out := make(Series, 0, len(in))
	for _, c := range in {
		if c.Time.IsZero() || c.Check() != nil {
			continue
		}
		if loc != nil {
			c.Time = c.Time.In(loc)
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })

	dedup := out[:0]
	for _, c := range out {
		if n := len(dedup); n > 0 && dedup[n-1].Time.Equal(c.Time) {
			dedup[n-1] = c
			continue
		}
		dedup = append(dedup, c)
	}
	return dedup
}

// Resample aggregates an ascending series into buckets of width d
// (first open, max high, min low, last close, summed volume).
func Resample(s Series, d time.Duration) Series {
	if d <= 0 || len(s) == 0 {
		return s
	}
	out := make(Series, 0, len(s))
	for _, c := range s {
		bucket := bucketStart(c.Time, d)
		if n := len(out); n > 0 && out[n-1].Time.Equal(bucket) {
			b := &out[n-1]
			b.High = math.Max(b.High, c.High)
			b.Low = math.Min(b.Low, c.Low)
			b.Close = c.Close
			b.Volume += c.Volume
			continue
		}
		c.Time = bucket
		out = append(out, c)
	}
	return out
}

// bucketStart truncates t to d. Daily buckets start at local midnight, not UTC.
func bucketStart(t time.Time, d time.Duration) time.Time {
	if d%(24*time.Hour) == 0 {
		y, m, day := t.Date()
		return time.Date(y, m, day, 0, 0, 0, 0, t.Location())
	}
	return t.Truncate(d)
}
