package repository

import (
	"fmt"
	"strings"
	"time"
)

// Interval is a candle resolution.
type Interval string

const (
	Interval1m  Interval = "1m"
	Interval5m  Interval = "5m"
	Interval15m Interval = "15m"
	Interval30m Interval = "30m"
	Interval1h  Interval = "1h"
	Interval1d  Interval = "1d"
)

// aliases maps pandas-style offsets used by upstream quote services.
var aliases = map[string]Interval{
	"1t": Interval1m, "1min": Interval1m,
	"5t": Interval5m, "5min": Interval5m,
	"15t": Interval15m, "15min": Interval15m,
	"30t": Interval30m, "30min": Interval30m,
	"60m": Interval1h, "1h": Interval1h,
	"d": Interval1d, "1d": Interval1d,
}

var durations = map[Interval]time.Duration{
	Interval1m:  time.Minute,
	Interval5m:  5 * time.Minute,
	Interval15m: 15 * time.Minute,
	Interval30m: 30 * time.Minute,
	Interval1h:  time.Hour,
	Interval1d:  24 * time.Hour,
}

// DefaultInterval returns the default resolution.
func DefaultInterval() Interval { return Interval1m }

// ParseInterval accepts both "5m" and "5T" styles.
func ParseInterval(s string) (Interval, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return DefaultInterval(), nil
	}
	if iv, ok := aliases[key]; ok {
		return iv, nil
	}
	if _, ok := durations[Interval(key)]; ok {
		return Interval(key), nil
	}
	return "", fmt.Errorf("unsupported interval %q", s)
}

// NormalizeInterval converts raw string to a valid interval (or default).
func NormalizeInterval(s string) Interval {
	iv, err := ParseInterval(s)
	if err != nil {
		return DefaultInterval()
	}
	return iv
}

// Duration returns the bucket width.
func (i Interval) Duration() time.Duration { return durations[i] }

func (i Interval) String() string { return string(i) }

// Intraday reports whether the interval is shorter than a trading day.
func (i Interval) Intraday() bool { return i.Duration() < 24*time.Hour }
