package util

import (
	"strconv"
	"time"
)

// VN is the exchange timezone (HOSE/HNX/UPCoM). A fixed zone keeps the
// binary independent of the host tzdata.
var VN = time.FixedZone("Asia/Ho_Chi_Minh", 7*3600)

const (
	marketOpenHour  = 9
	marketCloseHour = 15
)

// naive layouts are interpreted as VN local time.
var naiveLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTime tries RFC3339, RFC3339Nano, unix seconds and the naive VN layouts.
// Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		return time.Unix(ts, 0).In(VN), true
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, VN); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseTimeDefault parses time or returns default if empty/invalid.
func ParseTimeDefault(s string, def time.Time) time.Time {
	if t, ok := ParseTime(s); ok {
		return t
	}
	return def
}

// ToVN converts t to exchange time.
func ToVN(t time.Time) time.Time {
	return t.In(VN)
}

// NowVN returns the current exchange time.
func NowVN() time.Time {
	return time.Now().In(VN)
}

// IsMarketOpen reports whether t falls in the 09:00-15:00 trading window on a weekday.
func IsMarketOpen(t time.Time) bool {
	t = ToVN(t)
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	open := time.Date(t.Year(), t.Month(), t.Day(), marketOpenHour, 0, 0, 0, VN)
	closeAt := time.Date(t.Year(), t.Month(), t.Day(), marketCloseHour, 0, 0, 0, VN)
	return !t.Before(open) && !t.After(closeAt)
}

// AlignFromTo rounds the time range down to bucket boundaries of d.
func AlignFromTo(from, to time.Time, d time.Duration) (time.Time, time.Time) {
	if d <= 0 {
		d = time.Minute
	}
	return from.Truncate(d), to.Truncate(d)
}
