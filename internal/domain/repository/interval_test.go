package repository

import (
	"testing"
	"time"
)

func TestParseInterval(t *testing.T) {
	cases := map[string]Interval{
		"":    Interval1m,
		"1T":  Interval1m,
		"5m":  Interval5m,
		"15T": Interval15m,
		"1H":  Interval1h,
		"D":   Interval1d,
	}
	for in, want := range cases {
		got, err := ParseInterval(in)
		if err != nil {
			t.Fatalf("ParseInterval(%q) error: %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseInterval(%q) = %s, want %s", in, got, want)
		}
	}
	if _, err := ParseInterval("7x"); err == nil {
		t.Fatalf("expected error for unsupported interval")
	}
}

func TestIntervalDuration(t *testing.T) {
	if Interval15m.Duration() != 15*time.Minute {
		t.Fatalf("unexpected duration %v", Interval15m.Duration())
	}
	if Interval1d.Intraday() || !Interval5m.Intraday() {
		t.Fatalf("intraday classification wrong")
	}
	if NormalizeInterval("bogus") != DefaultInterval() {
		t.Fatalf("expected default for bogus interval")
	}
}
