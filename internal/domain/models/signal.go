package models

import "time"

// SignalKind tags the detector variant a Signal came from.
type SignalKind string

const (
	SignalOrderBlock SignalKind = "order_block"
	SignalBOS        SignalKind = "bos"
	SignalSpring     SignalKind = "spring"
)

// Zone is a price band, low <= high.
type Zone struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Mid returns the zone midpoint.
func (z Zone) Mid() float64 { return (z.Low + z.High) / 2 }

// Signal is one detector match. Only the fields of its Kind are set:
// order_block uses Zone, bos uses Close and VWAP, spring uses Close and RangeLow.
type Signal struct {
	Kind           SignalKind `json:"kind"`
	Time           time.Time  `json:"time"`
	RelativeVolume float64    `json:"relative_volume"`

	Zone     *Zone   `json:"zone,omitempty"`
	Close    float64 `json:"close,omitempty"`
	VWAP     float64 `json:"vwap,omitempty"`
	RangeLow float64 `json:"range_low,omitempty"`
}

// Params are per-detector numeric overrides, e.g. {"window": 10}.
type Params map[string]float64

// Get returns p[key] or def when absent.
func (p Params) Get(key string, def float64) float64 {
	if v, ok := p[key]; ok {
		return v
	}
	return def
}

// Meta describes how a detector ran.
type Meta struct {
	Strategy  string             `json:"strategy"`
	Inputs    map[string]float64 `json:"inputs,omitempty"`
	Count     int                `json:"count"`
	Candles   int                `json:"candles"`
	Notes     []string           `json:"notes,omitempty"`
	Error     string             `json:"error,omitempty"`
	ErrorKind ErrorKind          `json:"error_kind,omitempty"`
}

// ErrorKind separates a rejected input from a detector that blew up.
type ErrorKind string

const (
	// ErrorKindValidation covers too few candles and bad parameters.
	ErrorKindValidation  ErrorKind = "validation"
	ErrorKindComputation ErrorKind = "computation"
)

// DetectorResult is the well-formed output of every detector call.
type DetectorResult struct {
	Signals []Signal `json:"signals"`
	Meta    Meta     `json:"meta"`
}

// Latest returns the most recent signal.
func (r DetectorResult) Latest() (Signal, bool) {
	if len(r.Signals) == 0 {
		return Signal{}, false
	}
	return r.Signals[len(r.Signals)-1], true
}

// SignalsByStrategy maps strategy name to its detector result.
type SignalsByStrategy map[string]DetectorResult

// Total counts signals across all strategies.
func (m SignalsByStrategy) Total() int {
	n := 0
	for _, r := range m {
		n += len(r.Signals)
	}
	return n
}
