package usecase

import domrepo "SharkScan/internal/domain/repository"

// TimeframePreset is the fetch window used for a trade signal timeframe.
type TimeframePreset struct {
	Interval domrepo.Interval
	Minutes  int
	Limit    int
}

var timeframePresets = map[string]TimeframePreset{
	"1m":  {Interval: domrepo.Interval1m, Minutes: 3 * 24 * 60, Limit: 300},
	"5m":  {Interval: domrepo.Interval5m, Minutes: 10 * 24 * 60, Limit: 500},
	"15m": {Interval: domrepo.Interval15m, Minutes: 30 * 24 * 60, Limit: 500},
}

// PresetFor returns the preset for tf, defaulting to 1m.
func PresetFor(tf string) TimeframePreset {
	if p, ok := timeframePresets[tf]; ok {
		return p
	}
	return timeframePresets["1m"]
}
