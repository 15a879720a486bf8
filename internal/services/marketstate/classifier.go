package marketstate

import (
	"SharkScan/internal/domain/models"
	"SharkScan/internal/domain/service"
	"SharkScan/internal/services/indicator"
)

const (
	atrPeriod      = 14
	relVolWindow   = 20
	minATRPct      = 0.003
	minPriceRange  = 0.01
	lowVolatileMsg = "sideways, low liquidity — unsuitable for trading"
)

// Classifier gates series that are too quiet to produce meaningful signals.
type Classifier struct{}

var _ service.MarketAnalyzer = Classifier{}

func New() Classifier { return Classifier{} }

// Analyze is a pure function of series.
func (Classifier) Analyze(series models.Series) models.MarketState {
	state := models.MarketState{Type: models.MarketNormal, Tradable: true}
	if len(series) == 0 {
		state.Type = models.MarketLowVolatility
		state.Tradable = false
		state.Description = lowVolatileMsg
		return state
	}

	closes := series.Closes()
	highs := series.Highs()
	lows := series.Lows()
	volumes := series.Volumes()

	lastClose := closes[len(closes)-1]
	if atr := indicator.Last(indicator.ATR(highs, lows, closes, atrPeriod)); indicator.Valid(atr) && lastClose > 0 {
		state.ATRPct = atr / lastClose
	}

	_, hi := indicator.MinMax(highs)
	lo, _ := indicator.MinMax(lows)
	if mean := indicator.Mean(closes); mean > 0 {
		state.PriceRange = (hi - lo) / mean
	}

	tail := volumes
	if len(tail) > relVolWindow {
		tail = tail[len(tail)-relVolWindow:]
	}
	if mean := indicator.Mean(volumes); mean > 0 {
		state.RelVol = indicator.Mean(tail) / mean
	}

	if state.ATRPct < minATRPct && state.PriceRange < minPriceRange {
		state.Type = models.MarketLowVolatility
		state.Tradable = false
		state.Description = lowVolatileMsg
	}
	return state
}
