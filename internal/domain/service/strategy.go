package service

import "SharkScan/internal/domain/models"

// Detector scans a series for one pattern. Apply never panics past its
// boundary and never modifies series.
type Detector interface {
	Name() string
	Apply(series models.Series, params models.Params) models.DetectorResult
}

// MarketAnalyzer decides whether a series is worth analysing.
type MarketAnalyzer interface {
	Analyze(series models.Series) models.MarketState
}

// StrategyRunner runs the market-state gate and a selection of detectors.
type StrategyRunner interface {
	Run(series models.Series, selection Selection, interval string) models.StrategyRun
}

// RecommendationBuilder fuses detector output into a trade recommendation.
type RecommendationBuilder interface {
	Build(series models.Series, signals models.SignalsByStrategy, rrMin float64) models.TradeRecommendation
}

// StrategySpec names a detector and its parameter overrides.
type StrategySpec struct {
	Name   string
	Params models.Params
}

// Selection is an ordered, de-duplicated list of detectors to run.
type Selection []StrategySpec

// Names lists the selected strategy names in order.
func (s Selection) Names() []string {
	out := make([]string, len(s))
	for i, spec := range s {
		out[i] = spec.Name
	}
	return out
}
