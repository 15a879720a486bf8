// Package builder turns detector output into a scored trade recommendation.
package builder

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"SharkScan/internal/domain/models"
	"SharkScan/internal/domain/service"
	"SharkScan/internal/services/indicator"
	"SharkScan/internal/services/strategy"
)

const (
	emaFastPeriod = 10
	emaSlowPeriod = 21
	atrPeriod     = 14
	rsiPeriod     = 14
	driftWindow   = 30

	trendPoints      = 10
	flatTrendPoints  = 3
	driftPoints      = 5
	smcPoints        = 20
	orderBlockPoints = 20
	wyckoffPoints    = 15
	rrPoints         = 2

	flatTrendATR   = 0.2
	driftThreshold = 0.6
	stopATR        = 1.2
	targetATR      = 2.5
	maxConfidence  = 0.95

	reasonNoSetup  = "No structure / No setup"
	reasonRRNotMet = "RR not met"
)

type Config struct {
	RRMin         float64
	SharkMinScore int
	MinCandles    int
}

func DefaultConfig() Config {
	return Config{RRMin: 2.0, SharkMinScore: 70, MinCandles: 50}
}

type Option func(*Config)

func WithRRMin(v float64) Option { return func(c *Config) { c.RRMin = v } }

func WithSharkMinScore(v int) Option { return func(c *Config) { c.SharkMinScore = v } }

// TradeSignalBuilder is stateless; Build is safe for concurrent use.
type TradeSignalBuilder struct {
	cfg Config
}

var _ service.RecommendationBuilder = (*TradeSignalBuilder)(nil)

func New(opts ...Option) *TradeSignalBuilder {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &TradeSignalBuilder{cfg: cfg}
}

func (b *TradeSignalBuilder) Config() Config { return b.cfg }

// Build scores the series and signals. rrMin <= 0 uses the configured default.
func (b *TradeSignalBuilder) Build(series models.Series, signals models.SignalsByStrategy, rrMin float64) (rec models.TradeRecommendation) {
	defer func() {
		if r := recover(); r != nil {
			rec = reject(fmt.Sprintf("computation error: %v", r), 0, models.BiasNeutral, models.ScoreDebug{}, nil)
		}
	}()

	if rrMin <= 0 {
		rrMin = b.cfg.RRMin
	}
	if err := series.Validate(b.cfg.MinCandles); err != nil {
		return reject(err.Error(), 0, models.BiasNeutral, models.ScoreDebug{}, nil)
	}

	closes, highs, lows := series.Closes(), series.Highs(), series.Lows()
	emaFast := indicator.Last(indicator.EMA(closes, emaFastPeriod))
	emaSlow := indicator.Last(indicator.EMA(closes, emaSlowPeriod))
	atr := indicator.Last(indicator.ATR(highs, lows, closes, atrPeriod))
	if !indicator.Valid(atr) {
		atr = 0
	}
	rsi := indicator.Last(indicator.RSI(closes, rsiPeriod))

	var (
		score   int
		bias    = models.BiasNeutral
		reasons []string
		debug   models.ScoreDebug
	)

	trend := &models.TrendDebug{
		EMA10: round(emaFast, 4),
		EMA21: round(emaSlow, 4),
		ATR:   round(atr, 4),
		RSI:   round(rsi, 2),
	}
	switch {
	case emaFast > emaSlow:
		trend.Score = trendPoints
		bias = models.BiasBullish
		reasons = append(reasons, "EMA10 > EMA21 (bullish context)")
	case math.Abs(emaFast-emaSlow) < atr*flatTrendATR:
		trend.Score = flatTrendPoints
		reasons = append(reasons, "EMA flat with drift")
	}
	score += trend.Score
	debug.Trend = trend

	drift := driftContext(series.Tail(driftWindow))
	if drift.Score > 0 {
		score += drift.Score
		if bias == models.BiasNeutral {
			bias = models.BiasBullish
		}
		reasons = append(reasons, "Quiet accumulation drift")
	}
	debug.Drift = drift

	setupScore := 0
	var entry float64
	if res, ok := signals[strategy.SMCName]; ok && len(res.Signals) > 0 {
		setupScore += smcPoints
		debug.SMC = &models.SetupDebug{Count: len(res.Signals), Score: smcPoints}
		reasons = append(reasons, "BOS confirmed")
	}
	if res, ok := signals[strategy.OrderBlockName]; ok && len(res.Signals) > 0 {
		d := &models.SetupDebug{Count: len(res.Signals)}
		if last, _ := res.Latest(); last.Zone != nil && last.Zone.Low > 0 && last.Zone.High > 0 {
			setupScore += orderBlockPoints
			entry = round(last.Zone.Mid(), 2)
			d.Entry = entry
			d.Score = orderBlockPoints
			reasons = append(reasons, "Valid order block")
		}
		debug.OrderBlock = d
	}
	if res, ok := signals[strategy.WyckoffName]; ok && len(res.Signals) > 0 {
		setupScore += wyckoffPoints
		debug.Wyckoff = &models.SetupDebug{Count: len(res.Signals), Score: wyckoffPoints}
		reasons = append(reasons, "Wyckoff spring")
	}
	score += setupScore

	if setupScore == 0 {
		reasons = append(reasons, reasonNoSetup)
		return reject(reasonNoSetup, score, models.BiasNeutral, debug, reasons)
	}

	if entry == 0 {
		entry = closes[len(closes)-1]
	}
	levels := riskModel(entry, atr)
	debug.RR = &models.RRDebug{Value: levels.rr, Min: rrMin}
	// The gate sees the raw ratio; only the reported figure is rounded.
	if levels.rr < rrMin {
		reasons = append(reasons, fmt.Sprintf("RR not met (%.4f < %.2f)", levels.rr, rrMin))
		return reject(reasonRRNotMet, score, bias, debug, reasons)
	}
	score += rrPoints
	debug.RR.Score = rrPoints
	reasons = append(reasons, fmt.Sprintf("RR %.2f >= %.2f", round(levels.rr, 2), rrMin))

	rec = models.TradeRecommendation{
		Action:     models.ActionBuy,
		Bias:       bias,
		Entry:      ptr(levels.entry),
		StopLoss:   ptr(levels.stopLoss),
		TakeProfit: ptr(levels.takeProfit),
		RiskReward: ptr(round(levels.rr, 2)),
		SharkScore: score,
		Confidence: confidence(score),
		Reasons:    reasons,
		Debug:      debug,
	}
	if score < b.cfg.SharkMinScore {
		rec.Note = fmt.Sprintf("shark score %d below threshold %d", score, b.cfg.SharkMinScore)
	}
	return rec
}

func reject(reason string, score int, bias models.Bias, debug models.ScoreDebug, reasons []string) models.TradeRecommendation {
	if reasons == nil {
		reasons = []string{reason}
	}
	return models.TradeRecommendation{
		Action:     models.ActionNoTrade,
		Bias:       bias,
		SharkScore: score,
		Confidence: confidence(score),
		Reason:     reason,
		Reasons:    reasons,
		Debug:      debug,
	}
}

// driftContext rewards a steady climb that covers most of the window's range.
func driftContext(window models.Series) *models.DriftDebug {
	d := &models.DriftDebug{}
	if len(window) < 2 {
		return d
	}
	lo, _ := indicator.MinMax(window.Lows())
	_, hi := indicator.MinMax(window.Highs())
	d.Change = window.Last().Close - window[0].Close
	d.Range = hi - lo
	d.Ratio = round(d.Change/math.Max(d.Range, 1e-6), 4)
	if d.Change > 0 && d.Ratio > driftThreshold {
		d.Score = driftPoints
	}
	return d
}

// riskLevels carries the unrounded ratio; prices are already at tick precision.
type riskLevels struct {
	entry, stopLoss, takeProfit, rr float64
}

// riskModel places stop and target at fixed ATR multiples around entry.
func riskModel(entry, atr float64) riskLevels {
	e := decimal.NewFromFloat(entry).Round(2)
	a := decimal.NewFromFloat(atr)
	sl := e.Sub(a.Mul(decimal.NewFromFloat(stopATR))).Round(2)
	tp := e.Add(a.Mul(decimal.NewFromFloat(targetATR))).Round(2)

	out := riskLevels{
		entry:      e.InexactFloat64(),
		stopLoss:   sl.InexactFloat64(),
		takeProfit: tp.InexactFloat64(),
	}
	risk := e.Sub(sl)
	if risk.IsPositive() {
		out.rr = tp.Sub(e).Div(risk).InexactFloat64()
	}
	return out
}

func confidence(score int) float64 {
	if score < 0 {
		return 0
	}
	return round(math.Min(float64(score)/100, maxConfidence), 2)
}

func round(v float64, places int32) float64 {
	if !indicator.Valid(v) {
		return 0
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

func ptr(v float64) *float64 { return &v }
