package engine

import (
	"fmt"
	"math"
	"time"

	"SharkScan/internal/domain/models"
	"SharkScan/internal/domain/repository"
	"SharkScan/internal/domain/service"
	"SharkScan/internal/services/marketstate"
	"SharkScan/internal/services/strategy"
	applogger "SharkScan/pkg/logger"
)

const (
	noTradeConfidence  = 0.05
	noSignalConfidence = 0.1
	perSignalWeight    = 0.25
	noConfirmation     = "No structure / No confirmation"
	noisyTimeframe     = "1m timeframe too noisy, retry with a larger candle interval"
)

var suggestedTimeframes = []string{"5m", "15m", "1h"}

// Engine gates a series on market state and runs the selected detectors.
// It holds no per-call state and is safe for concurrent use.
type Engine struct {
	analyzer service.MarketAnalyzer
	lookup   func(name string) (service.Detector, bool)
	logger   *applogger.Logger
	metrics  repository.Metrics
}

var _ service.StrategyRunner = (*Engine)(nil)

type Option func(*Engine)

func WithLogger(l *applogger.Logger) Option { return func(e *Engine) { e.logger = l } }

func WithMetrics(m repository.Metrics) Option { return func(e *Engine) { e.metrics = m } }

func WithAnalyzer(a service.MarketAnalyzer) Option { return func(e *Engine) { e.analyzer = a } }

// WithLookup replaces the strategy registry, mainly for tests.
func WithLookup(f func(string) (service.Detector, bool)) Option {
	return func(e *Engine) { e.lookup = f }
}

func New(opts ...Option) *Engine {
	e := &Engine{
		analyzer: marketstate.New(),
		lookup:   strategy.Lookup,
		logger:   applogger.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run classifies the series, then applies every known detector in selection.
func (e *Engine) Run(series models.Series, selection service.Selection, interval string) models.StrategyRun {
	start := time.Now()
	defer func() { e.observe("strategies", time.Since(start)) }()

	state := e.analyzer.Analyze(series)
	if !state.Tradable {
		return models.StrategyRun{
			MarketState: state,
			Signal: models.OverviewSignal{
				Bias:       models.BiasNeutral,
				Action:     models.ActionNoTrade,
				Confidence: noTradeConfidence,
				Reason:     state.Description,
				ValidFor:   interval,
			},
			Signals: models.SignalsByStrategy{},
			Suggestion: &models.Suggestion{
				TryTimeframes: append([]string(nil), suggestedTimeframes...),
				Reason:        noisyTimeframe,
			},
		}
	}

	results := make(models.SignalsByStrategy, len(selection))
	for _, item := range selection {
		detector, ok := e.lookup(item.Name)
		if !ok {
			e.logger.Warn("unknown strategy skipped", applogger.String("strategy", item.Name))
			continue
		}
		name := detector.Name()
		res := e.apply(detector, item, series)
		switch res.Meta.ErrorKind {
		case models.ErrorKindComputation:
			e.logger.Warn("strategy failed",
				applogger.String("strategy", name),
				applogger.String("reason", res.Meta.Error),
				applogger.Int("candles", len(series)))
			if e.metrics != nil {
				e.metrics.RecordDetectorError(name)
			}
		case models.ErrorKindValidation:
			e.logger.Debug("strategy skipped input",
				applogger.String("strategy", name),
				applogger.String("reason", res.Meta.Error),
				applogger.Int("candles", len(series)))
		}
		results[name] = res
	}

	return models.StrategyRun{
		MarketState: state,
		Signal:      overview(results.Total(), interval),
		Signals:     results,
	}
}

// apply isolates one detector: a panic becomes an empty, annotated result.
func (e *Engine) apply(d service.Detector, item service.StrategySpec, series models.Series) (res models.DetectorResult) {
	defer func() {
		if r := recover(); r != nil {
			res = models.DetectorResult{
				Signals: []models.Signal{},
				Meta: models.Meta{
					Strategy:  d.Name(),
					Count:     0,
					Candles:   len(series),
					Error:     fmt.Sprintf("%v", r),
					ErrorKind: models.ErrorKindComputation,
				},
			}
		}
	}()
	res = d.Apply(series, item.Params)
	if res.Signals == nil {
		res.Signals = []models.Signal{}
	}
	return res
}

func overview(total int, interval string) models.OverviewSignal {
	if total == 0 {
		return models.OverviewSignal{
			Bias:       models.BiasNeutral,
			Action:     models.ActionNoTrade,
			Confidence: noSignalConfidence,
			Reason:     noConfirmation,
			ValidFor:   interval,
		}
	}
	return models.OverviewSignal{
		Bias:       models.BiasLong,
		Action:     models.ActionWatch,
		Confidence: math.Min(perSignalWeight*float64(total), 1.0),
		Reason:     fmt.Sprintf("%d signal(s) across strategies", total),
		ValidFor:   interval,
	}
}

func (e *Engine) observe(stage string, d time.Duration) {
	if e.metrics != nil {
		e.metrics.RecordLatency(stage, d.Seconds())
	}
}
