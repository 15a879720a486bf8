package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"SharkScan/internal/domain/models"
	domrepo "SharkScan/internal/domain/repository"
	"SharkScan/internal/domain/service"
	applogger "SharkScan/pkg/logger"
	"SharkScan/pkg/util"
)

// TradeConfig bounds the trade service. Zero values fall back to defaults.
type TradeConfig struct {
	SharkMinScore     int
	MinCandles        int
	MaxScanSymbols    int
	ScanConcurrency   int
	DefaultMinutes    int
	DefaultLimit      int
	DefaultInterval   domrepo.Interval
	RequireMarketOpen bool
}

func DefaultTradeConfig() TradeConfig {
	return TradeConfig{
		SharkMinScore:   70,
		MinCandles:      20,
		MaxScanSymbols:  10,
		ScanConcurrency: 4,
		DefaultMinutes:  120,
		DefaultLimit:    1000,
		DefaultInterval: domrepo.Interval1m,
	}
}

func (c TradeConfig) withDefaults() TradeConfig {
	d := DefaultTradeConfig()
	if c.SharkMinScore <= 0 {
		c.SharkMinScore = d.SharkMinScore
	}
	if c.MinCandles <= 0 {
		c.MinCandles = d.MinCandles
	}
	if c.MaxScanSymbols <= 0 {
		c.MaxScanSymbols = d.MaxScanSymbols
	}
	if c.ScanConcurrency <= 0 {
		c.ScanConcurrency = d.ScanConcurrency
	}
	if c.DefaultMinutes <= 0 {
		c.DefaultMinutes = d.DefaultMinutes
	}
	if c.DefaultLimit <= 0 {
		c.DefaultLimit = d.DefaultLimit
	}
	if c.DefaultInterval == "" {
		c.DefaultInterval = d.DefaultInterval
	}
	return c
}

// TradeService fetches candles, runs the strategy engine and the
// recommendation builder, and classifies the outcome per symbol.
type TradeService struct {
	provider  domrepo.MarketDataProvider
	runner    service.StrategyRunner
	builder   service.RecommendationBuilder
	publisher domrepo.SignalPublisher
	metrics   domrepo.Metrics
	logger    *applogger.Logger
	cfg       TradeConfig
	now       func() time.Time
}

type TradeServiceOption func(*TradeService)

func WithPublisher(p domrepo.SignalPublisher) TradeServiceOption {
	return func(s *TradeService) { s.publisher = p }
}

func WithTradeMetrics(m domrepo.Metrics) TradeServiceOption {
	return func(s *TradeService) { s.metrics = m }
}

func WithTradeLogger(l *applogger.Logger) TradeServiceOption {
	return func(s *TradeService) { s.logger = l }
}

func WithClock(now func() time.Time) TradeServiceOption {
	return func(s *TradeService) { s.now = now }
}

func NewTradeService(
	provider domrepo.MarketDataProvider,
	runner service.StrategyRunner,
	builder service.RecommendationBuilder,
	cfg TradeConfig,
	opts ...TradeServiceOption,
) *TradeService {
	s := &TradeService{
		provider: provider,
		runner:   runner,
		builder:  builder,
		cfg:      cfg.withDefaults(),
		logger:   applogger.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type GenerateSignalParams struct {
	Symbol    string
	Selection service.Selection
	RRMin     float64
	Minutes   int
	Limit     int
	Interval  domrepo.Interval
}

// GenerateSignal analyses one symbol. Upstream and data problems come back
// as a status on the outcome; the error return is reserved for bad input.
func (s *TradeService) GenerateSignal(ctx context.Context, p GenerateSignalParams) (*models.SignalOutcome, error) {
	symbol, err := normalizeSymbol(p.Symbol)
	if err != nil {
		return nil, err
	}
	if s.cfg.RequireMarketOpen && !util.IsMarketOpen(s.now()) {
		return nil, ErrMarketClosed
	}
	if p.Minutes <= 0 {
		p.Minutes = s.cfg.DefaultMinutes
	}
	if p.Limit <= 0 {
		p.Limit = s.cfg.DefaultLimit
	}
	if p.Interval == "" {
		p.Interval = s.cfg.DefaultInterval
	}

	start := time.Now()
	out := &models.SignalOutcome{Symbol: symbol, Interval: p.Interval.String()}
	defer func() {
		s.recordSignal(out.Status)
		s.observe("generate_signal", time.Since(start))
	}()

	raw, err := s.provider.Intraday(ctx, symbol, p.Limit, p.Interval)
	if err != nil {
		s.logger.Error("fetch intraday failed",
			applogger.String("symbol", symbol),
			applogger.String("interval", p.Interval.String()),
			applogger.Error(err))
		if s.metrics != nil {
			s.metrics.RecordProviderError("intraday")
		}
		out.Status = models.StatusError
		out.Reason = fmt.Sprintf("fetch failed: %v", err)
		return out, nil
	}

	series := models.NormalizeSeries(raw, util.VN).Since(time.Duration(p.Minutes) * time.Minute)
	out.Candles = len(series)
	if len(series) < s.cfg.MinCandles {
		out.Status = models.StatusInsufficientData
		out.Reason = fmt.Sprintf("insufficient data: got %d candles, need %d", len(series), s.cfg.MinCandles)
		return out, nil
	}
	last := series.Last()
	out.LastPrice = last.Close
	out.AsOf = last.Time

	run := s.runner.Run(series, p.Selection, p.Interval.String())
	rec := s.builder.Build(series, run.Signals, p.RRMin)
	out.Strategies = &run
	out.Recommendation = &rec
	out.Status, out.Reason = classify(rec, s.cfg.SharkMinScore)
	if !run.MarketState.Tradable {
		out.Reason = run.MarketState.Description
	}

	if out.Status == models.StatusTradeSignal {
		s.publish(ctx, out)
	}
	s.logger.Debug("signal generated",
		applogger.String("symbol", symbol),
		applogger.String("status", string(out.Status)),
		applogger.Int("shark_score", rec.SharkScore),
		applogger.Int("candles", out.Candles))
	return out, nil
}

// classify maps a recommendation to a status. The shark score threshold
// downgrades a valid setup without rejecting it.
func classify(rec models.TradeRecommendation, minScore int) (models.SignalStatus, string) {
	switch {
	case rec.Action != models.ActionBuy:
		return models.StatusNoTrade, rec.Reason
	case rec.SharkScore < minScore:
		return models.StatusWeakSignal, fmt.Sprintf("shark score %d below %d", rec.SharkScore, minScore)
	default:
		return models.StatusTradeSignal, ""
	}
}

type ScanParams struct {
	Symbols   []string
	Selection service.Selection
	RRMin     float64
	Minutes   int
	Limit     int
	Interval  domrepo.Interval
}

// ScanSymbols runs GenerateSignal over up to MaxScanSymbols symbols with
// bounded concurrency. One symbol failing never aborts the others.
func (s *TradeService) ScanSymbols(ctx context.Context, p ScanParams) (*models.ScanResult, error) {
	symbols := normalizeSymbols(p.Symbols)
	if len(symbols) == 0 {
		return nil, ErrNoSymbols
	}
	if len(symbols) > s.cfg.MaxScanSymbols {
		return nil, fmt.Errorf("%w: maximum %d symbols per scan, got %d", ErrTooManySymbols, s.cfg.MaxScanSymbols, len(symbols))
	}

	start := time.Now()
	outcomes := make([]*models.SignalOutcome, len(symbols))
	failures := make([]error, len(symbols))

	var g errgroup.Group
	g.SetLimit(s.cfg.ScanConcurrency)
	for i, symbol := range symbols {
		i, symbol := i, symbol
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					failures[i] = fmt.Errorf("panic: %v", r)
				}
			}()
			out, err := s.GenerateSignal(ctx, GenerateSignalParams{
				Symbol:    symbol,
				Selection: p.Selection,
				RRMin:     p.RRMin,
				Minutes:   p.Minutes,
				Limit:     p.Limit,
				Interval:  p.Interval,
			})
			outcomes[i], failures[i] = out, err
			return nil
		})
	}
	_ = g.Wait()

	res := &models.ScanResult{
		ScanID:  uuid.NewString(),
		Found:   []models.SignalOutcome{},
		NoSetup: []models.SignalOutcome{},
		Errors:  map[string]string{},
	}
	for i, symbol := range symbols {
		switch out := outcomes[i]; {
		case failures[i] != nil:
			res.Errors[symbol] = failures[i].Error()
		case out == nil:
			res.Errors[symbol] = "no result"
		case out.Status == models.StatusError:
			res.Errors[symbol] = out.Reason
		case out.Status == models.StatusTradeSignal:
			res.Found = append(res.Found, *out)
		default:
			res.NoSetup = append(res.NoSetup, *out)
		}
	}
	res.Took = time.Since(start)

	s.logger.Info("scan completed",
		applogger.String("scan_id", res.ScanID),
		applogger.Int("symbols", len(symbols)),
		applogger.Int("found", len(res.Found)),
		applogger.Int("errors", len(res.Errors)),
		applogger.Duration("took", res.Took))
	return res, nil
}

// ValidateTrade checks a long trade plan and reports its risk/reward.
func (s *TradeService) ValidateTrade(ctx context.Context, symbol string, entry, stopLoss, takeProfit float64) (*models.TradeCheck, error) {
	symbol, err := normalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	if !(stopLoss < entry && entry < takeProfit) {
		return nil, fmt.Errorf("%w: expected stop_loss < entry < take_profit", ErrInvalidTrade)
	}

	e := decimal.NewFromFloat(entry)
	risk := e.Sub(decimal.NewFromFloat(stopLoss))
	reward := decimal.NewFromFloat(takeProfit).Sub(e)
	hundred := decimal.NewFromInt(100)

	check := &models.TradeCheck{
		Symbol:     symbol,
		Entry:      entry,
		StopLoss:   stopLoss,
		TakeProfit: takeProfit,
		Risk:       risk.InexactFloat64(),
		Reward:     reward.InexactFloat64(),
		RiskReward: reward.Div(risk).Round(2).InexactFloat64(),
		RiskPct:    risk.Div(e).Mul(hundred).Round(2).InexactFloat64(),
		RewardPct:  reward.Div(e).Mul(hundred).Round(2).InexactFloat64(),
	}

	candles, err := s.provider.Intraday(ctx, symbol, 1, domrepo.Interval1m)
	switch {
	case err != nil:
		s.logger.Warn("current price unavailable", applogger.String("symbol", symbol), applogger.Error(err))
	case len(candles) > 0:
		check.CurrentPrice = models.NormalizeSeries(candles, util.VN).Last().Close
	}
	return check, nil
}

func (s *TradeService) publish(ctx context.Context, out *models.SignalOutcome) {
	if s.publisher == nil || out.Recommendation == nil {
		return
	}
	ev := &models.SignalEvent{
		ID:             uuid.NewString(),
		Symbol:         out.Symbol,
		Status:         out.Status,
		Interval:       out.Interval,
		GeneratedAt:    s.now().In(util.VN),
		Recommendation: *out.Recommendation,
	}
	if err := s.publisher.PublishSignal(ctx, ev); err != nil {
		s.logger.Error("publish signal failed", applogger.String("symbol", out.Symbol), applogger.Error(err))
	}
}

func (s *TradeService) recordSignal(status models.SignalStatus) {
	if s.metrics != nil && status != "" {
		s.metrics.RecordSignal(string(status))
	}
}

func (s *TradeService) observe(stage string, d time.Duration) {
	if s.metrics != nil {
		s.metrics.RecordLatency(stage, d.Seconds())
	}
}

func normalizeSymbol(raw string) (string, error) {
	symbol := strings.ToUpper(strings.TrimSpace(raw))
	if symbol == "" {
		return "", errors.Join(ErrInvalidSymbol, errors.New("symbol required"))
	}
	for _, r := range symbol {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return "", fmt.Errorf("%w: %q", ErrInvalidSymbol, raw)
		}
	}
	return symbol, nil
}

// normalizeSymbols upper-cases, trims and de-duplicates, keeping order.
func normalizeSymbols(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		for _, part := range strings.Split(r, ",") {
			sym := strings.ToUpper(strings.TrimSpace(part))
			if sym == "" || seen[sym] {
				continue
			}
			seen[sym] = true
			out = append(out, sym)
		}
	}
	return out
}
