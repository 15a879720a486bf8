package usecase

import (
	"context"
	"fmt"
	"time"

	"SharkScan/internal/domain/models"
	domrepo "SharkScan/internal/domain/repository"
	"SharkScan/internal/domain/service"
	"SharkScan/pkg/util"
)

// CandlesUseCase serves normalized candle windows, optionally with a
// strategy run over them.
type CandlesUseCase struct {
	provider domrepo.MarketDataProvider
	runner   service.StrategyRunner
}

func NewCandlesUseCase(provider domrepo.MarketDataProvider, runner service.StrategyRunner) *CandlesUseCase {
	return &CandlesUseCase{provider: provider, runner: runner}
}

type LastMinutesParams struct {
	Symbol    string
	Minutes   int
	Limit     int
	Interval  domrepo.Interval
	Selection service.Selection
}

type HistoryParams struct {
	Symbol    string
	Start     time.Time
	End       time.Time
	Interval  domrepo.Interval
	Selection service.Selection
}

type CandlesResult struct {
	Symbol     string              `json:"symbol"`
	Interval   string              `json:"interval"`
	From       time.Time           `json:"from,omitempty"`
	To         time.Time           `json:"to,omitempty"`
	Count      int                 `json:"count"`
	Candles    []models.Candle     `json:"records"`
	Strategies *models.StrategyRun `json:"strategies,omitempty"`
}

// LastMinutes returns the candles of the last p.Minutes, measured back from
// the newest candle.
func (uc *CandlesUseCase) LastMinutes(ctx context.Context, p LastMinutesParams) (*CandlesResult, error) {
	symbol, err := normalizeSymbol(p.Symbol)
	if err != nil {
		return nil, err
	}
	if p.Minutes <= 0 {
		p.Minutes = 120
	}
	if p.Limit <= 0 {
		p.Limit = 1000
	}
	if p.Interval == "" {
		p.Interval = domrepo.DefaultInterval()
	}

	raw, err := uc.provider.Intraday(ctx, symbol, p.Limit, p.Interval)
	if err != nil {
		return nil, fmt.Errorf("get intraday: %w", err)
	}
	series := models.NormalizeSeries(raw, util.VN).Since(time.Duration(p.Minutes) * time.Minute)
	return uc.result(symbol, p.Interval, series, p.Selection), nil
}

// History returns candles between start and end (end defaults to now).
func (uc *CandlesUseCase) History(ctx context.Context, p HistoryParams) (*CandlesResult, error) {
	symbol, err := normalizeSymbol(p.Symbol)
	if err != nil {
		return nil, err
	}
	if p.End.IsZero() {
		p.End = util.NowVN()
	}
	if p.Start.IsZero() || p.Start.After(p.End) {
		return nil, fmt.Errorf("%w: start must be set and <= end", ErrInvalidRange)
	}
	if p.Interval == "" {
		p.Interval = domrepo.Interval1d
	}

	raw, err := uc.provider.History(ctx, symbol, p.Start, p.End, p.Interval)
	if err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}
	res := uc.result(symbol, p.Interval, models.NormalizeSeries(raw, util.VN), p.Selection)
	res.From, res.To = p.Start, p.End
	return res, nil
}

func (uc *CandlesUseCase) result(symbol string, iv domrepo.Interval, series models.Series, sel service.Selection) *CandlesResult {
	res := &CandlesResult{
		Symbol:   symbol,
		Interval: iv.String(),
		Count:    len(series),
		Candles:  series,
	}
	if len(series) > 0 {
		res.From, res.To = series[0].Time, series.Last().Time
	}
	if len(sel) > 0 && uc.runner != nil && len(series) > 0 {
		run := uc.runner.Run(series, sel, iv.String())
		res.Strategies = &run
	}
	return res
}
