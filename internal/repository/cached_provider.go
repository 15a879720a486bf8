package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"SharkScan/internal/domain/models"
	domrepo "SharkScan/internal/domain/repository"
	"SharkScan/pkg/cache"
	applogger "SharkScan/pkg/logger"
)

// CachedProvider memoizes candle fetches of another provider. Cache failures
// are logged and fall through to the wrapped provider.
type CachedProvider struct {
	next       domrepo.MarketDataProvider
	store      cache.Store
	ttl        time.Duration
	historyTTL time.Duration
	l          *applogger.Logger
}

var _ domrepo.MarketDataProvider = (*CachedProvider)(nil)

type CacheOption func(*CachedProvider)

// WithIntradayTTL sets how long intraday windows stay cached.
func WithIntradayTTL(d time.Duration) CacheOption {
	return func(p *CachedProvider) { p.ttl = d }
}

// WithHistoryTTL sets how long history ranges stay cached.
func WithHistoryTTL(d time.Duration) CacheOption {
	return func(p *CachedProvider) { p.historyTTL = d }
}

func WithCacheLogger(l *applogger.Logger) CacheOption {
	return func(p *CachedProvider) { p.l = l }
}

func NewCachedProvider(next domrepo.MarketDataProvider, store cache.Store, opts ...CacheOption) *CachedProvider {
	p := &CachedProvider{
		next:       next,
		store:      store,
		ttl:        30 * time.Second,
		historyTTL: 10 * time.Minute,
		l:          applogger.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *CachedProvider) Intraday(ctx context.Context, symbol string, limit int, interval domrepo.Interval) ([]models.Candle, error) {
	key := cache.Key("candles", "intraday", strings.ToUpper(symbol), interval, limit)
	return p.cached(ctx, key, p.ttl, func() ([]models.Candle, error) {
		return p.next.Intraday(ctx, symbol, limit, interval)
	})
}

func (p *CachedProvider) History(ctx context.Context, symbol string, start, end time.Time, interval domrepo.Interval) ([]models.Candle, error) {
	key := cache.Key("candles", "history", strings.ToUpper(symbol), interval, start.Unix(), end.Unix())
	return p.cached(ctx, key, p.historyTTL, func() ([]models.Candle, error) {
		return p.next.History(ctx, symbol, start, end, interval)
	})
}

func (p *CachedProvider) cached(ctx context.Context, key string, ttl time.Duration, load func() ([]models.Candle, error)) ([]models.Candle, error) {
	got, err := cache.GetJSON[[]models.Candle](ctx, p.store, key)
	switch {
	case err == nil:
		return got, nil
	case !errors.Is(err, cache.ErrCacheMiss):
		p.l.Warn("candle cache read failed", applogger.String("key", key), applogger.Error(err))
	}

	candles, err := load()
	if err != nil || len(candles) == 0 {
		return candles, err
	}
	if err := cache.SetJSON(ctx, p.store, key, candles, ttl); err != nil {
		p.l.Warn("candle cache write failed", applogger.String("key", key), applogger.Error(err))
	}
	return candles, nil
}
