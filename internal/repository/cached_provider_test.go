package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SharkScan/internal/domain/models"
	domrepo "SharkScan/internal/domain/repository"
	"SharkScan/pkg/cache"
	"SharkScan/pkg/util"
)

type countingProvider struct {
	calls   int
	candles []models.Candle
}

func (p *countingProvider) Intraday(context.Context, string, int, domrepo.Interval) ([]models.Candle, error) {
	p.calls++
	return p.candles, nil
}

func (p *countingProvider) History(context.Context, string, time.Time, time.Time, domrepo.Interval) ([]models.Candle, error) {
	p.calls++
	return p.candles, nil
}

func TestCachedProvider_HitsCacheOnSecondCall(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryCache(cache.WithMemoryCleanup(0))
	defer store.Close()

	ts := time.Date(2025, 3, 3, 9, 15, 0, 0, util.VN)
	next := &countingProvider{candles: []models.Candle{{Time: ts, Open: 10, High: 11, Low: 9, Close: 10.5, Volume: 1200}}}
	p := NewCachedProvider(next, store)

	first, err := p.Intraday(ctx, "hpg", 100, domrepo.Interval5m)
	require.NoError(t, err)
	second, err := p.Intraday(ctx, "HPG", 100, domrepo.Interval5m)
	require.NoError(t, err)

	assert.Equal(t, 1, next.calls)
	require.Len(t, second, 1)
	assert.True(t, first[0].Time.Equal(second[0].Time))
	assert.Equal(t, int64(1200), second[0].Volume)
}

func TestCachedProvider_EmptyResultNotCached(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryCache(cache.WithMemoryCleanup(0))
	defer store.Close()

	next := &countingProvider{}
	p := NewCachedProvider(next, store)
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, util.VN)

	for i := 0; i < 2; i++ {
		got, err := p.History(ctx, "VNM", start, start.AddDate(0, 1, 0), domrepo.Interval1d)
		require.NoError(t, err)
		assert.Empty(t, got)
	}
	assert.Equal(t, 2, next.calls)
}
