package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SharkScan/internal/domain/models"
	domrepo "SharkScan/internal/domain/repository"
	"SharkScan/internal/services/engine"
	"SharkScan/internal/services/strategy"
	"SharkScan/internal/testutil"
)

func TestLastMinutes(t *testing.T) {
	provider := &fakeProvider{series: map[string]models.Series{"HPG": testutil.Ascending(120, 20, time.Minute)}}
	uc := NewCandlesUseCase(provider, engine.New())

	res, err := uc.LastMinutes(context.Background(), LastMinutesParams{Symbol: "hpg", Minutes: 30})
	require.NoError(t, err)
	assert.Equal(t, "HPG", res.Symbol)
	assert.Equal(t, 31, res.Count)
	assert.Nil(t, res.Strategies)
	assert.Equal(t, res.Candles[0].Time, res.From)
}

func TestLastMinutesWithStrategies(t *testing.T) {
	provider := &fakeProvider{series: map[string]models.Series{"HPG": testutil.OrderBlockSetup(260, 250, time.Minute)}}
	uc := NewCandlesUseCase(provider, engine.New())

	res, err := uc.LastMinutes(context.Background(), LastMinutesParams{
		Symbol:    "HPG",
		Minutes:   600,
		Selection: engine.SelectionFromNames([]string{strategy.OrderBlockName}),
	})
	require.NoError(t, err)
	require.NotNil(t, res.Strategies)
	assert.Len(t, res.Strategies.Signals[strategy.OrderBlockName].Signals, 1)
}

func TestHistory(t *testing.T) {
	series := testutil.Ascending(10, 20, 24*time.Hour)
	provider := &fakeProvider{series: map[string]models.Series{"VNM": series}}
	uc := NewCandlesUseCase(provider, nil)

	res, err := uc.History(context.Background(), HistoryParams{
		Symbol:   "VNM",
		Start:    series[2].Time,
		End:      series[5].Time,
		Interval: domrepo.Interval1d,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Count)
	assert.Equal(t, "1d", res.Interval)

	_, err = uc.History(context.Background(), HistoryParams{Symbol: "VNM", Start: series[5].Time, End: series[2].Time})
	assert.ErrorIs(t, err, ErrInvalidRange)
}
