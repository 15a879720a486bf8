package builder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SharkScan/internal/domain/models"
	"SharkScan/internal/services/strategy"
	"SharkScan/internal/testutil"
)

// steady returns n candles closing at 22 with a constant 0.5 true range, so
// ATR14 is exactly 0.5 and the EMAs are flat.
func steady(n int) models.Series {
	out := make(models.Series, n)
	for i := range out {
		out[i] = models.Candle{
			Time:   testutil.Start.Add(time.Duration(i) * time.Minute),
			Open:   22,
			High:   22.25,
			Low:    21.75,
			Close:  22,
			Volume: 1000,
		}
	}
	return out
}

// steadyRange is steady with an exact binary true range around close, so
// ATR14 carries no float noise into the risk levels.
func steadyRange(n int, close, halfRange float64) models.Series {
	out := steady(n)
	for i := range out {
		out[i].Open, out[i].Close = close, close
		out[i].High, out[i].Low = close+halfRange, close-halfRange
	}
	return out
}

func orderBlockAt(low, high float64) models.SignalsByStrategy {
	return models.SignalsByStrategy{
		strategy.OrderBlockName: {
			Signals: []models.Signal{{Kind: models.SignalOrderBlock, Zone: &models.Zone{Low: low, High: high}}},
			Meta:    models.Meta{Strategy: strategy.OrderBlockName, Count: 1},
		},
	}
}

func TestRiskModel(t *testing.T) {
	got := riskModel(22.0, 0.5)
	assert.Equal(t, 22.0, got.entry)
	assert.Equal(t, 21.4, got.stopLoss)
	assert.Equal(t, 23.25, got.takeProfit)
	assert.InDelta(t, 1.25/0.6, got.rr, 1e-9)

	assert.Equal(t, 0.0, riskModel(22.0, 0).rr, "no risk means no ratio")
}

func TestRiskModelKeepsRawRatio(t *testing.T) {
	got := riskModel(10.0, 0.05)
	assert.Equal(t, 9.94, got.stopLoss)
	assert.Equal(t, 10.13, got.takeProfit)
	assert.InDelta(t, 0.13/0.06, got.rr, 1e-9)
	assert.Less(t, got.rr, 2.17)
}

func TestRRGateUsesUnroundedRatio(t *testing.T) {
	// ATR 0.0625: SL 9.93, TP 10.16, rr 0.16/0.07 = 2.2857 (2.29 rounded).
	series := steadyRange(60, 10, 0.03125)
	signals := orderBlockAt(9.5, 10.5)

	rec := New().Build(series, signals, 2.29)
	assert.Equal(t, models.ActionNoTrade, rec.Action)
	assert.Equal(t, "RR not met", rec.Reason)
	require.NotNil(t, rec.Debug.RR)
	assert.InDelta(t, 0.16/0.07, rec.Debug.RR.Value, 1e-9)

	rec = New().Build(series, signals, 2.28)
	require.Equal(t, models.ActionBuy, rec.Action)
	assert.Equal(t, 9.93, *rec.StopLoss)
	assert.Equal(t, 10.16, *rec.TakeProfit)
	assert.Equal(t, 2.29, *rec.RiskReward)
	assert.InDelta(t, 0.16/0.07, rec.Debug.RR.Value, 1e-9)
}

func TestOrderBlockWithoutUsableZoneScoresNothing(t *testing.T) {
	signals := models.SignalsByStrategy{
		strategy.OrderBlockName: {Signals: []models.Signal{{Kind: models.SignalOrderBlock}}},
	}
	rec := New().Build(steady(60), signals, 2.0)

	assert.Equal(t, models.ActionNoTrade, rec.Action)
	assert.Equal(t, "No structure / No setup", rec.Reason)
	assert.Equal(t, 3, rec.SharkScore)
	assert.NotContains(t, rec.Reasons, "Valid order block")
	require.NotNil(t, rec.Debug.OrderBlock)
	assert.Equal(t, 0, rec.Debug.OrderBlock.Score)

	rec = New().Build(steady(60), orderBlockAt(0, 22.5), 2.0)
	assert.Equal(t, models.ActionNoTrade, rec.Action)
	assert.Equal(t, 3, rec.SharkScore)
}

func TestOrderBlockSetupPassesRRGate(t *testing.T) {
	rec := New().Build(steady(60), orderBlockAt(21.5, 22.5), 2.0)

	require.Equal(t, models.ActionBuy, rec.Action)
	require.NotNil(t, rec.Entry)
	assert.Equal(t, 22.0, *rec.Entry)
	assert.Equal(t, 21.4, *rec.StopLoss)
	assert.Equal(t, 23.25, *rec.TakeProfit)
	assert.Equal(t, 2.08, *rec.RiskReward)
	// flat trend 3 + order block 20 + rr 2
	assert.Equal(t, 25, rec.SharkScore)
	assert.Equal(t, 0.25, rec.Confidence)
	assert.Contains(t, rec.Reasons, "Valid order block")
	assert.Contains(t, rec.Note, "below threshold 70")
	require.NotNil(t, rec.Debug.OrderBlock)
	assert.Equal(t, 22.0, rec.Debug.OrderBlock.Entry)
}

func TestOrderBlockSetupFailsStricterRRGate(t *testing.T) {
	rec := New().Build(steady(60), orderBlockAt(21.5, 22.5), 2.5)

	assert.Equal(t, models.ActionNoTrade, rec.Action)
	assert.Equal(t, "RR not met", rec.Reason)
	assert.Nil(t, rec.Entry)
	assert.Nil(t, rec.StopLoss)
	assert.Nil(t, rec.TakeProfit)
	require.NotNil(t, rec.Debug.RR)
	assert.InDelta(t, 1.25/0.6, rec.Debug.RR.Value, 1e-9)
	assert.Equal(t, 23, rec.SharkScore)
	assert.Equal(t, 0.23, rec.Confidence)
}

func TestDefaultRRMin(t *testing.T) {
	b := New()
	assert.Equal(t, models.ActionBuy, b.Build(steady(60), orderBlockAt(21.5, 22.5), 0).Action)
	assert.Equal(t, models.ActionNoTrade, New(WithRRMin(3)).Build(steady(60), orderBlockAt(21.5, 22.5), 0).Action)
}

func TestEntryFallsBackToLastClose(t *testing.T) {
	signals := models.SignalsByStrategy{
		strategy.SMCName: {Signals: []models.Signal{{Kind: models.SignalBOS, Close: 22}}},
	}
	rec := New().Build(steady(60), signals, 2.0)
	require.Equal(t, models.ActionBuy, rec.Action)
	assert.Equal(t, 22.0, *rec.Entry)
	assert.Contains(t, rec.Reasons, "BOS confirmed")
}

func TestNoSetup(t *testing.T) {
	rec := New().Build(testutil.Ascending(80, 20, time.Minute), nil, 2.0)

	assert.Equal(t, models.ActionNoTrade, rec.Action)
	assert.Equal(t, models.BiasNeutral, rec.Bias)
	assert.Equal(t, "No structure / No setup", rec.Reason)
	// bullish EMAs 10 + drift 5
	assert.Equal(t, 15, rec.SharkScore)
	assert.Equal(t, 0.15, rec.Confidence)
	assert.Nil(t, rec.Entry)
	require.NotNil(t, rec.Debug.Drift)
	assert.Greater(t, rec.Debug.Drift.Ratio, 0.6)
}

func TestValidationFailure(t *testing.T) {
	rec := New().Build(testutil.Ascending(49, 20, time.Minute), orderBlockAt(21.5, 22.5), 2.0)
	assert.Equal(t, models.ActionNoTrade, rec.Action)
	assert.Equal(t, 0, rec.SharkScore)
	assert.Equal(t, 0.0, rec.Confidence)
	assert.Contains(t, rec.Reason, "insufficient data")
}

func TestAllSetupsStack(t *testing.T) {
	series := testutil.Ascending(80, 20, time.Minute)
	last := series.Last()
	signals := models.SignalsByStrategy{
		strategy.SMCName:        {Signals: []models.Signal{{Kind: models.SignalBOS}}},
		strategy.OrderBlockName: {Signals: []models.Signal{{Kind: models.SignalOrderBlock, Zone: &models.Zone{Low: last.Close - 0.3, High: last.Close - 0.1}}}},
		strategy.WyckoffName:    {Signals: []models.Signal{{Kind: models.SignalSpring}}},
	}
	rec := New().Build(series, signals, 2.0)
	require.Equal(t, models.ActionBuy, rec.Action)
	assert.Equal(t, models.BiasBullish, rec.Bias)
	assert.Equal(t, 10+5+20+20+15+2, rec.SharkScore)
	assert.Equal(t, 0.72, rec.Confidence)
	assert.Empty(t, rec.Note)
}

func TestBuildIsIdempotent(t *testing.T) {
	series := steady(60)
	before := series.Clone()
	signals := orderBlockAt(21.5, 22.5)
	b := New()

	first := b.Build(series, signals, 2.0)
	second := b.Build(series, signals, 2.0)
	assert.Equal(t, first, second)
	assert.Equal(t, before, series)
}

func TestRRMinMonotonicity(t *testing.T) {
	b := New()
	rejected := false
	for _, rrMin := range []float64{0.5, 1, 1.5, 2, 2.08, 2.09, 2.5, 3, 10} {
		rec := b.Build(steady(60), orderBlockAt(21.5, 22.5), rrMin)
		if rejected {
			assert.Equal(t, models.ActionNoTrade, rec.Action, "rr_min %.2f flipped back to accepted", rrMin)
		}
		if rec.Action == models.ActionNoTrade {
			rejected = true
		}
	}
	assert.True(t, rejected)
}

func TestConfidenceBounds(t *testing.T) {
	all := models.SignalsByStrategy{
		strategy.SMCName:        {Signals: []models.Signal{{Kind: models.SignalBOS}}},
		strategy.OrderBlockName: orderBlockAt(21.5, 22.5)[strategy.OrderBlockName],
		strategy.WyckoffName:    {Signals: []models.Signal{{Kind: models.SignalSpring}}},
	}
	inputs := []models.Series{nil, testutil.Flat(60, 22, time.Minute), steady(60), testutil.Ascending(200, 20, time.Minute)}
	for _, s := range inputs {
		for _, sig := range []models.SignalsByStrategy{nil, all, orderBlockAt(21.5, 22.5)} {
			for _, rrMin := range []float64{0, 1, 2, 5} {
				rec := New().Build(s, sig, rrMin)
				assert.GreaterOrEqual(t, rec.Confidence, 0.0)
				assert.LessOrEqual(t, rec.Confidence, 0.95)
			}
		}
	}
	assert.Equal(t, 0.95, confidence(500))
	assert.Equal(t, 0.0, confidence(-1))
}
