package strategy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SharkScan/internal/domain/models"
	"SharkScan/internal/domain/service"
	"SharkScan/internal/testutil"
)

func TestDetectorsRejectShortSeries(t *testing.T) {
	cases := []struct {
		detector service.Detector
		short    int
	}{
		{NewOrderBlock(), 199},
		{NewSMC(), 59},
		{NewWyckoff(), 29},
	}
	for _, tc := range cases {
		t.Run(tc.detector.Name(), func(t *testing.T) {
			res := tc.detector.Apply(testutil.Ascending(tc.short, 20, time.Minute), nil)
			assert.Empty(t, res.Signals)
			assert.NotNil(t, res.Signals)
			assert.Equal(t, 0, res.Meta.Count)
			assert.NotEmpty(t, res.Meta.Error)
			assert.Equal(t, models.ErrorKindValidation, res.Meta.ErrorKind)
			assert.NotEmpty(t, res.Meta.Notes)
			assert.Equal(t, tc.detector.Name(), res.Meta.Strategy)
		})
	}
}

func TestDetectorsHandleEmptySeries(t *testing.T) {
	for _, name := range Names() {
		d, ok := Lookup(name)
		require.True(t, ok)
		res := d.Apply(nil, nil)
		assert.Empty(t, res.Signals, name)
		assert.Contains(t, res.Meta.Error, "empty", name)
	}
}

func TestOrderBlockScenarioShortTrendWindows(t *testing.T) {
	series := testutil.OrderBlockSetup(60, 55, 5*time.Minute)
	dip := series[55]

	res := NewOrderBlock().Apply(series, models.Params{"ema_fast": 10, "ema_slow": 50})
	require.Empty(t, res.Meta.Error)
	require.Len(t, res.Signals, 1)

	sig := res.Signals[0]
	assert.Equal(t, models.SignalOrderBlock, sig.Kind)
	assert.Equal(t, dip.Time, sig.Time)
	require.NotNil(t, sig.Zone)
	assert.Equal(t, dip.Low, sig.Zone.Low)
	assert.Equal(t, dip.Open, sig.Zone.High)
	assert.Greater(t, sig.RelativeVolume, 1.5)
	assert.Equal(t, 1, res.Meta.Count)
	assert.Empty(t, res.Meta.Notes)
	assert.Equal(t, 50.0, res.Meta.Inputs["ema_slow"])
}

func TestOrderBlockScenarioDefaultTrendWindows(t *testing.T) {
	series := testutil.OrderBlockSetup(260, 250, 5*time.Minute)
	dip := series[250]

	res := NewOrderBlock().Apply(series, nil)
	require.Len(t, res.Signals, 1)
	assert.Equal(t, dip.Low, res.Signals[0].Zone.Low)
	assert.Equal(t, dip.Open, res.Signals[0].Zone.High)
	assert.Equal(t, 200.0, res.Meta.Inputs["ema_slow"])
}

func TestOrderBlockNeedsVolume(t *testing.T) {
	series := testutil.OrderBlockSetup(60, 55, 5*time.Minute)
	series[55].Volume = 1000

	res := NewOrderBlock().Apply(series, models.Params{"ema_fast": 10, "ema_slow": 50})
	assert.Empty(t, res.Signals)
	assert.Equal(t, orderBlockNotes, res.Meta.Notes)
	assert.Empty(t, res.Meta.Error)
}

func TestOrderBlockRejectsLongUpperWick(t *testing.T) {
	series := testutil.OrderBlockSetup(60, 55, 5*time.Minute)
	series[55].High = series[55].Open + 0.5
	// keep the breakout above the taller dip
	series[56].Close = series[55].High + 0.1
	series[56].High = series[56].Close + 0.02

	res := NewOrderBlock().Apply(series, models.Params{"ema_fast": 10, "ema_slow": 50})
	assert.Empty(t, res.Signals)
}

func TestSMCBreakout(t *testing.T) {
	series := testutil.BreakoutSetup(71, time.Minute)
	last := series[len(series)-1]

	res := NewSMC().Apply(series, nil)
	require.Len(t, res.Signals, 1)
	sig := res.Signals[0]
	assert.Equal(t, models.SignalBOS, sig.Kind)
	assert.Equal(t, last.Time, sig.Time)
	assert.Equal(t, last.Close, sig.Close)
	assert.Less(t, sig.VWAP, last.Close)
	assert.Greater(t, sig.RelativeVolume, 1.5)
}

func TestSMCBelowVWAPIsIgnored(t *testing.T) {
	series := testutil.BreakoutSetup(71, time.Minute)
	// an early heavy print far above the range drags VWAP over the breakout
	series[5].High = 30
	series[5].Close = 29.9
	series[5].Volume = 1_000_000

	res := NewSMC().Apply(series, nil)
	assert.Empty(t, res.Signals)
	assert.Contains(t, res.Meta.Notes, "price below VWAP")
}

func TestWyckoffSpring(t *testing.T) {
	series := testutil.SpringSetup(time.Minute)
	last := series[len(series)-1]

	res := NewWyckoff().Apply(series, nil)
	require.Len(t, res.Signals, 1)
	sig := res.Signals[0]
	assert.Equal(t, models.SignalSpring, sig.Kind)
	assert.Equal(t, last.Time, sig.Time)
	assert.Equal(t, 19.9, sig.RangeLow)
	assert.Equal(t, last.Close, sig.Close)
}

func TestWyckoffDeepUndershootIsNotASpring(t *testing.T) {
	series := testutil.SpringSetup(time.Minute)
	series[len(series)-1].Low = 19.5

	res := NewWyckoff().Apply(series, nil)
	assert.Empty(t, res.Signals)
	assert.Equal(t, wyckoffNotes, res.Meta.Notes)
}

func TestInvalidParamsAreReported(t *testing.T) {
	res := NewSMC().Apply(testutil.BreakoutSetup(71, time.Minute), models.Params{"window": 0})
	assert.Empty(t, res.Signals)
	assert.Contains(t, res.Meta.Error, "window")
}

func TestDetectorsDoNotMutateInputAndCommute(t *testing.T) {
	series := testutil.OrderBlockSetup(260, 250, time.Minute)
	before := series.Clone()

	forward := map[string]models.DetectorResult{}
	for _, name := range []string{OrderBlockName, SMCName, WyckoffName} {
		d, _ := Lookup(name)
		forward[name] = d.Apply(series, nil)
	}
	reverse := map[string]models.DetectorResult{}
	for _, name := range []string{WyckoffName, SMCName, OrderBlockName} {
		d, _ := Lookup(name)
		reverse[name] = d.Apply(series, nil)
	}

	assert.Equal(t, forward, reverse)
	assert.Equal(t, before, series)
}

func TestFinishKeepsMostRecentThree(t *testing.T) {
	var matches []models.Signal
	for i := 0; i < 5; i++ {
		matches = append(matches, models.Signal{Kind: models.SignalBOS, Time: testutil.Start.Add(time.Duration(i) * time.Minute)})
	}
	res := newResult(SMCName, nil, nil)
	got := finish(&res, matches, smcNotes)
	require.Len(t, got.Signals, 3)
	assert.Equal(t, matches[2].Time, got.Signals[0].Time)
	assert.Equal(t, matches[4].Time, got.Signals[2].Time)
	assert.Equal(t, 3, got.Meta.Count)
	assert.Empty(t, got.Meta.Notes)
}

func TestRecoverIntoConvertsPanics(t *testing.T) {
	apply := func() (res models.DetectorResult) {
		res = newResult("boom", nil, nil)
		defer recoverInto(&res)
		panic("index out of range")
	}
	res := apply()
	assert.Empty(t, res.Signals)
	assert.Contains(t, res.Meta.Error, "index out of range")
	assert.Equal(t, models.ErrorKindComputation, res.Meta.ErrorKind)
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"order_block", "smc", "wyckoff"}, Names())
	d, ok := Lookup(" SMC ")
	require.True(t, ok)
	assert.Equal(t, SMCName, d.Name())
	_, ok = Lookup("ichimoku")
	assert.False(t, ok)
}
