package strategy

import (
	"errors"

	"SharkScan/internal/domain/models"
	"SharkScan/internal/domain/service"
	"SharkScan/internal/services/indicator"
)

const OrderBlockName = "order_block"

var orderBlockNotes = []string{
	"no bearish candle followed by a break of structure",
	"volume not expanding",
	"trend filter not confirmed (fast EMA below slow EMA)",
	"upper wick too large (distribution)",
}

// OrderBlockConfig tunes the order block detector.
type OrderBlockConfig struct {
	Lookback         int
	VolumeMultiplier float64
	WickRatio        float64
	EMAFast          int
	EMASlow          int
	VolumeWindow     int
}

func DefaultOrderBlockConfig() OrderBlockConfig {
	return OrderBlockConfig{
		Lookback:         5,
		VolumeMultiplier: 1.5,
		WickRatio:        0.6,
		EMAFast:          50,
		EMASlow:          200,
		VolumeWindow:     20,
	}
}

func orderBlockConfig(p models.Params) OrderBlockConfig {
	d := DefaultOrderBlockConfig()
	return OrderBlockConfig{
		Lookback:         int(p.Get("lookback", float64(d.Lookback))),
		VolumeMultiplier: p.Get("volume_multiplier", d.VolumeMultiplier),
		WickRatio:        p.Get("wick_ratio", d.WickRatio),
		EMAFast:          int(p.Get("ema_fast", float64(d.EMAFast))),
		EMASlow:          int(p.Get("ema_slow", float64(d.EMASlow))),
		VolumeWindow:     int(p.Get("volume_window", float64(d.VolumeWindow))),
	}
}

func (c OrderBlockConfig) inputs() map[string]float64 {
	return map[string]float64{
		"lookback":          float64(c.Lookback),
		"volume_multiplier": c.VolumeMultiplier,
		"wick_ratio":        c.WickRatio,
		"ema_fast":          float64(c.EMAFast),
		"ema_slow":          float64(c.EMASlow),
		"volume_window":     float64(c.VolumeWindow),
	}
}

// MinCandles is the slow EMA warm-up, or more if the other windows need it.
func (c OrderBlockConfig) MinCandles() int {
	return maxInt(c.EMASlow, c.EMAFast, c.VolumeWindow, c.Lookback+2)
}

func (c OrderBlockConfig) validate() error {
	return errors.Join(
		positiveInt("lookback", c.Lookback),
		positiveInt("ema_fast", c.EMAFast),
		positiveInt("ema_slow", c.EMASlow),
		positiveInt("volume_window", c.VolumeWindow),
		positiveFloat("volume_multiplier", c.VolumeMultiplier),
		positiveFloat("wick_ratio", c.WickRatio),
	)
}

// OrderBlock flags the last bearish candle before a breakout in an uptrend.
type OrderBlock struct{}

var _ service.Detector = OrderBlock{}

func NewOrderBlock() service.Detector { return OrderBlock{} }

func (OrderBlock) Name() string { return OrderBlockName }

func (OrderBlock) Apply(series models.Series, params models.Params) (res models.DetectorResult) {
	cfg := orderBlockConfig(params)
	res = newResult(OrderBlockName, cfg.inputs(), series)
	defer recoverInto(&res)

	if err := cfg.validate(); err != nil {
		return reject(&res, err)
	}
	if err := series.Validate(cfg.MinCandles()); err != nil {
		return reject(&res, err)
	}

	closes := series.Closes()
	emaFast := indicator.EMA(closes, cfg.EMAFast)
	emaSlow := indicator.EMA(closes, cfg.EMASlow)
	rvol := indicator.RelativeVolume(series.Volumes(), cfg.VolumeWindow)
	// breakAbove[j] is the max high of the lookback bars before j, so the
	// candle after a block confirms the break.
	breakAbove := indicator.PriorMax(series.Highs(), cfg.Lookback)

	var matches []models.Signal
	for i := 0; i+1 < len(series); i++ {
		c := series[i]
		if !c.Bearish() {
			continue
		}
		next := series[i+1]
		if !indicator.Valid(breakAbove[i+1]) || next.Close <= breakAbove[i+1] {
			continue
		}
		if !indicator.Valid(rvol[i]) || rvol[i] <= cfg.VolumeMultiplier {
			continue
		}
		if !indicator.Valid(emaFast[i]) || !indicator.Valid(emaSlow[i]) || emaFast[i] <= emaSlow[i] {
			continue
		}
		if c.UpperWick() >= c.Body()*cfg.WickRatio {
			continue
		}
		matches = append(matches, models.Signal{
			Kind:           models.SignalOrderBlock,
			Time:           c.Time,
			Zone:           &models.Zone{Low: c.Low, High: c.Open},
			RelativeVolume: rvol[i],
		})
	}
	return finish(&res, matches, orderBlockNotes)
}
