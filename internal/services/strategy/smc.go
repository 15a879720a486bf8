package strategy

import (
	"errors"

	"SharkScan/internal/domain/models"
	"SharkScan/internal/domain/service"
	"SharkScan/internal/services/indicator"
)

const SMCName = "smc"

var smcNotes = []string{
	"no break above recent high",
	"price below VWAP",
	"volume not expanding",
	"wick too large (possible fakeout)",
}

// SMCConfig tunes the smart-money break of structure detector.
type SMCConfig struct {
	Window           int
	BOSStrength      float64
	VolumeMultiplier float64
	WickRatio        float64
	VolumeWindow     int
	MinCandles       int
}

func DefaultSMCConfig() SMCConfig {
	return SMCConfig{
		Window:           8,
		BOSStrength:      0.0015,
		VolumeMultiplier: 1.5,
		WickRatio:        0.6,
		VolumeWindow:     20,
		MinCandles:       60,
	}
}

func smcConfig(p models.Params) SMCConfig {
	d := DefaultSMCConfig()
	return SMCConfig{
		Window:           int(p.Get("window", float64(d.Window))),
		BOSStrength:      p.Get("bos_strength", d.BOSStrength),
		VolumeMultiplier: p.Get("volume_multiplier", d.VolumeMultiplier),
		WickRatio:        p.Get("wick_ratio", d.WickRatio),
		VolumeWindow:     int(p.Get("volume_window", float64(d.VolumeWindow))),
		MinCandles:       int(p.Get("min_candles", float64(d.MinCandles))),
	}
}

func (c SMCConfig) inputs() map[string]float64 {
	return map[string]float64{
		"window":            float64(c.Window),
		"bos_strength":      c.BOSStrength,
		"volume_multiplier": c.VolumeMultiplier,
		"wick_ratio":        c.WickRatio,
		"volume_window":     float64(c.VolumeWindow),
		"min_candles":       float64(c.MinCandles),
	}
}

func (c SMCConfig) validate() error {
	return errors.Join(
		positiveInt("window", c.Window),
		positiveInt("volume_window", c.VolumeWindow),
		positiveInt("min_candles", c.MinCandles),
		positiveFloat("bos_strength", c.BOSStrength),
		positiveFloat("volume_multiplier", c.VolumeMultiplier),
		positiveFloat("wick_ratio", c.WickRatio),
	)
}

// SMC confirms closes that clear the recent swing high on expanding volume
// while holding above VWAP.
type SMC struct{}

var _ service.Detector = SMC{}

func NewSMC() service.Detector { return SMC{} }

func (SMC) Name() string { return SMCName }

func (SMC) Apply(series models.Series, params models.Params) (res models.DetectorResult) {
	cfg := smcConfig(params)
	res = newResult(SMCName, cfg.inputs(), series)
	defer recoverInto(&res)

	if err := cfg.validate(); err != nil {
		return reject(&res, err)
	}
	if err := series.Validate(maxInt(cfg.MinCandles, cfg.Window+1)); err != nil {
		return reject(&res, err)
	}

	highs, lows, closes, volumes := series.Highs(), series.Lows(), series.Closes(), series.Volumes()
	vwap := indicator.VWAP(highs, lows, closes, volumes)
	rvol := indicator.RelativeVolume(volumes, cfg.VolumeWindow)
	swingHigh := indicator.PriorMax(highs, cfg.Window)

	var matches []models.Signal
	for i, c := range series {
		if !indicator.Valid(swingHigh[i]) || c.Close <= 0 {
			continue
		}
		if (c.Close-swingHigh[i])/c.Close <= cfg.BOSStrength {
			continue
		}
		if !indicator.Valid(rvol[i]) || rvol[i] <= cfg.VolumeMultiplier {
			continue
		}
		if !indicator.Valid(vwap[i]) || c.Close <= vwap[i] {
			continue
		}
		if c.UpperWick() >= c.Body()*cfg.WickRatio {
			continue
		}
		matches = append(matches, models.Signal{
			Kind:           models.SignalBOS,
			Time:           c.Time,
			Close:          c.Close,
			VWAP:           vwap[i],
			RelativeVolume: rvol[i],
		})
	}
	return finish(&res, matches, smcNotes)
}
