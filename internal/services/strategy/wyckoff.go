package strategy

import (
	"errors"

	"SharkScan/internal/domain/models"
	"SharkScan/internal/domain/service"
	"SharkScan/internal/services/indicator"
)

const WyckoffName = "wyckoff"

var wyckoffNotes = []string{
	"no sweep below range low",
	"close did not recover above range low",
	"volume not expanding",
	"price below EMA trend filter",
}

// WyckoffConfig tunes the spring detector.
type WyckoffConfig struct {
	Window           int
	Tolerance        float64
	VolumeMultiplier float64
	EMAPeriod        int
	VolumeWindow     int
}

func DefaultWyckoffConfig() WyckoffConfig {
	return WyckoffConfig{
		Window:           30,
		Tolerance:        0.001,
		VolumeMultiplier: 1.5,
		EMAPeriod:        50,
		VolumeWindow:     20,
	}
}

func wyckoffConfig(p models.Params) WyckoffConfig {
	d := DefaultWyckoffConfig()
	return WyckoffConfig{
		Window:           int(p.Get("window", float64(d.Window))),
		Tolerance:        p.Get("tolerance", d.Tolerance),
		VolumeMultiplier: p.Get("volume_multiplier", d.VolumeMultiplier),
		EMAPeriod:        int(p.Get("ema_period", float64(d.EMAPeriod))),
		VolumeWindow:     int(p.Get("volume_window", float64(d.VolumeWindow))),
	}
}

func (c WyckoffConfig) inputs() map[string]float64 {
	return map[string]float64{
		"window":            float64(c.Window),
		"tolerance":         c.Tolerance,
		"volume_multiplier": c.VolumeMultiplier,
		"ema_period":        float64(c.EMAPeriod),
		"volume_window":     float64(c.VolumeWindow),
	}
}

func (c WyckoffConfig) validate() error {
	var errTol error
	if c.Tolerance < 0 || c.Tolerance >= 1 {
		errTol = errors.New("parameter tolerance must be in [0, 1)")
	}
	return errors.Join(
		positiveInt("window", c.Window),
		positiveInt("ema_period", c.EMAPeriod),
		positiveInt("volume_window", c.VolumeWindow),
		positiveFloat("volume_multiplier", c.VolumeMultiplier),
		errTol,
	)
}

// Wyckoff flags springs: a brief undershoot of the prior range low that
// closes back inside the range on heavy volume, above the trend EMA.
type Wyckoff struct{}

var _ service.Detector = Wyckoff{}

func NewWyckoff() service.Detector { return Wyckoff{} }

func (Wyckoff) Name() string { return WyckoffName }

func (Wyckoff) Apply(series models.Series, params models.Params) (res models.DetectorResult) {
	cfg := wyckoffConfig(params)
	res = newResult(WyckoffName, cfg.inputs(), series)
	defer recoverInto(&res)

	if err := cfg.validate(); err != nil {
		return reject(&res, err)
	}
	if err := series.Validate(cfg.Window); err != nil {
		return reject(&res, err)
	}

	// short series leave the EMA undefined and the trend filter fails
	ema := indicator.EMA(series.Closes(), cfg.EMAPeriod)
	rvol := indicator.RelativeVolume(series.Volumes(), cfg.VolumeWindow)
	rangeLow := indicator.PriorMin(series.Lows(), cfg.Window)

	var matches []models.Signal
	for i, c := range series {
		floor := rangeLow[i]
		if !indicator.Valid(floor) {
			continue
		}
		if c.Low > floor || c.Low < floor*(1-cfg.Tolerance) {
			continue
		}
		if c.Close <= floor {
			continue
		}
		if !indicator.Valid(rvol[i]) || rvol[i] <= cfg.VolumeMultiplier {
			continue
		}
		if !indicator.Valid(ema[i]) || c.Close <= ema[i] {
			continue
		}
		matches = append(matches, models.Signal{
			Kind:           models.SignalSpring,
			Time:           c.Time,
			Close:          c.Close,
			RangeLow:       floor,
			RelativeVolume: rvol[i],
		})
	}
	return finish(&res, matches, wyckoffNotes)
}
