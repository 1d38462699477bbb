package core

import "github.com/darvell/open-bc280-firmware-sub001/fixmath"

// AssistConfig tunes the adaptive assist layer.
type AssistConfig struct {
	SpeedTauFastMs uint32 // short speed average, also the trend probe
	SpeedTauSlowMs uint32
	PowerTauMs     uint32

	// EcoLimit dampens the target toward EcoOutputW by EcoStrengthQ16
	// when the rider holds a steady cruise.
	EcoOutputW     uint16
	EcoStrengthQ16 uint32
	CruiseBandDmph uint16 // |speed - average| below this is "steady"

	// EffortBoost adds up to BoostMaxW when below the target speed
	// with a positive trend.
	BoostMaxW    uint16
	TrendMinDmph uint16 // minimum fast-over-slow spread to count as accelerating
}

// DefaultAssistConfig returns the shipping adaptive tuning.
func DefaultAssistConfig() AssistConfig {
	return AssistConfig{
		SpeedTauFastMs: 2000,
		SpeedTauSlowMs: 10000,
		PowerTauMs:     5000,
		EcoOutputW:     150,
		EcoStrengthQ16: 39321, // ~0.6
		CruiseBandDmph: 10,    // 1.0 mph
		BoostMaxW:      120,
		TrendMinDmph:   3,
	}
}

// AdaptiveAssist keeps exponential moving averages of speed and power
// and derives two adjustments to the rider's target output: an eco
// dampener for steady cruising and a bounded effort boost when the
// rider is working to reach a target speed. It computes the user
// target; the power policy caps whatever it produces.
type AdaptiveAssist struct {
	cfg       AssistConfig
	speedFast fixmath.EMA
	speedSlow fixmath.EMA
	power     fixmath.EMA
	lastMs    uint32
	primed    bool
}

// NewAdaptiveAssist returns an adaptive layer with the given tuning.
func NewAdaptiveAssist(cfg AssistConfig) AdaptiveAssist {
	return AdaptiveAssist{
		cfg:       cfg,
		speedFast: fixmath.NewEMA(cfg.SpeedTauFastMs),
		speedSlow: fixmath.NewEMA(cfg.SpeedTauSlowMs),
		power:     fixmath.NewEMA(cfg.PowerTauMs),
	}
}

// Update feeds the current speed and power samples.
func (a *AdaptiveAssist) Update(now uint32, speedDmph, powerW uint16) {
	var dt uint32
	if a.primed {
		dt = Elapsed(now, a.lastMs)
	}
	a.lastMs = now
	a.primed = true

	a.speedFast.Update(int32(speedDmph), dt)
	a.speedSlow.Update(int32(speedDmph), dt)
	a.power.Update(int32(powerW), dt)
}

// SpeedAvgDmph returns the long speed average.
func (a *AdaptiveAssist) SpeedAvgDmph() uint16 {
	v := a.speedSlow.Value()
	if v < 0 {
		return 0
	}
	return uint16(v)
}

// PowerAvgW returns the power average.
func (a *AdaptiveAssist) PowerAvgW() uint16 {
	v := a.power.Value()
	if v < 0 {
		return 0
	}
	return uint16(v)
}

// cruising reports whether the rider holds a steady speed: the
// instantaneous reading stays within the cruise band of the long
// average.
func (a *AdaptiveAssist) cruising(speedDmph uint16) bool {
	if !a.speedSlow.Primed() {
		return false
	}
	avg := int32(a.SpeedAvgDmph())
	d := int32(speedDmph) - avg
	if d < 0 {
		d = -d
	}
	return d <= int32(a.cfg.CruiseBandDmph)
}

// EcoLimit dampens target toward the eco output when the rider is in
// a steady cruise; otherwise it passes target through unchanged. It
// never raises the target.
func (a *AdaptiveAssist) EcoLimit(target, speedDmph uint16) uint16 {
	if target <= a.cfg.EcoOutputW || !a.cruising(speedDmph) {
		return target
	}
	excess := uint32(target - a.cfg.EcoOutputW)
	damped := uint32(target) - fixmath.MulQ16(excess, a.cfg.EcoStrengthQ16)
	return uint16(damped)
}

// EffortBoost adds a bounded increment to base when the current speed
// is below targetSpeed and the speed trend is positive (the fast
// average leads the slow one). The boost scales with how far below
// target the rider is.
func (a *AdaptiveAssist) EffortBoost(base, targetSpeedDmph uint16) uint16 {
	fast := a.speedFast.Value()
	slow := a.speedSlow.Value()
	if fast >= int32(targetSpeedDmph) {
		return base
	}
	if fast-slow < int32(a.cfg.TrendMinDmph) {
		return base
	}
	deficit := uint32(int32(targetSpeedDmph) - fast)
	t := fixmath.RatioQ16(deficit, uint32(targetSpeedDmph))
	boost := fixmath.MulQ16(uint32(a.cfg.BoostMaxW), t)
	out := uint32(base) + boost
	if out > 0xFFFF {
		out = 0xFFFF
	}
	return uint16(out)
}
