package core

import "github.com/darvell/open-bc280-firmware-sub001/fixmath"

// DutyMinQ16 is the floor applied to every governor factor so a cap
// can throttle the motor but never command a hard zero by itself.
const DutyMinQ16 uint32 = 3277 // ~0.05

// PowerConfig holds the governor thresholds, ramps and minimum
// factors. All factors are Q16; temperatures are deci-degrees C,
// voltages deci-volts, speeds deci-mph and torques centi-newton-
// metres.
type PowerConfig struct {
	// Lug: excessive torque at low speed.
	LugFMinQ16     uint32
	LugRampUpMs    uint32 // time to fully engage the cap
	LugRampDownMs  uint32 // time to fully release it
	LugSpeedOnDmph uint16 // engage at or below this speed
	LugSpeedOffDmp uint16 // release above this speed
	LugTorqueOnCNm uint16 // engage at or above this torque
	LugTorqueOffCN uint16 // release below this torque

	// Thermal: controller temperature estimators.
	ThermFMinQ16 uint32
	ThermSoftDC  uint16
	ThermHardDC  uint16
	ThermTauFast uint32 // ms
	ThermTauSlow uint32 // ms

	// Sag: battery terminal voltage under load.
	SagStartDV  uint16
	SagCutoffDV uint16
}

// DefaultPowerConfig returns the shipping governor tuning.
func DefaultPowerConfig() PowerConfig {
	return PowerConfig{
		LugFMinQ16:     22937, // ~0.35
		LugRampUpMs:    700,
		LugRampDownMs:  1500,
		LugSpeedOnDmph: 40, // 4.0 mph
		LugSpeedOffDmp: 60,
		LugTorqueOnCNm: 1500, // 15 Nm
		LugTorqueOffCN: 1200,

		ThermFMinQ16: 26214, // ~0.40
		ThermSoftDC:  700,   // 70.0 C
		ThermHardDC:  900,   // 90.0 C
		ThermTauFast: 3000,
		ThermTauSlow: 30000,

		SagStartDV:  360, // 36.0 V
		SagCutoffDV: 320, // 32.0 V
	}
}

// PowerInput is the sensor snapshot a policy cycle works from.
type PowerInput struct {
	SpeedDmph uint16
	TorqueCNm uint16
	BattDV    uint16
	TempDC    uint16
}

// PowerPolicy computes the allowed motor output from the requested
// one by applying three monotone governors: lug, thermal and sag.
// Each governor yields a Q16 factor in [DutyMinQ16, 1.0]; the final
// output is the user request scaled by the smallest factor, and the
// policy remembers which governor won. No floating point anywhere.
type PowerPolicy struct {
	cfg PowerConfig

	lugFactor uint32
	lugActive bool

	thermFast fixmath.EMA
	thermSlow fixmath.EMA

	lastMs uint32
	primed bool

	// Last computed factors, for diagnostics and telemetry.
	LugF   uint32
	ThermF uint32
	SagF   uint32
}

// NewPowerPolicy returns a policy with the given tuning.
func NewPowerPolicy(cfg PowerConfig) PowerPolicy {
	return PowerPolicy{
		cfg:       cfg,
		lugFactor: fixmath.OneQ16,
		thermFast: fixmath.NewEMA(cfg.ThermTauFast),
		thermSlow: fixmath.NewEMA(cfg.ThermTauSlow),
		LugF:      fixmath.OneQ16,
		ThermF:    fixmath.OneQ16,
		SagF:      fixmath.OneQ16,
	}
}

// Apply runs one policy cycle and returns the allowed output and the
// governor that set it. Call once per policy tick from the foreground.
func (p *PowerPolicy) Apply(now uint32, userW uint16, in PowerInput) (uint16, LimitReason) {
	var dt uint32
	if p.primed {
		dt = Elapsed(now, p.lastMs)
	}
	p.lastMs = now
	p.primed = true

	p.LugF = p.lugStep(dt, in)
	p.ThermF = p.thermalStep(dt, in.TempDC)
	p.SagF = p.sagFactor(in.BattDV)

	factor := fixmath.Min(p.LugF, fixmath.Min(p.ThermF, p.SagF))
	final := uint16(fixmath.MulQ16(uint32(userW), factor))

	reason := LimitUser
	if factor < fixmath.OneQ16 {
		switch factor {
		case p.LugF:
			reason = LimitLug
		case p.ThermF:
			reason = LimitThermal
		default:
			reason = LimitSag
		}
	}
	return final, reason
}

// lugStep detects a low-speed high-load condition with hysteresis and
// ramps the lug factor toward its bound: down over LugRampUpMs while
// lugging, back up over LugRampDownMs once clear.
func (p *PowerPolicy) lugStep(dt uint32, in PowerInput) uint32 {
	cfg := &p.cfg
	if p.lugActive {
		if in.SpeedDmph > cfg.LugSpeedOffDmp || in.TorqueCNm < cfg.LugTorqueOffCN {
			p.lugActive = false
		}
	} else {
		if in.SpeedDmph <= cfg.LugSpeedOnDmph && in.TorqueCNm >= cfg.LugTorqueOnCNm {
			p.lugActive = true
		}
	}

	span := fixmath.OneQ16 - cfg.LugFMinQ16
	if p.lugActive {
		step := uint32(uint64(span) * uint64(dt) / uint64(cfg.LugRampUpMs))
		if step >= p.lugFactor-cfg.LugFMinQ16 {
			p.lugFactor = cfg.LugFMinQ16
		} else {
			p.lugFactor -= step
		}
	} else {
		step := uint32(uint64(span) * uint64(dt) / uint64(cfg.LugRampDownMs))
		p.lugFactor = fixmath.Min(p.lugFactor+step, fixmath.OneQ16)
	}
	return fixmath.Max(p.lugFactor, DutyMinQ16)
}

// thermalStep maintains the fast and slow thermal state estimators
// fed from the squared overshoot past the soft threshold, then maps
// the worse of the two back to a factor: 1.0 at the soft threshold
// falling to ThermFMinQ16 at the hard one.
func (p *PowerPolicy) thermalStep(dt uint32, tempDC uint16) uint32 {
	cfg := &p.cfg
	var over uint32
	if tempDC > cfg.ThermSoftDC {
		over = uint32(tempDC - cfg.ThermSoftDC)
	}
	span := uint32(cfg.ThermHardDC - cfg.ThermSoftDC)
	over = fixmath.Min(over, span) // squared term stays in range
	stress := int32(over * over)

	fast := p.thermFast.Update(stress, dt)
	slow := p.thermSlow.Update(stress, dt)
	worst := fast
	if slow > worst {
		worst = slow
	}
	if worst <= 0 {
		return fixmath.OneQ16
	}

	effOver := fixmath.Sqrt(uint32(worst))
	t := fixmath.RatioQ16(effOver, span)
	f := fixmath.LerpQ16(fixmath.OneQ16, cfg.ThermFMinQ16, t)
	return fixmath.Max(f, DutyMinQ16)
}

// sagFactor scales linearly from 1.0 at SagStartDV down to the floor
// at SagCutoffDV.
func (p *PowerPolicy) sagFactor(battDV uint16) uint32 {
	cfg := &p.cfg
	if battDV >= cfg.SagStartDV {
		return fixmath.OneQ16
	}
	if battDV <= cfg.SagCutoffDV {
		return DutyMinQ16
	}
	margin := uint32(battDV - cfg.SagCutoffDV)
	span := uint32(cfg.SagStartDV - cfg.SagCutoffDV)
	return fixmath.Max(fixmath.RatioQ16(margin, span), DutyMinQ16)
}
