package core

import (
	"testing"

	"github.com/darvell/open-bc280-firmware-sub001/fixmath"
)

// nominal returns an input snapshot with nothing to govern.
func nominal() PowerInput {
	return PowerInput{
		SpeedDmph: 150, // 15 mph
		TorqueCNm: 500,
		BattDV:    400, // 40 V
		TempDC:    250, // 25 C
	}
}

func TestPowerPolicyPassThrough(t *testing.T) {
	p := NewPowerPolicy(DefaultPowerConfig())
	final, reason := p.Apply(0, 250, nominal())
	if final != 250 {
		t.Errorf("final = %d with nothing to govern, expected 250", final)
	}
	if reason != LimitUser {
		t.Errorf("reason = %d, expected LimitUser", reason)
	}
}

func TestPowerPolicyFinalNeverExceedsUser(t *testing.T) {
	p := NewPowerPolicy(DefaultPowerConfig())
	in := nominal()
	in.BattDV = 330
	in.TempDC = 850
	var now uint32
	for i := 0; i < 200; i++ {
		now += 50
		final, _ := p.Apply(now, 400, in)
		if final > 400 {
			t.Fatalf("final %d exceeds user request 400", final)
		}
		if final < uint16(fixmath.MulQ16(400, DutyMinQ16)) {
			t.Fatalf("final %d below the duty floor", final)
		}
	}
}

func TestLugGovernorEngagesAndReleases(t *testing.T) {
	cfg := DefaultPowerConfig()
	p := NewPowerPolicy(cfg)

	lugging := nominal()
	lugging.SpeedDmph = 20   // 2 mph
	lugging.TorqueCNm = 2000 // 20 Nm

	var now uint32
	p.Apply(now, 300, lugging)
	// Hold the lug condition past the full engage ramp.
	for i := 0; i < 20; i++ {
		now += 50
		p.Apply(now, 300, lugging)
	}
	if p.LugF != cfg.LugFMinQ16 {
		t.Errorf("lug factor = %d after full ramp, expected %d", p.LugF, cfg.LugFMinQ16)
	}
	final, reason := p.Apply(now+50, 300, lugging)
	now += 50
	if reason != LimitLug {
		t.Errorf("reason = %d while lugging, expected LimitLug", reason)
	}
	want := uint16(fixmath.MulQ16(300, cfg.LugFMinQ16))
	if final != want {
		t.Errorf("final = %d, expected %d", final, want)
	}

	// Clear the condition; the factor recovers over the release ramp.
	for i := 0; i < 40; i++ {
		now += 50
		p.Apply(now, 300, nominal())
	}
	if p.LugF != fixmath.OneQ16 {
		t.Errorf("lug factor = %d after release, expected full", p.LugF)
	}
}

func TestLugRampIsGradual(t *testing.T) {
	cfg := DefaultPowerConfig()
	p := NewPowerPolicy(cfg)
	lugging := nominal()
	lugging.SpeedDmph = 20
	lugging.TorqueCNm = 2000

	p.Apply(0, 300, lugging)
	p.Apply(50, 300, lugging)
	// 50 ms into a 700 ms ramp: well above the minimum still.
	if p.LugF <= cfg.LugFMinQ16 || p.LugF >= fixmath.OneQ16 {
		t.Errorf("lug factor = %d after 50 ms, expected a partial ramp", p.LugF)
	}
}

func TestThermalFactorMonotoneInTemperature(t *testing.T) {
	var prev uint32 = fixmath.OneQ16
	for temp := uint16(700); temp <= 900; temp += 25 {
		p := NewPowerPolicy(DefaultPowerConfig())
		in := nominal()
		in.TempDC = temp
		var now uint32
		// Let the estimators settle well past the slow time constant.
		for i := 0; i < 3000; i++ {
			now += 50
			p.Apply(now, 300, in)
		}
		if p.ThermF > prev {
			t.Fatalf("thermal factor rose from %d to %d as temp reached %d", prev, p.ThermF, temp)
		}
		prev = p.ThermF
	}
}

func TestThermalFactorBounds(t *testing.T) {
	cfg := DefaultPowerConfig()

	cool := NewPowerPolicy(cfg)
	in := nominal()
	var now uint32
	for i := 0; i < 100; i++ {
		now += 50
		cool.Apply(now, 300, in)
	}
	if cool.ThermF != fixmath.OneQ16 {
		t.Errorf("thermal factor = %d below soft threshold, expected full", cool.ThermF)
	}

	hot := NewPowerPolicy(cfg)
	in.TempDC = 950 // past the hard threshold
	now = 0
	for i := 0; i < 3000; i++ {
		now += 50
		hot.Apply(now, 300, in)
	}
	if hot.ThermF > cfg.ThermFMinQ16 {
		t.Errorf("thermal factor = %d at hard threshold, expected <= %d", hot.ThermF, cfg.ThermFMinQ16)
	}
	if hot.ThermF < DutyMinQ16 {
		t.Errorf("thermal factor = %d below the duty floor", hot.ThermF)
	}
}

func TestSagFactorEndpoints(t *testing.T) {
	cfg := DefaultPowerConfig()
	p := NewPowerPolicy(cfg)

	in := nominal()
	in.BattDV = cfg.SagStartDV
	p.Apply(0, 300, in)
	if p.SagF != fixmath.OneQ16 {
		t.Errorf("sag factor = %d at start voltage, expected full", p.SagF)
	}

	in.BattDV = cfg.SagCutoffDV
	p.Apply(50, 300, in)
	if p.SagF != DutyMinQ16 {
		t.Errorf("sag factor = %d at cutoff, expected the duty floor", p.SagF)
	}

	in.BattDV = (cfg.SagStartDV + cfg.SagCutoffDV) / 2
	p.Apply(100, 300, in)
	half := uint32(fixmath.OneQ16 / 2)
	if p.SagF < half-700 || p.SagF > half+700 {
		t.Errorf("sag factor = %d at midpoint, expected ~%d", p.SagF, half)
	}
}

func TestSagFactorMonotoneInVoltage(t *testing.T) {
	cfg := DefaultPowerConfig()
	p := NewPowerPolicy(cfg)
	var prev uint32
	var now uint32
	for dv := uint16(300); dv <= 380; dv += 5 {
		in := nominal()
		in.BattDV = dv
		now += 50
		p.Apply(now, 300, in)
		if p.SagF < prev {
			t.Fatalf("sag factor fell from %d to %d as voltage rose to %d", prev, p.SagF, dv)
		}
		prev = p.SagF
	}
}

func TestLimitReasonMatchesActiveCap(t *testing.T) {
	p := NewPowerPolicy(DefaultPowerConfig())
	in := nominal()
	in.BattDV = 330 // sagging
	var now uint32
	var final uint16
	var reason LimitReason
	for i := 0; i < 10; i++ {
		now += 50
		final, reason = p.Apply(now, 300, in)
	}
	if reason != LimitSag {
		t.Fatalf("reason = %d, expected LimitSag", reason)
	}
	want := uint16(fixmath.MulQ16(300, p.SagF))
	if final != want {
		t.Errorf("final = %d does not equal the sag cap %d", final, want)
	}
}
