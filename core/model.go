package core

// Profile identifiers.
const (
	ProfileEco uint8 = iota
	ProfileNormal
	ProfileSport
	profileCount
)

// Display pages cycled by the menu button.
const (
	PageMain uint8 = iota
	PageTrip
	PageSettings
	PageCount
)

// AssistMax is the highest assist level.
const AssistMax = 5

// State flag bits reported in telemetry and motor polls.
const (
	FlagLights   uint8 = 0x01
	FlagWalk     uint8 = 0x02
	FlagPowerOff uint8 = 0x04
	FlagMotorErr uint8 = 0x08
)

// LimitReason identifies which governor produced the active power cap.
type LimitReason uint8

const (
	LimitUser LimitReason = iota
	LimitLug
	LimitThermal
	LimitSag
)

// Counters is the diagnostic counter block, observable through the
// state-dump command. Foreground-mutated except EventDrops, which the
// interrupt increments; it is a plain byte-wide counter and a torn
// read of it is impossible.
type Counters struct {
	FrameErrs   uint16
	ChkErrs     uint16
	EventDrops  uint8
	PendingDrop uint16
	UnknownCmds uint16
	BadPayloads uint16
}

// Reset zeroes every counter.
func (c *Counters) Reset() {
	*c = Counters{}
}

// Model is the foreground-owned vehicle state: the latest motor
// readings, rider inputs and derived power figures. Handlers and
// scheduler tasks mutate it; the interrupt never touches it.
type Model struct {
	// Motor readings, updated by set-state frames from the controller.
	RPM       uint16
	TorqueCNm uint16 // centi-newton-metres
	SpeedDmph uint16 // deci-mph
	SOC       uint8  // battery charge percent
	Fault     uint8  // controller fault code, 0 = none

	// Optional extended readings, gated by set-state payload length.
	CadenceRPM uint16
	PowerW     uint16
	BattDV     uint16 // deci-volts
	BattDA     uint16 // deci-amps
	TempDC     uint16 // deci-degrees C
	MotorFlags uint8
	Gear       uint8

	// Rider inputs.
	Assist   uint8 // 0..AssistMax
	Profile  uint8
	Page     uint8
	Lights   bool
	WalkMode bool
	PowerOff bool // power-off requested; the platform layer acts on it

	// Derived by the power policy each apply cycle.
	PowerLimitW uint16
	LimitReason LimitReason

	// Trip accumulators: tripAccum integrates deci-mph over
	// milliseconds, energyAccum watts over milliseconds.
	tripAccum   uint64
	energyAccum uint64

	Counters Counters
}

// NewModel returns a model with the power-on defaults.
func NewModel() Model {
	return Model{
		Assist:  2,
		Profile: ProfileNormal,
	}
}

// Flags packs the boolean rider state into the wire flag byte.
func (m *Model) Flags() uint8 {
	var f uint8
	if m.Lights {
		f |= FlagLights
	}
	if m.WalkMode {
		f |= FlagWalk
	}
	if m.PowerOff {
		f |= FlagPowerOff
	}
	if m.Fault != 0 {
		f |= FlagMotorErr
	}
	return f
}

// AccumulateTrip integrates the current speed over dtMs milliseconds.
func (m *Model) AccumulateTrip(dtMs uint32) {
	m.tripAccum += uint64(m.SpeedDmph) * uint64(dtMs)
}

// TripDeciMiles returns the accumulated trip distance in deci-miles.
// One deci-mph sustained for an hour is one deci-mile.
func (m *Model) TripDeciMiles() uint32 {
	return uint32(m.tripAccum / 3_600_000)
}

// AccumulateEnergy integrates the current power over dtMs.
func (m *Model) AccumulateEnergy(dtMs uint32) {
	m.energyAccum += uint64(m.PowerW) * uint64(dtMs)
}

// TripWh returns the accumulated trip energy in watt-hours.
func (m *Model) TripWh() uint32 {
	return uint32(m.energyAccum / 3_600_000)
}

// ResetTrip clears the trip accumulators.
func (m *Model) ResetTrip() {
	m.tripAccum = 0
	m.energyAccum = 0
}

// AdjustAssist moves the assist level by delta, clamped to the valid
// range.
func (m *Model) AdjustAssist(delta int) {
	lvl := int(m.Assist) + delta
	if lvl < 0 {
		lvl = 0
	}
	if lvl > AssistMax {
		lvl = AssistMax
	}
	m.Assist = uint8(lvl)
}

// SetAssist sets the assist level directly, clamped to the valid
// range. Used when the motor controller echoes a level of its own.
func (m *Model) SetAssist(level uint8) {
	if level > AssistMax {
		level = AssistMax
	}
	m.Assist = level
}

// CycleProfile advances to the next riding profile.
func (m *Model) CycleProfile() {
	m.Profile = (m.Profile + 1) % profileCount
}

// CyclePage advances to the next display page.
func (m *Model) CyclePage() {
	m.Page = (m.Page + 1) % PageCount
}
