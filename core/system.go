package core

import "github.com/darvell/open-bc280-firmware-sub001/fixmath"

// Scheduler slot assignments. Lower slot ids run first within a tick.
const (
	SlotMotorPoll = 0
	SlotPower     = 1
	SlotAdaptive  = 2
	SlotStream    = 3
	SlotUI        = 4
	SlotHousekeep = 5
)

// Config carries the runtime options. Device builds start from
// DefaultConfig and mutate at runtime through set-commands; hosted
// builds may overlay a JSON file first.
type Config struct {
	StreamPeriodMs   uint32 // 0 disables the telemetry stream
	PortInactivityMs uint32

	ButtonLongMs           uint32
	ButtonRepeatStartMs    uint32
	ButtonRepeatIntervalMs uint32

	MotorPollMs uint32
	PowerMs     uint32
	AdaptiveMs  uint32
	HousekeepMs uint32

	// BoostTargetDmph is the speed the effort boost works toward in
	// the sport profile.
	BoostTargetDmph uint16

	Power  PowerConfig
	Assist AssistConfig
}

// DefaultConfig returns the compile-time defaults.
func DefaultConfig() Config {
	return Config{
		StreamPeriodMs:   0,
		PortInactivityMs: DefaultPortInactivityMs,

		ButtonLongMs:           DefaultLongMs,
		ButtonRepeatStartMs:    DefaultRepeatStartMs,
		ButtonRepeatIntervalMs: DefaultRepeatIntervalMs,

		MotorPollMs: 100,
		PowerMs:     50,
		AdaptiveMs:  250,
		HousekeepMs: 1000,

		BoostTargetDmph: 200, // 20 mph

		Power:  DefaultPowerConfig(),
		Assist: DefaultAssistConfig(),
	}
}

// assistBaseW maps assist level to the base output request in watts.
var assistBaseW = [AssistMax + 1]uint16{0, 60, 120, 180, 250, 350}

// profileFactorQ16 scales the base request per riding profile.
var profileFactorQ16 = [profileCount]uint32{
	ProfileEco:    45875, // ~0.70
	ProfileNormal: fixmath.OneQ16,
	ProfileSport:  85196, // ~1.30
}

// System owns the whole foreground state: clock, event queue,
// debouncer, button FSM, scheduler, ports, model, governors and the
// command table. Exactly two methods are interrupt-safe: the Clock
// reads and PeriodicTick. Everything else runs on the single
// foreground loop.
type System struct {
	Clock   Clock
	Queue   EventQueue
	Buttons ButtonFSM
	Sched   Scheduler
	Model   Model
	Power   PowerPolicy
	Assist  AdaptiveAssist
	Trace   Trace
	Config  Config

	io       [PortCount]PortIO
	ports    [PortCount]port
	handlers [256]Handler

	lastRxPort   PortID
	lastStreamMs uint32

	buttonWord  uint8 // latest stable word seen by the foreground
	walkHeld    bool
	lastEvDrops uint8

	// Interrupt-owned input sampling state.
	debounce   Debouncer
	readBtns   ButtonReader
	tickDiv    uint8
	lastStable uint8
}

// NewSystem wires a system together. io entries may be nil for ports
// the platform does not provide; buttons may be nil on platforms
// without local controls; micros is optional.
func NewSystem(cfg Config, io [PortCount]PortIO, buttons ButtonReader, micros MicrosFunc) *System {
	s := &System{
		Config:  cfg,
		io:      io,
		Model:   NewModel(),
		Power:   NewPowerPolicy(cfg.Power),
		Assist:  NewAdaptiveAssist(cfg.Assist),
		Buttons: NewButtonFSM(),
		readBtns: func() uint8 {
			if buttons != nil {
				return buttons()
			}
			return 0
		},
	}
	s.Buttons.LongMs = cfg.ButtonLongMs
	s.Buttons.RepeatStartMs = cfg.ButtonRepeatStartMs
	s.Buttons.RepeatIntervalMs = cfg.ButtonRepeatIntervalMs
	if micros != nil {
		s.Sched.Micros = func() uint32 { return micros() }
	}
	s.registerHandlers()

	s.Sched.Register(SlotMotorPoll, cfg.MotorPollMs, s.pollMotor)
	s.Sched.Register(SlotPower, cfg.PowerMs, s.applyPower)
	s.Sched.Register(SlotAdaptive, cfg.AdaptiveMs, s.updateAdaptive)
	s.Sched.Register(SlotStream, 0, s.publishStream)
	s.Sched.Register(SlotHousekeep, cfg.HousekeepMs, s.scanPorts)
	return s
}

// RegisterUITask installs a platform display refresh in the UI slot.
func (s *System) RegisterUITask(intervalMs uint32, task TaskFunc) bool {
	return s.Sched.Register(SlotUI, intervalMs, task)
}

// PeriodicTick is the 1 kHz interrupt body: advance the clock, and on
// every fifth tick sample the buttons, debounce, and push the stable
// word into the event queue when it changed. Nothing else may be
// called from interrupt context.
func (s *System) PeriodicTick() {
	s.Clock.Tick()

	s.tickDiv++
	if s.tickDiv < 5 {
		return
	}
	s.tickDiv = 0

	stable := s.debounce.Update(s.readBtns())
	if stable == s.lastStable {
		return
	}
	s.lastStable = stable
	ok := s.Queue.Push(Event{
		Type: EvButtonWord,
		Arg:  uint16(stable),
		Time: s.Clock.Now(),
	})
	if !ok {
		// Never block in the interrupt; count and move on.
		s.Model.Counters.EventDrops++
	}
}

// Step runs one foreground loop iteration: drain the event queue,
// advance the button FSM and act on its gestures, feed the port
// parsers, then tick the scheduler. Returns the millisecond count the
// iteration ran at.
func (s *System) Step() uint32 {
	now := s.Clock.Now()

	s.Queue.Drain(func(e Event) {
		if e.Type == EvButtonWord {
			s.buttonWord = uint8(e.Arg)
		}
	})
	// The interrupt counts drops but cannot touch the trace; log them
	// here once the counter moves.
	if d := s.Model.Counters.EventDrops; d != s.lastEvDrops {
		s.Trace.Record(FaultQueueFull, 0xFF, now, uint16(d))
		s.lastEvDrops = d
	}

	s.Buttons.Update(s.buttonWord, now)
	var g Event
	for s.Buttons.PollEvent(&g) {
		s.applyGesture(g)
	}
	s.updateWalkMode()
	if s.Buttons.Drops > 0 {
		s.Model.Counters.PendingDrop += uint16(s.Buttons.Drops)
		s.Buttons.Drops = 0
	}

	s.pollPorts(now)
	s.Sched.Tick(now)
	return now
}

// applyPower is the slot-1 task: derive the rider's target output
// from the assist level, profile and adaptive layer, then let the
// governors cap it.
func (s *System) applyPower(now uint32) {
	m := &s.Model
	target := s.targetWatts()
	final, reason := s.Power.Apply(now, target, PowerInput{
		SpeedDmph: m.SpeedDmph,
		TorqueCNm: m.TorqueCNm,
		BattDV:    m.BattDV,
		TempDC:    m.TempDC,
	})
	m.PowerLimitW = final
	m.LimitReason = reason
	m.AccumulateTrip(s.Config.PowerMs)
}

// targetWatts computes the user target before governing: the assist
// table entry scaled by the profile, dampened by the eco layer in eco
// and boosted by the effort layer in sport. Walk mode overrides with
// a fixed crawl output.
func (s *System) targetWatts() uint16 {
	m := &s.Model
	if m.WalkMode {
		return 60
	}
	base := uint16(fixmath.MulQ16(uint32(assistBaseW[m.Assist]), profileFactorQ16[m.Profile]))
	switch m.Profile {
	case ProfileEco:
		return s.Assist.EcoLimit(base, m.SpeedDmph)
	case ProfileSport:
		return s.Assist.EffortBoost(base, s.Config.BoostTargetDmph)
	default:
		return base
	}
}

// updateAdaptive is the slot-2 task feeding the speed and power
// averages.
func (s *System) updateAdaptive(now uint32) {
	s.Assist.Update(now, s.Model.SpeedDmph, s.Model.PowerW)
	s.Model.AccumulateEnergy(s.Config.AdaptiveMs)
}

// LastRxPort returns the port that delivered the most recent valid
// frame.
func (s *System) LastRxPort() PortID {
	return s.lastRxPort
}
