package core

// SchedSlotMax is the number of fixed scheduler slots. Priority is
// slot-id order: slot 0 runs first within a tick.
const SchedSlotMax = 8

// TaskFunc is a scheduler slot callback. It receives the millisecond
// count the tick was issued with and must not block.
type TaskFunc func(now uint32)

type schedSlot struct {
	task       TaskFunc
	intervalMs uint32
	lastRun    uint32
	maxExecUs  uint32
	registered bool
	suspended  bool
	firstRun   bool
}

// Scheduler dispatches up to eight periodic tasks from the foreground
// loop. A slot with interval 0 runs every tick; missed intervals
// collapse, there is no catch-up. All methods are foreground-only;
// the interrupt must never touch the scheduler.
type Scheduler struct {
	slots [SchedSlotMax]schedSlot

	// Micros, when set, is sampled around each callback to keep a
	// per-slot maximum execution time in microseconds.
	Micros func() uint32
}

// Register installs a task in the given slot. It fails when the slot
// id is out of range, the callback is nil, or the slot is already
// registered; nothing changes on failure.
func (s *Scheduler) Register(slot int, intervalMs uint32, task TaskFunc) bool {
	if slot < 0 || slot >= SchedSlotMax || task == nil || s.slots[slot].registered {
		return false
	}
	s.slots[slot] = schedSlot{
		task:       task,
		intervalMs: intervalMs,
		registered: true,
		firstRun:   true,
	}
	return true
}

// Unregister frees a slot. Unregistering an empty slot is a no-op.
func (s *Scheduler) Unregister(slot int) {
	if slot >= 0 && slot < SchedSlotMax {
		s.slots[slot] = schedSlot{}
	}
}

// Suspend stops a slot from running until Resume.
func (s *Scheduler) Suspend(slot int) {
	if slot >= 0 && slot < SchedSlotMax {
		s.slots[slot].suspended = true
	}
}

// Resume re-enables a suspended slot.
func (s *Scheduler) Resume(slot int) {
	if slot >= 0 && slot < SchedSlotMax {
		s.slots[slot].suspended = false
	}
}

// SetInterval changes a registered slot's period without disturbing
// its phase.
func (s *Scheduler) SetInterval(slot int, intervalMs uint32) {
	if slot >= 0 && slot < SchedSlotMax && s.slots[slot].registered {
		s.slots[slot].intervalMs = intervalMs
	}
}

// Tick runs every registered, non-suspended slot that is due at now,
// in slot-id order, and returns how many ran. A slot is due on its
// first tick after registration and whenever now - lastRun reaches
// its interval.
func (s *Scheduler) Tick(now uint32) int {
	ran := 0
	for i := range s.slots {
		sl := &s.slots[i]
		if !sl.registered || sl.suspended {
			continue
		}
		if !sl.firstRun && Elapsed(now, sl.lastRun) < sl.intervalMs {
			continue
		}
		s.run(sl, now)
		ran++
	}
	return ran
}

// RunPending runs every registered, non-suspended slot once,
// ignoring interval timing. Used for forced execution and tests.
func (s *Scheduler) RunPending(now uint32) int {
	ran := 0
	for i := range s.slots {
		sl := &s.slots[i]
		if !sl.registered || sl.suspended {
			continue
		}
		s.run(sl, now)
		ran++
	}
	return ran
}

func (s *Scheduler) run(sl *schedSlot, now uint32) {
	if s.Micros != nil {
		start := s.Micros()
		sl.task(now)
		if d := s.Micros() - start; d > sl.maxExecUs {
			sl.maxExecUs = d
		}
	} else {
		sl.task(now)
	}
	sl.lastRun = now
	sl.firstRun = false
}

// MaxExecUs returns the longest observed execution time of a slot in
// microseconds, or 0 when no Micros source is configured.
func (s *Scheduler) MaxExecUs(slot int) uint32 {
	if slot < 0 || slot >= SchedSlotMax {
		return 0
	}
	return s.slots[slot].maxExecUs
}

// Registered reports whether a slot currently holds a task.
func (s *Scheduler) Registered(slot int) bool {
	return slot >= 0 && slot < SchedSlotMax && s.slots[slot].registered
}
