package core

import "testing"

func TestSchedulerRegisterValidation(t *testing.T) {
	var s Scheduler
	task := func(now uint32) {}

	if s.Register(-1, 100, task) {
		t.Error("Register accepted a negative slot")
	}
	if s.Register(SchedSlotMax, 100, task) {
		t.Error("Register accepted an out-of-range slot")
	}
	if s.Register(0, 100, nil) {
		t.Error("Register accepted a nil callback")
	}
	if !s.Register(0, 100, task) {
		t.Error("Register failed on a valid slot")
	}
	if s.Register(0, 200, task) {
		t.Error("Register accepted an already-registered slot")
	}
	s.Unregister(0)
	if !s.Register(0, 200, task) {
		t.Error("Register failed after Unregister")
	}
}

func TestSchedulerFirstRunAlwaysFires(t *testing.T) {
	var s Scheduler
	ran := 0
	s.Register(0, 10000, func(now uint32) { ran++ })
	if n := s.Tick(5); n != 1 || ran != 1 {
		t.Errorf("first tick ran %d slots, expected 1", n)
	}
	// Second tick before the interval: nothing runs.
	if n := s.Tick(6); n != 0 || ran != 1 {
		t.Errorf("early second tick ran %d slots, expected 0", n)
	}
}

func TestSchedulerIntervalTiming(t *testing.T) {
	var s Scheduler
	var runs []uint32
	s.Register(0, 100, func(now uint32) { runs = append(runs, now) })

	for now := uint32(0); now <= 450; now += 50 {
		s.Tick(now)
	}
	// First run at 0, then every 100 ms.
	want := []uint32{0, 100, 200, 300, 400}
	if len(runs) != len(want) {
		t.Fatalf("ran at %v, expected %v", runs, want)
	}
	for i := range want {
		if runs[i] != want[i] {
			t.Errorf("run %d at %d, expected %d", i, runs[i], want[i])
		}
	}
}

func TestSchedulerMissedIntervalsCollapse(t *testing.T) {
	var s Scheduler
	ran := 0
	s.Register(0, 100, func(now uint32) { ran++ })
	s.Tick(0)
	// A long stall covers five intervals but yields a single run.
	s.Tick(550)
	if ran != 2 {
		t.Errorf("ran %d times, expected 2 (no catch-up)", ran)
	}
}

func TestSchedulerSlotOrder(t *testing.T) {
	var s Scheduler
	var order []int
	for i := SchedSlotMax - 1; i >= 0; i-- {
		slot := i
		s.Register(slot, 0, func(now uint32) { order = append(order, slot) })
	}
	s.Tick(0)
	if len(order) != SchedSlotMax {
		t.Fatalf("ran %d slots, expected %d", len(order), SchedSlotMax)
	}
	for i, slot := range order {
		if slot != i {
			t.Fatalf("slot order %v not strictly increasing", order)
		}
	}
}

func TestSchedulerSuspendResume(t *testing.T) {
	var s Scheduler
	ran := 0
	s.Register(2, 0, func(now uint32) { ran++ })
	s.Suspend(2)
	s.Tick(0)
	s.Tick(1)
	if ran != 0 {
		t.Errorf("suspended slot ran %d times", ran)
	}
	s.Resume(2)
	s.Tick(2)
	if ran != 1 {
		t.Errorf("resumed slot ran %d times, expected 1", ran)
	}
}

func TestSchedulerZeroIntervalEveryTick(t *testing.T) {
	var s Scheduler
	ran := 0
	s.Register(0, 0, func(now uint32) { ran++ })
	for now := uint32(0); now < 5; now++ {
		s.Tick(now)
	}
	if ran != 5 {
		t.Errorf("zero-interval slot ran %d times, expected 5", ran)
	}
}

func TestSchedulerRunPendingIgnoresTiming(t *testing.T) {
	var s Scheduler
	ran := 0
	s.Register(0, 1 << 30, func(now uint32) { ran++ })
	s.Register(1, 1 << 30, func(now uint32) { ran++ })
	s.Suspend(1)
	s.Tick(0) // first run
	if n := s.RunPending(1); n != 1 || ran != 2 {
		t.Errorf("RunPending ran %d slots (total %d), expected 1 (total 2)", n, ran)
	}
}

func TestSchedulerClockWrap(t *testing.T) {
	var s Scheduler
	ran := 0
	s.Register(0, 100, func(now uint32) { ran++ })
	near := ^uint32(0) - 50
	s.Tick(near) // first run, lastRun just below the wrap
	s.Tick(near + 49)
	if ran != 1 {
		t.Fatalf("slot ran early near wrap: %d", ran)
	}
	// 100 ms later the counter has wrapped past zero.
	s.Tick(near + 100)
	if ran != 2 {
		t.Errorf("slot did not run across the wrap: %d", ran)
	}
}

func TestSchedulerExecMetric(t *testing.T) {
	var s Scheduler
	us := uint32(0)
	s.Micros = func() uint32 {
		us += 250
		return us
	}
	s.Register(0, 0, func(now uint32) {})
	s.Tick(0)
	if got := s.MaxExecUs(0); got != 250 {
		t.Errorf("MaxExecUs = %d, expected 250", got)
	}
}
