package core

import "testing"

// collect drains all pending gesture events.
func collect(f *ButtonFSM) []uint16 {
	var out []uint16
	var e Event
	for f.PollEvent(&e) {
		out = append(out, e.Arg)
	}
	return out
}

func expectGestures(t *testing.T, got []uint16, want ...uint16) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d gestures %v, expected %v", len(got), got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("gesture %d = %d, expected %d", i, got[i], want[i])
		}
	}
}

func TestShortPressUp(t *testing.T) {
	f := NewButtonFSM()
	f.Update(BtnUp, 1000)
	f.Update(0, 1500)
	expectGestures(t, collect(&f), GestureShortUp)
}

func TestLongThenRepeatDown(t *testing.T) {
	f := NewButtonFSM()
	f.Update(BtnDown, 1000)
	expectGestures(t, collect(&f))

	f.Update(BtnDown, 1800) // long threshold
	expectGestures(t, collect(&f), GestureLongDown)

	f.Update(BtnDown, 2200) // repeat start, no event yet
	expectGestures(t, collect(&f))

	f.Update(BtnDown, 2400)
	f.Update(BtnDown, 2600)
	expectGestures(t, collect(&f), GestureRepeatDown, GestureRepeatDown)

	f.Update(0, 2700) // release: nothing further
	expectGestures(t, collect(&f))
}

func TestComboUpDownShort(t *testing.T) {
	f := NewButtonFSM()
	f.Update(BtnUp|BtnDown, 1000)
	f.Update(0, 1500)
	// One combo event, no individual shorts.
	expectGestures(t, collect(&f), GestureComboUpDown)
}

func TestComboLongHold(t *testing.T) {
	f := NewButtonFSM()
	f.Update(BtnUp|BtnMenu, 1000)
	f.Update(BtnUp|BtnMenu, 1900)
	expectGestures(t, collect(&f), GestureComboUpMenu)
	// Combos never auto-repeat.
	f.Update(BtnUp|BtnMenu, 2300)
	f.Update(BtnUp|BtnMenu, 2500)
	f.Update(BtnUp|BtnMenu, 2700)
	expectGestures(t, collect(&f))
	f.Update(0, 2800)
	expectGestures(t, collect(&f))
}

func TestMenuDoesNotRepeat(t *testing.T) {
	f := NewButtonFSM()
	f.Update(BtnMenu, 0)
	f.Update(BtnMenu, 800)
	expectGestures(t, collect(&f), GestureLongMenu)
	for ms := uint32(1200); ms <= 3000; ms += 200 {
		f.Update(BtnMenu, ms)
	}
	expectGestures(t, collect(&f))
}

func TestLongJumpStraightToRepeating(t *testing.T) {
	// A single update far past both thresholds emits the long event
	// and lands in the repeating state in one step.
	f := NewButtonFSM()
	f.Update(BtnUp, 1000)
	f.Update(BtnUp, 2500)
	expectGestures(t, collect(&f), GestureLongUp)
	if !f.Repeating() {
		t.Error("FSM not repeating after crossing both thresholds")
	}
	f.Update(BtnUp, 2700)
	expectGestures(t, collect(&f), GestureRepeatUp)
}

func TestNoEventOnReleaseFromLong(t *testing.T) {
	f := NewButtonFSM()
	f.Update(BtnUp, 0)
	f.Update(BtnUp, 900)
	collect(&f) // long event
	f.Update(0, 1000)
	expectGestures(t, collect(&f))
}

func TestPartialComboReleaseEmitsOnce(t *testing.T) {
	f := NewButtonFSM()
	f.Update(BtnUp|BtnDown, 1000)
	f.Update(BtnUp, 1200) // down released first
	expectGestures(t, collect(&f), GestureComboUpDown)
	// Full release must not emit a second event.
	f.Update(0, 1300)
	expectGestures(t, collect(&f))
}

func TestStaggeredComboPress(t *testing.T) {
	// Second button joins shortly after the first; release before the
	// long threshold yields the combo, not shorts.
	f := NewButtonFSM()
	f.Update(BtnUp, 1000)
	f.Update(BtnUp|BtnDown, 1100)
	f.Update(0, 1400)
	expectGestures(t, collect(&f), GestureComboUpDown)
}

func TestPendingRingDropsOldest(t *testing.T) {
	f := NewButtonFSM()
	// Generate more gestures than the ring holds.
	for i := uint32(0); i < 6; i++ {
		base := i * 1000
		f.Update(BtnUp, base)
		f.Update(0, base+100)
	}
	got := collect(&f)
	if len(got) != pendingSize {
		t.Fatalf("pending ring held %d events, expected %d", len(got), pendingSize)
	}
	if f.Drops != 2 {
		t.Errorf("Drops = %d, expected 2", f.Drops)
	}
}

func TestHeldWord(t *testing.T) {
	f := NewButtonFSM()
	if f.Held() != 0 {
		t.Error("Held nonzero while idle")
	}
	f.Update(BtnDown, 0)
	if f.Held() != BtnDown {
		t.Errorf("Held = 0x%02X, expected BtnDown", f.Held())
	}
	f.Update(0, 100)
	if f.Held() != 0 {
		t.Error("Held nonzero after release")
	}
}

func TestCustomTimings(t *testing.T) {
	f := NewButtonFSM()
	f.LongMs = 400
	f.RepeatStartMs = 600
	f.RepeatIntervalMs = 100
	f.Update(BtnDown, 0)
	f.Update(BtnDown, 400)
	expectGestures(t, collect(&f), GestureLongDown)
	f.Update(BtnDown, 600)
	f.Update(BtnDown, 700)
	expectGestures(t, collect(&f), GestureRepeatDown)
}
