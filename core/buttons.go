package core

// Button bits within the debounced 4-bit word.
const (
	BtnUp    uint8 = 0x01
	BtnDown  uint8 = 0x02
	BtnMenu  uint8 = 0x04
	BtnPower uint8 = 0x08
)

// Gesture codes carried in Event.Arg for EvCatGesture events.
const (
	GestureShortUp uint16 = iota
	GestureShortDown
	GestureShortMenu
	GestureShortPower
	GestureLongUp
	GestureLongDown
	GestureLongMenu
	GestureLongPower
	GestureRepeatUp
	GestureRepeatDown
	GestureComboUpDown
	GestureComboUpMenu
	GestureComboDownMenu
)

// EvGesture events carry a gesture code in Arg and the button word
// that produced it in Flags.
const EvGesture = EvCatGesture | 0x00

// Gesture timing defaults in milliseconds.
const (
	DefaultLongMs           = 800
	DefaultRepeatStartMs    = 1200
	DefaultRepeatIntervalMs = 200
)

// ButtonFSM states.
const (
	btnIdle uint8 = iota
	btnPressed
	btnLongTriggered
	btnRepeating
)

// pendingSize is the capacity of the pending gesture ring. Overflow
// drops the oldest entry.
const pendingSize = 4

// ButtonFSM turns the debounced button word into gesture events:
// short presses, long presses, two-button combos and hold-repeats.
// Update is called from the foreground loop with the current word and
// millisecond count; recognized gestures queue in a small ring until
// PollEvent collects them.
type ButtonFSM struct {
	LongMs           uint32
	RepeatStartMs    uint32
	RepeatIntervalMs uint32

	state       uint8
	lastWord    uint8
	pressStart  uint32
	lastRepeat  uint32
	consumed    bool // an event was already emitted for this press
	pending     [pendingSize]Event
	pendingHead uint8
	pendingLen  uint8

	// Drops counts pending-ring overflows (oldest entry discarded).
	Drops uint32
}

// NewButtonFSM returns an FSM with the default gesture timings.
func NewButtonFSM() ButtonFSM {
	return ButtonFSM{
		LongMs:           DefaultLongMs,
		RepeatStartMs:    DefaultRepeatStartMs,
		RepeatIntervalMs: DefaultRepeatIntervalMs,
	}
}

// comboGesture maps a two-button word to its combo gesture code.
// ok is false for words that are not a known combo.
func comboGesture(word uint8) (uint16, bool) {
	switch word {
	case BtnUp | BtnDown:
		return GestureComboUpDown, true
	case BtnUp | BtnMenu:
		return GestureComboUpMenu, true
	case BtnDown | BtnMenu:
		return GestureComboDownMenu, true
	}
	return 0, false
}

// shortGesture maps a single button bit to its short gesture code.
func shortGesture(bit uint8) uint16 {
	switch bit {
	case BtnUp:
		return GestureShortUp
	case BtnDown:
		return GestureShortDown
	case BtnMenu:
		return GestureShortMenu
	default:
		return GestureShortPower
	}
}

// longGesture maps a single button bit to its long gesture code.
func longGesture(bit uint8) uint16 {
	switch bit {
	case BtnUp:
		return GestureLongUp
	case BtnDown:
		return GestureLongDown
	case BtnMenu:
		return GestureLongMenu
	default:
		return GestureLongPower
	}
}

// Update advances the FSM with the current debounced word.
func (f *ButtonFSM) Update(word uint8, now uint32) {
	word &= 0x0F

	switch f.state {
	case btnIdle:
		if word != 0 {
			f.state = btnPressed
			f.lastWord = word
			f.pressStart = now
			f.consumed = false
		}

	case btnPressed:
		switch {
		case word == 0:
			// Full release before the long threshold.
			if !f.consumed {
				f.emitRelease(f.lastWord, now)
			}
			f.reset()

		case word&^f.lastWord != 0:
			// More buttons joined; keep the original press start so a
			// slightly staggered combo still times from first contact.
			f.lastWord = word

		case f.lastWord&^word != 0:
			// Partial release. Emit once for what was held, then stay
			// quiet until everything is released.
			if !f.consumed {
				f.emitRelease(f.lastWord, now)
				f.consumed = true
			}
			f.lastWord = word

		case Elapsed(now, f.pressStart) >= f.LongMs:
			if !f.consumed {
				f.emitLong(f.lastWord, now)
			}
			f.consumed = true
			f.state = btnLongTriggered
			// The same update may already have crossed the repeat
			// threshold.
			if Elapsed(now, f.pressStart) >= f.RepeatStartMs {
				f.lastRepeat = now
				f.state = btnRepeating
			}
		}

	case btnLongTriggered:
		if word == 0 {
			// No event on release from a long press.
			f.reset()
			break
		}
		f.lastWord = word
		if Elapsed(now, f.pressStart) >= f.RepeatStartMs {
			f.lastRepeat = now
			f.state = btnRepeating
		}

	case btnRepeating:
		if word == 0 {
			f.reset()
			break
		}
		f.lastWord = word
		if Elapsed(now, f.lastRepeat) >= f.RepeatIntervalMs {
			// Repeat only for single UP or DOWN holds; menu, power and
			// combos never auto-repeat.
			switch word {
			case BtnUp:
				f.emit(GestureRepeatUp, word, now)
			case BtnDown:
				f.emit(GestureRepeatDown, word, now)
			}
			f.lastRepeat = now
		}
	}
}

// emitRelease emits the gesture for releasing word before the long
// threshold: one combo event when the word is a known combo, otherwise
// one short event per held bit.
func (f *ButtonFSM) emitRelease(word uint8, now uint32) {
	if g, ok := comboGesture(word); ok {
		f.emit(g, word, now)
		return
	}
	for bit := uint8(1); bit != 0x10; bit <<= 1 {
		if word&bit != 0 {
			f.emit(shortGesture(bit), word, now)
		}
	}
}

// emitLong emits the gesture for holding word past the long threshold.
func (f *ButtonFSM) emitLong(word uint8, now uint32) {
	if g, ok := comboGesture(word); ok {
		f.emit(g, word, now)
		return
	}
	if word&(word-1) == 0 { // single bit
		f.emit(longGesture(word), word, now)
	}
}

// emit queues one gesture event, dropping the oldest on overflow.
func (f *ButtonFSM) emit(gesture uint16, word uint8, now uint32) {
	if f.pendingLen == pendingSize {
		f.pendingHead = (f.pendingHead + 1) % pendingSize
		f.pendingLen--
		f.Drops++
	}
	slot := (f.pendingHead + f.pendingLen) % pendingSize
	f.pending[slot] = Event{Type: EvGesture, Flags: word, Arg: gesture, Time: now}
	f.pendingLen++
}

// PollEvent dequeues one pending gesture event.
func (f *ButtonFSM) PollEvent(out *Event) bool {
	if f.pendingLen == 0 {
		return false
	}
	*out = f.pending[f.pendingHead]
	f.pendingHead = (f.pendingHead + 1) % pendingSize
	f.pendingLen--
	return true
}

// Held returns the button word of the press currently in progress, or
// 0 when idle.
func (f *ButtonFSM) Held() uint8 {
	if f.state == btnIdle {
		return 0
	}
	return f.lastWord
}

// Repeating reports whether the FSM is in the hold-repeat state.
func (f *ButtonFSM) Repeating() bool {
	return f.state == btnRepeating
}

// reset returns to idle without touching the pending ring.
func (f *ButtonFSM) reset() {
	f.state = btnIdle
	f.lastWord = 0
	f.consumed = false
}
