package core

// debounceWindow is the number of raw samples in the voting window.
// At the 5 ms sampling cadence this filters glitches up to ~20 ms.
const debounceWindow = 4

// Debouncer filters a raw 4-bit button word with a per-bit majority
// vote over the last four samples: a stable bit is set iff at least
// three of the four samples agree. Interrupt context only.
type Debouncer struct {
	history [debounceWindow]uint8
	index   uint8
	stable  uint8
}

// Update stores one raw sample and returns the new stable word.
func (d *Debouncer) Update(raw uint8) uint8 {
	d.history[d.index] = raw & 0x0F
	d.index = (d.index + 1) % debounceWindow

	var stable uint8
	for bit := uint8(0); bit < 4; bit++ {
		count := 0
		for _, s := range d.history {
			if s&(1<<bit) != 0 {
				count++
			}
		}
		if count >= 3 {
			stable |= 1 << bit
		}
	}
	d.stable = stable
	return stable
}

// Stable returns the last computed stable word.
func (d *Debouncer) Stable() uint8 {
	return d.stable
}

// Reset zeroes the history, index and stable word.
func (d *Debouncer) Reset() {
	*d = Debouncer{}
}
