package fixmath

// EMA is an exponential moving average over integer samples with a
// millisecond time constant. The accumulator keeps 16 fractional bits
// so short update periods do not truncate to a zero step.
type EMA struct {
	acc    int64 // current value << 16
	tauMs  uint32
	primed bool
}

// NewEMA returns an average with the given time constant. A zero tau
// tracks the input directly.
func NewEMA(tauMs uint32) EMA {
	return EMA{tauMs: tauMs}
}

// Update feeds one sample taken dtMs after the previous one and
// returns the new average. The first sample primes the average.
func (e *EMA) Update(sample int32, dtMs uint32) int32 {
	if !e.primed {
		e.acc = int64(sample) << 16
		e.primed = true
		return sample
	}
	if dtMs == 0 {
		return e.Value()
	}
	// alpha = dt / (tau + dt), in Q16.
	alpha := (int64(dtMs) << 16) / int64(e.tauMs+dtMs)
	e.acc += (int64(sample)<<16 - e.acc) * alpha >> 16
	return e.Value()
}

// Value returns the current average, or 0 before the first sample.
func (e *EMA) Value() int32 {
	return int32(e.acc >> 16)
}

// Primed reports whether at least one sample has been fed.
func (e *EMA) Primed() bool {
	return e.primed
}

// Reset discards all state; the next sample primes the average again.
func (e *EMA) Reset() {
	e.acc = 0
	e.primed = false
}
