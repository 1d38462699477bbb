// Package core implements the controller's cooperative control loop:
// the millisecond clock, the interrupt-to-foreground event queue,
// button debouncing and gesture recognition, the fixed-slot scheduler,
// serial port demultiplexing with a table-driven command dispatcher,
// the telemetry stream publisher and the power policy governors.
//
// Two execution contexts exist. A periodic 1 kHz interrupt advances
// the clock, samples the buttons and pushes raw input events. The
// single foreground loop owns everything else. The clock and the
// event queue are the only values touched by both.
package core

import "sync/atomic"

// Clock is a monotonic millisecond counter incremented by the
// periodic interrupt and read everywhere else as an atomic 32-bit
// load. It wraps after about 49.7 days; all consumers compute
// durations with Elapsed so the wrap is harmless as long as measured
// intervals stay below 2^31 ms.
type Clock struct {
	ms atomic.Uint32
}

// Tick advances the clock by one millisecond. Interrupt context only.
func (c *Clock) Tick() {
	c.ms.Add(1)
}

// Now returns the current millisecond count.
func (c *Clock) Now() uint32 {
	return c.ms.Load()
}

// Set forces the counter to a given value. Used by tests and by hosted
// targets that derive the count from an OS timer.
func (c *Clock) Set(ms uint32) {
	c.ms.Store(ms)
}

// Elapsed returns now - since with unsigned wraparound semantics.
// Never compare now >= since+interval directly; subtract first.
func Elapsed(now, since uint32) uint32 {
	return now - since
}
