package core

// Fault codes recorded in the trace ring.
const (
	FaultFraming   uint8 = 1 // bad length or parser overflow
	FaultChecksum  uint8 = 2 // frame discarded on checksum mismatch
	FaultQueueFull uint8 = 3 // event dropped, queue full
	FaultUnknown   uint8 = 4 // unknown command byte
	FaultPayload   uint8 = 5 // handler rejected a payload
	FaultPortIdle  uint8 = 6 // port deactivated by inactivity
)

// FaultEvent is one entry in the post-mortem trace ring.
type FaultEvent struct {
	Code uint8
	Port uint8
	Ms   uint32
	Arg  uint16
}

// traceRingSize keeps the last 16 faults. 16 entries of 8 bytes fit a
// single trace-dump reply.
const traceRingSize = 16

// Trace is a small ring of recent faults for post-mortem inspection
// through the trace-dump command. Recording never blocks and never
// allocates. Foreground only.
type Trace struct {
	ring [traceRingSize]FaultEvent
	head uint8
	used uint8
}

// Record appends a fault, overwriting the oldest when full.
func (t *Trace) Record(code, port uint8, ms uint32, arg uint16) {
	t.ring[t.head] = FaultEvent{Code: code, Port: port, Ms: ms, Arg: arg}
	t.head = (t.head + 1) % traceRingSize
	if t.used < traceRingSize {
		t.used++
	}
}

// Snapshot copies the recorded faults, oldest first, into out and
// returns the number copied.
func (t *Trace) Snapshot(out []FaultEvent) int {
	n := int(t.used)
	if n > len(out) {
		n = len(out)
	}
	start := (int(t.head) + traceRingSize - int(t.used)) % traceRingSize
	for i := 0; i < n; i++ {
		out[i] = t.ring[(start+i)%traceRingSize]
	}
	return n
}

// Len returns the number of recorded faults.
func (t *Trace) Len() int {
	return int(t.used)
}

// Clear discards all recorded faults.
func (t *Trace) Clear() {
	t.head = 0
	t.used = 0
}
