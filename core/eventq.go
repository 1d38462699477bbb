package core

import "sync/atomic"

// Event is the 8-byte record crossing from interrupt context to the
// foreground. Events travel by value; neither side retains a pointer
// into the ring. The high nibble of Type is the event category.
type Event struct {
	Type  uint8
	Flags uint8
	Arg   uint16
	Time  uint32
}

// Event categories (high nibble of Type).
const (
	EvCatInput   = 0x10
	EvCatGesture = 0x20
	EvCatSystem  = 0x30
)

// Input events produced by the interrupt.
const (
	// EvButtonWord carries a debounced 4-bit button word in the low
	// bits of Arg. Pushed whenever the stable word changes.
	EvButtonWord = EvCatInput | 0x00
)

// Category returns the category nibble of an event type.
func Category(typ uint8) uint8 {
	return typ & 0xF0
}

// EventQueueSize is the ring capacity. Power of two; capacity-1
// entries usable.
const EventQueueSize = 32

const eventQueueMask = EventQueueSize - 1

// EventQueue is a lock-free single-producer single-consumer ring of
// events. The interrupt pushes, the foreground pops; no other access
// pattern is allowed.
//
// Ordering: the producer stores the event before publishing head with
// a release store, and the consumer acquire-loads head before reading
// the slot, so the consumer always observes complete event data. Go's
// sync/atomic provides sequentially consistent operations, which
// subsume the release/acquire pair this ring needs. A plain volatile
// 32-bit read would not be enough on weakly ordered cores.
type EventQueue struct {
	head   atomic.Uint32 // producer writes, both read
	tail   atomic.Uint32 // consumer writes, both read
	events [EventQueueSize]Event
}

// Push appends an event. Returns false when the queue is full; the
// producer is an interrupt and must never block, so the caller counts
// the drop and moves on.
func (q *EventQueue) Push(e Event) bool {
	head := q.head.Load()
	next := (head + 1) & eventQueueMask
	if next == q.tail.Load() {
		return false
	}
	q.events[head] = e
	q.head.Store(next) // release: event visible before index
	return true
}

// Pop removes the oldest event into out. Returns false when empty.
func (q *EventQueue) Pop(out *Event) bool {
	tail := q.tail.Load()
	if q.head.Load() == tail { // acquire: index before event data
		return false
	}
	*out = q.events[tail]
	q.tail.Store((tail + 1) & eventQueueMask)
	return true
}

// Empty reports whether the queue holds no events.
func (q *EventQueue) Empty() bool {
	return q.head.Load() == q.tail.Load()
}

// Full reports whether a push would fail.
func (q *EventQueue) Full() bool {
	return (q.head.Load()+1)&eventQueueMask == q.tail.Load()
}

// Count returns a snapshot of the number of queued events.
func (q *EventQueue) Count() int {
	return int((q.head.Load() - q.tail.Load()) & eventQueueMask)
}

// Drain pops every queued event through handler and returns the
// number handled. Foreground only.
func (q *EventQueue) Drain(handler func(Event)) int {
	var e Event
	n := 0
	for q.Pop(&e) {
		handler(e)
		n++
	}
	return n
}
