package core

// PortIO is the platform side of one serial port. Implementations
// wrap a UART, USB CDC endpoint or host serial device. The foreground
// polls; nothing here may block.
type PortIO interface {
	// RxAvailable reports whether at least one received byte waits.
	RxAvailable() bool

	// ReadByte removes and returns one received byte. Only called
	// after RxAvailable returned true.
	ReadByte() byte

	// Write queues bytes for transmission. Bytes that do not fit the
	// platform's transmit path are dropped.
	Write(p []byte)
}

// ButtonReader samples the raw 4-bit button word. Called from the
// periodic interrupt; must be a plain GPIO read.
type ButtonReader func() uint8

// MicrosFunc reads a microsecond counter for scheduler execution-time
// metrics. Optional; wrap-safe subtraction applies.
type MicrosFunc func() uint32
