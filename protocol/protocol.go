// Package protocol implements the framed wire format shared by every
// serial port of the controller: a start byte, a command byte, a
// length byte, up to MaxPayload payload bytes and a checksum. The
// checksum is the bitwise complement of the XOR of all preceding
// bytes, so an all-zero line never validates.
package protocol

const (
	// SOF is the start-of-frame byte.
	SOF = 0x55

	// MaxPayload is the largest payload a frame may carry.
	MaxPayload = 192

	// Overhead is the number of non-payload bytes in a frame:
	// SOF, command, length and checksum.
	Overhead = 4

	// MaxFrame is the size of the largest possible frame.
	MaxFrame = MaxPayload + Overhead
)

// Header byte offsets within a frame.
const (
	offCmd = 1
	offLen = 2
	offPay = 3
)
