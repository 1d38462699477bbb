package protocol

// Checksum computes the frame checksum over data: the bitwise
// complement of the XOR of every byte. The complement guarantees a
// run of zero bytes never checks out.
func Checksum(data []byte) byte {
	var x byte
	for _, b := range data {
		x ^= b
	}
	return ^x
}

// Build assembles a frame for cmd with the given payload into out and
// returns the total frame length. It returns 0 if the payload exceeds
// MaxPayload, if a non-zero length comes with a nil payload, or if out
// is too small to hold the frame.
func Build(out []byte, cmd byte, payload []byte) int {
	n := len(payload)
	if n > MaxPayload {
		return 0
	}
	total := n + Overhead
	if len(out) < total {
		return 0
	}
	out[0] = SOF
	out[offCmd] = cmd
	out[offLen] = byte(n)
	copy(out[offPay:], payload)
	out[total-1] = Checksum(out[:total-1])
	return total
}

// Validate reports whether frame is a complete, well-formed frame:
// correct start byte, a length byte that matches the slice, a payload
// within bounds and a matching checksum.
func Validate(frame []byte) bool {
	if len(frame) < Overhead {
		return false
	}
	if frame[0] != SOF {
		return false
	}
	n := int(frame[offLen])
	if n > MaxPayload || len(frame) != n+Overhead {
		return false
	}
	return frame[len(frame)-1] == Checksum(frame[:len(frame)-1])
}

// Cmd returns the command byte of a frame. The frame must hold at
// least the header.
func Cmd(frame []byte) byte {
	return frame[offCmd]
}

// Payload returns the payload bytes of a validated frame.
func Payload(frame []byte) []byte {
	n := int(frame[offLen])
	return frame[offPay : offPay+n]
}
