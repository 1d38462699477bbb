package protocol

// FeedResult reports the outcome of feeding one byte to a Parser.
type FeedResult uint8

const (
	// FeedMore means the parser needs more bytes.
	FeedMore FeedResult = iota

	// FeedFrame means a complete frame is buffered; fetch it with
	// Frame before the next Feed call.
	FeedFrame

	// FeedErrLength means the length byte exceeded MaxPayload. The
	// parser has reset itself.
	FeedErrLength

	// FeedErrOverflow means the internal buffer would have
	// overflowed. The parser has reset itself.
	FeedErrOverflow
)

// Parser reassembles frames from a byte stream, one byte at a time.
// Each serial port owns one Parser; it keeps no reference to the port
// and allocates nothing after construction.
//
// The protocol position is tracked implicitly by the write position:
// byte 0 must be the start byte (anything else is discarded so the
// parser resynchronizes on the next SOF), bytes 1 and 2 accumulate the
// command and length, and the frame is complete when length+4 bytes
// have arrived. Validation is the caller's job via Validate.
type Parser struct {
	buf      [MaxFrame]byte
	writePos int
	frameLen int

	// Resyncs counts bytes discarded while hunting for a start byte.
	Resyncs uint32
}

// Feed consumes one byte and reports whether a frame completed.
func (p *Parser) Feed(b byte) FeedResult {
	if p.writePos == 0 && b != SOF {
		p.Resyncs++
		return FeedMore
	}
	if p.writePos >= len(p.buf) {
		p.Reset()
		return FeedErrOverflow
	}
	p.buf[p.writePos] = b
	p.writePos++

	if p.writePos == offPay {
		if int(p.buf[offLen]) > MaxPayload {
			p.Reset()
			return FeedErrLength
		}
	}
	if p.writePos >= Overhead && p.writePos == int(p.buf[offLen])+Overhead {
		p.frameLen = p.writePos
		p.writePos = 0
		return FeedFrame
	}
	return FeedMore
}

// Frame returns the completed frame after Feed returned FeedFrame.
// The slice aliases the parser buffer and is only valid until the
// next Feed call.
func (p *Parser) Frame() []byte {
	return p.buf[:p.frameLen]
}

// Reset discards any partially accumulated frame.
func (p *Parser) Reset() {
	p.writePos = 0
	p.frameLen = 0
}
