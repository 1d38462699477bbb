package protocol

// Writer builds a big-endian payload in a fixed scratch buffer. It
// silently stops appending once MaxPayload bytes have been written;
// the caller detects truncation through Len.
type Writer struct {
	buf [MaxPayload]byte
	pos int
}

// PutU8 appends one byte.
func (w *Writer) PutU8(v uint8) {
	if w.pos < len(w.buf) {
		w.buf[w.pos] = v
		w.pos++
	}
}

// PutU16 appends v in big-endian order.
func (w *Writer) PutU16(v uint16) {
	w.PutU8(uint8(v >> 8))
	w.PutU8(uint8(v))
}

// PutU32 appends v in big-endian order.
func (w *Writer) PutU32(v uint32) {
	w.PutU8(uint8(v >> 24))
	w.PutU8(uint8(v >> 16))
	w.PutU8(uint8(v >> 8))
	w.PutU8(uint8(v))
}

// Bytes returns the accumulated payload.
func (w *Writer) Bytes() []byte {
	return w.buf[:w.pos]
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return w.pos
}

// Reset empties the writer for reuse.
func (w *Writer) Reset() {
	w.pos = 0
}

// Reader walks a big-endian payload. Reads past the end return zero
// and set the short flag instead of panicking, so handlers can gate
// optional trailing fields on Remaining without bounds arithmetic.
type Reader struct {
	data  []byte
	pos   int
	short bool
}

// NewReader returns a Reader over data.
func NewReader(data []byte) Reader {
	return Reader{data: data}
}

// U8 consumes one byte.
func (r *Reader) U8() uint8 {
	if r.pos >= len(r.data) {
		r.short = true
		return 0
	}
	v := r.data[r.pos]
	r.pos++
	return v
}

// U16 consumes two bytes, big-endian.
func (r *Reader) U16() uint16 {
	return uint16(r.U8())<<8 | uint16(r.U8())
}

// U32 consumes four bytes, big-endian.
func (r *Reader) U32() uint32 {
	return uint32(r.U16())<<16 | uint32(r.U16())
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// Short reports whether any read ran past the end of the payload.
func (r *Reader) Short() bool {
	return r.short
}
