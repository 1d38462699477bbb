package protocol

import "testing"

func TestFifoBufferWriteRead(t *testing.T) {
	f := NewFifoBuffer(8)

	n := f.Write([]byte{1, 2, 3})
	if n != 3 {
		t.Fatalf("Write returned %d, expected 3", n)
	}
	if f.Available() != 3 {
		t.Errorf("Available = %d, expected 3", f.Available())
	}

	for want := byte(1); want <= 3; want++ {
		b, ok := f.ReadByte()
		if !ok || b != want {
			t.Errorf("ReadByte = (%d, %v), expected (%d, true)", b, ok, want)
		}
	}
	if _, ok := f.ReadByte(); ok {
		t.Error("ReadByte succeeded on an empty buffer")
	}
}

func TestFifoBufferCapacity(t *testing.T) {
	// Capacity-1 bytes usable.
	f := NewFifoBuffer(4)
	n := f.Write([]byte{1, 2, 3, 4, 5})
	if n != 3 {
		t.Errorf("Write returned %d, expected 3", n)
	}
	if f.Free() != 0 {
		t.Errorf("Free = %d, expected 0", f.Free())
	}
	if f.WriteByte(9) {
		t.Error("WriteByte succeeded on a full buffer")
	}
}

func TestFifoBufferWrapAround(t *testing.T) {
	f := NewFifoBuffer(4)
	for round := 0; round < 10; round++ {
		if !f.WriteByte(byte(round)) {
			t.Fatalf("round %d: WriteByte failed", round)
		}
		if !f.WriteByte(byte(round + 100)) {
			t.Fatalf("round %d: second WriteByte failed", round)
		}
		b, _ := f.ReadByte()
		if b != byte(round) {
			t.Errorf("round %d: read %d, expected %d", round, b, round)
		}
		b, _ = f.ReadByte()
		if b != byte(round+100) {
			t.Errorf("round %d: read %d, expected %d", round, b, round+100)
		}
	}
	if !f.IsEmpty() {
		t.Error("buffer not empty after balanced writes and reads")
	}
}

func TestFifoBufferReset(t *testing.T) {
	f := NewFifoBuffer(8)
	f.Write([]byte{1, 2, 3})
	f.Reset()
	if !f.IsEmpty() || f.Available() != 0 {
		t.Error("Reset did not empty the buffer")
	}
}
