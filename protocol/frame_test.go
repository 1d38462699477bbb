package protocol

import (
	"bytes"
	"testing"
)

func TestBuildValidateRoundTrip(t *testing.T) {
	testCases := []struct {
		name    string
		cmd     byte
		payload []byte
	}{
		{"empty", 0x01, nil},
		{"one byte", 0x81, []byte{0x00}},
		{"short", 0x0C, []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}},
		{"max payload", 0x7F, bytes.Repeat([]byte{0xA5}, MaxPayload)},
	}

	var out [MaxFrame]byte
	for _, tc := range testCases {
		n := Build(out[:], tc.cmd, tc.payload)
		if n != len(tc.payload)+Overhead {
			t.Errorf("%s: Build returned %d, expected %d", tc.name, n, len(tc.payload)+Overhead)
			continue
		}
		frame := out[:n]
		if !Validate(frame) {
			t.Errorf("%s: Validate rejected a built frame", tc.name)
		}
		if Cmd(frame) != tc.cmd {
			t.Errorf("%s: Cmd = 0x%02X, expected 0x%02X", tc.name, Cmd(frame), tc.cmd)
		}
		if !bytes.Equal(Payload(frame), tc.payload) && len(tc.payload) > 0 {
			t.Errorf("%s: payload mismatch", tc.name)
		}
	}
}

func TestBuildRejectsBadInput(t *testing.T) {
	var out [MaxFrame]byte

	if n := Build(out[:], 0x01, bytes.Repeat([]byte{0}, MaxPayload+1)); n != 0 {
		t.Errorf("Build accepted oversized payload, returned %d", n)
	}
	if n := Build(out[:3], 0x01, nil); n != 0 {
		t.Errorf("Build accepted an undersized output buffer, returned %d", n)
	}
	if n := Build(out[:6], 0x01, []byte{1, 2, 3}); n != 0 {
		t.Errorf("Build wrote past a too-small output buffer, returned %d", n)
	}
}

func TestValidateKnownFrame(t *testing.T) {
	// Ping request: checksum is ^(0x55^0x01^0x00) = 0xAB.
	frame := []byte{0x55, 0x01, 0x00, 0xAB}
	if !Validate(frame) {
		t.Error("Validate rejected the canonical ping frame")
	}
}

func TestValidateRejectsTampering(t *testing.T) {
	var out [MaxFrame]byte
	n := Build(out[:], 0x0A, []byte{0x11, 0x22, 0x33})
	frame := out[:n]

	// Any single-byte mutation that changes the XOR of the preamble
	// must be rejected.
	for i := 0; i < n; i++ {
		for _, flip := range []byte{0x01, 0x80, 0xFF} {
			tampered := make([]byte, n)
			copy(tampered, frame)
			tampered[i] ^= flip
			if Validate(tampered) {
				t.Errorf("Validate accepted frame with byte %d xored by 0x%02X", i, flip)
			}
		}
	}
}

func TestValidateRejectsTruncation(t *testing.T) {
	var out [MaxFrame]byte
	n := Build(out[:], 0x0D, []byte{0x00, 0xC8})
	for i := 0; i < n; i++ {
		if Validate(out[:i]) {
			t.Errorf("Validate accepted a frame truncated to %d bytes", i)
		}
	}
}

func TestChecksumComplement(t *testing.T) {
	// An all-zero line must never validate: the complement makes the
	// checksum of zeros 0xFF, not 0x00.
	if Checksum([]byte{0, 0, 0}) != 0xFF {
		t.Errorf("Checksum of zeros = 0x%02X, expected 0xFF", Checksum([]byte{0, 0, 0}))
	}
	if Validate([]byte{0, 0, 0, 0}) {
		t.Error("Validate accepted an all-zero frame")
	}
}
