package protocol

import (
	"bytes"
	"testing"
)

// feedAll pushes a byte slice through the parser and collects every
// completed frame.
func feedAll(p *Parser, data []byte) ([][]byte, []FeedResult) {
	var frames [][]byte
	var errs []FeedResult
	for _, b := range data {
		switch res := p.Feed(b); res {
		case FeedFrame:
			f := make([]byte, len(p.Frame()))
			copy(f, p.Frame())
			frames = append(frames, f)
		case FeedErrLength, FeedErrOverflow:
			errs = append(errs, res)
		}
	}
	return frames, errs
}

func TestParserSingleFrame(t *testing.T) {
	var p Parser
	frames, errs := feedAll(&p, []byte{0x55, 0x01, 0x00, 0xAB})
	if len(errs) != 0 {
		t.Fatalf("unexpected parser errors: %v", errs)
	}
	if len(frames) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(frames))
	}
	if !Validate(frames[0]) {
		t.Error("parsed frame failed validation")
	}
	if Cmd(frames[0]) != 0x01 {
		t.Errorf("Cmd = 0x%02X, expected 0x01", Cmd(frames[0]))
	}
}

func TestParserResyncsOnGarbage(t *testing.T) {
	var p Parser
	var stream []byte
	stream = append(stream, 0x00, 0xFF, 0x12, 0x34) // line noise
	var out [MaxFrame]byte
	n := Build(out[:], 0x0A, nil)
	stream = append(stream, out[:n]...)

	frames, errs := feedAll(&p, stream)
	if len(errs) != 0 {
		t.Fatalf("unexpected parser errors: %v", errs)
	}
	if len(frames) != 1 {
		t.Fatalf("expected 1 frame after garbage, got %d", len(frames))
	}
	if p.Resyncs != 4 {
		t.Errorf("Resyncs = %d, expected 4", p.Resyncs)
	}
}

func TestParserBackToBackFrames(t *testing.T) {
	var p Parser
	var stream []byte
	var out [MaxFrame]byte
	payloads := [][]byte{nil, {0x01}, {0x01, 0x02, 0x03}}
	for i, pl := range payloads {
		n := Build(out[:], byte(0x10+i), pl)
		stream = append(stream, out[:n]...)
	}

	frames, errs := feedAll(&p, stream)
	if len(errs) != 0 {
		t.Fatalf("unexpected parser errors: %v", errs)
	}
	if len(frames) != len(payloads) {
		t.Fatalf("expected %d frames, got %d", len(payloads), len(frames))
	}
	for i, f := range frames {
		if Cmd(f) != byte(0x10+i) {
			t.Errorf("frame %d: Cmd = 0x%02X, expected 0x%02X", i, Cmd(f), 0x10+i)
		}
		if !bytes.Equal(Payload(f), payloads[i]) && len(payloads[i]) > 0 {
			t.Errorf("frame %d: payload mismatch", i)
		}
	}
}

func TestParserRejectsOversizedLength(t *testing.T) {
	var p Parser
	res := FeedMore
	for _, b := range []byte{0x55, 0x01, MaxPayload + 1} {
		res = p.Feed(b)
	}
	if res != FeedErrLength {
		t.Fatalf("expected FeedErrLength, got %v", res)
	}

	// The parser must have reset and accept a clean frame afterwards.
	frames, errs := feedAll(&p, []byte{0x55, 0x01, 0x00, 0xAB})
	if len(errs) != 0 || len(frames) != 1 {
		t.Errorf("parser did not recover: frames=%d errs=%v", len(frames), errs)
	}
}

func TestParserMaxPayloadFrame(t *testing.T) {
	var p Parser
	var out [MaxFrame]byte
	n := Build(out[:], 0x20, bytes.Repeat([]byte{0x5A}, MaxPayload))
	frames, errs := feedAll(&p, out[:n])
	if len(errs) != 0 {
		t.Fatalf("unexpected parser errors: %v", errs)
	}
	if len(frames) != 1 || len(frames[0]) != MaxFrame {
		t.Fatalf("expected one %d-byte frame, got %d frames", MaxFrame, len(frames))
	}
	if !Validate(frames[0]) {
		t.Error("max-size frame failed validation")
	}
}

func TestParserSOFInsidePayload(t *testing.T) {
	// A payload byte equal to the start byte must not restart framing.
	var p Parser
	var out [MaxFrame]byte
	n := Build(out[:], 0x0C, []byte{SOF, SOF, SOF, SOF, SOF, SOF, SOF, SOF})
	frames, errs := feedAll(&p, out[:n])
	if len(errs) != 0 || len(frames) != 1 {
		t.Fatalf("expected 1 frame, got %d (errs %v)", len(frames), errs)
	}
	if !Validate(frames[0]) {
		t.Error("frame with SOF bytes in payload failed validation")
	}
}
