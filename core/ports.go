package core

import "github.com/darvell/open-bc280-firmware-sub001/protocol"

// PortID names a logical serial port. The dispatch layer is
// port-agnostic except for remembering which port delivered the last
// valid frame.
type PortID uint8

const (
	PortBLE PortID = iota
	PortMotor
	PortAux
	PortCount
)

// DefaultPortInactivityMs deactivates a port after this long without
// a valid frame.
const DefaultPortInactivityMs = 15000

// port is the per-port receive state: an incremental parser, an
// activity flag and the timestamp of the last valid frame. Foreground
// only.
type port struct {
	parser      protocol.Parser
	active      bool
	lastFrameMs uint32
	frameErrs   uint16
	chkErrs     uint16
}

// pollPorts feeds every available byte from each port into its parser
// and dispatches validated frames. Invalid frames are counted and
// recovered silently; nothing is ever retransmitted at this layer.
func (s *System) pollPorts(now uint32) {
	for id := PortID(0); id < PortCount; id++ {
		io := s.io[id]
		if io == nil {
			continue
		}
		p := &s.ports[id]
		for io.RxAvailable() {
			switch p.parser.Feed(io.ReadByte()) {
			case protocol.FeedFrame:
				s.acceptFrame(id, p, now)
			case protocol.FeedErrLength, protocol.FeedErrOverflow:
				p.frameErrs++
				s.Model.Counters.FrameErrs++
				s.Trace.Record(FaultFraming, uint8(id), now, 0)
			}
		}
	}
}

// acceptFrame validates a completed frame and hands it to the
// dispatcher. A checksum failure discards the frame without reply.
func (s *System) acceptFrame(id PortID, p *port, now uint32) {
	frame := p.parser.Frame()
	if !protocol.Validate(frame) {
		p.chkErrs++
		s.Model.Counters.ChkErrs++
		s.Trace.Record(FaultChecksum, uint8(id), now, uint16(protocol.Cmd(frame)))
		return
	}
	p.active = true
	p.lastFrameMs = now
	s.lastRxPort = id
	s.dispatch(id, protocol.Cmd(frame), protocol.Payload(frame), now)
}

// scanPorts is the housekeeping task: a port that has not produced a
// valid frame within the inactivity window is marked inactive. Its
// parser state is kept so a late frame reactivates it cleanly.
func (s *System) scanPorts(now uint32) {
	for id := PortID(0); id < PortCount; id++ {
		p := &s.ports[id]
		if p.active && Elapsed(now, p.lastFrameMs) >= s.Config.PortInactivityMs {
			p.active = false
			s.Trace.Record(FaultPortIdle, uint8(id), now, 0)
		}
	}
}

// PortActive reports whether a port has seen a valid frame within the
// inactivity window.
func (s *System) PortActive(id PortID) bool {
	if id >= PortCount {
		return false
	}
	return s.ports[id].active
}

// sendFrame builds and transmits a frame on the given port.
func (s *System) sendFrame(id PortID, cmd byte, payload []byte) {
	if id >= PortCount || s.io[id] == nil {
		return
	}
	var buf [protocol.MaxFrame]byte
	n := protocol.Build(buf[:], cmd, payload)
	if n > 0 {
		s.io[id].Write(buf[:n])
	}
}
