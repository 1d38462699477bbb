package core

// Wire command bytes. Replies echo the request command with the high
// bit set; the telemetry stream uses a fixed outbound command.
const (
	CmdPing          byte = 0x01
	CmdGetVersion    byte = 0x02
	CmdStateDump     byte = 0x0A
	CmdResetCounters byte = 0x0B
	CmdSetState      byte = 0x0C
	CmdSetStream     byte = 0x0D
	CmdSetProfile    byte = 0x0E
	CmdTraceDump     byte = 0x0F
	CmdMotorPoll     byte = 0x10
	CmdStream        byte = 0x81

	// CmdReplyBit marks a reply or status frame.
	CmdReplyBit byte = 0x80
)

// Status codes carried by status replies.
const (
	StatusOK         byte = 0x00
	StatusBadLength  byte = 0x01
	StatusBadValue   byte = 0x02
	StatusUnknownCmd byte = 0xFF
)

// Handler processes one validated inbound frame. Replies go back on
// the port that delivered the request; handlers receive it by value,
// so nothing holds a back-pointer to the port layer.
type Handler func(s *System, from PortID, payload []byte, now uint32)

// register installs a handler for a command byte.
func (s *System) register(cmd byte, h Handler) {
	s.handlers[cmd] = h
}

// dispatch routes a validated frame to its handler. Unknown commands
// get an echoed-command status reply with StatusUnknownCmd.
func (s *System) dispatch(from PortID, cmd byte, payload []byte, now uint32) {
	h := s.handlers[cmd]
	if h == nil {
		s.Model.Counters.UnknownCmds++
		s.Trace.Record(FaultUnknown, uint8(from), now, uint16(cmd))
		s.sendStatus(from, cmd, StatusUnknownCmd)
		return
	}
	h(s, from, payload, now)
}

// sendStatus replies with the echoed command (high bit set) and a
// single status byte: zero for success, nonzero for an error.
func (s *System) sendStatus(to PortID, cmd byte, status byte) {
	s.sendFrame(to, cmd|CmdReplyBit, []byte{status})
}
