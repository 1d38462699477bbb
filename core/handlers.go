package core

import "github.com/darvell/open-bc280-firmware-sub001/protocol"

// Firmware version reported by get-version.
const (
	ProtocolVersion uint8 = 1
	FWMajor         uint8 = 0
	FWMinor         uint8 = 3
	FWPatch         uint8 = 0
)

// registerHandlers installs the core command set.
func (s *System) registerHandlers() {
	s.register(CmdPing, handlePing)
	s.register(CmdGetVersion, handleGetVersion)
	s.register(CmdStateDump, handleStateDump)
	s.register(CmdResetCounters, handleResetCounters)
	s.register(CmdSetState, handleSetState)
	s.register(CmdSetStream, handleSetStream)
	s.register(CmdSetProfile, handleSetProfile)
	s.register(CmdTraceDump, handleTraceDump)
}

func handlePing(s *System, from PortID, payload []byte, now uint32) {
	s.sendStatus(from, CmdPing, StatusOK)
}

func handleGetVersion(s *System, from PortID, payload []byte, now uint32) {
	s.sendFrame(from, CmdGetVersion|CmdReplyBit,
		[]byte{ProtocolVersion, FWMajor, FWMinor, FWPatch})
}

// handleStateDump replies with the 16-byte big-endian state snapshot:
// rpm, torque, speed, soc, fault, frame errors, checksum errors,
// event drops, limit reason, assist, profile.
func handleStateDump(s *System, from PortID, payload []byte, now uint32) {
	m := &s.Model
	var w protocol.Writer
	w.PutU16(m.RPM)
	w.PutU16(m.TorqueCNm)
	w.PutU16(m.SpeedDmph)
	w.PutU8(m.SOC)
	w.PutU8(m.Fault)
	w.PutU16(m.Counters.FrameErrs)
	w.PutU16(m.Counters.ChkErrs)
	w.PutU8(m.Counters.EventDrops)
	w.PutU8(uint8(m.LimitReason))
	w.PutU8(m.Assist)
	w.PutU8(m.Profile)
	s.sendFrame(from, CmdStateDump|CmdReplyBit, w.Bytes())
}

func handleResetCounters(s *System, from PortID, payload []byte, now uint32) {
	s.Model.Counters.Reset()
	s.Trace.Clear()
	s.sendStatus(from, CmdResetCounters, StatusOK)
}

// handleSetState ingests a motor state report. The first eight bytes
// are mandatory; each trailing extension is gated purely by payload
// length, never inferred from position.
func handleSetState(s *System, from PortID, payload []byte, now uint32) {
	if len(payload) < 8 {
		s.Model.Counters.BadPayloads++
		s.Trace.Record(FaultPayload, uint8(from), now, uint16(CmdSetState))
		s.sendStatus(from, CmdSetState, StatusBadLength)
		return
	}
	r := protocol.NewReader(payload)
	m := &s.Model
	m.RPM = r.U16()
	m.TorqueCNm = r.U16()
	m.SpeedDmph = r.U16()
	m.SOC = r.U8()
	m.Fault = r.U8()
	if r.Remaining() >= 2 {
		m.CadenceRPM = r.U16()
	}
	if r.Remaining() >= 2 {
		m.PowerW = r.U16()
	}
	if r.Remaining() >= 2 {
		m.BattDV = r.U16()
	}
	if r.Remaining() >= 2 {
		m.BattDA = r.U16()
	}
	if r.Remaining() >= 2 {
		m.TempDC = r.U16()
	}
	if r.Remaining() >= 1 {
		m.MotorFlags = r.U8()
	}
	if r.Remaining() >= 1 {
		m.Gear = r.U8()
	}
	if r.Remaining() >= 1 {
		m.SetAssist(r.U8())
	}
	s.sendStatus(from, CmdSetState, StatusOK)
}

func handleSetStream(s *System, from PortID, payload []byte, now uint32) {
	if len(payload) != 2 {
		s.Model.Counters.BadPayloads++
		s.sendStatus(from, CmdSetStream, StatusBadLength)
		return
	}
	r := protocol.NewReader(payload)
	s.Config.StreamPeriodMs = uint32(r.U16())
	s.sendStatus(from, CmdSetStream, StatusOK)
}

func handleSetProfile(s *System, from PortID, payload []byte, now uint32) {
	if len(payload) != 1 {
		s.Model.Counters.BadPayloads++
		s.sendStatus(from, CmdSetProfile, StatusBadLength)
		return
	}
	if payload[0] >= profileCount {
		s.Model.Counters.BadPayloads++
		s.sendStatus(from, CmdSetProfile, StatusBadValue)
		return
	}
	s.Model.Profile = payload[0]
	s.sendStatus(from, CmdSetProfile, StatusOK)
}

// handleTraceDump replies with the recent fault ring, oldest first,
// eight bytes per entry: code, port, ms be32, arg be16.
func handleTraceDump(s *System, from PortID, payload []byte, now uint32) {
	var faults [traceRingSize]FaultEvent
	n := s.Trace.Snapshot(faults[:])
	var w protocol.Writer
	for i := 0; i < n; i++ {
		w.PutU8(faults[i].Code)
		w.PutU8(faults[i].Port)
		w.PutU32(faults[i].Ms)
		w.PutU16(faults[i].Arg)
	}
	s.sendFrame(from, CmdTraceDump|CmdReplyBit, w.Bytes())
}
