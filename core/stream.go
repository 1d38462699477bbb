package core

import "github.com/darvell/open-bc280-firmware-sub001/protocol"

// StreamVersion is the telemetry payload layout version.
const StreamVersion uint8 = 1

// StreamPayloadLen is the fixed v1 payload size.
const StreamPayloadLen uint8 = 22

// publishStream is the slot-3 task. It runs every tick and gates
// itself on the configured period, so period changes take effect
// without touching the scheduler. Frames go to the port that last
// delivered a valid request.
func (s *System) publishStream(now uint32) {
	period := s.Config.StreamPeriodMs
	if period == 0 {
		return
	}
	if Elapsed(now, s.lastStreamMs) < period {
		return
	}
	s.lastStreamMs = now

	m := &s.Model
	var w protocol.Writer
	w.PutU8(StreamVersion)
	w.PutU8(StreamPayloadLen)
	w.PutU32(now)
	w.PutU16(m.SpeedDmph)
	w.PutU16(m.CadenceRPM)
	w.PutU16(m.PowerW)
	w.PutU16(m.BattDV)
	w.PutU16(m.BattDA)
	w.PutU16(m.TempDC)
	w.PutU8(m.Assist)
	w.PutU8(m.Profile)
	w.PutU8(m.Gear)
	w.PutU8(m.Flags())
	s.sendFrame(s.lastRxPort, CmdStream, w.Bytes())
}

// pollMotor is the slot-0 task: it asks the motor controller for a
// fresh state report and carries the current assist level, flags and
// the power cap the policy settled on. The controller answers with a
// set-state frame through the normal dispatch path.
func (s *System) pollMotor(now uint32) {
	m := &s.Model
	var w protocol.Writer
	w.PutU8(m.Assist)
	w.PutU8(m.Flags())
	w.PutU16(m.PowerLimitW)
	s.sendFrame(PortMotor, CmdMotorPoll, w.Bytes())
}
