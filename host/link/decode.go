package link

import (
	"fmt"

	"github.com/darvell/open-bc280-firmware-sub001/protocol"
)

// State is the decoded state-dump snapshot.
type State struct {
	RPM         uint16
	TorqueCNm   uint16
	SpeedDmph   uint16
	SOC         uint8
	Fault       uint8
	FrameErrs   uint16
	ChkErrs     uint16
	EventDrops  uint8
	LimitReason uint8
	Assist      uint8
	Profile     uint8
}

func decodeState(pl []byte) (State, error) {
	if len(pl) != 16 {
		return State{}, fmt.Errorf("link: state dump is %d bytes, want 16", len(pl))
	}
	r := protocol.NewReader(pl)
	return State{
		RPM:         r.U16(),
		TorqueCNm:   r.U16(),
		SpeedDmph:   r.U16(),
		SOC:         r.U8(),
		Fault:       r.U8(),
		FrameErrs:   r.U16(),
		ChkErrs:     r.U16(),
		EventDrops:  r.U8(),
		LimitReason: r.U8(),
		Assist:      r.U8(),
		Profile:     r.U8(),
	}, nil
}

// Fault is one decoded fault-trace entry.
type Fault struct {
	Code uint8
	Port uint8
	Ms   uint32
	Arg  uint16
}

func decodeFaults(pl []byte) ([]Fault, error) {
	if len(pl)%8 != 0 {
		return nil, fmt.Errorf("link: trace dump is %d bytes, want a multiple of 8", len(pl))
	}
	r := protocol.NewReader(pl)
	faults := make([]Fault, 0, len(pl)/8)
	for r.Remaining() >= 8 {
		faults = append(faults, Fault{
			Code: r.U8(),
			Port: r.U8(),
			Ms:   r.U32(),
			Arg:  r.U16(),
		})
	}
	return faults, nil
}

// Telemetry is one decoded stream frame payload.
type Telemetry struct {
	Version    uint8
	Ms         uint32
	SpeedDmph  uint16
	CadenceRPM uint16
	PowerW     uint16
	BattDV     uint16
	BattDA     uint16
	TempDC     uint16
	Assist     uint8
	Profile    uint8
	Gear       uint8
	Flags      uint8
}

// DecodeTelemetry parses a telemetry payload. The second byte carries
// the payload size so later versions can grow the layout.
func DecodeTelemetry(pl []byte) (Telemetry, error) {
	if len(pl) < 22 {
		return Telemetry{}, fmt.Errorf("link: telemetry is %d bytes, want at least 22", len(pl))
	}
	r := protocol.NewReader(pl)
	t := Telemetry{Version: r.U8()}
	if size := r.U8(); int(size) > len(pl) {
		return Telemetry{}, fmt.Errorf("link: telemetry size byte %d exceeds payload", size)
	}
	t.Ms = r.U32()
	t.SpeedDmph = r.U16()
	t.CadenceRPM = r.U16()
	t.PowerW = r.U16()
	t.BattDV = r.U16()
	t.BattDA = r.U16()
	t.TempDC = r.U16()
	t.Assist = r.U8()
	t.Profile = r.U8()
	t.Gear = r.U8()
	t.Flags = r.U8()
	return t, nil
}
