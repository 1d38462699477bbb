//go:build rp2040 || rp2350

package main

import (
	"machine"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"
)

// The controller expects a wheel-sensor square wave on the speed-pulse
// line, one pulse per wheel revolution. A PIO state machine generates
// it so jitter stays off the foreground loop. Each FIFO word encodes
// one full wave cycle:
//
//	Bits 0-15:  high half-period, in 0.1 ms loop ticks
//	Bits 16-31: low half-period, in 0.1 ms loop ticks
//
// With an empty FIFO the pull blocks and the line idles low, which the
// controller reads as standstill.
func buildSpeedPulseProgram() []uint16 {
	asm := rp2pio.AssemblerV0{SidesetBits: 0}
	return []uint16{
		// .wrap_target
		asm.Pull(false, true).Encode(),           // 0: pull block
		asm.Out(rp2pio.OutDestX, 16).Encode(),    // 1: out x, 16 (high ticks)
		asm.Out(rp2pio.OutDestY, 16).Encode(),    // 2: out y, 16 (low ticks)
		asm.Set(rp2pio.SetDestPins, 1).Encode(),  // 3: set pins, 1
		asm.Jmp(4, rp2pio.JmpXNZeroDec).Encode(), // 4: jmp x--, 4
		asm.Set(rp2pio.SetDestPins, 0).Encode(),  // 5: set pins, 0
		asm.Jmp(6, rp2pio.JmpYNZeroDec).Encode(), // 6: jmp y--, 6
		// .wrap
	}
}

const speedPulseOrigin = 0

// Wheel geometry: 26" wheel, ~2.07 m circumference. One deci-mph is
// 0.00447 m/s, so revolutions per second = speed_dmph * 216 / 10000.
const revMilliHzPerDmph = 216 // pulse rate in milli-Hz per 0.1 mph

// Loop tick rate after the clock divider: 125 MHz / 12500 = 10 kHz.
const pulseTickHz = 10_000

type speedPulse struct {
	sm rp2pio.StateMachine
}

func initSpeedPulse() (*speedPulse, error) {
	pioHW := rp2pio.PIO0
	sm := pioHW.StateMachine(0)
	sm.TryClaim()

	program := buildSpeedPulseProgram()
	offset, err := pioHW.AddProgram(program, speedPulseOrigin)
	if err != nil {
		return nil, err
	}

	pin := machine.Pin(pinSpeedPulse)
	pin.Configure(machine.PinConfig{Mode: pioHW.PinMode()})

	cfg := rp2pio.DefaultStateMachineConfig()
	cfg.SetSetPins(pin, 1)
	cfg.SetOutShift(true, false, 32)
	cfg.SetWrap(offset+uint8(len(program))-1, offset)
	cfg.SetClkDivIntFrac(12500, 0)

	sm.Init(offset, cfg)
	sm.SetPindirsConsecutive(pin, 1, true)
	sm.SetPinsConsecutive(pin, 1, false)
	sm.SetEnabled(true)

	return &speedPulse{sm: sm}, nil
}

// Feed tops up the wave FIFO to match the given speed. Non-blocking:
// it queues at most what the FIFO accepts, and queues nothing at
// standstill so the line falls idle once the queued cycles drain.
func (s *speedPulse) Feed(speedDmph uint16) {
	if speedDmph == 0 {
		return
	}
	freqMilliHz := uint32(speedDmph) * revMilliHzPerDmph
	half := uint32(pulseTickHz) * 1000 / (2 * freqMilliHz)
	if half == 0 {
		half = 1
	}
	if half > 0xFFFF {
		// Slower than the encodable wave; treat as standstill.
		return
	}
	word := half | half<<16
	for !s.sm.IsTxFIFOFull() {
		s.sm.TxPut(word)
	}
}
