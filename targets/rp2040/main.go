//go:build rp2040 || rp2350

package main

import (
	"machine"
	"time"

	"github.com/darvell/open-bc280-firmware-sub001/core"
)

const displayRefreshMs = 250

func main() {
	// Clear any watchdog state left over from a previous reset.
	if err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0}); err != nil {
		return
	}

	ble, motor, err := initPorts()
	if err != nil {
		fatalBlink()
	}
	initButtons()
	initBattery()

	sys := core.NewSystem(core.DefaultConfig(), [core.PortCount]core.PortIO{
		core.PortBLE:   ble,
		core.PortMotor: motor,
		core.PortAux:   usbPort{},
	}, readButtons, micros)

	if err := initDisplay(); err != nil {
		fatalBlink()
	}
	bl, err := initBacklight()
	if err != nil {
		fatalBlink()
	}
	pulse, err := initSpeedPulse()
	if err != nil {
		fatalBlink()
	}

	sys.RegisterUITask(displayRefreshMs, func(now uint32) {
		refreshDisplay(sys)
	})

	wasOff := false
	lastTickUs := micros()

	for {
		func() {
			defer func() {
				if r := recover(); r != nil {
					// Keep the loop alive; the counters and trace
					// already hold whatever led here.
					sys.Model.Counters.BadPayloads++
				}
			}()

			// Catch the millisecond clock up to the hardware timer.
			// Ticks burst after a long scheduler slot instead of
			// drifting.
			now := micros()
			for core.Elapsed(now, lastTickUs) >= 1000 {
				lastTickUs += 1000
				sys.PeriodicTick()
			}

			sys.Step()

			m := &sys.Model
			m.BattDV = readBatteryDV()
			pulse.Feed(m.SpeedDmph)

			if m.PowerOff != wasOff {
				wasOff = m.PowerOff
				if m.PowerOff {
					bl.SetPercent(0)
				} else {
					bl.SetPercent(100)
				}
			}
		}()

		time.Sleep(100 * time.Microsecond)
	}
}

// fatalBlink signals an unrecoverable init failure on the onboard LED.
func fatalBlink() {
	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})
	for {
		led.High()
		time.Sleep(100 * time.Millisecond)
		led.Low()
		time.Sleep(100 * time.Millisecond)
	}
}
