//go:build rp2040 || rp2350

package main

import "machine"

// Battery sense divider: the 36 V pack sits behind a 150k/10k divider,
// so full scale at the pin is 3.3 V * 16 = 52.8 V.
const battFullScaleDV = 528

var battADC machine.ADC

func initBattery() {
	machine.InitADC()
	battADC = machine.ADC{Pin: pinBattSense}
	battADC.Configure(machine.ADCConfig{})
}

// readBatteryDV samples the pack voltage in deci-volts. machine.ADC
// scales reads to 16 bits regardless of converter width.
func readBatteryDV() uint16 {
	raw := uint32(battADC.Get())
	return uint16(raw * battFullScaleDV / 0xFFFF)
}
