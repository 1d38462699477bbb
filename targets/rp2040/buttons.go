//go:build rp2040 || rp2350

package main

import (
	"machine"

	"github.com/darvell/open-bc280-firmware-sub001/core"
)

var buttonPins = [...]struct {
	pin machine.Pin
	bit uint8
}{
	{pinBtnUp, core.BtnUp},
	{pinBtnDown, core.BtnDown},
	{pinBtnMenu, core.BtnMenu},
	{pinBtnPower, core.BtnPower},
}

func initButtons() {
	for _, b := range buttonPins {
		b.pin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	}
}

// readButtons samples the raw button word. Pins are active low; the
// debouncer in core handles contact bounce.
func readButtons() uint8 {
	var word uint8
	for _, b := range buttonPins {
		if !b.pin.Get() {
			word |= b.bit
		}
	}
	return word
}
