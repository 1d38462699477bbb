//go:build rp2040 || rp2350

package main

import "machine"

// BC280 board pin assignment.
const (
	pinBleTX = machine.GPIO0 // UART0 to the BLE module
	pinBleRX = machine.GPIO1
	pinMotTX = machine.GPIO4 // UART1 to the motor controller
	pinMotRX = machine.GPIO5

	pinBtnUp    = machine.GPIO10 // active low, external pull-ups absent
	pinBtnDown  = machine.GPIO11
	pinBtnMenu  = machine.GPIO12
	pinBtnPower = machine.GPIO13

	pinBacklight  = machine.GPIO14 // PWM slice 7 channel A
	pinSpeedPulse = machine.GPIO15 // PIO square wave to the controller

	pinOledSDA = machine.GPIO16 // I2C0
	pinOledSCL = machine.GPIO17

	pinBattSense = machine.ADC0 // GPIO26, through the divider
)
