//go:build rp2040 || rp2350

package main

import "machine"

// pwmSlice abstracts TinyGo's unexported *pwmGroup type behind the
// methods the backlight needs.
type pwmSlice interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	Top() uint32
	Set(channel uint8, value uint32)
}

type backlight struct {
	pwm pwmSlice
	ch  uint8
}

// initBacklight configures the backlight PWM at ~1 kHz on its slice.
// GPIO14 sits on slice 7 channel A.
func initBacklight() (*backlight, error) {
	pwm := pwmSlice(machine.PWM7)
	if err := pwm.Configure(machine.PWMConfig{Period: 1_000_000}); err != nil {
		return nil, err
	}
	ch, err := pwm.Channel(pinBacklight)
	if err != nil {
		return nil, err
	}
	b := &backlight{pwm: pwm, ch: ch}
	b.SetPercent(100)
	return b, nil
}

// SetPercent sets the backlight duty, 0 to 100.
func (b *backlight) SetPercent(pct uint8) {
	if pct > 100 {
		pct = 100
	}
	b.pwm.Set(b.ch, b.pwm.Top()*uint32(pct)/100)
}
