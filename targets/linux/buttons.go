//go:build linux

package main

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"

	"github.com/darvell/open-bc280-firmware-sub001/core"
)

// buttonPad reads the four control buttons through the Linux GPIO
// character device. Lines are active low with pull-ups, matching the
// handlebar pad wiring.
type buttonPad struct {
	chip  *gpiocdev.Chip
	lines [4]*gpiocdev.Line
}

var buttonBits = [4]uint8{core.BtnUp, core.BtnDown, core.BtnMenu, core.BtnPower}

func openButtons(cfg *boardConfig) (*buttonPad, error) {
	chip, err := gpiocdev.NewChip(cfg.GPIOChip)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}
	pad := &buttonPad{chip: chip}
	offsets := [4]int{cfg.ButtonUp, cfg.ButtonDown, cfg.ButtonMenu, cfg.ButtonPower}
	for i, off := range offsets {
		line, err := chip.RequestLine(off, gpiocdev.AsInput, gpiocdev.WithPullUp)
		if err != nil {
			pad.Close()
			return nil, fmt.Errorf("request button line %d: %w", off, err)
		}
		pad.lines[i] = line
	}
	return pad, nil
}

// Read samples the raw button word. Errors read as released; the
// debouncer absorbs the glitch.
func (p *buttonPad) Read() uint8 {
	var word uint8
	for i, line := range p.lines {
		v, err := line.Value()
		if err != nil {
			continue
		}
		if v == 0 {
			word |= buttonBits[i]
		}
	}
	return word
}

func (p *buttonPad) Close() error {
	for _, line := range p.lines {
		if line != nil {
			_ = line.Close()
		}
	}
	if p.chip != nil {
		return p.chip.Close()
	}
	return nil
}
