//go:build linux

package main

import "encoding/json"

// boardConfig maps the hosted build onto real devices: which serial
// node carries each port, where the buttons live on the GPIO chip, and
// the runtime knobs worth overriding without a rebuild.
type boardConfig struct {
	BLEDevice   string `json:"ble_device"`
	BLEBaud     int    `json:"ble_baud"`
	MotorDevice string `json:"motor_device"`
	MotorBaud   int    `json:"motor_baud"`
	AuxDevice   string `json:"aux_device"`
	AuxBaud     int    `json:"aux_baud"`

	GPIOChip    string `json:"gpio_chip"`
	ButtonUp    int    `json:"button_up"`
	ButtonDown  int    `json:"button_down"`
	ButtonMenu  int    `json:"button_menu"`
	ButtonPower int    `json:"button_power"`

	StreamPeriodMs uint32 `json:"stream_period_ms"`
}

// loadConfig parses a JSON configuration and fills in defaults. An
// empty device path leaves that port unconnected.
func loadConfig(jsonData []byte) (*boardConfig, error) {
	var cfg boardConfig
	if len(jsonData) > 0 {
		if err := json.Unmarshal(jsonData, &cfg); err != nil {
			return nil, err
		}
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *boardConfig) {
	if cfg.BLEBaud == 0 {
		cfg.BLEBaud = 115200
	}
	if cfg.MotorBaud == 0 {
		cfg.MotorBaud = 9600
	}
	if cfg.AuxBaud == 0 {
		cfg.AuxBaud = 115200
	}
	if cfg.GPIOChip == "" {
		cfg.GPIOChip = "gpiochip0"
	}
	if cfg.ButtonUp == 0 {
		cfg.ButtonUp = 17
	}
	if cfg.ButtonDown == 0 {
		cfg.ButtonDown = 27
	}
	if cfg.ButtonMenu == 0 {
		cfg.ButtonMenu = 22
	}
	if cfg.ButtonPower == 0 {
		cfg.ButtonPower = 23
	}
}
