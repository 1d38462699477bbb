//go:build linux

package main

import "testing"

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(nil)
	if err != nil {
		t.Fatalf("load empty config: %v", err)
	}
	if cfg.GPIOChip != "gpiochip0" {
		t.Errorf("GPIOChip = %q", cfg.GPIOChip)
	}
	if cfg.MotorBaud != 9600 || cfg.BLEBaud != 115200 {
		t.Errorf("bauds = %d/%d", cfg.MotorBaud, cfg.BLEBaud)
	}
	if cfg.BLEDevice != "" {
		t.Errorf("BLEDevice = %q, expected unconnected", cfg.BLEDevice)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	raw := []byte(`{
		"ble_device": "/dev/ttyUSB0",
		"motor_device": "/dev/ttyUSB1",
		"motor_baud": 19200,
		"button_up": 5,
		"stream_period_ms": 100
	}`)
	cfg, err := loadConfig(raw)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.MotorBaud != 19200 {
		t.Errorf("MotorBaud = %d", cfg.MotorBaud)
	}
	if cfg.ButtonUp != 5 || cfg.ButtonDown != 27 {
		t.Errorf("buttons = %d/%d, override and default mixed wrong", cfg.ButtonUp, cfg.ButtonDown)
	}
	if cfg.StreamPeriodMs != 100 {
		t.Errorf("StreamPeriodMs = %d", cfg.StreamPeriodMs)
	}
}

func TestLoadConfigRejectsBadJSON(t *testing.T) {
	if _, err := loadConfig([]byte("{nope")); err == nil {
		t.Fatal("bad JSON accepted")
	}
}
