package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
)

// ctlConfig holds connection defaults loadable from a JSON file, so
// scripts do not repeat -port/-baud/-broker on every invocation.
// Explicit flags always win over the file.
type ctlConfig struct {
	Port   string `json:"port"`
	Baud   int    `json:"baud"`
	Broker string `json:"broker"`
	Topic  string `json:"topic"`
}

// applyConfigFile overlays file values onto any flag the user did not
// set on the command line.
func applyConfigFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	var cfg ctlConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if cfg.Port != "" && !set["port"] {
		*device = cfg.Port
	}
	if cfg.Baud != 0 && !set["baud"] {
		*baud = cfg.Baud
	}
	if cfg.Broker != "" && !set["broker"] {
		*broker = cfg.Broker
	}
	if cfg.Topic != "" && !set["topic"] {
		*topic = cfg.Topic
	}
	return nil
}
