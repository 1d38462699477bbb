//go:build linux

package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/darvell/open-bc280-firmware-sub001/core"
)

var (
	configPath = flag.String("config", "", "JSON board configuration path")
	noButtons  = flag.Bool("no-buttons", false, "Run without GPIO buttons")
)

func main() {
	flag.Parse()
	log.SetFlags(log.Ltime | log.Lmicroseconds)

	var raw []byte
	if *configPath != "" {
		var err error
		raw, err = os.ReadFile(*configPath)
		if err != nil {
			log.Fatalf("read config: %v", err)
		}
	}
	cfg, err := loadConfig(raw)
	if err != nil {
		log.Fatalf("parse config: %v", err)
	}

	var io [core.PortCount]core.PortIO
	open := func(id core.PortID, name, device string, baud int) {
		if device == "" {
			return
		}
		p, err := openSerialPort(name, device, baud)
		if err != nil {
			log.Fatalf("open %s port: %v", name, err)
		}
		io[id] = p
		log.Printf("%s port on %s at %d baud", name, device, baud)
	}
	open(core.PortBLE, "ble", cfg.BLEDevice, cfg.BLEBaud)
	open(core.PortMotor, "motor", cfg.MotorDevice, cfg.MotorBaud)
	open(core.PortAux, "aux", cfg.AuxDevice, cfg.AuxBaud)

	var buttons core.ButtonReader
	if !*noButtons {
		pad, err := openButtons(cfg)
		if err != nil {
			log.Fatalf("open buttons: %v", err)
		}
		defer pad.Close()
		buttons = pad.Read
	}

	start := time.Now()
	micros := func() uint32 {
		return uint32(time.Since(start).Microseconds())
	}

	sysCfg := core.DefaultConfig()
	if cfg.StreamPeriodMs != 0 {
		sysCfg.StreamPeriodMs = cfg.StreamPeriodMs
	}
	sys := core.NewSystem(sysCfg, io, buttons, micros)

	sys.RegisterUITask(1000, func(now uint32) {
		m := &sys.Model
		log.Printf("t=%dms speed=%s power=%d/%dW assist=%d soc=%d%% errs=%d/%d",
			now, core.FormatDeci(m.SpeedDmph), m.PowerW, m.PowerLimitW,
			m.Assist, m.SOC, m.Counters.FrameErrs, m.Counters.ChkErrs)
	})

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	log.Print("control loop running")
	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			sys.PeriodicTick()
			sys.Step()
			if sys.Model.PowerOff {
				log.Print("power off requested, shutting down")
				return
			}
		case <-sig:
			log.Print("signal received, shutting down")
			return
		}
	}
}
