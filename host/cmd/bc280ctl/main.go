package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/darvell/open-bc280-firmware-sub001/core"
	"github.com/darvell/open-bc280-firmware-sub001/host/link"
	"github.com/darvell/open-bc280-firmware-sub001/host/serial"
)

var (
	device = flag.String("port", "/dev/ttyUSB0", "Serial device path")
	baud   = flag.Int("baud", 115200, "Baud rate")
	broker = flag.String("broker", "tcp://localhost:1883", "MQTT broker URL (bridge subcommand)")
	topic  = flag.String("topic", "bc280/telemetry", "MQTT topic prefix (bridge subcommand)")
	cfgOpt = flag.String("config", "", "JSON file with connection defaults")
)

var profileNames = map[string]byte{
	"eco":    core.ProfileEco,
	"normal": core.ProfileNormal,
	"sport":  core.ProfileSport,
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: bc280ctl [flags] [command]

Commands:
  ping                 Check the display answers
  version              Print protocol and firmware version
  dump                 Print the state snapshot
  trace                Print the fault trace
  reset                Clear diagnostic counters and trace
  set-stream <ms>      Set the telemetry period (0 disables)
  set-profile <name>   Select riding profile: eco, normal, sport
  watch                Print telemetry frames as they arrive
  bridge               Forward telemetry to an MQTT broker

With no command an interactive prompt opens.

Flags:
`)
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if *cfgOpt != "" {
		if err := applyConfigFile(*cfgOpt); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	cfg := serial.DefaultConfig(*device)
	cfg.Baud = *baud
	port, err := serial.Open(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	client := link.New(port)
	defer client.Close()

	args := flag.Args()
	if len(args) == 0 {
		repl(client)
		return
	}
	if err := runCommand(client, args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runCommand(client *link.Client, args []string) error {
	switch args[0] {
	case "ping":
		if err := client.Ping(); err != nil {
			return err
		}
		fmt.Println("ok")
		return nil

	case "version":
		proto, major, minor, patch, err := client.Version()
		if err != nil {
			return err
		}
		fmt.Printf("protocol %d, firmware %d.%d.%d\n", proto, major, minor, patch)
		return nil

	case "dump":
		st, err := client.StateDump()
		if err != nil {
			return err
		}
		printState(st)
		return nil

	case "trace":
		faults, err := client.TraceDump()
		if err != nil {
			return err
		}
		if len(faults) == 0 {
			fmt.Println("trace empty")
			return nil
		}
		for _, f := range faults {
			fmt.Printf("t=%-10d code=%d port=%d arg=0x%04X\n", f.Ms, f.Code, f.Port, f.Arg)
		}
		return nil

	case "reset":
		return client.ResetCounters()

	case "set-stream":
		if len(args) != 2 {
			return fmt.Errorf("set-stream needs a period in milliseconds")
		}
		ms, err := strconv.ParseUint(args[1], 10, 16)
		if err != nil {
			return fmt.Errorf("bad period %q: %w", args[1], err)
		}
		return client.SetStream(uint16(ms))

	case "set-profile":
		if len(args) != 2 {
			return fmt.Errorf("set-profile needs eco, normal or sport")
		}
		p, ok := profileNames[args[1]]
		if !ok {
			return fmt.Errorf("unknown profile %q", args[1])
		}
		return client.SetProfile(p)

	case "watch":
		return watch(client)

	case "bridge":
		return bridge(client, *broker, *topic)

	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func printState(st link.State) {
	fmt.Printf("rpm        %d\n", st.RPM)
	fmt.Printf("torque     %d cNm\n", st.TorqueCNm)
	fmt.Printf("speed      %s mph\n", core.FormatDeci(st.SpeedDmph))
	fmt.Printf("soc        %d%%\n", st.SOC)
	fmt.Printf("fault      %d\n", st.Fault)
	fmt.Printf("frame errs %d\n", st.FrameErrs)
	fmt.Printf("chk errs   %d\n", st.ChkErrs)
	fmt.Printf("ev drops   %d\n", st.EventDrops)
	fmt.Printf("limit      %d\n", st.LimitReason)
	fmt.Printf("assist     %d\n", st.Assist)
	fmt.Printf("profile    %d\n", st.Profile)
}

// watch enables a fast stream and prints each telemetry frame.
func watch(client *link.Client) error {
	if err := client.SetStream(200); err != nil {
		return err
	}
	fmt.Println("watching telemetry (Ctrl-C to stop)")
	return client.Watch(func(cmd byte, payload []byte) {
		if cmd != core.CmdStream {
			return
		}
		t, err := link.DecodeTelemetry(payload)
		if err != nil {
			fmt.Fprintf(os.Stderr, "bad telemetry: %v\n", err)
			return
		}
		fmt.Printf("t=%-10d speed=%s mph  power=%dW  batt=%sV %sA  temp=%s°C  assist=%d flags=0x%02X\n",
			t.Ms, core.FormatDeci(t.SpeedDmph), t.PowerW,
			core.FormatDeci(t.BattDV), core.FormatDeci(t.BattDA),
			core.FormatDeci(t.TempDC), t.Assist, t.Flags)
	})
}

func repl(client *link.Client) {
	fmt.Println("bc280ctl interactive mode (type 'help' for commands, 'quit' to exit)")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		args := strings.Fields(line)
		switch args[0] {
		case "quit", "exit", "q":
			return
		case "help", "?":
			usage()
		default:
			if err := runCommand(client, args); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
		}
	}
}
