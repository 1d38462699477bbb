//go:build rp2040 || rp2350

package main

import (
	"image/color"

	"machine"

	"tinygo.org/x/drivers/ssd1306"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"

	"github.com/darvell/open-bc280-firmware-sub001/core"
)

var (
	display ssd1306.Device
	white   = color.RGBA{255, 255, 255, 255}
	font    = &proggy.TinySZ8pt7b
)

var profileNames = [...]string{"ECO", "NRM", "SPT"}

var limitNames = [...]string{"", "LUG", "HOT", "SAG"}

func initDisplay() error {
	err := machine.I2C0.Configure(machine.I2CConfig{
		Frequency: 400_000,
		SDA:       pinOledSDA,
		SCL:       pinOledSCL,
	})
	if err != nil {
		return err
	}
	display = ssd1306.NewI2C(machine.I2C0)
	display.Configure(ssd1306.Config{
		Width:    128,
		Height:   64,
		Address:  0x3C,
		VccState: ssd1306.SWITCHCAPVCC,
	})
	display.ClearDisplay()
	return nil
}

// refreshDisplay renders the active page. Registered in the UI
// scheduler slot, so it runs on the foreground loop and may read the
// model freely.
func refreshDisplay(sys *core.System) {
	m := &sys.Model
	display.ClearBuffer()

	if m.PowerOff {
		display.Display()
		return
	}

	switch m.Page {
	case core.PageMain:
		drawMainPage(m)
	case core.PageTrip:
		drawTripPage(m)
	case core.PageSettings:
		drawSettingsPage(sys)
	}
	display.Display()
}

func drawMainPage(m *core.Model) {
	line(0, 10, profileNames[m.Profile]+"  A"+core.Itoa(int(m.Assist)))
	line(0, 28, core.FormatDeci(m.SpeedDmph)+" mph")
	line(0, 42, core.Utoa(uint32(m.PowerW))+"W / "+core.Utoa(uint32(m.PowerLimitW))+"W")

	status := "SOC " + core.Itoa(int(m.SOC)) + "%"
	if m.WalkMode {
		status = "WALK  " + status
	}
	if m.Lights {
		status += "  *"
	}
	line(0, 56, status)

	if r := limitNames[m.LimitReason]; r != "" {
		line(100, 10, r)
	}
	if m.Fault != 0 {
		line(100, 28, "E"+core.Itoa(int(m.Fault)))
	}
}

func drawTripPage(m *core.Model) {
	line(0, 10, "TRIP")
	line(0, 28, core.FormatDeci(uint16(m.TripDeciMiles()))+" mi")
	line(0, 42, core.Utoa(m.TripWh())+" Wh")
	line(0, 56, core.FormatDeci(m.BattDV)+"V  "+core.FormatDeci(m.BattDA)+"A")
}

func drawSettingsPage(sys *core.System) {
	m := &sys.Model
	line(0, 10, "SETUP")
	line(0, 28, "profile "+profileNames[m.Profile])
	line(0, 42, "stream "+core.Utoa(sys.Config.StreamPeriodMs)+"ms")
	c := &m.Counters
	line(0, 56, "err "+core.Utoa(uint32(c.FrameErrs))+"/"+core.Utoa(uint32(c.ChkErrs)))
}

func line(x, y int16, s string) {
	tinyfont.WriteLine(&display, font, x, y, s, white)
}
