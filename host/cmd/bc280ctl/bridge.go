package main

import (
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/darvell/open-bc280-firmware-sub001/core"
	"github.com/darvell/open-bc280-firmware-sub001/host/link"
)

// telemetryMsg is the JSON shape published per telemetry frame. Wire
// units are converted to the usual decimal ones.
type telemetryMsg struct {
	UptimeMs  uint32  `json:"uptime_ms"`
	SpeedMph  float64 `json:"speed_mph"`
	Cadence   uint16  `json:"cadence_rpm"`
	PowerW    uint16  `json:"power_w"`
	BattV     float64 `json:"batt_v"`
	BattA     float64 `json:"batt_a"`
	TempC     float64 `json:"temp_c"`
	Assist    uint8   `json:"assist"`
	Profile   uint8   `json:"profile"`
	Gear      uint8   `json:"gear"`
	Lights    bool    `json:"lights"`
	Walk      bool    `json:"walk"`
	MotorFail bool    `json:"motor_fault"`
}

// bridge enables the stream and republishes every telemetry frame to
// the MQTT broker.
func bridge(client *link.Client, broker, topic string) error {
	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("bc280ctl-bridge").
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second)

	mq := paho.NewClient(opts)
	token := mq.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return fmt.Errorf("broker connection timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("connect to broker: %w", err)
	}
	defer mq.Disconnect(1000)

	if err := client.SetStream(1000); err != nil {
		return err
	}
	fmt.Printf("bridging telemetry to %s at %s\n", topic, broker)

	return client.Watch(func(cmd byte, payload []byte) {
		if cmd != core.CmdStream {
			return
		}
		t, err := link.DecodeTelemetry(payload)
		if err != nil {
			return
		}
		msg := telemetryMsg{
			UptimeMs:  t.Ms,
			SpeedMph:  float64(t.SpeedDmph) / 10,
			Cadence:   t.CadenceRPM,
			PowerW:    t.PowerW,
			BattV:     float64(t.BattDV) / 10,
			BattA:     float64(t.BattDA) / 10,
			TempC:     float64(t.TempDC) / 10,
			Assist:    t.Assist,
			Profile:   t.Profile,
			Gear:      t.Gear,
			Lights:    t.Flags&core.FlagLights != 0,
			Walk:      t.Flags&core.FlagWalk != 0,
			MotorFail: t.Flags&core.FlagMotorErr != 0,
		}
		body, err := json.Marshal(msg)
		if err != nil {
			return
		}
		// QoS 0: telemetry is periodic, a lost sample costs nothing.
		mq.Publish(topic, 0, false, body)
	})
}
