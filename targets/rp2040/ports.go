//go:build rp2040 || rp2350

package main

import (
	"machine"

	"github.com/jangala-dev/tinygo-uartx/uartx"
)

// uartPort adapts a uartx UART to the core port interface.
type uartPort struct {
	u *uartx.UART
}

func (p *uartPort) RxAvailable() bool {
	return p.u.Buffered() > 0
}

func (p *uartPort) ReadByte() byte {
	b, _ := p.u.ReadByte()
	return b
}

func (p *uartPort) Write(b []byte) {
	_, _ = p.u.Write(b)
}

// usbPort adapts the USB CDC serial to the core port interface. It is
// the diagnostic/aux port, so drops on a stalled host are acceptable.
type usbPort struct{}

func (usbPort) RxAvailable() bool {
	return machine.Serial.Buffered() > 0
}

func (usbPort) ReadByte() byte {
	b, _ := machine.Serial.ReadByte()
	return b
}

func (usbPort) Write(b []byte) {
	_, _ = machine.Serial.Write(b)
}

// initPorts configures both hardware UARTs and returns the port
// adapters in core port order: BLE, motor, aux.
func initPorts() (blePort, motorPort *uartPort, err error) {
	if err = uartx.UART0.Configure(uartx.UARTConfig{
		BaudRate: 115200,
		TX:       pinBleTX,
		RX:       pinBleRX,
	}); err != nil {
		return nil, nil, err
	}
	if err = uartx.UART1.Configure(uartx.UARTConfig{
		BaudRate: 9600, // the controller link is fixed at 9600 8N1
		TX:       pinMotTX,
		RX:       pinMotRX,
	}); err != nil {
		return nil, nil, err
	}
	return &uartPort{u: uartx.UART0}, &uartPort{u: uartx.UART1}, nil
}
