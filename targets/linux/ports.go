//go:build linux

package main

import (
	"log"
	"sync"

	"github.com/darvell/open-bc280-firmware-sub001/host/serial"
	"github.com/darvell/open-bc280-firmware-sub001/protocol"
)

// serialPort adapts a host serial port to the core port interface. A
// pump goroutine moves bytes into a FIFO so the foreground loop never
// blocks on a read; the lock covers the FIFO's single-writer,
// single-reader assumption across the goroutine boundary.
type serialPort struct {
	name string
	port serial.Port

	mu   sync.Mutex
	fifo *protocol.FifoBuffer
}

func openSerialPort(name, device string, baud int) (*serialPort, error) {
	cfg := serial.DefaultConfig(device)
	cfg.Baud = baud
	port, err := serial.Open(cfg)
	if err != nil {
		return nil, err
	}
	p := &serialPort{
		name: name,
		port: port,
		fifo: protocol.NewFifoBuffer(1024),
	}
	go p.pump()
	return p, nil
}

func (p *serialPort) pump() {
	buf := make([]byte, 256)
	for {
		n, err := p.port.Read(buf)
		if err != nil {
			log.Printf("%s: read: %v", p.name, err)
			return
		}
		if n == 0 {
			continue
		}
		p.mu.Lock()
		if written := p.fifo.Write(buf[:n]); written < n {
			log.Printf("%s: rx overflow, dropped %d bytes", p.name, n-written)
		}
		p.mu.Unlock()
	}
}

func (p *serialPort) RxAvailable() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.fifo.IsEmpty()
}

func (p *serialPort) ReadByte() byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	b, _ := p.fifo.ReadByte()
	return b
}

func (p *serialPort) Write(b []byte) {
	if _, err := p.port.Write(b); err != nil {
		log.Printf("%s: write: %v", p.name, err)
	}
}

func (p *serialPort) Close() error {
	return p.port.Close()
}
