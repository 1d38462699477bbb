// Package link implements the host side of the framed display
// protocol: request/response matching over a serial port, plus a watch
// mode for the unsolicited telemetry stream.
package link

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/darvell/open-bc280-firmware-sub001/core"
	"github.com/darvell/open-bc280-firmware-sub001/host/serial"
	"github.com/darvell/open-bc280-firmware-sub001/protocol"
)

// ErrTimeout is returned when the device does not answer a request
// within the client timeout.
var ErrTimeout = errors.New("link: response timeout")

// DefaultTimeout bounds a single request/response exchange.
const DefaultTimeout = 2 * time.Second

// StatusError is a non-OK status byte echoed by the device.
type StatusError byte

func (e StatusError) Error() string {
	switch byte(e) {
	case core.StatusBadLength:
		return "device rejected payload length"
	case core.StatusBadValue:
		return "device rejected payload value"
	case core.StatusUnknownCmd:
		return "device does not know this command"
	default:
		return fmt.Sprintf("device returned status 0x%02X", byte(e))
	}
}

// Client drives one serial connection to a display. Safe for a single
// requester plus a concurrent stream watcher via OnStream; Do calls
// serialize on an internal lock.
type Client struct {
	mu      sync.Mutex
	port    serial.Port
	parser  protocol.Parser
	rxBuf   [256]byte
	Timeout time.Duration

	// OnStream receives the payload of any telemetry frame that
	// arrives while a request is in flight. May be nil.
	OnStream func(payload []byte)
}

// New wraps an open port in a client.
func New(port serial.Port) *Client {
	return &Client{port: port, Timeout: DefaultTimeout}
}

// Close closes the underlying port.
func (c *Client) Close() error {
	return c.port.Close()
}

// Do sends one command frame and waits for its reply, returning the
// reply payload. Telemetry frames that interleave are handed to
// OnStream. A reply consisting of a single non-OK status byte is
// returned as a StatusError.
func (c *Client) Do(cmd byte, payload []byte) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var frame [protocol.MaxFrame]byte
	n := protocol.Build(frame[:], cmd, payload)
	if n == 0 {
		return nil, fmt.Errorf("link: payload too large (%d bytes)", len(payload))
	}
	if _, err := c.port.Write(frame[:n]); err != nil {
		return nil, fmt.Errorf("link: write: %w", err)
	}

	deadline := time.Now().Add(c.Timeout)
	want := cmd | core.CmdReplyBit
	for {
		f, err := c.readFrame(deadline)
		if err != nil {
			return nil, err
		}
		got := protocol.Cmd(f)
		if got == want {
			pl := protocol.Payload(f)
			// The ping reply byte collides with the telemetry stream
			// command. A ping reply is always one status byte, so
			// anything longer is telemetry.
			if want == core.CmdStream && len(pl) != 1 {
				if c.OnStream != nil {
					c.OnStream(pl)
				}
				continue
			}
			if len(pl) == 1 && pl[0] != core.StatusOK && isStatusReply(cmd) {
				return nil, StatusError(pl[0])
			}
			out := make([]byte, len(pl))
			copy(out, pl)
			return out, nil
		}
		if got == core.CmdStream && c.OnStream != nil {
			c.OnStream(protocol.Payload(f))
		}
		// Stale reply to an earlier request; keep reading.
	}
}

// Watch reads frames until the port errors out (typically because the
// caller closed it), invoking handler for each valid frame.
func (c *Client) Watch(handler func(cmd byte, payload []byte)) error {
	for {
		f, err := c.readFrame(time.Now().Add(24 * time.Hour))
		if err != nil {
			if errors.Is(err, ErrTimeout) {
				continue
			}
			return err
		}
		handler(protocol.Cmd(f), protocol.Payload(f))
	}
}

// readFrame pulls bytes through the parser until a checksum-valid
// frame completes or the deadline passes. Corrupt frames are dropped;
// the parser resynchronizes on the next start byte.
func (c *Client) readFrame(deadline time.Time) ([]byte, error) {
	for {
		if time.Now().After(deadline) {
			return nil, ErrTimeout
		}
		n, err := c.port.Read(c.rxBuf[:])
		if err != nil {
			return nil, fmt.Errorf("link: read: %w", err)
		}
		for i := 0; i < n; i++ {
			if c.parser.Feed(c.rxBuf[i]) != protocol.FeedFrame {
				continue
			}
			f := c.parser.Frame()
			if protocol.Validate(f) {
				return f, nil
			}
		}
	}
}

// isStatusReply reports whether the command answers with a bare status
// byte on success, as opposed to a data payload.
func isStatusReply(cmd byte) bool {
	switch cmd {
	case core.CmdGetVersion, core.CmdStateDump, core.CmdTraceDump:
		return false
	}
	return true
}

// Ping checks liveness.
func (c *Client) Ping() error {
	_, err := c.Do(core.CmdPing, nil)
	return err
}

// Version returns protocol version and the firmware semver triple.
func (c *Client) Version() (proto, major, minor, patch byte, err error) {
	pl, err := c.Do(core.CmdGetVersion, nil)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	if len(pl) != 4 {
		return 0, 0, 0, 0, fmt.Errorf("link: version reply is %d bytes", len(pl))
	}
	return pl[0], pl[1], pl[2], pl[3], nil
}

// SetStream sets the telemetry period in milliseconds; 0 disables it.
func (c *Client) SetStream(periodMs uint16) error {
	var w protocol.Writer
	w.PutU16(periodMs)
	_, err := c.Do(core.CmdSetStream, w.Bytes())
	return err
}

// SetProfile selects the riding profile.
func (c *Client) SetProfile(profile byte) error {
	_, err := c.Do(core.CmdSetProfile, []byte{profile})
	return err
}

// StateDump fetches the diagnostic state snapshot.
func (c *Client) StateDump() (State, error) {
	pl, err := c.Do(core.CmdStateDump, nil)
	if err != nil {
		return State{}, err
	}
	return decodeState(pl)
}

// ResetCounters clears the device diagnostic counters and fault trace.
func (c *Client) ResetCounters() error {
	_, err := c.Do(core.CmdResetCounters, nil)
	return err
}

// TraceDump fetches the recent fault ring, oldest first.
func (c *Client) TraceDump() ([]Fault, error) {
	pl, err := c.Do(core.CmdTraceDump, nil)
	if err != nil {
		return nil, err
	}
	return decodeFaults(pl)
}
