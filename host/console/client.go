// Package console drives a positioner over its USB diagnostic console.
// Commands are sent as `<position activity>` lines and the device's
// console output is streamed back as text.
package console

import (
	"context"
	"io"
	"strings"

	"github.com/pkg/errors"

	"turntable/core"
	"turntable/host/serial"
	"turntable/protocol"
)

var ErrPosition = errors.New("position must be between 0 and 65535")

// LEDLevels maps CLI names to LED levels
var LEDLevels = map[string]core.LEDLevel{
	"on":   core.LEDOn,
	"slow": core.LEDSlowBlink,
	"fast": core.LEDFastBlink,
	"off":  core.LEDOff,
}

// Client sends diagnostic commands to a device
type Client struct {
	port serial.Port
}

// New creates a client on an open port
func New(port serial.Port) *Client {
	return &Client{port: port}
}

// Close closes the underlying port
func (c *Client) Close() error {
	return c.port.Close()
}

// Send writes one raw command line
func (c *Client) Send(position, activity int) error {
	if position < 0 || position > protocol.MaxLinePosition {
		return ErrPosition
	}
	if activity < 0 || activity > protocol.MaxLineActivity {
		return errors.Errorf("activity %d out of range", activity)
	}
	line := protocol.EncodeLine(position, activity) + "\n"
	if _, err := io.WriteString(c.port, line); err != nil {
		return errors.Wrapf(err, "send %s", strings.TrimSpace(line))
	}
	return nil
}

// Move moves to a position; phase only matters with manual phase switching
func (c *Client) Move(position int, phase int) error {
	activity := core.ActivityMovePhase0
	if phase != 0 {
		activity = core.ActivityMovePhase1
	}
	return c.Send(position, int(activity))
}

func (c *Client) Home() error {
	return c.Send(0, int(core.ActivityRehome))
}

func (c *Client) Calibrate() error {
	return c.Send(0, int(core.ActivityCalibrate))
}

// SetLED selects an LED level by name (on, slow, fast, off)
func (c *Client) SetLED(name string) error {
	level, ok := LEDLevels[strings.ToLower(name)]
	if !ok {
		return errors.Errorf("unknown LED level %q", name)
	}
	return c.Send(0, int(core.ActivityLEDOn)+int(level))
}

func (c *Client) SetAccessory(on bool) error {
	if on {
		return c.Send(0, int(core.ActivityAccessoryOn))
	}
	return c.Send(0, int(core.ActivityAccessoryOff))
}

// Stream copies device console output to w until ctx is cancelled or the
// port fails. Read timeouts are not errors.
func (c *Client) Stream(ctx context.Context, w io.Writer) error {
	buf := make([]byte, 256)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		n, err := c.port.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return errors.Wrap(werr, "write console output")
			}
		}
		if err != nil && err != io.EOF {
			if ctx.Err() != nil {
				return nil
			}
			return errors.Wrap(err, "read console")
		}
	}
}
