// Package serial opens the device console port and finds attached boards.
package serial

import (
	"io"
	"time"
)

// Port is the device console connection. Open returns a tarm/serial
// backed port; tests substitute an in-memory one.
type Port interface {
	io.ReadWriteCloser

	// Flush flushes any buffered data
	Flush() error
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyACM0", "COM3")
	Device string

	// Baud rate (the USB CDC console ignores this)
	Baud int

	// ReadTimeout bounds each Read; 0 blocks. Reads that time out
	// return io.EOF with no data.
	ReadTimeout time.Duration
}

// DefaultConfig returns the configuration for the device console
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        115200,
		ReadTimeout: 100 * time.Millisecond,
	}
}
