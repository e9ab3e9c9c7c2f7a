//go:build rp2040

package main

import (
	"machine"
	"time"

	"turntable/core"
)

// InitUSB configures machine.Serial, which is USB CDC on the Pico
func InitUSB() {
	_ = machine.Serial.Configure(machine.UARTConfig{})
}

// consoleLine writes one console line. Write errors mean no host is
// attached, which is not something the firmware can act on.
func consoleLine(line string) {
	_, _ = machine.Serial.Write([]byte(line))
	_, _ = machine.Serial.Write([]byte("\r\n"))
}

// usbReaderLoop feeds console bytes to the controller
func usbReaderLoop(ctrl *core.Controller) {
	defer func() {
		if r := recover(); r != nil {
			time.Sleep(100 * time.Millisecond)
			go usbReaderLoop(ctrl)
		}
	}()

	for {
		for machine.Serial.Buffered() > 0 {
			b, err := machine.Serial.ReadByte()
			if err != nil {
				break
			}
			ctrl.ConsoleInput(b)
		}
		time.Sleep(1 * time.Millisecond)
	}
}
