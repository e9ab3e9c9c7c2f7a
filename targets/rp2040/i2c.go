//go:build rp2040

package main

import (
	"machine"
	"time"

	"turntable/core"
	"turntable/protocol"
)

// Bus wiring. The command station bus stays off the default I2C0 pins,
// which the positioner I/O uses.
const (
	busSDA    = machine.GP0
	busSCL    = machine.GP1
	eepromSDA = machine.GP26
	eepromSCL = machine.GP27
)

// listenBus puts I2C0 into target mode at the configured address
func listenBus(addr uint8) error {
	err := machine.I2C0.Configure(machine.I2CConfig{
		Mode: machine.I2CModeTarget,
		SDA:  busSDA,
		SCL:  busSCL,
	})
	if err != nil {
		return err
	}
	return machine.I2C0.Listen(uint16(addr))
}

// busTargetLoop answers the command station. Writes go to the controller
// mailbox, reads return the one byte running status.
func busTargetLoop(ctrl *core.Controller) {
	defer func() {
		if r := recover(); r != nil {
			time.Sleep(10 * time.Millisecond)
			go busTargetLoop(ctrl)
		}
	}()

	// Longer writes are drained and then rejected by OnReceive
	buf := make([]byte, 4*protocol.FrameSize)
	for {
		evt, n, err := machine.I2C0.WaitForEvent(buf)
		if err != nil {
			continue
		}

		switch evt {
		case machine.I2CReceive:
			ctrl.OnReceive(buf[:n])
		case machine.I2CRequest:
			_ = machine.I2C0.Reply(ctrl.OnRequest())
		case machine.I2CFinish:
		}
	}
}

// configureEEPROMBus brings up I2C1 as a controller for the EEPROM
func configureEEPROMBus() error {
	return machine.I2C1.Configure(machine.I2CConfig{
		Frequency: 400 * machine.KHz,
		SDA:       eepromSDA,
		SCL:       eepromSCL,
	})
}
