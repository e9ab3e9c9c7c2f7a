//go:build rp2040

// Package pio provides the two wire (step/dir) stepper backends.
package pio

import (
	"machine"

	"turntable/core"
)

// Pins is the two wire driver wiring
type Pins struct {
	Step   machine.Pin
	Dir    machine.Pin
	Enable machine.Pin

	// InvertEnable drives the enable pin low to energize the motor
	InvertEnable bool
}

// RP2040 has 2 PIO blocks with 4 state machines each
var pioAllocations = [2][4]bool{}

// NewTwoWire returns a PIO backed step/dir backend, or a GPIO backed one
// when every state machine is taken or the PIO program fails to load
func NewTwoWire(pins Pins) core.StepperBackend {
	if pioNum, smNum, ok := allocatePIO(); ok {
		b := newPIOStepper(pioNum, smNum)
		if err := b.init(pins); err == nil {
			return b
		}
		pioAllocations[pioNum][smNum] = false
	}
	return newGPIOStepper(pins)
}

func allocatePIO() (uint8, uint8, bool) {
	for pioNum := uint8(0); pioNum < 2; pioNum++ {
		for smNum := uint8(0); smNum < 4; smNum++ {
			if !pioAllocations[pioNum][smNum] {
				pioAllocations[pioNum][smNum] = true
				return pioNum, smNum, true
			}
		}
	}
	return 0, 0, false
}

// enablePin follows the AccelStepper convention: high enables unless inverted
type enablePin struct {
	pin    machine.Pin
	invert bool
}

func newEnablePin(pin machine.Pin, invert bool) enablePin {
	e := enablePin{pin: pin, invert: invert}
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	e.set(false)
	return e
}

func (e enablePin) set(enabled bool) {
	e.pin.Set(enabled != e.invert)
}
