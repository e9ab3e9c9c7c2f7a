//go:build rp2040

package main

import (
	"machine"

	"turntable/config"
	"turntable/core"
	"turntable/targets/pio"
)

// Motor wiring: ULN2003 IN1..IN4, or STEP/DIR/EN for two wire drivers
const (
	motorPin1 = machine.GP10
	motorPin2 = machine.GP11
	motorPin3 = machine.GP12
	motorPin4 = machine.GP13
)

// newStepperBackend builds the configured driver. ULN2003 coils are
// sequenced IN1, IN3, IN2, IN4 to match the 28BYJ-48 coil pairing.
func newStepperBackend(driver config.StepperDriver) core.StepperBackend {
	switch driver {
	case config.DriverULN2003Full:
		return newULN2003Backend(motorPin1, motorPin3, motorPin2, motorPin4, false)
	case config.DriverTwoWire, config.DriverTwoWireInv:
		return pio.NewTwoWire(pio.Pins{
			Step:         motorPin1,
			Dir:          motorPin2,
			Enable:       motorPin3,
			InvertEnable: driver == config.DriverTwoWireInv,
		})
	default:
		return newULN2003Backend(motorPin1, motorPin3, motorPin2, motorPin4, true)
	}
}
