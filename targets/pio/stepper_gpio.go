//go:build rp2040

package pio

import (
	"device/arm"
	"device/rp"
	"machine"
)

// GPIOStepper drives a two wire (step/dir) driver through SIO registers.
// Used when no PIO state machine is free.
type GPIOStepper struct {
	stepMask uint32
	dirMask  uint32
	enable   enablePin
}

func newGPIOStepper(pins Pins) *GPIOStepper {
	for _, p := range []machine.Pin{pins.Step, pins.Dir} {
		p.Configure(machine.PinConfig{Mode: machine.PinOutput})
		p.Low()
	}
	return &GPIOStepper{
		stepMask: 1 << uint32(pins.Step),
		dirMask:  1 << uint32(pins.Dir),
		enable:   newEnablePin(pins.Enable, pins.InvertEnable),
	}
}

// Step pulses the step pin. 13 NOPs is ~104ns at 125MHz, above the
// A4988 and DRV8825 minimum high time.
func (b *GPIOStepper) Step() {
	rp.SIO.GPIO_OUT_SET.Set(b.stepMask)
	arm.Asm("nop\nnop\nnop\nnop\nnop\nnop\nnop\nnop\nnop\nnop\nnop\nnop\nnop")
	rp.SIO.GPIO_OUT_CLR.Set(b.stepMask)
}

func (b *GPIOStepper) SetDirection(dir bool) {
	if dir {
		rp.SIO.GPIO_OUT_SET.Set(b.dirMask)
	} else {
		rp.SIO.GPIO_OUT_CLR.Set(b.dirMask)
	}
	// Dir-to-step setup time
	arm.Asm("nop\nnop\nnop")
}

func (b *GPIOStepper) SetEnabled(enabled bool) {
	b.enable.set(enabled)
}

func (b *GPIOStepper) Stop() {
	rp.SIO.GPIO_OUT_CLR.Set(b.stepMask)
}

func (b *GPIOStepper) GetName() string {
	return "GPIO step/dir"
}
