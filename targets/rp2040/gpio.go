//go:build rp2040

package main

import (
	"errors"
	"machine"

	"turntable/core"
)

var errPinRange = errors.New("pin out of range")

// rpGPIODriver implements core.GPIODriver on RP2040 GPIO0-GPIO29
type rpGPIODriver struct{}

func newRPGPIODriver() *rpGPIODriver {
	return &rpGPIODriver{}
}

func (d *rpGPIODriver) pin(pin core.GPIOPin) (machine.Pin, error) {
	if pin > 29 {
		return 0, errPinRange
	}
	return machine.Pin(pin), nil
}

func (d *rpGPIODriver) configure(pin core.GPIOPin, mode machine.PinMode) error {
	p, err := d.pin(pin)
	if err != nil {
		return err
	}
	p.Configure(machine.PinConfig{Mode: mode})
	return nil
}

func (d *rpGPIODriver) ConfigureOutput(pin core.GPIOPin) error {
	return d.configure(pin, machine.PinOutput)
}

func (d *rpGPIODriver) ConfigureInputPullUp(pin core.GPIOPin) error {
	return d.configure(pin, machine.PinInputPullup)
}

func (d *rpGPIODriver) ConfigureInputPullDown(pin core.GPIOPin) error {
	return d.configure(pin, machine.PinInputPulldown)
}

func (d *rpGPIODriver) SetPin(pin core.GPIOPin, value bool) error {
	p, err := d.pin(pin)
	if err != nil {
		return err
	}
	p.Set(value)
	return nil
}

func (d *rpGPIODriver) ReadPin(pin core.GPIOPin) bool {
	p, err := d.pin(pin)
	if err != nil {
		return false
	}
	return p.Get()
}
