//go:build rp2040

package main

import "machine"

// Coil patterns for IN1..IN4. One row is one step.
var (
	halfStepSequence = [][4]bool{
		{true, false, false, true},
		{true, false, false, false},
		{true, true, false, false},
		{false, true, false, false},
		{false, true, true, false},
		{false, false, true, false},
		{false, false, true, true},
		{false, false, false, true},
	}
	fullStepSequence = [][4]bool{
		{true, false, false, true},
		{true, true, false, false},
		{false, true, true, false},
		{false, false, true, true},
	}
)

// uln2003Backend drives a 28BYJ-48 style unipolar motor through a ULN2003
// darlington array, one coil pattern per step
type uln2003Backend struct {
	pins     [4]machine.Pin
	sequence [][4]bool
	index    int
	reverse  bool
	enabled  bool
	name     string
}

func newULN2003Backend(in1, in2, in3, in4 machine.Pin, halfStep bool) *uln2003Backend {
	b := &uln2003Backend{
		pins:     [4]machine.Pin{in1, in2, in3, in4},
		sequence: fullStepSequence,
		name:     "ULN2003 full step",
	}
	if halfStep {
		b.sequence = halfStepSequence
		b.name = "ULN2003 half step"
	}
	for _, p := range b.pins {
		p.Configure(machine.PinConfig{Mode: machine.PinOutput})
		p.Low()
	}
	return b
}

func (b *uln2003Backend) Step() {
	n := len(b.sequence)
	if b.reverse {
		b.index = (b.index + n - 1) % n
	} else {
		b.index = (b.index + 1) % n
	}
	b.enabled = true
	b.energize()
}

func (b *uln2003Backend) SetDirection(dir bool) {
	b.reverse = dir
}

func (b *uln2003Backend) SetEnabled(enabled bool) {
	b.enabled = enabled
	if enabled {
		b.energize()
		return
	}
	for _, p := range b.pins {
		p.Low()
	}
}

func (b *uln2003Backend) energize() {
	row := b.sequence[b.index]
	for i, p := range b.pins {
		p.Set(row[i])
	}
}

// Stop holds the current coil pattern; SetEnabled(false) releases it
func (b *uln2003Backend) Stop() {}

func (b *uln2003Backend) GetName() string {
	return b.name
}
