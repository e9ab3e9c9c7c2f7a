package core

// StepperBackend is the hardware abstraction under the step generator.
// Implementations drive ULN2003 coil sequences, step/dir pins or PIO.
type StepperBackend interface {
	// Step advances the motor by one step in the current direction.
	// Must handle pulse width timing internally.
	Step()

	// SetDirection sets the direction for following steps
	// dir: true = reverse, false = forward
	SetDirection(dir bool)

	// SetEnabled energizes (true) or releases (false) the motor outputs
	SetEnabled(enabled bool)

	// Stop immediately halts any stepping in progress
	Stop()

	// GetName returns backend implementation name
	GetName() string
}
