package core

// MotionDriver is the acceleration-limited stepping primitive the
// controller consumes. Positions are absolute steps relative to the
// last SetCurrentPosition.
type MotionDriver interface {
	// Move sets the target relative to the current position
	Move(relative int32)

	// MoveTo sets an absolute target
	MoveTo(absolute int32)

	// Stop decelerates to a halt as quickly as the acceleration allows.
	// The target is replaced with the stopping point.
	Stop()

	// SetCurrentPosition redefines the current position, discarding motion
	SetCurrentPosition(position int32)

	CurrentPosition() int32
	TargetPosition() int32
	DistanceToGo() int32

	// IsRunning reports whether the motor is still moving or has distance to go
	IsRunning() bool

	// Run services the stepper and must be called as often as possible.
	// Returns true while the motor is still running.
	Run() bool

	EnableOutputs()
	DisableOutputs()
}
