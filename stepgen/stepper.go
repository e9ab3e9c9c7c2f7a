// Package stepgen generates acceleration limited step timing for a single
// stepper. It implements core.MotionDriver on top of a core.StepperBackend
// and never blocks: Run must be called as often as possible and emits at
// most one step per call.
package stepgen

import (
	"math"

	"turntable/core"
)

// Clock returns a free running microsecond counter
type Clock func() uint32

// Stepper is a non-blocking trapezoidal step generator.
//
// Speed changes follow the step interval recurrence
// cn = cn-1 - 2*cn-1/(4n+1) with c0 = 0.676*sqrt(2/accel), which keeps the
// acceleration constant without per step square roots.
type Stepper struct {
	backend core.StepperBackend
	clock   Clock
	invert  bool

	currentPos int32
	targetPos  int32

	speed        float32 // steps/s, negative is reverse
	maxSpeed     float32
	acceleration float32

	stepInterval uint32 // us, 0 when stopped
	lastStepTime uint32

	n    int32   // step counter in the current ramp, negative while decelerating
	c0   float32 // first step interval, us
	cn   float32 // last step interval, us
	cmin float32 // interval at max speed, us

	reverse    bool
	dirApplied bool
}

// New creates a stepper. maxSpeed is in steps/s, acceleration in steps/s^2.
func New(backend core.StepperBackend, clock Clock, maxSpeed, acceleration float32) *Stepper {
	s := &Stepper{backend: backend, clock: clock}
	if maxSpeed <= 0 {
		maxSpeed = 1
	}
	if acceleration <= 0 {
		acceleration = 1
	}
	s.SetMaxSpeed(maxSpeed)
	s.SetAcceleration(acceleration)
	return s
}

// SetInvertDirection swaps forward and reverse at the backend
func (s *Stepper) SetInvertDirection(invert bool) {
	s.invert = invert
	s.dirApplied = false
}

// SetMaxSpeed sets the speed limit in steps/s
func (s *Stepper) SetMaxSpeed(speed float32) {
	if speed < 0 {
		speed = -speed
	}
	if speed == 0 || s.maxSpeed == speed {
		return
	}
	s.maxSpeed = speed
	s.cmin = 1000000.0 / speed
	if s.n > 0 {
		// recompute the ramp position for the new limit
		s.n = int32((s.speed * s.speed) / (2 * s.acceleration))
		s.computeNewSpeed()
	}
}

// SetAcceleration sets the acceleration and deceleration in steps/s^2
func (s *Stepper) SetAcceleration(accel float32) {
	if accel < 0 {
		accel = -accel
	}
	if accel == 0 || s.acceleration == accel {
		return
	}
	if s.acceleration != 0 {
		s.n = int32(float32(s.n) * (s.acceleration / accel))
	}
	s.c0 = 0.676 * float32(math.Sqrt(2.0/float64(accel))) * 1000000.0
	s.acceleration = accel
	s.computeNewSpeed()
}

func (s *Stepper) Move(relative int32) {
	s.MoveTo(s.currentPos + relative)
}

func (s *Stepper) MoveTo(absolute int32) {
	if s.targetPos != absolute {
		s.targetPos = absolute
		s.computeNewSpeed()
	}
}

// Stop sets a new target as close as the deceleration allows
func (s *Stepper) Stop() {
	if s.speed == 0 {
		return
	}
	stepsToStop := int32((s.speed*s.speed)/(2*s.acceleration)) + 1
	if s.speed > 0 {
		s.Move(stepsToStop)
	} else {
		s.Move(-stepsToStop)
	}
}

// SetCurrentPosition redefines the current position and halts immediately
func (s *Stepper) SetCurrentPosition(position int32) {
	s.currentPos = position
	s.targetPos = position
	s.n = 0
	s.stepInterval = 0
	s.speed = 0
}

func (s *Stepper) CurrentPosition() int32 {
	return s.currentPos
}

func (s *Stepper) TargetPosition() int32 {
	return s.targetPos
}

func (s *Stepper) DistanceToGo() int32 {
	return s.targetPos - s.currentPos
}

// Speed returns the current speed in steps/s
func (s *Stepper) Speed() float32 {
	return s.speed
}

func (s *Stepper) IsRunning() bool {
	return !(s.speed == 0 && s.targetPos == s.currentPos)
}

// Run emits a step if one is due and updates the speed.
// Returns true while the motor is still running.
func (s *Stepper) Run() bool {
	if s.runSpeed() {
		s.computeNewSpeed()
	}
	return s.speed != 0 || s.DistanceToGo() != 0
}

func (s *Stepper) EnableOutputs() {
	s.backend.SetEnabled(true)
}

func (s *Stepper) DisableOutputs() {
	s.backend.Stop()
	s.backend.SetEnabled(false)
}

// runSpeed steps once if the current interval has elapsed
func (s *Stepper) runSpeed() bool {
	if s.stepInterval == 0 {
		return false
	}
	now := s.clock()
	if now-s.lastStepTime < s.stepInterval {
		return false
	}
	if s.reverse {
		s.currentPos--
	} else {
		s.currentPos++
	}
	s.backend.Step()
	s.lastStepTime = now
	return true
}

func (s *Stepper) computeNewSpeed() {
	distanceTo := s.DistanceToGo()
	stepsToStop := int32((s.speed * s.speed) / (2 * s.acceleration))

	if distanceTo == 0 && stepsToStop <= 1 {
		s.stepInterval = 0
		s.speed = 0
		s.n = 0
		return
	}

	if distanceTo > 0 {
		if s.n > 0 {
			// too close to stop in time, or heading the wrong way
			if stepsToStop >= distanceTo || s.reverse {
				s.n = -stepsToStop
			}
		} else if s.n < 0 {
			if stepsToStop < distanceTo && !s.reverse {
				s.n = -s.n
			}
		}
	} else if distanceTo < 0 {
		if s.n > 0 {
			if stepsToStop >= -distanceTo || !s.reverse {
				s.n = -stepsToStop
			}
		} else if s.n < 0 {
			if stepsToStop < -distanceTo && s.reverse {
				s.n = -s.n
			}
		}
	}

	if s.n == 0 {
		// first step from standstill
		s.cn = s.c0
		s.setReverse(distanceTo < 0)
	} else {
		s.cn = s.cn - (2*s.cn)/(4*float32(s.n)+1)
		if s.cn < s.cmin {
			s.cn = s.cmin
		}
	}
	s.n++
	s.stepInterval = uint32(s.cn)
	s.speed = 1000000.0 / s.cn
	if s.reverse {
		s.speed = -s.speed
	}
}

func (s *Stepper) setReverse(reverse bool) {
	if s.dirApplied && s.reverse == reverse {
		return
	}
	s.reverse = reverse
	s.dirApplied = true
	s.backend.SetDirection(reverse != s.invert)
}
