package core

// HomingState tracks whether the zero reference is established
type HomingState uint8

const (
	NotHomed HomingState = iota
	Homed
	HomingFailed
)

func (h HomingState) String() string {
	switch h {
	case NotHomed:
		return "not homed"
	case Homed:
		return "homed"
	case HomingFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// InitiateHoming requests a homing pass on the next Service
func (c *Controller) InitiateHoming() {
	c.homing = NotHomed
	c.homeSweeping = false
	c.lastTarget = c.cfg.SanitySteps
}

// serviceHoming runs one homing step. The sweep is bounded by the sanity
// step count; if it completes without finding home the current position
// becomes an arbitrary zero. Failure is only judged on a sweep issued by
// this homing request, wherever an earlier move left the motor.
func (c *Controller) serviceHoming() {
	c.outputError(c.phase.Apply(0))

	if c.home.Active() {
		c.motion.Stop()
		if !c.cfg.KeepOutputsEnabled {
			c.motion.DisableOutputs()
		}
		c.motion.SetCurrentPosition(0)
		c.planner.Commit(0)
		c.homing = Homed
		c.homeSweeping = false
		c.log.Info("Turntable homed successfully")
		c.log.Debug("lastStep/lastTarget: 0/" + itoa32(c.lastTarget))
		return
	}

	if c.motion.IsRunning() {
		return
	}

	c.log.Debug("recorded/actual target: " + itoa32(c.lastTarget) + "/" + itoa32(c.motion.TargetPosition()))
	if c.homeSweeping {
		c.motion.SetCurrentPosition(0)
		c.planner.Commit(0)
		c.homing = HomingFailed
		c.homeSweeping = false
		c.log.Error("Turntable failed to home, setting random home position")
		return
	}

	c.motion.EnableOutputs()
	c.motion.Move(c.cfg.SanitySteps)
	c.lastTarget = c.motion.TargetPosition()
	c.homeSweeping = true
	c.log.Info("Homing started")
}
