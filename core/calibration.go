package core

import "turntable/config"

// CalibrationPhase is the step of the calibration state machine
type CalibrationPhase uint8

const (
	PhaseIdle CalibrationPhase = iota
	PhaseSeekHome
	PhaseMeasureCycle
	PhaseSeekLimit // traverser only
)

func (p CalibrationPhase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSeekHome:
		return "seek home"
	case PhaseMeasureCycle:
		return "measure cycle"
	case PhaseSeekLimit:
		return "seek limit"
	default:
		return "unknown"
	}
}

// InitiateCalibration discards the stored cycle length and starts a
// calibration. The store is cleared first so a power loss mid calibration
// cannot bring back a stale value.
func (c *Controller) InitiateCalibration() {
	c.calibrating = true
	c.calPhase = PhaseIdle
	c.InitiateHoming()
	if err := c.store.Clear(); err != nil {
		c.log.Error("failed to clear stored step count: " + err.Error())
	}
}

// serviceCalibration runs one calibration step. It is only called once
// the device is homed.
//
// Turntable: one sanity bounded rotation finds home again and zeroes the
// position, a second one counts the steps until home reappears beyond
// the sensitivity window.
//
// Traverser: home is the zero reference, the measuring sweep runs toward
// the limit switch, then backs off and finalizes where the limit
// releases so usable travel stops short of the switch.
func (c *Controller) serviceCalibration() {
	c.outputError(c.phase.Apply(0))
	traverser := c.cfg.Mode == config.ModeTraverser
	pos := c.motion.CurrentPosition()

	switch c.calPhase {
	case PhaseIdle:
		if c.motion.IsRunning() {
			return
		}
		c.log.Info("CALIBRATION: Phase 1, homing...")
		c.calPhase = PhaseSeekHome
		c.homeCleared = !c.home.Active()
		if traverser && c.home.Active() {
			c.log.Info("Traverser already homed")
		} else {
			c.motion.EnableOutputs()
			c.motion.MoveTo(c.cfg.SanitySteps)
		}
		c.lastTarget = c.motion.TargetPosition()

	case PhaseSeekHome:
		if !c.home.Active() {
			c.homeCleared = true
		}
		// A turntable starts on the home sensor, so only a fresh activation counts
		if c.home.Active() && (traverser || c.homeCleared || abs32(pos) > c.cfg.HomeSensitivity) {
			c.motion.Stop()
			c.motion.SetCurrentPosition(0)
			c.calPhase = PhaseMeasureCycle
			c.motion.EnableOutputs()
			if traverser {
				c.log.Info("CALIBRATION: Phase 2, finding limit switch...")
				c.motion.MoveTo(-c.cfg.SanitySteps)
			} else {
				c.log.Info("CALIBRATION: Phase 2, counting full turn steps...")
				c.motion.MoveTo(c.cfg.SanitySteps)
			}
			c.lastTarget = c.motion.TargetPosition()
			return
		}
		c.checkCalibrationFailed()

	case PhaseMeasureCycle:
		if traverser {
			if c.limit.Active() {
				c.motion.Stop()
				c.motion.SetCurrentPosition(c.motion.CurrentPosition())
				c.log.Info("CALIBRATION: Phase 3, counting limit steps...")
				c.motion.MoveTo(0)
				c.planner.Commit(0)
				c.lastTarget = c.motion.TargetPosition()
				c.calPhase = PhaseSeekLimit
				return
			}
		} else if c.home.Active() && pos > c.cfg.HomeSensitivity {
			c.completeCalibration(pos)
			return
		}
		c.checkCalibrationFailed()

	case PhaseSeekLimit:
		if !c.limit.Active() {
			c.completeCalibration(pos)
			return
		}
		c.checkCalibrationFailed()
	}
}

// completeCalibration stores the measured cycle and requests re-homing so
// the zero reference returns to the home sensor
func (c *Controller) completeCalibration(pos int32) {
	c.motion.Stop()
	full := abs32(pos)
	c.setCycle(full)
	c.calibrating = false
	c.calPhase = PhaseIdle
	if err := c.store.Save(full); err != nil {
		c.log.Error("failed to store step count: " + err.Error())
	}
	c.log.Info("CALIBRATION: Completed, storing full turn step count: " + itoa32(full))
	c.InitiateHoming()
	c.Report()
}

// checkCalibrationFailed aborts calibration once a sweep has run to its
// sanity bound without detecting the sensor it was looking for
func (c *Controller) checkCalibrationFailed() {
	if c.motion.IsRunning() || c.motion.TargetPosition() != c.lastTarget {
		return
	}
	c.log.Error("CALIBRATION: FAILED, could not home, could not determine step count")
	if !c.cfg.KeepOutputsEnabled {
		c.motion.DisableOutputs()
	}
	c.calibrating = false
	c.calPhase = PhaseIdle
	c.homing = HomingFailed
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
