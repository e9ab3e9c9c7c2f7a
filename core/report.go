package core

import (
	"turntable/config"
	"turntable/protocol"
)

// Status is a snapshot of the controller state
type Status struct {
	FullSteps        int32
	HalfSteps        int32
	SwitchStart      int32
	SwitchStop       int32
	Homing           HomingState
	Calibrating      bool
	CalibrationPhase CalibrationPhase
	LastCommanded    int32
	LastTarget       int32
	Position         int32
	Running          bool
	Phase            uint8
	LED              LEDLevel
	Accessory        bool
	HomeActive       bool
	LimitActive      bool
}

// Status returns a snapshot of the controller state
func (c *Controller) Status() Status {
	full, half := c.planner.Cycle()
	start, stop := c.phase.Thresholds()
	s := Status{
		FullSteps:        full,
		HalfSteps:        half,
		SwitchStart:      start,
		SwitchStop:       stop,
		Homing:           c.homing,
		Calibrating:      c.calibrating,
		CalibrationPhase: c.calPhase,
		LastCommanded:    c.planner.LastCommanded(),
		LastTarget:       c.lastTarget,
		Position:         c.motion.CurrentPosition(),
		Running:          c.motion.IsRunning(),
		Phase:            c.phase.Phase(),
		LED:              c.led.Level(),
		Accessory:        c.accessory.On(),
		HomeActive:       c.home.Active(),
	}
	if c.limit != nil {
		s.LimitActive = c.limit.Active()
	}
	return s
}

// Report prints the configuration and state to the console
func (c *Controller) Report() {
	s := c.Status()
	c.log.Info("Turntable-EX version " + protocol.Version)
	c.log.Info("Mode: " + c.cfg.Mode.String() + ", phase switching: " + c.cfg.PhaseSwitching.String())
	if c.cfg.Mode == config.ModeTurntable {
		c.log.Info("Full turn steps: " + itoa32(s.FullSteps) + ", half turn steps: " + itoa32(s.HalfSteps))
	} else {
		c.log.Info("Full traverse steps: " + itoa32(s.FullSteps))
	}
	if c.cfg.Mode == config.ModeTurntable && c.cfg.PhaseSwitching == config.PhaseAuto {
		c.log.Info("Phase switch angle: " + itoa32(c.cfg.SwitchAngle) +
			" degrees, start/stop steps: " + itoa32(s.SwitchStart) + "/" + itoa32(s.SwitchStop))
	}
	c.log.Info("Homing: " + s.Homing.String() + ", calibrating: " + boolString(s.Calibrating) +
		" (" + s.CalibrationPhase.String() + ")")
	sensors := "Home sensor: " + activeString(s.HomeActive)
	if c.limit != nil {
		sensors += ", limit sensor: " + activeString(s.LimitActive)
	}
	c.log.Info(sensors)
	if c.log.IsDebugEnabled() {
		c.log.Debug("sanity steps: " + itoa32(c.cfg.SanitySteps) + ", home sensitivity: " +
			itoa32(c.cfg.HomeSensitivity) + ", debounce: " + utoa(c.cfg.DebounceMs) + "ms" +
			", gearing: " + itoa32(c.cfg.GearingFactor))
	}
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func activeString(b bool) string {
	if b {
		return "active"
	}
	return "inactive"
}
