package core

import "turntable/config"

// PhaseController derives and drives the bridge polarity relays.
//
// Automatic switching on a turntable flips the phase for the half turn
// starting at the switch angle. On a traverser there is no half turn to
// flip across, so automatic switching holds phase 0. Manual switching
// passes the commanded flag through in both modes.
type PhaseController struct {
	auto   bool
	angle  int32
	start  int32
	stop   int32
	relay1 *OutputPin
	relay2 *OutputPin

	phase   uint8
	applied bool
}

// NewPhaseController creates a phase controller for a validated config
func NewPhaseController(cfg *config.Config, relay1, relay2 *OutputPin) *PhaseController {
	return &PhaseController{
		auto:   cfg.PhaseSwitching == config.PhaseAuto,
		angle:  cfg.SwitchAngle,
		relay1: relay1,
		relay2: relay2,
	}
}

// SetCycle recomputes the switch thresholds for a new cycle length
func (p *PhaseController) SetCycle(mode config.Mode, full int32) {
	if mode != config.ModeTurntable {
		p.start, p.stop = 0, 0
		return
	}
	p.start, p.stop = SwitchThresholds(full, p.angle)
}

// Thresholds returns the automatic switch start and stop steps
func (p *PhaseController) Thresholds() (start, stop int32) {
	return p.start, p.stop
}

// PhaseFor returns the phase to use for a move to target
func (p *PhaseController) PhaseFor(mode config.Mode, target int32, explicit uint8) uint8 {
	if !p.auto {
		return explicit & 1
	}
	if mode != config.ModeTurntable {
		return 0
	}
	if target < p.start || target > p.stop {
		return 0
	}
	return 1
}

// Apply drives both relays to the phase. A failed write is retried on
// the next Apply.
func (p *PhaseController) Apply(phase uint8) error {
	if p.applied && phase == p.phase {
		return nil
	}
	p.phase = phase
	on := phase == 1
	if err := p.relay1.Set(on); err != nil {
		p.applied = false
		return err
	}
	if err := p.relay2.Set(on); err != nil {
		p.applied = false
		return err
	}
	p.applied = true
	return nil
}

// Phase returns the phase last applied
func (p *PhaseController) Phase() uint8 {
	return p.phase
}

// SwitchThresholds returns full*angle/360 and full*(angle+180)/360
func SwitchThresholds(full, angle int32) (start, stop int32) {
	start = int32(int64(full) * int64(angle) / 360)
	stop = int32(int64(full) * int64(angle+180) / 360)
	return start, stop
}
