package core

import "turntable/config"

// Move is a planned relative step command and the phase to apply with it
type Move struct {
	Steps int32
	Phase uint8
}

// Planner converts absolute targets into relative moves
type Planner struct {
	mode          config.Mode
	phase         *PhaseController
	full          int32
	half          int32
	lastCommanded int32
}

// NewPlanner creates a planner for an uncalibrated device
func NewPlanner(mode config.Mode, phase *PhaseController) *Planner {
	return &Planner{mode: mode, phase: phase}
}

// SetCycle sets the cycle length and updates the phase thresholds
func (p *Planner) SetCycle(full int32) {
	p.full = full
	p.half = full / 2
	p.phase.SetCycle(p.mode, full)
}

// Cycle returns the full and half cycle lengths
func (p *Planner) Cycle() (full, half int32) {
	return p.full, p.half
}

// Plan computes the move to target. It returns false when target is the
// last commanded position. Plan has no side effects; call Commit once the
// move has been issued.
func (p *Planner) Plan(target int32, explicitPhase uint8) (Move, bool) {
	if target == p.lastCommanded {
		return Move{}, false
	}

	var steps int32
	if p.mode == config.ModeTraverser {
		// Negative moves travel toward the limit end
		steps = p.lastCommanded - target
	} else {
		steps = target - p.lastCommanded
		if steps > p.half {
			steps -= p.full
		} else if steps < -p.half {
			steps += p.full
		}
	}

	return Move{Steps: steps, Phase: p.phase.PhaseFor(p.mode, target, explicitPhase)}, true
}

// Commit records target as the last commanded position
func (p *Planner) Commit(target int32) {
	p.lastCommanded = target
}

// LastCommanded returns the last commanded absolute position
func (p *Planner) LastCommanded() int32 {
	return p.lastCommanded
}
