package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"turntable/config"
)

// fakeGPIO records outputs and serves inputs from callbacks
type fakeGPIO struct {
	levels     map[GPIOPin]bool
	inputs     map[GPIOPin]func() bool
	configured map[GPIOPin]string
	setErr     map[GPIOPin]error
}

func newFakeGPIO() *fakeGPIO {
	return &fakeGPIO{
		levels:     make(map[GPIOPin]bool),
		inputs:     make(map[GPIOPin]func() bool),
		configured: make(map[GPIOPin]string),
		setErr:     make(map[GPIOPin]error),
	}
}

func (g *fakeGPIO) ConfigureOutput(pin GPIOPin) error {
	g.configured[pin] = "output"
	return nil
}

func (g *fakeGPIO) ConfigureInputPullUp(pin GPIOPin) error {
	g.configured[pin] = "pullup"
	return nil
}

func (g *fakeGPIO) ConfigureInputPullDown(pin GPIOPin) error {
	g.configured[pin] = "pulldown"
	return nil
}

func (g *fakeGPIO) SetPin(pin GPIOPin, value bool) error {
	if err := g.setErr[pin]; err != nil {
		return err
	}
	g.levels[pin] = value
	return nil
}

func (g *fakeGPIO) ReadPin(pin GPIOPin) bool {
	if in, ok := g.inputs[pin]; ok {
		return in()
	}
	return g.levels[pin]
}

// fakeMotor moves one step per Run call and stops instantly.
// physical counts every step taken, unaffected by SetCurrentPosition.
type fakeMotor struct {
	position int32
	target   int32
	physical int64
	enabled  bool
	disables int
}

func (m *fakeMotor) Move(relative int32)          { m.target = m.position + relative }
func (m *fakeMotor) MoveTo(absolute int32)        { m.target = absolute }
func (m *fakeMotor) Stop()                        { m.target = m.position }
func (m *fakeMotor) SetCurrentPosition(pos int32) { m.position, m.target = pos, pos }
func (m *fakeMotor) CurrentPosition() int32       { return m.position }
func (m *fakeMotor) TargetPosition() int32        { return m.target }
func (m *fakeMotor) DistanceToGo() int32          { return m.target - m.position }
func (m *fakeMotor) IsRunning() bool              { return m.position != m.target }
func (m *fakeMotor) EnableOutputs()               { m.enabled = true }

func (m *fakeMotor) DisableOutputs() {
	m.enabled = false
	m.disables++
}

func (m *fakeMotor) Run() bool {
	switch {
	case m.position < m.target:
		m.position++
		m.physical++
	case m.position > m.target:
		m.position--
		m.physical--
	}
	return m.IsRunning()
}

// rig is a controller wired to fakes
type rig struct {
	c     *Controller
	gpio  *fakeGPIO
	motor *fakeMotor
	nvm   *MemoryNVM
	lines []string
}

func newRig(t *testing.T, cfg *config.Config, nvm *MemoryNVM) *rig {
	t.Helper()
	SetTime(0)
	if nvm == nil {
		nvm = NewMemoryNVM(64)
	}
	r := &rig{gpio: newFakeGPIO(), motor: &fakeMotor{}, nvm: nvm}
	// Sensors idle high (active-low wiring)
	r.gpio.levels[DefaultPins.Home] = true
	r.gpio.levels[DefaultPins.Limit] = true

	c, err := New(cfg, Hardware{
		GPIO:   r.gpio,
		Motion: r.motor,
		NVM:    nvm,
		Pins:   DefaultPins,
		Log:    func(s string) { r.lines = append(r.lines, s) },
	})
	require.NoError(t, err)
	r.c = c
	return r
}

// setHome makes the home sensor follow the physical motor position
func (r *rig) setHome(active func(physical int64) bool) {
	r.gpio.inputs[DefaultPins.Home] = func() bool { return !active(r.motor.physical) }
}

func (r *rig) setLimit(active func(physical int64) bool) {
	r.gpio.inputs[DefaultPins.Limit] = func() bool { return !active(r.motor.physical) }
}

// run services the controller, advancing the clock 1ms per pass
func (r *rig) run(passes int) {
	for i := 0; i < passes; i++ {
		AdvanceTime(1)
		r.c.Service()
	}
}

// runUntil services until cond holds, failing after max passes
func (r *rig) runUntil(t *testing.T, max int, cond func() bool) {
	t.Helper()
	for i := 0; i < max; i++ {
		if cond() {
			return
		}
		AdvanceTime(1)
		r.c.Service()
	}
	require.True(t, cond(), "condition not reached after %d passes", max)
}

func (r *rig) logged(substr string) bool {
	return r.loggedCount(substr) > 0
}

func (r *rig) loggedCount(substr string) int {
	n := 0
	for _, l := range r.lines {
		if strings.Contains(l, substr) {
			n++
		}
	}
	return n
}

// calibratedRig returns a homed turntable with a stored cycle length
func calibratedRig(t *testing.T, cfg *config.Config, full int32) *rig {
	t.Helper()
	nvm := NewMemoryNVM(64)
	require.NoError(t, NewPositionStore(nvm, cfg.SanitySteps).Save(full))
	r := newRig(t, cfg, nvm)
	r.setHome(func(p int64) bool { return p == 0 })
	require.NoError(t, r.c.Start())
	r.run(1)
	require.Equal(t, Homed, r.c.Status().Homing)
	return r
}
