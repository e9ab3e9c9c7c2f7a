package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"turntable/config"
)

const testRevolution = 1000

// rotation places the home magnet at every multiple of testRevolution
func rotation(width int64) func(int64) bool {
	return func(p int64) bool {
		m := ((p % testRevolution) + testRevolution) % testRevolution
		return m < width
	}
}

func TestCalibrationTurntable(t *testing.T) {
	r := newRig(t, config.Default(), nil)
	r.setHome(rotation(5))

	require.NoError(t, r.c.Start())
	assert.True(t, r.c.Status().Calibrating, "blank memory must schedule calibration")
	assert.True(t, r.logged("calibration required"))

	r.runUntil(t, 5*testRevolution, func() bool { return !r.c.Status().Calibrating })

	s := r.c.Status()
	assert.Equal(t, int32(testRevolution), s.FullSteps)
	assert.Equal(t, int32(testRevolution/2), s.HalfSteps)
	assert.Equal(t, PhaseIdle, s.CalibrationPhase)
	assert.Equal(t, int64(2*testRevolution), r.motor.physical)
	assert.True(t, r.logged("CALIBRATION: Completed, storing full turn step count: 1000"))

	steps, ok := NewPositionStore(r.nvm, 10000).Load()
	require.True(t, ok)
	assert.Equal(t, int32(testRevolution), steps)

	// re-homing follows and finds the sensor where calibration stopped
	assert.Equal(t, NotHomed, s.Homing)
	r.run(1)
	s = r.c.Status()
	assert.Equal(t, Homed, s.Homing)
	assert.Equal(t, int32(0), s.Position)

	start, stop := SwitchThresholds(testRevolution, 45)
	assert.Equal(t, start, s.SwitchStart)
	assert.Equal(t, stop, s.SwitchStop)
}

func TestCalibrationStartingOffHome(t *testing.T) {
	r := newRig(t, config.Default(), nil)
	r.motor.physical = 600
	r.setHome(rotation(5))

	require.NoError(t, r.c.Start())
	r.runUntil(t, 5*testRevolution, func() bool { return !r.c.Status().Calibrating })

	assert.Equal(t, int32(testRevolution), r.c.Status().FullSteps)
}

func TestCalibrationFailsWithoutHome(t *testing.T) {
	cfg := config.Default()
	cfg.SanitySteps = 2000
	r := newRig(t, cfg, nil)
	// home only at the very start, never seen again
	r.setHome(func(p int64) bool { return p >= 0 && p < 5 })

	require.NoError(t, r.c.Start())
	r.runUntil(t, 3*int(cfg.SanitySteps), func() bool { return !r.c.Status().Calibrating })

	s := r.c.Status()
	assert.Equal(t, HomingFailed, s.Homing)
	assert.Equal(t, int32(0), s.FullSteps)
	assert.True(t, r.logged("CALIBRATION: FAILED"))
	assert.False(t, r.motor.enabled)

	_, ok := NewPositionStore(r.nvm, cfg.SanitySteps).Load()
	assert.False(t, ok)

	// a failed device accepts a new calibration request, which sweeps
	// again instead of judging the stale target from the failed run
	r.setHome(func(p int64) bool { m := p % testRevolution; return m >= 500 && m < 505 })
	failedAt := r.motor.physical
	require.NoError(t, r.c.Dispatch(Calibrate{}))
	assert.True(t, r.c.Status().Calibrating)

	r.runUntil(t, 3*int(cfg.SanitySteps), func() bool { return r.c.Status().Homing == Homed })
	// calibration resumes on the pass that homes, so one step may follow
	assert.InDelta(t, failedAt+500, r.motor.physical, 1, "homing swept to the restored sensor")

	r.runUntil(t, 3*int(cfg.SanitySteps), func() bool { return !r.c.Status().Calibrating })
	s = r.c.Status()
	assert.Equal(t, int32(testRevolution), s.FullSteps)
	assert.Equal(t, PhaseIdle, s.CalibrationPhase)
	steps, ok := NewPositionStore(r.nvm, cfg.SanitySteps).Load()
	require.True(t, ok)
	assert.Equal(t, int32(testRevolution), steps)
}

func TestRehomeAfterFailedCalibration(t *testing.T) {
	cfg := config.Default()
	cfg.SanitySteps = 2000
	r := newRig(t, cfg, nil)
	r.setHome(func(p int64) bool { return p >= 0 && p < 5 })

	require.NoError(t, r.c.Start())
	r.runUntil(t, 3*int(cfg.SanitySteps), func() bool { return !r.c.Status().Calibrating })
	require.Equal(t, HomingFailed, r.c.Status().Homing)
	failedAt := r.motor.physical

	r.setHome(func(p int64) bool { m := p % testRevolution; return m >= 500 && m < 505 })
	require.NoError(t, r.c.Dispatch(Rehome{}))
	r.run(1)
	assert.Equal(t, NotHomed, r.c.Status().Homing, "the first pass starts a sweep")
	assert.True(t, r.c.Status().Running)

	r.runUntil(t, 3*int(cfg.SanitySteps), func() bool { return r.c.Status().Homing != NotHomed })
	assert.Equal(t, Homed, r.c.Status().Homing)
	assert.Equal(t, failedAt+500, r.motor.physical)
	assert.Equal(t, int32(0), r.c.Status().Position)
}

func TestCalibrationTraverser(t *testing.T) {
	cfg, _, err := config.Load([]byte(`{"mode": "traverser", "debounce_ms": 0}`))
	require.NoError(t, err)

	r := newRig(t, cfg, nil)
	r.setHome(func(p int64) bool { return p >= 0 })
	r.setLimit(func(p int64) bool { return p <= -800 })

	require.NoError(t, r.c.Start())
	r.runUntil(t, 5000, func() bool { return !r.c.Status().Calibrating })

	s := r.c.Status()
	assert.Equal(t, int32(799), s.FullSteps, "usable travel stops where the limit releases")
	assert.True(t, r.logged("Phase 3, counting limit steps"))

	steps, ok := NewPositionStore(r.nvm, cfg.SanitySteps).Load()
	require.True(t, ok)
	assert.Equal(t, int32(799), steps)

	// homing drives back to the home switch
	r.runUntil(t, 2000, func() bool { return r.c.Status().Homing == Homed })
	assert.Equal(t, int64(0), r.motor.physical)

	// negative moves travel toward the limit
	require.NoError(t, r.c.Dispatch(MoveTo{Position: 400}))
	assert.Equal(t, int32(-400), r.motor.TargetPosition())
}

func TestInitiateCalibrationClearsStore(t *testing.T) {
	r := calibratedRig(t, config.Default(), 1000)

	require.NoError(t, r.c.Dispatch(Calibrate{}))
	_, ok := NewPositionStore(r.nvm, 10000).Load()
	assert.False(t, ok)

	s := r.c.Status()
	assert.True(t, s.Calibrating)
	assert.Equal(t, NotHomed, s.Homing)
	assert.Equal(t, int32(10000), s.LastTarget)
}

func TestStartWithConfiguredStepCount(t *testing.T) {
	cfg := config.Default()
	cfg.FullStepCount = 4096
	r := newRig(t, cfg, nil)
	r.setHome(func(p int64) bool { return p == 0 })

	require.NoError(t, r.c.Start())
	s := r.c.Status()
	assert.False(t, s.Calibrating)
	assert.Equal(t, int32(4096), s.FullSteps)
	assert.True(t, r.logged("Using configured full step count: 4096"))
}

func TestStartWithStoredStepCount(t *testing.T) {
	r := calibratedRig(t, config.Default(), 2048)
	s := r.c.Status()
	assert.False(t, s.Calibrating)
	assert.Equal(t, int32(2048), s.FullSteps)
	assert.True(t, r.logged("Loaded full step count from EEPROM: 2048"))
}
