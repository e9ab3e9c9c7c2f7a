package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, ModeTurntable, cfg.Mode)
	assert.Equal(t, PhaseAuto, cfg.PhaseSwitching)
	assert.Equal(t, uint8(0x60), cfg.I2CAddress)
	assert.Equal(t, uint32(0), cfg.DebounceMs)
	assert.Equal(t, int32(45), cfg.SwitchAngle)
	assert.Equal(t, int32(10000), cfg.SanitySteps)
	assert.Equal(t, int32(300), cfg.HomeSensitivity)
	assert.Equal(t, int32(1), cfg.GearingFactor)
	assert.Equal(t, DriverULN2003Half, cfg.StepperDriver)
	assert.Empty(t, cfg.Validate())
}

func TestLoadTraverserDebounce(t *testing.T) {
	t.Run("defaults to mechanical switch debounce", func(t *testing.T) {
		cfg, warnings, err := Load([]byte(`{"mode": "traverser"}`))
		require.NoError(t, err)
		assert.Empty(t, warnings)
		assert.Equal(t, ModeTraverser, cfg.Mode)
		assert.Equal(t, uint32(10), cfg.DebounceMs)
	})

	t.Run("keeps an explicit zero", func(t *testing.T) {
		cfg, _, err := Load([]byte(`{"mode": "traverser", "debounce_ms": 0}`))
		require.NoError(t, err)
		assert.Equal(t, uint32(0), cfg.DebounceMs)
	})

	t.Run("keeps an explicit value on a turntable", func(t *testing.T) {
		cfg, _, err := Load([]byte(`{"debounce_ms": 25}`))
		require.NoError(t, err)
		assert.Equal(t, uint32(25), cfg.DebounceMs)
	})
}

func TestLoadSwitchAngle(t *testing.T) {
	tests := []struct {
		name     string
		json     string
		angle    int32
		warnings int
	}{
		{"unset uses the default", `{}`, 45, 0},
		{"zero degrees", `{"phase_switch_angle": 0}`, 0, 0},
		{"valid angle", `{"phase_switch_angle": 90}`, 90, 0},
		{"largest valid angle", `{"phase_switch_angle": 179}`, 179, 0},
		{"revert point overlaps", `{"phase_switch_angle": 180}`, 45, 1},
		{"far out of range", `{"phase_switch_angle": 270}`, 45, 1},
		{"negative", `{"phase_switch_angle": -10}`, 45, 1},
		{"ignored for manual switching", `{"phase_switching": "manual", "phase_switch_angle": 270}`, 270, 0},
		{"ignored for traversers", `{"mode": "traverser", "phase_switch_angle": 270}`, 270, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, warnings, err := Load([]byte(tt.json))
			require.NoError(t, err)
			assert.Equal(t, tt.angle, cfg.SwitchAngle)
			assert.Len(t, warnings, tt.warnings)
		})
	}
}

func TestLoadFullStepCount(t *testing.T) {
	cfg, warnings, err := Load([]byte(`{"full_step_count": 4096}`))
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, int32(4096), cfg.FullStepCount)

	cfg, warnings, err = Load([]byte(`{"full_step_count": 20000, "sanity_steps": 10000}`))
	require.NoError(t, err)
	assert.Len(t, warnings, 1)
	assert.Equal(t, int32(0), cfg.FullStepCount)
}

func TestLoadErrors(t *testing.T) {
	_, _, err := Load([]byte(`{"mode": "elevator"}`))
	assert.ErrorIs(t, err, ErrUnknownMode)

	_, _, err = Load([]byte(`{"phase_switching": "sometimes"}`))
	assert.ErrorIs(t, err, ErrUnknownPhaseSwitching)

	_, _, err = Load([]byte(`{"stepper_driver": "l298"}`))
	assert.ErrorIs(t, err, ErrUnknownStepperDriver)

	_, _, err = Load([]byte(`{not json`))
	assert.Error(t, err)
}

func TestGearingFactorValidation(t *testing.T) {
	cfg, warnings, err := Load([]byte(`{"gearing_factor": -2}`))
	require.NoError(t, err)
	assert.Len(t, warnings, 1)
	assert.Equal(t, int32(1), cfg.GearingFactor)
}

func TestGearingFactorUpperBound(t *testing.T) {
	cfg, warnings, err := Load([]byte(`{"gearing_factor": 10000, "sanity_steps": 10000}`))
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, int32(10000), cfg.GearingFactor)

	cfg, warnings, err = Load([]byte(`{"gearing_factor": 10001, "sanity_steps": 10000}`))
	require.NoError(t, err)
	assert.Len(t, warnings, 1)
	assert.Equal(t, int32(1), cfg.GearingFactor)
}
