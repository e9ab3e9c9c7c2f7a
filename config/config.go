// Package config holds the positioner configuration value object.
// A Config is built once at startup and treated as read-only afterwards.
package config

import (
	"encoding/json"
	"errors"
	"strings"
)

// Mode selects rotational (turntable) or bounded linear (traverser) travel
type Mode int

const (
	ModeTurntable Mode = iota
	ModeTraverser
)

func (m Mode) String() string {
	switch m {
	case ModeTurntable:
		return "turntable"
	case ModeTraverser:
		return "traverser"
	default:
		return "unknown"
	}
}

// PhaseSwitching selects how the bridge polarity output is derived
type PhaseSwitching int

const (
	PhaseAuto PhaseSwitching = iota
	PhaseManual
)

func (p PhaseSwitching) String() string {
	switch p {
	case PhaseAuto:
		return "auto"
	case PhaseManual:
		return "manual"
	default:
		return "unknown"
	}
}

// StepperDriver names the supported stepper controller wirings
type StepperDriver string

const (
	DriverULN2003Half StepperDriver = "uln2003_half"
	DriverULN2003Full StepperDriver = "uln2003_full"
	DriverTwoWire     StepperDriver = "two_wire"
	DriverTwoWireInv  StepperDriver = "two_wire_inv"
)

// Defaults
const (
	DefaultI2CAddress        = 0x60
	DefaultSanitySteps       = 10000
	DefaultHomeSensitivity   = 300
	DefaultSwitchAngle       = 45
	DefaultGearingFactor     = 1
	DefaultTraverserDebounce = 10 // ms, mechanical switches
	DefaultLEDFastMs         = 100
	DefaultLEDSlowMs         = 500
	DefaultMaxSpeed          = 200.0 // steps/s
	DefaultAcceleration      = 25.0  // steps/s^2
)

// Config is the complete positioner configuration
type Config struct {
	Mode           Mode           `json:"-"`
	PhaseSwitching PhaseSwitching `json:"-"`

	// Raw string forms used by the JSON file
	ModeName           string `json:"mode,omitempty"`
	PhaseSwitchingName string `json:"phase_switching,omitempty"`

	I2CAddress      uint8  `json:"i2c_address,omitempty"`
	DebounceMs      uint32 `json:"debounce_ms"`
	SwitchAngle     int32  `json:"phase_switch_angle"`
	SanitySteps     int32  `json:"sanity_steps,omitempty"`
	HomeSensitivity int32  `json:"home_sensitivity,omitempty"`
	GearingFactor   int32  `json:"gearing_factor,omitempty"`

	// FullStepCount overrides the learned cycle length when non-zero
	FullStepCount int32 `json:"full_step_count,omitempty"`

	HomeSensorActiveHigh  bool `json:"home_sensor_active_high,omitempty"`
	LimitSensorActiveHigh bool `json:"limit_sensor_active_high,omitempty"`
	RelayActiveLow        bool `json:"relay_active_low,omitempty"`

	LEDFastMs uint32 `json:"led_fast_ms,omitempty"`
	LEDSlowMs uint32 `json:"led_slow_ms,omitempty"`

	StepperDriver      StepperDriver `json:"stepper_driver,omitempty"`
	MaxSpeed           float32       `json:"max_speed,omitempty"`
	Acceleration       float32       `json:"acceleration,omitempty"`
	InvertDirection    bool          `json:"invert_direction,omitempty"`
	KeepOutputsEnabled bool          `json:"keep_outputs_enabled,omitempty"`

	Debug bool `json:"debug,omitempty"`
}

var (
	ErrUnknownMode           = errors.New("unknown mode")
	ErrUnknownPhaseSwitching = errors.New("unknown phase switching")
	ErrUnknownStepperDriver  = errors.New("unknown stepper driver")
)

// Load parses a JSON configuration, applies defaults and validates it.
// Validation problems that have a safe fallback are returned as warnings.
func Load(jsonData []byte) (*Config, []string, error) {
	var cfg Config
	if err := json.Unmarshal(jsonData, &cfg); err != nil {
		return nil, nil, err
	}

	// An explicit 0 is meaningful for these, so it must be told apart from unset
	var explicit struct {
		DebounceMs  *uint32 `json:"debounce_ms"`
		SwitchAngle *int32  `json:"phase_switch_angle"`
	}
	if err := json.Unmarshal(jsonData, &explicit); err != nil {
		return nil, nil, err
	}

	if err := cfg.resolveNames(); err != nil {
		return nil, nil, err
	}
	applyDefaults(&cfg, explicit.DebounceMs != nil, explicit.SwitchAngle != nil)

	warnings := cfg.Validate()
	return &cfg, warnings, nil
}

// Default returns the configuration used when no file is supplied
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg, false, false)
	return cfg
}

func (c *Config) resolveNames() error {
	switch strings.ToLower(c.ModeName) {
	case "", "turntable":
		c.Mode = ModeTurntable
	case "traverser":
		c.Mode = ModeTraverser
	default:
		return ErrUnknownMode
	}

	switch strings.ToLower(c.PhaseSwitchingName) {
	case "", "auto":
		c.PhaseSwitching = PhaseAuto
	case "manual":
		c.PhaseSwitching = PhaseManual
	default:
		return ErrUnknownPhaseSwitching
	}

	switch c.StepperDriver {
	case "", DriverULN2003Half, DriverULN2003Full, DriverTwoWire, DriverTwoWireInv:
	default:
		return ErrUnknownStepperDriver
	}
	return nil
}

// applyDefaults fills in missing configuration values. debounceSet and
// angleSet report whether the file named those options.
func applyDefaults(c *Config, debounceSet, angleSet bool) {
	c.ModeName = c.Mode.String()
	c.PhaseSwitchingName = c.PhaseSwitching.String()

	if c.I2CAddress == 0 {
		c.I2CAddress = DefaultI2CAddress
	}
	if !debounceSet && c.Mode == ModeTraverser {
		// Traversers use mechanical switches, turntables hall effect sensors
		c.DebounceMs = DefaultTraverserDebounce
	}
	if !angleSet {
		c.SwitchAngle = DefaultSwitchAngle
	}
	if c.SanitySteps == 0 {
		c.SanitySteps = DefaultSanitySteps
	}
	if c.HomeSensitivity == 0 {
		c.HomeSensitivity = DefaultHomeSensitivity
	}
	if c.GearingFactor == 0 {
		c.GearingFactor = DefaultGearingFactor
	}
	if c.LEDFastMs == 0 {
		c.LEDFastMs = DefaultLEDFastMs
	}
	if c.LEDSlowMs == 0 {
		c.LEDSlowMs = DefaultLEDSlowMs
	}
	if c.StepperDriver == "" {
		c.StepperDriver = DriverULN2003Half
	}
	if c.MaxSpeed == 0 {
		c.MaxSpeed = DefaultMaxSpeed
	}
	if c.Acceleration == 0 {
		c.Acceleration = DefaultAcceleration
	}
}

// Validate clamps invalid values to safe defaults and reports what was changed.
// It never fails: an invalid option must not block startup.
func (c *Config) Validate() []string {
	var warnings []string

	if c.SanitySteps < 0 {
		warnings = append(warnings, "sanity_steps "+itoa(c.SanitySteps)+" is negative, using default "+itoa(DefaultSanitySteps))
		c.SanitySteps = DefaultSanitySteps
	}
	if c.HomeSensitivity < 0 {
		warnings = append(warnings, "home_sensitivity "+itoa(c.HomeSensitivity)+" is negative, using default "+itoa(DefaultHomeSensitivity))
		c.HomeSensitivity = DefaultHomeSensitivity
	}
	// A single bus position unit must not outrun the longest learnable cycle
	if c.GearingFactor < 1 || c.GearingFactor > c.SanitySteps {
		warnings = append(warnings, "gearing_factor "+itoa(c.GearingFactor)+" is invalid, using 1")
		c.GearingFactor = DefaultGearingFactor
	}
	if c.FullStepCount < 0 || c.FullStepCount > c.SanitySteps {
		warnings = append(warnings, "full_step_count "+itoa(c.FullStepCount)+" is outside 0.."+itoa(c.SanitySteps)+", ignoring it")
		c.FullStepCount = 0
	}

	// The switch point and its revert point 180 degrees later must both fit in a turn.
	// Traversers have no use for the angle.
	if c.Mode == ModeTurntable && c.PhaseSwitching == PhaseAuto {
		if c.SwitchAngle < 0 || c.SwitchAngle+180 >= 360 {
			warnings = append(warnings, "the defined phase switch angle of "+itoa(c.SwitchAngle)+" degrees is invalid, setting to default 45 degrees")
			c.SwitchAngle = DefaultSwitchAngle
		}
	}

	return warnings
}

// itoa formats an int32 without pulling fmt into firmware builds
func itoa(n int32) string {
	if n == 0 {
		return "0"
	}
	var buf [12]byte
	pos := len(buf)
	v := int64(n)
	negative := v < 0
	if negative {
		v = -v
	}
	for v > 0 {
		pos--
		buf[pos] = byte('0' + v%10)
		v /= 10
	}
	if negative {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}
