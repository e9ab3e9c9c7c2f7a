package core

// GPIOPin identifies a hardware GPIO pin number
type GPIOPin uint32

// GPIODriver is the abstract GPIO interface that core code uses.
// Platform-specific implementations handle actual hardware control.
type GPIODriver interface {
	// ConfigureOutput configures a pin as a digital output
	ConfigureOutput(pin GPIOPin) error

	// ConfigureInputPullUp configures a pin as a digital input with pull-up resistor
	ConfigureInputPullUp(pin GPIOPin) error

	// ConfigureInputPullDown configures a pin as a digital input with pull-down resistor
	ConfigureInputPullDown(pin GPIOPin) error

	// SetPin sets the pin to high (true) or low (false)
	SetPin(pin GPIOPin, value bool) error

	// ReadPin reads the current pin level
	ReadPin(pin GPIOPin) bool
}

// Pins is the positioner wiring
type Pins struct {
	Home      GPIOPin
	Limit     GPIOPin // traverser only
	Relay1    GPIOPin
	Relay2    GPIOPin
	LED       GPIOPin
	Accessory GPIOPin
}

// DefaultPins matches the reference board wiring
var DefaultPins = Pins{
	Home:      5,
	Limit:     2,
	Relay1:    3,
	Relay2:    4,
	LED:       6,
	Accessory: 7,
}

// OutputPin is a digital output with a configurable active level
type OutputPin struct {
	gpio      GPIODriver
	pin       GPIOPin
	activeLow bool
	on        bool
}

// NewOutputPin binds an output pin; call Configure before use
func NewOutputPin(gpio GPIODriver, pin GPIOPin, activeLow bool) *OutputPin {
	return &OutputPin{gpio: gpio, pin: pin, activeLow: activeLow}
}

// Configure sets the pin as an output and drives it inactive
func (o *OutputPin) Configure() error {
	if err := o.gpio.ConfigureOutput(o.pin); err != nil {
		return err
	}
	return o.Set(false)
}

// Set drives the logical state, honoring the active level
func (o *OutputPin) Set(on bool) error {
	o.on = on
	return o.gpio.SetPin(o.pin, on != o.activeLow)
}

// Toggle inverts the logical state
func (o *OutputPin) Toggle() error {
	return o.Set(!o.on)
}

// On returns the last logical state written
func (o *OutputPin) On() bool {
	return o.on
}
