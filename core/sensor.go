package core

// Debouncer stabilizes a digital reading. A reading that differs from the
// accepted state becomes a candidate stamped with the time it was first
// seen. It is accepted on the first sample taken interval ms or more
// after that stamp, so a 10ms interval accepts a candidate first seen at
// t=100 on the sample at t=110. A reversion before then discards the
// candidate. A zero interval accepts every change on the sample that
// shows it.
type Debouncer struct {
	interval uint32 // ms, 0 accepts every change immediately
	state    bool
	pending  bool
	since    uint32
}

// NewDebouncer creates a debouncer that starts in the given state
func NewDebouncer(intervalMs uint32, initial bool) *Debouncer {
	return &Debouncer{interval: intervalMs, state: initial}
}

// Update feeds a raw reading taken at nowMs and returns the accepted state
func (d *Debouncer) Update(raw bool, nowMs uint32) bool {
	if raw == d.state {
		d.pending = false
		return d.state
	}
	if !d.pending {
		d.pending = true
		d.since = nowMs
	}
	if nowMs-d.since >= d.interval {
		d.state = raw
		d.pending = false
	}
	return d.state
}

// State returns the accepted state without sampling
func (d *Debouncer) State() bool {
	return d.state
}

// Reset forces the accepted state and drops any candidate
func (d *Debouncer) Reset(state bool) {
	d.state = state
	d.pending = false
}

// Sensor is a debounced digital input with a configurable active level.
// Active-low inputs use the internal pull-up, active-high ones the pull-down.
type Sensor struct {
	gpio       GPIODriver
	pin        GPIOPin
	activeHigh bool
	debounce   Debouncer
}

// NewSensor binds a sensor input; call Configure before polling
func NewSensor(gpio GPIODriver, pin GPIOPin, activeHigh bool, debounceMs uint32) *Sensor {
	return &Sensor{
		gpio:       gpio,
		pin:        pin,
		activeHigh: activeHigh,
		debounce:   Debouncer{interval: debounceMs},
	}
}

// Configure sets up the input pull and seeds the debouncer with the
// current reading
func (s *Sensor) Configure() error {
	var err error
	if s.activeHigh {
		err = s.gpio.ConfigureInputPullDown(s.pin)
	} else {
		err = s.gpio.ConfigureInputPullUp(s.pin)
	}
	if err != nil {
		return err
	}
	s.debounce.Reset(s.raw())
	return nil
}

// Poll samples the pin and returns the debounced active state
func (s *Sensor) Poll(nowMs uint32) bool {
	return s.debounce.Update(s.raw(), nowMs)
}

// Active returns the last debounced active state
func (s *Sensor) Active() bool {
	return s.debounce.State()
}

func (s *Sensor) raw() bool {
	return s.gpio.ReadPin(s.pin) == s.activeHigh
}
