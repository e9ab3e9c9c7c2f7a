package core

// LEDLevel is the indicator LED mode
type LEDLevel uint8

const (
	LEDOn LEDLevel = iota
	LEDSlowBlink
	LEDFastBlink
	LEDOff
)

func (l LEDLevel) String() string {
	switch l {
	case LEDOn:
		return "on"
	case LEDSlowBlink:
		return "slow blink"
	case LEDFastBlink:
		return "fast blink"
	case LEDOff:
		return "off"
	default:
		return "unknown"
	}
}

// LED renders the indicator level against the service clock
type LED struct {
	out        *OutputPin
	level      LEDLevel
	fastMs     uint32
	slowMs     uint32
	lastToggle uint32
}

// NewLED creates an LED that starts off
func NewLED(out *OutputPin, fastMs, slowMs uint32) *LED {
	return &LED{out: out, level: LEDOff, fastMs: fastMs, slowMs: slowMs}
}

// Set selects the LED level; blinking starts on the next Render
func (l *LED) Set(level LEDLevel) {
	l.level = level
}

func (l *LED) Level() LEDLevel {
	return l.level
}

// Render updates the output, never blocking
func (l *LED) Render(nowMs uint32) error {
	switch l.level {
	case LEDOn:
		return l.write(true)
	case LEDOff:
		return l.write(false)
	case LEDSlowBlink:
		return l.blink(nowMs, l.slowMs)
	case LEDFastBlink:
		return l.blink(nowMs, l.fastMs)
	}
	return nil
}

func (l *LED) blink(nowMs, periodMs uint32) error {
	if nowMs-l.lastToggle < periodMs {
		return nil
	}
	l.lastToggle = nowMs
	return l.out.Toggle()
}

func (l *LED) write(on bool) error {
	if l.out.On() == on {
		return nil
	}
	return l.out.Set(on)
}
