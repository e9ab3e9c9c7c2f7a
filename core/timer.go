package core

// The service clock counts milliseconds. Targets update it from their
// hardware timer on every main loop pass; tests set it directly.

// GetTime returns the current service clock in milliseconds
func GetTime() uint32 {
	return getSystemTicks()
}

// SetTime sets the service clock (for testing/hardware integration)
func SetTime(ms uint32) {
	setSystemTicks(ms)
}

// AdvanceTime moves the service clock forward
func AdvanceTime(ms uint32) {
	setSystemTicks(getSystemTicks() + ms)
}
