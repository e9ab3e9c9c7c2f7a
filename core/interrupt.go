package core

// critical runs fn with interrupts disabled so the bus callback and the
// main loop never observe a half written mailbox
func critical(fn func()) {
	state := disableInterrupts()
	fn()
	restoreInterrupts(state)
}
