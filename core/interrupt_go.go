//go:build !tinygo

package core

import "sync"

// On regular Go the bus callback may run on another goroutine (host
// simulation, tests), so the critical section is a mutex.
var criticalMu sync.Mutex

// State is unused outside TinyGo
type State struct{}

func disableInterrupts() State {
	criticalMu.Lock()
	return State{}
}

func restoreInterrupts(State) {
	criticalMu.Unlock()
}
