//go:build !tinygo

package core

import "sync/atomic"

// Tests drive the clock from the test goroutine while bus callbacks may
// run concurrently
var systemTicks atomic.Uint32

func getSystemTicks() uint32 {
	return systemTicks.Load()
}

func setSystemTicks(ms uint32) {
	systemTicks.Store(ms)
}
