//go:build tinygo

package core

import "sync/atomic"

// Written by the main loop, read from the bus callback
var systemTicksValue uint32

func getSystemTicks() uint32 {
	return atomic.LoadUint32(&systemTicksValue)
}

func setSystemTicks(ms uint32) {
	atomic.StoreUint32(&systemTicksValue, ms)
}
