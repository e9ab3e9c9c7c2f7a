//go:build rp2040

package main

import (
	"runtime/volatile"
	"unsafe"

	"turntable/core"
)

// RP2040 Timer peripheral memory map
const (
	timerBase     = 0x40054000
	timerTIMERAWH = timerBase + 0x08 // Raw timer high word
	timerTIMERAWL = timerBase + 0x0C // Raw timer low word
)

var (
	timerRAWH = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWH)))
	timerRAWL = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWL)))
)

// Micros returns the low 32 bits of the 1MHz hardware timer.
// The step generator only looks at differences, so wraparound is harmless.
func Micros() uint32 {
	return timerRAWL.Get()
}

// Uptime reads the full 64-bit microsecond timer
func Uptime() uint64 {
	for {
		high1 := timerRAWH.Get()
		low := timerRAWL.Get()
		high2 := timerRAWH.Get()

		// Retry if the low word rolled over between the reads
		if high1 == high2 {
			return (uint64(high1) << 32) | uint64(low)
		}
	}
}

// UpdateSystemTime sets the millisecond service clock from the hardware timer
func UpdateSystemTime() {
	core.SetTime(uint32(Uptime() / 1000))
}
