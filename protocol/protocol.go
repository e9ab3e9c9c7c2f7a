// Package protocol implements the positioner bus and diagnostic line protocols
package protocol

// Version represents the turntable firmware version
const Version = "0.3.0"

// Bus protocol constants
const (
	FrameSize  = 3 // {positionHigh, positionLow, activity}
	StatusSize = 1 // status poll reply

	StatusIdle   = 0
	StatusMoving = 1
)

// Diagnostic line protocol constants
const (
	LineStart = '<'
	LineEnd   = '>'
	LineMax   = 32 // longest accepted line body

	MaxLinePosition = 0xFFFF
	MaxLineActivity = 0xFF
)
