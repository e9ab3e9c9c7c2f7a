package protocol

import (
	"encoding/binary"
	"errors"
)

var ErrFrameLength = errors.New("bus frame must be 3 bytes")

// Frame is one bus write: a big-endian 16-bit position and an activity code
type Frame struct {
	Position uint16
	Activity uint8
}

// DecodeFrame decodes a bus write. Any length other than FrameSize is rejected.
func DecodeFrame(data []byte) (Frame, error) {
	if len(data) != FrameSize {
		return Frame{}, ErrFrameLength
	}
	return Frame{
		Position: binary.BigEndian.Uint16(data[0:2]),
		Activity: data[2],
	}, nil
}

// Encode returns the wire form of the frame
func (f Frame) Encode() [FrameSize]byte {
	var buf [FrameSize]byte
	binary.BigEndian.PutUint16(buf[0:2], f.Position)
	buf[2] = f.Activity
	return buf
}

// EncodeStatus returns the status poll reply. Only StatusIdle and
// StatusMoving are ever produced.
func EncodeStatus(moving bool) [StatusSize]byte {
	if moving {
		return [StatusSize]byte{StatusMoving}
	}
	return [StatusSize]byte{StatusIdle}
}
