package protocol

import (
	"errors"
	"strconv"
	"strings"
)

var (
	ErrMalformedLine    = errors.New("malformed line, expected <position activity>")
	ErrNegativePosition = errors.New("position cannot be negative")
	ErrPositionRange    = errors.New("position out of range")
	ErrActivityRange    = errors.New("activity out of range")
	ErrLineTooLong      = errors.New("line too long")
)

// LineDecoder assembles `<position activity>` diagnostic lines from a
// byte stream. Bytes outside the markers are ignored, and a '<' always
// starts a fresh line so a lost '>' cannot wedge the decoder.
type LineDecoder struct {
	buf        [LineMax]byte
	n          int
	inProgress bool
	overflow   bool
}

// NewLineDecoder creates a new LineDecoder
func NewLineDecoder() *LineDecoder {
	return &LineDecoder{}
}

// Feed consumes one byte. When it completes a line, done is true and
// either frame or err is set.
func (d *LineDecoder) Feed(b byte) (frame Frame, done bool, err error) {
	switch {
	case b == LineStart:
		d.n = 0
		d.inProgress = true
		d.overflow = false
		return Frame{}, false, nil
	case !d.inProgress:
		return Frame{}, false, nil
	case b == LineEnd:
		d.inProgress = false
		if d.overflow {
			return Frame{}, true, ErrLineTooLong
		}
		frame, err = ParseLine(string(d.buf[:d.n]))
		return frame, true, err
	}

	if d.n == len(d.buf) {
		d.overflow = true
		return Frame{}, false, nil
	}
	d.buf[d.n] = b
	d.n++
	return Frame{}, false, nil
}

// ParseLine parses a line body such as "1234 1". A missing activity is 0.
func ParseLine(body string) (Frame, error) {
	fields := strings.Fields(body)
	if len(fields) == 0 || len(fields) > 2 {
		return Frame{}, ErrMalformedLine
	}

	position, err := strconv.Atoi(fields[0])
	if err != nil {
		return Frame{}, ErrMalformedLine
	}
	if position < 0 {
		return Frame{}, ErrNegativePosition
	}
	if position > MaxLinePosition {
		return Frame{}, ErrPositionRange
	}

	activity := 0
	if len(fields) == 2 {
		activity, err = strconv.Atoi(fields[1])
		if err != nil {
			return Frame{}, ErrMalformedLine
		}
		if activity < 0 || activity > MaxLineActivity {
			return Frame{}, ErrActivityRange
		}
	}

	return Frame{Position: uint16(position), Activity: uint8(activity)}, nil
}

// EncodeLine formats a diagnostic line for the given position and activity
func EncodeLine(position, activity int) string {
	return string(LineStart) + strconv.Itoa(position) + " " + strconv.Itoa(activity) + string(LineEnd)
}
