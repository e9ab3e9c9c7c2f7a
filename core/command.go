package core

import "errors"

// Activity codes carried in the third byte of a bus frame
const (
	ActivityMovePhase0   uint8 = 0
	ActivityMovePhase1   uint8 = 1
	ActivityRehome       uint8 = 2
	ActivityCalibrate    uint8 = 3
	ActivityLEDOn        uint8 = 4
	ActivityLEDSlowBlink uint8 = 5
	ActivityLEDFastBlink uint8 = 6
	ActivityLEDOff       uint8 = 7
	ActivityAccessoryOn  uint8 = 8
	ActivityAccessoryOff uint8 = 9
)

var (
	ErrUnknownActivity = errors.New("unknown activity")
	ErrMotorMoving     = errors.New("motor is moving")
	ErrCalibrating     = errors.New("calibration in progress")
	ErrOutOfRange      = errors.New("position outside the calibrated range")
)

// Command is one decoded bus request. The set of variants is closed.
type Command interface {
	command()
}

// MoveTo moves to an absolute position. Phase is used only with manual
// phase switching.
type MoveTo struct {
	Position int32
	Phase    uint8
}

// Rehome requests a new homing pass
type Rehome struct{}

// Calibrate discards the stored cycle length and recalibrates
type Calibrate struct{}

// SetLED selects the indicator LED level
type SetLED struct {
	Level LEDLevel
}

// SetAccessory switches the accessory output
type SetAccessory struct {
	On bool
}

func (MoveTo) command()       {}
func (Rehome) command()       {}
func (Calibrate) command()    {}
func (SetLED) command()       {}
func (SetAccessory) command() {}

// DecodeCommand maps a position and activity code to a command
func DecodeCommand(position int32, activity uint8) (Command, error) {
	switch activity {
	case ActivityMovePhase0, ActivityMovePhase1:
		return MoveTo{Position: position, Phase: activity}, nil
	case ActivityRehome:
		return Rehome{}, nil
	case ActivityCalibrate:
		return Calibrate{}, nil
	case ActivityLEDOn, ActivityLEDSlowBlink, ActivityLEDFastBlink, ActivityLEDOff:
		return SetLED{Level: LEDLevel(activity - ActivityLEDOn)}, nil
	case ActivityAccessoryOn:
		return SetAccessory{On: true}, nil
	case ActivityAccessoryOff:
		return SetAccessory{On: false}, nil
	default:
		return nil, ErrUnknownActivity
	}
}
