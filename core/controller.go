package core

import (
	"errors"
	"math"

	"turntable/config"
	"turntable/protocol"
)

// MailboxFrames is how many bus frames can wait for the main loop
const MailboxFrames = 8

var (
	ErrNoMotion = errors.New("motion driver not configured")
	ErrNoGPIO   = errors.New("GPIO driver not configured")
)

// Hardware is everything the controller drives
type Hardware struct {
	GPIO   GPIODriver
	Motion MotionDriver
	NVM    NVMemory
	Pins   Pins
	Log    DebugWriter
}

// Controller owns all positioner state. The bus callbacks only touch the
// mailbox; everything else runs from Service on the main loop.
type Controller struct {
	cfg    *config.Config
	log    *Logger
	motion MotionDriver
	store  *PositionStore

	home      *Sensor
	limit     *Sensor // nil on turntables
	phase     *PhaseController
	planner   *Planner
	led       *LED
	accessory *OutputPin
	relay1    *OutputPin
	relay2    *OutputPin

	mailbox *protocol.FifoBuffer
	console *protocol.LineDecoder

	homing       HomingState
	calibrating  bool
	calPhase     CalibrationPhase
	lastTarget   int32
	homeCleared  bool // home seen inactive during the current home sweep
	homeSweeping bool // the homing sweep for the current request is out
	ioFailed     bool // an output write error has been logged
	wasRunning   bool
}

// New creates a controller. The config is validated and any warnings are
// logged; call Start before the first Service.
func New(cfg *config.Config, hw Hardware) (*Controller, error) {
	if hw.Motion == nil {
		return nil, ErrNoMotion
	}
	if hw.GPIO == nil {
		return nil, ErrNoGPIO
	}
	log := NewLogger(hw.Log, cfg.Debug)
	for _, w := range cfg.Validate() {
		log.Warn(w)
	}
	if hw.NVM == nil {
		log.Warn("no non-volatile memory, calibration will not survive a power cycle")
		hw.NVM = NewMemoryNVM(StoreRecordSize)
	}

	c := &Controller{
		cfg:     cfg,
		log:     log,
		motion:  hw.Motion,
		store:   NewPositionStore(hw.NVM, cfg.SanitySteps),
		home:    NewSensor(hw.GPIO, hw.Pins.Home, cfg.HomeSensorActiveHigh, cfg.DebounceMs),
		relay1:  NewOutputPin(hw.GPIO, hw.Pins.Relay1, cfg.RelayActiveLow),
		relay2:  NewOutputPin(hw.GPIO, hw.Pins.Relay2, cfg.RelayActiveLow),
		mailbox: protocol.NewFifoBuffer(MailboxFrames * protocol.FrameSize),
		console: protocol.NewLineDecoder(),
		homing:  NotHomed,
	}
	if cfg.Mode == config.ModeTraverser {
		c.limit = NewSensor(hw.GPIO, hw.Pins.Limit, cfg.LimitSensorActiveHigh, cfg.DebounceMs)
	}
	c.accessory = NewOutputPin(hw.GPIO, hw.Pins.Accessory, false)
	c.led = NewLED(NewOutputPin(hw.GPIO, hw.Pins.LED, false), cfg.LEDFastMs, cfg.LEDSlowMs)
	c.phase = NewPhaseController(cfg, c.relay1, c.relay2)
	c.planner = NewPlanner(cfg.Mode, c.phase)
	c.lastTarget = cfg.SanitySteps
	return c, nil
}

// Logger returns the controller's console logger
func (c *Controller) Logger() *Logger {
	return c.log
}

// Start configures the I/O, establishes the cycle length and prints the
// status report. Without a configured or valid stored cycle length a
// calibration is scheduled.
func (c *Controller) Start() error {
	if err := c.home.Configure(); err != nil {
		return err
	}
	if c.limit != nil {
		if err := c.limit.Configure(); err != nil {
			return err
		}
	}
	for _, out := range []*OutputPin{c.relay1, c.relay2, c.accessory, c.led.out} {
		if err := out.Configure(); err != nil {
			return err
		}
	}
	c.outputError(c.phase.Apply(0))

	full := int32(0)
	if c.cfg.FullStepCount > 0 {
		full = c.cfg.FullStepCount
		c.log.Info("Using configured full step count: " + itoa32(full))
	} else if steps, ok := c.store.Load(); ok && steps > 0 {
		full = steps
		c.log.Info("Loaded full step count from EEPROM: " + itoa32(full))
	} else {
		c.log.Info("No valid stored step count, calibration required")
		c.InitiateCalibration()
	}
	c.setCycle(full)
	c.Report()
	return nil
}

func (c *Controller) setCycle(full int32) {
	c.planner.SetCycle(full)
}

// Service runs one non-blocking pass of the main loop
func (c *Controller) Service() {
	now := GetTime()

	c.processMailbox()

	c.home.Poll(now)
	if c.limit != nil {
		c.limit.Poll(now)
	}

	if c.homing == NotHomed {
		c.serviceHoming()
	}
	if c.calibrating && c.homing == Homed {
		c.serviceCalibration()
	}

	c.outputError(c.led.Render(now))

	running := c.motion.Run()
	if c.wasRunning && !running && !c.cfg.KeepOutputsEnabled {
		c.motion.DisableOutputs()
	}
	c.wasRunning = running
}

// OnReceive is the bus write callback. A whole frame is queued for the
// main loop; any other length is drained without effect. It never blocks.
func (c *Controller) OnReceive(data []byte) {
	if len(data) != protocol.FrameSize {
		return
	}
	critical(func() {
		c.mailbox.WriteAll(data)
	})
}

// OnRequest is the bus read callback. The reply is one byte: 1 while the
// motor is running, 0 otherwise.
func (c *Controller) OnRequest() []byte {
	status := protocol.EncodeStatus(c.motion.IsRunning())
	return status[:]
}

// ConsoleInput feeds one byte of diagnostic console input. A complete
// `<position activity>` line is injected as if received on the bus.
func (c *Controller) ConsoleInput(b byte) {
	frame, done, err := c.console.Feed(b)
	if !done {
		return
	}
	if err != nil {
		c.log.Error("serial input rejected: " + err.Error())
		return
	}
	c.log.Info("Test move " + utoa(uint32(frame.Position)) + " steps, activity ID " + utoa(uint32(frame.Activity)))
	raw := frame.Encode()
	c.OnReceive(raw[:])
}

// outputError logs the first relay or LED write failure. Later ones
// would repeat every pass.
func (c *Controller) outputError(err error) {
	if err == nil || c.ioFailed {
		return
	}
	c.ioFailed = true
	c.log.Error("output write failed: " + err.Error())
}

func (c *Controller) processMailbox() {
	for {
		var frame protocol.Frame
		var ok bool
		critical(func() {
			frame, ok = c.mailbox.ReadFrame()
		})
		if !ok {
			return
		}
		c.handleFrame(frame)
	}
}

func (c *Controller) handleFrame(frame protocol.Frame) {
	cmd, err := DecodeCommand(gearedPosition(frame.Position, c.cfg.GearingFactor), frame.Activity)
	if err != nil {
		c.log.Warn("invalid activity " + utoa(uint32(frame.Activity)))
		return
	}
	if err := c.Dispatch(cmd); err != nil {
		c.log.Warn("activity " + utoa(uint32(frame.Activity)) + " ignored: " + err.Error())
	}
}

// gearedPosition scales a bus position to motor steps. Products beyond
// int32 saturate, which the range check then rejects.
func gearedPosition(position uint16, gearing int32) int32 {
	steps := int64(position) * int64(gearing)
	if steps > math.MaxInt32 {
		return math.MaxInt32
	}
	return int32(steps)
}

// Dispatch applies a command. LED and accessory commands always apply;
// everything else is rejected while the motor moves. A rejected command
// changes nothing.
func (c *Controller) Dispatch(cmd Command) error {
	switch cmd := cmd.(type) {
	case SetLED:
		c.led.Set(cmd.Level)
		return nil
	case SetAccessory:
		return c.accessory.Set(cmd.On)
	}

	if c.motion.IsRunning() {
		return ErrMotorMoving
	}

	switch cmd := cmd.(type) {
	case MoveTo:
		if c.calibrating {
			return ErrCalibrating
		}
		full, _ := c.planner.Cycle()
		if cmd.Position < 0 || cmd.Position > full {
			return ErrOutOfRange
		}
		c.moveToPosition(cmd.Position, cmd.Phase)
	case Rehome:
		if c.calibrating && c.homing != HomingFailed {
			return ErrCalibrating
		}
		c.InitiateHoming()
	case Calibrate:
		if c.calibrating && c.homing != HomingFailed {
			return ErrCalibrating
		}
		c.InitiateCalibration()
	default:
		return ErrUnknownActivity
	}
	return nil
}

func (c *Controller) moveToPosition(target int32, explicitPhase uint8) {
	move, ok := c.planner.Plan(target, explicitPhase)
	if !ok {
		return
	}
	c.log.Info("Received notification to move to step position " + itoa32(target))
	c.log.Info("Moving " + itoa32(move.Steps) + " steps, phase " + utoa(uint32(move.Phase)))

	c.outputError(c.phase.Apply(move.Phase))
	c.planner.Commit(target)
	c.motion.EnableOutputs()
	c.motion.Move(move.Steps)
	c.lastTarget = c.motion.TargetPosition()
	c.log.Debug("lastStep/lastTarget: " + itoa32(target) + "/" + itoa32(c.lastTarget))
}
