//go:build rp2040

package pio

// Step/dir generation on a PIO state machine. Each FIFO word is one
// command, so a step never waits on the CPU for its pulse width.

import (
	"machine"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"
)

// Command word format:
//
//	Bits 0-15:  pulse count - 1
//	Bits 16-23: delay cycles (inter-pulse spacing)
//	Bit 24:     direction (0=forward, 1=reverse)
func buildStepperProgram() []uint16 {
	asm := rp2pio.AssemblerV0{SidesetBits: 0}
	return []uint16{
		// .wrap_target
		asm.Pull(false, true).Encode(),          // 0: pull block
		asm.Out(rp2pio.OutDestX, 16).Encode(),   // 1: out x, 16 (pulse count)
		asm.Out(rp2pio.OutDestY, 8).Encode(),    // 2: out y, 8 (delay cycles)
		asm.Out(rp2pio.OutDestPins, 1).Encode(), // 3: out pins, 1 (direction)
		// step_loop:
		asm.Set(rp2pio.SetDestPins, 1).Delay(7).Encode(), // 4: set pins, 1 [7]
		asm.Set(rp2pio.SetDestPins, 0).Encode(),          // 5: set pins, 0
		// delay_loop:
		asm.Jmp(6, rp2pio.JmpYNZeroDec).Encode(), // 6: jmp y--, 6
		asm.Jmp(4, rp2pio.JmpXNZeroDec).Encode(), // 7: jmp x--, 4
		// .wrap
	}
}

const (
	stepperPIOOrigin = 0 // jump addresses above are absolute
	dirBit           = 1 << 24
)

// PIOStepper drives a two wire (step/dir) driver from a PIO state machine
type PIOStepper struct {
	pio       *rp2pio.PIO
	sm        rp2pio.StateMachine
	stepPin   machine.Pin
	dirPin    machine.Pin
	enable    enablePin
	direction bool
}

func newPIOStepper(pioNum, smNum uint8) *PIOStepper {
	pioHW := rp2pio.PIO0
	if pioNum != 0 {
		pioHW = rp2pio.PIO1
	}
	return &PIOStepper{
		pio: pioHW,
		sm:  pioHW.StateMachine(smNum),
	}
}

func (b *PIOStepper) init(pins Pins) error {
	b.stepPin = pins.Step
	b.dirPin = pins.Dir
	b.enable = newEnablePin(pins.Enable, pins.InvertEnable)

	b.sm.TryClaim()

	program := buildStepperProgram()
	offset, err := b.pio.AddProgram(program, stepperPIOOrigin)
	if err != nil {
		return err
	}

	b.stepPin.Configure(machine.PinConfig{Mode: b.pio.PinMode()})
	b.dirPin.Configure(machine.PinConfig{Mode: b.pio.PinMode()})

	cfg := rp2pio.DefaultStateMachineConfig()
	cfg.SetSetPins(b.stepPin, 1)
	cfg.SetOutPins(b.dirPin, 1)
	// Shift right, explicit PULL, 32-bit threshold
	cfg.SetOutShift(true, false, 32)
	cfg.SetWrap(offset+uint8(len(program))-1, offset)
	cfg.SetClkDivIntFrac(1000, 0)

	// Pin directions only stick after Init
	b.sm.Init(offset, cfg)
	b.sm.SetPindirsConsecutive(b.stepPin, 1, true)
	b.sm.SetPindirsConsecutive(b.dirPin, 1, true)
	b.sm.SetPinsConsecutive(b.stepPin, 1, false)
	b.sm.SetPinsConsecutive(b.dirPin, 1, false)

	b.sm.SetEnabled(true)
	return nil
}

// Step queues a single pulse in the current direction
func (b *PIOStepper) Step() {
	cmd := uint32(0) | (1 << 16) // one pulse, minimal delay
	if b.direction {
		cmd |= dirBit
	}
	for b.sm.IsTxFIFOFull() {
	}
	b.sm.TxPut(cmd)
}

func (b *PIOStepper) SetDirection(dir bool) {
	b.direction = dir
}

func (b *PIOStepper) SetEnabled(enabled bool) {
	b.enable.set(enabled)
}

// Stop drops any queued pulses
func (b *PIOStepper) Stop() {
	b.sm.SetEnabled(false)
	b.sm.ClearFIFOs()
	b.sm.Restart()
	b.sm.SetEnabled(true)
}

func (b *PIOStepper) GetName() string {
	return "PIO step/dir"
}
