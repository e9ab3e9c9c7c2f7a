//go:build rp2040

package main

import (
	_ "embed"
	"machine"
	"time"

	"turntable/config"
	"turntable/core"
	"turntable/stepgen"
)

//go:embed config.json
var configJSON []byte

const watchdogTimeoutMs = 2000

func main() {
	// Clear any watchdog state left over from before the reset
	_ = machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0})

	InitUSB()
	UpdateSystemTime()

	cfg, warnings, err := config.Load(configJSON)
	if err != nil {
		consoleLine("ERROR: config.json: " + err.Error() + ", using defaults")
		cfg, warnings = config.Default(), nil
	}
	for _, w := range warnings {
		consoleLine("WARNING: " + w)
	}

	stepper := stepgen.New(newStepperBackend(cfg.StepperDriver), Micros, cfg.MaxSpeed, cfg.Acceleration)
	stepper.SetInvertDirection(cfg.InvertDirection)

	ctrl, err := core.New(cfg, core.Hardware{
		GPIO:   newRPGPIODriver(),
		Motion: stepper,
		NVM:    openEEPROM(),
		Pins:   core.DefaultPins,
		Log:    consoleLine,
	})
	if err != nil {
		halt("ERROR: " + err.Error())
	}
	if err := ctrl.Start(); err != nil {
		halt("ERROR: " + err.Error())
	}

	if err := listenBus(cfg.I2CAddress); err != nil {
		ctrl.Logger().Error("I2C target: " + err.Error())
	}
	go busTargetLoop(ctrl)
	go usbReaderLoop(ctrl)

	if err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: watchdogTimeoutMs}); err == nil {
		_ = machine.Watchdog.Start()
	}

	for {
		// A panic in one pass must not stop the motor loop for good
		func() {
			defer func() {
				if r := recover(); r != nil {
					ctrl.Logger().Error("recovered from panic in service loop")
				}
			}()

			UpdateSystemTime()
			ctrl.Service()
		}()

		machine.Watchdog.Update()
		// Give the bus and console goroutines a turn
		time.Sleep(10 * time.Microsecond)
	}
}

// halt reports a fatal startup error forever
func halt(msg string) {
	for {
		consoleLine(msg)
		time.Sleep(time.Second)
	}
}
