//go:build rp2040

package main

import (
	"machine"

	"tinygo.org/x/drivers/at24cx"

	"turntable/core"
)

// openEEPROM returns the AT24Cxx on I2C1 as the controller's position store.
// Without a responding chip the controller falls back to RAM.
func openEEPROM() core.NVMemory {
	if err := configureEEPROMBus(); err != nil {
		return nil
	}
	eeprom := at24cx.New(machine.I2C1)
	eeprom.Configure(at24cx.Config{})
	check := make([]byte, 1)
	if _, err := eeprom.ReadAt(check, 0); err != nil {
		return nil
	}
	return &eeprom
}
