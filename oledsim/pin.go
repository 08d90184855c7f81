// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package oledsim

import (
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// Pin is one line of a Bus.
type Pin struct {
	bus    *Bus
	name   string
	number int
}

// Halt implements conn.Resource.
func (pin *Pin) Halt() error {
	return nil
}

// Name returns the name of the line.
func (pin *Pin) Name() string {
	return pin.name
}

// Number returns the line number, one of RES, CS, SCK, DC or MOSI.
func (pin *Pin) Number() int {
	return pin.number
}

// Deprecated: returns "Out"
func (pin *Pin) Function() string {
	return "Out"
}

// Out sets the line level.
func (pin *Pin) Out(l gpio.Level) error {
	pin.bus.set(pin.number, l)
	return nil
}

// Not implemented.
func (pin *Pin) PWM(duty gpio.Duty, f physic.Frequency) error {
	return ErrNotImplemented
}

func (pin *Pin) String() string {
	return pin.name
}

var _ gpio.PinOut = &Pin{}
