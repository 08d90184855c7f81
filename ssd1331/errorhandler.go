// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1331

import (
	"periph.io/x/conn/v3/gpio"
)

// errorHandler is a wrapper for error management.
type errorHandler struct {
	err error
}

func (eh *errorHandler) out(p gpio.PinOut, l gpio.Level) {
	if eh.err != nil {
		return
	}
	eh.err = p.Out(l)
}

// drive writes the lines that differ from prev, all of them when prev is nil.
//
// The data lines are settled before the clock so the panel samples them on
// a rising edge.
func (eh *errorHandler) drive(p Pins, l Lines, prev *Lines) {
	set := func(pin gpio.PinOut, want, was gpio.Level) {
		if prev == nil || want != was {
			eh.out(pin, want)
		}
	}
	var old Lines
	if prev != nil {
		old = *prev
	}
	set(p.RES, l.RES, old.RES)
	set(p.CS, l.CS, old.CS)
	set(p.DC, l.DC, old.DC)
	set(p.MOSI, l.MOSI, old.MOSI)
	set(p.SCK, l.SCK, old.SCK)
}
