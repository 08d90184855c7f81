// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1331

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// ErrHalted is returned by Tick and Run once Halt was called.
var ErrHalted = errors.New("ssd1331: halted")

// DefaultOpts is the recommended default options for a 96x64 panel in 256
// color mode.
var DefaultOpts = Opts{
	W:          96,
	H:          64,
	PixelBits:  8,
	ResetTicks: 2,
}

// Opts defines the options for the device.
//
// Nothing can be changed once the device is created.
type Opts struct {
	// W is the scanline width in pixels.
	W int
	// H is the number of rows in a frame.
	H int
	// PixelBits is the width of a pixel sample, between 1 and 8. Samples are
	// masked to it.
	PixelBits int
	// ResetTicks is the number of base ticks the panel is held in reset after
	// power up.
	ResetTicks int
	// Script is the initialization script. The trailing data entries mark the
	// switch to pixel streaming. Leave nil for the 256 color setup of a WxH
	// panel.
	Script []Entry
}

func (o *Opts) validate() error {
	if o.W < 1 || o.W > 96 {
		return fmt.Errorf("ssd1331: invalid width %d", o.W)
	}
	if o.H < 1 || o.H > 64 {
		return fmt.Errorf("ssd1331: invalid height %d", o.H)
	}
	if o.PixelBits < 1 || o.PixelBits > 8 {
		return fmt.Errorf("ssd1331: invalid pixel width %d bits", o.PixelBits)
	}
	if o.ResetTicks < 1 {
		return fmt.Errorf("ssd1331: invalid reset hold %d", o.ResetTicks)
	}
	return nil
}

// Pins are the five bus lines.
type Pins struct {
	RES  gpio.PinOut
	CS   gpio.PinOut
	SCK  gpio.PinOut
	DC   gpio.PinOut
	MOSI gpio.PinOut
}

func (p *Pins) lines() []gpio.PinOut {
	return []gpio.PinOut{p.RES, p.CS, p.SCK, p.DC, p.MOSI}
}

// Source supplies the inputs of each base tick.
type Source interface {
	Next() Inputs
}

// Dev is an open handle to the panel.
//
// The bus is bit-banged: each Tick writes the lines that changed.
type Dev struct {
	mu     sync.Mutex
	pins   Pins
	core   *Core
	last   Lines
	halted bool
}

// New returns a Dev driving the panel through pins.
//
// The lines are set to their power up levels: panel in reset, chip-select
// inactive and clock idle high.
//
// # Wiring
//
// Connect RES, CS, SCK (D0), DC and MOSI (D1) to the matching panel inputs.
// All five pins are required.
func New(p *Pins, opts *Opts) (*Dev, error) {
	for i, l := range p.lines() {
		if l == nil || l == gpio.INVALID {
			return nil, fmt.Errorf("ssd1331: pin %d is required", i)
		}
	}
	c, err := NewCore(opts)
	if err != nil {
		return nil, err
	}
	d := &Dev{pins: *p, core: c}
	d.last = c.Lines()
	eh := errorHandler{}
	eh.drive(d.pins, d.last, nil)
	if eh.err != nil {
		return nil, eh.err
	}
	return d, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("ssd1331.Dev{%s, %s, %s, %s, %s}", d.pins.RES, d.pins.CS, d.pins.SCK, d.pins.DC, d.pins.MOSI)
}

// Tick evaluates one base tick and updates the bus lines.
func (d *Dev) Tick(in Inputs) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tickLocked(in)
}

func (d *Dev) tickLocked(in Inputs) error {
	if d.halted {
		return ErrHalted
	}
	if _, err := d.core.Step(in); err != nil {
		return err
	}
	// Step returned the lines of the previous state; show the new one.
	next := d.core.Lines()
	eh := errorHandler{}
	eh.drive(d.pins, next, &d.last)
	if eh.err != nil {
		return eh.err
	}
	d.last = next
	return nil
}

// Run ticks the device from src until ctx is done or an error occurs.
//
// A zero rate runs as fast as possible.
func (d *Dev) Run(ctx context.Context, src Source, rate physic.Frequency) error {
	var tick <-chan time.Time
	if rate > 0 {
		t := time.NewTicker(rate.Period())
		defer t.Stop()
		tick = t.C
	}
	for {
		if tick != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}
		if err := d.Tick(src.Next()); err != nil {
			return err
		}
	}
}

// State returns a snapshot of the driver registers.
func (d *Dev) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.core.State()
}

// Script returns the initialization script being replayed.
func (d *Dev) Script() *Script {
	return d.core.Script()
}

// Halt deselects the panel and stops the driver.
//
// The panel is not put back in reset; the driver must be reinstantiated to
// replay the initialization script.
func (d *Dev) Halt() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.halted {
		return nil
	}
	d.halted = true
	return d.pins.CS.Out(gpio.High)
}

var _ conn.Resource = &Dev{}
