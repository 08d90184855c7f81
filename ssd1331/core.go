// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1331

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
)

// Inputs is everything the core consumes on one base tick.
type Inputs struct {
	Capture
	// SerialEnable paces the bus. The serializer only advances on ticks where
	// it is set, two ticks per transmitted bit.
	SerialEnable bool
}

// Lines is the level of the five bus lines.
type Lines struct {
	RES  gpio.Level // Active low.
	CS   gpio.Level // Active low.
	SCK  gpio.Level
	DC   gpio.Level // High for data.
	MOSI gpio.Level
}

func (l Lines) String() string {
	return fmt.Sprintf("RES=%s CS=%s SCK=%s DC=%s MOSI=%s", l.RES, l.CS, l.SCK, l.DC, l.MOSI)
}

// State is a snapshot of the core registers.
type State struct {
	Tick  uint64
	Reset ResetState
	Mode  Mode
	// Index is the next script entry while Initializing.
	Index int
	// Progress is Index while Initializing and stays within the trailing data
	// window afterward.
	Progress int
	BitCount uint8
	DC       bool
	Write    Cursor
	Read     Cursor
	Captured uint64
	Consumed uint64
	// Torn counts samples read after capture had already overwritten them
	// with the next row.
	Torn uint64
}

// Core is the synchronous model of the panel driver.
//
// Step evaluates one base tick. Every output and every next state value is a
// function of the state before the tick. Core is not safe for concurrent use.
type Core struct {
	script *Script
	reset  resetSequencer
	ser    serializer
	buf    *scanline
	tick   uint64
	err    error
}

// NewCore returns a Core in its power-up state.
func NewCore(opts *Opts) (*Core, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	entries := opts.Script
	if entries == nil {
		entries = defaultEntries(opts.W, opts.H)
	}
	s, err := NewScript(entries)
	if err != nil {
		return nil, err
	}
	return &Core{
		script: s,
		reset:  resetSequencer{hold: opts.ResetTicks},
		buf:    newScanline(opts.W, opts.H, opts.PixelBits),
	}, nil
}

// Script returns the initialization script being replayed.
func (c *Core) Script() *Script {
	return c.script
}

// Lines returns the bus lines for the current state.
func (c *Core) Lines() Lines {
	held := c.reset.state() == Held
	return Lines{
		RES:  gpio.Level(!held),
		CS:   gpio.Level(held),
		SCK:  gpio.Level(c.ser.count&1 == 0),
		DC:   gpio.Level(c.ser.dc),
		MOSI: gpio.Level(c.ser.shift&0x80 != 0),
	}
}

// Step returns the bus lines of the current state, then advances the core by
// one base tick.
//
// Once the serializer overtakes pixel capture the core stops and every later
// call returns the same *OvertakeError.
func (c *Core) Step(in Inputs) (Lines, error) {
	out := c.Lines()
	if c.err != nil {
		return out, c.err
	}
	if c.reset.state() == Released {
		// The serializer reads the buffer before this tick's capture.
		if err := c.ser.step(in.SerialEnable, c.script, c.buf); err != nil {
			c.err = err
			return out, err
		}
	}
	c.reset = c.reset.next()
	c.buf.capture(in.Capture)
	c.tick++
	return out, nil
}

// Err returns the error that stopped the core, if any.
func (c *Core) Err() error {
	return c.err
}

// State returns a snapshot of the registers.
func (c *Core) State() State {
	return State{
		Tick:     c.tick,
		Reset:    c.reset.state(),
		Mode:     c.ser.mode,
		Index:    c.ser.index,
		Progress: c.ser.progress(c.script),
		BitCount: c.ser.count,
		DC:       c.ser.dc,
		Write:    c.buf.w,
		Read:     c.buf.r,
		Captured: c.buf.captured,
		Consumed: c.buf.consumed,
		Torn:     c.buf.torn,
	}
}
