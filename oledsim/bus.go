// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package oledsim emulates an SSD1331 panel on the receiving end of the
// ssd1331 driver.
//
// A Bus exposes five gpio.PinOut lines. It samples the data line on each
// rising clock edge while chip-select is low and hands complete bytes to a
// Handler: a Trace to record them, a Panel to render them.
package oledsim

import (
	"errors"
	"fmt"
	"sync"

	"github.com/GermanBionicSystems/oledvga/ssd1331"
	"periph.io/x/conn/v3/gpio"
)

var (
	ErrNotImplemented = errors.New("oledsim: not implemented")
)

// Line numbers of the bus pins.
const (
	RES = iota
	CS
	SCK
	DC
	MOSI
	numLines
)

var lineNames = [numLines]string{"RES", "CS", "SCK", "DC", "MOSI"}

// Byte is one byte received on the bus.
type Byte struct {
	DC bool
	B  byte
}

func (b Byte) String() string {
	if b.DC {
		return fmt.Sprintf("data(%#02x)", b.B)
	}
	return fmt.Sprintf("cmd(%#02x)", b.B)
}

// Handler receives decoded bus traffic.
type Handler interface {
	// Reset is called when the reset line is pulled low.
	Reset()
	// Byte is called for each complete byte. D/C is sampled with the last
	// bit.
	Byte(b Byte)
}

// Bus decodes SPI mode 3 traffic: clock idles high and bits are sampled MSB
// first on rising edges.
type Bus struct {
	mu     sync.Mutex
	h      Handler
	levels [numLines]gpio.Level
	pins   [numLines]*Pin
	cur    byte
	n      int
	edges  int
}

// NewBus returns a Bus delivering to h. All lines start high.
func NewBus(h Handler) *Bus {
	b := &Bus{h: h}
	for i := range b.pins {
		b.pins[i] = &Pin{bus: b, name: "OLEDSIM_" + lineNames[i], number: i}
		b.levels[i] = gpio.High
	}
	return b
}

// Pins returns the bus lines to hand to ssd1331.New.
func (b *Bus) Pins() *ssd1331.Pins {
	return &ssd1331.Pins{
		RES:  b.pins[RES],
		CS:   b.pins[CS],
		SCK:  b.pins[SCK],
		DC:   b.pins[DC],
		MOSI: b.pins[MOSI],
	}
}

// Level returns the current level of line n.
func (b *Bus) Level(n int) gpio.Level {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.levels[n]
}

// Edges returns the number of rising clock edges sampled so far.
func (b *Bus) Edges() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.edges
}

func (b *Bus) String() string {
	return "OLEDSim"
}

// set is called by the pins.
func (b *Bus) set(n int, l gpio.Level) {
	b.mu.Lock()
	defer b.mu.Unlock()
	prev := b.levels[n]
	b.levels[n] = l
	if prev == l {
		return
	}
	switch n {
	case RES:
		if l == gpio.Low {
			b.n = 0
			b.h.Reset()
		}
	case CS:
		// Deselecting drops a partial byte.
		if l == gpio.High {
			b.n = 0
		}
	case SCK:
		if l == gpio.High && b.levels[CS] == gpio.Low && b.levels[RES] == gpio.High {
			b.sample()
		}
	}
}

func (b *Bus) sample() {
	b.edges++
	b.cur <<= 1
	if b.levels[MOSI] {
		b.cur |= 1
	}
	if b.n++; b.n == 8 {
		b.n = 0
		b.h.Byte(Byte{DC: bool(b.levels[DC]), B: b.cur})
	}
}

// Trace is a Handler recording every byte.
type Trace struct {
	mu     sync.Mutex
	Bytes  []Byte
	Resets int
}

// Reset implements Handler.
func (t *Trace) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Resets++
}

// Byte implements Handler.
func (t *Trace) Byte(b Byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Bytes = append(t.Bytes, b)
}

// Snapshot returns a copy of the bytes received so far.
func (t *Trace) Snapshot() []Byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Byte(nil), t.Bytes...)
}

// Tee delivers to several handlers in order.
type Tee []Handler

// Reset implements Handler.
func (t Tee) Reset() {
	for _, h := range t {
		h.Reset()
	}
}

// Byte implements Handler.
func (t Tee) Byte(b Byte) {
	for _, h := range t {
		h.Byte(b)
	}
}
