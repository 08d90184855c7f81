// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1331

import (
	"errors"
	"fmt"
)

const (
	_DISPLAYOFF        = 0xAE
	_DISPLAYON         = 0xAF
	_SETREMAP          = 0xA0
	_SETSTARTLINE      = 0xA1
	_SETDISPLAYOFFSET  = 0xA2
	_NORMALDISPLAY     = 0xA4
	_SETMULTIPLEX      = 0xA8
	_SETMASTER         = 0xAD
	_POWERSAVE         = 0xB0
	_SETPHASELENGTH    = 0xB1
	_SETDISPLAYCLOCK   = 0xB3
	_SETPRECHARGEA     = 0x8A
	_SETPRECHARGEB     = 0x8B
	_SETPRECHARGEC     = 0x8C
	_SETPRECHARGELEVEL = 0xBB
	_SETVCOMH          = 0xBE
	_MASTERCURRENT     = 0x87
	_SETCONTRASTA      = 0x81
	_SETCONTRASTB      = 0x82
	_SETCONTRASTC      = 0x83
	_SETCOLUMN         = 0x15
	_SETROW            = 0x75
)

// ErrInvalidScript is returned when an initialization script cannot be
// replayed.
var ErrInvalidScript = errors.New("ssd1331: invalid init script")

// Entry is one byte of the initialization script.
type Entry struct {
	// Data is true for bytes sent with D/C high.
	Data bool
	Byte byte
}

// Script is an immutable initialization script.
//
// The trailing data-tagged entries form the window where the serializer
// switches to the scanline buffer. Only the command entries are ever shifted
// out; the data entries mark the boundary.
type Script struct {
	entries []Entry
	k       int
}

// NewScript validates entries and returns a Script.
//
// The script must not be empty, must end with at least one data entry and
// must start with at least one command entry. Data entries must all be
// trailing.
func NewScript(entries []Entry) (*Script, error) {
	m := len(entries)
	if m == 0 {
		return nil, fmt.Errorf("%w: empty", ErrInvalidScript)
	}
	k := 0
	for i := m - 1; i >= 0 && entries[i].Data; i-- {
		k++
	}
	if k == 0 {
		return nil, fmt.Errorf("%w: no trailing data entry", ErrInvalidScript)
	}
	if k >= m {
		return nil, fmt.Errorf("%w: %d data entries leave no command", ErrInvalidScript, k)
	}
	for i, e := range entries[:m-k] {
		if e.Data {
			return nil, fmt.Errorf("%w: data entry %d precedes command entries", ErrInvalidScript, i)
		}
	}
	s := &Script{entries: make([]Entry, m), k: k}
	copy(s.entries, entries)
	return s, nil
}

// Commands builds script entries from command bytes followed by data bytes.
func Commands(cmds []byte, data ...byte) []Entry {
	out := make([]Entry, 0, len(cmds)+len(data))
	for _, b := range cmds {
		out = append(out, Entry{Byte: b})
	}
	for _, b := range data {
		out = append(out, Entry{Data: true, Byte: b})
	}
	return out
}

// Len returns the number of entries M.
func (s *Script) Len() int {
	return len(s.entries)
}

// Window returns the number of trailing data entries K.
func (s *Script) Window() int {
	return s.k
}

// Boundary returns M-K, the index of the first data entry.
func (s *Script) Boundary() int {
	return len(s.entries) - s.k
}

// At returns entry i.
func (s *Script) At(i int) Entry {
	return s.entries[i]
}

func (s *Script) String() string {
	return fmt.Sprintf("ssd1331.Script{M:%d, K:%d}", len(s.entries), s.k)
}

// defaultEntries sets up a 96x64 panel in 256 color mode. The address window
// covers the whole panel so the data stream wraps from the last pixel back
// to the first one.
func defaultEntries(w, h int) []Entry {
	return Commands([]byte{
		_DISPLAYOFF,
		_SETREMAP, 0x22, // 256 colors, RRRGGGBB
		_SETSTARTLINE, 0x00,
		_SETDISPLAYOFFSET, 0x00,
		_NORMALDISPLAY,
		_SETMULTIPLEX, byte(h - 1),
		_SETMASTER, 0x8E, // External Vcc
		_POWERSAVE, 0x0B,
		_SETPHASELENGTH, 0x31,
		_SETDISPLAYCLOCK, 0xF0,
		_SETPRECHARGEA, 0x64,
		_SETPRECHARGEB, 0x78,
		_SETPRECHARGEC, 0x64,
		_SETPRECHARGELEVEL, 0x3A,
		_SETVCOMH, 0x3E,
		_MASTERCURRENT, 0x06,
		_SETCONTRASTA, 0x91,
		_SETCONTRASTB, 0x50,
		_SETCONTRASTC, 0x7D,
		_DISPLAYON,
		_SETCOLUMN, 0x00, byte(w - 1),
		_SETROW, 0x00, byte(h - 1),
	}, 0xFF)
}
