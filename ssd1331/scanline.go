// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1331

import (
	"errors"
	"fmt"
)

// ErrOvertaken is wrapped by OvertakeError.
var ErrOvertaken = errors.New("ssd1331: serializer overtook pixel capture")

// OvertakeError reports that the serializer consumed a sample the capture
// path never produced. The scanline buffer has no defined content in that
// case so the core stops.
type OvertakeError struct {
	Row, Col int
	Captured uint64
	Consumed uint64
}

func (e *OvertakeError) Error() string {
	return fmt.Sprintf("ssd1331: serializer overtook pixel capture at row %d col %d (%d captured, %d consumed)", e.Row, e.Col, e.Captured, e.Consumed)
}

func (e *OvertakeError) Unwrap() error {
	return ErrOvertaken
}

// Cursor is a position in the frame.
type Cursor struct {
	Row, Col int
}

// Capture is one base tick of the video timing signal.
type Capture struct {
	// PixelEnable is the pixel clock enable. Nothing else is looked at when
	// false.
	PixelEnable bool
	HSync       bool
	VSync       bool
	Blank       bool
	Pixel       byte
}

// scanline is one line of samples shared by the capture path and the
// serializer.
//
// The writer only mutates the cell under its cursor, the reader only reads
// the cell under its cursor. The only synchronization is that the reader
// consumes row R while the writer's row is R. The writer's row becomes R as
// soon as row R-1 is complete, so the reader starts on row 1 and row R of
// the reader carries the samples of row R-1.
//
// The reader must run strictly slower than the writer; this is checked
// through the captured and consumed totals. A reader that is too slow to
// finish its row before the writer starts the next one reads samples of the
// wrong row; those are counted in torn.
type scanline struct {
	cells    []byte
	rows     int
	mask     byte
	w        Cursor
	r        Cursor
	captured uint64
	consumed uint64
	torn     uint64
}

func newScanline(w, h, bits int) *scanline {
	return &scanline{
		cells: make([]byte, w),
		rows:  h,
		mask:  byte(1<<uint(bits) - 1),
		r:     Cursor{Row: 1 % h},
	}
}

// capture applies one tick of the timing signal to the write cursor.
func (s *scanline) capture(in Capture) {
	if !in.PixelEnable {
		return
	}
	switch {
	case in.VSync:
		s.w.Row = 0
	case in.HSync:
		s.w.Col = 0
	case !in.Blank:
		s.cells[s.w.Col] = in.Pixel & s.mask
		s.captured++
		s.w.Col, s.w.Row = s.advance(s.w)
	}
}

// ready reports whether the reader may consume its current cell.
func (s *scanline) ready() bool {
	return s.w.Row == s.r.Row
}

// consume returns the sample under the read cursor and advances it. The
// caller must check ready first.
func (s *scanline) consume() (byte, error) {
	at := s.r
	v := s.cells[at.Col]
	s.consumed++
	if s.consumed > s.captured {
		return 0, &OvertakeError{Row: at.Row, Col: at.Col, Captured: s.captured, Consumed: s.consumed}
	}
	// With a single row the cursors never separate and there is nothing to
	// tear.
	if s.rows > 1 && s.w.Col > at.Col {
		s.torn++
	}
	s.r.Col, s.r.Row = s.advance(at)
	return v, nil
}

func (s *scanline) advance(c Cursor) (int, int) {
	if c.Col == len(s.cells)-1 {
		return 0, (c.Row + 1) % s.rows
	}
	return c.Col + 1, c.Row
}
