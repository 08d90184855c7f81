// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1331

// Mode is the byte source of the serializer.
type Mode byte

// Possible modes. The serializer starts Initializing and switches to
// Streaming exactly once, when the script index reaches the first data entry.
const (
	Initializing Mode = iota
	Streaming
)

func (m Mode) String() string {
	if m == Streaming {
		return "Streaming"
	}
	return "Initializing"
}

// serializer shifts bytes out MSB first.
//
// count holds the clock phase in bit 0 and the bit index in bits 1 to 3. A
// byte is loaded when count is 0, then count runs 1..15 and wraps. The clock
// line is the inverse of bit 0 so it idles high and each of the 8 bits is
// sampled on a rising edge.
type serializer struct {
	mode     Mode
	index    int
	streamed uint64
	count    uint8
	shift    byte
	dc       bool
}

// step advances the serializer by one base tick.
func (z *serializer) step(enable bool, s *Script, buf *scanline) error {
	// D/C latches on the tick after the boundary, whatever the enable.
	if z.mode == Streaming {
		z.dc = true
	}
	if !enable {
		return nil
	}
	if z.count == 0 {
		switch z.mode {
		case Initializing:
			z.shift = s.At(z.index).Byte
		case Streaming:
			if !buf.ready() {
				return nil
			}
			v, err := buf.consume()
			if err != nil {
				return err
			}
			z.shift = v
		}
		z.count = 1
		return nil
	}
	if z.count&1 == 0 {
		z.shift <<= 1
	}
	z.count = (z.count + 1) & 15
	if z.count != 0 {
		return nil
	}
	if z.mode == Streaming {
		z.streamed++
		return nil
	}
	z.index++
	if z.index == s.Boundary() {
		z.mode = Streaming
	}
	return nil
}

// progress returns the script index, clamped to the data window once
// streaming.
func (z *serializer) progress(s *Script) int {
	if z.mode == Initializing {
		return z.index
	}
	return s.Boundary() + int(z.streamed%uint64(s.Window()))
}
