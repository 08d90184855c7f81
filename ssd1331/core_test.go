// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1331

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/gpio"
)

type busByte struct {
	DC bool
	B  byte
}

// decode samples MOSI on rising clock edges while CS is low.
func decode(t *testing.T, trace []Lines) []busByte {
	var out []busByte
	var cur busByte
	n := 0
	prev := gpio.High
	for i, l := range trace {
		if prev == gpio.Low && l.SCK == gpio.High && l.CS == gpio.Low {
			if n == 0 {
				cur = busByte{DC: bool(l.DC)}
			} else if cur.DC != bool(l.DC) {
				t.Fatalf("tick %d: D/C changed within a byte", i)
			}
			cur.B = cur.B<<1 | b2u(l.MOSI)
			if n++; n == 8 {
				out = append(out, cur)
				n = 0
			}
		}
		prev = l.SCK
	}
	return out
}

func b2u(l gpio.Level) byte {
	if l {
		return 1
	}
	return 0
}

// run steps c n times, feeding in(i) as the inputs of tick i.
func run(t *testing.T, c *Core, n int, in func(i int) Inputs) []Lines {
	trace := make([]Lines, 0, n)
	for i := 0; i < n; i++ {
		l, err := c.Step(in(i))
		if err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
		trace = append(trace, l)
	}
	return trace
}

// freeRunning captures pixel every tick and clocks the bus every other tick.
func freeRunning(pixel byte) func(int) Inputs {
	return func(i int) Inputs {
		return Inputs{
			Capture:      Capture{PixelEnable: true, Pixel: pixel},
			SerialEnable: i%2 == 0,
		}
	}
}

func TestNewCore(t *testing.T) {
	for _, tc := range []struct {
		name string
		opts Opts
	}{
		{"width", Opts{W: 0, H: 64, PixelBits: 8, ResetTicks: 2}},
		{"wide", Opts{W: 97, H: 64, PixelBits: 8, ResetTicks: 2}},
		{"height", Opts{W: 96, H: 65, PixelBits: 8, ResetTicks: 2}},
		{"bits", Opts{W: 96, H: 64, PixelBits: 9, ResetTicks: 2}},
		{"reset", Opts{W: 96, H: 64, PixelBits: 8}},
		{"script", Opts{W: 96, H: 64, PixelBits: 8, ResetTicks: 2, Script: Commands([]byte{0xAE})}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewCore(&tc.opts); err == nil {
				t.Fatal("expected error")
			}
		})
	}
	if _, err := NewCore(nil); err != nil {
		t.Fatal(err)
	}
}

func TestResetHold(t *testing.T) {
	opts := DefaultOpts
	opts.ResetTicks = 3
	c, err := NewCore(&opts)
	if err != nil {
		t.Fatal(err)
	}
	for i, l := range run(t, c, 2000, freeRunning(0)) {
		held := i < 3
		if l.RES != gpio.Level(!held) || l.CS != gpio.Level(held) {
			t.Fatalf("tick %d: %s", i, l)
		}
		if held && l.SCK != gpio.High {
			t.Fatalf("tick %d: clock must idle high in reset", i)
		}
	}
	if s := c.State(); s.Reset != Released {
		t.Fatalf("Reset = %s", s.Reset)
	}
}

func TestBitOrder(t *testing.T) {
	c, err := NewCore(&DefaultOpts)
	if err != nil {
		t.Fatal(err)
	}
	s := c.Script()
	// 16 enabled ticks per byte at half rate, plus reset.
	n := 2 + 32*s.Boundary()
	got := decode(t, run(t, c, n, freeRunning(0)))
	var want []busByte
	for i := 0; i < s.Boundary(); i++ {
		want = append(want, busByte{B: s.At(i).Byte})
	}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Fatalf("bus bytes (-got +want):\n%s", diff)
	}
}

func TestBoundaryMonotonic(t *testing.T) {
	c, err := NewCore(&DefaultOpts)
	if err != nil {
		t.Fatal(err)
	}
	in := freeRunning(0x55)
	streamingAt := -1
	raisedAt := -1
	prev := gpio.Low
	for i := 0; i < 20000; i++ {
		st := c.State()
		if st.Mode == Streaming {
			if streamingAt == -1 {
				streamingAt = i
				if st.Index != c.Script().Boundary() {
					t.Fatalf("streaming with index %d", st.Index)
				}
			}
			if st.Progress < c.Script().Boundary() || st.Progress >= c.Script().Len() {
				t.Fatalf("tick %d: progress %d outside the data window", i, st.Progress)
			}
		}
		l, err := c.Step(in(i))
		if err != nil {
			t.Fatal(err)
		}
		switch {
		case prev == gpio.Low && l.DC == gpio.High:
			if raisedAt != -1 {
				t.Fatalf("D/C raised twice, at %d and %d", raisedAt, i)
			}
			raisedAt = i
		case prev == gpio.High && l.DC == gpio.Low:
			t.Fatalf("tick %d: D/C reverted to command", i)
		}
		prev = l.DC
	}
	if streamingAt == -1 {
		t.Fatal("never reached the data window")
	}
	if raisedAt != streamingAt+1 {
		t.Fatalf("D/C raised at %d, boundary reached at %d", raisedAt, streamingAt)
	}
}

func TestEndToEnd(t *testing.T) {
	opts := Opts{W: 2, H: 1, PixelBits: 8, ResetTicks: 2, Script: Commands([]byte{0xAE, 0xA1}, 0xFF)}
	c, err := NewCore(&opts)
	if err != nil {
		t.Fatal(err)
	}
	got := decode(t, run(t, c, 2+32*40, freeRunning(0x3C)))
	if len(got) < 40 {
		t.Fatalf("decoded only %d bytes", len(got))
	}
	want := []busByte{{B: 0xAE}, {B: 0xA1}}
	for len(want) < len(got) {
		want = append(want, busByte{DC: true, B: 0x3C})
	}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Fatalf("bus bytes (-got +want):\n%s", diff)
	}
	if st := c.State(); st.Read.Row != 0 || st.Progress != 2 {
		t.Fatalf("%+v", st)
	}
}

func TestProgressWindow(t *testing.T) {
	opts := Opts{W: 1, H: 1, PixelBits: 8, ResetTicks: 1, Script: Commands([]byte{0xAE}, 0x01, 0x02)}
	c, err := NewCore(&opts)
	if err != nil {
		t.Fatal(err)
	}
	seen := map[int]bool{}
	in := freeRunning(0x81)
	for i := 0; i < 2000; i++ {
		if _, err := c.Step(in(i)); err != nil {
			t.Fatal(err)
		}
		if st := c.State(); st.Mode == Streaming {
			seen[st.Progress] = true
		}
	}
	if diff := cmp.Diff(seen, map[int]bool{1: true, 2: true}); diff != "" {
		t.Fatalf("progress values (-got +want):\n%s", diff)
	}
}

// TestRowGating drives capture and the bus from unrelated enables and checks
// that every sample is consumed while both cursors are on the same row.
func TestRowGating(t *testing.T) {
	const w, h = 4, 3
	opts := Opts{W: w, H: h, PixelBits: 8, ResetTicks: 2, Script: Commands([]byte{0xAE}, 0xFF)}
	c, err := NewCore(&opts)
	if err != nil {
		t.Fatal(err)
	}
	// Per row: w pixels, hsync, 9 blank ticks. vsync after h rows.
	const line = w + 10
	const frame = h*line + 1
	pixel := 0
	in := func(i int) Inputs {
		in := Inputs{SerialEnable: i%5 == 0}
		if i%3 != 0 {
			return in
		}
		pos := pixel % frame
		pixel++
		in.PixelEnable = true
		switch {
		case pos == h*line:
			in.VSync = true
		case pos%line < w:
			in.Pixel = byte(pos / line)
		case pos%line == w:
			in.HSync = true
		default:
			in.Blank = true
		}
		return in
	}
	var seen [h]bool
	readRow := 0
	var rows []int
	for i := 0; i < 100000; i++ {
		pre := c.State()
		seen[pre.Write.Row] = true
		if pre.Read.Row != readRow {
			readRow = pre.Read.Row
			seen = [h]bool{}
			seen[pre.Write.Row] = true
		}
		if _, err := c.Step(in(i)); err != nil {
			t.Fatal(err)
		}
		if post := c.State(); post.Consumed != pre.Consumed {
			if pre.Write.Row != pre.Read.Row {
				t.Fatalf("tick %d: consumed row %d while capture is on row %d", i, pre.Read.Row, pre.Write.Row)
			}
			if !seen[pre.Read.Row] {
				t.Fatalf("tick %d: consumed row %d before capture reached it", i, pre.Read.Row)
			}
			rows = append(rows, pre.Read.Row)
		}
	}
	if len(rows) < 3*w*h {
		t.Fatalf("only %d samples consumed", len(rows))
	}
}

func TestOvertake(t *testing.T) {
	opts := Opts{W: 2, H: 1, PixelBits: 8, ResetTicks: 1, Script: Commands([]byte{0xAE}, 0xFF)}
	c, err := NewCore(&opts)
	if err != nil {
		t.Fatal(err)
	}
	var first error
	for i := 0; i < 100 && first == nil; i++ {
		_, first = c.Step(Inputs{SerialEnable: true})
	}
	var oe *OvertakeError
	if !errors.As(first, &oe) || !errors.Is(first, ErrOvertaken) {
		t.Fatalf("Step() = %v, want OvertakeError", first)
	}
	st := c.State()
	if _, err := c.Step(Inputs{SerialEnable: true}); err != first {
		t.Fatalf("Step() after overtake = %v", err)
	}
	if c.Err() != first {
		t.Fatalf("Err() = %v", c.Err())
	}
	if got := c.State(); got != st {
		t.Fatalf("core advanced after overtake:\n%+v\n%+v", st, got)
	}
}
