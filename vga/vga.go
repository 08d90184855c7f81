// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package vga generates the video timing signal consumed by package ssd1331.
//
// A Generator walks a raster of visible pixels, front porch, sync pulse and
// back porch, horizontally then vertically, and emits one ssd1331.Capture
// per base tick. Pixels are read from a Framebuffer that implements
// display.Drawer; drawing is double buffered and takes effect at the next
// frame.
package vga

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/GermanBionicSystems/oledvga/rgb332"
	"github.com/GermanBionicSystems/oledvga/ssd1331"
	"golang.org/x/image/draw"
	"periph.io/x/conn/v3/display"
)

// Timing describes the raster.
type Timing struct {
	ResolutionX int
	HFrontPorch int
	HSyncPulse  int
	HBackPorch  int
	ResolutionY int
	VFrontPorch int
	VSyncPulse  int
	VBackPorch  int
}

// DefaultTiming is a 96x64 raster with long horizontal porches so the
// serializer, clocked at half the base tick, keeps up with a line.
var DefaultTiming = Timing{
	ResolutionX: 96,
	HFrontPorch: 1800,
	HSyncPulse:  1,
	HBackPorch:  1800,
	ResolutionY: 64,
	VFrontPorch: 1,
	VSyncPulse:  1,
	VBackPorch:  1,
}

func (t *Timing) validate() error {
	if t.ResolutionX < 1 || t.ResolutionY < 1 {
		return fmt.Errorf("vga: invalid resolution %dx%d", t.ResolutionX, t.ResolutionY)
	}
	if t.HSyncPulse < 1 || t.VSyncPulse < 1 {
		return fmt.Errorf("vga: sync pulses must be at least one tick")
	}
	if t.HFrontPorch < 0 || t.HBackPorch < 0 || t.VFrontPorch < 0 || t.VBackPorch < 0 {
		return fmt.Errorf("vga: negative porch")
	}
	return nil
}

// TotalX is the number of ticks per line.
func (t *Timing) TotalX() int {
	return t.ResolutionX + t.HFrontPorch + t.HSyncPulse + t.HBackPorch
}

// TotalY is the number of lines per frame.
func (t *Timing) TotalY() int {
	return t.ResolutionY + t.VFrontPorch + t.VSyncPulse + t.VBackPorch
}

// Framebuffer is the image shown by a Generator.
type Framebuffer struct {
	mu    sync.Mutex
	next  *rgb332.Image
	dirty bool
}

// NewFramebuffer returns a black framebuffer of w by h pixels.
func NewFramebuffer(w, h int) *Framebuffer {
	return &Framebuffer{next: rgb332.New(image.Rect(0, 0, w, h))}
}

func (f *Framebuffer) String() string {
	return fmt.Sprintf("vga.Framebuffer{%s}", f.next.Rect.Max)
}

// Halt implements conn.Resource.
func (f *Framebuffer) Halt() error {
	return nil
}

// ColorModel implements display.Drawer.
func (f *Framebuffer) ColorModel() color.Model {
	return rgb332.Model
}

// Bounds implements display.Drawer. Min is guaranteed to be {0, 0}.
func (f *Framebuffer) Bounds() image.Rectangle {
	return f.next.Rect
}

// Draw implements display.Drawer.
//
// The change is picked up by the generator at the start of the next frame.
func (f *Framebuffer) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	draw.Src.Draw(f.next, r, src, sp)
	f.dirty = true
	return nil
}

// DrawScaled draws the whole of src scaled to the framebuffer.
func (f *Framebuffer) DrawScaled(src image.Image) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	draw.ApproxBiLinear.Scale(f.next, f.next.Rect, src, src.Bounds(), draw.Src, nil)
	f.dirty = true
	return nil
}

// latch copies the drawn image into dst if it changed.
func (f *Framebuffer) latch(dst *rgb332.Image) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.dirty {
		copy(dst.Pix, f.next.Pix)
		f.dirty = false
	}
}

var _ display.Drawer = &Framebuffer{}

// Generator emits the timing signal of a Framebuffer.
//
// Generator is not safe for concurrent use; the Framebuffer is.
type Generator struct {
	t     Timing
	fb    *Framebuffer
	front *rgb332.Image
	x, y  int
}

// New returns a Generator scanning fb with timing t.
//
// fb must be t.ResolutionX by t.ResolutionY.
func New(t *Timing, fb *Framebuffer) (*Generator, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}
	if got := fb.Bounds().Size(); got.X != t.ResolutionX || got.Y != t.ResolutionY {
		return nil, fmt.Errorf("vga: framebuffer is %s, timing is %dx%d", got, t.ResolutionX, t.ResolutionY)
	}
	g := &Generator{t: *t, fb: fb, front: rgb332.New(fb.Bounds())}
	fb.latch(g.front)
	return g, nil
}

// Position returns the raster position of the next tick.
func (g *Generator) Position() image.Point {
	return image.Point{X: g.x, Y: g.y}
}

// Next returns the capture inputs of the current tick and advances the
// raster.
func (g *Generator) Next() ssd1331.Capture {
	t := &g.t
	c := ssd1331.Capture{PixelEnable: true}
	hs := t.ResolutionX + t.HFrontPorch
	vs := t.ResolutionY + t.VFrontPorch
	c.HSync = g.x >= hs && g.x < hs+t.HSyncPulse
	c.VSync = g.y >= vs && g.y < vs+t.VSyncPulse
	c.Blank = g.x >= t.ResolutionX || g.y >= t.ResolutionY
	if !c.Blank {
		c.Pixel = g.front.Pix[g.front.PixOffset(g.x, g.y)]
	}
	if g.x++; g.x == t.TotalX() {
		g.x = 0
		if g.y++; g.y == t.TotalY() {
			g.y = 0
			g.fb.latch(g.front)
		}
	}
	return c
}

// Divider asserts an enable one tick out of N.
type Divider struct {
	N int
	n int
}

// Tick returns true on the first tick and every N ticks after. N below 2
// always returns true.
func (d *Divider) Tick() bool {
	if d.N < 2 {
		return true
	}
	on := d.n == 0
	if d.n++; d.n == d.N {
		d.n = 0
	}
	return on
}

// Source pairs a Generator with the serial clock enable.
type Source struct {
	Gen    *Generator
	Serial Divider
}

// Next implements ssd1331.Source.
func (s *Source) Next() ssd1331.Inputs {
	return ssd1331.Inputs{Capture: s.Gen.Next(), SerialEnable: s.Serial.Tick()}
}

var _ ssd1331.Source = &Source{}
