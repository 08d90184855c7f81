// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package rgb332 implements the 8 bit color format of the SSD1331 in 256
// color mode: 3 bits of red, 3 bits of green and 2 bits of blue.
package rgb332

import (
	"image"
	"image/color"
)

// Color is a RRRGGGBB color.
type Color uint8

// RGBA implements color.Color. Channels are expanded by bit replication so
// 0xFF is white.
func (c Color) RGBA() (r, g, b, a uint32) {
	r3 := uint32(c >> 5)
	g3 := uint32(c>>2) & 7
	b2 := uint32(c) & 3
	r = expand3(r3) * 0x101
	g = expand3(g3) * 0x101
	b = b2 * 0x55 * 0x101
	return r, g, b, 0xFFFF
}

func expand3(v uint32) uint32 {
	return v<<5 | v<<2 | v>>1
}

// Split returns the 3 bit red, 3 bit green and 2 bit blue channels.
func (c Color) Split() (r, g, b uint8) {
	return uint8(c >> 5), uint8(c>>2) & 7, uint8(c) & 3
}

func convert(c color.Color) color.Color {
	if v, ok := c.(Color); ok {
		return v
	}
	r, g, b, _ := c.RGBA()
	return Color(byte(r>>13)<<5 | byte(g>>13)<<2 | byte(b>>14))
}

// Model converts colors to Color.
var Model = color.ModelFunc(convert)

// Image is an in-memory image of Color values, one byte per pixel.
type Image struct {
	Pix    []byte
	Stride int
	Rect   image.Rectangle
}

// New returns an Image of bounds r.
func New(r image.Rectangle) *Image {
	w, h := r.Dx(), r.Dy()
	if w < 0 || h < 0 {
		return &Image{Rect: r}
	}
	return &Image{Pix: make([]byte, w*h), Stride: w, Rect: r}
}

// ColorModel implements image.Image.
func (p *Image) ColorModel() color.Model {
	return Model
}

// Bounds implements image.Image.
func (p *Image) Bounds() image.Rectangle {
	return p.Rect
}

// At implements image.Image.
func (p *Image) At(x, y int) color.Color {
	return p.RGB332At(x, y)
}

// RGB332At returns the pixel at (x, y), black when out of bounds.
func (p *Image) RGB332At(x, y int) Color {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return 0
	}
	return Color(p.Pix[p.PixOffset(x, y)])
}

// Set implements draw.Image.
func (p *Image) Set(x, y int, c color.Color) {
	p.SetRGB332(x, y, Model.Convert(c).(Color))
}

// SetRGB332 sets the pixel at (x, y) without conversion.
func (p *Image) SetRGB332(x, y int, c Color) {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return
	}
	p.Pix[p.PixOffset(x, y)] = byte(c)
}

// PixOffset returns the index of the pixel at (x, y) in Pix.
func (p *Image) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x - p.Rect.Min.X)
}
