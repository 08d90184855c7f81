// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package vga

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/gomono"
)

// Bars are the colors of ColorBars at 75% intensity, left to right.
var Bars = []color.NRGBA{
	{0xBF, 0xBF, 0xBF, 0xFF}, // white
	{0xBF, 0xBF, 0x00, 0xFF}, // yellow
	{0x00, 0xBF, 0xBF, 0xFF}, // cyan
	{0x00, 0xBF, 0x00, 0xFF}, // green
	{0xBF, 0x00, 0xBF, 0xFF}, // magenta
	{0x00, 0x00, 0xBF, 0xFF}, // blue
}

// ColorBars renders vertical color bars with caption on the bottom band.
// An empty caption leaves the band black.
func ColorBars(w, h int, caption string) (image.Image, error) {
	dc := gg.NewContext(w, h)
	dc.SetColor(color.Black)
	dc.Clear()
	band := h / 4
	bw := float64(w) / float64(len(Bars))
	for i, c := range Bars {
		dc.SetColor(c)
		dc.DrawRectangle(float64(i)*bw, 0, bw, float64(h-band))
		dc.Fill()
	}
	if caption != "" && band > 0 {
		f, err := truetype.Parse(gomono.TTF)
		if err != nil {
			return nil, err
		}
		dc.SetFontFace(truetype.NewFace(f, &truetype.Options{Size: float64(band) * 0.8}))
		dc.SetColor(color.White)
		dc.DrawStringAnchored(caption, float64(w)/2, float64(h)-float64(band)/2, 0.5, 0.35)
	}
	return dc.Image(), nil
}
