// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package oledsim

import (
	"bytes"
	"image"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
)

// TerminalOpts represents the options of a Terminal.
type TerminalOpts struct {
	// W defaults to stdout.
	W       io.Writer
	Palette *ansi256.Palette

	_ struct{}
}

// Terminal draws a panel image at the console using ANSI color codes, one
// block per pixel.
type Terminal struct {
	w       io.Writer
	palette *ansi256.Palette
	buf     bytes.Buffer
}

// NewTerminal returns a Terminal.
func NewTerminal(opts *TerminalOpts) *Terminal {
	t := &Terminal{w: opts.W, palette: opts.Palette}
	if t.w == nil {
		t.w = colorable.NewColorableStdout()
	}
	if t.palette == nil {
		t.palette = ansi256.Default
	}
	return t
}

func (t *Terminal) String() string {
	return "Terminal"
}

// Halt implements conn.Resource.
//
// It resets the colors so the console is not corrupted.
func (t *Terminal) Halt() error {
	_, err := t.w.Write([]byte("\033[0m\n"))
	return err
}

// Refresh redraws img from the top left corner of the console.
func (t *Terminal) Refresh(img image.Image) error {
	// This code is designed to minimize the amount of memory allocated per call.
	t.buf.Reset()
	_, _ = t.buf.WriteString("\033[H\033[0m")
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			_, _ = io.WriteString(&t.buf, t.palette.Block(color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)))
		}
		_, _ = t.buf.WriteString("\033[0m\n")
	}
	_, err := t.buf.WriteTo(t.w)
	return err
}
