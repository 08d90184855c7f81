// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package oledsim

import (
	"fmt"
	"image"
	"sync"

	"github.com/GermanBionicSystems/oledvga/rgb332"
)

// Number of parameter bytes following each command. Commands not listed
// take none.
var params = map[byte]int{
	0x15: 2, // column address
	0x75: 2, // row address
	0x81: 1, 0x82: 1, 0x83: 1, // contrast
	0x87: 1, // master current
	0x8A: 1, 0x8B: 1, 0x8C: 1, // second precharge
	0xA0: 1, // remap and color depth
	0xA1: 1, // start line
	0xA2: 1, // display offset
	0xA8: 1, // multiplex ratio
	0xAD: 1, // master configuration
	0xB0: 1, // power save
	0xB1: 1, // phase period
	0xB3: 1, // clock divider
	0xBB: 1, // precharge level
	0xBE: 1, // VCOMH
}

// Panel models the SSD1331 graphic RAM in 256 color mode.
//
// Data bytes are written at the address pointer, which runs left to right
// then top to bottom within the column and row window and wraps to the
// window origin.
type Panel struct {
	mu      sync.Mutex
	gram    *rgb332.Image
	cmd     []byte
	want    int
	on      bool
	remap   byte
	col0    int
	col1    int
	row0    int
	row1    int
	x, y    int
	frames  int
	dropped int
}

// NewPanel returns a panel of w by h pixels in its reset state.
func NewPanel(w, h int) *Panel {
	p := &Panel{gram: rgb332.New(image.Rect(0, 0, w, h))}
	p.resetLocked()
	return p
}

func (p *Panel) String() string {
	return fmt.Sprintf("oledsim.Panel{%s}", p.gram.Rect.Max)
}

// Reset implements Handler. The graphic RAM is kept.
func (p *Panel) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetLocked()
}

func (p *Panel) resetLocked() {
	w, h := p.gram.Rect.Dx(), p.gram.Rect.Dy()
	p.cmd = p.cmd[:0]
	p.want = 0
	p.on = false
	p.remap = 0x40 // 65k colors
	p.col0, p.col1 = 0, w-1
	p.row0, p.row1 = 0, h-1
	p.x, p.y = 0, 0
}

// Byte implements Handler.
func (p *Panel) Byte(b Byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if b.DC {
		p.data(b.B)
		return
	}
	if len(p.cmd) == 0 {
		p.want = params[b.B]
	}
	p.cmd = append(p.cmd, b.B)
	if len(p.cmd) > p.want {
		p.exec(p.cmd)
		p.cmd = p.cmd[:0]
	}
}

func (p *Panel) exec(c []byte) {
	switch c[0] {
	case 0xAE:
		p.on = false
	case 0xAF:
		p.on = true
	case 0xA0:
		p.remap = c[1]
	case 0x15:
		p.col0, p.col1 = p.clamp(int(c[1]), p.gram.Rect.Dx()), p.clamp(int(c[2]), p.gram.Rect.Dx())
		p.x = p.col0
	case 0x75:
		p.row0, p.row1 = p.clamp(int(c[1]), p.gram.Rect.Dy()), p.clamp(int(c[2]), p.gram.Rect.Dy())
		p.y = p.row0
	}
}

func (p *Panel) clamp(v, n int) int {
	if v >= n {
		return n - 1
	}
	return v
}

func (p *Panel) data(b byte) {
	if p.remap&0xC0 != 0 {
		p.dropped++
		return
	}
	p.gram.SetRGB332(p.x, p.y, rgb332.Color(b))
	if p.x < p.col1 {
		p.x++
		return
	}
	p.x = p.col0
	if p.y < p.row1 {
		p.y++
		return
	}
	p.y = p.row0
	p.frames++
}

// On reports whether the display was turned on.
func (p *Panel) On() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.on
}

// Frames returns the number of times the address pointer wrapped around the
// whole window.
func (p *Panel) Frames() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frames
}

// Dropped returns the number of data bytes ignored because the panel was
// not in 256 color mode.
func (p *Panel) Dropped() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dropped
}

// Cursor returns the address pointer.
func (p *Panel) Cursor() image.Point {
	p.mu.Lock()
	defer p.mu.Unlock()
	return image.Point{X: p.x, Y: p.y}
}

// Image returns a copy of the graphic RAM.
func (p *Panel) Image() *rgb332.Image {
	p.mu.Lock()
	defer p.mu.Unlock()
	img := rgb332.New(p.gram.Rect)
	copy(img.Pix, p.gram.Pix)
	return img
}
