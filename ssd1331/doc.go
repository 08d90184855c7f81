// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ssd1331 streams a video signal to a 96x64 color OLED display driven
// by a SSD1331 controller.
//
// The driver is a synchronous state machine evaluated once per base tick. It
// holds the panel in reset for a few ticks, replays an initialization script
// once, then sends the scanline buffer forever, one pixel per byte. Pixel
// capture and the bus run from the same tick, each paced by its own enable.
//
// The bus is bit-banged on five GPIO lines. The clock idles high and the
// panel samples data on rising edges, most significant bit first (SPI mode
// 3). D/C goes high when the script reaches its trailing data entries and
// never goes back.
//
// There is a single scanline buffer. The bus reads row R only while capture
// is on row R and must be clocked slower than capture; reading a sample that
// was never captured stops the driver with an *OvertakeError.
//
// All five lines are required, including RES. Once released the panel is
// never put back in reset; the driver must be reinstantiated to replay the
// script.
//
// # Datasheets
//
// https://cdn-shop.adafruit.com/datasheets/SSD1331_1.2.pdf
package ssd1331
