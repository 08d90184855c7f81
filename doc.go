// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package oledvga streams a video timing signal to a 96x64 SSD1331 OLED
// panel over a bit-banged serial bus.
//
// The driver lives in package ssd1331. Package vga produces the timing
// signal, package rgb332 holds the pixel format and package oledsim emulates
// the panel for development without hardware.
package oledvga
