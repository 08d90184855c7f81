// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1331

import (
	"errors"
	"testing"
)

func TestNewScript(t *testing.T) {
	for _, tc := range []struct {
		name     string
		entries  []Entry
		wantErr  bool
		boundary int
	}{
		{"empty", nil, true, 0},
		{"no data", Commands([]byte{0xAE, 0xAF}), true, 0},
		{"only data", Commands(nil, 0xFF, 0xFF), true, 0},
		{"data first", []Entry{{Data: true, Byte: 1}, {Byte: 2}, {Data: true, Byte: 3}}, true, 0},
		{"one trailing", Commands([]byte{0xAE, 0xA1}, 0xFF), false, 2},
		{"two trailing", Commands([]byte{0xAE}, 0x01, 0x02), false, 1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s, err := NewScript(tc.entries)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidScript) {
					t.Fatalf("NewScript() = %v, want ErrInvalidScript", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got := s.Boundary(); got != tc.boundary {
				t.Errorf("Boundary() = %d, want %d", got, tc.boundary)
			}
			if got := s.Len() - s.Window(); got != tc.boundary {
				t.Errorf("Len()-Window() = %d, want %d", got, tc.boundary)
			}
		})
	}
}

func TestScriptImmutable(t *testing.T) {
	e := Commands([]byte{0xAE}, 0xFF)
	s, err := NewScript(e)
	if err != nil {
		t.Fatal(err)
	}
	e[0].Byte = 0x00
	if got := s.At(0).Byte; got != 0xAE {
		t.Fatalf("At(0) = %#x after caller mutation", got)
	}
}

func TestDefaultScript(t *testing.T) {
	s, err := NewScript(defaultEntries(96, 64))
	if err != nil {
		t.Fatal(err)
	}
	if s.Window() != 1 {
		t.Fatalf("Window() = %d", s.Window())
	}
	last := s.Boundary() - 1
	// The address window must cover the panel.
	want := []byte{_SETROW, 0x00, 63}
	for i, b := range want {
		if got := s.At(last - 2 + i).Byte; got != b {
			t.Errorf("At(%d) = %#x, want %#x", last-2+i, got, b)
		}
	}
}
