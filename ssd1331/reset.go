// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1331

// ResetState is the state of the panel reset line.
type ResetState byte

// Possible reset states. The transition from Held to Released is one-way.
const (
	Held ResetState = iota
	Released
)

func (r ResetState) String() string {
	if r == Released {
		return "Released"
	}
	return "Held"
}

// resetSequencer holds the panel in reset for a fixed number of ticks.
type resetSequencer struct {
	count int
	hold  int
}

func (r *resetSequencer) state() ResetState {
	if r.count >= r.hold {
		return Released
	}
	return Held
}

// next returns the sequencer as of the following tick. The counter saturates
// once released.
func (r resetSequencer) next() resetSequencer {
	if r.count < r.hold {
		r.count++
	}
	return r
}
