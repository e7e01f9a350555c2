// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"time"

	"github.com/loov/hrtime"
)

// NewStopwatch creates a started stopwatch
func NewStopwatch() *Stopwatch {
	now := hrtime.Now()
	return &Stopwatch{
		start: now,
		lap:   now,
	}
}

// Stopwatch measures startup stages with the high resolution timer
type Stopwatch struct {
	start time.Duration
	lap   time.Duration
}

// Lap returns the time since the previous lap and starts a new one
func (s *Stopwatch) Lap() time.Duration {
	now := hrtime.Now()
	elapsed := now - s.lap
	s.lap = now
	return elapsed
}

// Total returns the time since the stopwatch was created
func (s *Stopwatch) Total() time.Duration {
	return hrtime.Since(s.start)
}
