// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package renderer

import (
	"github.com/cockroachdb/errors"
	glm "github.com/go-gl/mathgl/mgl32"
)

// Mode selects how the window gets its pixels
type Mode string

// Rendering modes
const (
	ModeAccelerated Mode = "accelerated"
	ModeSoftware    Mode = "software"
)

// Configuration describes the renderer configuration
type Configuration struct {
	Mode Mode `yaml:"mode"`

	// SoftwareFallback paints the window on the CPU
	// when accelerated startup fails
	SoftwareFallback bool `yaml:"softwareFallback"`

	// ClearColor is RGBA in the 0..1 range
	ClearColor glm.Vec4 `yaml:"clearColor"`
}

// Validate checks the renderer configuration
func (c Configuration) Validate() error {
	switch c.Mode {
	case ModeAccelerated, ModeSoftware:
	default:
		return errors.Newf("unknown render mode %q", c.Mode)
	}
	for i := 0; i < 4; i++ {
		if c.ClearColor[i] < 0 || c.ClearColor[i] > 1 {
			return errors.Newf("clear color component %d out of range: %v", i, c.ClearColor[i])
		}
	}
	return nil
}
