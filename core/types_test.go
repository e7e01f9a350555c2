// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core_test

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"gopkg.in/yaml.v3"

	"github.com/devblok/nativevk/core"
)

func TestParseExtent(t *testing.T) {
	c := qt.New(t)

	e, err := core.ParseExtent(" 1920X1080 ")
	c.Assert(err, qt.IsNil)
	c.Assert(e, qt.Equals, core.Extent2D{Width: 1920, Height: 1080})
	c.Assert(e.String(), qt.Equals, "1920x1080")

	_, err = core.ParseExtent("full screen")
	c.Assert(err, qt.ErrorMatches, `parse extent "full screen": .*`)

	_, err = core.ParseExtent("800x600px")
	c.Assert(err, qt.ErrorMatches, `parse extent "800x600px": trailing "px"`)

	_, err = core.ParseExtent("800x")
	c.Assert(err, qt.ErrorMatches, `parse extent "800x": .*`)
}

func TestEnumText(t *testing.T) {
	c := qt.New(t)

	type enums struct {
		Type   core.DeviceType    `yaml:"type"`
		Format core.Format        `yaml:"format"`
		Space  core.ColorSpace    `yaml:"space"`
		Modes  []core.PresentMode `yaml:"modes"`
	}

	in := enums{
		Type:   core.DeviceTypeDiscreteGPU,
		Format: 64,
		Space:  1000104001,
		Modes:  []core.PresentMode{core.PresentModeMailbox, 1000111000},
	}
	raw, err := yaml.Marshal(in)
	c.Assert(err, qt.IsNil)
	c.Assert(string(raw), qt.Contains, "type: discrete_gpu")

	var out enums
	c.Assert(yaml.Unmarshal(raw, &out), qt.IsNil)
	c.Assert(out, qt.DeepEquals, in)

	var mode core.PresentMode
	c.Assert(mode.UnmarshalText([]byte("FIFO_RELAXED")), qt.IsNil)
	c.Assert(mode, qt.Equals, core.PresentModeFifoRelaxed)
	c.Assert(mode.UnmarshalText([]byte("vsync")), qt.ErrorMatches, `unknown present mode "vsync"`)

	c.Assert(core.Format(64).String(), qt.Equals, "Format(64)")
	c.Assert(core.SurfaceFormat{Format: core.FormatR8G8B8A8Unorm}.String(), qt.Equals, "r8g8b8a8_unorm/srgb_nonlinear")
}
