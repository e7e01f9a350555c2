// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package renderer

import (
	"encoding/binary"
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"
	glm "github.com/go-gl/mathgl/mgl32"
)

type memoryCanvas struct {
	width, height int
	stride        int
	bits          []byte

	geometryErr error
	lockErr     error
	posted      int
}

func newMemoryCanvas(width, height, stride int) *memoryCanvas {
	return &memoryCanvas{
		width:  width,
		height: height,
		stride: stride,
		bits:   make([]byte, stride*height*bytesPerPixel),
	}
}

func (m *memoryCanvas) Size() (int, int) {
	return m.width, m.height
}

func (m *memoryCanvas) SetBuffersGeometry(width, height int) error {
	return m.geometryErr
}

func (m *memoryCanvas) Lock() (Buffer, error) {
	if m.lockErr != nil {
		return Buffer{}, m.lockErr
	}
	return Buffer{
		Bits:   m.bits,
		Width:  m.width,
		Height: m.height,
		Stride: m.stride,
	}, nil
}

func (m *memoryCanvas) UnlockAndPost() error {
	m.posted++
	return nil
}

func (m *memoryCanvas) MapRGBA(r, g, b, a uint8) uint32 {
	return uint32(a)<<24 | uint32(b)<<16 | uint32(g)<<8 | uint32(r)
}

func TestColorRGBA8(t *testing.T) {
	c := qt.New(t)

	r, g, b, a := ColorRGBA8(glm.Vec4{1, 0, 0.5, 2})
	c.Assert([]uint8{r, g, b, a}, qt.DeepEquals, []uint8{255, 0, 128, 255})
}

func TestFillRespectsStride(t *testing.T) {
	c := qt.New(t)

	canvas := newMemoryCanvas(3, 2, 5)
	c.Assert(Fill(canvas, glm.Vec4{1, 0, 0, 1}), qt.IsNil)
	c.Assert(canvas.posted, qt.Equals, 1)

	for y := 0; y < 2; y++ {
		for x := 0; x < 5; x++ {
			offset := (y*5 + x) * bytesPerPixel
			got := canvas.bits[offset : offset+bytesPerPixel]
			if x < 3 {
				c.Assert(got, qt.DeepEquals, []byte{255, 0, 0, 255}, qt.Commentf("pixel %d,%d", x, y))
			} else {
				c.Assert(binary.LittleEndian.Uint32(got), qt.Equals, uint32(0), qt.Commentf("padding %d,%d", x, y))
			}
		}
	}
}

func TestFillShortBuffer(t *testing.T) {
	c := qt.New(t)

	canvas := newMemoryCanvas(4, 4, 4)
	canvas.bits = canvas.bits[:20]
	c.Assert(Fill(canvas, glm.Vec4{0, 1, 0, 1}), qt.IsNil)
	c.Assert(canvas.bits[16:20], qt.DeepEquals, []byte{0, 255, 0, 255})
}

func TestFillErrors(t *testing.T) {
	c := qt.New(t)

	canvas := newMemoryCanvas(1, 1, 1)
	canvas.geometryErr = errors.New("bad geometry")
	c.Assert(Fill(canvas, glm.Vec4{}), qt.ErrorMatches, "set buffers geometry: bad geometry")

	canvas.geometryErr = nil
	canvas.lockErr = errors.New("busy")
	c.Assert(Fill(canvas, glm.Vec4{}), qt.ErrorMatches, "lock window: busy")
	c.Assert(canvas.posted, qt.Equals, 0)
}

func TestValidate(t *testing.T) {
	c := qt.New(t)

	cfg := Configuration{Mode: ModeSoftware, ClearColor: glm.Vec4{0, 0, 0, 1}}
	c.Assert(cfg.Validate(), qt.IsNil)

	cfg.Mode = "hybrid"
	c.Assert(cfg.Validate(), qt.ErrorMatches, `unknown render mode "hybrid"`)

	cfg.Mode = ModeAccelerated
	cfg.ClearColor[3] = -1
	c.Assert(cfg.Validate(), qt.ErrorMatches, "clear color component 3 out of range: -1")
}
