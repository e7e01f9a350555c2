// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package renderer

import (
	"encoding/binary"

	"github.com/cockroachdb/errors"
	glm "github.com/go-gl/mathgl/mgl32"
)

const bytesPerPixel = 4

// Buffer is a locked window pixel buffer.
type Buffer struct {
	Bits   []byte
	Width  int
	Height int

	// Stride is the row length in pixels, at least Width
	Stride int
}

// Canvas is a window that can be painted on the CPU.
type Canvas interface {
	// Size returns the window size in pixels
	Size() (width, height int)

	// SetBuffersGeometry sizes the window buffers in a 32 bit RGBA format
	SetBuffersGeometry(width, height int) error

	// Lock gives access to the next buffer
	Lock() (Buffer, error)

	// UnlockAndPost releases the buffer and shows it
	UnlockAndPost() error

	// MapRGBA encodes a colour as a pixel of the buffer format
	MapRGBA(r, g, b, a uint8) uint32
}

// ColorRGBA8 converts a 0..1 colour to 8 bit channels.
func ColorRGBA8(c glm.Vec4) (r, g, b, a uint8) {
	channel := func(v float32) uint8 {
		return uint8(glm.Clamp(v, 0, 1)*255 + 0.5)
	}
	return channel(c.X()), channel(c.Y()), channel(c.Z()), channel(c.W())
}

// Fill paints the whole window with one colour without touching the GPU.
func Fill(canvas Canvas, color glm.Vec4) error {
	width, height := canvas.Size()
	if err := canvas.SetBuffersGeometry(width, height); err != nil {
		return errors.Wrap(err, "set buffers geometry")
	}

	buffer, err := canvas.Lock()
	if err != nil {
		return errors.Wrap(err, "lock window")
	}

	if buffer.Width < width {
		width = buffer.Width
	}
	if buffer.Height < height {
		height = buffer.Height
	}

	pixel := canvas.MapRGBA(ColorRGBA8(color))
	for y := 0; y < height; y++ {
		row := y * buffer.Stride * bytesPerPixel
		for x := 0; x < width; x++ {
			offset := row + x*bytesPerPixel
			if offset+bytesPerPixel > len(buffer.Bits) {
				break
			}
			binary.LittleEndian.PutUint32(buffer.Bits[offset:], pixel)
		}
	}

	return canvas.UnlockAndPost()
}
