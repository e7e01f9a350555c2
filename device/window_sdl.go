// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

//go:build !android
// +build !android

package device

import (
	"github.com/cockroachdb/errors"
	"github.com/devblok/nativevk/core"
	"github.com/devblok/nativevk/core/renderer"
	"github.com/veandco/go-sdl2/sdl"
	vk "github.com/vulkan-go/vulkan"
)

// SDLWindow is a desktop window used for development.
type SDLWindow struct {
	Window *sdl.Window

	surface *sdl.Surface
}

// InstanceExtensions implements core.Window
func (w *SDLWindow) InstanceExtensions() []string {
	return w.Window.VulkanGetInstanceExtensions()
}

// CreateSurface implements core.Window
func (w *SDLWindow) CreateSurface(instance core.Instance) (core.Surface, error) {
	srf, err := w.Window.VulkanCreateSurface(instance.Inner())
	if err != nil {
		return nil, errors.Wrap(err, "sdl.VulkanCreateSurface()")
	}
	return NewSurface(instance, vk.SurfaceFromPointer(uintptr(srf)))
}

// Size implements renderer.Canvas
func (w *SDLWindow) Size() (int, int) {
	width, height := w.Window.GetSize()
	return int(width), int(height)
}

// SetBuffersGeometry implements renderer.Canvas, the window surface
// always follows the window size.
func (w *SDLWindow) SetBuffersGeometry(width, height int) error {
	return nil
}

// Lock implements renderer.Canvas
func (w *SDLWindow) Lock() (renderer.Buffer, error) {
	surface, err := w.Window.GetSurface()
	if err != nil {
		return renderer.Buffer{}, errors.Wrap(err, "sdl.GetSurface()")
	}
	if err := surface.Lock(); err != nil {
		return renderer.Buffer{}, errors.Wrap(err, "sdl.LockSurface()")
	}
	w.surface = surface

	return renderer.Buffer{
		Bits:   surface.Pixels(),
		Width:  int(surface.W),
		Height: int(surface.H),
		Stride: int(surface.Pitch) / 4,
	}, nil
}

// UnlockAndPost implements renderer.Canvas
func (w *SDLWindow) UnlockAndPost() error {
	if w.surface != nil {
		w.surface.Unlock()
		w.surface = nil
	}
	return w.Window.UpdateSurface()
}

// MapRGBA implements renderer.Canvas
func (w *SDLWindow) MapRGBA(r, g, b, a uint8) uint32 {
	if w.surface == nil {
		return uint32(a)<<24 | uint32(b)<<16 | uint32(g)<<8 | uint32(r)
	}
	return sdl.MapRGBA(w.surface.Format, r, g, b, a)
}
