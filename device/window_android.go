// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

//go:build android
// +build android

package device

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/devblok/nativevk/core"
	"github.com/devblok/nativevk/core/renderer"
	vk "github.com/vulkan-go/vulkan"
	"github.com/xlab/android-go/android"
)

// AndroidWindow is the native window of an activity. It can carry a
// Vulkan surface or be painted directly.
type AndroidWindow struct {
	Window *android.NativeWindow
}

// InstanceExtensions implements core.Window
func (w *AndroidWindow) InstanceExtensions() []string {
	return []string{
		"VK_KHR_surface",
		"VK_KHR_android_surface",
	}
}

// CreateSurface implements core.Window
func (w *AndroidWindow) CreateSurface(instance core.Instance) (core.Surface, error) {
	inst, err := instanceHandle(instance)
	if err != nil {
		return nil, err
	}

	surfaceInfo := vk.AndroidSurfaceCreateInfo{
		SType:  vk.StructureTypeAndroidSurfaceCreateInfo,
		Window: (*vk.ANativeWindow)(unsafe.Pointer(w.Window)),
	}
	var surface vk.Surface
	if err := vk.Error(vk.CreateAndroidSurface(inst, &surfaceInfo, nil, &surface)); err != nil {
		return nil, errors.Wrap(err, "vk.CreateAndroidSurface()")
	}
	return NewSurface(instance, surface)
}

// Size implements renderer.Canvas
func (w *AndroidWindow) Size() (int, int) {
	return int(android.NativeWindowGetWidth(w.Window)), int(android.NativeWindowGetHeight(w.Window))
}

// SetBuffersGeometry implements renderer.Canvas
func (w *AndroidWindow) SetBuffersGeometry(width, height int) error {
	if android.NativeWindowSetBuffersGeometry(w.Window, int32(width), int32(height), android.WindowFormatRgba8888) < 0 {
		return errors.New("ANativeWindow_setBuffersGeometry() failed")
	}
	return nil
}

// Lock implements renderer.Canvas
func (w *AndroidWindow) Lock() (renderer.Buffer, error) {
	var buffer android.NativeWindowBuffer
	if android.NativeWindowLock(w.Window, &buffer, nil) < 0 {
		return renderer.Buffer{}, errors.New("ANativeWindow_lock() failed")
	}
	buffer.Deref()

	size := int(buffer.Stride) * int(buffer.Height) * 4
	return renderer.Buffer{
		Bits:   unsafe.Slice((*byte)(buffer.Bits), size),
		Width:  int(buffer.Width),
		Height: int(buffer.Height),
		Stride: int(buffer.Stride),
	}, nil
}

// UnlockAndPost implements renderer.Canvas
func (w *AndroidWindow) UnlockAndPost() error {
	if android.NativeWindowUnlockAndPost(w.Window) < 0 {
		return errors.New("ANativeWindow_unlockAndPost() failed")
	}
	return nil
}

// MapRGBA implements renderer.Canvas, the buffer stores R, G, B, A bytes.
func (w *AndroidWindow) MapRGBA(r, g, b, a uint8) uint32 {
	return uint32(a)<<24 | uint32(b)<<16 | uint32(g)<<8 | uint32(r)
}
