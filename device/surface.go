// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package device

import (
	"github.com/cockroachdb/errors"
	"github.com/devblok/nativevk/core"
	vk "github.com/vulkan-go/vulkan"
)

// NewSurface wraps a surface created on instance.
func NewSurface(instance core.Instance, handle vk.Surface) (*Surface, error) {
	inst, err := instanceHandle(instance)
	if err != nil {
		return nil, err
	}
	return &Surface{
		instance: inst,
		surface:  handle,
	}, nil
}

// Surface is a Vulkan presentation surface
type Surface struct {
	instance  vk.Instance
	surface   vk.Surface
	destroyed bool
}

// SupportsPresent implements interface
func (s *Surface) SupportsPresent(pd core.PhysicalDevice, queueFamily uint32) (bool, error) {
	dev, err := physical(pd)
	if err != nil {
		return false, err
	}
	var supported vk.Bool32
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceSupport(dev.handle, queueFamily, s.surface, &supported)); err != nil {
		return false, errors.Wrap(err, "vk.GetPhysicalDeviceSurfaceSupport()")
	}
	return supported.B(), nil
}

// Capabilities implements interface
func (s *Surface) Capabilities(pd core.PhysicalDevice) (core.SurfaceCapabilities, error) {
	dev, err := physical(pd)
	if err != nil {
		return core.SurfaceCapabilities{}, err
	}

	var caps vk.SurfaceCapabilities
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceCapabilities(dev.handle, s.surface, &caps)); err != nil {
		return core.SurfaceCapabilities{}, errors.Wrap(err, "vk.GetPhysicalDeviceSurfaceCapabilities()")
	}
	caps.Deref()
	caps.CurrentExtent.Deref()
	caps.MinImageExtent.Deref()
	caps.MaxImageExtent.Deref()

	return core.SurfaceCapabilities{
		MinImageCount:           caps.MinImageCount,
		MaxImageCount:           caps.MaxImageCount,
		CurrentExtent:           extent(caps.CurrentExtent),
		MinImageExtent:          extent(caps.MinImageExtent),
		MaxImageExtent:          extent(caps.MaxImageExtent),
		SupportedTransforms:     core.SurfaceTransformFlags(caps.SupportedTransforms),
		CurrentTransform:        core.SurfaceTransformFlags(caps.CurrentTransform),
		SupportedCompositeAlpha: core.CompositeAlphaFlags(caps.SupportedCompositeAlpha),
	}, nil
}

// Formats implements interface
func (s *Surface) Formats(pd core.PhysicalDevice) ([]core.SurfaceFormat, error) {
	dev, err := physical(pd)
	if err != nil {
		return nil, err
	}

	var count uint32
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceFormats(dev.handle, s.surface, &count, nil)); err != nil {
		return nil, errors.Wrap(err, "vk.GetPhysicalDeviceSurfaceFormats()")
	}
	if count == 0 {
		return nil, nil
	}
	surfaceFormats := make([]vk.SurfaceFormat, count)
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceFormats(dev.handle, s.surface, &count, surfaceFormats)); err != nil {
		return nil, errors.Wrap(err, "vk.GetPhysicalDeviceSurfaceFormats()")
	}

	formats := make([]core.SurfaceFormat, 0, count)
	for _, format := range surfaceFormats[:count] {
		format.Deref()
		formats = append(formats, core.SurfaceFormat{
			Format:     core.Format(format.Format),
			ColorSpace: core.ColorSpace(format.ColorSpace),
		})
	}
	return formats, nil
}

// PresentModes implements interface
func (s *Surface) PresentModes(pd core.PhysicalDevice) ([]core.PresentMode, error) {
	dev, err := physical(pd)
	if err != nil {
		return nil, err
	}

	var count uint32
	if err := vk.Error(vk.GetPhysicalDeviceSurfacePresentModes(dev.handle, s.surface, &count, nil)); err != nil {
		return nil, errors.Wrap(err, "vk.GetPhysicalDeviceSurfacePresentModes()")
	}
	if count == 0 {
		return nil, nil
	}
	presentModes := make([]vk.PresentMode, count)
	if err := vk.Error(vk.GetPhysicalDeviceSurfacePresentModes(dev.handle, s.surface, &count, presentModes)); err != nil {
		return nil, errors.Wrap(err, "vk.GetPhysicalDeviceSurfacePresentModes()")
	}

	modes := make([]core.PresentMode, 0, count)
	for _, mode := range presentModes[:count] {
		modes = append(modes, core.PresentMode(mode))
	}
	return modes, nil
}

// Inner returns the vk.Surface
func (s *Surface) Inner() interface{} {
	return s.surface
}

// Destroy implements interface
func (s *Surface) Destroy() {
	if s.destroyed {
		return
	}
	s.destroyed = true
	vk.DestroySurface(s.instance, s.surface, nil)
}

func extent(e vk.Extent2D) core.Extent2D {
	return core.Extent2D{
		Width:  e.Width,
		Height: e.Height,
	}
}
