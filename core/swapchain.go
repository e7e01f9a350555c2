// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"github.com/cockroachdb/errors"
)

// SwapchainConfig holds the negotiated swapchain creation parameters.
// It is built once per device and surface and never changes afterwards.
type SwapchainConfig struct {
	format         SurfaceFormat
	presentMode    PresentMode
	extent         Extent2D
	imageCount     uint32
	sharingMode    SharingMode
	queueFamilies  []uint32
	preTransform   SurfaceTransformFlags
	compositeAlpha CompositeAlphaFlags
}

// Format returns the chosen image format and colour space
func (c SwapchainConfig) Format() SurfaceFormat { return c.format }

// PresentMode returns the chosen present mode
func (c SwapchainConfig) PresentMode() PresentMode { return c.presentMode }

// Extent returns the image extent
func (c SwapchainConfig) Extent() Extent2D { return c.extent }

// ImageCount returns the minimum number of swapchain images requested
func (c SwapchainConfig) ImageCount() uint32 { return c.imageCount }

// SharingMode returns how images are shared between queue families
func (c SwapchainConfig) SharingMode() SharingMode { return c.sharingMode }

// QueueFamilyIndices returns the families images are shared between when
// the sharing mode is concurrent, nil otherwise.
func (c SwapchainConfig) QueueFamilyIndices() []uint32 {
	if c.queueFamilies == nil {
		return nil
	}
	return append([]uint32(nil), c.queueFamilies...)
}

// PreTransform returns the transform applied before presentation
func (c SwapchainConfig) PreTransform() SurfaceTransformFlags { return c.preTransform }

// CompositeAlpha returns the alpha compositing mode
func (c SwapchainConfig) CompositeAlpha() CompositeAlphaFlags { return c.compositeAlpha }

// ChooseSurfaceFormat takes the first format on the list, unless the
// preferred pair is on it somewhere.
func ChooseSurfaceFormat(available []SurfaceFormat, preferred SurfaceFormat) (SurfaceFormat, error) {
	if len(available) == 0 {
		return SurfaceFormat{}, ErrNoSurfaceFormats
	}
	for _, format := range available {
		if format == preferred {
			return format, nil
		}
	}
	return available[0], nil
}

// ChoosePresentMode returns mailbox when preferred and supported, FIFO otherwise.
// FIFO support is guaranteed by every surface.
func ChoosePresentMode(available []PresentMode, preferMailbox bool) PresentMode {
	if preferMailbox {
		for _, mode := range available {
			if mode == PresentModeMailbox {
				return mode
			}
		}
	}
	return PresentModeFifo
}

// ChooseExtent uses the surface extent unless the surface leaves it
// undefined, then fallback is used as is.
func ChooseExtent(caps SurfaceCapabilities, fallback Extent2D) Extent2D {
	if caps.HasUndefinedExtent() {
		return fallback
	}
	return caps.CurrentExtent
}

// ChooseImageCount asks for one image more than the minimum, but no more
// than the maximum. A zero maximum means unbounded.
func ChooseImageCount(caps SurfaceCapabilities) uint32 {
	count := caps.MinImageCount + 1
	if caps.MaxImageCount > 0 && count > caps.MaxImageCount {
		count = caps.MaxImageCount
	}
	return count
}

// ChooseSharing shares images concurrently between the graphics and present
// families when they differ, otherwise the single family owns them.
func ChooseSharing(queues QueueFamilyAssignment) (SharingMode, []uint32) {
	if queues.Graphics != queues.Present {
		return SharingModeConcurrent, []uint32{queues.Graphics, queues.Present}
	}
	return SharingModeExclusive, nil
}

// ChooseCompositeAlpha picks the first supported mode out of opaque,
// pre-multiplied, post-multiplied and inherit.
func ChooseCompositeAlpha(caps SurfaceCapabilities) CompositeAlphaFlags {
	for _, flag := range []CompositeAlphaFlags{
		CompositeAlphaOpaque,
		CompositeAlphaPreMultiplied,
		CompositeAlphaPostMultiplied,
		CompositeAlphaInherit,
	} {
		if caps.SupportedCompositeAlpha&flag != 0 {
			return flag
		}
	}
	return CompositeAlphaOpaque
}

// ChoosePreTransform keeps images untransformed when the surface allows it.
func ChoosePreTransform(caps SurfaceCapabilities) SurfaceTransformFlags {
	if caps.SupportedTransforms&SurfaceTransformIdentity != 0 {
		return SurfaceTransformIdentity
	}
	return caps.CurrentTransform
}

// ChooseSwapchain derives swapchain parameters from queried surface support.
func ChooseSwapchain(caps SurfaceCapabilities, formats []SurfaceFormat, modes []PresentMode, queues QueueFamilyAssignment, cfg SwapchainConfiguration) (SwapchainConfig, error) {
	if !queues.IsComplete() {
		return SwapchainConfig{}, ErrIncompleteQueues
	}
	if len(modes) == 0 {
		return SwapchainConfig{}, ErrNoPresentModes
	}

	format, err := ChooseSurfaceFormat(formats, SurfaceFormat{
		Format:     cfg.PreferredFormat,
		ColorSpace: cfg.PreferredColorSpace,
	})
	if err != nil {
		return SwapchainConfig{}, err
	}

	sharing, families := ChooseSharing(queues)
	return SwapchainConfig{
		format:         format,
		presentMode:    ChoosePresentMode(modes, cfg.PreferMailbox),
		extent:         ChooseExtent(caps, cfg.DefaultExtent),
		imageCount:     ChooseImageCount(caps),
		sharingMode:    sharing,
		queueFamilies:  families,
		preTransform:   ChoosePreTransform(caps),
		compositeAlpha: ChooseCompositeAlpha(caps),
	}, nil
}

// NegotiateSwapchain queries the surface support of pd and derives
// swapchain parameters from it.
func NegotiateSwapchain(pd PhysicalDevice, surface Surface, queues QueueFamilyAssignment, cfg SwapchainConfiguration) (SwapchainConfig, error) {
	caps, err := surface.Capabilities(pd)
	if err != nil {
		return SwapchainConfig{}, errors.Wrap(err, "query surface capabilities")
	}
	formats, err := surface.Formats(pd)
	if err != nil {
		return SwapchainConfig{}, errors.Wrap(err, "query surface formats")
	}
	modes, err := surface.PresentModes(pd)
	if err != nil {
		return SwapchainConfig{}, errors.Wrap(err, "query present modes")
	}
	return ChooseSwapchain(caps, formats, modes, queues, cfg)
}
