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

// CreateSwapchain implements interface
func (d *LogicalDevice) CreateSwapchain(surface core.Surface, cfg core.SwapchainConfig) (core.Swapchain, error) {
	srf, ok := surface.(*Surface)
	if !ok {
		return nil, errors.Newf("not a vulkan surface: %T", surface)
	}

	families := cfg.QueueFamilyIndices()
	scci := vk.SwapchainCreateInfo{
		SType:           vk.StructureTypeSwapchainCreateInfo,
		Surface:         srf.surface,
		MinImageCount:   cfg.ImageCount(),
		ImageFormat:     vk.Format(cfg.Format().Format),
		ImageColorSpace: vk.ColorSpace(cfg.Format().ColorSpace),
		ImageExtent: vk.Extent2D{
			Width:  cfg.Extent().Width,
			Height: cfg.Extent().Height,
		},
		ImageArrayLayers:      1,
		ImageUsage:            vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		ImageSharingMode:      vk.SharingMode(cfg.SharingMode()),
		QueueFamilyIndexCount: uint32(len(families)),
		PQueueFamilyIndices:   families,
		PreTransform:          vk.SurfaceTransformFlagBits(cfg.PreTransform()),
		CompositeAlpha:        vk.CompositeAlphaFlagBits(cfg.CompositeAlpha()),
		PresentMode:           vk.PresentMode(cfg.PresentMode()),
		Clipped:               vk.True,
	}

	var swapchain vk.Swapchain
	if err := vk.Error(vk.CreateSwapchain(d.device, &scci, nil, &swapchain)); err != nil {
		return nil, errors.Wrap(err, "vk.CreateSwapchain()")
	}

	var imageCount uint32
	if err := vk.Error(vk.GetSwapchainImages(d.device, swapchain, &imageCount, nil)); err != nil {
		vk.DestroySwapchain(d.device, swapchain, nil)
		return nil, errors.Wrap(err, "vk.GetSwapchainImages()")
	}
	images := make([]vk.Image, imageCount)
	if err := vk.Error(vk.GetSwapchainImages(d.device, swapchain, &imageCount, images)); err != nil {
		vk.DestroySwapchain(d.device, swapchain, nil)
		return nil, errors.Wrap(err, "vk.GetSwapchainImages()")
	}

	return &Swapchain{
		device:    d.device,
		swapchain: swapchain,
		images:    images[:imageCount],
		config:    cfg,
	}, nil
}

// Swapchain is a created Vulkan swapchain
type Swapchain struct {
	device    vk.Device
	swapchain vk.Swapchain
	images    []vk.Image
	config    core.SwapchainConfig
	destroyed bool
}

// Config implements interface
func (s *Swapchain) Config() core.SwapchainConfig {
	return s.config
}

// ImageCount implements interface
func (s *Swapchain) ImageCount() int {
	return len(s.images)
}

// Images returns the swapchain images
func (s *Swapchain) Images() []vk.Image {
	return s.images
}

// Destroy implements interface
func (s *Swapchain) Destroy() {
	if s.destroyed {
		return
	}
	s.destroyed = true
	vk.DestroySwapchain(s.device, s.swapchain, nil)
}
