// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core_test

import (
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/devblok/nativevk/core"
	"github.com/devblok/nativevk/profile"
)

func newTestLogger() (*log.Entry, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(log.DebugLevel)
	return log.NewEntry(logger), hook
}

func family(flags core.QueueFlags, present bool) profile.QueueFamilyProfile {
	return profile.QueueFamilyProfile{
		Flags:      flags,
		QueueCount: 1,
		Present:    present,
	}
}

// gpu is a suitable device presenting from its graphics family.
func gpu(name string, kind core.DeviceType, maxDim uint32) profile.DeviceProfile {
	return profile.DeviceProfile{
		Properties: core.DeviceProperties{
			Name:                name,
			Type:                kind,
			MaxImageDimension2D: maxDim,
		},
		QueueFamilies: []profile.QueueFamilyProfile{
			family(core.QueueGraphics|core.QueueCompute|core.QueueTransfer, true),
		},
		Extensions: []string{core.SwapchainExtensionName},
		Capabilities: core.SurfaceCapabilities{
			MinImageCount:           2,
			MaxImageCount:           3,
			CurrentExtent:           core.Extent2D{Width: 1080, Height: 2340},
			MinImageExtent:          core.Extent2D{Width: 1, Height: 1},
			MaxImageExtent:          core.Extent2D{Width: 4096, Height: 4096},
			SupportedTransforms:     core.SurfaceTransformIdentity,
			CurrentTransform:        core.SurfaceTransformIdentity,
			SupportedCompositeAlpha: core.CompositeAlphaOpaque,
		},
		Formats: []core.SurfaceFormat{
			{Format: core.FormatR8G8B8A8Unorm, ColorSpace: core.ColorSpaceSRGBNonlinear},
		},
		PresentModes: []core.PresentMode{core.PresentModeFifo, core.PresentModeMailbox},
	}
}

func devices(instance *profile.Instance) []core.PhysicalDevice {
	pds, err := instance.PhysicalDevices()
	if err != nil {
		panic(err)
	}
	return pds
}

func defaultConfiguration() core.Configuration {
	cfg, err := core.DefaultConfiguration()
	if err != nil {
		panic(err)
	}
	return cfg
}
