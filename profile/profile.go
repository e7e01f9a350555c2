// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package profile records what physical devices report about themselves
// and a surface, and replays those recordings as a core.Instance.
// Replaying a capture runs device selection and swapchain negotiation
// exactly as on the captured hardware, without a GPU.
package profile

import (
	"github.com/cockroachdb/errors"
	"github.com/devblok/nativevk/core"
)

// QueueFamilyProfile is a queue family and whether it can present.
type QueueFamilyProfile struct {
	Flags        core.QueueFlags `yaml:"flags"`
	QueueCount   uint32          `yaml:"queueCount"`
	Present      bool            `yaml:"present"`
	PresentError string          `yaml:"presentError,omitempty"`
}

// DeviceProfile is everything device selection asks of one device.
// Failed queries keep their error message instead of a value.
type DeviceProfile struct {
	Properties    core.DeviceProperties `yaml:"properties"`
	QueueFamilies []QueueFamilyProfile  `yaml:"queueFamilies,omitempty"`

	Extensions      []string `yaml:"extensions,omitempty"`
	ExtensionsError string   `yaml:"extensionsError,omitempty"`

	Capabilities      core.SurfaceCapabilities `yaml:"capabilities"`
	CapabilitiesError string                   `yaml:"capabilitiesError,omitempty"`

	Formats      []core.SurfaceFormat `yaml:"formats,omitempty"`
	FormatsError string               `yaml:"formatsError,omitempty"`

	PresentModes      []core.PresentMode `yaml:"presentModes,omitempty"`
	PresentModesError string             `yaml:"presentModesError,omitempty"`
}

// Capture queries every device of instance against surface.
func Capture(instance core.Instance, surface core.Surface) ([]DeviceProfile, error) {
	devices, err := instance.PhysicalDevices()
	if err != nil {
		return nil, errors.Wrap(err, "enumerate physical devices")
	}

	profiles := make([]DeviceProfile, 0, len(devices))
	for _, pd := range devices {
		profiles = append(profiles, CaptureDevice(pd, surface))
	}
	return profiles, nil
}

// CaptureDevice queries one device against surface.
func CaptureDevice(pd core.PhysicalDevice, surface core.Surface) DeviceProfile {
	p := DeviceProfile{
		Properties: pd.Properties(),
	}

	for i, family := range pd.QueueFamilies() {
		fp := QueueFamilyProfile{
			Flags:      family.Flags,
			QueueCount: family.QueueCount,
		}
		present, err := surface.SupportsPresent(pd, uint32(i))
		fp.Present = present
		fp.PresentError = message(err)
		p.QueueFamilies = append(p.QueueFamilies, fp)
	}

	var err error
	p.Extensions, err = pd.Extensions()
	p.ExtensionsError = message(err)
	p.Capabilities, err = surface.Capabilities(pd)
	p.CapabilitiesError = message(err)
	p.Formats, err = surface.Formats(pd)
	p.FormatsError = message(err)
	p.PresentModes, err = surface.PresentModes(pd)
	p.PresentModesError = message(err)
	return p
}

func message(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func failure(msg string) error {
	if msg == "" {
		return nil
	}
	return errors.New(msg)
}
