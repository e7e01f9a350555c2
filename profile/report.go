// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package profile

import (
	"github.com/cockroachdb/errors"
	"github.com/devblok/nativevk/core"
	log "github.com/sirupsen/logrus"
)

// DeviceReport is the verdict on one device
type DeviceReport struct {
	Properties core.DeviceProperties `json:"properties" yaml:"properties"`
	Suitable   bool                  `json:"suitable" yaml:"suitable"`
	Reason     string                `json:"reason,omitempty" yaml:"reason,omitempty"`
	Score      int                   `json:"score" yaml:"score"`

	// queue family indices, -1 when none was found
	Graphics int64 `json:"graphics" yaml:"graphics"`
	Present  int64 `json:"present" yaml:"present"`
}

// SwapchainReport lists negotiated swapchain parameters
type SwapchainReport struct {
	Format         core.SurfaceFormat         `json:"format" yaml:"format"`
	PresentMode    core.PresentMode           `json:"presentMode" yaml:"presentMode"`
	Extent         core.Extent2D              `json:"extent" yaml:"extent"`
	ImageCount     uint32                     `json:"imageCount" yaml:"imageCount"`
	Sharing        string                     `json:"sharing" yaml:"sharing"`
	QueueFamilies  []uint32                   `json:"queueFamilies,omitempty" yaml:"queueFamilies,omitempty"`
	PreTransform   core.SurfaceTransformFlags `json:"preTransform" yaml:"preTransform"`
	CompositeAlpha core.CompositeAlphaFlags   `json:"compositeAlpha" yaml:"compositeAlpha"`
}

// Report is what selection and negotiation make of a set of devices
type Report struct {
	Devices   []DeviceReport   `json:"devices" yaml:"devices"`
	Chosen    string           `json:"chosen,omitempty" yaml:"chosen,omitempty"`
	Swapchain *SwapchainReport `json:"swapchain,omitempty" yaml:"swapchain,omitempty"`
	Error     string           `json:"error,omitempty" yaml:"error,omitempty"`
}

// Evaluate runs device selection and swapchain negotiation over the
// devices of instance the same way startup does, and reports every step.
// Only enumeration failures are returned, the rest goes into the report.
func Evaluate(instance core.Instance, surface core.Surface, cfg core.Configuration, logger *log.Entry) (Report, error) {
	devices, err := instance.PhysicalDevices()
	if err != nil {
		return Report{}, errors.Wrap(err, "enumerate physical devices")
	}

	selector := core.NewDeviceSelector(cfg.Instance, logger)
	report := Report{Devices: make([]DeviceReport, 0, len(devices))}
	for _, pd := range devices {
		props := pd.Properties()
		queues := selector.QueueFamilies(pd, surface)
		ok, reason := selector.IsSuitable(pd, surface)
		dr := DeviceReport{
			Properties: props,
			Suitable:   ok,
			Reason:     reason,
			Graphics:   familyIndex(queues.Graphics),
			Present:    familyIndex(queues.Present),
		}
		if ok {
			dr.Score = core.RateDevice(props)
		}
		report.Devices = append(report.Devices, dr)
	}

	selection, err := selector.Select(devices, surface)
	if err != nil {
		report.Error = err.Error()
		return report, nil
	}
	report.Chosen = selection.Device.Properties().Name

	sc, err := core.NegotiateSwapchain(selection.Device, surface, selection.Queues, cfg.Swapchain)
	if err != nil {
		report.Error = err.Error()
		return report, nil
	}
	report.Swapchain = &SwapchainReport{
		Format:         sc.Format(),
		PresentMode:    sc.PresentMode(),
		Extent:         sc.Extent(),
		ImageCount:     sc.ImageCount(),
		Sharing:        sc.SharingMode().String(),
		QueueFamilies:  sc.QueueFamilyIndices(),
		PreTransform:   sc.PreTransform(),
		CompositeAlpha: sc.CompositeAlpha(),
	}
	return report, nil
}

func familyIndex(family uint32) int64 {
	if family == core.QueueFamilyIgnored {
		return -1
	}
	return int64(family)
}
