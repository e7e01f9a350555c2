// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"github.com/cockroachdb/errors"
	log "github.com/sirupsen/logrus"
)

// SwapchainExtensionName is the device extension every candidate must support.
const SwapchainExtensionName = "VK_KHR_swapchain"

// DeviceSelector evaluates physical devices against a surface and
// picks the best one.
type DeviceSelector struct {
	// RequiredExtensions must all be supported by a device
	RequiredExtensions []string

	// Log receives diagnostics, nil logs to the standard logger
	Log *log.Entry
}

// NewDeviceSelector creates a selector requiring the swapchain extension
// and the configured device extensions.
func NewDeviceSelector(cfg InstanceConfiguration, logger *log.Entry) *DeviceSelector {
	return &DeviceSelector{
		RequiredExtensions: RequiredDeviceExtensions(cfg),
		Log:                logger,
	}
}

// RequiredDeviceExtensions lists the swapchain extension followed by
// the configured device extensions, without duplicates.
func RequiredDeviceExtensions(cfg InstanceConfiguration) []string {
	return mergeNames([]string{SwapchainExtensionName}, cfg.DeviceExtensions)
}

func (s *DeviceSelector) logger() *log.Entry {
	if s.Log == nil {
		return log.NewEntry(log.StandardLogger())
	}
	return s.Log
}

// Selection is the outcome of device selection.
type Selection struct {
	Device PhysicalDevice
	Queues QueueFamilyAssignment
	Score  int
}

// SupportsExtensions checks that every required extension is in the
// device extension list. A failed enumeration counts as an empty list.
func (s *DeviceSelector) SupportsExtensions(pd PhysicalDevice) bool {
	available, err := pd.Extensions()
	if err != nil {
		s.logger().WithError(err).Warn("device extension enumeration failed")
		available = nil
	}

	set := make(map[string]struct{}, len(available))
	for _, ext := range available {
		set[ext] = struct{}{}
	}
	for _, required := range s.RequiredExtensions {
		if _, ok := set[required]; !ok {
			s.logger().WithField("extension", required).Info("missing device extension")
			return false
		}
	}
	return true
}

// IsSuitable checks if the device given is suitable for presenting to
// surface. If not suitable the string contains the reason.
func (s *DeviceSelector) IsSuitable(pd PhysicalDevice, surface Surface) (bool, string) {
	ok, reason, _ := s.evaluate(pd, surface)
	return ok, reason
}

func (s *DeviceSelector) evaluate(pd PhysicalDevice, surface Surface) (bool, string, QueueFamilyAssignment) {
	queues := s.QueueFamilies(pd, surface)
	if !queues.IsComplete() {
		return false, "device lacks required queue families (graphics/present)", queues
	}

	if !s.SupportsExtensions(pd) {
		return false, "device lacks required extensions", queues
	}

	formats, err := surface.Formats(pd)
	if err != nil {
		s.logger().WithError(err).Warn("surface format enumeration failed")
	}
	modes, err := surface.PresentModes(pd)
	if err != nil {
		s.logger().WithError(err).Warn("present mode enumeration failed")
	}
	if len(formats) == 0 || len(modes) == 0 {
		return false, "device has no usable swapchain formats or present modes", queues
	}

	return true, "", queues
}

// RateDevice scores a suitable device, higher is better. Discrete GPUs
// get 1000, and every 1024 pixels of maximum 2D image size adds one.
func RateDevice(props DeviceProperties) int {
	score := 0
	if props.Type == DeviceTypeDiscreteGPU {
		score += 1000
	}
	score += int(props.MaxImageDimension2D / 1024)
	return score
}

// Select evaluates devices in the given order and returns the suitable one
// with the highest score. Ties go to the device enumerated first.
// ErrNoSuitableDevice is returned when no device passes, including when
// there are no devices at all.
func (s *DeviceSelector) Select(devices []PhysicalDevice, surface Surface) (Selection, error) {
	if len(devices) == 0 {
		s.logger().Warn("no vulkan capable GPUs found")
		return Selection{}, errors.Mark(ErrNoPhysicalDevices, ErrNoSuitableDevice)
	}

	best := Selection{Score: -1}
	for i, pd := range devices {
		props := pd.Properties()
		entry := s.logger().WithFields(log.Fields{
			"index":  i,
			"device": props.Name,
			"type":   props.Type,
		})

		ok, reason, queues := s.evaluate(pd, surface)
		if !ok {
			entry.WithField("reason", reason).Info("device rejected")
			continue
		}

		score := RateDevice(props)
		entry.WithField("score", score).Debug("device rated")
		if score > best.Score {
			best = Selection{
				Device: pd,
				Queues: queues,
				Score:  score,
			}
		}
	}

	if best.Device == nil {
		s.logger().Error("no suitable GPU found")
		return Selection{}, ErrNoSuitableDevice
	}

	s.logger().WithFields(log.Fields{
		"device":   best.Device.Properties().Name,
		"score":    best.Score,
		"graphics": best.Queues.Graphics,
		"present":  best.Queues.Present,
	}).Info("chosen GPU")
	return best, nil
}

// SelectFrom enumerates the instance devices and selects among them.
func (s *DeviceSelector) SelectFrom(instance Instance, surface Surface) (Selection, error) {
	devices, err := instance.PhysicalDevices()
	if err != nil {
		return Selection{}, errors.Wrap(err, "enumerate physical devices")
	}
	return s.Select(devices, surface)
}
