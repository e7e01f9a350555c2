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

// PhysicalDevice queries a Vulkan physical device on demand.
type PhysicalDevice struct {
	handle vk.PhysicalDevice
}

// Handle returns the vk.PhysicalDevice
func (p *PhysicalDevice) Handle() vk.PhysicalDevice {
	return p.handle
}

// Properties implements interface
func (p *PhysicalDevice) Properties() core.DeviceProperties {
	var props vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(p.handle, &props)
	props.Deref()
	props.Limits.Deref()

	return core.DeviceProperties{
		Name:                vk.ToString(props.DeviceName[:]),
		Type:                core.DeviceType(props.DeviceType),
		VendorID:            props.VendorID,
		DeviceID:            props.DeviceID,
		DriverVersion:       props.DriverVersion,
		APIVersion:          props.ApiVersion,
		MaxImageDimension2D: props.Limits.MaxImageDimension2D,
	}
}

// QueueFamilies implements interface
func (p *PhysicalDevice) QueueFamilies() []core.QueueFamily {
	var count uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(p.handle, &count, nil)
	properties := make([]vk.QueueFamilyProperties, count)
	vk.GetPhysicalDeviceQueueFamilyProperties(p.handle, &count, properties)

	families := make([]core.QueueFamily, 0, count)
	for _, family := range properties[:count] {
		family.Deref()
		families = append(families, core.QueueFamily{
			Flags:      core.QueueFlags(family.QueueFlags),
			QueueCount: family.QueueCount,
		})
	}
	return families
}

// Extensions implements interface
func (p *PhysicalDevice) Extensions() ([]string, error) {
	var count uint32
	if err := vk.Error(vk.EnumerateDeviceExtensionProperties(p.handle, "", &count, nil)); err != nil {
		return nil, errors.Wrap(err, "vk.EnumerateDeviceExtensionProperties()")
	}
	properties := make([]vk.ExtensionProperties, count)
	if err := vk.Error(vk.EnumerateDeviceExtensionProperties(p.handle, "", &count, properties)); err != nil {
		return nil, errors.Wrap(err, "vk.EnumerateDeviceExtensionProperties()")
	}

	extensions := make([]string, 0, count)
	for _, ext := range properties[:count] {
		ext.Deref()
		extensions = append(extensions, vk.ToString(ext.ExtensionName[:]))
	}
	return extensions, nil
}

func physical(pd core.PhysicalDevice) (*PhysicalDevice, error) {
	dev, ok := pd.(*PhysicalDevice)
	if !ok {
		return nil, errors.Newf("not a vulkan physical device: %T", pd)
	}
	return dev, nil
}
