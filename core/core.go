// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package core holds the backend independent part of the Vulkan bootstrap:
// queue family resolution, physical device selection, swapchain parameter
// negotiation and the startup sequence that strings them together.
// The graphics API itself is reached only through the interfaces below.
package core

// Destroyable is anything that owns backend resources.
type Destroyable interface {
	// Destroy releases the resources. Calling it twice is harmless.
	Destroy()
}

// Instance describes a graphics API instance.
// Once created it is ready to use.
type Instance interface {
	Destroyable

	// PhysicalDevices enumerates the devices in backend order.
	// Every call enumerates afresh.
	PhysicalDevices() ([]PhysicalDevice, error)

	// CreateLogicalDevice creates a device on pd with one queue for every
	// family in queues and the given device extensions enabled.
	CreateLogicalDevice(pd PhysicalDevice, queues QueueFamilyAssignment, extensions []string) (LogicalDevice, error)

	// Extensions returns the enabled instance extensions
	Extensions() []string

	// Inner returns the inner handle of the underlying API
	Inner() interface{}
}

// InstanceFactory creates an Instance from configuration.
type InstanceFactory func(cfg InstanceConfiguration) (Instance, error)

// PhysicalDevice is a graphics capable device candidate. It is owned by
// the backend, core only holds it while evaluating.
type PhysicalDevice interface {
	// Properties returns general device info
	Properties() DeviceProperties

	// QueueFamilies returns queue families in backend order
	QueueFamilies() []QueueFamily

	// Extensions enumerates the supported device extensions
	Extensions() ([]string, error)
}

// Surface is a presentation target created for a window.
type Surface interface {
	Destroyable

	// SupportsPresent reports whether the queue family can present to the surface
	SupportsPresent(pd PhysicalDevice, queueFamily uint32) (bool, error)

	// Capabilities queries the swapchain limits of pd for this surface
	Capabilities(pd PhysicalDevice) (SurfaceCapabilities, error)

	// Formats queries the surface formats pd supports for this surface
	Formats(pd PhysicalDevice) ([]SurfaceFormat, error)

	// PresentModes queries the present modes pd supports for this surface
	PresentModes(pd PhysicalDevice) ([]PresentMode, error)

	// Inner returns the inner handle of the underlying API
	Inner() interface{}
}

// Window is a native window handed over by the host.
type Window interface {
	// InstanceExtensions lists the instance extensions needed to create a surface
	InstanceExtensions() []string

	// CreateSurface creates a presentation surface on the instance
	CreateSurface(instance Instance) (Surface, error)
}

// LogicalDevice is a created device with its queues.
type LogicalDevice interface {
	Destroyable

	// Queue returns the first queue of the family
	Queue(family uint32) (Queue, error)

	// CreateSwapchain creates a swapchain for surface as described by cfg
	CreateSwapchain(surface Surface, cfg SwapchainConfig) (Swapchain, error)

	// Inner returns the inner handle of the underlying API
	Inner() interface{}
}

// Queue is a device queue.
type Queue interface {
	Family() uint32
	Inner() interface{}
}

// Swapchain is a created swapchain.
type Swapchain interface {
	Destroyable

	// Config returns the parameters the swapchain was created with
	Config() SwapchainConfig

	// ImageCount returns the number of images the backend actually created
	ImageCount() int
}
