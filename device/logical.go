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

// CreateLogicalDevice implements interface
func (v *Instance) CreateLogicalDevice(pd core.PhysicalDevice, queues core.QueueFamilyAssignment, extensions []string) (core.LogicalDevice, error) {
	dev, err := physical(pd)
	if err != nil {
		return nil, err
	}
	if !queues.IsComplete() {
		return nil, core.ErrIncompleteQueues
	}

	families := queues.Indices()
	queueInfos := make([]vk.DeviceQueueCreateInfo, 0, len(families))
	for _, family := range families {
		queueInfos = append(queueInfos, vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: family,
			QueueCount:       1,
			PQueuePriorities: []float32{1.0},
		})
	}

	dci := vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: safeStrings(extensions),
	}

	var device vk.Device
	if err := vk.Error(vk.CreateDevice(dev.handle, &dci, nil, &device)); err != nil {
		return nil, errors.Wrap(err, "vk.CreateDevice()")
	}

	created := make(map[uint32]struct{}, len(families))
	for _, family := range families {
		created[family] = struct{}{}
	}

	return &LogicalDevice{
		device:   device,
		families: created,
	}, nil
}

// LogicalDevice is a created Vulkan device
type LogicalDevice struct {
	device    vk.Device
	families  map[uint32]struct{}
	destroyed bool
}

// Queue implements interface
func (d *LogicalDevice) Queue(family uint32) (core.Queue, error) {
	if _, ok := d.families[family]; !ok {
		return nil, errors.Newf("no queue was created for family %d", family)
	}
	var queue vk.Queue
	vk.GetDeviceQueue(d.device, family, 0, &queue)
	return &Queue{
		family: family,
		queue:  queue,
	}, nil
}

// Inner returns the vk.Device
func (d *LogicalDevice) Inner() interface{} {
	return d.device
}

// Destroy implements interface
func (d *LogicalDevice) Destroy() {
	if d.destroyed {
		return
	}
	d.destroyed = true
	vk.DeviceWaitIdle(d.device)
	vk.DestroyDevice(d.device, nil)
}

// Queue is a device queue
type Queue struct {
	family uint32
	queue  vk.Queue
}

// Family implements interface
func (q *Queue) Family() uint32 {
	return q.family
}

// Inner returns the vk.Queue
func (q *Queue) Inner() interface{} {
	return q.queue
}
