// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

// QueueFamilyAssignment holds the queue families used for graphics
// submission and for presentation. Either may be QueueFamilyIgnored.
type QueueFamilyAssignment struct {
	Graphics uint32
	Present  uint32
}

// UnassignedQueues returns an assignment with neither family set.
func UnassignedQueues() QueueFamilyAssignment {
	return QueueFamilyAssignment{
		Graphics: QueueFamilyIgnored,
		Present:  QueueFamilyIgnored,
	}
}

// IsComplete reports whether both families are assigned.
func (q QueueFamilyAssignment) IsComplete() bool {
	return q.Graphics != QueueFamilyIgnored && q.Present != QueueFamilyIgnored
}

// Shared reports whether one family serves both graphics and presentation.
func (q QueueFamilyAssignment) Shared() bool {
	return q.Graphics == q.Present
}

// Indices returns the distinct assigned families, graphics first.
func (q QueueFamilyAssignment) Indices() []uint32 {
	var indices []uint32
	if q.Graphics != QueueFamilyIgnored {
		indices = append(indices, q.Graphics)
	}
	if q.Present != QueueFamilyIgnored && q.Present != q.Graphics {
		indices = append(indices, q.Present)
	}
	return indices
}

// QueueFamilies finds the first graphics capable queue family and the first
// family able to present to surface. The two are searched independently, so
// they can differ even when one family could do both. The search stops as
// soon as both are found.
func (s *DeviceSelector) QueueFamilies(pd PhysicalDevice, surface Surface) QueueFamilyAssignment {
	assignment := UnassignedQueues()
	for i, family := range pd.QueueFamilies() {
		index := uint32(i)
		if family.Flags&QueueGraphics != 0 && assignment.Graphics == QueueFamilyIgnored {
			assignment.Graphics = index
		}

		supported, err := surface.SupportsPresent(pd, index)
		if err != nil {
			s.logger().WithError(err).WithField("queueFamily", index).Warn("present support query failed")
			supported = false
		}
		if supported && assignment.Present == QueueFamilyIgnored {
			assignment.Present = index
		}

		if assignment.IsComplete() {
			break
		}
	}
	return assignment
}
