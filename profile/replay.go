// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package profile

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/devblok/nativevk/core"
)

// NewInstance returns an instance whose physical devices answer
// from profiles, in order.
func NewInstance(profiles ...DeviceProfile) *Instance {
	return &Instance{Profiles: profiles}
}

// Instance replays device profiles. The error fields fail the matching
// call, so startup failures can be reproduced.
type Instance struct {
	Profiles []DeviceProfile

	InstanceErr  error
	EnumerateErr error
	DeviceErr    error

	// QueueErr and SwapchainErr are handed to every logical device created
	QueueErr     error
	SwapchainErr error

	// Config is what the factory was called with
	Config core.InstanceConfiguration

	// Devices are the logical devices created so far
	Devices []*LogicalDevice

	mu        sync.Mutex
	destroyed bool
}

// Factory returns a core.InstanceFactory handing out this instance,
// revived if it was destroyed.
func (i *Instance) Factory() core.InstanceFactory {
	return func(cfg core.InstanceConfiguration) (core.Instance, error) {
		if i.InstanceErr != nil {
			return nil, i.InstanceErr
		}
		i.mu.Lock()
		defer i.mu.Unlock()
		i.Config = cfg
		i.destroyed = false
		return i, nil
	}
}

// PhysicalDevices implements interface
func (i *Instance) PhysicalDevices() ([]core.PhysicalDevice, error) {
	if i.EnumerateErr != nil {
		return nil, i.EnumerateErr
	}
	devices := make([]core.PhysicalDevice, 0, len(i.Profiles))
	for n := range i.Profiles {
		devices = append(devices, &PhysicalDevice{Profile: &i.Profiles[n]})
	}
	return devices, nil
}

// CreateLogicalDevice implements interface
func (i *Instance) CreateLogicalDevice(pd core.PhysicalDevice, queues core.QueueFamilyAssignment, extensions []string) (core.LogicalDevice, error) {
	if i.DeviceErr != nil {
		return nil, i.DeviceErr
	}
	dev, err := replayed(pd)
	if err != nil {
		return nil, err
	}

	supported := make(map[string]struct{}, len(dev.Profile.Extensions))
	for _, ext := range dev.Profile.Extensions {
		supported[ext] = struct{}{}
	}
	for _, ext := range extensions {
		if _, ok := supported[ext]; !ok {
			return nil, errors.Newf("extension %s not present", ext)
		}
	}

	families := queues.Indices()
	if len(families) == 0 {
		return nil, core.ErrIncompleteQueues
	}
	for _, family := range families {
		if int(family) >= len(dev.Profile.QueueFamilies) {
			return nil, errors.Newf("queue family %d out of range", family)
		}
	}

	device := &LogicalDevice{
		Profile:      dev.Profile,
		Families:     families,
		Extensions:   extensions,
		QueueErr:     i.QueueErr,
		SwapchainErr: i.SwapchainErr,
	}
	i.mu.Lock()
	i.Devices = append(i.Devices, device)
	i.mu.Unlock()
	return device, nil
}

// Extensions implements interface
func (i *Instance) Extensions() []string {
	return i.Config.Extensions
}

// Inner returns the profiles
func (i *Instance) Inner() interface{} {
	return i.Profiles
}

// Destroyed reports whether Destroy was called
func (i *Instance) Destroyed() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.destroyed
}

// Destroy implements interface
func (i *Instance) Destroy() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.destroyed = true
}

// PhysicalDevice answers from one profile.
type PhysicalDevice struct {
	Profile *DeviceProfile
}

// Properties implements interface
func (p *PhysicalDevice) Properties() core.DeviceProperties {
	return p.Profile.Properties
}

// QueueFamilies implements interface
func (p *PhysicalDevice) QueueFamilies() []core.QueueFamily {
	families := make([]core.QueueFamily, 0, len(p.Profile.QueueFamilies))
	for _, family := range p.Profile.QueueFamilies {
		families = append(families, core.QueueFamily{
			Flags:      family.Flags,
			QueueCount: family.QueueCount,
		})
	}
	return families
}

// Extensions implements interface
func (p *PhysicalDevice) Extensions() ([]string, error) {
	if err := failure(p.Profile.ExtensionsError); err != nil {
		return nil, err
	}
	return p.Profile.Extensions, nil
}

func replayed(pd core.PhysicalDevice) (*PhysicalDevice, error) {
	dev, ok := pd.(*PhysicalDevice)
	if !ok {
		return nil, errors.Newf("not a replayed physical device: %T", pd)
	}
	return dev, nil
}

// Surface answers surface queries from the profile of the device asked about.
// It counts present support queries.
type Surface struct {
	mu             sync.Mutex
	presentQueries int
	destroyed      bool
}

// SupportsPresent implements interface
func (s *Surface) SupportsPresent(pd core.PhysicalDevice, queueFamily uint32) (bool, error) {
	s.mu.Lock()
	s.presentQueries++
	s.mu.Unlock()

	dev, err := replayed(pd)
	if err != nil {
		return false, err
	}
	if int(queueFamily) >= len(dev.Profile.QueueFamilies) {
		return false, errors.Newf("queue family %d out of range", queueFamily)
	}
	family := dev.Profile.QueueFamilies[queueFamily]
	if err := failure(family.PresentError); err != nil {
		return false, err
	}
	return family.Present, nil
}

// Capabilities implements interface
func (s *Surface) Capabilities(pd core.PhysicalDevice) (core.SurfaceCapabilities, error) {
	dev, err := replayed(pd)
	if err != nil {
		return core.SurfaceCapabilities{}, err
	}
	if err := failure(dev.Profile.CapabilitiesError); err != nil {
		return core.SurfaceCapabilities{}, err
	}
	return dev.Profile.Capabilities, nil
}

// Formats implements interface
func (s *Surface) Formats(pd core.PhysicalDevice) ([]core.SurfaceFormat, error) {
	dev, err := replayed(pd)
	if err != nil {
		return nil, err
	}
	if err := failure(dev.Profile.FormatsError); err != nil {
		return nil, err
	}
	return dev.Profile.Formats, nil
}

// PresentModes implements interface
func (s *Surface) PresentModes(pd core.PhysicalDevice) ([]core.PresentMode, error) {
	dev, err := replayed(pd)
	if err != nil {
		return nil, err
	}
	if err := failure(dev.Profile.PresentModesError); err != nil {
		return nil, err
	}
	return dev.Profile.PresentModes, nil
}

// PresentQueries returns how many present support queries were made
func (s *Surface) PresentQueries() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.presentQueries
}

// Inner returns nil, there is no native surface
func (s *Surface) Inner() interface{} {
	return nil
}

// Destroyed reports whether Destroy was called
func (s *Surface) Destroyed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.destroyed
}

// Destroy implements interface
func (s *Surface) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.destroyed = true
}

// Window hands out a replay surface.
type Window struct {
	Extensions []string
	SurfaceErr error

	// Surface is the last surface created
	Surface *Surface
}

// InstanceExtensions implements interface
func (w *Window) InstanceExtensions() []string {
	return w.Extensions
}

// CreateSurface implements interface
func (w *Window) CreateSurface(instance core.Instance) (core.Surface, error) {
	if w.SurfaceErr != nil {
		return nil, w.SurfaceErr
	}
	w.Surface = &Surface{}
	return w.Surface, nil
}

// LogicalDevice is a replayed logical device.
type LogicalDevice struct {
	Profile    *DeviceProfile
	Families   []uint32
	Extensions []string

	// QueueErr and SwapchainErr fail the matching calls
	QueueErr     error
	SwapchainErr error

	// Swapchains are the swapchains created so far
	Swapchains []*Swapchain

	mu        sync.Mutex
	destroyed bool
}

// Queue implements interface
func (d *LogicalDevice) Queue(family uint32) (core.Queue, error) {
	if d.QueueErr != nil {
		return nil, d.QueueErr
	}
	for _, f := range d.Families {
		if f == family {
			return &Queue{family: family}, nil
		}
	}
	return nil, errors.Newf("no queue created for family %d", family)
}

// CreateSwapchain implements interface
func (d *LogicalDevice) CreateSwapchain(surface core.Surface, cfg core.SwapchainConfig) (core.Swapchain, error) {
	if d.SwapchainErr != nil {
		return nil, d.SwapchainErr
	}
	images := int(cfg.ImageCount())
	if max := d.Profile.Capabilities.MaxImageCount; max > 0 && images > int(max) {
		return nil, errors.Newf("%d images requested, surface allows %d", images, max)
	}
	swapchain := &Swapchain{config: cfg, images: images}
	d.mu.Lock()
	d.Swapchains = append(d.Swapchains, swapchain)
	d.mu.Unlock()
	return swapchain, nil
}

// Inner returns the profile of the device
func (d *LogicalDevice) Inner() interface{} {
	return d.Profile
}

// Destroyed reports whether Destroy was called
func (d *LogicalDevice) Destroyed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.destroyed
}

// Destroy implements interface
func (d *LogicalDevice) Destroy() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.destroyed = true
}

// Queue is a replayed device queue
type Queue struct {
	family uint32
}

// Family implements interface
func (q *Queue) Family() uint32 {
	return q.family
}

// Inner returns the family index
func (q *Queue) Inner() interface{} {
	return q.family
}

// Swapchain is a replayed swapchain
type Swapchain struct {
	config    core.SwapchainConfig
	images    int
	destroyed bool
}

// Config implements interface
func (s *Swapchain) Config() core.SwapchainConfig {
	return s.config
}

// ImageCount implements interface
func (s *Swapchain) ImageCount() int {
	return s.images
}

// Destroyed reports whether Destroy was called
func (s *Swapchain) Destroyed() bool {
	return s.destroyed
}

// Destroy implements interface
func (s *Swapchain) Destroy() {
	s.destroyed = true
}
