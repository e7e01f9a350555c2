// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	qt "github.com/frankban/quicktest"

	"github.com/devblok/nativevk/core"
	"github.com/devblok/nativevk/profile"
)

func newSelector() *core.DeviceSelector {
	logger, _ := newTestLogger()
	return &core.DeviceSelector{
		RequiredExtensions: []string{core.SwapchainExtensionName},
		Log:                logger,
	}
}

func TestRateDevice(t *testing.T) {
	c := qt.New(t)

	c.Assert(core.RateDevice(core.DeviceProperties{Type: core.DeviceTypeDiscreteGPU, MaxImageDimension2D: 4096}), qt.Equals, 1004)
	c.Assert(core.RateDevice(core.DeviceProperties{Type: core.DeviceTypeIntegratedGPU, MaxImageDimension2D: 16384}), qt.Equals, 16)
	c.Assert(core.RateDevice(core.DeviceProperties{Type: core.DeviceTypeCPU, MaxImageDimension2D: 1023}), qt.Equals, 0)
}

func TestIsSuitable(t *testing.T) {
	noSwapchain := gpu("no swapchain", core.DeviceTypeDiscreteGPU, 4096)
	noSwapchain.Extensions = []string{"VK_KHR_maintenance1"}

	extensionsFail := gpu("extensions fail", core.DeviceTypeDiscreteGPU, 4096)
	extensionsFail.ExtensionsError = "VK_ERROR_OUT_OF_HOST_MEMORY"

	noPresent := gpu("no present", core.DeviceTypeDiscreteGPU, 4096)
	noPresent.QueueFamilies = []profile.QueueFamilyProfile{family(core.QueueGraphics, false)}

	noFormats := gpu("no formats", core.DeviceTypeDiscreteGPU, 4096)
	noFormats.Formats = nil

	noModes := gpu("no modes", core.DeviceTypeDiscreteGPU, 4096)
	noModes.PresentModesError = "VK_ERROR_SURFACE_LOST_KHR"

	badCapabilities := gpu("bad capabilities", core.DeviceTypeDiscreteGPU, 4096)
	badCapabilities.CapabilitiesError = "VK_ERROR_SURFACE_LOST_KHR"

	tests := []struct {
		device profile.DeviceProfile
		ok     bool
		reason string
	}{
		{gpu("fine", core.DeviceTypeIntegratedGPU, 4096), true, ""},
		{noSwapchain, false, "device lacks required extensions"},
		{extensionsFail, false, "device lacks required extensions"},
		{noPresent, false, "device lacks required queue families (graphics/present)"},
		{noFormats, false, "device has no usable swapchain formats or present modes"},
		{noModes, false, "device has no usable swapchain formats or present modes"},
		{badCapabilities, true, ""},
	}

	for _, test := range tests {
		t.Run(test.device.Properties.Name, func(t *testing.T) {
			c := qt.New(t)
			pd := devices(profile.NewInstance(test.device))[0]

			ok, reason := newSelector().IsSuitable(pd, &profile.Surface{})
			c.Assert(ok, qt.Equals, test.ok)
			c.Assert(reason, qt.Equals, test.reason)
		})
	}
}

func TestSelectHighestScore(t *testing.T) {
	c := qt.New(t)

	instance := profile.NewInstance(
		gpu("A", core.DeviceTypeIntegratedGPU, 16384),
		gpu("B", core.DeviceTypeDiscreteGPU, 5120),
		gpu("C", core.DeviceTypeDiscreteGPU, 3072),
	)

	selection, err := newSelector().Select(devices(instance), &profile.Surface{})
	c.Assert(err, qt.IsNil)
	c.Assert(selection.Device.Properties().Name, qt.Equals, "B")
	c.Assert(selection.Score, qt.Equals, 1005)
	c.Assert(selection.Queues, qt.Equals, core.QueueFamilyAssignment{Graphics: 0, Present: 0})
}

func TestSelectHighestScoreReversed(t *testing.T) {
	c := qt.New(t)

	instance := profile.NewInstance(
		gpu("C", core.DeviceTypeDiscreteGPU, 3072),
		gpu("A", core.DeviceTypeIntegratedGPU, 16384),
		gpu("B", core.DeviceTypeDiscreteGPU, 5120),
	)

	selection, err := newSelector().Select(devices(instance), &profile.Surface{})
	c.Assert(err, qt.IsNil)
	c.Assert(selection.Device.Properties().Name, qt.Equals, "B")
	c.Assert(selection.Score, qt.Equals, 1005)
}

func TestSelectTieGoesToFirst(t *testing.T) {
	c := qt.New(t)

	instance := profile.NewInstance(
		gpu("first", core.DeviceTypeDiscreteGPU, 1000),
		gpu("second", core.DeviceTypeDiscreteGPU, 1000),
	)

	selection, err := newSelector().Select(devices(instance), &profile.Surface{})
	c.Assert(err, qt.IsNil)
	c.Assert(selection.Device.Properties().Name, qt.Equals, "first")
	c.Assert(selection.Score, qt.Equals, 1000)
}

func TestSelectZeroScoreIsSelectable(t *testing.T) {
	c := qt.New(t)

	instance := profile.NewInstance(gpu("cpu", core.DeviceTypeCPU, 512))

	selection, err := newSelector().Select(devices(instance), &profile.Surface{})
	c.Assert(err, qt.IsNil)
	c.Assert(selection.Score, qt.Equals, 0)
}

func TestSelectSkipsUnsuitable(t *testing.T) {
	c := qt.New(t)

	big := gpu("big", core.DeviceTypeDiscreteGPU, 32768)
	big.Extensions = nil

	logger, hook := newTestLogger()
	selector := &core.DeviceSelector{
		RequiredExtensions: []string{core.SwapchainExtensionName},
		Log:                logger,
	}
	instance := profile.NewInstance(big, gpu("small", core.DeviceTypeIntegratedGPU, 4096))

	selection, err := selector.Select(devices(instance), &profile.Surface{})
	c.Assert(err, qt.IsNil)
	c.Assert(selection.Device.Properties().Name, qt.Equals, "small")

	var rejected, chosen bool
	for _, entry := range hook.AllEntries() {
		switch entry.Message {
		case "device rejected":
			rejected = entry.Data["device"] == "big"
		case "chosen GPU":
			chosen = entry.Data["device"] == "small"
		}
	}
	c.Assert(rejected, qt.IsTrue)
	c.Assert(chosen, qt.IsTrue)
}

func TestSelectNoneSuitable(t *testing.T) {
	c := qt.New(t)

	first := gpu("first", core.DeviceTypeDiscreteGPU, 4096)
	first.Extensions = nil
	second := gpu("second", core.DeviceTypeDiscreteGPU, 4096)
	second.PresentModes = nil

	_, err := newSelector().Select(devices(profile.NewInstance(first, second)), &profile.Surface{})
	c.Assert(errors.Is(err, core.ErrNoSuitableDevice), qt.IsTrue)
}

func TestSelectNoDevices(t *testing.T) {
	c := qt.New(t)

	_, err := newSelector().Select(nil, &profile.Surface{})
	c.Assert(errors.Is(err, core.ErrNoSuitableDevice), qt.IsTrue)
	c.Assert(errors.Is(err, core.ErrNoPhysicalDevices), qt.IsTrue)
}

func TestSelectFromEnumerationFailure(t *testing.T) {
	c := qt.New(t)

	instance := profile.NewInstance(gpu("any", core.DeviceTypeDiscreteGPU, 4096))
	instance.EnumerateErr = errors.New("VK_ERROR_INITIALIZATION_FAILED")

	_, err := newSelector().SelectFrom(instance, &profile.Surface{})
	c.Assert(err, qt.ErrorMatches, "enumerate physical devices: VK_ERROR_INITIALIZATION_FAILED")
}

func TestNewDeviceSelector(t *testing.T) {
	c := qt.New(t)

	cfg := defaultConfiguration()
	selector := core.NewDeviceSelector(cfg.Instance, nil)
	c.Assert(selector.RequiredExtensions, qt.DeepEquals, []string{core.SwapchainExtensionName})

	// a nil logger goes to the standard logger
	selection, err := selector.SelectFrom(profile.NewInstance(gpu("any", core.DeviceTypeOther, 2048)), &profile.Surface{})
	c.Assert(err, qt.IsNil)
	c.Assert(selection.Score, qt.Equals, 2)
}

func BenchmarkSelect(b *testing.B) {
	profiles := make([]profile.DeviceProfile, 0, 8)
	for i := 0; i < 8; i++ {
		profiles = append(profiles, gpu("bench", core.DeviceTypeIntegratedGPU, uint32(i)*1024))
	}
	pds := devices(profile.NewInstance(profiles...))
	selector := newSelector()
	surface := &profile.Surface{}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := selector.Select(pds, surface); err != nil {
			b.Fatal(err)
		}
	}
}
