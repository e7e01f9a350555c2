// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package device implements the core interfaces on top of Vulkan.
package device

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/devblok/nativevk/core"
	vk "github.com/vulkan-go/vulkan"
)

// Names of the layers and extensions enabled in debug mode
const (
	ValidationLayerName      = "VK_LAYER_KHRONOS_validation"
	DebugReportExtensionName = "VK_EXT_debug_report"
)

// NewInstanceFactory returns a factory that loads Vulkan through procAddr,
// or through the system loader when procAddr is nil.
func NewInstanceFactory(procAddr unsafe.Pointer) core.InstanceFactory {
	return func(cfg core.InstanceConfiguration) (core.Instance, error) {
		instance, err := NewVulkanInstance(procAddr, cfg)
		if err != nil {
			return nil, err
		}
		return instance, nil
	}
}

// NewVulkanInstance creates a Vulkan instance
func NewVulkanInstance(procAddr unsafe.Pointer, cfg core.InstanceConfiguration) (*Instance, error) {
	if cfg.DebugMode {
		cfg.Layers = append(cfg.Layers, ValidationLayerName)
		cfg.Extensions = append(cfg.Extensions, DebugReportExtensionName)
	}

	if procAddr == nil {
		if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
			return nil, errors.Wrap(err, "vk.SetDefaultGetInstanceProcAddr()")
		}
	} else {
		vk.SetGetInstanceProcAddr(procAddr)
	}

	if err := vk.Init(); err != nil {
		return nil, errors.Wrap(err, "vk.Init()")
	}

	appInfo := &vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		ApiVersion:         vk.MakeVersion(1, 0, 0),
		ApplicationVersion: vk.MakeVersion(1, 0, 0),
		PApplicationName:   safeString(cfg.ApplicationName),
		EngineVersion:      vk.MakeVersion(1, 0, 0),
		PEngineName:        safeString(cfg.EngineName),
	}

	instanceInfo := vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo:        appInfo,
		EnabledExtensionCount:   uint32(len(cfg.Extensions)),
		PpEnabledExtensionNames: safeStrings(cfg.Extensions),
		EnabledLayerCount:       uint32(len(cfg.Layers)),
		PpEnabledLayerNames:     safeStrings(cfg.Layers),
	}

	var instance vk.Instance
	if err := vk.Error(vk.CreateInstance(&instanceInfo, nil, &instance)); err != nil {
		return nil, errors.Wrap(err, "vk.CreateInstance()")
	}
	vk.InitInstance(instance)

	return &Instance{
		configuration: cfg,
		instance:      instance,
	}, nil
}

// Instance is a Vulkan API instance
type Instance struct {
	configuration core.InstanceConfiguration

	instance  vk.Instance
	destroyed bool
}

// PhysicalDevices implements interface
func (v *Instance) PhysicalDevices() ([]core.PhysicalDevice, error) {
	var deviceCount uint32
	if err := vk.Error(vk.EnumeratePhysicalDevices(v.instance, &deviceCount, nil)); err != nil {
		return nil, errors.Wrap(err, "vk.EnumeratePhysicalDevices()")
	}
	handles := make([]vk.PhysicalDevice, deviceCount)
	if err := vk.Error(vk.EnumeratePhysicalDevices(v.instance, &deviceCount, handles)); err != nil {
		return nil, errors.Wrap(err, "vk.EnumeratePhysicalDevices()")
	}

	devices := make([]core.PhysicalDevice, 0, deviceCount)
	for _, handle := range handles[:deviceCount] {
		devices = append(devices, &PhysicalDevice{handle: handle})
	}
	return devices, nil
}

// Extensions implements interface
func (v *Instance) Extensions() []string {
	return v.configuration.Extensions
}

// Inner returns the vk.Instance
func (v *Instance) Inner() interface{} {
	return v.instance
}

// Destroy implements interface
func (v *Instance) Destroy() {
	if v.destroyed {
		return
	}
	v.destroyed = true
	vk.DestroyInstance(v.instance, nil)
}

func instanceHandle(instance core.Instance) (vk.Instance, error) {
	handle, ok := instance.Inner().(vk.Instance)
	if !ok {
		return nil, errors.Newf("not a vulkan instance: %T", instance.Inner())
	}
	return handle, nil
}
