// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// QueueFamilyIgnored marks a queue family index that has not been assigned.
// It matches VK_QUEUE_FAMILY_IGNORED, so it can never be a valid index.
const QueueFamilyIgnored = ^uint32(0)

// undefinedExtent is what a surface reports as its current extent when
// the swapchain decides the size.
const undefinedExtent = ^uint32(0)

// QueueFlags are the capability bits of a queue family.
type QueueFlags uint32

// Queue capability bits
const (
	QueueGraphics QueueFlags = 1 << iota
	QueueCompute
	QueueTransfer
	QueueSparseBinding
)

// QueueFamily describes one queue family of a physical device.
type QueueFamily struct {
	Flags      QueueFlags `yaml:"flags"`
	QueueCount uint32     `yaml:"queueCount"`
}

// DeviceType is the kind of a physical device.
type DeviceType int32

// Physical device types, numbered as in Vulkan
const (
	DeviceTypeOther DeviceType = iota
	DeviceTypeIntegratedGPU
	DeviceTypeDiscreteGPU
	DeviceTypeVirtualGPU
	DeviceTypeCPU
)

var deviceTypeNames = map[DeviceType]string{
	DeviceTypeOther:         "other",
	DeviceTypeIntegratedGPU: "integrated_gpu",
	DeviceTypeDiscreteGPU:   "discrete_gpu",
	DeviceTypeVirtualGPU:    "virtual_gpu",
	DeviceTypeCPU:           "cpu",
}

func (t DeviceType) String() string {
	if name, ok := deviceTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("DeviceType(%d)", int32(t))
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *DeviceType) UnmarshalText(text []byte) error {
	for k, v := range deviceTypeNames {
		if v == strings.ToLower(string(text)) {
			*t = k
			return nil
		}
	}
	n, err := parseNumber(text)
	if err != nil {
		return errors.Newf("unknown device type %q", text)
	}
	*t = DeviceType(n)
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (t DeviceType) MarshalText() ([]byte, error) {
	if name, ok := deviceTypeNames[t]; ok {
		return []byte(name), nil
	}
	return []byte(strconv.Itoa(int(t))), nil
}

// DeviceProperties are the general properties of a physical device.
type DeviceProperties struct {
	Name                string     `yaml:"name" json:"name"`
	Type                DeviceType `yaml:"type" json:"type"`
	VendorID            uint32     `yaml:"vendorId" json:"vendorId"`
	DeviceID            uint32     `yaml:"deviceId" json:"deviceId"`
	DriverVersion       uint32     `yaml:"driverVersion" json:"driverVersion"`
	APIVersion          uint32     `yaml:"apiVersion" json:"apiVersion"`
	MaxImageDimension2D uint32     `yaml:"maxImageDimension2D" json:"maxImageDimension2D"`
}

// Format is an image format, numbered as VkFormat.
type Format int32

// Formats that the negotiator and configuration know by name.
const (
	FormatUndefined     Format = 0
	FormatR8G8B8A8Unorm Format = 37
	FormatR8G8B8A8Srgb  Format = 43
	FormatB8G8R8A8Unorm Format = 44
	FormatB8G8R8A8Srgb  Format = 50
	FormatR5G6B5Unorm   Format = 4
)

var formatNames = map[Format]string{
	FormatUndefined:     "undefined",
	FormatR8G8B8A8Unorm: "r8g8b8a8_unorm",
	FormatR8G8B8A8Srgb:  "r8g8b8a8_srgb",
	FormatB8G8R8A8Unorm: "b8g8r8a8_unorm",
	FormatB8G8R8A8Srgb:  "b8g8r8a8_srgb",
	FormatR5G6B5Unorm:   "r5g6b5_unorm",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Format(%d)", int32(f))
}

// UnmarshalText implements encoding.TextUnmarshaler
func (f *Format) UnmarshalText(text []byte) error {
	for k, v := range formatNames {
		if v == strings.ToLower(string(text)) {
			*f = k
			return nil
		}
	}
	n, err := parseNumber(text)
	if err != nil {
		return errors.Newf("unknown format %q", text)
	}
	*f = Format(n)
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (f Format) MarshalText() ([]byte, error) {
	if name, ok := formatNames[f]; ok {
		return []byte(name), nil
	}
	return []byte(strconv.Itoa(int(f))), nil
}

// ColorSpace is a presentation colour space, numbered as VkColorSpaceKHR.
type ColorSpace int32

// ColorSpaceSRGBNonlinear is the only colour space every surface supports.
const ColorSpaceSRGBNonlinear ColorSpace = 0

func (c ColorSpace) String() string {
	if c == ColorSpaceSRGBNonlinear {
		return "srgb_nonlinear"
	}
	return fmt.Sprintf("ColorSpace(%d)", int32(c))
}

// UnmarshalText implements encoding.TextUnmarshaler
func (c *ColorSpace) UnmarshalText(text []byte) error {
	if strings.ToLower(string(text)) == "srgb_nonlinear" {
		*c = ColorSpaceSRGBNonlinear
		return nil
	}
	n, err := parseNumber(text)
	if err != nil {
		return errors.Newf("unknown colour space %q", text)
	}
	*c = ColorSpace(n)
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (c ColorSpace) MarshalText() ([]byte, error) {
	if c == ColorSpaceSRGBNonlinear {
		return []byte(c.String()), nil
	}
	return []byte(strconv.Itoa(int(c))), nil
}

// SurfaceFormat pairs an image format with the colour space it is presented in.
type SurfaceFormat struct {
	Format     Format     `yaml:"format" json:"format"`
	ColorSpace ColorSpace `yaml:"colorSpace" json:"colorSpace"`
}

func (s SurfaceFormat) String() string {
	return s.Format.String() + "/" + s.ColorSpace.String()
}

// PresentMode is a swapchain presentation policy, numbered as VkPresentModeKHR.
type PresentMode int32

// Presentation modes
const (
	PresentModeImmediate PresentMode = iota
	PresentModeMailbox
	PresentModeFifo
	PresentModeFifoRelaxed
)

var presentModeNames = map[PresentMode]string{
	PresentModeImmediate:   "immediate",
	PresentModeMailbox:     "mailbox",
	PresentModeFifo:        "fifo",
	PresentModeFifoRelaxed: "fifo_relaxed",
}

func (p PresentMode) String() string {
	if name, ok := presentModeNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PresentMode(%d)", int32(p))
}

// UnmarshalText implements encoding.TextUnmarshaler
func (p *PresentMode) UnmarshalText(text []byte) error {
	for k, v := range presentModeNames {
		if v == strings.ToLower(string(text)) {
			*p = k
			return nil
		}
	}
	n, err := parseNumber(text)
	if err != nil {
		return errors.Newf("unknown present mode %q", text)
	}
	*p = PresentMode(n)
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (p PresentMode) MarshalText() ([]byte, error) {
	if name, ok := presentModeNames[p]; ok {
		return []byte(name), nil
	}
	return []byte(strconv.Itoa(int(p))), nil
}

// SharingMode says whether swapchain images are owned by one queue family
// at a time or shared between several.
type SharingMode int32

// Sharing modes
const (
	SharingModeExclusive SharingMode = iota
	SharingModeConcurrent
)

func (s SharingMode) String() string {
	if s == SharingModeConcurrent {
		return "concurrent"
	}
	return "exclusive"
}

// SurfaceTransformFlags are VkSurfaceTransformFlagBitsKHR.
type SurfaceTransformFlags uint32

// SurfaceTransformIdentity presents images as they are.
const SurfaceTransformIdentity SurfaceTransformFlags = 1

// CompositeAlphaFlags are VkCompositeAlphaFlagBitsKHR.
type CompositeAlphaFlags uint32

// Composite alpha modes in order of preference
const (
	CompositeAlphaOpaque CompositeAlphaFlags = 1 << iota
	CompositeAlphaPreMultiplied
	CompositeAlphaPostMultiplied
	CompositeAlphaInherit
)

// Extent2D is a size in pixels.
type Extent2D struct {
	Width  uint32 `yaml:"width" json:"width"`
	Height uint32 `yaml:"height" json:"height"`
}

func (e Extent2D) String() string {
	return fmt.Sprintf("%dx%d", e.Width, e.Height)
}

// ParseExtent reads an extent written as WIDTHxHEIGHT.
func ParseExtent(s string) (Extent2D, error) {
	var (
		e    Extent2D
		rest string
	)
	n, err := fmt.Sscanf(strings.ToLower(strings.TrimSpace(s)), "%dx%d%s", &e.Width, &e.Height, &rest)
	switch {
	case n == 2 && err == io.EOF:
		return e, nil
	case err == nil:
		return Extent2D{}, errors.Newf("parse extent %q: trailing %q", s, rest)
	default:
		return Extent2D{}, errors.Wrapf(err, "parse extent %q", s)
	}
}

// SurfaceCapabilities are the limits a surface places on swapchains
// created for it by a given device.
type SurfaceCapabilities struct {
	MinImageCount           uint32                `yaml:"minImageCount" json:"minImageCount"`
	MaxImageCount           uint32                `yaml:"maxImageCount" json:"maxImageCount"`
	CurrentExtent           Extent2D              `yaml:"currentExtent" json:"currentExtent"`
	MinImageExtent          Extent2D              `yaml:"minImageExtent" json:"minImageExtent"`
	MaxImageExtent          Extent2D              `yaml:"maxImageExtent" json:"maxImageExtent"`
	SupportedTransforms     SurfaceTransformFlags `yaml:"supportedTransforms" json:"supportedTransforms"`
	CurrentTransform        SurfaceTransformFlags `yaml:"currentTransform" json:"currentTransform"`
	SupportedCompositeAlpha CompositeAlphaFlags   `yaml:"supportedCompositeAlpha" json:"supportedCompositeAlpha"`
}

// HasUndefinedExtent reports whether the surface leaves the extent to the swapchain.
func (c SurfaceCapabilities) HasUndefinedExtent() bool {
	return c.CurrentExtent.Width == undefinedExtent
}

// parseNumber reads enum values that have no name, as vendors
// extend most Vulkan enumerations.
func parseNumber(text []byte) (int32, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(string(text)), 10, 32)
	return int32(n), err
}
