// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Context owns everything the startup sequence creates for one window.
// It is written only by Startup and read-only afterwards.
type Context struct {
	Session uuid.UUID

	Instance  Instance
	Surface   Surface
	Selection Selection
	Device    LogicalDevice

	GraphicsQueue Queue
	PresentQueue  Queue

	SwapchainConfig SwapchainConfig
	Swapchain       Swapchain

	log       *log.Entry
	destroyed bool
}

// Startup creates the instance, a surface for window, selects a physical
// device, creates the logical device with its queues, negotiates and
// creates the swapchain. Any failure destroys what was created so far.
func Startup(cfg Configuration, newInstance InstanceFactory, window Window, logger *log.Entry) (*Context, error) {
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}

	ctx := &Context{Session: uuid.New()}
	ctx.log = logger.WithField("session", ctx.Session.String())
	watch := NewStopwatch()

	fail := func(err error, stage string) (*Context, error) {
		ctx.log.WithError(err).Errorf("%s failed", stage)
		ctx.Destroy()
		return nil, errors.Wrap(err, stage)
	}
	done := func(stage string) {
		ctx.log.WithField("took", watch.Lap()).Info(stage)
	}

	instanceCfg := cfg.Instance
	instanceCfg.Extensions = mergeNames(cfg.Instance.Extensions, window.InstanceExtensions())
	instance, err := newInstance(instanceCfg)
	if err != nil {
		return fail(err, "create instance")
	}
	ctx.Instance = instance
	done("vulkan instance created")

	surface, err := window.CreateSurface(instance)
	if err != nil {
		return fail(err, "create surface")
	}
	ctx.Surface = surface
	done("surface created")

	selector := NewDeviceSelector(cfg.Instance, ctx.log)
	selection, err := selector.SelectFrom(instance, surface)
	if err != nil {
		return fail(err, "pick physical device")
	}
	ctx.Selection = selection
	done("physical device picked")

	device, err := instance.CreateLogicalDevice(selection.Device, selection.Queues, selector.RequiredExtensions)
	if err != nil {
		return fail(err, "create logical device")
	}
	ctx.Device = device

	if ctx.GraphicsQueue, err = device.Queue(selection.Queues.Graphics); err != nil {
		return fail(err, "get graphics queue")
	}
	if ctx.PresentQueue, err = device.Queue(selection.Queues.Present); err != nil {
		return fail(err, "get present queue")
	}
	done("logical device created")

	swapchainCfg, err := NegotiateSwapchain(selection.Device, surface, selection.Queues, cfg.Swapchain)
	if err != nil {
		return fail(err, "negotiate swapchain")
	}
	ctx.SwapchainConfig = swapchainCfg

	swapchain, err := device.CreateSwapchain(surface, swapchainCfg)
	if err != nil {
		return fail(err, "create swapchain")
	}
	ctx.Swapchain = swapchain
	ctx.log.WithFields(log.Fields{
		"format":      swapchainCfg.Format(),
		"presentMode": swapchainCfg.PresentMode(),
		"extent":      swapchainCfg.Extent(),
		"images":      swapchain.ImageCount(),
		"sharing":     swapchainCfg.SharingMode(),
	}).Info("swapchain created")
	done("swapchain ready")

	ctx.log.WithField("took", watch.Total()).Info("startup complete")
	return ctx, nil
}

// Destroyed reports whether Destroy was called
func (c *Context) Destroyed() bool {
	return c.destroyed
}

// Destroy tears down swapchain, logical device, surface and instance, in
// that order. Parts never created are skipped.
func (c *Context) Destroy() {
	if c == nil || c.destroyed {
		return
	}
	c.destroyed = true

	if c.Swapchain != nil {
		c.Swapchain.Destroy()
		c.Swapchain = nil
	}
	if c.Device != nil {
		c.Device.Destroy()
		c.Device = nil
	}
	c.GraphicsQueue = nil
	c.PresentQueue = nil
	if c.Surface != nil {
		c.Surface.Destroy()
		c.Surface = nil
	}
	if c.Instance != nil {
		c.Instance.Destroy()
		c.Instance = nil
	}
	if c.log != nil {
		c.log.Debug("context destroyed")
	}
}

// mergeNames appends the names of extra missing from base, keeping order.
func mergeNames(base, extra []string) []string {
	merged := make([]string, 0, len(base)+len(extra))
	seen := make(map[string]struct{}, len(base)+len(extra))
	for _, names := range [][]string{base, extra} {
		for _, name := range names {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			merged = append(merged, name)
		}
	}
	return merged
}
