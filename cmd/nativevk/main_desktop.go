// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

//go:build !android
// +build !android

package main

import (
	"flag"
	"runtime"
	"time"

	"github.com/devblok/nativevk/app"
	"github.com/devblok/nativevk/core"
	"github.com/devblok/nativevk/core/renderer"
	"github.com/devblok/nativevk/device"
	log "github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"
)

func init() {
	runtime.LockOSThread()
}

var (
	configPath = flag.String("config", "", "YAML configuration file")
	envFile    = flag.String("env", "", "env file with NATIVEVK_* overrides")
)

func newWindow(cfg core.Configuration) *sdl.Window {
	flags := uint32(sdl.WINDOW_SHOWN | sdl.WINDOW_RESIZABLE)
	if cfg.Renderer.Mode == renderer.ModeAccelerated {
		flags |= sdl.WINDOW_VULKAN
	}
	window, err := sdl.CreateWindow(cfg.Instance.ApplicationName,
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		int32(cfg.Swapchain.DefaultExtent.Width),
		int32(cfg.Swapchain.DefaultExtent.Height),
		flags)
	if err != nil {
		panic(err)
	}
	return window
}

func main() {
	flag.Parse()

	var envFiles []string
	if *envFile != "" {
		envFiles = append(envFiles, *envFile)
	}
	cfg, err := core.LoadConfiguration(*configPath, envFiles...)
	if err != nil {
		log.WithError(err).Fatal("configuration")
	}
	logger := core.NewLogger(cfg.Log, nil)

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		logger.WithError(err).Fatal("sdl.Init()")
	}
	defer sdl.Quit()

	if err := sdl.VulkanLoadLibrary(""); err != nil {
		logger.WithError(err).Fatal("sdl.VulkanLoadLibrary()")
	}
	defer sdl.VulkanUnloadLibrary()

	window := &device.SDLWindow{Window: newWindow(cfg)}
	defer window.Window.Destroy()

	controller := app.NewController(cfg, device.NewInstanceFactory(sdl.VulkanGetVkGetInstanceProcAddr()), logger)
	defer controller.Close()
	logger.WithField("state", controller.OnWindowCreated(window)).Info("window ready")

	ticker := time.NewTicker(time.Second / 60)
	defer ticker.Stop()

EventLoop:
	for range ticker.C {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch et := event.(type) {
			case *sdl.KeyboardEvent:
				if et.Keysym.Sym == sdl.K_ESCAPE {
					break EventLoop
				}
			case *sdl.WindowEvent:
				switch et.Event {
				case sdl.WINDOWEVENT_SIZE_CHANGED:
					logger.WithField("state", controller.OnWindowCreated(window)).Info("window resized")
				case sdl.WINDOWEVENT_EXPOSED:
					controller.OnWindowRedrawNeeded()
				}
			case *sdl.QuitEvent:
				break EventLoop
			}
		}
	}

	controller.OnWindowDestroyed()
	logger.Info("event loop exited")
}
