// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// vkprobe reports how device selection and swapchain negotiation go
// on this machine, or on a machine captured earlier with -o.
package main

import (
	"encoding/json"
	"flag"
	"os"
	"runtime"

	"github.com/cockroachdb/errors"
	"github.com/devblok/nativevk/core"
	"github.com/devblok/nativevk/device"
	"github.com/devblok/nativevk/profile"
	log "github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"
	"gopkg.in/yaml.v3"
)

func init() {
	runtime.LockOSThread()
}

var (
	configPath  = flag.String("config", "", "YAML configuration file")
	archivePath = flag.String("o", "", "write a capture archive of every device")
	replayPath  = flag.String("replay", "", "evaluate a capture archive instead of this machine")
	asYAML      = flag.Bool("yaml", false, "print YAML instead of JSON")
)

func main() {
	flag.Parse()

	cfg, err := core.LoadConfiguration(*configPath)
	if err != nil {
		log.WithError(err).Fatal("configuration")
	}
	logger := core.NewLogger(cfg.Log, os.Stderr)

	var report profile.Report
	if *replayPath != "" {
		report, err = replay(cfg, logger)
	} else {
		report, err = probe(cfg, logger)
	}
	if err != nil {
		logger.WithError(err).Fatal("probe failed")
	}

	if *asYAML {
		enc := yaml.NewEncoder(os.Stdout)
		err = enc.Encode(report)
		if err == nil {
			err = enc.Close()
		}
	} else {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		err = enc.Encode(report)
	}
	if err != nil {
		logger.WithError(err).Fatal("write report")
	}
}

func replay(cfg core.Configuration, logger *log.Entry) (profile.Report, error) {
	profiles, err := profile.ReadArchiveFile(*replayPath)
	if err != nil {
		return profile.Report{}, err
	}
	logger.WithField("devices", len(profiles)).Info("capture loaded")
	return profile.Evaluate(profile.NewInstance(profiles...), &profile.Surface{}, cfg, logger)
}

func probe(cfg core.Configuration, logger *log.Entry) (profile.Report, error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return profile.Report{}, errors.Wrap(err, "sdl.Init()")
	}
	defer sdl.Quit()

	if err := sdl.VulkanLoadLibrary(""); err != nil {
		return profile.Report{}, errors.Wrap(err, "sdl.VulkanLoadLibrary()")
	}
	defer sdl.VulkanUnloadLibrary()

	sdlWindow, err := sdl.CreateWindow("vkprobe", 0, 0,
		int32(cfg.Swapchain.DefaultExtent.Width),
		int32(cfg.Swapchain.DefaultExtent.Height),
		sdl.WINDOW_VULKAN|sdl.WINDOW_HIDDEN)
	if err != nil {
		return profile.Report{}, errors.Wrap(err, "sdl.CreateWindow()")
	}
	defer sdlWindow.Destroy()
	window := &device.SDLWindow{Window: sdlWindow}

	instanceCfg := cfg.Instance
	instanceCfg.Extensions = append(instanceCfg.Extensions, window.InstanceExtensions()...)
	instance, err := device.NewVulkanInstance(sdl.VulkanGetVkGetInstanceProcAddr(), instanceCfg)
	if err != nil {
		return profile.Report{}, err
	}
	defer instance.Destroy()

	surface, err := window.CreateSurface(instance)
	if err != nil {
		return profile.Report{}, err
	}
	defer surface.Destroy()

	if *archivePath != "" {
		if err := capture(instance, surface, logger); err != nil {
			return profile.Report{}, err
		}
	}
	return profile.Evaluate(instance, surface, cfg, logger)
}

func capture(instance core.Instance, surface core.Surface, logger *log.Entry) error {
	profiles, err := profile.Capture(instance, surface)
	if err != nil {
		return err
	}

	f, err := os.Create(*archivePath)
	if err != nil {
		return errors.Wrapf(err, "create %s", *archivePath)
	}
	defer f.Close()

	if _, err := profile.WriteArchive(f, profile.ArchiveAuthor(os.Hostname, logger), profiles); err != nil {
		return errors.Wrapf(err, "write %s", *archivePath)
	}
	return f.Close()
}
