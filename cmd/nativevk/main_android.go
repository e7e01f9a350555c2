// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

//go:build android
// +build android

package main

import (
	"github.com/devblok/nativevk/app"
	"github.com/devblok/nativevk/core"
	"github.com/devblok/nativevk/device"
	log "github.com/sirupsen/logrus"
	"github.com/xlab/android-go/android"
	androidapp "github.com/xlab/android-go/app"
	"github.com/xlab/catcher"
)

func init() {
	androidapp.SetLogTag(core.LogTag)
}

func main() {
	nativeWindowEvents := make(chan androidapp.NativeWindowEvent)
	inputQueueEvents := make(chan androidapp.InputQueueEvent, 1)
	inputQueueChan := make(chan *android.InputQueue, 1)

	androidapp.Main(func(a androidapp.NativeActivity) {
		defer catcher.Catch(
			catcher.RecvLog(true),
			catcher.RecvDie(-1),
		)

		cfg, err := core.LoadConfiguration("")
		if err != nil {
			log.WithError(err).Error("configuration, using defaults")
			if cfg, err = core.DefaultConfiguration(); err != nil {
				panic(err)
			}
		}
		logger := core.NewLogger(cfg.Log, nil)
		controller := app.NewController(cfg, device.NewInstanceFactory(nil), logger)

		a.HandleNativeWindowEvents(nativeWindowEvents)
		a.HandleInputQueueEvents(inputQueueEvents)
		go androidapp.HandleInputQueues(inputQueueChan, func() {
			a.InputQueueHandled()
		}, androidapp.SkipInputEvents)
		a.InitDone()

		for {
			select {
			case event := <-a.LifecycleEvents():
				logger.WithField("event", event.Kind).Debug("lifecycle")
			case event := <-inputQueueEvents:
				switch event.Kind {
				case androidapp.QueueCreated:
					inputQueueChan <- event.Queue
				case androidapp.QueueDestroyed:
					inputQueueChan <- nil
				}
			case event := <-nativeWindowEvents:
				switch event.Kind {
				case androidapp.NativeWindowCreated:
					state := controller.OnWindowCreated(&device.AndroidWindow{Window: event.Window})
					logger.WithField("state", state).Info("window ready")
				case androidapp.NativeWindowDestroyed:
					controller.OnWindowDestroyed()
				case androidapp.NativeWindowRedrawNeeded:
					controller.OnWindowRedrawNeeded()
					a.NativeWindowRedrawDone()
				}
			}
		}
	})
}
