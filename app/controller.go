// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package app drives the bootstrap from host window events.
package app

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/devblok/nativevk/core"
	"github.com/devblok/nativevk/core/renderer"
	log "github.com/sirupsen/logrus"
)

// State is what the controller currently shows in the window
type State int

// Controller states
const (
	StateIdle State = iota
	StateAccelerated
	StateSoftware
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateAccelerated:
		return "accelerated"
	case StateSoftware:
		return "software"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Controller owns the context built for the current window. Host
// callbacks may arrive from any goroutine, one at a time is served.
type Controller struct {
	config      core.Configuration
	newInstance core.InstanceFactory
	log         *log.Entry

	mutex   sync.Mutex
	context *core.Context
	window  core.Window
	state   State
	lastErr error
}

// NewController creates a controller that builds contexts with newInstance.
func NewController(cfg core.Configuration, newInstance core.InstanceFactory, logger *log.Entry) *Controller {
	if logger == nil {
		logger = core.NewLogger(cfg.Log, nil)
	}
	return &Controller{
		config:      cfg,
		newInstance: newInstance,
		log:         logger,
	}
}

// OnWindowCreated tears down whatever the previous window had and sets
// up rendering for window. Errors and panics stop here, they are logged
// and kept for Err.
func (c *Controller) OnWindowCreated(window core.Window) State {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.teardown()
	c.window = window
	c.lastErr = nil

	if c.config.Renderer.Mode == renderer.ModeSoftware {
		c.paint(window)
		return c.state
	}

	ctx, err := c.startup(window)
	if err == nil {
		c.context = ctx
		c.state = StateAccelerated
		return c.state
	}

	c.log.WithError(err).Error("accelerated rendering unavailable")
	c.lastErr = err
	c.state = StateFailed
	if c.config.Renderer.SoftwareFallback {
		c.paint(window)
	}
	return c.state
}

// OnWindowRedrawNeeded repaints the software path. The accelerated path
// has nothing to draw yet.
func (c *Controller) OnWindowRedrawNeeded() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.state == StateSoftware && c.window != nil {
		c.paint(c.window)
	}
}

// OnWindowDestroyed releases everything built for the window.
// Without a live window it does nothing.
func (c *Controller) OnWindowDestroyed() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.window == nil {
		c.log.Debug("window destroyed without a live window")
		return
	}
	c.teardown()
}

// Context returns the live context, nil unless accelerated
// rendering is up.
func (c *Controller) Context() *core.Context {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.context
}

// State returns what the controller shows
func (c *Controller) State() State {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.state
}

// Err returns the error of the last failed window setup
func (c *Controller) Err() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.lastErr
}

// Close releases everything, the controller can still take new windows.
func (c *Controller) Close() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.teardown()
}

func (c *Controller) startup(window core.Window) (ctx *core.Context, err error) {
	defer func() {
		if r := recover(); r != nil {
			ctx = nil
			err = errors.Newf("startup panicked: %v", r)
		}
	}()
	return core.Startup(c.config, c.newInstance, window, c.log)
}

func (c *Controller) paint(window core.Window) {
	canvas, ok := window.(renderer.Canvas)
	if !ok {
		c.log.Warn("window cannot be painted in software")
		return
	}
	if err := c.fill(canvas); err != nil {
		c.log.WithError(err).Error("software fill failed")
		c.lastErr = err
		c.state = StateFailed
		return
	}
	c.state = StateSoftware
}

func (c *Controller) fill(canvas renderer.Canvas) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("software fill panicked: %v", r)
		}
	}()
	return renderer.Fill(canvas, c.config.Renderer.ClearColor)
}

func (c *Controller) teardown() {
	if c.context != nil {
		c.context.Destroy()
		c.context = nil
	}
	c.window = nil
	c.state = StateIdle
}
