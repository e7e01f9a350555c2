// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core_test

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"
	glm "github.com/go-gl/mathgl/mgl32"
	"github.com/gobuffalo/envy"

	"github.com/devblok/nativevk/core"
	"github.com/devblok/nativevk/core/renderer"
)

func TestDefaultConfiguration(t *testing.T) {
	c := qt.New(t)

	cfg, err := core.DefaultConfiguration()
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.Validate(), qt.IsNil)

	c.Assert(cfg.Instance.ApplicationName, qt.Equals, "Native Vulkan")
	c.Assert(cfg.Instance.EngineName, qt.Equals, "No Engine")
	c.Assert(cfg.Instance.DebugMode, qt.IsFalse)
	c.Assert(cfg.Instance.DeviceExtensions, qt.DeepEquals, []string{core.SwapchainExtensionName})
	c.Assert(cfg.Swapchain.PreferredFormat, qt.Equals, core.FormatR8G8B8A8Unorm)
	c.Assert(cfg.Swapchain.PreferredColorSpace, qt.Equals, core.ColorSpaceSRGBNonlinear)
	c.Assert(cfg.Swapchain.PreferMailbox, qt.IsTrue)
	c.Assert(cfg.Swapchain.DefaultExtent, qt.Equals, core.Extent2D{Width: 640, Height: 480})
	c.Assert(cfg.Renderer.Mode, qt.Equals, renderer.ModeAccelerated)
	c.Assert(cfg.Renderer.SoftwareFallback, qt.IsTrue)
	c.Assert(cfg.Renderer.ClearColor, qt.Equals, glm.Vec4{1, 0, 0, 1})
	c.Assert(cfg.Log.Level, qt.Equals, "info")
}

func writeFile(c *qt.C, dir, name, content string) string {
	path := filepath.Join(dir, name)
	c.Assert(ioutil.WriteFile(path, []byte(content), 0644), qt.IsNil)
	return path
}

func tempDir(c *qt.C) string {
	dir, err := ioutil.TempDir("", "nativevk")
	c.Assert(err, qt.IsNil)
	c.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

func TestLoadConfigurationFile(t *testing.T) {
	c := qt.New(t)

	path := writeFile(c, tempDir(c), "nativevk.yaml", `
swapchain:
  preferredFormat: b8g8r8a8_srgb
  preferMailbox: false
  defaultExtent: {width: 1280, height: 720}
log:
  level: debug
`)

	cfg, err := core.LoadConfiguration(path)
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.Swapchain.PreferredFormat, qt.Equals, core.FormatB8G8R8A8Srgb)
	c.Assert(cfg.Swapchain.PreferMailbox, qt.IsFalse)
	c.Assert(cfg.Swapchain.DefaultExtent, qt.Equals, core.Extent2D{Width: 1280, Height: 720})
	c.Assert(cfg.Log.Level, qt.Equals, "debug")
	// untouched keys keep their defaults
	c.Assert(cfg.Instance.ApplicationName, qt.Equals, "Native Vulkan")
	c.Assert(cfg.Log.Format, qt.Equals, "text")
}

func TestLoadConfigurationUnknownKey(t *testing.T) {
	c := qt.New(t)

	path := writeFile(c, tempDir(c), "nativevk.yaml", "swapchain:\n  preferedFormat: b8g8r8a8_srgb\n")

	_, err := core.LoadConfiguration(path)
	c.Assert(err, qt.ErrorMatches, "(?s)decode configuration .*preferedFormat.*")
}

func TestLoadConfigurationEnvironment(t *testing.T) {
	c := qt.New(t)

	envy.Temp(func() {
		envy.Set(core.EnvLogLevel, "warn")
		envy.Set(core.EnvLogFormat, "json")
		envy.Set(core.EnvRenderMode, "Software")
		envy.Set(core.EnvPresentMode, "fifo")
		envy.Set(core.EnvDefaultExtent, "800x600")
		envy.Set(core.EnvDebug, "true")

		cfg, err := core.LoadConfiguration("")
		c.Assert(err, qt.IsNil)
		c.Assert(cfg.Log.Level, qt.Equals, "warn")
		c.Assert(cfg.Log.Format, qt.Equals, "json")
		c.Assert(cfg.Renderer.Mode, qt.Equals, renderer.ModeSoftware)
		c.Assert(cfg.Swapchain.PreferMailbox, qt.IsFalse)
		c.Assert(cfg.Swapchain.DefaultExtent, qt.Equals, core.Extent2D{Width: 800, Height: 600})
		c.Assert(cfg.Instance.DebugMode, qt.IsTrue)
	})
}

func TestLoadConfigurationEnvironmentErrors(t *testing.T) {
	for key, value := range map[string]string{
		core.EnvPresentMode:   "sometimes",
		core.EnvDefaultExtent: "wide",
		core.EnvDebug:         "perhaps",
		core.EnvLogLevel:      "chatty",
		core.EnvRenderMode:    "raytraced",
	} {
		c := qt.New(t)
		envy.Temp(func() {
			envy.Set(key, value)
			_, err := core.LoadConfiguration("")
			c.Assert(err, qt.Not(qt.IsNil), qt.Commentf("%s=%s", key, value))
		})
	}
}

func TestLoadConfigurationEnvFile(t *testing.T) {
	c := qt.New(t)

	defer os.Unsetenv(core.EnvDefaultExtent)

	path := writeFile(c, tempDir(c), "nativevk.env", core.EnvDefaultExtent+"=320x240\n")

	envy.Temp(func() {
		cfg, err := core.LoadConfiguration("", path)
		c.Assert(err, qt.IsNil)
		c.Assert(cfg.Swapchain.DefaultExtent, qt.Equals, core.Extent2D{Width: 320, Height: 240})
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*core.Configuration)
	}{
		{"zero extent", func(cfg *core.Configuration) { cfg.Swapchain.DefaultExtent.Height = 0 }},
		{"log level", func(cfg *core.Configuration) { cfg.Log.Level = "loud" }},
		{"log format", func(cfg *core.Configuration) { cfg.Log.Format = "xml" }},
		{"render mode", func(cfg *core.Configuration) { cfg.Renderer.Mode = "raytraced" }},
		{"clear color", func(cfg *core.Configuration) { cfg.Renderer.ClearColor[2] = 2 }},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := qt.New(t)
			cfg := defaultConfiguration()
			test.modify(&cfg)
			c.Assert(cfg.Validate(), qt.Not(qt.IsNil))
		})
	}
}

func TestNewLogger(t *testing.T) {
	c := qt.New(t)

	var buf bytes.Buffer
	logger := core.NewLogger(core.LogConfiguration{Level: "info", Format: "json"}, &buf)
	logger.Debug("hidden")
	logger.WithField("device", "Adreno").Info("chosen GPU")

	out := buf.String()
	c.Assert(out, qt.Not(qt.Contains), "hidden")
	c.Assert(out, qt.Contains, `"tag":"NativeVulkan"`)
	c.Assert(out, qt.Contains, `"msg":"chosen GPU"`)
	c.Assert(out, qt.Contains, `"device":"Adreno"`)
}
