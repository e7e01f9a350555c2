// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"bytes"
	"io/ioutil"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/devblok/nativevk/core/renderer"
	"github.com/gobuffalo/envy"
	"github.com/gobuffalo/packr"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Environment variables that override configuration
const (
	EnvLogLevel      = "NATIVEVK_LOG_LEVEL"
	EnvLogFormat     = "NATIVEVK_LOG_FORMAT"
	EnvRenderMode    = "NATIVEVK_RENDER_MODE"
	EnvPresentMode   = "NATIVEVK_PRESENT_MODE"
	EnvDefaultExtent = "NATIVEVK_DEFAULT_EXTENT"
	EnvDebug         = "NATIVEVK_DEBUG"
)

const defaultConfigurationFile = "config.yaml"

// StaticResources holds the default configuration
var StaticResources = packr.NewBox("./resources")

// Configuration defines a global configuration setting
type Configuration struct {
	Instance  InstanceConfiguration  `yaml:"instance"`
	Swapchain SwapchainConfiguration `yaml:"swapchain"`
	Renderer  renderer.Configuration `yaml:"renderer"`
	Log       LogConfiguration       `yaml:"log"`
}

// InstanceConfiguration is used to create the instance and the logical device
type InstanceConfiguration struct {
	ApplicationName string `yaml:"applicationName"`
	EngineName      string `yaml:"engineName"`

	// DebugMode enables the validation layer and debug report extension
	DebugMode bool `yaml:"debugMode"`

	// Extensions and Layers are enabled on top of what the window needs
	Extensions []string `yaml:"extensions"`
	Layers     []string `yaml:"layers"`

	// DeviceExtensions must be supported by the selected device
	DeviceExtensions []string `yaml:"deviceExtensions"`
}

// SwapchainConfiguration steers swapchain negotiation
type SwapchainConfiguration struct {
	PreferredFormat     Format     `yaml:"preferredFormat"`
	PreferredColorSpace ColorSpace `yaml:"preferredColorSpace"`

	// PreferMailbox picks mailbox presentation when the surface supports it
	PreferMailbox bool `yaml:"preferMailbox"`

	// DefaultExtent is used when the surface leaves the extent undefined
	DefaultExtent Extent2D `yaml:"defaultExtent"`
}

// LogConfiguration is used to configure logging
type LogConfiguration struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfiguration returns the configuration shipped with the module.
func DefaultConfiguration() (Configuration, error) {
	raw, err := StaticResources.Find(defaultConfigurationFile)
	if err != nil {
		return Configuration{}, errors.Wrap(err, "default configuration")
	}
	var cfg Configuration
	if err := decodeConfiguration(raw, &cfg); err != nil {
		return Configuration{}, errors.Wrap(err, "default configuration")
	}
	return cfg, nil
}

// LoadConfiguration reads the default configuration, overlays the YAML
// file at path when path is not empty, then applies env files and
// environment variables.
func LoadConfiguration(path string, envFiles ...string) (Configuration, error) {
	cfg, err := DefaultConfiguration()
	if err != nil {
		return Configuration{}, err
	}

	if path != "" {
		raw, err := ioutil.ReadFile(path)
		if err != nil {
			return Configuration{}, errors.Wrapf(err, "read configuration %s", path)
		}
		if err := decodeConfiguration(raw, &cfg); err != nil {
			return Configuration{}, errors.Wrapf(err, "decode configuration %s", path)
		}
	}

	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return Configuration{}, errors.Wrap(err, "load env files")
		}
		envy.Reload()
	}

	if err := cfg.applyEnvironment(); err != nil {
		return Configuration{}, err
	}
	return cfg, cfg.Validate()
}

func decodeConfiguration(raw []byte, cfg *Configuration) error {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	return dec.Decode(cfg)
}

func (c *Configuration) applyEnvironment() error {
	if level := envy.Get(EnvLogLevel, ""); level != "" {
		c.Log.Level = level
	}
	if format := envy.Get(EnvLogFormat, ""); format != "" {
		c.Log.Format = format
	}
	if mode := envy.Get(EnvRenderMode, ""); mode != "" {
		c.Renderer.Mode = renderer.Mode(strings.ToLower(mode))
	}
	if mode := envy.Get(EnvPresentMode, ""); mode != "" {
		var pm PresentMode
		if err := pm.UnmarshalText([]byte(mode)); err != nil {
			return errors.Wrap(err, EnvPresentMode)
		}
		c.Swapchain.PreferMailbox = pm == PresentModeMailbox
	}
	if extent := envy.Get(EnvDefaultExtent, ""); extent != "" {
		e, err := ParseExtent(extent)
		if err != nil {
			return errors.Wrap(err, EnvDefaultExtent)
		}
		c.Swapchain.DefaultExtent = e
	}
	if debug := envy.Get(EnvDebug, ""); debug != "" {
		on, err := strconv.ParseBool(debug)
		if err != nil {
			return errors.Wrap(err, EnvDebug)
		}
		c.Instance.DebugMode = on
	}
	return nil
}

// Validate checks the configuration for values nothing can work with.
func (c Configuration) Validate() error {
	if c.Swapchain.DefaultExtent.Width == 0 || c.Swapchain.DefaultExtent.Height == 0 {
		return errors.Newf("default extent %s has a zero dimension", c.Swapchain.DefaultExtent)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(err, "log level")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.Newf("unknown log format %q", c.Log.Format)
	}
	return c.Renderer.Validate()
}
