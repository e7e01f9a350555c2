// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"io"
	"os"

	log "github.com/sirupsen/logrus"
)

// LogTag is attached to every log entry
const LogTag = "NativeVulkan"

// NewLogger creates the logger every component writes through.
// Invalid settings fall back to info level text output.
func NewLogger(cfg LogConfiguration, out io.Writer) *log.Entry {
	if out == nil {
		out = os.Stderr
	}

	logger := log.New()
	logger.SetOutput(out)
	if level, err := log.ParseLevel(cfg.Level); err == nil {
		logger.SetLevel(level)
	}
	if cfg.Format == "json" {
		logger.SetFormatter(&log.JSONFormatter{})
	} else {
		logger.SetFormatter(&log.TextFormatter{
			DisableColors: true,
			FullTimestamp: true,
		})
	}
	return logger.WithField("tag", LogTag)
}
