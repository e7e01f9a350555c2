// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import "github.com/cockroachdb/errors"

// package errors
var (
	ErrNoPhysicalDevices = errors.New("no vulkan capable devices found")
	ErrNoSuitableDevice  = errors.New("no suitable device found")
	ErrNoSurfaceFormats  = errors.New("surface reports no formats")
	ErrNoPresentModes    = errors.New("surface reports no present modes")
	ErrIncompleteQueues  = errors.New("queue families are not assigned")
)
