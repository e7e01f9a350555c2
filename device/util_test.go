// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package device

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestSafeString(t *testing.T) {
	c := qt.New(t)
	c.Assert(safeString("VK_KHR_swapchain"), qt.Equals, "VK_KHR_swapchain\x00")
	c.Assert(safeString("VK_KHR_swapchain\x00"), qt.Equals, "VK_KHR_swapchain\x00")
}

func TestSafeStrings(t *testing.T) {
	c := qt.New(t)
	c.Assert(safeStrings(nil), qt.HasLen, 0)
	c.Assert(safeStrings([]string{"a", "b\x00"}), qt.DeepEquals, []string{"a\x00", "b\x00"})
}
