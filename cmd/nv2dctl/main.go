// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command nv2dctl inspects NV04 swizzled layouts and dry-runs 2D engine
// transfers against a command recorder.
package main

import (
	"os"

	"github.com/gogpu/nv2d/cmd/nv2dctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
