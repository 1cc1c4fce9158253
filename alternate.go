// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package nv2d

import (
	"errors"

	"github.com/gogpu/nv2d/surface"
)

// ErrFallbackToCPU indicates the alternate engine cannot handle this
// transfer. The engine then transparently falls back to the CPU.
var ErrFallbackToCPU = errors.New("nv2d: falling back to CPU transfer")

// Alternate is a transfer engine tried when the 2D engine cannot do a
// copy or fill, typically a blitter built on the 3D pipeline.
//
// Coordinates and sizes are in pixels of the surfaces' formats. Copy is
// only offered when dst is a render target and src can be sampled; Fill
// only when dst is a render target.
//
// Returning ErrFallbackToCPU, or any other error, sends the transfer to
// the CPU.
type Alternate interface {
	Copy(dst *surface.Surface, dx, dy int, src *surface.Surface, sx, sy, w, h int) error
	Fill(dst *surface.Surface, dx, dy, w, h int, value uint32) error
}
