// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package region

import (
	"math/bits"

	"github.com/gogpu/nv2d/swizzle"
)

// IsPOT reports whether x is a power of two. Zero counts as one.
func IsPOT(x int) bool { return x&(x-1) == 0 }

// AlignUp rounds v up to a multiple of alignment, which must be a power of two.
func AlignUp(v, alignment int) int {
	return (v + alignment - 1) &^ (alignment - 1)
}

// Log2 returns floor(log2(v)) for v > 0 and 0 otherwise.
func Log2(v int) uint {
	if v <= 0 {
		return 0
	}
	return uint(bits.Len(uint(v)) - 1)
}

func swizzleOffset(x, y, z int, l Swizzled) int {
	return swizzle.Offset3D(x, y, z, l.Width, l.Height, l.Depth)
}
