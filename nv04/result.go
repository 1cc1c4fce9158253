// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package nv04

import (
	"fmt"

	"github.com/gogpu/nv2d/region"
)

// Result tells the caller what to do after a dispatch.
type Result int

const (
	// Handled means commands were emitted and nothing else is needed.
	Handled Result = iota

	// TryAlternate means the 2D engine cannot do the transfer; a 3D
	// pipeline blit should be tried before falling back to the CPU.
	TryAlternate

	// UseCPU means no hardware path exists; use the cpu package.
	UseCPU
)

// String returns the result name.
func (r Result) String() string {
	switch r {
	case Handled:
		return "Handled"
	case TryAlternate:
		return "TryAlternate"
	case UseCPU:
		return "UseCPU"
	default:
		return fmt.Sprintf("Result(%d)", int(r))
	}
}

// Transfer is a w×h pixel window between two regions. Src is unused by
// fills.
//
// Dispatch returns the transfer in the addressing it settled on, which is
// equivalent to the input; hand that one to the CPU fallback.
type Transfer struct {
	Dst, Src region.Region
	W, H     int
}

func (t Transfer) empty() bool { return t.W <= 0 || t.H <= 0 }
