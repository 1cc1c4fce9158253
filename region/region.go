// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package region describes rectangular pixel windows into GPU buffers and the
// transforms that re-express a window in a more convenient but equivalent
// addressing.
//
// A Region is a value. Every transform returns a new Region and never
// modifies its receiver, so a failed transform leaves the caller's region
// exactly as it was.
package region

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// Buffer is an opaque handle to a memory allocation owned by an external
// allocator. A Region borrows the buffer for the duration of one transfer.
type Buffer interface {
	// Handle identifies the allocation in command-stream relocations.
	Handle() uint32

	// Size returns the allocation size in bytes.
	Size() int

	// Map returns a CPU view of the whole allocation.
	// The caller must have fenced outstanding GPU work first.
	Map(mode gputypes.MapMode) ([]byte, error)

	// Unmap releases the view returned by Map.
	Unmap()
}

// Layout is the addressing scheme of a region: Linear or Swizzled.
type Layout interface {
	layout()
}

// Linear is row-major addressing: offset = y*Pitch + x*bytesPerPixel.
type Linear struct {
	Pitch int // bytes per row
}

// Swizzled is Morton-order addressing within a power-of-two surface.
// Depth <= 1 denotes a 2D surface.
type Swizzled struct {
	Width, Height, Depth int
}

func (Linear) layout()   {}
func (Swizzled) layout() {}

// Is3D reports whether the surface has more than one slice.
func (s Swizzled) Is3D() bool { return s.Depth > 1 }

// depth returns the slice count, treating 0 as 1.
func (s Swizzled) depth() int { return max(s.Depth, 1) }

// Region is a rectangular window into a pixel buffer.
//
// X, Y and Z locate the window origin within the layout; Z is only
// meaningful for 3D swizzled surfaces. BPPShift is log2 of the bytes per
// pixel.
type Region struct {
	Buffer   Buffer
	Offset   int
	X, Y, Z  int
	BPPShift uint
	Layout   Layout
}

// IsLinear reports whether r uses linear addressing.
func (r Region) IsLinear() bool {
	_, ok := r.Layout.(Linear)
	return ok
}

// IsSwizzled reports whether r uses swizzled addressing.
func (r Region) IsSwizzled() bool {
	_, ok := r.Layout.(Swizzled)
	return ok
}

// Pitch returns the row pitch of a linear region, or 0 for swizzled ones.
func (r Region) Pitch() int {
	if l, ok := r.Layout.(Linear); ok {
		return l.Pitch
	}
	return 0
}

// BytesPerPixel returns 1 << BPPShift.
func (r Region) BytesPerPixel() int { return 1 << r.BPPShift }

func (r Region) handle() uint32 {
	if r.Buffer == nil {
		return 0
	}
	return r.Buffer.Handle()
}

// String formats r for debug logs.
func (r Region) String() string {
	var shape string
	switch l := r.Layout.(type) {
	case Linear:
		shape = fmt.Sprintf("lin %d", l.Pitch)
	case Swizzled:
		shape = fmt.Sprintf("swz %dx%dx%d", l.Width, l.Height, l.Depth)
	default:
		shape = "nolayout"
	}
	return fmt.Sprintf("<%d[0x%x]> %s (%d, %d, %d)", r.handle(), r.Offset, shape, r.X, r.Y, r.Z)
}

// PixelOffset returns the byte offset within the buffer of pixel (i, j) of
// the window.
func (r Region) PixelOffset(i, j int) int {
	switch l := r.Layout.(type) {
	case Linear:
		return r.Offset + (r.Y+j)*l.Pitch + (r.X+i)<<r.BPPShift
	case Swizzled:
		return r.Offset + swizzleOffset(r.X+i, r.Y+j, r.Z, l)<<r.BPPShift
	}
	panic("region: PixelOffset on region without layout")
}
