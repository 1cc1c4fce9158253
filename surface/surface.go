// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package surface describes one mip level or 3D slice of a texture and
// turns it into the region the 2D engine and the CPU fallback address.
package surface

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/nv2d/nv04"
	"github.com/gogpu/nv2d/region"
)

// Surface errors.
var (
	// ErrUnknownFormat is returned for formats without a known block size.
	ErrUnknownFormat = errors.New("surface: unknown format")

	// ErrNotPowerOfTwo is returned for swizzled surfaces with non power of
	// two dimensions.
	ErrNotPowerOfTwo = errors.New("surface: swizzled size is not a power of two")

	// ErrWideSwizzled is returned for swizzled surfaces with blocks wider
	// than 4 bytes.
	ErrWideSwizzled = errors.New("surface: blocks wider than 4 bytes must be linear")

	// ErrBufferTooSmall is returned when the buffer cannot hold the surface.
	ErrBufferTooSmall = errors.New("surface: buffer too small")
)

// Usage flags of the texture a surface belongs to.
type Usage uint32

const (
	// UsageDynamic marks textures the CPU writes often. The GPU should not
	// be asked to write them.
	UsageDynamic Usage = 1 << iota

	// UsageOnGPU marks textures whose current contents live in GPU memory.
	UsageOnGPU

	// BindRenderTarget marks textures the 3D pipeline can render to.
	BindRenderTarget

	// BindSampler marks textures the 3D pipeline can sample.
	BindSampler
)

// Has reports whether all flags in f are set.
func (u Usage) Has(f Usage) bool { return u&f == f }

// Surface is one level of a texture.
//
// Width, Height and Depth are the level size in pixels. Swizzled levels
// keep ZSlice as the slice being addressed; Pitch is only used by linear
// levels.
type Surface struct {
	Buffer region.Buffer
	Format gputypes.TextureFormat

	Width, Height, Depth int
	ZSlice               int

	Offset int
	Pitch  int
	Linear bool

	Usage Usage
}

// NewLinear describes a pitched surface of w×h pixels at offset 0.
func NewLinear(buf region.Buffer, format gputypes.TextureFormat, w, h, pitch int, usage Usage) (*Surface, error) {
	s := &Surface{Buffer: buf, Format: format, Width: w, Height: h, Depth: 1, Pitch: pitch, Linear: true, Usage: usage}
	if err := s.check(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewSwizzled describes a swizzled surface of the given extent at offset 0.
func NewSwizzled(buf region.Buffer, format gputypes.TextureFormat, size gputypes.Extent3D, usage Usage) (*Surface, error) {
	s := &Surface{
		Buffer: buf,
		Format: format,
		Width:  int(size.Width),
		Height: int(size.Height),
		Depth:  max(int(size.DepthOrArrayLayers), 1),
		Usage:  usage,
	}
	if err := s.check(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Surface) check() error {
	bs := nv04.BlockSize(s.Format)
	if bs == 0 {
		return fmt.Errorf("%w: %v", ErrUnknownFormat, s.Format)
	}
	if !s.Linear {
		if bs > 4 {
			return fmt.Errorf("%w: %v", ErrWideSwizzled, s.Format)
		}
		if !region.IsPOT(s.Width) || !region.IsPOT(s.Height) || !region.IsPOT(s.Depth) {
			return fmt.Errorf("%w: %dx%dx%d", ErrNotPowerOfTwo, s.Width, s.Height, s.Depth)
		}
	}
	if need := s.Offset + s.Size(); s.Buffer == nil || need > s.Buffer.Size() {
		return fmt.Errorf("%w: need %d bytes", ErrBufferTooSmall, need)
	}
	return nil
}

// Extent returns the level size.
func (s *Surface) Extent() gputypes.Extent3D {
	return gputypes.Extent3D{
		Width:              uint32(s.Width),
		Height:             uint32(s.Height),
		DepthOrArrayLayers: uint32(max(s.Depth, 1)),
	}
}

// Size returns the number of bytes the surface occupies after Offset.
func (s *Surface) Size() int {
	if s.Linear {
		if s.Height <= 0 {
			return 0
		}
		return (s.Height-1)*s.Pitch + s.Stride(s.Width)
	}
	return s.Stride(s.Width) * s.Height * max(s.Depth, 1)
}

// Stride returns the number of bytes in w pixels.
func (s *Surface) Stride(w int) int { return w * nv04.BlockSize(s.Format) }

// Blocks converts a w×h pixel rectangle to the element counts used by the
// region, whose elements are at most 4 bytes wide.
func (s *Surface) Blocks(w, h int) (int, int) {
	return s.Stride(w) >> s.bppShift(), h
}

// GPUWritable reports whether the GPU should write the surface.
func (s *Surface) GPUWritable() bool { return !s.Usage.Has(UsageDynamic) }

// OnGPU reports whether the surface contents live in GPU memory.
func (s *Surface) OnGPU() bool { return s.Usage.Has(UsageOnGPU) }

// bppShift is log2 of the region element size: blocks wider than 4 bytes
// are addressed as several 4-byte elements.
func (s *Surface) bppShift() uint {
	return min(region.Log2(nv04.BlockSize(s.Format)), 2)
}

// Region returns the region addressing the surface from pixel (x, y).
//
// Swizzled levels too small to hold a full tile are addressed linearly:
// 2D levels one row high or at most two pixels wide, and 3D levels at most
// 2x2 per slice, whose slice then folds into the offset.
//
// Formats wider than 4 bytes on swizzled surfaces panic.
func (s *Surface) Region(x, y int) region.Region {
	bs := nv04.BlockSize(s.Format)
	if bs == 0 || !region.IsPOT(bs) {
		panic(fmt.Sprintf("surface: unsupported format %v", s.Format))
	}
	r := region.Region{
		Buffer:   s.Buffer,
		Offset:   s.Offset,
		X:        x,
		Y:        y,
		BPPShift: s.bppShift(),
	}
	if bs > 4 {
		if !s.Linear {
			panic(fmt.Sprintf("surface: %v requires a linear surface", s.Format))
		}
		r.X = x << (region.Log2(bs) - 2)
	}

	if s.Linear {
		r.Layout = region.Linear{Pitch: s.Pitch}
		return r
	}

	depth := max(s.Depth, 1)
	switch {
	case depth <= 1 && (s.Height <= 1 || s.Width <= 2):
		r.Layout = region.Linear{Pitch: s.Width << r.BPPShift}
	case depth > 1 && s.Height <= 2 && s.Width <= 2:
		r.Layout = region.Linear{Pitch: s.Width << r.BPPShift}
		r.Offset += (s.ZSlice * s.Width * s.Height) << r.BPPShift
	default:
		r.Z = s.ZSlice
		r.Layout = region.Swizzled{Width: s.Width, Height: s.Height, Depth: depth}
	}
	return r
}

// String formats s for logs.
func (s *Surface) String() string {
	kind := "swz"
	if s.Linear {
		kind = fmt.Sprintf("lin %d", s.Pitch)
	}
	return fmt.Sprintf("%v %dx%dx%d %s z%d @0x%x", s.Format, s.Width, s.Height, max(s.Depth, 1), kind, s.ZSlice, s.Offset)
}
