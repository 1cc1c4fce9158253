// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/nv2d/mem"
	"github.com/gogpu/nv2d/region"
)

func buffer(t *testing.T, size int) *mem.Buffer {
	t.Helper()
	b, err := mem.NewArena(0).Alloc(size)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestRegion(t *testing.T) {
	buf := buffer(t, 1<<16)
	tests := []struct {
		name   string
		s      Surface
		x, y   int
		want   region.Region
		window [2]int
	}{
		{"linear",
			Surface{Buffer: buf, Format: gputypes.TextureFormatRGBA8Unorm, Width: 30, Height: 20, Offset: 64, Pitch: 128, Linear: true},
			3, 4,
			region.Region{Buffer: buf, Offset: 64, X: 3, Y: 4, BPPShift: 2, Layout: region.Linear{Pitch: 128}},
			[2]int{10, 10}},
		{"swizzled",
			Surface{Buffer: buf, Format: gputypes.TextureFormatR8Unorm, Width: 32, Height: 16},
			5, 6,
			region.Region{Buffer: buf, X: 5, Y: 6, Layout: region.Swizzled{Width: 32, Height: 16, Depth: 1}},
			[2]int{4, 4}},
		{"swizzled single row",
			Surface{Buffer: buf, Format: gputypes.TextureFormatRGBA8Unorm, Width: 8, Height: 1},
			2, 0,
			region.Region{Buffer: buf, X: 2, BPPShift: 2, Layout: region.Linear{Pitch: 32}},
			[2]int{6, 1}},
		{"swizzled two wide",
			Surface{Buffer: buf, Format: gputypes.TextureFormatRG8Unorm, Width: 2, Height: 8},
			1, 3,
			region.Region{Buffer: buf, X: 1, Y: 3, BPPShift: 1, Layout: region.Linear{Pitch: 4}},
			[2]int{1, 5}},
		{"tiny 3d slice",
			Surface{Buffer: buf, Format: gputypes.TextureFormatRGBA8Unorm, Width: 2, Height: 2, Depth: 4, ZSlice: 3},
			0, 1,
			region.Region{Buffer: buf, Offset: 3 * 4 * 4, Y: 1, BPPShift: 2, Layout: region.Linear{Pitch: 8}},
			[2]int{2, 1}},
		{"3d slice",
			Surface{Buffer: buf, Format: gputypes.TextureFormatBGRA8Unorm, Width: 8, Height: 8, Depth: 4, ZSlice: 2},
			1, 1,
			region.Region{Buffer: buf, X: 1, Y: 1, Z: 2, BPPShift: 2, Layout: region.Swizzled{Width: 8, Height: 8, Depth: 4}},
			[2]int{4, 4}},
		{"wide linear",
			Surface{Buffer: buf, Format: gputypes.TextureFormatRGBA32Float, Width: 16, Height: 4, Pitch: 256, Linear: true},
			3, 2,
			region.Region{Buffer: buf, X: 12, Y: 2, BPPShift: 2, Layout: region.Linear{Pitch: 256}},
			[2]int{8, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.s.Region(tt.x, tt.y)
			if got != tt.want {
				t.Errorf("Region(%d, %d) = %s, want %s", tt.x, tt.y, got, tt.want)
			}
			if err := got.Validate(tt.window[0], tt.window[1]); err != nil {
				t.Errorf("Validate() = %v", err)
			}
		})
	}
}

func TestRegionWideSwizzledPanics(t *testing.T) {
	s := Surface{Buffer: buffer(t, 4096), Format: gputypes.TextureFormatRG32Float, Width: 8, Height: 8}
	defer func() {
		if recover() == nil {
			t.Error("Region() on a wide swizzled surface did not panic")
		}
	}()
	s.Region(0, 0)
}

func TestConstructors(t *testing.T) {
	big := buffer(t, 1<<16)
	small := buffer(t, 64)
	tests := []struct {
		name string
		make func() (*Surface, error)
		want error
	}{
		{"linear", func() (*Surface, error) {
			return NewLinear(big, gputypes.TextureFormatRGBA8Unorm, 100, 10, 448, UsageOnGPU)
		}, nil},
		{"swizzled", func() (*Surface, error) {
			return NewSwizzled(big, gputypes.TextureFormatRGBA8Unorm, gputypes.Extent3D{Width: 16, Height: 16, DepthOrArrayLayers: 1}, 0)
		}, nil},
		{"non pot", func() (*Surface, error) {
			return NewSwizzled(big, gputypes.TextureFormatRGBA8Unorm, gputypes.Extent3D{Width: 12, Height: 16}, 0)
		}, ErrNotPowerOfTwo},
		{"wide swizzled", func() (*Surface, error) {
			return NewSwizzled(big, gputypes.TextureFormatRGBA32Float, gputypes.Extent3D{Width: 4, Height: 4}, 0)
		}, ErrWideSwizzled},
		{"unknown format", func() (*Surface, error) {
			return NewLinear(big, gputypes.TextureFormatUndefined, 4, 4, 64, 0)
		}, ErrUnknownFormat},
		{"too small", func() (*Surface, error) {
			return NewLinear(small, gputypes.TextureFormatRGBA8Unorm, 16, 2, 64, 0)
		}, ErrBufferTooSmall},
		{"nil buffer", func() (*Surface, error) {
			return NewSwizzled(nil, gputypes.TextureFormatR8Unorm, gputypes.Extent3D{Width: 4, Height: 4}, 0)
		}, ErrBufferTooSmall},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := tt.make()
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
			if err == nil && s == nil {
				t.Fatal("nil surface without error")
			}
		})
	}
}

func TestSizeAndBlocks(t *testing.T) {
	lin := Surface{Format: gputypes.TextureFormatRGBA8Unorm, Width: 10, Height: 3, Pitch: 64, Linear: true}
	if got := lin.Size(); got != 2*64+40 {
		t.Errorf("linear Size() = %d, want %d", got, 2*64+40)
	}
	swz := Surface{Format: gputypes.TextureFormatR8Unorm, Width: 16, Height: 8, Depth: 2}
	if got := swz.Size(); got != 256 {
		t.Errorf("swizzled Size() = %d, want 256", got)
	}
	wide := Surface{Format: gputypes.TextureFormatRG32Float, Linear: true}
	if w, h := wide.Blocks(3, 2); w != 6 || h != 2 {
		t.Errorf("Blocks(3, 2) = %d, %d; want 6, 2", w, h)
	}
	if got := wide.Stride(3); got != 24 {
		t.Errorf("Stride(3) = %d, want 24", got)
	}
}

func TestUsage(t *testing.T) {
	s := Surface{Usage: UsageDynamic | BindSampler}
	if s.GPUWritable() || s.OnGPU() {
		t.Error("dynamic CPU-side surface reported as GPU")
	}
	s.Usage = UsageOnGPU | BindRenderTarget
	if !s.GPUWritable() || !s.OnGPU() || !s.Usage.Has(BindRenderTarget) || s.Usage.Has(BindSampler) {
		t.Error("usage flags wrong")
	}
}

func TestExtentAndString(t *testing.T) {
	s := Surface{Format: gputypes.TextureFormatR8Unorm, Width: 8, Height: 4}
	e := s.Extent()
	if e.Width != 8 || e.Height != 4 || e.DepthOrArrayLayers != 1 {
		t.Errorf("Extent() = %+v", e)
	}
	if str := s.String(); !strings.Contains(str, "8x4x1 swz") {
		t.Errorf("String() = %q", str)
	}
}
