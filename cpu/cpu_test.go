// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cpu

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/nv2d/mem"
	"github.com/gogpu/nv2d/region"
	"github.com/gogpu/nv2d/swizzle"
)

func newBuffer(t *testing.T, a *mem.Arena, size int, seed byte) *mem.Buffer {
	t.Helper()
	b, err := a.Alloc(size)
	if err != nil {
		t.Fatalf("Alloc(%d) = %v", size, err)
	}
	for i, p := 0, b.Bytes(); i < len(p); i++ {
		p[i] = seed + byte(i*7)
	}
	return b
}

// naiveCopy copies pixel by pixel from a snapshot of the source bytes.
func naiveCopy(dst []byte, dr region.Region, src []byte, sr region.Region, w, h int) {
	bpp := dr.BytesPerPixel()
	for j := 0; j < h; j++ {
		for i := 0; i < w; i++ {
			do, so := dr.PixelOffset(i, j), sr.PixelOffset(i, j)
			copy(dst[do:do+bpp], src[so:so+bpp])
		}
	}
}

func clone(b []byte) []byte { return append([]byte(nil), b...) }

func TestCopyLinearScenario(t *testing.T) {
	a := mem.NewArena(0)
	const w, h = 64, 64
	sb := newBuffer(t, a, 256*h, 1)
	db := newBuffer(t, a, 320*h, 9)
	src := region.Region{Buffer: sb, BPPShift: 2, Layout: region.Linear{Pitch: 256}}
	dst := region.Region{Buffer: db, BPPShift: 2, Layout: region.Linear{Pitch: 320}}

	want := clone(db.Bytes())
	for j := 0; j < h; j++ {
		copy(want[j*320:j*320+w*4], sb.Bytes()[j*256:j*256+w*4])
	}

	if err := Copy(dst, src, w, h); err != nil {
		t.Fatalf("Copy() = %v", err)
	}
	if !bytes.Equal(db.Bytes(), want) {
		t.Error("Copy() differs from row-by-row copy")
	}
	if db.Mapped() != 0 || sb.Mapped() != 0 {
		t.Error("buffers left mapped")
	}
}

func TestCopyLayouts(t *testing.T) {
	const w, h = 5, 3
	layout := func(swz bool, bpps uint) region.Layout {
		if swz {
			return region.Swizzled{Width: 16, Height: 8}
		}
		return region.Linear{Pitch: 24 << bpps}
	}
	for _, bpps := range []uint{0, 1, 2} {
		for _, srcSwz := range []bool{false, true} {
			for _, dstSwz := range []bool{false, true} {
				name := fmt.Sprintf("bpps%d/src_swz=%v/dst_swz=%v", bpps, srcSwz, dstSwz)
				t.Run(name, func(t *testing.T) {
					a := mem.NewArena(0)
					sb := newBuffer(t, a, 256<<bpps, 3)
					db := newBuffer(t, a, 256<<bpps, 200)
					src := region.Region{Buffer: sb, Offset: 0, X: 3, Y: 2, BPPShift: bpps, Layout: layout(srcSwz, bpps)}
					dst := region.Region{Buffer: db, Offset: 0, X: 9, Y: 5, BPPShift: bpps, Layout: layout(dstSwz, bpps)}

					want := clone(db.Bytes())
					naiveCopy(want, dst, sb.Bytes(), src, w, h)

					if err := Copy(dst, src, w, h); err != nil {
						t.Fatalf("Copy() = %v", err)
					}
					if !bytes.Equal(db.Bytes(), want) {
						t.Error("Copy() result differs from per-pixel copy")
					}
				})
			}
		}
	}
}

func TestCopySwizzled3D(t *testing.T) {
	a := mem.NewArena(0)
	sb := newBuffer(t, a, 8*4*4*4, 5)
	db := newBuffer(t, a, 64*4, 0)
	src := region.Region{Buffer: sb, Y: 1, Z: 2, BPPShift: 2, Layout: region.Swizzled{Width: 8, Height: 4, Depth: 4}}
	dst := region.Region{Buffer: db, BPPShift: 2, Layout: region.Linear{Pitch: 32}}

	want := clone(db.Bytes())
	naiveCopy(want, dst, sb.Bytes(), src, 8, 3)
	if err := Copy(dst, src, 8, 3); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(db.Bytes(), want) {
		t.Error("3D slice copy differs from per-pixel copy")
	}
}

func TestCopyOverlap(t *testing.T) {
	tests := []struct {
		name           string
		layout         region.Layout
		sx, sy, dx, dy int
		w, h           int
	}{
		{"linear dst below", region.Linear{Pitch: 32}, 0, 0, 0, 1, 8, 4},
		{"linear dst above", region.Linear{Pitch: 32}, 0, 1, 0, 0, 8, 4},
		{"linear dst right", region.Linear{Pitch: 32}, 0, 0, 2, 0, 8, 1},
		{"linear dst left", region.Linear{Pitch: 32}, 3, 2, 1, 2, 8, 3},
		{"swizzled dst after", region.Swizzled{Width: 16, Height: 16}, 1, 1, 2, 3, 9, 7},
		{"swizzled dst before", region.Swizzled{Width: 16, Height: 16}, 4, 5, 2, 3, 9, 7},
		{"swizzled same row right", region.Swizzled{Width: 16, Height: 16}, 0, 4, 3, 4, 10, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := mem.NewArena(0)
			b := newBuffer(t, a, 1024, 11)
			src := region.Region{Buffer: b, X: tt.sx, Y: tt.sy, Layout: tt.layout}
			dst := region.Region{Buffer: b, X: tt.dx, Y: tt.dy, Layout: tt.layout}

			want := clone(b.Bytes())
			naiveCopy(want, dst, clone(b.Bytes()), src, tt.w, tt.h)

			if err := Copy(dst, src, tt.w, tt.h); err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(b.Bytes(), want) {
				t.Error("overlapping copy differs from copy through a snapshot")
			}
			if b.MapCount() != 1 {
				t.Errorf("shared buffer mapped %d times, want 1", b.MapCount())
			}
		})
	}
}

func TestCopyEmpty(t *testing.T) {
	a := mem.NewArena(0)
	b := newBuffer(t, a, 16, 0)
	r := region.Region{Buffer: b, Layout: region.Linear{Pitch: 16}}
	if err := Copy(r, r, 0, 4); err != nil {
		t.Fatal(err)
	}
	if b.MapCount() != 0 {
		t.Error("empty copy mapped the buffer")
	}
}

func TestCopyMapError(t *testing.T) {
	a := mem.NewArena(0)
	sb := newBuffer(t, a, 64, 0)
	db := newBuffer(t, a, 64, 0)
	if _, err := sb.Map(gputypes.MapModeRead); err != nil {
		t.Fatal(err)
	}
	src := region.Region{Buffer: sb, Layout: region.Linear{Pitch: 16}}
	dst := region.Region{Buffer: db, Layout: region.Linear{Pitch: 16}}

	err := Copy(dst, src, 4, 4)
	if !errors.Is(err, ErrMap) || !errors.Is(err, mem.ErrAlreadyMapped) {
		t.Fatalf("Copy() = %v, want ErrMap wrapping ErrAlreadyMapped", err)
	}
	if db.Mapped() != 0 {
		t.Error("dst left mapped after src map failure")
	}
}

func TestCopyPanics(t *testing.T) {
	a := mem.NewArena(0)
	b := newBuffer(t, a, 64, 0)
	tests := []struct {
		name     string
		dst, src region.Region
	}{
		{"pixel size mismatch",
			region.Region{Buffer: b, BPPShift: 1, Layout: region.Linear{Pitch: 16}},
			region.Region{Buffer: b, Layout: region.Linear{Pitch: 16}}},
		{"out of bounds",
			region.Region{Buffer: b, Y: 10, Layout: region.Linear{Pitch: 16}},
			region.Region{Buffer: b, Layout: region.Linear{Pitch: 16}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("Copy() did not panic")
				}
			}()
			_ = Copy(tt.dst, tt.src, 4, 2)
		})
	}
}

func TestFill(t *testing.T) {
	tests := []struct {
		name   string
		bpps   uint
		value  uint32
		layout region.Layout
	}{
		{"8bpp linear", 0, 0xab, region.Linear{Pitch: 32}},
		{"16bpp linear uniform", 1, 0x7777, region.Linear{Pitch: 64}},
		{"16bpp linear", 1, 0x1234, region.Linear{Pitch: 64}},
		{"32bpp linear uniform", 2, 0x5a5a5a5a, region.Linear{Pitch: 128}},
		{"32bpp linear", 2, 0xdeadbeef, region.Linear{Pitch: 128}},
		{"8bpp swizzled", 0, 0x42, region.Swizzled{Width: 32, Height: 8}},
		{"16bpp swizzled", 1, 0xbeef, region.Swizzled{Width: 32, Height: 8}},
		{"32bpp swizzled", 2, 0x01020304, region.Swizzled{Width: 32, Height: 8}},
	}
	const w, h = 7, 5
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := mem.NewArena(0)
			b := newBuffer(t, a, 256<<tt.bpps, 1)
			r := region.Region{Buffer: b, X: 3, Y: 2, BPPShift: tt.bpps, Layout: tt.layout}

			want := clone(b.Bytes())
			px := make([]byte, 4)
			binary.LittleEndian.PutUint32(px, tt.value)
			n := r.BytesPerPixel()
			for j := 0; j < h; j++ {
				for i := 0; i < w; i++ {
					o := r.PixelOffset(i, j)
					copy(want[o:o+n], px[:n])
				}
			}

			if err := Fill(r, w, h, tt.value); err != nil {
				t.Fatalf("Fill() = %v", err)
			}
			if !bytes.Equal(b.Bytes(), want) {
				t.Error("Fill() result differs from per-pixel store")
			}
		})
	}
}

func TestFillTruncatesValue(t *testing.T) {
	a := mem.NewArena(0)
	b := newBuffer(t, a, 16, 0)
	r := region.Region{Buffer: b, Layout: region.Linear{Pitch: 16}}
	if err := Fill(r, 16, 1, 0xffff0011); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(b.Bytes(), bytes.Repeat([]byte{0x11}, 16)) {
		t.Errorf("Fill() = % x", b.Bytes())
	}
}

func TestFillWidePixelPanics(t *testing.T) {
	a := mem.NewArena(0)
	b := newBuffer(t, a, 64, 0)
	r := region.Region{Buffer: b, BPPShift: 3, Layout: region.Linear{Pitch: 64}}
	defer func() {
		if recover() == nil {
			t.Error("Fill() of 8-byte pixels did not panic")
		}
	}()
	_ = Fill(r, 2, 2, 0)
}

func TestUniformByte(t *testing.T) {
	tests := []struct {
		v    uint32
		bpps uint
		want bool
	}{
		{0x12, 0, true},
		{0x1212, 1, true},
		{0x1213, 1, false},
		{0xffff1212, 1, true},
		{0, 2, true},
		{0x12121212, 2, true},
		{0x12121213, 2, false},
	}
	for _, tt := range tests {
		if _, got := uniformByte(tt.v, tt.bpps); got != tt.want {
			t.Errorf("uniformByte(%#x, %d) = %v, want %v", tt.v, tt.bpps, got, tt.want)
		}
	}
}

func BenchmarkCopySwizzledToLinear(b *testing.B) {
	a := mem.NewArena(0)
	sb, _ := a.Alloc(256 * 256 * 4)
	db, _ := a.Alloc(256 * 256 * 4)
	src := region.Region{Buffer: sb, BPPShift: 2, Layout: region.Swizzled{Width: 256, Height: 256}}
	dst := region.Region{Buffer: db, BPPShift: 2, Layout: region.Linear{Pitch: 1024}}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Copy(dst, src, 256, 256)
	}
}

func TestTablesCached(t *testing.T) {
	axisTables.Clear()
	a := mem.NewArena(0)
	buf := newBuffer(t, a, 64*64*4, 3)
	r := region.Region{Buffer: buf, X: 5, Y: 9, BPPShift: 2, Layout: region.Swizzled{Width: 64, Height: 64}}

	before := axisTables.Stats()
	c1, r1 := tables(r, 7, 3)
	c2, r2 := tables(r, 7, 3)
	after := axisTables.Stats()

	if got := after.Misses - before.Misses; got != 2 {
		t.Errorf("misses = %d, want 2 (one per axis)", got)
	}
	if got := after.Hits - before.Hits; got != 2 {
		t.Errorf("hits = %d, want 2", got)
	}
	for i := range c1 {
		want := swizzle.Offset2D(r.X+i, 0, 64, 64) << 2
		if c1[i] != want || c2[i] != want {
			t.Errorf("cols[%d] = %d, %d, want %d", i, c1[i], c2[i], want)
		}
	}
	for j := range r1 {
		want := swizzle.Offset2D(0, r.Y+j, 64, 64) << 2
		if r1[j] != want || r2[j] != want {
			t.Errorf("rows[%d] = %d, %d, want %d", j, r1[j], r2[j], want)
		}
	}

	// Returned tables are copies; scribbling on them leaves the cache intact.
	c1[0] = -1
	if c3, _ := tables(r, 1, 1); c3[0] != swizzle.Offset2D(5, 0, 64, 64)<<2 {
		t.Error("cached column table was modified")
	}
}

func TestReverseOrder(t *testing.T) {
	swz := region.Swizzled{Width: 16, Height: 16}
	at := func(x, y int, l region.Layout) region.Region {
		return region.Region{Offset: 256, X: x, Y: y, BPPShift: 2, Layout: l}
	}
	tests := []struct {
		name     string
		dst, src region.Region
		want     bool
	}{
		{"dst below src", at(0, 3, swz), at(0, 1, swz), true},
		{"dst right of src", at(4, 1, swz), at(2, 1, swz), true},
		{"dst before src", at(0, 1, swz), at(5, 2, swz), false},
		{"same window", at(2, 2, swz), at(2, 2, swz), false},
		{"other shape at same base", at(0, 3, region.Swizzled{Width: 32, Height: 8}), at(0, 1, swz), false},
		{"linear", at(0, 3, region.Linear{Pitch: 64}), at(0, 1, region.Linear{Pitch: 64}), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := reverseOrder(tt.dst, tt.src); got != tt.want {
				t.Errorf("reverseOrder() = %v, want %v", got, tt.want)
			}
		})
	}

	other := at(0, 3, swz)
	other.Offset = 0
	if reverseOrder(other, at(0, 1, swz)) {
		t.Error("different bases should copy forward")
	}
	other = at(0, 3, region.Swizzled{Width: 16, Height: 16, Depth: 2})
	other.Z = 1
	if reverseOrder(other, at(0, 1, region.Swizzled{Width: 16, Height: 16, Depth: 2})) {
		t.Error("different slices should copy forward")
	}
}
