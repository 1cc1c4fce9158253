// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package cpu performs region copies and fills on the CPU.
//
// It is the fallback path used whenever the 2D engine cannot handle a
// transfer. Both functions work on any combination of linear and swizzled
// regions and are correct for overlapping linear regions in one buffer.
package cpu

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/nv2d/internal/cache"
	"github.com/gogpu/nv2d/region"
	"github.com/gogpu/nv2d/swizzle"
)

// ErrMap is returned when a buffer cannot be mapped for CPU access.
var ErrMap = errors.New("cpu: map failed")

// Copy copies a w×h pixel window from src to dst.
//
// Both regions must be valid for the window and share one pixel size;
// violations panic. Zero w or h is a no-op.
func Copy(dst, src region.Region, w, h int) error {
	if w <= 0 || h <= 0 {
		return nil
	}
	if dst.BPPShift != src.BPPShift {
		panic(fmt.Sprintf("cpu: pixel size mismatch: %s <- %s", dst, src))
	}
	dst.Assert(w, h)
	src.Assert(w, h)

	same := dst.Buffer == src.Buffer
	mode := gputypes.MapModeWrite
	if same {
		mode |= gputypes.MapModeRead
	}
	d, err := dst.Buffer.Map(mode)
	if err != nil {
		return fmt.Errorf("%w: dst %s: %w", ErrMap, dst, err)
	}
	defer dst.Buffer.Unmap()

	s := d
	if !same {
		if s, err = src.Buffer.Map(gputypes.MapModeRead); err != nil {
			return fmt.Errorf("%w: src %s: %w", ErrMap, src, err)
		}
		defer src.Buffer.Unmap()
	}

	if dst.IsLinear() && src.IsLinear() {
		copyLinear(d, s, dst, src, w, h, same)
		return nil
	}
	copyTables(d, s, dst, src, w, h, same)
	return nil
}

func copyLinear(d, s []byte, dst, src region.Region, w, h int, same bool) {
	n := w << dst.BPPShift
	dp, sp := dst.Pitch(), src.Pitch()
	do, so := dst.PixelOffset(0, 0), src.PixelOffset(0, 0)

	if same && do >= so {
		do += (h - 1) * dp
		so += (h - 1) * sp
		for j := 0; j < h; j++ {
			copy(d[do:do+n], s[so:so+n])
			do -= dp
			so -= sp
		}
		return
	}
	for j := 0; j < h; j++ {
		copy(d[do:do+n], s[so:so+n])
		do += dp
		so += sp
	}
}

func copyTables(d, s []byte, dst, src region.Region, w, h int, same bool) {
	dc, dr := tables(dst, w, h)
	sc, sr := tables(src, w, h)
	bpp := dst.BytesPerPixel()

	if same && reverseOrder(dst, src) {
		for j := h - 1; j >= 0; j-- {
			for i := w - 1; i >= 0; i-- {
				do, so := dr[j]+dc[i], sr[j]+sc[i]
				copy(d[do:do+bpp], s[so:so+bpp])
			}
		}
		return
	}
	for j := 0; j < h; j++ {
		for i := 0; i < w; i++ {
			do, so := dr[j]+dc[i], sr[j]+sc[i]
			copy(d[do:do+bpp], s[so:so+bpp])
		}
	}
}

// reverseOrder reports whether a swizzled copy within one surface must run
// backwards: both windows share the surface and dst starts after src in
// (y, x) order.
func reverseOrder(dst, src region.Region) bool {
	if !dst.IsSwizzled() || dst.Layout != src.Layout || dst.Offset != src.Offset || dst.Z != src.Z {
		return false
	}
	return dst.Y > src.Y || (dst.Y == src.Y && dst.X > src.X)
}

// tables returns per-column and per-row byte offsets whose sums address
// every pixel of the window.
func tables(r region.Region, w, h int) (cols, rows []int) {
	switch l := r.Layout.(type) {
	case region.Linear:
		cols = make([]int, w)
		rows = make([]int, h)
		for i := range cols {
			cols[i] = (r.X + i) << r.BPPShift
		}
		for j := range rows {
			rows[j] = r.Offset + (r.Y+j)*l.Pitch
		}
	case region.Swizzled:
		k := axisKey{w: l.Width, h: l.Height, d: max(l.Depth, 1)}
		xs := axis(k)
		k.rows, k.z = true, r.Z
		ys := axis(k)
		cols = make([]int, w)
		rows = make([]int, h)
		for i := range cols {
			cols[i] = xs[r.X+i] << r.BPPShift
		}
		for j := range rows {
			rows[j] = r.Offset + ys[r.Y+j]<<r.BPPShift
		}
	}
	return cols, rows
}

// axisTables holds whole-axis swizzle tables by surface shape. Cached
// slices are never written.
var axisTables = cache.New[axisKey, []int](64)

type axisKey struct {
	rows    bool
	w, h, d int
	z       int
}

func axis(k axisKey) []int {
	return axisTables.GetOrCreate(k, func() []int {
		if k.rows {
			return swizzle.Rows(nil, k.h, 0, k.z, k.w, k.h, k.d)
		}
		return swizzle.Columns(nil, k.w, 0, k.w, k.h, k.d)
	})
}

// Fill writes value into every pixel of the w×h window of dst.
//
// Only the low 1<<dst.BPPShift bytes of value are stored, little endian.
// Pixels wider than 4 bytes panic.
func Fill(dst region.Region, w, h int, value uint32) error {
	if dst.BPPShift > 2 {
		panic(fmt.Sprintf("cpu: fill of %d-byte pixels: %s", dst.BytesPerPixel(), dst))
	}
	if w <= 0 || h <= 0 {
		return nil
	}
	dst.Assert(w, h)

	d, err := dst.Buffer.Map(gputypes.MapModeWrite)
	if err != nil {
		return fmt.Errorf("%w: dst %s: %w", ErrMap, dst, err)
	}
	defer dst.Buffer.Unmap()

	bpps := dst.BPPShift
	if l, ok := dst.Layout.(region.Linear); ok {
		n := w << bpps
		off := dst.PixelOffset(0, 0)
		b, uniform := uniformByte(value, bpps)
		for j := 0; j < h; j++ {
			row := d[off : off+n]
			if uniform {
				for i := range row {
					row[i] = b
				}
			} else {
				for i := 0; i < n; i += 1 << bpps {
					store(row[i:], bpps, value)
				}
			}
			off += l.Pitch
		}
		return nil
	}

	cols, rows := tables(dst, w, h)
	for _, ro := range rows {
		for _, co := range cols {
			store(d[ro+co:], bpps, value)
		}
	}
	return nil
}

// uniformByte reports whether every byte of the pixel-sized value is the
// same, and returns that byte.
func uniformByte(v uint32, bpps uint) (byte, bool) {
	b := byte(v)
	switch bpps {
	case 0:
		return b, true
	case 1:
		return b, byte(v>>8) == b
	default:
		return b, v == uint32(b)*0x01010101
	}
}

func store(p []byte, bpps uint, v uint32) {
	switch bpps {
	case 0:
		p[0] = byte(v)
	case 1:
		binary.LittleEndian.PutUint16(p, uint16(v))
	default:
		binary.LittleEndian.PutUint32(p, v)
	}
}
