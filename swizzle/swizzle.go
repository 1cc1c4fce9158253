// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package swizzle computes NV04-style Morton (Z-order) offsets for swizzled
// surfaces.
//
// A swizzled surface has power-of-two dimensions. Square surfaces interleave
// the bits of x and y, with x on even and y on odd output bits. Rectangular
// surfaces are a linear run of square tiles of side min(width, height).
// 3D surfaces interleave x, y and z round-robin until every dimension is
// exhausted.
//
// All offsets are in pixels, not bytes.
package swizzle

// MaxBits is the number of coordinate bits the square interleave keeps.
// It matches the largest surface dimension the hardware accepts (4096).
const MaxBits = 12

// Square interleaves the low MaxBits bits of x and y.
// Bit i of x lands on bit 2i of the result and bit i of y on bit 2i+1.
func Square(x, y int) int {
	return spread(x) | spread(y)<<1
}

// spread moves bit i of v to bit 2i, keeping MaxBits bits.
func spread(v int) int {
	u := uint32(v) & (1<<MaxBits - 1)
	u = (u | u<<8) & 0x00ff00ff
	u = (u | u<<4) & 0x0f0f0f0f
	u = (u | u<<2) & 0x33333333
	u = (u | u<<1) & 0x55555555
	return int(u)
}

// Offset2D returns the swizzled offset of (x, y) in a w×h surface.
func Offset2D(x, y, w, h int) int {
	if h <= 1 {
		return x
	}
	s := min(w, h)
	m := s - 1
	return ((x|y)&^m)*s | Square(x&m, y&m)
}

// Offset3D returns the swizzled offset of (x, y, z) in a w×h×d surface.
// Surfaces with d <= 1 use the 2D layout.
func Offset3D(x, y, z, w, h, d int) int {
	if d <= 1 {
		return Offset2D(x, y, w, h)
	}

	v := 0
	w >>= 1
	h >>= 1
	d >>= 1
	for i := 0; ; {
		start := i
		if w != 0 {
			v |= (x & 1) << i
			x >>= 1
			w >>= 1
			i++
		}
		if h != 0 {
			v |= (y & 1) << i
			y >>= 1
			h >>= 1
			i++
		}
		if d != 0 {
			v |= (z & 1) << i
			z >>= 1
			d >>= 1
			i++
		}
		if i == start {
			return v
		}
	}
}

// Columns fills dst with the x contribution of columns x0..x0+len(dst)-1.
// If dst is shorter than n it is reallocated; the filled slice is returned.
//
// The interleave puts every axis on disjoint bits, so
// Columns[i] + Rows[j] == Offset3D(x0+i, y0+j, z, w, h, d).
func Columns(dst []int, n, x0, w, h, d int) []int {
	dst = grow(dst, n)
	for i := range dst {
		dst[i] = Offset3D(x0+i, 0, 0, w, h, d)
	}
	return dst
}

// Rows fills dst with the y and z contribution of rows y0..y0+n-1 in slice z.
func Rows(dst []int, n, y0, z, w, h, d int) []int {
	dst = grow(dst, n)
	for j := range dst {
		dst[j] = Offset3D(0, y0+j, z, w, h, d)
	}
	return dst
}

func grow(dst []int, n int) []int {
	if cap(dst) < n {
		return make([]int, n)
	}
	return dst[:n]
}
