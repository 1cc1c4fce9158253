// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package region

import "fmt"

// Reshape trades rows for columns of a contiguous w×h window: it doubles w
// and halves h while h stays even and the row is narrower than 1<<shift
// bytes. No data moves; fewer, longer rows cross fewer row boundaries.
func Reshape(r Region, w, h int, shift uint) (int, int) {
	for h > 0 && h&1 == 0 && w<<r.BPPShift < 1<<shift {
		w <<= 1
		h >>= 1
	}
	return w, h
}

// Linearize re-expresses a contiguous w×h window of r as a linear region
// with pitch w<<BPPShift. The bytes denoted do not change.
func (r Region) Linearize(w, h int) Region {
	switch l := r.Layout.(type) {
	case Linear:
		r.Offset += r.Y*l.Pitch + r.X<<r.BPPShift
		r.X, r.Y = 0, 0
	case Swizzled:
		r.Offset += (l.Width * l.Height * r.Z) << r.BPPShift
		pos := swizzleOffset(r.X, r.Y, r.Z, l)
		r.X = pos % w
		r.Y = pos / w
	}
	r.Z = 0
	r.Layout = Linear{Pitch: w << r.BPPShift}
	return r
}

// AlignOffset moves r's base offset down to a multiple of 1<<shift and
// compensates in the coordinates, so the window still denotes the same
// pixels. It reports false when that is impossible:
//   - a linear window taller than one row whose shifted start would run
//     past the end of its row (this would need the window split in two);
//   - a swizzled base that is not a multiple of the square tile size;
//   - a 3D swizzled surface.
//
// On failure r is returned unchanged.
func (r Region) AlignOffset(w, h int, shift uint) (Region, bool) {
	orig := r
	mask := 1<<shift - 1

	switch l := r.Layout.(type) {
	case Linear:
		if r.Offset&(r.BytesPerPixel()-1) != 0 {
			panic(fmt.Sprintf("region: offset 0x%x not pixel aligned: %s", r.Offset, r))
		}
		delta := r.Offset & mask
		if h <= 1 {
			r.X += delta >> r.BPPShift
			r.Offset -= delta
			r.Layout = Linear{Pitch: AlignUp((r.X+w)<<r.BPPShift, 1<<shift)}
			return r, true
		}
		xo := r.X<<r.BPPShift + delta
		dy := xo / l.Pitch
		xo -= dy * l.Pitch
		if xo+w<<r.BPPShift > l.Pitch {
			return orig, false
		}
		r.X = xo >> r.BPPShift
		r.Y += dy
		r.Offset -= delta
		return r, true

	case Swizzled:
		if l.Is3D() {
			return orig, false
		}
		side := min(l.Width, l.Height)
		tile := side * side << r.BPPShift
		if r.Offset&(tile-1) != 0 {
			return orig, false
		}
		v := (r.Offset & mask) / tile
		r.Offset -= v * tile
		if l.Height == side {
			r.X += l.Height * v
			for need := l.Width + l.Height*v; l.Width < need; {
				l.Width += l.Width
			}
		} else {
			r.Y += l.Width * v
			for need := l.Height + l.Width*v; l.Height < need; {
				l.Height += l.Height
			}
		}
		r.Layout = l
		return r, true
	}
	return orig, false
}

// Align makes both the pitch and the base offset of r multiples of
// 1<<shift. A misaligned pitch can only be fixed for single-row windows.
// On failure r is returned unchanged.
func (r Region) Align(w, h int, shift uint) (Region, bool) {
	mask := 1<<shift - 1
	if r.Pitch()&mask != 0 {
		if h != 1 {
			return r, false
		}
		return r.AlignOffset(w, h, shift)
	}
	if r.Offset&mask != 0 {
		return r.AlignOffset(w, h, shift)
	}
	return r, true
}
