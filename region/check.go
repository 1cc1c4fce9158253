// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package region

import (
	"errors"
	"fmt"
)

// Validation errors. A region failing validation is a caller bug; Assert
// turns these into panics.
var (
	// ErrNilBuffer is returned when the region has no backing buffer.
	ErrNilBuffer = errors.New("region: nil buffer")

	// ErrNoLayout is returned when the region has no layout.
	ErrNoLayout = errors.New("region: missing layout")

	// ErrOutOfBounds is returned when the addressed span exceeds the buffer.
	ErrOutOfBounds = errors.New("region: addressed span exceeds buffer")

	// ErrNotPowerOfTwo is returned for swizzled dimensions that are not powers of two.
	ErrNotPowerOfTwo = errors.New("region: swizzled dimension is not a power of two")

	// ErrBadPitch is returned when a linear pitch cannot hold a row.
	ErrBadPitch = errors.New("region: pitch smaller than row")

	// ErrBadCoordinate is returned when a swizzled window leaves its surface.
	ErrBadCoordinate = errors.New("region: coordinate outside swizzled surface")
)

// End returns the exclusive end offset of the bytes a w×h window of r may
// touch.
func (r Region) End(w, h int) int {
	switch l := r.Layout.(type) {
	case Linear:
		return r.Offset + (r.X+w)<<r.BPPShift + (r.Y+h-1)*l.Pitch
	case Swizzled:
		return r.Offset + (l.Width*l.Height*l.depth())<<r.BPPShift
	}
	return r.Offset
}

// Validate checks that a w×h window of r stays inside its buffer and that
// swizzled dimensions are powers of two.
func (r Region) Validate(w, h int) error {
	if r.Buffer == nil {
		return ErrNilBuffer
	}
	size := r.Buffer.Size()
	if r.Offset < 0 || r.Offset > size {
		return fmt.Errorf("%w: offset %d, size %d", ErrOutOfBounds, r.Offset, size)
	}

	switch l := r.Layout.(type) {
	case Linear:
		if l.Pitch <= 0 || (h > 1 && l.Pitch < w<<r.BPPShift) {
			return fmt.Errorf("%w: pitch %d, width %d, bpp shift %d", ErrBadPitch, l.Pitch, w, r.BPPShift)
		}
		if r.X < 0 || r.Y < 0 {
			return fmt.Errorf("%w: origin (%d, %d)", ErrOutOfBounds, r.X, r.Y)
		}
	case Swizzled:
		if l.Width <= 0 || l.Height <= 0 || !IsPOT(l.Width) || !IsPOT(l.Height) || !IsPOT(l.depth()) {
			return fmt.Errorf("%w: %dx%dx%d", ErrNotPowerOfTwo, l.Width, l.Height, l.Depth)
		}
		if r.X < 0 || r.Y < 0 || r.Z < 0 || r.X+w > l.Width || r.Y+h > l.Height || r.Z >= l.depth() {
			return fmt.Errorf("%w: %dx%d at (%d, %d, %d) in %dx%dx%d",
				ErrBadCoordinate, w, h, r.X, r.Y, r.Z, l.Width, l.Height, l.Depth)
		}
	default:
		return ErrNoLayout
	}

	if end := r.End(w, h); end > size {
		return fmt.Errorf("%w: end %d, size %d", ErrOutOfBounds, end, size)
	}
	return nil
}

// Assert panics if Validate reports an error.
func (r Region) Assert(w, h int) {
	if err := r.Validate(w, h); err != nil {
		panic(fmt.Sprintf("%v: %s", err, r))
	}
}

// IsContiguous reports whether the w×h window of r addresses one unbroken
// run of bytes, so that it can be re-expressed as a linear region.
//
// A linear window is contiguous when rows carry no padding. A swizzled
// window is contiguous when it covers the whole 2D surface, or when it is a
// power-of-two, self-aligned sub-rectangle that is itself a valid swizzled
// surface: same minor dimension as the surface, square, or 2:1.
func (r Region) IsContiguous(w, h int) bool {
	switch l := r.Layout.(type) {
	case Linear:
		return l.Pitch == w<<r.BPPShift
	case Swizzled:
		if w == l.Width && h == l.Height && !l.Is3D() {
			return true
		}
		if !IsPOT(w) || !IsPOT(h) {
			return false
		}
		if r.X&(w-1) != 0 || r.Y&(h-1) != 0 {
			return false
		}
		if l.Is3D() {
			return false
		}
		return min(w, h) == min(l.Width, l.Height) || w == h || w == 2*h
	}
	return false
}
