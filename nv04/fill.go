// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package nv04

import (
	"fmt"

	"github.com/gogpu/nv2d/region"
)

// Fill emits a solid fill of t.Dst if the 2D engine can perform it.
// t.Src is ignored.
//
// As with Copy, the returned Transfer is the one to hand to cpu.Fill when
// the result is not Handled.
func (c *Context) Fill(t Transfer, value uint32) (Transfer, Result) {
	t.Src = region.Region{}
	if t.empty() {
		return t, Handled
	}

	log := slogger()
	log.Debug("nv04: fill", "w", t.W, "h", t.H, "bpps", t.Dst.BPPShift,
		"dst", t.Dst, "value", fmt.Sprintf("0x%x", value))

	if t.Dst.IsContiguous(t.W, t.H) {
		w, h := region.Reshape(t.Dst, t.W, t.H, alignShift)
		t = Transfer{Dst: t.Dst.Linearize(w, h), W: w, H: h}
	}

	// GDI rect cannot target a swizzled surface.
	if t.Dst.IsSwizzled() {
		log.Debug("nv04: fill: swizzled destination")
		return t, TryAlternate
	}

	aligned, ok := t.Dst.Align(t.W, t.H, alignShift)
	if !ok {
		log.Debug("nv04: fill: destination cannot be aligned", "dst", t.Dst)
		return t, UseCPU
	}
	t.Dst = aligned
	c.fillRect(t, value)
	return t, Handled
}

func (c *Context) fillRect(t Transfer, value uint32) {
	dst, w, h := t.Dst, t.W, t.H

	pitch := dst.Pitch()
	if pitch == 0 || pitch&(1<<alignShift-1) != 0 {
		panic(fmt.Sprintf("nv04: fill pitch not aligned: %s", dst))
	}
	dst.Assert(w, h)

	var surfFormat FormatCode
	var rectFormat uint32
	switch dst.BPPShift {
	case 0:
		surfFormat, rectFormat = Surf2DY8, rectColorFormatA8R8G8B8
	case 1:
		surfFormat, rectFormat = Surf2DY16, rectColorFormatA16R5G6B5
	case 2:
		surfFormat, rectFormat = Surf2DY32, rectColorFormatA8R8G8B8
	default:
		panic(fmt.Sprintf("nv04: fill of %d-byte pixels", dst.BytesPerPixel()))
	}

	slogger().Debug("nv04: fill: gdi rect", "dst", dst, "w", w, "h", h)

	r := c.ch
	r.Mark(15, 4)
	r.Begin(c.surf2d, surf2dDMAImageSource, 2)
	r.Reloc(dst.Buffer, 0, RelocObject|RelocVRAM|RelocWrite)
	r.Reloc(dst.Buffer, 0, RelocObject|RelocVRAM|RelocWrite)
	r.Begin(c.surf2d, surf2dFormat, 4)
	r.Data(uint32(surfFormat), uint32(pitch)<<16|uint32(pitch))
	r.Reloc(dst.Buffer, uint32(dst.Offset), RelocLow|RelocVRAM|RelocWrite)
	r.Reloc(dst.Buffer, uint32(dst.Offset), RelocLow|RelocVRAM|RelocWrite)

	r.Begin(c.rect, rectColorFormat, 1)
	r.Data(rectFormat)
	r.Begin(c.rect, rectColor1A, 1)
	r.Data(value)
	r.Begin(c.rect, rectUnclippedPoint0, 2)
	r.Data(uint32(dst.X)<<16|uint32(dst.Y), uint32(w)<<16|uint32(h))
}
