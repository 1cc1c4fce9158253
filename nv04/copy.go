// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package nv04

import (
	"fmt"

	"github.com/gogpu/nv2d/region"
	"github.com/gogpu/nv2d/swizzle"
)

// Copy emits a copy of t if the 2D engine can perform it.
//
// surf and sifm are the destination format codes for surf2d and SIFM.
// dstGPU reports whether the destination should be written by the GPU,
// srcGPU whether the source currently lives in GPU memory.
//
// The returned Transfer is equivalent to t and is the one to pass to
// cpu.Copy when the result is not Handled. Regions with different pixel
// sizes panic.
func (c *Context) Copy(t Transfer, surf, sifm FormatCode, dstGPU, srcGPU bool) (Transfer, Result) {
	if t.Dst.BPPShift != t.Src.BPPShift {
		panic(fmt.Sprintf("nv04: pixel size mismatch: %s <- %s", t.Dst, t.Src))
	}
	if t.empty() {
		return t, Handled
	}

	log := slogger()
	log.Debug("nv04: copy", "w", t.W, "h", t.H, "bpps", t.Dst.BPPShift,
		"dst", t.Dst, "dst_gpu", dstGPU, "src", t.Src, "src_gpu", srcGPU)

	t = linearizeCopy(t)
	dst, src := t.Dst, t.Src

	if !dstGPU && !srcGPU {
		log.Debug("nv04: copy: neither side on gpu")
		return t, TryAlternate
	}
	if l, ok := dst.Layout.(region.Swizzled); ok && l.Is3D() {
		log.Debug("nv04: copy: 3d swizzled destination")
		return t, TryAlternate
	}
	if src.IsSwizzled() {
		log.Debug("nv04: copy: swizzled source")
		return t, TryAlternate
	}

	if dst.IsSwizzled() {
		if !surf.Valid() || !sifm.Valid() || !dstGPU {
			log.Debug("nv04: copy: swizzled destination not writable", "surf", surf, "sifm", sifm)
			return t, TryAlternate
		}
		// The aligned region describes a larger virtual surface; only the
		// window the caller passed in must lie inside the buffer.
		dst.Assert(t.W, t.H)
		aligned, ok := dst.Align(t.W, t.H, alignShift)
		if !ok {
			panic(fmt.Sprintf("nv04: swizzled destination cannot be aligned: %s", dst))
		}
		t.Dst = aligned
		c.copySwizzle(t, surf, sifm)
		return t, Handled
	}

	if surf.Valid() && dstGPU {
		as, okSrc := src.Align(t.W, t.H, alignShift)
		ad, okDst := dst.Align(t.W, t.H, alignShift)
		if okSrc && okDst {
			t.Src, t.Dst = as, ad
			c.copyBlit(t, surf)
			return t, Handled
		}
	}
	c.copyM2MF(t)
	return t, Handled
}

// linearizeCopy turns a copy between contiguous regions of the same
// layout kind into one between linear regions with the widest rows.
func linearizeCopy(t Transfer) Transfer {
	if t.Dst.IsLinear() != t.Src.IsLinear() {
		return t
	}
	if !t.Dst.IsContiguous(t.W, t.H) || !t.Src.IsContiguous(t.W, t.H) {
		return t
	}
	w, h := region.Reshape(t.Dst, t.W, t.H, alignShift)
	return Transfer{
		Dst: t.Dst.Linearize(w, h),
		Src: t.Src.Linearize(w, h),
		W:   w,
		H:   h,
	}
}

// copySwizzle writes a linear source into a 2D swizzled destination with
// SIFM, one chunk of at most 1024x1024 destination pixels at a time.
func (c *Context) copySwizzle(t Transfer, surf, sifm FormatCode) {
	dst, src, w, h := t.Dst, t.Src, t.W, t.H
	l := dst.Layout.(region.Swizzled)
	bpps := dst.BPPShift
	pitch := src.Pitch()

	cw := min(1<<swizzleMaxShift, l.Width)
	ch := min(1<<swizzleMaxShift, l.Height)
	sx, sy := dst.X>>swizzleMaxShift, dst.Y>>swizzleMaxShift
	ex, ey := (dst.X+w-1)>>swizzleMaxShift, (dst.Y+h-1)>>swizzleMaxShift
	chunks := (ex - sx + 1) * (ey - sy + 1)

	slogger().Debug("nv04: copy: swizzle", "chunks", chunks, "chunk_w", cw, "chunk_h", ch)

	src.Assert(w, h)
	if dst.Offset&(1<<alignShift-1) != 0 {
		panic(fmt.Sprintf("nv04: swizzled destination offset not %d-byte aligned: %s", 1<<alignShift, dst))
	}

	r := c.ch
	r.Mark(8+chunks*17, 2+chunks*2)

	r.Begin(c.swzsurf, swzDMAImage, 1)
	r.Reloc(dst.Buffer, 0, RelocObject|RelocVRAM|RelocWrite)
	r.Begin(c.swzsurf, swzFormat, 1)
	r.Data(uint32(surf) | uint32(region.Log2(cw))<<swzBaseSizeUShift | uint32(region.Log2(ch))<<swzBaseSizeVShift)

	r.Begin(c.sifm, sifmDMAImage, 1)
	r.Reloc(src.Buffer, 0, RelocObject|RelocGART|RelocVRAM|RelocRead)
	r.Begin(c.sifm, sifmSurface, 1)
	r.Data(c.swzsurf.Handle)

	for cy := sy; cy <= ey; cy++ {
		ry := max(0, dst.Y-ch*cy)
		rh := min(ch, dst.Y-ch*cy+h) - ry
		for cx := sx; cx <= ex; cx++ {
			rx := max(0, dst.X-cw*cx)
			rw := min(cw, dst.X-cw*cx+w) - rx

			dstOff := dst.Offset + swizzle.Offset2D(cx*cw, cy*ch, l.Width, l.Height)<<bpps
			// Offsets grow with x and y, so the clip rectangle's last
			// pixel is its highest byte.
			last := dst.Offset + swizzle.Offset2D(cx*cw+rx+rw-1, cy*ch+ry+rh-1, l.Width, l.Height)<<bpps
			if last+1<<bpps > dst.Buffer.Size() {
				panic(fmt.Sprintf("nv04: swizzle chunk (%d, %d) exceeds %s", cx, cy, dst))
			}
			r.Begin(c.swzsurf, swzOffset, 1)
			r.Reloc(dst.Buffer, uint32(dstOff), RelocLow|RelocVRAM|RelocWrite)

			point := uint32(rx) | uint32(ry)<<16
			size := uint32(rh)<<16 | uint32(rw)
			r.Begin(c.sifm, sifmColorConversion, 9)
			r.Data(sifmColorConversionTruncate, uint32(sifm), operationSrcCopy,
				point, size, point, size, sifmUnitScale, sifmUnitScale)

			srcOff := src.Offset + (cy*ch+ry+src.Y-dst.Y)*pitch + (cx*cw+rx+src.X-dst.X)<<bpps
			if srcOff+pitch*(rh-1)+rw<<bpps > src.Buffer.Size() {
				panic(fmt.Sprintf("nv04: swizzle chunk (%d, %d) source exceeds %s", cx, cy, src))
			}
			r.Begin(c.sifm, sifmSize, 4)
			r.Data(uint32(rh)<<16|uint32(region.AlignUp(rw, 8)),
				uint32(pitch)|sifmFormatOriginCenter|sifmFormatFilterPointSample)
			r.Reloc(src.Buffer, uint32(srcOff), RelocLow|RelocGART|RelocVRAM|RelocRead)
			r.Data(0)
		}
	}
}

// copyM2MF copies between linear regions of any pitch and alignment.
func (c *Context) copyM2MF(t Transfer) {
	dst, src, w, h := t.Dst, t.Src, t.W, t.H
	slogger().Debug("nv04: copy: m2mf", "dst", dst, "src", src, "w", w, "h", h)

	dst.Assert(w, h)
	src.Assert(w, h)

	groups := h/m2mfMaxLines + 1
	r := c.ch
	r.Mark(3+groups*9, 2+groups*2)
	r.Begin(c.m2mf, m2mfDMABufferIn, 2)
	r.Reloc(src.Buffer, 0, RelocObject|RelocGART|RelocVRAM|RelocRead)
	r.Reloc(dst.Buffer, 0, RelocObject|RelocGART|RelocVRAM|RelocWrite)

	sp, dp := src.Pitch(), dst.Pitch()
	so := src.Offset + src.Y*sp + src.X<<src.BPPShift
	do := dst.Offset + dst.Y*dp + dst.X<<dst.BPPShift
	for h > 0 {
		n := min(h, m2mfMaxLines)
		r.Begin(c.m2mf, m2mfOffsetIn, 8)
		r.Reloc(src.Buffer, uint32(so), RelocLow|RelocVRAM|RelocGART|RelocRead)
		r.Reloc(dst.Buffer, uint32(do), RelocLow|RelocVRAM|RelocGART|RelocWrite)
		r.Data(uint32(sp), uint32(dp), uint32(w<<src.BPPShift), uint32(n), m2mfFormat, 0)

		h -= n
		so += sp * n
		do += dp * n
	}
}

// copyBlit copies between linear regions whose pitches and offsets are
// 64-byte aligned.
func (c *Context) copyBlit(t Transfer, format FormatCode) {
	dst, src, w, h := t.Dst, t.Src, t.W, t.H
	slogger().Debug("nv04: copy: blit", "dst", dst, "src", src, "w", w, "h", h)

	const mask = 1<<alignShift - 1
	if sp := src.Pitch(); sp == 0 || sp&mask != 0 {
		panic(fmt.Sprintf("nv04: blit source pitch not aligned: %s", src))
	}
	if dp := dst.Pitch(); dp == 0 || dp&mask != 0 {
		panic(fmt.Sprintf("nv04: blit destination pitch not aligned: %s", dst))
	}
	dst.Assert(w, h)
	src.Assert(w, h)

	r := c.ch
	r.Mark(12, 4)
	r.Begin(c.surf2d, surf2dDMAImageSource, 2)
	r.Reloc(src.Buffer, 0, RelocObject|RelocVRAM|RelocRead)
	r.Reloc(dst.Buffer, 0, RelocObject|RelocVRAM|RelocWrite)
	r.Begin(c.surf2d, surf2dFormat, 4)
	r.Data(uint32(format), uint32(dst.Pitch())<<16|uint32(src.Pitch()))
	r.Reloc(src.Buffer, uint32(src.Offset), RelocLow|RelocVRAM|RelocRead)
	r.Reloc(dst.Buffer, uint32(dst.Offset), RelocLow|RelocVRAM|RelocWrite)

	r.Begin(c.blit, blitPointIn, 3)
	r.Data(uint32(src.Y)<<16|uint32(src.X), uint32(dst.Y)<<16|uint32(dst.X), uint32(h)<<16|uint32(w))
}
