// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package nv04 drives the NV04-family 2D engine: memory to memory format
// (m2mf), surf2d with image blit, GDI rectangle fills, and the swizzled
// surface with scaled image from memory (SIFM) for writing swizzled
// textures.
//
// Copy and Fill decide whether a transfer can run on the engine and emit
// the commands if so. Anything they refuse is reported as a Result so the
// caller can try a 3D blit or fall back to the cpu package.
package nv04

import (
	"errors"
	"fmt"
)

// ErrUnsupportedChipset is returned by NewContext for chipset families
// without a known swizzled surface class.
var ErrUnsupportedChipset = errors.New("nv04: unsupported chipset")

// Context holds the 2D engine objects bound on one channel.
type Context struct {
	ch Channel

	notifier Object
	m2mf     Object
	surf2d   Object
	blit     Object
	rect     Object
	swzsurf  Object
	sifm     Object
}

// NewContext allocates the engine objects on ch and binds their notifier,
// surfaces and default operations.
func NewContext(ch Channel) (*Context, error) {
	chipset := ch.Chipset()
	swzClass, sifmClass, err := swizzleClasses(chipset)
	if err != nil {
		return nil, err
	}

	c := &Context{ch: ch}
	handle := uint32(firstHandle)
	next := func() uint32 {
		h := handle
		handle++
		return h
	}
	alloc := func(name string, class uint32) (Object, error) {
		obj, err := ch.Alloc(next(), class)
		if err != nil {
			return Object{}, fmt.Errorf("nv04: alloc %s (class 0x%04x): %w", name, class, err)
		}
		return obj, nil
	}

	if c.notifier, err = ch.AllocNotifier(next()); err != nil {
		return nil, fmt.Errorf("nv04: alloc notifier: %w", err)
	}

	if c.m2mf, err = alloc("m2mf", ClassM2MF); err != nil {
		return nil, err
	}
	ch.Begin(c.m2mf, m2mfDMANotify, 1)
	ch.Data(c.notifier.Handle)

	surf2dClass := uint32(ClassSurf2D)
	blitClass := uint32(ClassBlit)
	if chipset >= 0x10 {
		surf2dClass = ClassSurf2DNV10
		blitClass = ClassBlitNV12
	}

	if c.surf2d, err = alloc("surf2d", surf2dClass); err != nil {
		return nil, err
	}
	ch.Begin(c.surf2d, surf2dDMAImageSource, 2)
	ch.Data(ch.VRAMHandle(), ch.VRAMHandle())

	if c.blit, err = alloc("blit", blitClass); err != nil {
		return nil, err
	}
	ch.Begin(c.blit, blitDMANotify, 1)
	ch.Data(c.notifier.Handle)
	ch.Begin(c.blit, blitSurface, 1)
	ch.Data(c.surf2d.Handle)
	ch.Begin(c.blit, blitOperation, 1)
	ch.Data(operationSrcCopy)

	if c.rect, err = alloc("rect", ClassGDIRect); err != nil {
		return nil, err
	}
	ch.Begin(c.rect, rectDMANotify, 1)
	ch.Data(c.notifier.Handle)
	ch.Begin(c.rect, rectSurface, 1)
	ch.Data(c.surf2d.Handle)
	ch.Begin(c.rect, rectOperation, 1)
	ch.Data(operationSrcCopy)
	ch.Begin(c.rect, rectMonochromeFormat, 1)
	ch.Data(rectMonochromeFormatLE)

	if c.swzsurf, err = alloc("swzsurf", swzClass); err != nil {
		return nil, err
	}
	if c.sifm, err = alloc("sifm", sifmClass); err != nil {
		return nil, err
	}

	slogger().Debug("nv04: context initialized",
		"chipset", fmt.Sprintf("0x%02x", chipset),
		"surf2d", fmt.Sprintf("0x%04x", surf2dClass),
		"blit", fmt.Sprintf("0x%04x", blitClass),
		"swzsurf", fmt.Sprintf("0x%04x", swzClass),
		"sifm", fmt.Sprintf("0x%04x", sifmClass))
	return c, nil
}

// swizzleClasses picks the swizzled surface and SIFM classes for a chipset.
func swizzleClasses(chipset uint32) (swz, sifm uint32, err error) {
	switch chipset & 0xf0 {
	case 0x00:
		return ClassSwzSurf, ClassSIFM, nil
	case 0x10:
		return ClassSwzSurf, ClassSIFMNV10, nil
	case 0x20:
		return ClassSwzSurfNV20, ClassSIFMNV10, nil
	case 0x30:
		return ClassSwzSurfNV30, ClassSIFMNV30, nil
	case 0x40, 0x60:
		return ClassSwzSurfNV40, ClassSIFMNV40, nil
	default:
		return 0, 0, fmt.Errorf("%w: 0x%02x", ErrUnsupportedChipset, chipset)
	}
}

// Objects returns the engine objects in allocation order: notifier, m2mf,
// surf2d, blit, rect, swzsurf, sifm.
func (c *Context) Objects() []Object {
	return []Object{c.notifier, c.m2mf, c.surf2d, c.blit, c.rect, c.swzsurf, c.sifm}
}
