// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package nv04

// Object classes.
const (
	ClassM2MF = 0x0039

	ClassSurf2D     = 0x0042
	ClassSurf2DNV10 = 0x0062

	ClassBlit     = 0x005f
	ClassBlitNV12 = 0x009f

	ClassGDIRect = 0x004a

	ClassSwzSurf     = 0x0052
	ClassSwzSurfNV20 = 0x009e
	ClassSwzSurfNV30 = 0x039e
	ClassSwzSurfNV40 = 0x309e

	ClassSIFM     = 0x0077
	ClassSIFMNV10 = 0x0089
	ClassSIFMNV30 = 0x0389
	ClassSIFMNV40 = 0x3089
)

// Memory to memory format.
const (
	m2mfDMANotify   = 0x0180
	m2mfDMABufferIn = 0x0184
	m2mfOffsetIn    = 0x030c

	// m2mfFormat selects 1-byte input and output increments.
	m2mfFormat = 0x0101

	// m2mfMaxLines is the line count limit of one OFFSET_IN group.
	m2mfMaxLines = 2047
)

// Context surfaces 2D.
const (
	surf2dDMAImageSource = 0x0184
	surf2dFormat         = 0x0300
)

// Image blit.
const (
	blitDMANotify = 0x0180
	blitSurface   = 0x019c
	blitOperation = 0x02fc
	blitPointIn   = 0x0300
)

// GDI rectangle text.
const (
	rectDMANotify        = 0x0180
	rectSurface          = 0x0198
	rectOperation        = 0x02fc
	rectColorFormat      = 0x0300
	rectMonochromeFormat = 0x0304
	rectColor1A          = 0x03fc
	rectUnclippedPoint0  = 0x0400

	rectColorFormatA16R5G6B5 = 1
	rectColorFormatA8R8G8B8  = 3
	rectMonochromeFormatLE   = 2
)

// Swizzled surface.
const (
	swzDMAImage = 0x0184
	swzFormat   = 0x0300
	swzOffset   = 0x0304

	swzBaseSizeUShift = 16
	swzBaseSizeVShift = 24
)

// Scaled image from memory.
const (
	sifmDMAImage        = 0x0184
	sifmSurface         = 0x0198
	sifmColorConversion = 0x02fc
	sifmSize            = 0x0400

	sifmColorConversionTruncate = 1
	sifmFormatOriginCenter      = 0x00010000
	sifmFormatFilterPointSample = 0

	// sifmUnitScale is 1.0 in the 12.20 fixed point of DU_DX and DV_DY.
	sifmUnitScale = 1 << 20
)

// operationSrcCopy is SRCCOPY for blit, GDI rect and SIFM.
const operationSrcCopy = 3

// Engine limits.
const (
	// swizzleMaxShift bounds one swizzle blit chunk to 1024x1024 pixels.
	swizzleMaxShift = 10

	// alignShift is the 64-byte offset and pitch alignment required by
	// surf2d and the swizzled surface.
	alignShift = 6
)

// firstHandle is the handle given to the first object of a Context.
const firstHandle = 0x88000000
