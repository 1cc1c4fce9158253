// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package nv04

import "github.com/gogpu/gputypes"

// FormatCode is a hardware color format code.
type FormatCode int32

// InvalidFormat marks a pixel format the engine cannot handle.
const InvalidFormat FormatCode = -1

// Valid reports whether f is a usable format code.
func (f FormatCode) Valid() bool { return f >= 0 }

// Context surfaces 2D color formats.
const (
	Surf2DY8       FormatCode = 0x01
	Surf2DR5G6B5   FormatCode = 0x04
	Surf2DY16      FormatCode = 0x05
	Surf2DA8R8G8B8 FormatCode = 0x0a
	Surf2DY32      FormatCode = 0x0b
)

// Scaled image from memory color formats.
const (
	SIFMA8R8G8B8 FormatCode = 0x03
	SIFMR5G6B5   FormatCode = 0x07
	SIFMY8       FormatCode = 0x08
)

// BlockSize returns the size in bytes of one texel block of f, or 0 for
// formats this package does not know.
func BlockSize(f gputypes.TextureFormat) int {
	switch f {
	case gputypes.TextureFormatR8Unorm:
		return 1
	case gputypes.TextureFormatRG8Unorm, gputypes.TextureFormatR16Float:
		return 2
	case gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatRGBA8UnormSrgb,
		gputypes.TextureFormatBGRA8Unorm, gputypes.TextureFormatBGRA8UnormSrgb,
		gputypes.TextureFormatR32Float, gputypes.TextureFormatDepth24PlusStencil8:
		return 4
	case gputypes.TextureFormatRG32Float:
		return 8
	case gputypes.TextureFormatRGBA32Float:
		return 16
	default:
		return 0
	}
}

// SurfaceFormat returns the surf2d and swizzled surface format for f.
// Formats are treated as raw data: only the block size matters.
func SurfaceFormat(f gputypes.TextureFormat) FormatCode {
	switch BlockSize(f) {
	case 1:
		return Surf2DY8
	case 2:
		return Surf2DR5G6B5
	case 4:
		return Surf2DA8R8G8B8
	default:
		return InvalidFormat
	}
}

// ScaledImageFormat returns the SIFM source format for f.
func ScaledImageFormat(f gputypes.TextureFormat) FormatCode {
	switch BlockSize(f) {
	case 1:
		return SIFMY8
	case 2:
		return SIFMR5G6B5
	case 4:
		return SIFMA8R8G8B8
	default:
		return InvalidFormat
	}
}
