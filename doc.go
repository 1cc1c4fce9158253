// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package nv2d copies and fills texture surfaces on NV04-family GPUs.
//
// # Overview
//
// nv2d moves rectangles of pixels between linear (pitched) and swizzled
// (Morton order) surfaces. Every transfer is first offered to the 2D
// engine, which may emit memory to memory, blit, rectangle fill or
// swizzle conversion commands. Transfers the 2D engine cannot perform go
// to an optional Alternate engine, usually a 3D pipeline blitter, and
// finally to the CPU.
//
// # Quick Start
//
//	ctx, err := nv04.NewContext(channel)
//	if err != nil {
//	    return err
//	}
//	e, err := nv2d.New(ctx, nv2d.WithConfig(cfg))
//	if err != nil {
//	    return err
//	}
//	err = e.Copy(dst, 0, 0, src, 16, 16, 64, 64)
//
// # Architecture
//
// The library is organized into:
//   - swizzle: Morton offsets for 2D and 3D power-of-two surfaces
//   - region: region descriptors and their equivalence transforms
//   - cpu: CPU copy and fill for any layout combination
//   - nv04: 2D engine context, dispatch and command emission
//   - surface: texture levels and their regions
//   - mem, pushbuf: in-memory buffers and command ring for tools and tests
//
// # Coordinate System
//
// Coordinates are in pixels with the origin at the top-left of the
// surface. Regions address elements of at most 4 bytes; wider formats are
// addressed as several elements per pixel.
package nv2d

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
