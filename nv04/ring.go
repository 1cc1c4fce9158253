// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package nv04

import "github.com/gogpu/nv2d/region"

// Object is a graphics object allocated on a channel.
type Object struct {
	Handle uint32
	Class  uint32
}

// RelocFlags describe how a relocation is resolved and what access the
// command performs on the buffer.
type RelocFlags uint32

// Relocation flags.
const (
	RelocRead RelocFlags = 1 << iota
	RelocWrite
	RelocVRAM
	RelocGART

	// RelocLow emits the low 32 bits of the buffer address plus data.
	RelocLow

	// RelocObject emits the DMA object handle of the domain the buffer
	// resides in.
	RelocObject
)

// Ring is the command stream the engine writes to. Implementations are
// write-only sinks; errors surface at submission, not per call.
type Ring interface {
	// Mark reserves room for the next command sequence.
	Mark(words, relocs int)

	// Begin starts a method group of count data words on obj.
	Begin(obj Object, method uint32, count int)

	// Data appends data words to the current method group.
	Data(words ...uint32)

	// Reloc appends one data word resolved from buf at submission time.
	Reloc(buf region.Buffer, data uint32, flags RelocFlags)
}

// Channel is a Ring that can also allocate objects.
type Channel interface {
	Ring

	// Chipset returns the GPU chipset id, for example 0x40 for NV40.
	Chipset() uint32

	// Alloc creates a graphics object of the given class.
	Alloc(handle, class uint32) (Object, error)

	// AllocNotifier creates a notifier object.
	AllocNotifier(handle uint32) (Object, error)

	// VRAMHandle returns the handle of the VRAM DMA object.
	VRAMHandle() uint32
}
