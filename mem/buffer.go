// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package mem

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// Buffer is one arena allocation. It implements region.Buffer.
type Buffer struct {
	arena  *Arena
	handle uint32
	data   []byte
	freed  bool

	// mode is the intent of the current mapping, 0 when unmapped.
	mode gputypes.MapMode

	// maps counts successful Map calls, for tests and diagnostics.
	maps int
}

// Handle returns the buffer's relocation handle.
func (b *Buffer) Handle() uint32 { return b.handle }

// Size returns the buffer size in bytes, or 0 after Free.
func (b *Buffer) Size() int { return len(b.data) }

// Map returns the buffer contents for CPU access with the given intent.
// Nested mappings are rejected; unmap first.
func (b *Buffer) Map(mode gputypes.MapMode) ([]byte, error) {
	if b.freed {
		return nil, fmt.Errorf("%w: handle %d", ErrFreed, b.handle)
	}
	if b.mode != 0 {
		return nil, fmt.Errorf("%w: handle %d", ErrAlreadyMapped, b.handle)
	}
	b.mode = mode
	b.maps++
	return b.data, nil
}

// Unmap ends the current mapping.
func (b *Buffer) Unmap() {
	b.mode = 0
}

// Mapped returns the intent of the current mapping, or 0.
func (b *Buffer) Mapped() gputypes.MapMode { return b.mode }

// MapCount returns how many times the buffer was mapped.
func (b *Buffer) MapCount() int { return b.maps }

// Bytes returns the backing storage without mapping it.
// It is meant for test setup and inspection only.
func (b *Buffer) Bytes() []byte { return b.data }
