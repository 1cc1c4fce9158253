// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package mem is a CPU-side buffer allocator that hands out region.Buffer
// handles.
//
// It stands in for the driver's buffer-object allocator: buffers have a
// stable handle, a fixed size and a map/unmap protocol with read/write
// intent. Ownership stays with the Arena; regions only borrow buffers.
package mem

import (
	"errors"
	"fmt"
	"sync"
)

// Arena errors.
var (
	// ErrBudgetExceeded is returned when an allocation would exceed the arena budget.
	ErrBudgetExceeded = errors.New("mem: budget exceeded")

	// ErrInvalidSize is returned for non-positive allocation sizes.
	ErrInvalidSize = errors.New("mem: invalid buffer size")

	// ErrAlreadyMapped is returned when mapping a buffer that is already mapped.
	ErrAlreadyMapped = errors.New("mem: buffer already mapped")

	// ErrFreed is returned when using a buffer after Free.
	ErrFreed = errors.New("mem: buffer has been freed")

	// ErrForeignBuffer is returned when freeing a buffer from another arena.
	ErrForeignBuffer = errors.New("mem: buffer does not belong to this arena")
)

// DefaultBudget is the arena budget used when none is configured (64 MiB).
const DefaultBudget = 64 << 20

// firstHandle is the handle of the first allocation. Handles are never reused.
const firstHandle = 1

// Stats is a snapshot of arena usage.
type Stats struct {
	BudgetBytes int
	UsedBytes   int
	Buffers     int
	Mapped      int
}

// String returns a human-readable summary.
func (s Stats) String() string {
	return fmt.Sprintf("Arena[%d/%d bytes, %d buffers, %d mapped]",
		s.UsedBytes, s.BudgetBytes, s.Buffers, s.Mapped)
}

// Arena allocates buffers against a byte budget.
//
// Arena is safe for concurrent use. Individual buffers are not: map and
// unmap of one buffer must be serialized by the caller.
type Arena struct {
	mu      sync.Mutex
	budget  int
	used    int
	next    uint32
	buffers map[uint32]*Buffer
}

// NewArena creates an arena with the given budget in bytes.
// A budget <= 0 selects DefaultBudget.
func NewArena(budget int) *Arena {
	if budget <= 0 {
		budget = DefaultBudget
	}
	return &Arena{
		budget:  budget,
		next:    firstHandle,
		buffers: make(map[uint32]*Buffer),
	}
}

// Alloc returns a zeroed buffer of size bytes.
func (a *Arena) Alloc(size int) (*Buffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.used+size > a.budget {
		return nil, fmt.Errorf("%w: need %d, %d of %d in use", ErrBudgetExceeded, size, a.used, a.budget)
	}
	b := &Buffer{
		arena:  a,
		handle: a.next,
		data:   make([]byte, size),
	}
	a.next++
	a.used += size
	a.buffers[b.handle] = b
	return b, nil
}

// Free releases a buffer. Freed buffers can no longer be mapped.
func (a *Arena) Free(b *Buffer) error {
	if b == nil || b.arena != a {
		return ErrForeignBuffer
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.buffers[b.handle]; !ok {
		return ErrFreed
	}
	delete(a.buffers, b.handle)
	a.used -= len(b.data)
	b.freed = true
	b.data = nil
	return nil
}

// Lookup returns the live buffer with the given handle.
func (a *Arena) Lookup(handle uint32) (*Buffer, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	b, ok := a.buffers[handle]
	return b, ok
}

// Stats returns current usage.
func (a *Arena) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()

	mapped := 0
	for _, b := range a.buffers {
		if b.mode != 0 {
			mapped++
		}
	}
	return Stats{
		BudgetBytes: a.budget,
		UsedBytes:   a.used,
		Buffers:     len(a.buffers),
		Mapped:      mapped,
	}
}
