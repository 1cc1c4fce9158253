// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package pushbuf records an NV04 command stream in memory.
//
// Recorder implements nv04.Channel. It keeps every method group and
// relocation so that emitted streams can be inspected, dumped or replayed,
// and it checks that emission stays within the space reserved by Mark.
package pushbuf

import (
	"errors"
	"fmt"
	"io"

	"github.com/gogpu/nv2d/nv04"
	"github.com/gogpu/nv2d/region"
)

// Recorder errors.
var (
	// ErrOverflow is returned when more words or relocations are emitted
	// than the last Mark reserved.
	ErrOverflow = errors.New("pushbuf: emission exceeds reservation")

	// ErrNoMethod is returned when data is emitted outside a method group.
	ErrNoMethod = errors.New("pushbuf: data without method")

	// ErrShortGroup is returned when a method group receives fewer data
	// words than its Begin declared.
	ErrShortGroup = errors.New("pushbuf: method group incomplete")

	// ErrLongGroup is returned when a method group receives more data
	// words than its Begin declared.
	ErrLongGroup = errors.New("pushbuf: method group overrun")

	// ErrHandleInUse is returned when allocating an object with a handle
	// that is already taken.
	ErrHandleInUse = errors.New("pushbuf: handle in use")
)

// Default DMA object handles.
const (
	DefaultVRAMHandle = 0xbeef0201
	DefaultGARTHandle = 0xbeef0202

	// NotifierClass is the class reported for notifier objects.
	NotifierClass = 0x003d
)

// maxSubchannels is the number of hardware subchannels objects bind to.
const maxSubchannels = 8

// Command is one method group.
type Command struct {
	Object nv04.Object
	Method uint32
	Data   []uint32

	count int
}

// Reloc is a relocation request. Command and Index locate the data word it
// patches.
type Reloc struct {
	Handle  uint32
	Data    uint32
	Flags   nv04.RelocFlags
	Command int
	Index   int
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithVRAMHandle sets the VRAM DMA object handle.
func WithVRAMHandle(h uint32) Option {
	return func(r *Recorder) { r.vram = h }
}

// WithGARTHandle sets the GART DMA object handle.
func WithGARTHandle(h uint32) Option {
	return func(r *Recorder) { r.gart = h }
}

// WithAllocHook installs a function consulted before every object
// allocation. A non-nil error fails the allocation.
func WithAllocHook(fn func(handle, class uint32) error) Option {
	return func(r *Recorder) { r.allocHook = fn }
}

// Recorder is an in-memory nv04.Channel.
//
// Recorder is not safe for concurrent use.
type Recorder struct {
	chipset   uint32
	vram      uint32
	gart      uint32
	allocHook func(handle, class uint32) error

	objects []nv04.Object
	subchan map[uint32]int

	cmds   []Command
	relocs []Reloc

	marked     bool
	wordsLeft  int
	relocsLeft int
	wordsTotal int
	marks      int
	err        error
}

var _ nv04.Channel = (*Recorder)(nil)

// New creates a Recorder posing as the given chipset.
func New(chipset uint32, opts ...Option) *Recorder {
	r := &Recorder{
		chipset: chipset,
		vram:    DefaultVRAMHandle,
		gart:    DefaultGARTHandle,
		subchan: make(map[uint32]int),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Chipset implements nv04.Channel.
func (r *Recorder) Chipset() uint32 { return r.chipset }

// VRAMHandle implements nv04.Channel.
func (r *Recorder) VRAMHandle() uint32 { return r.vram }

// Alloc implements nv04.Channel.
func (r *Recorder) Alloc(handle, class uint32) (nv04.Object, error) {
	return r.alloc(handle, class)
}

// AllocNotifier implements nv04.Channel.
func (r *Recorder) AllocNotifier(handle uint32) (nv04.Object, error) {
	return r.alloc(handle, NotifierClass)
}

func (r *Recorder) alloc(handle, class uint32) (nv04.Object, error) {
	if r.allocHook != nil {
		if err := r.allocHook(handle, class); err != nil {
			return nv04.Object{}, err
		}
	}
	if _, ok := r.subchan[handle]; ok {
		return nv04.Object{}, fmt.Errorf("%w: 0x%08x", ErrHandleInUse, handle)
	}
	obj := nv04.Object{Handle: handle, Class: class}
	r.subchan[handle] = len(r.objects) % maxSubchannels
	r.objects = append(r.objects, obj)
	return obj, nil
}

// Objects returns the allocated objects in allocation order.
func (r *Recorder) Objects() []nv04.Object { return r.objects }

// Mark implements nv04.Ring. Each Mark replaces the previous reservation.
func (r *Recorder) Mark(words, relocs int) {
	r.checkGroup()
	r.marked = true
	r.wordsLeft = words
	r.relocsLeft = relocs
	r.marks++
}

// Begin implements nv04.Ring.
func (r *Recorder) Begin(obj nv04.Object, method uint32, count int) {
	r.checkGroup()
	r.consume(1, 0)
	r.cmds = append(r.cmds, Command{
		Object: obj,
		Method: method,
		Data:   make([]uint32, 0, count),
		count:  count,
	})
}

// Data implements nv04.Ring.
func (r *Recorder) Data(words ...uint32) {
	c := r.current(len(words))
	if c == nil {
		return
	}
	r.consume(len(words), 0)
	c.Data = append(c.Data, words...)
}

// Reloc implements nv04.Ring. The recorded data word is the value the
// relocation resolves to for a buffer placed at address 0.
func (r *Recorder) Reloc(buf region.Buffer, data uint32, flags nv04.RelocFlags) {
	c := r.current(1)
	if c == nil {
		return
	}
	r.consume(1, 1)
	r.relocs = append(r.relocs, Reloc{
		Handle:  buf.Handle(),
		Data:    data,
		Flags:   flags,
		Command: len(r.cmds) - 1,
		Index:   len(c.Data),
	})
	c.Data = append(c.Data, r.resolve(data, flags))
}

func (r *Recorder) resolve(data uint32, flags nv04.RelocFlags) uint32 {
	if flags&nv04.RelocObject == 0 {
		return data
	}
	if flags&nv04.RelocVRAM != 0 {
		return r.vram
	}
	return r.gart
}

// current returns the open method group if it can take n more words.
func (r *Recorder) current(n int) *Command {
	if len(r.cmds) == 0 {
		r.fail(ErrNoMethod)
		return nil
	}
	c := &r.cmds[len(r.cmds)-1]
	if len(c.Data)+n > c.count {
		r.fail(fmt.Errorf("%w: method 0x%04x takes %d words", ErrLongGroup, c.Method, c.count))
		return nil
	}
	return c
}

func (r *Recorder) checkGroup() {
	if len(r.cmds) == 0 {
		return
	}
	if c := r.cmds[len(r.cmds)-1]; len(c.Data) < c.count {
		r.fail(fmt.Errorf("%w: method 0x%04x got %d of %d words", ErrShortGroup, c.Method, len(c.Data), c.count))
	}
}

func (r *Recorder) consume(words, relocs int) {
	r.wordsTotal += words
	if !r.marked {
		return
	}
	r.wordsLeft -= words
	r.relocsLeft -= relocs
	if r.wordsLeft < 0 || r.relocsLeft < 0 {
		r.fail(fmt.Errorf("%w: %d words, %d relocs over", ErrOverflow, -min(r.wordsLeft, 0), -min(r.relocsLeft, 0)))
	}
}

func (r *Recorder) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

// Err returns the first emission error, including an unfinished trailing
// method group.
func (r *Recorder) Err() error {
	if r.err != nil {
		return r.err
	}
	if n := len(r.cmds); n > 0 {
		if c := r.cmds[n-1]; len(c.Data) < c.count {
			return fmt.Errorf("%w: method 0x%04x got %d of %d words", ErrShortGroup, c.Method, len(c.Data), c.count)
		}
	}
	return nil
}

// Commands returns the recorded method groups.
func (r *Recorder) Commands() []Command { return r.cmds }

// Relocs returns the recorded relocations.
func (r *Recorder) Relocs() []Reloc { return r.relocs }

// Marks returns the number of Mark calls since the last Reset.
func (r *Recorder) Marks() int { return r.marks }

// Len returns the number of ring words emitted since the last Reset.
func (r *Recorder) Len() int { return r.wordsTotal }

// Words flattens the recorded groups into ring words: a method header
// followed by the group data.
func (r *Recorder) Words() []uint32 {
	out := make([]uint32, 0, r.wordsTotal)
	for _, c := range r.cmds {
		out = append(out, Header(r.subchan[c.Object.Handle], c.Method, len(c.Data)))
		out = append(out, c.Data...)
	}
	return out
}

// Header encodes an NV04 method header.
func Header(subc int, method uint32, count int) uint32 {
	return uint32(count)<<18 | uint32(subc)<<13 | method
}

// Reset drops recorded commands, relocations and errors. Objects stay
// allocated.
func (r *Recorder) Reset() {
	r.cmds = r.cmds[:0]
	r.relocs = r.relocs[:0]
	r.marked = false
	r.wordsLeft, r.relocsLeft = 0, 0
	r.wordsTotal = 0
	r.marks = 0
	r.err = nil
}

// Dump writes a readable listing of the recorded stream to w.
func (r *Recorder) Dump(w io.Writer) error {
	reloc := make(map[[2]int]Reloc, len(r.relocs))
	for _, rl := range r.relocs {
		reloc[[2]int{rl.Command, rl.Index}] = rl
	}
	for i, c := range r.cmds {
		if _, err := fmt.Fprintf(w, "%08x:%04x 0x%04x [%d]\n", c.Object.Handle, c.Object.Class, c.Method, len(c.Data)); err != nil {
			return err
		}
		for j, d := range c.Data {
			line := fmt.Sprintf("    0x%08x", d)
			if rl, ok := reloc[[2]int{i, j}]; ok {
				line += fmt.Sprintf("  reloc bo %d %s", rl.Handle, FlagString(rl.Flags))
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

// FlagString formats relocation flags, for example "rd|vram|low".
func FlagString(f nv04.RelocFlags) string {
	names := []struct {
		flag nv04.RelocFlags
		name string
	}{
		{nv04.RelocRead, "rd"},
		{nv04.RelocWrite, "wr"},
		{nv04.RelocVRAM, "vram"},
		{nv04.RelocGART, "gart"},
		{nv04.RelocLow, "low"},
		{nv04.RelocObject, "obj"},
	}
	s := ""
	for _, n := range names {
		if f&n.flag != 0 {
			if s != "" {
				s += "|"
			}
			s += n.name
		}
	}
	if s == "" {
		return "none"
	}
	return s
}
