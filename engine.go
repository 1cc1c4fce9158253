// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package nv2d

import (
	"errors"
	"fmt"

	"github.com/gogpu/nv2d/cpu"
	"github.com/gogpu/nv2d/nv04"
	"github.com/gogpu/nv2d/region"
	"github.com/gogpu/nv2d/surface"
)

// ErrNilContext is returned by New when no 2D engine context is given.
var ErrNilContext = errors.New("nv2d: nil engine context")

// renderTempAlign is the pitch alignment of render temporaries.
const renderTempAlign = 64

// Path identifies the engine that finished a transfer.
type Path int

const (
	// PathHardware is the 2D engine.
	PathHardware Path = iota
	// PathAlternate is the Alternate engine.
	PathAlternate
	// PathCPU is the CPU fallback.
	PathCPU
)

// String returns the path name.
func (p Path) String() string {
	switch p {
	case PathHardware:
		return "hardware"
	case PathAlternate:
		return "alternate"
	case PathCPU:
		return "cpu"
	default:
		return fmt.Sprintf("Path(%d)", int(p))
	}
}

// Stats counts transfers by the path that completed them.
type Stats struct {
	Copies [3]int
	Fills  [3]int
}

// String returns a human-readable summary.
func (s Stats) String() string {
	return fmt.Sprintf("copies hw=%d alt=%d cpu=%d, fills hw=%d alt=%d cpu=%d",
		s.Copies[PathHardware], s.Copies[PathAlternate], s.Copies[PathCPU],
		s.Fills[PathHardware], s.Fills[PathAlternate], s.Fills[PathCPU])
}

// Engine chains the 2D engine, an optional alternate engine and the CPU
// fallback for surface copies and fills.
//
// Engine is not safe for concurrent use; it writes to a single command
// ring.
type Engine struct {
	ctx   *nv04.Context
	cfg   Config
	alt   Alternate
	stats Stats
}

// New creates an Engine on a 2D engine context.
func New(ctx *nv04.Context, opts ...Option) (*Engine, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Engine{
		ctx: ctx,
		cfg: o.config.normalize(),
		alt: o.alternate,
	}, nil
}

// Config returns the effective configuration.
func (e *Engine) Config() Config { return e.cfg }

// Stats returns the transfer counters.
func (e *Engine) Stats() Stats { return e.stats }

// Copy copies a w×h pixel rectangle from (sx, sy) in src to (dx, dy) in
// dst. Pending GPU work on both surfaces must be fenced before the CPU
// fallback can run; callers flush first.
func (e *Engine) Copy(dst *surface.Surface, dx, dy int, src *surface.Surface, sx, sy, w, h int) error {
	if w <= 0 || h <= 0 {
		return nil
	}
	log := Logger()
	dstGPU, srcGPU := dst.GPUWritable(), src.OnGPU()

	t := nv04.Transfer{Dst: dst.Region(dx, dy), Src: src.Region(sx, sy)}
	t.W, t.H = dst.Blocks(w, h)

	res := nv04.UseCPU
	if (!dstGPU || !srcGPU) && t.W*t.H <= e.cfg.CopyThreshold {
		log.Debug("nv2d: copy below threshold", "elements", t.W*t.H, "threshold", e.cfg.CopyThreshold)
	} else {
		t, res = e.ctx.Copy(t, nv04.SurfaceFormat(dst.Format), nv04.ScaledImageFormat(dst.Format), dstGPU, srcGPU)
	}

	switch res {
	case nv04.Handled:
		e.stats.Copies[PathHardware]++
		return nil
	case nv04.TryAlternate:
		if e.alt != nil && dst.Usage.Has(surface.BindRenderTarget) && src.Usage.Has(surface.BindSampler) {
			err := e.alt.Copy(dst, dx, dy, src, sx, sy, w, h)
			if err == nil {
				e.stats.Copies[PathAlternate]++
				return nil
			}
			e.alternateFailed("copy", err)
		}
	}

	log.Debug("nv2d: copy on cpu", "dst", t.Dst, "src", t.Src, "w", t.W, "h", t.H)
	if err := cpu.Copy(t.Dst, t.Src, t.W, t.H); err != nil {
		return fmt.Errorf("nv2d: copy: %w", err)
	}
	e.stats.Copies[PathCPU]++
	return nil
}

// Fill sets a w×h pixel rectangle at (dx, dy) in dst to value.
func (e *Engine) Fill(dst *surface.Surface, dx, dy, w, h int, value uint32) error {
	if w <= 0 || h <= 0 {
		return nil
	}

	t := nv04.Transfer{Dst: dst.Region(dx, dy)}
	t.W, t.H = dst.Blocks(w, h)

	t, res := e.ctx.Fill(t, value)
	switch res {
	case nv04.Handled:
		e.stats.Fills[PathHardware]++
		return nil
	case nv04.TryAlternate:
		if e.alt != nil && dst.Usage.Has(surface.BindRenderTarget) {
			err := e.alt.Fill(dst, dx, dy, w, h, value)
			if err == nil {
				e.stats.Fills[PathAlternate]++
				return nil
			}
			e.alternateFailed("fill", err)
		}
	}

	Logger().Debug("nv2d: fill on cpu", "dst", t.Dst, "w", t.W, "h", t.H)
	if err := cpu.Fill(t.Dst, t.W, t.H, value); err != nil {
		return fmt.Errorf("nv2d: fill: %w", err)
	}
	e.stats.Fills[PathCPU]++
	return nil
}

func (e *Engine) alternateFailed(op string, err error) {
	if errors.Is(err, ErrFallbackToCPU) {
		Logger().Debug("nv2d: alternate declined "+op, "err", err)
		return
	}
	Logger().Warn("nv2d: alternate "+op+" failed, using cpu", "err", err)
}

// RenderTempPitch returns the row pitch of the render temporary of s.
func RenderTempPitch(s *surface.Surface) int {
	return region.AlignUp(s.Stride(s.Width), renderTempAlign)
}

// RenderTempSize returns the buffer size needed for the render temporary
// of s.
func RenderTempSize(s *surface.Surface) int {
	return RenderTempPitch(s) * s.Height
}

// CopyRenderTemp copies the whole of s into the linear render temporary
// tmp when toTemp is set, and back from tmp into s otherwise. tmp is
// addressed with RenderTempPitch and must hold RenderTempSize bytes.
//
// Both sides are treated as GPU resident; no alternate engine is tried.
func (e *Engine) CopyRenderTemp(s *surface.Surface, tmp region.Buffer, toTemp bool) error {
	surf := s.Region(0, 0)
	temp := region.Region{
		Buffer:   tmp,
		BPPShift: surf.BPPShift,
		Layout:   region.Linear{Pitch: RenderTempPitch(s)},
	}
	w, h := s.Blocks(s.Width, s.Height)

	t := nv04.Transfer{Dst: surf, Src: temp, W: w, H: h}
	if toTemp {
		t.Dst, t.Src = temp, surf
	}

	t, res := e.ctx.Copy(t, nv04.SurfaceFormat(s.Format), nv04.ScaledImageFormat(s.Format), true, true)
	if res == nv04.Handled {
		e.stats.Copies[PathHardware]++
		return nil
	}
	Logger().Debug("nv2d: render temp copy on cpu", "to_temp", toTemp, "result", res)
	if err := cpu.Copy(t.Dst, t.Src, t.W, t.H); err != nil {
		return fmt.Errorf("nv2d: render temp: %w", err)
	}
	e.stats.Copies[PathCPU]++
	return nil
}
