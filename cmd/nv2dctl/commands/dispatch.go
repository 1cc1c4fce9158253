// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/nv2d"
	"github.com/gogpu/nv2d/mem"
	"github.com/gogpu/nv2d/nv04"
	"github.com/gogpu/nv2d/pushbuf"
	"github.com/gogpu/nv2d/region"
	"github.com/gogpu/nv2d/surface"
)

var (
	errSurfaceSyntax  = errors.New("surface must be linear:WxH[:pitch] or swizzled:WxH[xD]")
	errOutsideSurface = errors.New("rectangle outside surface")
)

func newDispatchCommand() *cobra.Command {
	var (
		op, format     string
		dstDesc        string
		srcDesc        string
		dstAt, srcAt   []int
		size           []int
		dynamic, onCPU bool
		value          uint32
	)
	cmd := &cobra.Command{
		Use:   "dispatch",
		Short: "Record the commands a copy or fill would emit",
		Long: `Run a copy or fill through the engine against a command recorder
and print the chosen path and the recorded command stream.`,
		Example: `  nv2dctl dispatch --dst swizzled:64x64 --src linear:64x64 --size 64,64
  nv2dctl dispatch --op fill --dst linear:100x20:512 --at 3,2 --size 40,10 --value 0xff00ff00`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := parseFormat(format)
			if err != nil {
				return err
			}
			if len(size) != 2 || len(dstAt) != 2 || len(srcAt) != 2 {
				return errors.New("--size, --at and --src-at take two values")
			}

			rec := pushbuf.New(settings.Chipset)
			ctx, err := nv04.NewContext(rec)
			if err != nil {
				return err
			}
			rec.Reset()
			e, err := nv2d.New(ctx, nv2d.WithConfig(settings.Engine))
			if err != nil {
				return err
			}
			arena := mem.NewArena(mem.DefaultBudget)

			dstUsage := surface.BindRenderTarget | surface.UsageOnGPU
			if dynamic {
				dstUsage = surface.UsageDynamic
			}
			dst, err := newSurface(arena, f, dstDesc, dstUsage)
			if err != nil {
				return fmt.Errorf("--dst: %w", err)
			}

			switch op {
			case "copy":
				srcUsage := surface.BindSampler | surface.UsageOnGPU
				if onCPU {
					srcUsage = 0
				}
				src, err := newSurface(arena, f, srcDesc, srcUsage)
				if err != nil {
					return fmt.Errorf("--src: %w", err)
				}
				if err := checkRect(src, srcAt, size); err != nil {
					return fmt.Errorf("--src: %w", err)
				}
				if err := checkRect(dst, dstAt, size); err != nil {
					return fmt.Errorf("--dst: %w", err)
				}
				err = e.Copy(dst, dstAt[0], dstAt[1], src, srcAt[0], srcAt[1], size[0], size[1])
				if err != nil {
					return err
				}
			case "fill":
				if err := checkRect(dst, dstAt, size); err != nil {
					return fmt.Errorf("--dst: %w", err)
				}
				if err := e.Fill(dst, dstAt[0], dstAt[1], size[0], size[1], value); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown operation %q", op)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "dst: %s\n", dst)
			fmt.Fprintf(out, "%s\n", e.Stats())
			fmt.Fprintf(out, "recorded %d words in %d marks\n", rec.Len(), rec.Marks())
			if err := rec.Err(); err != nil {
				return fmt.Errorf("recorder: %w", err)
			}
			return rec.Dump(out)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&op, "op", "copy", "operation: copy or fill")
	fl.StringVarP(&format, "format", "f", "rgba8", "pixel format")
	fl.StringVar(&dstDesc, "dst", "linear:64x64", "destination surface")
	fl.StringVar(&srcDesc, "src", "linear:64x64", "source surface")
	fl.IntSliceVar(&dstAt, "at", []int{0, 0}, "destination x,y")
	fl.IntSliceVar(&srcAt, "src-at", []int{0, 0}, "source x,y")
	fl.IntSliceVar(&size, "size", []int{16, 16}, "transfer width,height in pixels")
	fl.BoolVar(&dynamic, "dst-dynamic", false, "destination is CPU written")
	fl.BoolVar(&onCPU, "src-cpu", false, "source lives in system memory")
	fl.Uint32Var(&value, "value", 0, "fill value")
	return cmd
}

// newSurface allocates a zeroed surface described by desc.
func newSurface(a *mem.Arena, f gputypes.TextureFormat, desc string, usage surface.Usage) (*surface.Surface, error) {
	kind, rest, ok := strings.Cut(desc, ":")
	if !ok {
		return nil, errSurfaceSyntax
	}
	fields := strings.Split(rest, ":")
	dims, err := parseDims(fields[0])
	if err != nil {
		return nil, err
	}
	bs := nv04.BlockSize(f)

	switch {
	case kind == "linear" && len(dims) == 2 && len(fields) <= 2:
		pitch := region.AlignUp(dims[0]*bs, 64)
		if len(fields) == 2 {
			if pitch, err = strconv.Atoi(fields[1]); err != nil {
				return nil, fmt.Errorf("pitch: %w", err)
			}
		}
		buf, err := a.Alloc(max(pitch*dims[1], 1))
		if err != nil {
			return nil, err
		}
		return surface.NewLinear(buf, f, dims[0], dims[1], pitch, usage)
	case kind == "swizzled" && len(fields) == 1:
		ext := gputypes.Extent3D{Width: uint32(dims[0]), Height: uint32(dims[1]), DepthOrArrayLayers: 1}
		if len(dims) == 3 {
			ext.DepthOrArrayLayers = uint32(dims[2])
		}
		buf, err := a.Alloc(max(dims[0]*dims[1]*int(ext.DepthOrArrayLayers)*bs, 1))
		if err != nil {
			return nil, err
		}
		return surface.NewSwizzled(buf, f, ext, usage)
	}
	return nil, errSurfaceSyntax
}

// checkRect reports whether the size[0]×size[1] pixel rectangle at at fits
// s, so that the engine never sees a window it would reject with a panic.
func checkRect(s *surface.Surface, at, size []int) error {
	if size[0] <= 0 || size[1] <= 0 {
		return nil
	}
	if at[0] < 0 || at[1] < 0 || at[0]+size[0] > s.Width || at[1]+size[1] > s.Height {
		return fmt.Errorf("%w: %dx%d at (%d, %d) in %dx%d",
			errOutsideSurface, size[0], size[1], at[0], at[1], s.Width, s.Height)
	}
	w, h := s.Blocks(size[0], size[1])
	return s.Region(at[0], at[1]).Validate(w, h)
}

func parseDims(s string) ([]int, error) {
	parts := strings.Split(s, "x")
	if len(parts) < 2 || len(parts) > 3 {
		return nil, errSurfaceSyntax
	}
	dims := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil || v <= 0 {
			return nil, fmt.Errorf("%w: bad size %q", errSurfaceSyntax, s)
		}
		dims[i] = v
	}
	return dims, nil
}
