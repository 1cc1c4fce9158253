// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package commands

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"math/bits"
	"os"

	"github.com/spf13/cobra"
	_ "golang.org/x/image/bmp"  // register BMP decoder
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder
	"golang.org/x/term"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/nv2d"
	"github.com/gogpu/nv2d/mem"
	"github.com/gogpu/nv2d/nv04"
	"github.com/gogpu/nv2d/pushbuf"
	"github.com/gogpu/nv2d/surface"
	"github.com/gogpu/nv2d/swizzle"
)

// ErrTerminalOutput is returned when binary output would go to a terminal.
var ErrTerminalOutput = errors.New("refusing to write binary data to a terminal (use -o or --force)")

var scalers = map[string]draw.Scaler{
	"nearest":    draw.NearestNeighbor,
	"approx":     draw.ApproxBiLinear,
	"bilinear":   draw.BiLinear,
	"catmullrom": draw.CatmullRom,
}

func newTileCommand() *cobra.Command {
	var (
		size   []int
		format string
		filter string
		output string
		force  bool
	)
	cmd := &cobra.Command{
		Use:   "tile IMAGE",
		Short: "Convert an image into swizzled texture data",
		Long: `Scale an image to a power-of-two size and write it as the raw
bytes of a swizzled rgba8 or bgra8 surface.

Without --size the image is scaled up to the next power of two in each
dimension.`,
		Example: "  nv2dctl tile logo.png -o logo.swz\n  nv2dctl tile photo.jpg --size 256,128 --filter catmullrom -o photo.swz",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFormat(format)
			if err != nil {
				return err
			}
			if f != gputypes.TextureFormatRGBA8Unorm && f != gputypes.TextureFormatBGRA8Unorm {
				return fmt.Errorf("tile writes rgba8 or bgra8, not %s", format)
			}
			scaler, ok := scalers[filter]
			if !ok {
				return fmt.Errorf("unknown filter %q", filter)
			}

			img, err := decodeFile(args[0])
			if err != nil {
				return err
			}
			w, h := nextPOT(img.Bounds().Dx()), nextPOT(img.Bounds().Dy())
			if len(size) == 2 {
				w, h = size[0], size[1]
			} else if len(size) != 0 {
				return errors.New("--size takes width,height")
			}
			if err := checkSwizzleSize(w, h, 1); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if output != "" {
				file, err := os.Create(output)
				if err != nil {
					return err
				}
				defer file.Close()
				out = file
			} else if isTerminal(out) && !force {
				return ErrTerminalOutput
			}

			data, err := tile(img, w, h, f, scaler)
			if err != nil {
				return err
			}
			if _, err := out.Write(data); err != nil {
				return err
			}
			nv2d.Logger().Info("nv2dctl: tiled", "src", args[0], "w", w, "h", h, "bytes", len(data))
			return nil
		},
	}
	fl := cmd.Flags()
	fl.IntSliceVar(&size, "size", nil, "output width,height (powers of two)")
	fl.StringVarP(&format, "format", "f", "rgba8", "output format: rgba8 or bgra8")
	fl.StringVar(&filter, "filter", "bilinear", "scaling filter: nearest, approx, bilinear or catmullrom")
	fl.StringVarP(&output, "output", "o", "", "output file (default stdout)")
	fl.BoolVar(&force, "force", false, "write binary data to a terminal")
	return cmd
}

func decodeFile(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return img, nil
}

// tile scales img to w×h and returns it in the swizzled layout of format.
func tile(img image.Image, w, h int, format gputypes.TextureFormat, scaler draw.Scaler) ([]byte, error) {
	scaled := image.NewRGBA(image.Rect(0, 0, w, h))
	scaler.Scale(scaled, scaled.Bounds(), img, img.Bounds(), draw.Src, nil)
	if format == gputypes.TextureFormatBGRA8Unorm {
		for i := 0; i+3 < len(scaled.Pix); i += 4 {
			scaled.Pix[i], scaled.Pix[i+2] = scaled.Pix[i+2], scaled.Pix[i]
		}
	}

	rec := pushbuf.New(settings.Chipset)
	ctx, err := nv04.NewContext(rec)
	if err != nil {
		return nil, err
	}
	e, err := nv2d.New(ctx, nv2d.WithConfig(settings.Engine))
	if err != nil {
		return nil, err
	}

	arena := mem.NewArena(0)
	srcBuf, err := arena.Alloc(len(scaled.Pix))
	if err != nil {
		return nil, err
	}
	copy(srcBuf.Bytes(), scaled.Pix)
	dstBuf, err := arena.Alloc(len(scaled.Pix))
	if err != nil {
		return nil, err
	}

	// Both sides live in system memory, so the engine does the copy on
	// the CPU.
	src, err := surface.NewLinear(srcBuf, format, w, h, scaled.Stride, surface.UsageDynamic)
	if err != nil {
		return nil, err
	}
	size := gputypes.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1}
	dst, err := surface.NewSwizzled(dstBuf, format, size, surface.UsageDynamic)
	if err != nil {
		return nil, err
	}
	if err := e.Copy(dst, 0, 0, src, 0, 0, w, h); err != nil {
		return nil, err
	}
	return dstBuf.Bytes(), nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func nextPOT(v int) int {
	if v <= 1 {
		return 1
	}
	return min(1<<bits.Len(uint(v-1)), 1<<swizzle.MaxBits)
}
