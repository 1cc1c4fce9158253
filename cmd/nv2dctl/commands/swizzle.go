// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package commands

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gogpu/nv2d/region"
	"github.com/gogpu/nv2d/swizzle"
)

func newSwizzleCommand() *cobra.Command {
	var (
		w, h, d int
		hex     bool
	)
	cmd := &cobra.Command{
		Use:   "swizzle",
		Short: "Print the swizzled offset of every pixel of a surface",
		Long: `Print the swizzled pixel offset of every (x, y) of a power-of-two
surface, one table per depth slice.`,
		Example: "  nv2dctl swizzle --width 8 --height 4\n  nv2dctl swizzle -W 4 -H 4 -D 2 --hex",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkSwizzleSize(w, h, d); err != nil {
				return err
			}
			return printSwizzle(cmd.OutOrStdout(), w, h, d, hex)
		},
	}
	cmd.Flags().IntVarP(&w, "width", "W", 8, "surface width")
	cmd.Flags().IntVarP(&h, "height", "H", 8, "surface height")
	cmd.Flags().IntVarP(&d, "depth", "D", 1, "surface depth")
	cmd.Flags().BoolVar(&hex, "hex", false, "print offsets in hexadecimal")
	return cmd
}

func checkSwizzleSize(w, h, d int) error {
	for _, v := range []int{w, h, d} {
		if v <= 0 || !region.IsPOT(v) || v > 1<<swizzle.MaxBits {
			return fmt.Errorf("size %dx%dx%d: dimensions must be powers of two up to %d", w, h, d, 1<<swizzle.MaxBits)
		}
	}
	return nil
}

func printSwizzle(out io.Writer, w, h, d int, hex bool) error {
	base := 10
	if hex {
		base = 16
	}
	width := len(strconv.FormatInt(int64(w*h*d-1), base))

	for z := 0; z < d; z++ {
		if d > 1 {
			if _, err := fmt.Fprintf(out, "z=%d\n", z); err != nil {
				return err
			}
		}
		for y := 0; y < h; y++ {
			line := make([]byte, 0, w*(width+1))
			for x := 0; x < w; x++ {
				if x > 0 {
					line = append(line, ' ')
				}
				s := strconv.FormatInt(int64(swizzle.Offset3D(x, y, z, w, h, d)), base)
				for i := len(s); i < width; i++ {
					line = append(line, ' ')
				}
				line = append(line, s...)
			}
			if _, err := fmt.Fprintf(out, "%s\n", line); err != nil {
				return err
			}
		}
	}
	return nil
}
