// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package commands implements the nv2dctl subcommands.
package commands

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/nv2d"
	"github.com/gogpu/nv2d/internal/config"
)

var (
	cfgFile  string
	verbose  bool
	settings *config.Settings
)

// NewRootCommand builds the nv2dctl command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "nv2dctl",
		Short: "Inspect NV04 surface layouts and 2D engine dispatch",
		Long: `nv2dctl works with the NV04 2D engine model of nv2d without a GPU.

It prints swizzled offset tables, records the commands a copy or fill
would emit, and converts images into swizzled texture data.`,
		Version:       nv2d.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			s, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			if verbose {
				s.LogLevel = slog.LevelDebug
			}
			settings = s

			h := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: s.LogLevel})
			nv2d.SetLogger(slog.New(h))
			if s.Source != "" {
				nv2d.Logger().Debug("nv2dctl: using config", "file", s.Source)
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/nv2d/nv2d.yaml)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log dispatch decisions")

	root.AddCommand(newSwizzleCommand(), newDispatchCommand(), newTileCommand())
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}

var formats = map[string]gputypes.TextureFormat{
	"r8":      gputypes.TextureFormatR8Unorm,
	"rgba8":   gputypes.TextureFormatRGBA8Unorm,
	"bgra8":   gputypes.TextureFormatBGRA8Unorm,
	"r32f":    gputypes.TextureFormatR32Float,
	"rg32f":   gputypes.TextureFormatRG32Float,
	"rgba32f": gputypes.TextureFormatRGBA32Float,
}

func parseFormat(name string) (gputypes.TextureFormat, error) {
	f, ok := formats[strings.ToLower(name)]
	if !ok {
		return gputypes.TextureFormatUndefined, fmt.Errorf("unknown format %q", name)
	}
	return f, nil
}
