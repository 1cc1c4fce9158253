// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package config loads nv2d settings from a YAML file and the environment.
//
// Keys, with their environment variables:
//
//	copy_threshold  NV2D_COPY_THRESHOLD (or the legacy NOUVEAU_COPY_THRESHOLD)
//	chipset         NV2D_CHIPSET
//	log_level       NV2D_LOG_LEVEL
//
// Environment variables override the file, which overrides the defaults.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/gogpu/nv2d"
)

// DefaultChipset is the chipset assumed when none is configured.
const DefaultChipset = 0x40

// ErrInvalidLogLevel is returned for an unrecognized log_level.
var ErrInvalidLogLevel = errors.New("config: log_level must be one of debug, info, warn, error")

// File mirrors the configuration keys.
type File struct {
	CopyThreshold int    `mapstructure:"copy_threshold"`
	Chipset       uint32 `mapstructure:"chipset"`
	LogLevel      string `mapstructure:"log_level"`
}

// Settings is the resolved configuration.
type Settings struct {
	Engine   nv2d.Config
	Chipset  uint32
	LogLevel slog.Level

	// Source is the config file that was read, or empty.
	Source string
}

// Default returns the settings used when nothing is configured.
func Default() File {
	return File{
		CopyThreshold: nv2d.DefaultConfig().CopyThreshold,
		Chipset:       DefaultChipset,
		LogLevel:      "warn",
	}
}

// Load reads cfgFile, or nv2d.yaml from $HOME/.config/nv2d and the working
// directory when cfgFile is empty, then applies the environment. A missing
// search-path file is not an error; a missing cfgFile is.
func Load(cfgFile string) (*Settings, error) {
	v := viper.New()

	def := Default()
	v.SetDefault("copy_threshold", def.CopyThreshold)
	v.SetDefault("chipset", def.Chipset)
	v.SetDefault("log_level", def.LogLevel)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "nv2d"))
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName("nv2d")
	}

	v.SetEnvPrefix("NV2D")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// First name wins.
	if err := v.BindEnv("copy_threshold", "NV2D_COPY_THRESHOLD", "NOUVEAU_COPY_THRESHOLD"); err != nil {
		return nil, fmt.Errorf("config: binding environment: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: reading: %w", err)
		}
	}

	var f File
	if err := v.Unmarshal(&f); err != nil {
		return nil, fmt.Errorf("config: decoding: %w", err)
	}
	s, err := f.resolve()
	if err != nil {
		return nil, err
	}
	s.Source = v.ConfigFileUsed()
	return s, nil
}

func (f File) resolve() (*Settings, error) {
	level, err := parseLevel(f.LogLevel)
	if err != nil {
		return nil, err
	}
	return &Settings{
		Engine:   nv2d.Config{CopyThreshold: max(f.CopyThreshold, 0)},
		Chipset:  f.Chipset,
		LogLevel: level,
	}, nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidLogLevel, s)
}
