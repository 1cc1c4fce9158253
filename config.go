// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package nv2d

// Config holds engine settings. The zero value is valid and equals
// DefaultConfig.
type Config struct {
	// CopyThreshold is the largest copy, in elements, that goes straight
	// to the CPU when either side is not on the GPU. Negative values act
	// as 0, which disables the shortcut.
	CopyThreshold int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{CopyThreshold: 0}
}

// normalize returns c with out-of-range values clamped.
func (c Config) normalize() Config {
	if c.CopyThreshold < 0 {
		c.CopyThreshold = 0
	}
	return c
}
