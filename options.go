// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package nv2d

// Option configures an Engine during creation.
//
// Example:
//
//	e, err := nv2d.New(ctx,
//	    nv2d.WithConfig(nv2d.Config{CopyThreshold: 4096}),
//	    nv2d.WithAlternate(blitter3D),
//	)
type Option func(*engineOptions)

// engineOptions holds optional configuration for Engine creation.
type engineOptions struct {
	config    Config
	alternate Alternate
}

// defaultOptions returns the default engine options.
func defaultOptions() engineOptions {
	return engineOptions{
		config: DefaultConfig(),
	}
}

// WithConfig sets the engine configuration. Negative values are clamped
// as described on Config.
func WithConfig(c Config) Option {
	return func(o *engineOptions) {
		o.config = c
	}
}

// WithAlternate sets the 3D pipeline blitter tried when the 2D engine
// reports TryAlternate. Without one, such transfers go to the CPU.
func WithAlternate(a Alternate) Option {
	return func(o *engineOptions) {
		o.alternate = a
	}
}
