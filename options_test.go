// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package nv2d

import "testing"

func TestDefaultOptions(t *testing.T) {
	o := defaultOptions()
	if o.config != DefaultConfig() {
		t.Errorf("config = %+v, want %+v", o.config, DefaultConfig())
	}
	if o.alternate != nil {
		t.Error("alternate should be nil by default")
	}
}

func TestOptions(t *testing.T) {
	alt := &fakeAlternate{}
	o := defaultOptions()
	for _, opt := range []Option{
		WithConfig(Config{CopyThreshold: 4096}),
		WithAlternate(alt),
	} {
		opt(&o)
	}
	if o.config.CopyThreshold != 4096 {
		t.Errorf("CopyThreshold = %d, want 4096", o.config.CopyThreshold)
	}
	if o.alternate != alt {
		t.Error("WithAlternate did not set the alternate")
	}
}

func TestConfigNormalize(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{-1, 0},
		{0, 0},
		{100, 100},
	}
	for _, tt := range tests {
		if got := (Config{CopyThreshold: tt.in}).normalize().CopyThreshold; got != tt.want {
			t.Errorf("normalize(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
