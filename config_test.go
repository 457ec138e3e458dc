// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shapelets

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("full document", func(t *testing.T) {
		cfg, err := LoadConfig(strings.NewReader(`
shapelets: 500
lengths: [7, 9, 11]
seed: 42
p_norm: 0.6
alpha: 0.75
use_phase: true
max_channels: 2
prime_dilations: true
calibrate: false
p_min: 1
p_max: 20
`))
		require.NoError(t, err)
		assert.Equal(t, Config{
			Shapelets:      500,
			Lengths:        []int{7, 9, 11},
			Seed:           42,
			PNorm:          0.6,
			Alpha:          0.75,
			UsePhase:       true,
			MaxChannels:    2,
			PrimeDilations: true,
			Calibrate:      false,
			PMin:           1,
			PMax:           20,
		}, cfg)
	})

	t.Run("partial document keeps defaults", func(t *testing.T) {
		cfg, err := LoadConfig(strings.NewReader("seed: 7\n"))
		require.NoError(t, err)
		want := DefaultConfig()
		want.Seed = 7
		assert.Equal(t, want, cfg)
	})

	t.Run("empty document", func(t *testing.T) {
		cfg, err := LoadConfig(strings.NewReader(""))
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := LoadConfig(strings.NewReader("dilations: [1, 2]\n"))
		assert.ErrorContains(t, err, "failed to decode config")
	})

	t.Run("bad value", func(t *testing.T) {
		_, err := LoadConfig(strings.NewReader("shapelets: many\n"))
		assert.Error(t, err)
	})
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate(1, 12))

	testCases := map[string]func(c *Config){
		"negative shapelets":   func(c *Config) { c.Shapelets = -1 },
		"empty lengths":        func(c *Config) { c.Lengths = nil },
		"length too large":     func(c *Config) { c.Lengths = []int{12} },
		"length too small":     func(c *Config) { c.Lengths = []int{1} },
		"p_norm":               func(c *Config) { c.PNorm = -0.1 },
		"alpha":                func(c *Config) { c.Alpha = 1.1 },
		"too many channels":    func(c *Config) { c.MaxChannels = 2 },
		"negative channels":    func(c *Config) { c.MaxChannels = -1 },
		"p_min above p_max":    func(c *Config) { c.PMin, c.PMax = 10, 5 },
		"p_max above 100":      func(c *Config) { c.PMax = 101 },
		"negative percentiles": func(c *Config) { c.PMin = -1 },
	}
	for name, mutate := range testCases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(1, 12), ErrInvalidConfig)
		})
	}
}
