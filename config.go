// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shapelets

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Config holds the parameters of shapelet generation and calibration.
//
// It can be decoded from YAML, for example:
//
//	shapelets: 10000
//	lengths: [7, 9, 11]
//	seed: 42
//	p_norm: 0.8
//	alpha: 0.5
//	use_phase: false
//	max_channels: 3
//	prime_dilations: true
//	calibrate: true
//	p_min: 5
//	p_max: 10
type Config struct {
	// Shapelets is the number of shapelets to generate.
	Shapelets int `yaml:"shapelets"`
	// Lengths is the set of admissible shapelet lengths, drawn uniformly.
	Lengths []int `yaml:"lengths"`
	// Seed makes generation and calibration reproducible.
	Seed uint64 `yaml:"seed"`
	// PNorm is the probability for a shapelet to use z-normalized distance.
	PNorm float64 `yaml:"p_norm"`
	// Alpha is the fraction of a shapelet's channels that must still be
	// available at a (sample, start) pair for it to be a candidate.
	Alpha float64 `yaml:"alpha"`
	// UsePhase enables circular indexing of series.
	UsePhase bool `yaml:"use_phase"`
	// MaxChannels bounds the number of channels of one shapelet. Zero
	// means all the channels of the training series.
	MaxChannels int `yaml:"max_channels"`
	// PrimeDilations restricts dilations to 1 and prime numbers.
	PrimeDilations bool `yaml:"prime_dilations"`
	// Calibrate enables threshold calibration after generation.
	Calibrate bool `yaml:"calibrate"`
	// PMin and PMax bound the percentile, in [0, 100], used by calibration.
	PMin float64 `yaml:"p_min"`
	PMax float64 `yaml:"p_max"`
}

// DefaultConfig returns the default generation parameters.
func DefaultConfig() Config {
	return Config{
		Shapelets: 10_000,
		Lengths:   []int{11},
		PNorm:     0.8,
		Alpha:     0.5,
		Calibrate: true,
		PMin:      5,
		PMax:      10,
	}
}

// LoadConfig decodes a YAML document from r on top of DefaultConfig.
// Unknown keys are rejected.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Validate checks the parameters against a series tensor with the given
// number of channels and timestamps.
func (c Config) Validate(channels, timestamps int) error {
	if c.Shapelets < 0 {
		return fmt.Errorf("%w: negative number of shapelets %d", ErrInvalidConfig, c.Shapelets)
	}
	if len(c.Lengths) == 0 {
		return fmt.Errorf("%w: empty length set", ErrInvalidConfig)
	}
	for _, l := range c.Lengths {
		if l < 2 || l >= timestamps {
			return fmt.Errorf("%w: length %d is not in [2, %d)", ErrInvalidConfig, l, timestamps)
		}
	}
	if c.PNorm < 0 || c.PNorm > 1 {
		return fmt.Errorf("%w: p_norm %g is not in [0, 1]", ErrInvalidConfig, c.PNorm)
	}
	if c.Alpha < 0 || c.Alpha > 1 {
		return fmt.Errorf("%w: alpha %g is not in [0, 1]", ErrInvalidConfig, c.Alpha)
	}
	if c.MaxChannels < 0 || c.MaxChannels > channels {
		return fmt.Errorf("%w: max_channels %d is not in [0, %d]", ErrInvalidConfig, c.MaxChannels, channels)
	}
	if c.PMin < 0 || c.PMax > 100 || c.PMin > c.PMax {
		return fmt.Errorf("%w: percentile range [%g, %g] is not within [0, 100]", ErrInvalidConfig, c.PMin, c.PMax)
	}
	return nil
}

// maxChannels resolves the zero value of MaxChannels.
func (c Config) maxChannels(channels int) int {
	if c.MaxChannels == 0 {
		return channels
	}
	return c.MaxChannels
}
