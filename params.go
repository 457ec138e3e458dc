// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shapelets

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// SamplerConfig describes the random draw of shapelet parameters.
type SamplerConfig struct {
	// N is the number of shapelets.
	N int
	// Lengths is the set of admissible lengths; each must be in
	// [2, Timestamps).
	Lengths []int
	// Timestamps is the size of the series the shapelets are sampled from.
	Timestamps int
	// PNorm is the probability of a shapelet to be z-normalized.
	PNorm float64
	// MaxChannels is the maximum number of channels of one shapelet (>= 1).
	MaxChannels int
	// PrimeDilations restricts dilations to 1 and prime numbers.
	PrimeDilations bool
}

func (c SamplerConfig) validate() error {
	if c.N < 0 {
		return fmt.Errorf("%w: negative number of shapelets %d", ErrInvalidConfig, c.N)
	}
	if len(c.Lengths) == 0 {
		return fmt.Errorf("%w: empty length set", ErrInvalidConfig)
	}
	for _, l := range c.Lengths {
		if l < 2 || l >= c.Timestamps {
			return fmt.Errorf("%w: length %d is not in [2, %d)", ErrInvalidConfig, l, c.Timestamps)
		}
	}
	if c.PNorm < 0 || c.PNorm > 1 {
		return fmt.Errorf("%w: p_norm %g is not in [0, 1]", ErrInvalidConfig, c.PNorm)
	}
	if c.MaxChannels < 1 {
		return fmt.Errorf("%w: max_channels %d is lower than 1", ErrInvalidConfig, c.MaxChannels)
	}
	return nil
}

// MaxDilation returns the largest dilation keeping a window of the given
// length inside timestamps without phase wrap: floor((T-1)/(L-1)).
func MaxDilation(timestamps, length int) int {
	return (timestamps - 1) / (length - 1)
}

// SampleParams draws length, dilation, normalization flag and channel
// count of c.N shapelets from rng, and returns a ShapeletSet with those
// parameters and zeroed values, channel ids and thresholds.
//
// Draws are made in a fixed order (all lengths, then dilations, channel
// counts and normalization flags), so the result only depends on the
// state of rng and on c.
func SampleParams(rng *rand.Rand, c SamplerConfig) (*ShapeletSet, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}

	lengths := make([]int, c.N)
	for i := range lengths {
		lengths[i] = c.Lengths[rng.IntN(len(c.Lengths))]
	}

	dilations := make([]int, c.N)
	if c.PrimeDilations {
		primes := primesUpTo(maxUpper(c.Timestamps, lengths))
		for i, l := range lengths {
			candidates := primes[:countUpTo(primes, MaxDilation(c.Timestamps, l))]
			dilations[i] = candidates[choiceLog(rng, len(candidates))]
		}
	} else {
		for i, l := range lengths {
			upper := math.Log2(float64(MaxDilation(c.Timestamps, l)))
			dilations[i] = int(math.Floor(math.Pow(2, rng.Float64()*upper)))
		}
	}

	channelCounts := make([]int, c.N)
	for i := range channelCounts {
		channelCounts[i] = rng.IntN(c.MaxChannels) + 1
	}

	normalize := make([]bool, c.N)
	for i := range normalize {
		normalize[i] = rng.Float64() < c.PNorm
	}

	return newShapeletSet(lengths, dilations, normalize, channelCounts), nil
}

// maxUpper returns the largest MaxDilation among lengths.
func maxUpper(timestamps int, lengths []int) int {
	m := 0
	for _, l := range lengths {
		m = max(m, MaxDilation(timestamps, l))
	}
	return m
}

// countUpTo returns how many values of the ascending slice s are <= v.
func countUpTo(s []int, v int) int {
	n := 0
	for n < len(s) && s[n] <= v {
		n++
	}
	return n
}
