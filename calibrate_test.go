// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shapelets

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalibrate(t *testing.T) {
	x := randomSeries(t, 11, 8, 2, 30)
	labels := []int{0, 1, 0, 1, 0, 1, 0, 2}
	cfg := testConfig()

	gen, err := Generate(x, labels, cfg)
	require.NoError(t, err)
	require.NoError(t, Calibrate(x, labels, gen, cfg, WithWorkers(1)))

	for i := 0; i < gen.Set.Len(); i++ {
		th := gen.Set.Threshold(i)
		if gen.Provenance.Samples[i] < 0 {
			assert.Zero(t, th, "degenerate shapelet %d", i)
			continue
		}
		assert.Positive(t, th, "shapelet %d", i)

		// the threshold lies within the distances to some other sample
		lo, hi := 0.0, 0.0
		for s := 0; s < x.Samples(); s++ {
			if s == gen.Provenance.Samples[i] {
				continue
			}
			dist := shapeletDistances(nil, x, s, gen.Set, i, cfg.UsePhase)
			mn, mx := slices.Min(dist), slices.Max(dist)
			if lo == 0 || mn < lo {
				lo = mn
			}
			hi = max(hi, mx)
		}
		assert.GreaterOrEqual(t, th, lo, "shapelet %d", i)
		assert.LessOrEqual(t, th, hi, "shapelet %d", i)
	}

	t.Run("deterministic", func(t *testing.T) {
		other, err := Generate(x, labels, cfg)
		require.NoError(t, err)
		require.NoError(t, Calibrate(x, labels, other, cfg, WithWorkers(8)))
		assert.Equal(t, gen.Set.thresholds, other.Set.thresholds)
	})

	t.Run("percentile range", func(t *testing.T) {
		cfg := cfg
		cfg.PMin, cfg.PMax = 0, 0
		other, err := Generate(x, labels, cfg)
		require.NoError(t, err)
		require.NoError(t, Calibrate(x, labels, other, cfg))
		for i := 0; i < other.Set.Len(); i++ {
			assert.LessOrEqual(t, other.Set.Threshold(i), gen.Set.Threshold(i), "shapelet %d", i)
		}
	})

	t.Run("labels mismatch", func(t *testing.T) {
		assert.ErrorIs(t, Calibrate(x, labels[:3], gen, cfg), ErrShapeMismatch)
	})
}

func TestPickPeer(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))

	t.Run("same class", func(t *testing.T) {
		peers := []int{1, 4, 6}
		seen := make(map[int]bool)
		for range 200 {
			p := pickPeer(rng, peers, 4, 10)
			assert.Contains(t, []int{1, 6}, p)
			seen[p] = true
		}
		assert.Len(t, seen, 2)
	})

	t.Run("source is the last peer", func(t *testing.T) {
		for range 50 {
			assert.Contains(t, []int{1, 4}, pickPeer(rng, []int{1, 4, 6}, 6, 10))
		}
	})

	t.Run("lonely class", func(t *testing.T) {
		for range 200 {
			p := pickPeer(rng, []int{3}, 3, 5)
			assert.NotEqual(t, 3, p)
			assert.GreaterOrEqual(t, p, 0)
			assert.Less(t, p, 5)
		}
	})

	t.Run("single sample", func(t *testing.T) {
		assert.Equal(t, 0, pickPeer(rng, nil, 0, 1))
	})
}
