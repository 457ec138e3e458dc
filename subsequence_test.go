// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shapelets

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
)

func TestValidStarts(t *testing.T) {
	assert.Equal(t, 20, ValidStarts(20, 4, 3, true))
	assert.Equal(t, 11, ValidStarts(20, 4, 3, false))
	assert.Equal(t, 1, ValidStarts(10, 4, 3, false))
	assert.Equal(t, -2, ValidStarts(10, 5, 3, false))
}

func TestSubsequence(t *testing.T) {
	x := make([]float64, 20)
	for i := range x {
		x[i] = float64(i)
	}

	t.Run("last valid start", func(t *testing.T) {
		// T-(L-1)*d-1 = 20-3*3-1 = 10
		v, err := Subsequence(x, 10, 4, 3, false, false)
		require.NoError(t, err)
		assert.Equal(t, []float64{10, 13, 16, 19}, v)
	})

	t.Run("one beyond the last valid start", func(t *testing.T) {
		_, err := Subsequence(x, 11, 4, 3, false, false)
		assert.ErrorIs(t, err, ErrOutOfRange)
	})

	t.Run("negative start", func(t *testing.T) {
		_, err := Subsequence(x, -1, 4, 3, false, false)
		assert.ErrorIs(t, err, ErrOutOfRange)
	})

	t.Run("phase wraps around", func(t *testing.T) {
		v, err := Subsequence(x, 17, 4, 3, false, true)
		require.NoError(t, err)
		assert.Equal(t, []float64{17, 0, 3, 6}, v)

		_, err = Subsequence(x, 20, 4, 3, false, true)
		assert.ErrorIs(t, err, ErrOutOfRange)
	})

	t.Run("normalized", func(t *testing.T) {
		v, err := Subsequence(x, 2, 5, 2, true, false)
		require.NoError(t, err)
		mean, variance := stat.PopMeanVariance(v, nil)
		assert.InDelta(t, 0, mean, 1e-12)
		assert.InDelta(t, 1, variance, 1e-6)
	})
}

func TestZNormalize(t *testing.T) {
	t.Run("constant window maps to zeros", func(t *testing.T) {
		v := []float64{3, 3, 3, 3}
		ZNormalize(v)
		assert.Equal(t, []float64{0, 0, 0, 0}, v)
	})

	t.Run("idempotent", func(t *testing.T) {
		rng := rand.New(rand.NewPCG(1, 2))
		for range 50 {
			v := make([]float64, 2+rng.IntN(30))
			for i := range v {
				v[i] = rng.NormFloat64()*10 + 5
			}
			ZNormalize(v)
			once := append([]float64(nil), v...)
			ZNormalize(v)
			assert.InDeltaSlice(t, once, v, 1e-6)
		}
	})
}
