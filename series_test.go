// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shapelets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSeries(t *testing.T) {
	data := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}
	x, err := NewSeries(data, 2, 2, 3)
	require.NoError(t, err)

	assert.Equal(t, 2, x.Samples())
	assert.Equal(t, 2, x.Channels())
	assert.Equal(t, 3, x.Timestamps())
	assert.Equal(t, []float64{9, 10, 11}, x.Channel(1, 1))
	assert.Equal(t, []float64{6, 7, 8, 9, 10, 11}, x.Sample(1))

	_, err = NewSeries(data, 2, 2, 2)
	assert.ErrorIs(t, err, ErrShapeMismatch)
	_, err = NewSeries(nil, 1, 0, 2)
	assert.ErrorIs(t, err, ErrShapeMismatch)

	empty, err := NewSeries(nil, 0, 1, 5)
	require.NoError(t, err)
	assert.Zero(t, empty.Samples())
}

func TestNewSeriesFromRows(t *testing.T) {
	x, err := NewSeriesFromRows([][][]float64{
		{{1, 2, 3}, {4, 5, 6}},
		{{7, 8, 9}, {10, 11, 12}},
	})
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 5, 6}, x.Channel(0, 1))
	assert.Equal(t, []float64{7, 8, 9}, x.Channel(1, 0))

	testCases := map[string][][][]float64{
		"empty":              nil,
		"channel count":      {{{1, 2}, {3, 4}}, {{5, 6}}},
		"timestamp count":    {{{1, 2}, {3, 4}}, {{5, 6}, {7}}},
		"no channel in rows": {{}},
	}
	for name, rows := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := NewSeriesFromRows(rows)
			assert.ErrorIs(t, err, ErrShapeMismatch)
		})
	}
}
