// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shapelets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOccupancy_Mark(t *testing.T) {
	t.Run("clipped", func(t *testing.T) {
		o := newOccupancy(2, 2, 10)
		o.mark(0, 0, 5, 2, false)
		for p := 0; p < 10; p++ {
			want := 2
			if p >= 3 && p <= 7 {
				want = 1
			}
			assert.Equal(t, want, o.available(0, p), "position %d", p)
			assert.Equal(t, 2, o.available(1, p), "other sample, position %d", p)
		}

		o.mark(0, 0, 5, 2, false)
		assert.Equal(t, 1, o.available(0, 5), "marking twice")

		o.mark(0, 1, 9, 2, false)
		assert.Equal(t, 0, o.available(0, 7))
		assert.Equal(t, 1, o.available(0, 8))
		assert.Equal(t, 1, o.available(0, 9))
		assert.Equal(t, 2, o.available(0, 0))
	})

	t.Run("phase wraps", func(t *testing.T) {
		o := newOccupancy(1, 1, 10)
		o.mark(0, 0, 0, 2, true)
		for p, want := range []int{0, 0, 0, 1, 1, 1, 1, 1, 0, 0} {
			assert.Equal(t, want, o.available(0, p), "position %d", p)
		}
	})

	t.Run("phase wider than the series", func(t *testing.T) {
		o := newOccupancy(1, 1, 4)
		o.mark(0, 0, 1, 4, true)
		for p := 0; p < 4; p++ {
			assert.Equal(t, 0, o.available(0, p))
		}
	})

	t.Run("dilated reach", func(t *testing.T) {
		// length 5, dilation 4: the window starting at 10 covers 10..26
		o := newOccupancy(1, 1, 40)
		o.mark(0, 0, 10, (5-1)*4, false)
		for p := 0; p < 40; p++ {
			want := 1
			if p <= 26 {
				want = 0
			}
			assert.Equal(t, want, o.available(0, p), "position %d", p)
		}
	})
}

func TestOccupancy_Candidates(t *testing.T) {
	o := newOccupancy(2, 2, 6)
	assert.Len(t, o.candidates(nil, 4, 2), 8)
	assert.Equal(t, []int{0, 1, 2, 3}, o.candidates(nil, 4, 2)[:4])
	assert.Equal(t, []int{6, 7, 8, 9}, o.candidates(nil, 4, 2)[4:])

	o.mark(0, 0, 1, 1, false)
	assert.Equal(t, []int{3, 6, 7, 8, 9}, o.candidates(nil, 4, 2))
	assert.Len(t, o.candidates(nil, 4, 1), 8)
	assert.Len(t, o.candidates(nil, 4, 0), 8)
}
