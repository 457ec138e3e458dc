// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shapelets

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Epsilon is added to the standard deviation during z-normalization, so
// that constant windows are mapped to zeros instead of NaNs.
const Epsilon = 1e-8

// ValidStarts returns how many start positions a window of the given
// length and dilation has over a series of size timestamps. With phase
// invariance every position is valid; otherwise the window must fit.
//
// The result is not positive when the window is larger than the series.
func ValidStarts(timestamps, length, dilation int, usePhase bool) int {
	if usePhase {
		return timestamps
	}
	return timestamps - (length-1)*dilation
}

// Subsequence extracts length values from x, starting at start and
// taking one value every dilation positions. With usePhase, indices wrap
// around the end of x; otherwise the window must lie inside x, and
// ErrOutOfRange is returned for starts beyond ValidStarts-1.
//
// With normalize, the extracted values are z-normalized (see ZNormalize).
func Subsequence(x []float64, start, length, dilation int, normalize, usePhase bool) ([]float64, error) {
	if length < 1 || dilation < 1 {
		return nil, fmt.Errorf("%w: length %d, dilation %d", ErrOutOfRange, length, dilation)
	}
	if n := ValidStarts(len(x), length, dilation, usePhase); start < 0 || start >= n {
		return nil, fmt.Errorf("%w: start %d, valid starts [0, %d)", ErrOutOfRange, start, max(n, 0))
	}
	v := make([]float64, length)
	extract(v, x, start, dilation, usePhase)
	if normalize {
		ZNormalize(v)
	}
	return v, nil
}

// extract fills dst with the window of x at start. Bounds are the
// caller's concern.
func extract(dst, x []float64, start, dilation int, usePhase bool) {
	if usePhase {
		t := len(x)
		for k := range dst {
			dst[k] = x[(start+k*dilation)%t]
		}
		return
	}
	for k := range dst {
		dst[k] = x[start+k*dilation]
	}
}

// ZNormalize subtracts the population mean from v and divides it by the
// population standard deviation plus Epsilon, in place.
func ZNormalize(v []float64) {
	mean, variance := stat.PopMeanVariance(v, nil)
	std := math.Sqrt(math.Max(variance, 0))
	for i, x := range v {
		v[i] = (x - mean) / (std + Epsilon)
	}
}
