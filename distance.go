// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shapelets

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Features is the triplet extracted from one distance vector.
type Features struct {
	// Min is the smallest distance.
	Min float64
	// Argmin is the index of the first smallest distance.
	Argmin float64
	// Occurrences counts the distances strictly lower than the threshold.
	Occurrences float64
}

// DistanceVector computes, for every valid start of x, the squared
// Euclidean distance between values and the dilated window of x at that
// start, z-normalizing the window first when normalize is set. values is
// used as given.
//
// The result is written into dst when it has enough capacity; otherwise a
// new slice is allocated.
func DistanceVector(dst, values, x []float64, dilation int, normalize, usePhase bool) []float64 {
	n := max(ValidStarts(len(x), len(values), dilation, usePhase), 0)
	if cap(dst) < n {
		dst = make([]float64, n)
	}
	dst = dst[:n]
	window := make([]float64, len(values))
	for start := range dst {
		extract(window, x, start, dilation, usePhase)
		if normalize {
			ZNormalize(window)
		}
		dst[start] = sqEuclidean(values, window)
	}
	return dst
}

// sqEuclidean returns the sum of squared differences of a and b, which
// must have the same length.
//
// Every distance in the package goes through this loop, so that results
// of different evaluation paths are bitwise identical.
func sqEuclidean(a, b []float64) float64 {
	var s float64
	for i, v := range a {
		d := v - b[i]
		s += d * d
	}
	return s
}

// CombineDistances sums the per-channel distance vectors element-wise,
// in argument order, into dst, which is resized to their common length.
// It panics if the vectors have different lengths.
func CombineDistances(dst []float64, perChannel ...[]float64) []float64 {
	if len(perChannel) == 0 {
		return dst[:0]
	}
	n := len(perChannel[0])
	if cap(dst) < n {
		dst = make([]float64, n)
	}
	dst = dst[:n]
	copy(dst, perChannel[0])
	for k, v := range perChannel[1:] {
		if len(v) != n {
			panic(fmt.Sprintf("shapelets: channel %d distance vector has length %d, expected %d", k+1, len(v), n))
		}
		floats.Add(dst, v)
	}
	return dst
}

// Summarize reduces a distance vector to its minimum, the index of its
// first minimum and the number of distances lower than threshold.
// An empty vector yields zero features.
func Summarize(dist []float64, threshold float64) Features {
	if len(dist) == 0 {
		return Features{}
	}
	idx := floats.MinIdx(dist)
	var occ int
	for _, d := range dist {
		if d < threshold {
			occ++
		}
	}
	return Features{Min: dist[idx], Argmin: float64(idx), Occurrences: float64(occ)}
}
