// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shapelets

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/sampleuv"
)

// primesUpTo returns, in ascending order, 1 followed by every prime
// number <= n. One is kept as a candidate dilation so that the set is
// never empty: a window that only fits with dilation 1 stays samplable.
func primesUpTo(n int) []int {
	if n < 1 {
		return nil
	}
	composite := make([]bool, n+1)
	out := []int{1}
	for i := 2; i <= n; i++ {
		if composite[i] {
			continue
		}
		out = append(out, i)
		for j := i * i; j <= n; j += i {
			composite[j] = true
		}
	}
	return out
}

// logWeights returns the sampling weights 1/2^ln(k), k = 1..n, which
// favor small indices while keeping every index possible.
func logWeights(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1 / math.Pow(2, math.Log(float64(i+1)))
	}
	return w
}

// choiceLog draws an index in [0, n) with logWeights probabilities.
func choiceLog(rng *rand.Rand, n int) int {
	if n <= 1 {
		return 0
	}
	idx, ok := sampleuv.NewWeighted(logWeights(n), rng).Take()
	if !ok {
		return 0
	}
	return idx
}
