// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shapelets

import (
	"cmp"
	"slices"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Apply matches every shapelet of set against every sample of x and
// returns a (x.Samples(), 3*set.Len()) feature matrix (see Matrix).
//
// Shapelets sharing length and dilation reuse the same windows of a
// sample, extracted (and normalized, if any of them needs it) once.
// One task per (sample, group) pair runs on a bounded pool of goroutines;
// each task writes a disjoint block of one row.
func Apply(x Series, set *ShapeletSet, usePhase bool, opts ...Option) (*Matrix, error) {
	o := newOptions(opts)
	if err := set.Validate(x.Channels(), x.Timestamps(), usePhase); err != nil {
		return nil, err
	}

	m := newMatrix(x.Samples(), 3*set.Len())
	groups := groupByShape(set)
	o.logger.Debug("applying shapelets",
		zap.Int("samples", x.Samples()),
		zap.Int("shapelets", set.Len()),
		zap.Int("groups", len(groups)))

	var g errgroup.Group
	g.SetLimit(o.workers)
	for sample := 0; sample < x.Samples(); sample++ {
		for _, group := range groups {
			g.Go(func() error {
				applyGroup(m, x, set, sample, group, usePhase)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return m, nil
}

// shapeGroup lists the shapelets sharing one (length, dilation) pair.
type shapeGroup struct {
	length     int
	dilation   int
	normalized bool
	indices    []int
}

// groupByShape returns the groups sorted by ascending length, then
// dilation. Indices inside a group are ascending.
func groupByShape(set *ShapeletSet) []shapeGroup {
	type key struct{ length, dilation int }
	pos := make(map[key]int)
	var groups []shapeGroup
	for i := range set.lengths {
		k := key{set.lengths[i], set.dilations[i]}
		gi, ok := pos[k]
		if !ok {
			gi = len(groups)
			pos[k] = gi
			groups = append(groups, shapeGroup{length: k.length, dilation: k.dilation})
		}
		groups[gi].indices = append(groups[gi].indices, i)
		groups[gi].normalized = groups[gi].normalized || set.normalize[i]
	}
	slices.SortFunc(groups, func(a, b shapeGroup) int {
		return cmp.Or(cmp.Compare(a.length, b.length), cmp.Compare(a.dilation, b.dilation))
	})
	return groups
}

func applyGroup(m *Matrix, x Series, set *ShapeletSet, sample int, group shapeGroup, usePhase bool) {
	raw := newStrideView(x, sample, group.length, group.dilation, usePhase)
	var norm strideView
	if group.normalized {
		norm = raw.normalized()
	}
	var dist []float64
	for _, i := range group.indices {
		view := raw
		if set.normalize[i] {
			view = norm
		}
		dist = view.distances(dist, set.valuesOf(i), set.channels(i))
		m.set(sample, i, Summarize(dist, set.thresholds[i]))
	}
}

// shapeletDistances computes the combined distance vector of shapelet i
// against one sample of x, channel by channel, without sharing windows
// with other shapelets.
func shapeletDistances(dst []float64, x Series, sample int, set *ShapeletSet, i int, usePhase bool) []float64 {
	length, dilation := set.lengths[i], set.dilations[i]
	values := set.valuesOf(i)
	channels := set.channels(i)
	perChannel := make([][]float64, len(channels))
	for k, c := range channels {
		perChannel[k] = DistanceVector(nil, values[k*length:(k+1)*length], x.Channel(sample, c), dilation, set.normalize[i], usePhase)
	}
	return CombineDistances(dst, perChannel...)
}
