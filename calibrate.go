// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shapelets

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

// calibrationStream offsets the PCG stream of calibration draws from the
// streams used by Generate, which are the dilations and 0.
const calibrationStream = 1 << 63

// Calibrate installs an occurrence threshold on every non-degenerate
// shapelet of gen.
//
// For shapelet i, extracted from sample s, another sample of the same
// class as s is drawn (any other sample when labels is nil or the class
// has no other member, s itself when x has one sample). The threshold is
// the q-quantile of the distance vector of the shapelet against that
// sample, with q drawn uniformly in [cfg.PMin, cfg.PMax] percent.
// Degenerate shapelets get a zero threshold.
//
// Each shapelet draws from its own stream, seeded from cfg.Seed, so the
// result does not depend on the number of workers.
func Calibrate(x Series, labels []int, gen *Generation, cfg Config, opts ...Option) error {
	o := newOptions(opts)
	if err := cfg.Validate(x.Channels(), x.Timestamps()); err != nil {
		return err
	}
	if labels != nil && len(labels) != x.Samples() {
		return fmt.Errorf("%w: %d labels for %d samples", ErrShapeMismatch, len(labels), x.Samples())
	}
	set, prov := gen.Set, gen.Provenance
	if err := set.Validate(x.Channels(), x.Timestamps(), cfg.UsePhase); err != nil {
		return err
	}
	if len(prov.Samples) != set.Len() {
		return fmt.Errorf("%w: provenance of %d shapelets for %d shapelets", ErrShapeMismatch, len(prov.Samples), set.Len())
	}
	for i, source := range prov.Samples {
		if source >= x.Samples() {
			return fmt.Errorf("%w: shapelet %d comes from sample %d, series has %d samples", ErrShapeMismatch, i, source, x.Samples())
		}
	}

	byClass := make(map[int][]int)
	if labels != nil {
		for s, l := range labels {
			byClass[l] = append(byClass[l], s)
		}
	}

	thresholds := make([]float64, set.Len())
	var g errgroup.Group
	g.SetLimit(o.workers)
	for i := range thresholds {
		source := prov.Samples[i]
		if source < 0 {
			continue
		}
		g.Go(func() error {
			rng := rand.New(rand.NewPCG(cfg.Seed, calibrationStream+uint64(i)))
			var peers []int
			if labels != nil {
				peers = byClass[labels[source]]
			}
			target := pickPeer(rng, peers, source, x.Samples())
			dist := shapeletDistances(nil, x, target, set, i, cfg.UsePhase)
			slices.Sort(dist)
			q := (cfg.PMin + rng.Float64()*(cfg.PMax-cfg.PMin)) / 100
			thresholds[i] = stat.Quantile(q, stat.LinInterp, dist, nil)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	o.logger.Debug("calibrated shapelet thresholds", zap.Int("shapelets", set.Len()))
	return set.SetThresholds(thresholds)
}

// pickPeer draws a sample other than source, from peers when it has
// another member and from all the samples otherwise. It returns source
// when there is no other sample.
func pickPeer(rng *rand.Rand, peers []int, source, samples int) int {
	if len(peers) > 1 {
		p := peers[rng.IntN(len(peers)-1)]
		if p == source {
			p = peers[len(peers)-1]
		}
		return p
	}
	if samples < 2 {
		return source
	}
	p := rng.IntN(samples - 1)
	if p >= source {
		p++
	}
	return p
}
