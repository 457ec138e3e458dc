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
)

// Generation is the result of Generate.
type Generation struct {
	// Set holds the generated shapelets. Thresholds are zero until a
	// calibration step installs them.
	Set *ShapeletSet
	// Provenance records the (sample, start) each shapelet was taken from.
	Provenance *Provenance
	// Degenerate counts the shapelets for which no admissible (sample,
	// start) pair was left. Their values and channel ids are zero.
	Degenerate int
}

// Generate samples cfg.Shapelets shapelet parameters and fills each
// shapelet with subsequences of x taken at random admissible positions.
//
// labels, when not nil, must hold one class label per sample; they are
// only used by Calibrate and are checked here so that a Generation is
// always consistent with its training data.
//
// Shapelets sharing a dilation are drawn sequentially, in index order,
// from their own random stream and their own occupancy grids; distinct
// dilations are processed concurrently. The result only depends on x and
// cfg, not on the number of workers.
func Generate(x Series, labels []int, cfg Config, opts ...Option) (*Generation, error) {
	o := newOptions(opts)
	if err := cfg.Validate(x.Channels(), x.Timestamps()); err != nil {
		return nil, err
	}
	if labels != nil && len(labels) != x.Samples() {
		return nil, fmt.Errorf("%w: %d labels for %d samples", ErrShapeMismatch, len(labels), x.Samples())
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, 0))
	set, err := SampleParams(rng, SamplerConfig{
		N:              cfg.Shapelets,
		Lengths:        cfg.Lengths,
		Timestamps:     x.Timestamps(),
		PNorm:          cfg.PNorm,
		MaxChannels:    cfg.maxChannels(x.Channels()),
		PrimeDilations: cfg.PrimeDilations,
	})
	if err != nil {
		return nil, err
	}

	groups := groupByDilation(set)
	o.logger.Debug("sampled shapelet parameters",
		zap.Int("shapelets", set.Len()),
		zap.Int("dilationGroups", len(groups)))

	gen := &Generation{Set: set, Provenance: newProvenance(set.Len())}
	degenerate := make([][]int, len(groups))

	var g errgroup.Group
	g.SetLimit(o.workers)
	for gi, group := range groups {
		g.Go(func() error {
			degenerate[gi] = fillGroup(x, cfg, gen, group)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, group := range degenerate {
		for _, i := range group {
			o.logger.Warn("no admissible position left for shapelet",
				zap.Int("shapelet", i),
				zap.Int("length", set.Length(i)),
				zap.Int("dilation", set.Dilation(i)),
				zap.Int("channels", set.ChannelCount(i)))
		}
		gen.Degenerate += len(group)
	}
	o.logger.Info("generated shapelets",
		zap.Int("shapelets", set.Len()),
		zap.Int("degenerate", gen.Degenerate))
	return gen, nil
}

// dilationGroup lists the indices, in ascending order, of the shapelets
// sharing one dilation.
type dilationGroup struct {
	dilation int
	indices  []int
}

// groupByDilation returns the groups sorted by ascending dilation.
func groupByDilation(set *ShapeletSet) []dilationGroup {
	byDilation := make(map[int][]int)
	for i, d := range set.dilations {
		byDilation[d] = append(byDilation[d], i)
	}
	groups := make([]dilationGroup, 0, len(byDilation))
	for d, indices := range byDilation {
		groups = append(groups, dilationGroup{dilation: d, indices: indices})
	}
	slices.SortFunc(groups, func(a, b dilationGroup) int { return a.dilation - b.dilation })
	return groups
}

// fillGroup draws the shapelets of one dilation group and returns the
// indices of those left degenerate. Every shapelet owns disjoint regions
// of the set buffers and of the provenance, so groups can run
// concurrently.
func fillGroup(x Series, cfg Config, gen *Generation, group dilationGroup) []int {
	set, prov := gen.Set, gen.Provenance
	rng := rand.New(rand.NewPCG(cfg.Seed, uint64(group.dilation)))
	timestamps := x.Timestamps()

	var grids [2]*occupancy
	var candidates, degenerate []int
	for _, i := range group.indices {
		mode := 0
		if set.normalize[i] {
			mode = 1
		}
		if grids[mode] == nil {
			grids[mode] = newOccupancy(x.Samples(), x.Channels(), timestamps)
		}
		grid := grids[mode]

		length, count := set.lengths[i], set.channelCounts[i]
		starts := ValidStarts(timestamps, length, group.dilation, cfg.UsePhase)
		candidates = grid.candidates(candidates[:0], starts, float64(count)*cfg.Alpha)
		if len(candidates) == 0 {
			degenerate = append(degenerate, i)
			continue
		}
		pick := candidates[rng.IntN(len(candidates))]
		sample, start := pick/timestamps, pick%timestamps

		channels := set.channels(i)
		copy(channels, rng.Perm(x.Channels())[:count])
		slices.Sort(channels)

		values := set.valuesOf(i)
		for k, c := range channels {
			row := values[k*length : (k+1)*length]
			extract(row, x.Channel(sample, c), start, group.dilation, cfg.UsePhase)
			if set.normalize[i] {
				ZNormalize(row)
			}
			grid.mark(sample, c, start, (length-1)*group.dilation, cfg.UsePhase)
		}
		prov.Samples[i], prov.Starts[i] = sample, start
	}
	return degenerate
}
