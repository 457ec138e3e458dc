// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shapelets

// occupancy tracks which (sample, channel, start) triples are still free
// to be drawn as shapelet sources. One grid exists per dilation group and
// normalization mode.
type occupancy struct {
	samples    int
	channels   int
	timestamps int
	// taken is indexed by (sample*channels+channel)*timestamps+pos.
	taken []bool
	// free is indexed by sample*timestamps+pos and counts the channels
	// not yet taken at that pair.
	free []int
}

func newOccupancy(samples, channels, timestamps int) *occupancy {
	o := &occupancy{
		samples:    samples,
		channels:   channels,
		timestamps: timestamps,
		taken:      make([]bool, samples*channels*timestamps),
		free:       make([]int, samples*timestamps),
	}
	for i := range o.free {
		o.free[i] = channels
	}
	return o
}

// available returns how many channels are still free at (sample, pos).
func (o *occupancy) available(sample, pos int) int {
	return o.free[sample*o.timestamps+pos]
}

// candidates appends to dst, in (sample, pos) order, the flat index
// sample*timestamps+pos of every pair with pos < starts and at least
// minFree available channels.
func (o *occupancy) candidates(dst []int, starts int, minFree float64) []int {
	for s := 0; s < o.samples; s++ {
		row := o.free[s*o.timestamps : s*o.timestamps+starts]
		for p, n := range row {
			if float64(n) >= minFree {
				dst = append(dst, s*o.timestamps+p)
			}
		}
	}
	return dst
}

// mark takes the start positions within reach of start on the given
// channel of sample. A shapelet of length L and dilation d passes reach
// (L-1)*d, the span its window covers. Positions wrap around the series
// with usePhase and are clipped to it otherwise.
func (o *occupancy) mark(sample, channel, start, reach int, usePhase bool) {
	lo, hi := start-reach, start+reach
	if !usePhase {
		lo, hi = max(lo, 0), min(hi, o.timestamps-1)
	} else if hi-lo+1 > o.timestamps {
		lo, hi = 0, o.timestamps-1
	}
	base := (sample*o.channels + channel) * o.timestamps
	for p := lo; p <= hi; p++ {
		pos := p
		if usePhase {
			pos = mod(p, o.timestamps)
		}
		if o.taken[base+pos] {
			continue
		}
		o.taken[base+pos] = true
		o.free[sample*o.timestamps+pos]--
	}
}

func mod(a, n int) int {
	a %= n
	if a < 0 {
		a += n
	}
	return a
}
