// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shapelets

// strideView holds every dilated window of one sample for a fixed
// (length, dilation) pair, laid out as channels × positions × length.
type strideView struct {
	channels  int
	positions int
	length    int
	data      []float64
}

func newStrideView(x Series, sample, length, dilation int, usePhase bool) strideView {
	v := strideView{
		channels:  x.Channels(),
		positions: max(ValidStarts(x.Timestamps(), length, dilation, usePhase), 0),
		length:    length,
	}
	v.data = make([]float64, v.channels*v.positions*length)
	for c := 0; c < v.channels; c++ {
		ch := x.Channel(sample, c)
		for p := 0; p < v.positions; p++ {
			extract(v.window(c, p), ch, p, dilation, usePhase)
		}
	}
	return v
}

// normalized returns a copy of v with every window z-normalized.
func (v strideView) normalized() strideView {
	n := v
	n.data = make([]float64, len(v.data))
	copy(n.data, v.data)
	for i := 0; i < len(n.data); i += n.length {
		ZNormalize(n.data[i : i+n.length])
	}
	return n
}

func (v strideView) window(channel, pos int) []float64 {
	begin := (channel*v.positions + pos) * v.length
	return v.data[begin : begin+v.length : begin+v.length]
}

// distances writes into dst the combined distance vector of the shapelet
// whose per-channel rows are values, matched on the given channels.
// Channel contributions are added in order, as CombineDistances does.
func (v strideView) distances(dst, values []float64, channels []int) []float64 {
	if cap(dst) < v.positions {
		dst = make([]float64, v.positions)
	}
	dst = dst[:v.positions]
	for k, c := range channels {
		row := values[k*v.length : (k+1)*v.length]
		for p := range dst {
			d := sqEuclidean(row, v.window(c, p))
			if k == 0 {
				dst[p] = d
			} else {
				dst[p] += d
			}
		}
	}
	return dst
}
