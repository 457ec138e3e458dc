// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shapelets

import "fmt"

// Series is an immutable 3-dimensional tensor of float64 values indexed
// by (sample, channel, timestamp), stored row-major in a single slice.
//
// All samples share the same number of channels and timestamps.
type Series struct {
	data       []float64
	samples    int
	channels   int
	timestamps int
}

// NewSeries checks that data holds exactly samples*channels*timestamps
// values and returns a Series backed by it.
//
// Since data can take a large amount of memory, it is NOT copied. The
// caller must not modify it afterwards.
func NewSeries(data []float64, samples, channels, timestamps int) (Series, error) {
	if samples < 0 || channels < 1 || timestamps < 1 {
		return Series{}, fmt.Errorf("%w: invalid series shape (%d, %d, %d)", ErrShapeMismatch, samples, channels, timestamps)
	}
	if size := samples * channels * timestamps; size != len(data) {
		return Series{}, fmt.Errorf("%w: the size computed from shape (%d) does not match data length (%d)", ErrShapeMismatch, size, len(data))
	}
	return Series{
		data:       data,
		samples:    samples,
		channels:   channels,
		timestamps: timestamps,
	}, nil
}

// NewSeriesFromRows copies a nested [sample][channel][timestamp] slice
// into a new Series, failing if the rows are not rectangular.
func NewSeriesFromRows(rows [][][]float64) (Series, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return Series{}, fmt.Errorf("%w: empty series rows", ErrShapeMismatch)
	}
	channels, timestamps := len(rows[0]), len(rows[0][0])
	data := make([]float64, 0, len(rows)*channels*timestamps)
	for i, sample := range rows {
		if len(sample) != channels {
			return Series{}, fmt.Errorf("%w: sample %d has %d channels, expected %d", ErrShapeMismatch, i, len(sample), channels)
		}
		for c, ch := range sample {
			if len(ch) != timestamps {
				return Series{}, fmt.Errorf("%w: sample %d channel %d has %d timestamps, expected %d", ErrShapeMismatch, i, c, len(ch), timestamps)
			}
			data = append(data, ch...)
		}
	}
	return NewSeries(data, len(rows), channels, timestamps)
}

// Samples returns the number of samples.
func (s Series) Samples() int { return s.samples }

// Channels returns the number of channels of every sample.
func (s Series) Channels() int { return s.channels }

// Timestamps returns the number of timestamps of every channel.
func (s Series) Timestamps() int { return s.timestamps }

// Channel returns the values of one channel of one sample.
//
// The returned slice is NOT a copy and must not be modified.
func (s Series) Channel(sample, channel int) []float64 {
	begin := (sample*s.channels + channel) * s.timestamps
	return s.data[begin : begin+s.timestamps : begin+s.timestamps]
}

// Sample returns the (channels*timestamps) values of one sample.
func (s Series) Sample(sample int) []float64 {
	size := s.channels * s.timestamps
	return s.data[sample*size : (sample+1)*size : (sample+1)*size]
}
