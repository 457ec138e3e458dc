// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shapelets

import (
	"fmt"
	"slices"
)

// A ShapeletSet holds n shapelets as parallel per-shapelet arrays plus two
// flattened buffers, values and channelIDs, indexed through prefix-sum
// offset tables:
//
//	values[valuesOffset[i]:valuesOffset[i+1]]    channelCount[i]*length[i] values
//	channelIDs[channelOffset[i]:channelOffset[i+1]] channelCount[i] channel ids
//
// The values of shapelet i are a row-major (channelCount[i], length[i])
// matrix, one row per channel in channel id order.
//
// A set is created once by SampleParams/Generate (or NewShapeletSet) and is
// then only read, except for the one-shot installation of thresholds.
type ShapeletSet struct {
	lengths       []int
	dilations     []int
	normalize     []bool
	channelCounts []int
	thresholds    []float64

	channelIDs []int
	values     []float64

	valuesOffset  []int
	channelOffset []int
}

// Shapelet is a standalone description of one shapelet, used to build a
// ShapeletSet by hand and to inspect one shapelet of a set.
type Shapelet struct {
	Length    int
	Dilation  int
	Normalize bool
	Threshold float64
	// Channels lists the channel ids the shapelet is matched against.
	Channels []int
	// Values is row-major (len(Channels), Length).
	Values []float64
}

// Provenance records where each generated shapelet was extracted from.
// Both fields are -1 for a shapelet that could not be sampled.
type Provenance struct {
	Samples []int
	Starts  []int
}

func newProvenance(n int) *Provenance {
	p := &Provenance{Samples: make([]int, n), Starts: make([]int, n)}
	for i := range p.Samples {
		p.Samples[i], p.Starts[i] = -1, -1
	}
	return p
}

// newShapeletSet allocates a set with zeroed values, channel ids and
// thresholds for the given parameters, taking ownership of the slices.
func newShapeletSet(lengths, dilations []int, normalize []bool, channelCounts []int) *ShapeletSet {
	n := len(lengths)
	s := &ShapeletSet{
		lengths:       lengths,
		dilations:     dilations,
		normalize:     normalize,
		channelCounts: channelCounts,
		thresholds:    make([]float64, n),
		valuesOffset:  make([]int, n+1),
		channelOffset: make([]int, n+1),
	}
	for i := 0; i < n; i++ {
		s.valuesOffset[i+1] = s.valuesOffset[i] + channelCounts[i]*lengths[i]
		s.channelOffset[i+1] = s.channelOffset[i] + channelCounts[i]
	}
	s.values = make([]float64, s.valuesOffset[n])
	s.channelIDs = make([]int, s.channelOffset[n])
	return s
}

// NewShapeletSet builds a set from standalone shapelet descriptions. Values
// of shapelets with Normalize set are z-normalized row by row, so that they
// compare consistently against normalized windows. The input is copied.
func NewShapeletSet(shapelets []Shapelet) (*ShapeletSet, error) {
	n := len(shapelets)
	lengths := make([]int, n)
	dilations := make([]int, n)
	normalize := make([]bool, n)
	channelCounts := make([]int, n)
	for i, sh := range shapelets {
		if sh.Length < 2 || sh.Dilation < 1 || len(sh.Channels) < 1 {
			return nil, fmt.Errorf("%w: shapelet %d has length %d, dilation %d, %d channels",
				ErrShapeMismatch, i, sh.Length, sh.Dilation, len(sh.Channels))
		}
		if want := len(sh.Channels) * sh.Length; len(sh.Values) != want {
			return nil, fmt.Errorf("%w: shapelet %d has %d values, expected %d", ErrShapeMismatch, i, len(sh.Values), want)
		}
		lengths[i], dilations[i] = sh.Length, sh.Dilation
		normalize[i], channelCounts[i] = sh.Normalize, len(sh.Channels)
	}

	s := newShapeletSet(lengths, dilations, normalize, channelCounts)
	for i, sh := range shapelets {
		s.thresholds[i] = sh.Threshold
		copy(s.channels(i), sh.Channels)
		v := s.valuesOf(i)
		copy(v, sh.Values)
		if sh.Normalize {
			for row := 0; row < len(v); row += sh.Length {
				ZNormalize(v[row : row+sh.Length])
			}
		}
	}
	return s, nil
}

// Len returns the number of shapelets.
func (s *ShapeletSet) Len() int { return len(s.lengths) }

// Length returns the window size of shapelet i.
func (s *ShapeletSet) Length(i int) int { return s.lengths[i] }

// Dilation returns the spacing between sampled points of shapelet i.
func (s *ShapeletSet) Dilation(i int) int { return s.dilations[i] }

// Normalized reports whether shapelet i uses z-normalized distances.
func (s *ShapeletSet) Normalized(i int) bool { return s.normalize[i] }

// ChannelCount returns how many channels shapelet i spans.
func (s *ShapeletSet) ChannelCount(i int) int { return s.channelCounts[i] }

// Threshold returns the occurrence distance cutoff of shapelet i.
func (s *ShapeletSet) Threshold(i int) float64 { return s.thresholds[i] }

// Channels returns a copy of the channel ids of shapelet i.
func (s *ShapeletSet) Channels(i int) []int { return slices.Clone(s.channels(i)) }

// Values returns a copy of the (ChannelCount(i), Length(i)) row-major
// values of shapelet i.
func (s *ShapeletSet) Values(i int) []float64 { return slices.Clone(s.valuesOf(i)) }

// ValuesOffset returns the prefix-sum table over ChannelCount*Length,
// of length Len()+1. The returned slice is a copy.
func (s *ShapeletSet) ValuesOffset() []int { return slices.Clone(s.valuesOffset) }

// ChannelOffset returns the prefix-sum table over ChannelCount, of
// length Len()+1. The returned slice is a copy.
func (s *ShapeletSet) ChannelOffset() []int { return slices.Clone(s.channelOffset) }

// Shapelet returns a standalone copy of shapelet i.
func (s *ShapeletSet) Shapelet(i int) Shapelet {
	return Shapelet{
		Length:    s.lengths[i],
		Dilation:  s.dilations[i],
		Normalize: s.normalize[i],
		Threshold: s.thresholds[i],
		Channels:  s.Channels(i),
		Values:    s.Values(i),
	}
}

// SetThresholds installs occurrence thresholds computed by a calibration
// step, one per shapelet.
func (s *ShapeletSet) SetThresholds(thresholds []float64) error {
	if len(thresholds) != s.Len() {
		return fmt.Errorf("%w: %d thresholds for %d shapelets", ErrShapeMismatch, len(thresholds), s.Len())
	}
	copy(s.thresholds, thresholds)
	return nil
}

func (s *ShapeletSet) channels(i int) []int {
	return s.channelIDs[s.channelOffset[i]:s.channelOffset[i+1]]
}

func (s *ShapeletSet) valuesOf(i int) []float64 {
	return s.values[s.valuesOffset[i]:s.valuesOffset[i+1]]
}

// Validate checks the buffer layout and that every shapelet can be
// matched against series of the given dimensions: channel ids are in
// range, and without phase invariance the dilated window fits in
// timestamps.
func (s *ShapeletSet) Validate(channels, timestamps int, usePhase bool) error {
	if err := s.checkLayout(); err != nil {
		return err
	}
	for i := range s.lengths {
		for _, c := range s.channels(i) {
			if c < 0 || c >= channels {
				return fmt.Errorf("%w: shapelet %d uses channel %d, series has %d channels", ErrShapeMismatch, i, c, channels)
			}
		}
		if ValidStarts(timestamps, s.lengths[i], s.dilations[i], usePhase) < 1 {
			return fmt.Errorf("%w: shapelet %d with length %d and dilation %d does not fit %d timestamps",
				ErrShapeMismatch, i, s.lengths[i], s.dilations[i], timestamps)
		}
	}
	return nil
}

// checkLayout verifies the offset tables against the per-shapelet arrays.
func (s *ShapeletSet) checkLayout() error {
	n := len(s.lengths)
	if len(s.dilations) != n || len(s.normalize) != n || len(s.channelCounts) != n || len(s.thresholds) != n {
		return fmt.Errorf("%w: per-shapelet arrays have different lengths", ErrShapeMismatch)
	}
	if len(s.valuesOffset) != n+1 || len(s.channelOffset) != n+1 || s.valuesOffset[0] != 0 || s.channelOffset[0] != 0 {
		return fmt.Errorf("%w: malformed offset tables", ErrShapeMismatch)
	}
	for i := 0; i < n; i++ {
		if s.lengths[i] < 2 || s.dilations[i] < 1 || s.channelCounts[i] < 1 {
			return fmt.Errorf("%w: shapelet %d has length %d, dilation %d, %d channels",
				ErrShapeMismatch, i, s.lengths[i], s.dilations[i], s.channelCounts[i])
		}
		if s.valuesOffset[i+1]-s.valuesOffset[i] != s.channelCounts[i]*s.lengths[i] {
			return fmt.Errorf("%w: values offset of shapelet %d is inconsistent", ErrShapeMismatch, i)
		}
		if s.channelOffset[i+1]-s.channelOffset[i] != s.channelCounts[i] {
			return fmt.Errorf("%w: channel offset of shapelet %d is inconsistent", ErrShapeMismatch, i)
		}
	}
	if len(s.values) != s.valuesOffset[n] || len(s.channelIDs) != s.channelOffset[n] {
		return fmt.Errorf("%w: flattened buffers do not match offset tables", ErrShapeMismatch)
	}
	return nil
}
