// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shapelets

import (
	"fmt"
	"io"
	"math/bits"

	"github.com/nlpodyssey/shapelets/dtype"
	"github.com/nlpodyssey/shapelets/header"
)

var tensorDTypes = map[string]dtype.DType{
	tensorValues:            dtype.F64,
	tensorThreshold:         dtype.F64,
	tensorLengths:           dtype.I64,
	tensorDilations:         dtype.I64,
	tensorNormalize:         dtype.Bool,
	tensorChannelCounts:     dtype.I64,
	tensorChannelIDs:        dtype.I64,
	tensorProvenanceSamples: dtype.I64,
	tensorProvenanceStarts:  dtype.I64,
}

// ReadShapeletSet reads a shapelet set and its provenance written by
// WriteShapeletSet.
//
// If headerSizeLimit is set to a positive number, its value is used to
// limit the reading of the header. This can be useful to guard against
// tampered or garbage data, avoiding giant memory allocations to hold
// header information. A value of zero, or a negative number, have no
// limiting effects.
func ReadShapeletSet(r io.Reader, headerSizeLimit int) (*ShapeletSet, *Provenance, error) {
	head, err := readValidHeader(r, headerSizeLimit)
	if err != nil {
		return nil, nil, err
	}
	if f := head.Metadata["format"]; f != formatName {
		return nil, nil, fmt.Errorf("unexpected format %q, expected %q", f, formatName)
	}
	if v := head.Metadata["version"]; v != formatVersion {
		return nil, nil, fmt.Errorf("unsupported %s version %q", formatName, v)
	}
	if len(head.Tensors) != len(tensorDTypes) {
		return nil, nil, fmt.Errorf("expected %d tensors, actual %d", len(tensorDTypes), len(head.Tensors))
	}
	for name, dt := range tensorDTypes {
		ht, ok := head.Tensors[name]
		if !ok {
			return nil, nil, fmt.Errorf("missing tensor %q", name)
		}
		if ht.DType != dt {
			return nil, nil, fmt.Errorf("tensor %q has DType %s, expected %s", name, ht.DType, dt)
		}
	}

	tensors := make(map[string]rawTensor, len(head.Tensors))
	for _, ht := range head.Tensors.TensorSlice() {
		t, err := readRawTensor(ht, r)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read data of tensor %q: %w", ht.Name, err)
		}
		tensors[ht.Name] = t
	}

	lengths := tensors[tensorLengths].ints()
	n := len(lengths)
	for _, name := range []string{tensorThreshold, tensorDilations, tensorNormalize, tensorChannelCounts, tensorProvenanceSamples, tensorProvenanceStarts} {
		if l := tensors[name].len(); l != n {
			return nil, nil, fmt.Errorf("%w: tensor %q has %d elements, expected %d", ErrShapeMismatch, name, l, n)
		}
	}
	channelCounts, dilations := tensors[tensorChannelCounts].ints(), tensors[tensorDilations].ints()
	values, channelIDs := tensors[tensorValues].data.([]float64), tensors[tensorChannelIDs].ints()
	if err := checkBufferSizes(lengths, dilations, channelCounts, len(values), len(channelIDs)); err != nil {
		return nil, nil, err
	}

	set := newShapeletSet(lengths, dilations, tensors[tensorNormalize].data.([]bool), channelCounts)
	if len(values) != len(set.values) || len(channelIDs) != len(set.channelIDs) {
		return nil, nil, fmt.Errorf("%w: buffers hold %d values and %d channel ids, expected %d and %d",
			ErrShapeMismatch, len(values), len(channelIDs), len(set.values), len(set.channelIDs))
	}
	set.values, set.channelIDs = values, channelIDs
	copy(set.thresholds, tensors[tensorThreshold].data.([]float64))
	if err := set.checkLayout(); err != nil {
		return nil, nil, err
	}

	prov := &Provenance{
		Samples: tensors[tensorProvenanceSamples].ints(),
		Starts:  tensors[tensorProvenanceStarts].ints(),
	}
	return set, prov, nil
}

// checkBufferSizes verifies that the per-shapelet sizes fit in buffers of
// numValues values and numChannelIDs channel ids, stopping at the first
// shapelet that overflows either.
func checkBufferSizes(lengths, dilations, channelCounts []int, numValues, numChannelIDs int) error {
	var totalValues, totalChannels uint
	for i, c := range channelCounts {
		if c < 1 || lengths[i] < 2 || dilations[i] < 1 {
			return fmt.Errorf("%w: shapelet %d has length %d, dilation %d and %d channels",
				ErrShapeMismatch, i, lengths[i], dilations[i], c)
		}
		hi, size := bits.Mul(uint(c), uint(lengths[i]))
		if hi != 0 {
			return fmt.Errorf("%w: shapelet %d size overflows", ErrShapeMismatch, i)
		}
		var carry uint
		totalValues, carry = bits.Add(totalValues, size, 0)
		totalChannels += uint(c)
		if carry != 0 || totalValues > uint(numValues) || totalChannels > uint(numChannelIDs) {
			return fmt.Errorf("%w: shapelet %d exceeds buffers of %d values and %d channel ids",
				ErrShapeMismatch, i, numValues, numChannelIDs)
		}
	}
	return nil
}

func readValidHeader(r io.Reader, sizeLimit int) (header.Header, error) {
	if sizeLimit > 0 {
		r = io.LimitReader(r, int64(sizeLimit))
	}
	head, err := header.Read(r)
	if err != nil {
		return header.Header{}, fmt.Errorf("failed to read shapelet set header: %w", err)
	}
	if err = head.Validate(); err != nil {
		return header.Header{}, fmt.Errorf("shapelet set header is invalid: %w", err)
	}
	return head, nil
}
