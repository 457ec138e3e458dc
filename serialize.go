// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shapelets

import (
	"fmt"
	"io"

	"github.com/nlpodyssey/shapelets/header"
)

// Names of the tensors of a persisted shapelet set.
const (
	tensorValues            = "values"
	tensorThreshold         = "threshold"
	tensorLengths           = "lengths"
	tensorDilations         = "dilations"
	tensorNormalize         = "normalize"
	tensorChannelCounts     = "channel_counts"
	tensorChannelIDs        = "channel_ids"
	tensorProvenanceSamples = "provenance_samples"
	tensorProvenanceStarts  = "provenance_starts"
)

const (
	formatName    = "shapelets"
	formatVersion = "1"
)

// WriteShapeletSet writes set and its provenance to w in safetensors
// format. A nil prov is written as all -1 (unknown).
func WriteShapeletSet(w io.Writer, set *ShapeletSet, prov *Provenance) error {
	if err := set.checkLayout(); err != nil {
		return err
	}
	if prov == nil {
		prov = newProvenance(set.Len())
	}
	if len(prov.Samples) != set.Len() || len(prov.Starts) != set.Len() {
		return fmt.Errorf("%w: provenance of %d/%d shapelets for %d shapelets",
			ErrShapeMismatch, len(prov.Samples), len(prov.Starts), set.Len())
	}

	tensors := []rawTensor{
		f64Tensor(tensorValues, set.values),
		f64Tensor(tensorThreshold, set.thresholds),
		i64Tensor(tensorLengths, set.lengths),
		i64Tensor(tensorDilations, set.dilations),
		boolTensor(tensorNormalize, set.normalize),
		i64Tensor(tensorChannelCounts, set.channelCounts),
		i64Tensor(tensorChannelIDs, set.channelIDs),
		i64Tensor(tensorProvenanceSamples, prov.Samples),
		i64Tensor(tensorProvenanceStarts, prov.Starts),
	}
	head, err := makeValidHeader(tensors, header.Metadata{"format": formatName, "version": formatVersion})
	if err != nil {
		return err
	}
	if err = header.Write(w, head); err != nil {
		return err
	}
	for _, t := range tensors {
		if err = writeTensor(w, t, head.Tensors[t.name]); err != nil {
			return fmt.Errorf("failed to write data of tensor %q: %w", t.name, err)
		}
	}
	return nil
}

func makeValidHeader(tensors []rawTensor, metadata header.Metadata) (header.Header, error) {
	tm := make(header.TensorMap, len(tensors))
	offset := 0
	for _, t := range tensors {
		size, err := header.ByteSize(t.dType.Size(), t.shape())
		if err != nil {
			return header.Header{}, fmt.Errorf("tensor %q: %w", t.name, err)
		}
		if _, ok := tm[t.name]; ok {
			return header.Header{}, fmt.Errorf("duplicate tensor name %q", t.name)
		}
		tm[t.name] = header.Tensor{
			Name:        t.name,
			DType:       t.dType,
			Shape:       t.shape(),
			DataOffsets: header.DataOffsets{Begin: offset, End: offset + size},
		}
		offset += size
	}
	head := header.Header{Tensors: tm, Metadata: metadata}
	if err := head.Validate(); err != nil {
		return header.Header{}, fmt.Errorf("failed to generate a valid header: %w", err)
	}
	return head, nil
}

func writeTensor(w io.Writer, t io.WriterTo, ht header.Tensor) error {
	n, err := t.WriteTo(w)
	if err != nil {
		return err
	}
	expected := int64(ht.DataOffsets.End - ht.DataOffsets.Begin)
	if n != expected {
		return fmt.Errorf("expected %d written bytes, actual %d", expected, n)
	}
	return nil
}
