// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package header reads, validates and writes the JSON header of a
// safetensors stream, the container used to persist shapelet sets.
package header

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/nlpodyssey/shapelets/dtype"
)

// Header provides tensors information and metadata, as defined by
// the safetensors format.
type Header struct {
	Tensors  TensorMap
	Metadata Metadata
	// ByteBufferOffset is the position where tensor data starts, relative
	// to the beginning of the stream.
	ByteBufferOffset int
}

// Metadata is a set of free-form key/value string pairs.
type Metadata map[string]string

// Tensor describes one named buffer of the byte-buffer.
type Tensor struct {
	Name        string
	DType       dtype.DType
	Shape       Shape
	DataOffsets DataOffsets
}

// TensorMap is a set of Tensor objects mapped by their name.
type TensorMap map[string]Tensor

// TensorSlice is a slice of Tensor objects.
type TensorSlice []Tensor

// The Shape of a tensor.
type Shape []int

// DataOffsets describes the "[Begin, End)" byte range of a tensor's data,
// relative to the beginning of the byte-buffer.
type DataOffsets struct {
	Begin int
	End   int
}

// MarshalJSON encodes a nil Shape as "[]" instead of "null".
func (s Shape) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]int(s))
}

// MarshalJSON encodes DataOffsets as an array of two numbers.
func (a DataOffsets) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{a.Begin, a.End})
}

// UnmarshalJSON decodes DataOffsets from an array of two numbers.
func (a *DataOffsets) UnmarshalJSON(b []byte) error {
	var decoded []int
	if err := json.Unmarshal(b, &decoded); err != nil {
		return err
	}
	if len(decoded) != 2 {
		return fmt.Errorf("invalid data-offsets value: %q", string(b))
	}
	*a = DataOffsets{Begin: decoded[0], End: decoded[1]}
	return nil
}

// TensorSlice creates a slice of all tensors, sorted by DataOffsets.
func (tm TensorMap) TensorSlice() TensorSlice {
	if len(tm) == 0 {
		return nil
	}
	ts := make(TensorSlice, 0, len(tm))
	for _, t := range tm {
		ts = append(ts, t)
	}
	ts.sortByDataOffsets()
	return ts
}

func (ts TensorSlice) sortByDataOffsets() {
	slices.SortFunc(ts, func(a, b Tensor) int {
		return a.DataOffsets.compare(b.DataOffsets)
	})
}

func (a DataOffsets) compare(b DataOffsets) int {
	return cmp.Or(cmp.Compare(a.Begin, b.Begin), cmp.Compare(a.End, b.End))
}
