// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package header

import (
	"fmt"
	"math"
	"math/bits"
)

// Validate checks that the Header describes a consistent byte-buffer:
//
//   - ByteBufferOffset is not negative
//   - each TensorMap key matches its Tensor.Name
//   - data offsets of all tensors tile the byte-buffer contiguously from 0
//   - each tensor's byte range equals the product of its Shape times the
//     DType size, computed without overflow
func (h Header) Validate() error {
	if h.ByteBufferOffset < 0 {
		return fmt.Errorf("invalid byte-buffer offset negative value %d", h.ByteBufferOffset)
	}
	for k, t := range h.Tensors {
		if k != t.Name {
			return fmt.Errorf("tensor names mismatch: TensorMap key %q, Tensor.Name %q", k, t.Name)
		}
	}

	expectedBegin := 0
	for _, t := range h.Tensors.TensorSlice() {
		if err := validateTensor(t, expectedBegin); err != nil {
			return fmt.Errorf("invalid tensor %q: %w", t.Name, err)
		}
		expectedBegin = t.DataOffsets.End
	}
	return nil
}

func validateTensor(t Tensor, expectedBegin int) error {
	if t.DataOffsets.Begin != expectedBegin {
		return fmt.Errorf("expected data-offsets begin %d, actual %d", expectedBegin, t.DataOffsets.Begin)
	}
	if t.DataOffsets.End < t.DataOffsets.Begin {
		return fmt.Errorf("expected data-offsets end >= %d (begin), actual %d", t.DataOffsets.Begin, t.DataOffsets.End)
	}
	if err := t.DType.Validate(); err != nil {
		return err
	}
	byteSize, err := ByteSize(t.DType.Size(), t.Shape)
	if err != nil {
		return err
	}
	if offSize := t.DataOffsets.End - t.DataOffsets.Begin; offSize != byteSize {
		return fmt.Errorf("byte size computed from shape (%d) differs from data-offsets size (%d)", byteSize, offSize)
	}
	return nil
}

// ByteSize returns elemSize times the product of shape, failing on
// negative dimensions or int overflow. An empty shape counts as a scalar.
func ByteSize(elemSize int, shape Shape) (int, error) {
	size := uint(1)
	for _, v := range shape {
		if v < 0 {
			return 0, fmt.Errorf("shape contains negative value %d", v)
		}
		var hi uint
		if hi, size = bits.Mul(size, uint(v)); hi != 0 {
			return 0, fmt.Errorf("int overflow computing tensor elements size from shape")
		}
	}
	if elemSize < 0 {
		elemSize = 0
	}
	hi, byteSize := bits.Mul(size, uint(elemSize))
	if hi != 0 {
		return 0, fmt.Errorf("int overflow computing tensor byte size from shape")
	}
	if byteSize > math.MaxInt {
		return 0, fmt.Errorf("tensor byte size computed from shape is too large for int type: %d", byteSize)
	}
	return int(byteSize), nil
}
