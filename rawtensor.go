// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shapelets

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/nlpodyssey/shapelets/dtype"
	"github.com/nlpodyssey/shapelets/header"
)

// rawTensor is one named, typed, 1-dimensional buffer of a persisted
// shapelet set. Data is a []float64, []int64 or []bool matching DType.
type rawTensor struct {
	name  string
	dType dtype.DType
	data  any
}

func f64Tensor(name string, v []float64) rawTensor {
	return rawTensor{name: name, dType: dtype.F64, data: v}
}

func i64Tensor(name string, v []int) rawTensor {
	out := make([]int64, len(v))
	for i, x := range v {
		out[i] = int64(x)
	}
	return rawTensor{name: name, dType: dtype.I64, data: out}
}

func boolTensor(name string, v []bool) rawTensor {
	return rawTensor{name: name, dType: dtype.Bool, data: v}
}

func (t rawTensor) len() int {
	switch d := t.data.(type) {
	case []float64:
		return len(d)
	case []int64:
		return len(d)
	case []bool:
		return len(d)
	}
	return 0
}

func (t rawTensor) shape() header.Shape { return header.Shape{t.len()} }

// WriteTo writes the little-endian data of the tensor to w.
func (t rawTensor) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	if err := binary.Write(cw, binary.LittleEndian, t.data); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

// ints converts an I64 tensor back to ints.
func (t rawTensor) ints() []int {
	d := t.data.([]int64)
	out := make([]int, len(d))
	for i, x := range d {
		out[i] = int(x)
	}
	return out
}

// readRawTensor reads the data described by ht from r, which must be
// positioned at the beginning of the tensor data.
func readRawTensor(ht header.Tensor, r io.Reader) (rawTensor, error) {
	if len(ht.Shape) != 1 {
		return rawTensor{}, fmt.Errorf("expected a 1-dimensional tensor, actual shape %v", []int(ht.Shape))
	}
	n := ht.Shape[0]
	t := rawTensor{name: ht.Name, dType: ht.DType}
	switch ht.DType {
	case dtype.F64:
		t.data = make([]float64, n)
	case dtype.I64:
		t.data = make([]int64, n)
	case dtype.Bool:
		t.data = make([]bool, n)
	default:
		return rawTensor{}, fmt.Errorf("invalid or unsupported DType %s", ht.DType)
	}
	size := int64(ht.DataOffsets.End - ht.DataOffsets.Begin)
	if err := binary.Read(io.LimitReader(r, size), binary.LittleEndian, t.data); err != nil {
		return rawTensor{}, fmt.Errorf("failed to read tensor data: %w", err)
	}
	return t, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
