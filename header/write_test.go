// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package header

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/nlpodyssey/shapelets/dtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeader_MarshalJSON(t *testing.T) {
	h := Header{
		Metadata: Metadata{"format": "shapelets"},
		Tensors: TensorMap{
			"lengths": Tensor{Name: "lengths", DType: dtype.I64, Shape: Shape{2}, DataOffsets: DataOffsets{0, 16}},
			"scalar":  Tensor{Name: "scalar", DType: dtype.F64, DataOffsets: DataOffsets{16, 24}},
		},
	}
	b, err := h.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t,
		`{"__metadata__":{"format":"shapelets"},`+
			`"lengths":{"dtype":"I64","shape":[2],"data_offsets":[0,16]},`+
			`"scalar":{"dtype":"F64","shape":[],"data_offsets":[16,24]}}`,
		string(b))

	t.Run("reserved name", func(t *testing.T) {
		h := Header{Tensors: TensorMap{metadataKey: Tensor{Name: metadataKey, DType: dtype.Bool}}}
		_, err := h.MarshalJSON()
		assert.EqualError(t, err, `reserved tensor name "__metadata__"`)
	})
}

func TestWrite(t *testing.T) {
	h := Header{
		Metadata: Metadata{"version": "1"},
		Tensors: TensorMap{
			"values": Tensor{Name: "values", DType: dtype.F64, Shape: Shape{3}, DataOffsets: DataOffsets{0, 24}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, h))

	data := buf.Bytes()
	size := binary.LittleEndian.Uint64(data[:8])
	assert.Equal(t, uint64(len(data)-8), size)
	assert.Zero(t, size%8)

	got, err := Read(bytes.NewReader(data))
	require.NoError(t, err)
	require.NoError(t, got.Validate())

	h.ByteBufferOffset = len(data)
	assert.Equal(t, h, got)
}

func TestTensorMap_TensorSlice(t *testing.T) {
	tm := TensorMap{
		"c": Tensor{Name: "c", DataOffsets: DataOffsets{4, 8}},
		"a": Tensor{Name: "a", DataOffsets: DataOffsets{0, 0}},
		"b": Tensor{Name: "b", DataOffsets: DataOffsets{0, 4}},
	}
	ts := tm.TensorSlice()
	require.Len(t, ts, 3)
	assert.Equal(t, "a", ts[0].Name)
	assert.Equal(t, "b", ts[1].Name)
	assert.Equal(t, "c", ts[2].Name)

	assert.Nil(t, TensorMap{}.TensorSlice())

	t.Run("many tensors", func(t *testing.T) {
		const n = 500
		tm := make(TensorMap, n)
		for i := n - 1; i >= 0; i-- {
			name := fmt.Sprintf("t%03d", i)
			tm[name] = Tensor{Name: name, DataOffsets: DataOffsets{Begin: i / 2 * 8, End: i/2*8 + i%2*8}}
		}
		ts := tm.TensorSlice()
		require.Len(t, ts, n)
		for i, tensor := range ts {
			assert.Equal(t, fmt.Sprintf("t%03d", i), tensor.Name)
		}
	})
}

func TestDataOffsets_UnmarshalJSON(t *testing.T) {
	var d DataOffsets
	require.NoError(t, d.UnmarshalJSON([]byte("[1, 2]")))
	assert.Equal(t, DataOffsets{Begin: 1, End: 2}, d)

	for _, v := range []string{"null", "[]", "[1]", "[1,2,3]", "["} {
		var d DataOffsets
		assert.Error(t, d.UnmarshalJSON([]byte(v)), v)
	}
}
