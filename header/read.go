// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package header

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/nlpodyssey/shapelets/dtype"
)

const metadataKey = "__metadata__"

// Read reads and parses the header at the beginning of a safetensors
// stream. The returned Header is not validated.
//
// Callers reading untrusted data should wrap "r" in an io.LimitedReader,
// since the declared header size is honored up to math.MaxInt.
func Read(r io.Reader) (Header, error) {
	var sizeBuf [8]byte
	if _, err := io.ReadFull(r, sizeBuf[:]); err != nil {
		return Header{}, fmt.Errorf("failed to read header size: %w", err)
	}
	size := binary.LittleEndian.Uint64(sizeBuf[:])
	switch {
	case size < 2: // "{}"
		return Header{}, fmt.Errorf("header size too small: %d", size)
	case size > math.MaxInt-8:
		return Header{}, fmt.Errorf("header size too large: %d", size)
	}

	raw, err := decodeJSON(r, int64(size))
	if err != nil {
		return Header{}, fmt.Errorf("failed to JSON-decode header: %w", err)
	}

	var h Header
	if rawMeta, ok := raw[metadataKey]; ok {
		delete(raw, metadataKey)
		if h.Metadata, err = parseMetadata(rawMeta); err != nil {
			return Header{}, err
		}
	}
	if len(raw) > 0 {
		h.Tensors = make(TensorMap, len(raw))
		for name, rawTensor := range raw {
			t, err := parseTensor(name, rawTensor)
			if err != nil {
				return Header{}, fmt.Errorf("failed to interpret header tensor %q: %w", name, err)
			}
			h.Tensors[name] = t
		}
	}
	h.ByteBufferOffset = 8 + int(size)
	return h, nil
}

func decodeJSON(r io.Reader, size int64) (map[string]map[string]any, error) {
	dec := json.NewDecoder(&io.LimitedReader{R: r, N: size})
	dec.UseNumber()

	var raw map[string]map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	// only padding whitespace may follow the JSON object
	if off := dec.InputOffset(); off != size {
		if _, err := dec.Token(); err == nil {
			return nil, fmt.Errorf("unexpected data at byte offset %d", off)
		} else if err != io.EOF {
			return nil, err
		}
	}
	return raw, nil
}

func parseMetadata(raw map[string]any) (Metadata, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	m := make(Metadata, len(raw))
	for k, v := range raw {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("failed to interpret header metadata: found non-string value for key %q", k)
		}
		m[k] = s
	}
	return m, nil
}

func parseTensor(name string, raw map[string]any) (Tensor, error) {
	if len(raw) != 3 {
		return Tensor{}, errors.New(`expected exactly the keys "dtype", "shape" and "data_offsets"`)
	}

	rawDType, ok := raw["dtype"].(string)
	if !ok {
		return Tensor{}, errors.New(`missing or non-string "dtype"`)
	}
	var dt dtype.DType
	if err := dt.UnmarshalText([]byte(rawDType)); err != nil {
		return Tensor{}, err
	}

	shape, err := naturals(raw, "shape", -1)
	if err != nil {
		return Tensor{}, err
	}
	offsets, err := naturals(raw, "data_offsets", 2)
	if err != nil {
		return Tensor{}, err
	}

	return Tensor{
		Name:        name,
		DType:       dt,
		Shape:       shape,
		DataOffsets: DataOffsets{Begin: offsets[0], End: offsets[1]},
	}, nil
}

// naturals converts the JSON array raw[key] to non-negative ints. A
// non-negative wantLen also enforces the array length.
func naturals(raw map[string]any, key string, wantLen int) ([]int, error) {
	items, ok := raw[key].([]any)
	if !ok {
		return nil, fmt.Errorf("missing or non-array %q", key)
	}
	if wantLen >= 0 && len(items) != wantLen {
		return nil, fmt.Errorf("bad %q length: expected %d, actual %d", key, wantLen, len(items))
	}
	out := make([]int, len(items))
	for i, item := range items {
		num, ok := item.(json.Number)
		if !ok {
			return nil, fmt.Errorf("%q value at index %d is not a number", key, i)
		}
		v, err := strconv.ParseInt(num.String(), 10, strconv.IntSize)
		if err != nil {
			return nil, fmt.Errorf("%q value at index %d: %w", key, i, err)
		}
		if v < 0 {
			return nil, fmt.Errorf("%q value at index %d is negative: %d", key, i, v)
		}
		out[i] = int(v)
	}
	return out, nil
}
