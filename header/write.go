// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package header

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"

	"github.com/nlpodyssey/shapelets/dtype"
)

type jsonTensor struct {
	DType       dtype.DType `json:"dtype"`
	Shape       Shape       `json:"shape"`
	DataOffsets DataOffsets `json:"data_offsets"`
}

// MarshalJSON encodes the Header as the safetensors JSON object, with
// metadata under the "__metadata__" key when present.
func (h Header) MarshalJSON() ([]byte, error) {
	obj := make(map[string]any, len(h.Tensors)+1)
	if len(h.Metadata) > 0 {
		obj[metadataKey] = map[string]string(h.Metadata)
	}
	for name, t := range h.Tensors {
		if name == metadataKey {
			return nil, fmt.Errorf("reserved tensor name %q", name)
		}
		obj[name] = jsonTensor{DType: t.DType, Shape: t.Shape, DataOffsets: t.DataOffsets}
	}
	return json.Marshal(obj)
}

var padding = [8]byte{' ', ' ', ' ', ' ', ' ', ' ', ' ', ' '}

// Write writes the size prefix and the JSON header to w, padding the JSON
// with spaces so that the byte-buffer starts 8-byte aligned.
func Write(w io.Writer, h Header) error {
	data, err := h.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to JSON-encode header: %w", err)
	}
	pad := (8 - len(data)%8) % 8

	var sizeBuf [8]byte
	binary.LittleEndian.PutUint64(sizeBuf[:], uint64(len(data)+pad))
	if _, err = w.Write(sizeBuf[:]); err != nil {
		return fmt.Errorf("failed to write header size: %w", err)
	}
	if _, err = w.Write(data); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if pad > 0 {
		if _, err = w.Write(padding[:pad]); err != nil {
			return fmt.Errorf("failed to write header padding: %w", err)
		}
	}
	return nil
}
