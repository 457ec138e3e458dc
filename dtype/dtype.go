// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dtype names the element types a shapelet set is encoded with
// when it is persisted in safetensors format.
package dtype

import (
	"fmt"
)

// DType represents a safetensors element type.
type DType uint8

const (
	// Bool is an 8-bit boolean, used for normalization flags.
	Bool DType = iota + 1
	// I64 is a 64-bit signed integer, used for lengths, dilations, channel
	// ids and provenance.
	I64
	// F64 is a 64-bit float, used for shapelet values and thresholds.
	F64
)

var (
	dTypeToString = [...]string{
		Bool: "BOOL",
		I64:  "I64",
		F64:  "F64",
	}
	dTypeToSize = [...]int{
		Bool: 1,
		I64:  8,
		F64:  8,
	}
	stringToDType = map[string]DType{
		"BOOL": Bool,
		"I64":  I64,
		"F64":  F64,
	}
)

// Validate returns an error if the DType is not one of the supported
// values, otherwise nil.
func (dt DType) Validate() error {
	if dt == 0 || dt > F64 {
		return fmt.Errorf("invalid DType(%d)", dt)
	}
	return nil
}

// String returns the safetensors name of the DType.
func (dt DType) String() string {
	if err := dt.Validate(); err != nil {
		return err.Error()
	}
	return dTypeToString[dt]
}

// Size returns the size in bytes of one element, or -1 if the DType is
// invalid.
func (dt DType) Size() int {
	if err := dt.Validate(); err != nil {
		return -1
	}
	return dTypeToSize[dt]
}

// MarshalText satisfies encoding.TextMarshaler interface.
func (dt DType) MarshalText() ([]byte, error) {
	if err := dt.Validate(); err != nil {
		return nil, err
	}
	return []byte(dTypeToString[dt]), nil
}

// UnmarshalText satisfies encoding.TextUnmarshaler interface.
//
// Element types outside the shapelet encoding (for example "F16") are
// rejected even though they are valid safetensors names.
func (dt *DType) UnmarshalText(text []byte) error {
	v, ok := stringToDType[string(text)]
	if !ok {
		return fmt.Errorf("unsupported DType %q", text)
	}
	*dt = v
	return nil
}
