// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dtype

import (
	"encoding"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ encoding.TextMarshaler   = DType(0)
	_ encoding.TextUnmarshaler = new(DType)
)

var (
	validValues = []struct {
		dType  DType
		size   int
		string string
	}{
		{Bool, 1, "BOOL"},
		{I64, 8, "I64"},
		{F64, 8, "F64"},
	}
	invalidValues = []DType{0, 4, 5, 254, 255}
)

func TestDType_Validate(t *testing.T) {
	for _, tc := range validValues {
		assert.NoError(t, tc.dType.Validate())
	}
	for _, dt := range invalidValues {
		assert.EqualError(t, dt.Validate(), fmt.Sprintf("invalid DType(%d)", dt))
	}
}

func TestDType_String(t *testing.T) {
	for _, tc := range validValues {
		assert.Equal(t, tc.string, tc.dType.String())
	}
	for _, dt := range invalidValues {
		assert.Equal(t, fmt.Sprintf("invalid DType(%d)", dt), dt.String())
	}
}

func TestDType_Size(t *testing.T) {
	for _, tc := range validValues {
		assert.Equal(t, tc.size, tc.dType.Size())
	}
	for _, dt := range invalidValues {
		assert.Equal(t, -1, dt.Size())
	}
}

func TestDType_MarshalText(t *testing.T) {
	for _, tc := range validValues {
		t.Run(tc.string, func(t *testing.T) {
			b, err := tc.dType.MarshalText()
			require.NoError(t, err)
			assert.Equal(t, tc.string, string(b))
		})
	}

	t.Run("invalid", func(t *testing.T) {
		_, err := DType(0).MarshalText()
		assert.Error(t, err)
	})
}

func TestDType_UnmarshalText(t *testing.T) {
	for _, tc := range validValues {
		t.Run(tc.string, func(t *testing.T) {
			var dt DType
			require.NoError(t, dt.UnmarshalText([]byte(tc.string)))
			assert.Equal(t, tc.dType, dt)
		})
	}

	for _, s := range []string{"", "F16", "U8", "f64", `"F64"`} {
		t.Run(fmt.Sprintf("unsupported %q", s), func(t *testing.T) {
			var dt DType
			assert.EqualError(t, dt.UnmarshalText([]byte(s)), fmt.Sprintf("unsupported DType %q", s))
		})
	}
}
