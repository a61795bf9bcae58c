// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dtype

import (
	"encoding"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ json.Marshaler           = DataType(0)
	_ json.Unmarshaler         = new(DataType)
	_ encoding.TextMarshaler   = DataType(0)
	_ encoding.TextUnmarshaler = new(DataType)
)

var (
	validValues = []struct {
		dataType DataType
		size     int
		string   string
		json     string
	}{
		{ByteQuantized, 1, "U8F", `"U8F"`},
		{HalfFloat, 2, "FP16", `"FP16"`},
	}
	invalidValues = []DataType{0, 3, 4, 254, 255}
)

func TestDataType_Validate(t *testing.T) {
	for _, tc := range validValues {
		assert.NoError(t, tc.dataType.Validate())
	}

	for _, dt := range invalidValues {
		assert.EqualError(t, dt.Validate(), fmt.Sprintf("invalid DataType(%d)", dt))
	}
}

func TestDataType_String(t *testing.T) {
	for _, tc := range validValues {
		assert.Equal(t, tc.string, tc.dataType.String())
	}

	for _, dt := range invalidValues {
		assert.Equal(t, fmt.Sprintf("invalid DataType(%d)", dt), dt.String())
	}
}

func TestDataType_Size(t *testing.T) {
	for _, tc := range validValues {
		assert.Equal(t, tc.size, tc.dataType.Size())
	}

	for _, dt := range invalidValues {
		assert.Equal(t, -1, dt.Size())
	}
}

func TestDataType_MarshalJSON(t *testing.T) {
	for _, tc := range validValues {
		b, err := tc.dataType.MarshalJSON()
		assert.NoError(t, err)
		assert.Equal(t, []byte(tc.json), b)
	}

	for _, dt := range invalidValues {
		b, err := dt.MarshalJSON()
		assert.EqualError(t, err, fmt.Sprintf("invalid DataType(%d)", dt))
		assert.Nil(t, b)
	}
}

func TestDataType_UnmarshalJSON(t *testing.T) {
	for _, tc := range validValues {
		var dt DataType
		err := dt.UnmarshalJSON([]byte(tc.json))
		assert.NoError(t, err)
		assert.Equal(t, tc.dataType, dt)
	}

	var dt DataType
	assert.EqualError(t, dt.UnmarshalJSON(nil), `failed to JSON-unmarshal DataType from value ""`)
	assert.EqualError(t, dt.UnmarshalJSON([]byte("U8F")), `failed to JSON-unmarshal DataType from value "U8F"`)
	assert.EqualError(t, dt.UnmarshalJSON([]byte(`"U8"`)), `failed to JSON-unmarshal DataType from value "\"U8\""`)
}

func TestDataType_JSONField(t *testing.T) {
	type wrapper struct {
		DataType DataType `json:"data_type"`
	}
	b, err := json.Marshal(wrapper{HalfFloat})
	require.NoError(t, err)
	assert.Equal(t, `{"data_type":"FP16"}`, string(b))

	var w wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"data_type":"U8F"}`), &w))
	assert.Equal(t, ByteQuantized, w.DataType)
}

func TestDataType_MarshalText(t *testing.T) {
	for _, tc := range validValues {
		b, err := tc.dataType.MarshalText()
		assert.NoError(t, err)
		assert.Equal(t, []byte(tc.string), b)
	}

	for _, dt := range invalidValues {
		b, err := dt.MarshalText()
		assert.EqualError(t, err, fmt.Sprintf("invalid DataType(%d)", dt))
		assert.Nil(t, b)
	}
}

func TestDataType_UnmarshalText(t *testing.T) {
	for _, tc := range validValues {
		var dt DataType
		err := dt.UnmarshalText([]byte(tc.string))
		assert.NoError(t, err)
		assert.Equal(t, tc.dataType, dt)
	}

	var dt DataType
	assert.EqualError(t, dt.UnmarshalText(nil), `failed to text-unmarshal DataType from value ""`)
	assert.EqualError(t, dt.UnmarshalText([]byte("fp16")), `failed to text-unmarshal DataType from value "fp16"`)
}
