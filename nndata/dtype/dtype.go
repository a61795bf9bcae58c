// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dtype defines the storage types of tensors held in an NNData
// byte-buffer.
package dtype

import (
	"fmt"
)

// DataType represents the wire storage type of a tensor.
type DataType uint8

const (
	// ByteQuantized represents integral values truncated to unsigned
	// 8-bit integers.
	ByteQuantized DataType = iota + 1
	// HalfFloat represents floating point values narrowed to IEEE-754
	// half precision (16-bit, little-endian).
	HalfFloat
)

var (
	dataTypeToString = [...]string{
		ByteQuantized: "U8F",
		HalfFloat:     "FP16",
	}
	dataTypeToJSON = [...]string{
		ByteQuantized: `"U8F"`,
		HalfFloat:     `"FP16"`,
	}
	dataTypeToSize = [...]int{
		ByteQuantized: 1,
		HalfFloat:     2,
	}
)

// Validate returns an error if the DataType is not valid, otherwise nil.
func (dt DataType) Validate() error {
	if dt == 0 || dt > HalfFloat {
		return fmt.Errorf("invalid DataType(%d)", dt)
	}
	return nil
}

// String returns a string representation of a DataType.
func (dt DataType) String() string {
	if err := dt.Validate(); err != nil {
		return err.Error()
	}
	return dataTypeToString[dt]
}

// Size returns the size in bytes of one stored element of this data type,
// or -1 if the DataType value is invalid.
func (dt DataType) Size() int {
	if err := dt.Validate(); err != nil {
		return -1
	}
	return dataTypeToSize[dt]
}

// MarshalJSON satisfies json.Marshaler interface.
func (dt DataType) MarshalJSON() ([]byte, error) {
	if err := dt.Validate(); err != nil {
		return nil, err
	}
	return []byte(dataTypeToJSON[dt]), nil
}

// UnmarshalJSON satisfies json.Unmarshaler interface.
func (dt *DataType) UnmarshalJSON(b []byte) error {
	switch string(b) {
	case `"U8F"`:
		*dt = ByteQuantized
	case `"FP16"`:
		*dt = HalfFloat
	default:
		return fmt.Errorf("failed to JSON-unmarshal DataType from value %q", b)
	}
	return nil
}

// MarshalText satisfies encoding.TextMarshaler interface.
func (dt DataType) MarshalText() ([]byte, error) {
	if err := dt.Validate(); err != nil {
		return nil, err
	}
	return []byte(dataTypeToString[dt]), nil
}

// UnmarshalText satisfies encoding.TextUnmarshaler interface.
func (dt *DataType) UnmarshalText(text []byte) error {
	switch string(text) {
	case "U8F":
		*dt = ByteQuantized
	case "FP16":
		*dt = HalfFloat
	default:
		return fmt.Errorf("failed to text-unmarshal DataType from value %q", text)
	}
	return nil
}
