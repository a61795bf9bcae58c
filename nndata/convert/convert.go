// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package convert narrows numeric slices to the NNData storage types and
// widens stored bytes back to numeric slices.
//
// Integral values are stored as unsigned bytes by truncation: values
// outside [0, 255] wrap around (two's complement) and are NOT clamped.
// Floating point values are stored as little-endian IEEE-754 half
// precision, rounded to nearest even; values beyond the half range become
// infinities. Both conversions are lossy.
package convert

import (
	"errors"
	"fmt"

	"github.com/garncarz/depthai-core/nndata/dtype"
)

// ErrUnsupportedType is returned for data that is not a slice of one of
// the supported numeric element types.
var ErrUnsupportedType = errors.New("unsupported element type")

// Number is the set of element types a stored tensor can be widened to.
type Number interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~int |
		~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint |
		~float32 | ~float64
}

// Family reports the storage type selected for data, together with the
// number of elements.
//
// Slices of signed or unsigned integers map to dtype.ByteQuantized,
// []float32 and []float64 to dtype.HalfFloat.
func Family(data any) (dtype.DataType, int, error) {
	switch v := data.(type) {
	case []int8:
		return dtype.ByteQuantized, len(v), nil
	case []int16:
		return dtype.ByteQuantized, len(v), nil
	case []int32:
		return dtype.ByteQuantized, len(v), nil
	case []int64:
		return dtype.ByteQuantized, len(v), nil
	case []int:
		return dtype.ByteQuantized, len(v), nil
	case []uint8:
		return dtype.ByteQuantized, len(v), nil
	case []uint16:
		return dtype.ByteQuantized, len(v), nil
	case []uint32:
		return dtype.ByteQuantized, len(v), nil
	case []uint64:
		return dtype.ByteQuantized, len(v), nil
	case []uint:
		return dtype.ByteQuantized, len(v), nil
	case []float32:
		return dtype.HalfFloat, len(v), nil
	case []float64:
		return dtype.HalfFloat, len(v), nil
	}
	return 0, 0, fmt.Errorf("%w: %T", ErrUnsupportedType, data)
}

// Narrow converts every element of data to its storage type, writing the
// result to dst in order. The length of dst must be exactly the number of
// elements times the storage type size.
func Narrow(dst []byte, data any) error {
	dt, n, err := Family(data)
	if err != nil {
		return err
	}
	if want := n * dt.Size(); len(dst) != want {
		return fmt.Errorf("destination size mismatch: expected %d bytes for %d %s elements, actual %d", want, n, dt, len(dst))
	}

	switch v := data.(type) {
	case []int8:
		narrowBytes(dst, v)
	case []int16:
		narrowBytes(dst, v)
	case []int32:
		narrowBytes(dst, v)
	case []int64:
		narrowBytes(dst, v)
	case []int:
		narrowBytes(dst, v)
	case []uint8:
		copy(dst, v)
	case []uint16:
		narrowBytes(dst, v)
	case []uint32:
		narrowBytes(dst, v)
	case []uint64:
		narrowBytes(dst, v)
	case []uint:
		narrowBytes(dst, v)
	case []float32:
		for i, x := range v {
			PutHalf(dst[2*i:], x)
		}
	case []float64:
		for i, x := range v {
			PutHalf(dst[2*i:], float32(x))
		}
	}
	return nil
}

func narrowBytes[T ~int8 | ~int16 | ~int32 | ~int64 | ~int | ~uint16 | ~uint32 | ~uint64 | ~uint](dst []byte, src []T) {
	for i, x := range src {
		dst[i] = byte(x)
	}
}

// Widen decodes len(dst) elements of type dt from src into dst.
//
// Element i is read from src[i] for dtype.ByteQuantized, and from
// src[2*i : 2*i+2] for dtype.HalfFloat; src is expected to start at the
// first byte of the tensor.
//
// Bytes are zero-extended. Half values are expanded to float32 and then
// converted to T, so a non-float T truncates toward zero.
func Widen[T Number](dst []T, src []byte, dt dtype.DataType) error {
	if err := dt.Validate(); err != nil {
		return err
	}
	if need := len(dst) * dt.Size(); len(src) < need {
		return fmt.Errorf("source too short: expected at least %d bytes for %d %s elements, actual %d", need, len(dst), dt, len(src))
	}

	switch dt {
	case dtype.ByteQuantized:
		for i := range dst {
			dst[i] = T(src[i])
		}
	case dtype.HalfFloat:
		for i := range dst {
			dst[i] = T(Half(src[2*i:]))
		}
	}
	return nil
}
