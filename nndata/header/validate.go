// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package header

import (
	"fmt"

	"github.com/garncarz/depthai-core/nndata/arena"
)

// Validate checks whether the content of a Header is consistent with a
// byte-buffer of dataLen bytes, returning an error if a problem is
// encountered, otherwise nil.
//
// The Header is checked against the following rules:
//
//   - ByteBufferOffset must not be negative
//   - each Descriptor's DataType must be valid
//   - Dims must not contain negative values, and Strides must have the
//     same length as Dims
//   - Strides must be the row-major byte strides of Dims for the DataType
//   - each Offset must be a multiple of arena.Alignment
//   - each tensor must start at or after the end of the previous one, in
//     the order they are listed (no overlaps)
//   - each tensor must end within the byte-buffer
//   - no overflow must occur during calculations at any step, making sure
//     that all computed values fit within the "int" type
func (h Header) Validate(dataLen int) error {
	if h.ByteBufferOffset < 0 {
		return fmt.Errorf("invalid byte-buffer offset negative value %d", h.ByteBufferOffset)
	}
	if dataLen < 0 {
		return fmt.Errorf("invalid byte-buffer negative length %d", dataLen)
	}
	prevEnd := 0
	for i, d := range h.Tensors {
		end, err := validateDescriptor(d, prevEnd, dataLen)
		if err != nil {
			return fmt.Errorf("invalid tensor %q (index %d): %w", d.Name, i, err)
		}
		prevEnd = end
	}
	return nil
}

func validateDescriptor(d Descriptor, minBegin, dataLen int) (end int, err error) {
	if err = d.DataType.Validate(); err != nil {
		return 0, err
	}
	if len(d.Dims) != len(d.Strides) {
		return 0, fmt.Errorf("dims and strides length mismatch: %d != %d", len(d.Dims), len(d.Strides))
	}
	byteSize, err := d.ByteSize()
	if err != nil {
		return 0, err
	}
	if err = validateStrides(d); err != nil {
		return 0, err
	}
	if d.Offset%arena.Alignment != 0 {
		return 0, fmt.Errorf("offset %d is not a multiple of %d", d.Offset, arena.Alignment)
	}
	if d.Offset < minBegin {
		return 0, fmt.Errorf("offset %d overlaps previous tensor ending at %d", d.Offset, minBegin)
	}
	if d.Offset > dataLen || byteSize > dataLen-d.Offset {
		return 0, fmt.Errorf("data range [%d, %d+%d) exceeds byte-buffer length %d", d.Offset, d.Offset, byteSize, dataLen)
	}
	return d.Offset + byteSize, nil
}

func validateStrides(d Descriptor) error {
	want := RowMajorStrides(d.Dims, d.DataType.Size())
	for i := range want {
		if d.Strides[i] != want[i] {
			return fmt.Errorf("strides %v are not row-major for dims %v and data type %s (expected %v)", []int(d.Strides), []int(d.Dims), d.DataType, []int(want))
		}
	}
	return nil
}
