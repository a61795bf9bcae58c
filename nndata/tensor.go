// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nndata

import (
	"fmt"
	"slices"

	"github.com/garncarz/depthai-core/nndata/arena"
	"github.com/garncarz/depthai-core/nndata/convert"
	"github.com/garncarz/depthai-core/nndata/dtype"
	"github.com/garncarz/depthai-core/nndata/header"
)

// A Tensor with data widened from its stored representation and fully
// loaded in memory. Data is laid out in row-major order.
//
// A Tensor is independent from the Message it was obtained from.
type Tensor[T convert.Number] struct {
	name     string
	dataType dtype.DataType
	shape    []int
	data     []T
}

// GetTensor reconstructs the first tensor registered with the given name,
// widening its data to T.
//
// Floating point T receives the half precision values exactly; for integral
// T, half values are truncated toward zero and bytes are zero-extended.
//
// If expectedShape is given, it must match the stored dims, otherwise
// an error wrapping ErrInvalidArgument is returned. If no tensor has the
// given name, the error wraps ErrNotFound.
func GetTensor[T convert.Number](m *Message, name string, expectedShape ...int) (Tensor[T], error) {
	d, ok := m.registry.Find(name)
	if !ok {
		return Tensor[T]{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if len(expectedShape) > 0 && !slices.Equal(expectedShape, []int(d.Dims)) {
		return Tensor[T]{}, fmt.Errorf("%w: tensor %q has shape %v, expected %v",
			ErrInvalidArgument, name, []int(d.Dims), expectedShape)
	}
	return readTensor[T](m.arena, d)
}

// GetFirstTensor reconstructs the first tensor of the Message, widening its
// data to T.
//
// If the Message has no tensors, it returns an empty Tensor and no error.
func GetFirstTensor[T convert.Number](m *Message) (Tensor[T], error) {
	d, ok := m.registry.First()
	if !ok {
		return Tensor[T]{}, nil
	}
	return readTensor[T](m.arena, d)
}

func readTensor[T convert.Number](a *arena.Arena, d header.Descriptor) (Tensor[T], error) {
	n, err := header.NumElements(d.Dims)
	if err != nil {
		return Tensor[T]{}, fmt.Errorf("invalid dims for tensor %q: %w", d.Name, err)
	}
	size, err := d.ByteSize()
	if err != nil {
		return Tensor[T]{}, fmt.Errorf("invalid dims for tensor %q: %w", d.Name, err)
	}
	src, err := a.Slice(d.Offset, size)
	if err != nil {
		return Tensor[T]{}, fmt.Errorf("failed to access data of tensor %q: %w", d.Name, err)
	}
	return widenTensor[T](d, src, n)
}

func widenTensor[T convert.Number](d header.Descriptor, src []byte, n int) (Tensor[T], error) {
	data := make([]T, n)
	if err := convert.Widen(data, src, d.DataType); err != nil {
		return Tensor[T]{}, fmt.Errorf("failed to convert data of tensor %q: %w", d.Name, err)
	}
	return Tensor[T]{
		name:     d.Name,
		dataType: d.DataType,
		shape:    copyShape(d.Dims),
		data:     data,
	}, nil
}

// Name returns the name of the tensor.
func (t Tensor[T]) Name() string {
	return t.name
}

// DataType returns the type the tensor data was stored with.
func (t Tensor[T]) DataType() dtype.DataType {
	return t.dataType
}

// Shape returns the shape of the tensor.
//
// If the shape is zero-length, it returns nil, otherwise a new slice
// is allocated and returned.
func (t Tensor[T]) Shape() []int {
	return copyShape(t.shape)
}

// Strides returns the row-major strides of the tensor, in number of
// elements (not bytes).
func (t Tensor[T]) Strides() []int {
	return header.RowMajorStrides(t.shape, 1)
}

// Data returns the tensor data.
//
// The value returned is NOT a copy.
func (t Tensor[T]) Data() []T {
	return t.data
}

// Len returns the number of elements.
func (t Tensor[T]) Len() int {
	return len(t.data)
}

// IsEmpty reports whether the tensor holds no data.
func (t Tensor[T]) IsEmpty() bool {
	return len(t.data) == 0
}

// At returns the element at the given multi-dimensional index.
// It panics if the number of indices does not match the shape, or if any
// index is out of range.
func (t Tensor[T]) At(index ...int) T {
	if len(index) != len(t.shape) {
		panic(fmt.Sprintf("nndata: %d indices for tensor of rank %d", len(index), len(t.shape)))
	}
	pos := 0
	for i, v := range index {
		if v < 0 || v >= t.shape[i] {
			panic(fmt.Sprintf("nndata: index %d out of range [0:%d] at dimension %d", v, t.shape[i], i))
		}
		pos = pos*t.shape[i] + v
	}
	return t.data[pos]
}

func copyShape(shape []int) []int {
	if len(shape) == 0 {
		return nil
	}
	s := make([]int, len(shape))
	copy(s, shape)
	return s
}
