// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nndata

import (
	"math"
	"testing"

	"github.com/garncarz/depthai-core/nndata/dtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTensor(t *testing.T) {
	m := NewMessage()
	require.NoError(t, m.AddTensor("a", []int{1, 2, 3}))
	require.NoError(t, m.AddTensor("b", []float64{1.5, 2.5}))

	t.Run("half values", func(t *testing.T) {
		b, err := GetTensor[float32](m, "b")
		require.NoError(t, err)
		assert.Equal(t, "b", b.Name())
		assert.Equal(t, dtype.HalfFloat, b.DataType())
		assert.Equal(t, []int{2}, b.Shape())
		assert.Equal(t, []float32{1.5, 2.5}, b.Data())
	})

	t.Run("byte values", func(t *testing.T) {
		a, err := GetTensor[int](m, "a", 3)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3}, a.Data())
		assert.Equal(t, []int{1}, a.Strides())
	})

	t.Run("half values widened to integers", func(t *testing.T) {
		b, err := GetTensor[int32](m, "b")
		require.NoError(t, err)
		assert.Equal(t, []int32{1, 2}, b.Data())
	})

	t.Run("not found", func(t *testing.T) {
		_, err := GetTensor[float32](m, "c")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("shape mismatch", func(t *testing.T) {
		_, err := GetTensor[float32](m, "b", 1, 2)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("independent from the message", func(t *testing.T) {
		a, err := GetTensor[uint8](m, "a")
		require.NoError(t, err)
		a.Data()[0] = 99
		assert.Equal(t, byte(1), m.Bytes()[0])
	})
}

func TestGetTensor_RoundTripWithinHalfPrecision(t *testing.T) {
	values := make([]float32, 100)
	for i := range values {
		values[i] = float32(i)*0.37 - 18
	}
	m := NewMessage()
	require.NoError(t, m.AddTensor("v", values, 10, 10))

	v, err := GetTensor[float32](m, "v")
	require.NoError(t, err)
	require.Equal(t, len(values), v.Len())
	for i, want := range values {
		got := v.Data()[i]
		assert.LessOrEqual(t, math.Abs(float64(got-want)), math.Abs(float64(want))/1024+1e-7, "index %d", i)
	}
}

func TestGetTensor_HalfAfterOddNumberOfBytes(t *testing.T) {
	m := NewMessage()
	require.NoError(t, m.AddTensor("odd", []uint8{9, 9, 9, 9, 9}))
	require.NoError(t, m.AddTensor("h", []float32{1.5, -2.25, 1024, 0.125}))
	require.NoError(t, m.AddTensor("odd2", []uint8{7}))
	require.NoError(t, m.AddTensor("h2", []float32{-1, 3}))

	h, err := GetTensor[float32](m, "h")
	require.NoError(t, err)
	assert.Equal(t, []float32{1.5, -2.25, 1024, 0.125}, h.Data())

	h2, err := GetTensor[float64](m, "h2")
	require.NoError(t, err)
	assert.Equal(t, []float64{-1, 3}, h2.Data())
}

func TestGetTensor_DuplicateNames(t *testing.T) {
	m := NewMessage()
	require.NoError(t, m.AddTensor("x", []int{1, 2}))
	require.NoError(t, m.AddTensor("x", []int{3, 4, 5}))

	x, err := GetTensor[uint8](m, "x")
	require.NoError(t, err)
	assert.Equal(t, []uint8{1, 2}, x.Data())
	assert.Len(t, m.Layers(), 2)
}

func TestGetFirstTensor(t *testing.T) {
	m := NewMessage()
	empty, err := GetFirstTensor[float32](m)
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())
	assert.Nil(t, empty.Shape())

	require.NoError(t, m.AddTensor("f", []float32{0.5}))
	require.NoError(t, m.AddTensor("g", []float32{4}))
	f, err := GetFirstTensor[float32](m)
	require.NoError(t, err)
	assert.Equal(t, "f", f.Name())
	assert.Equal(t, []float32{0.5}, f.Data())
}

func TestTensor_At(t *testing.T) {
	m := NewMessage()
	data := make([]int, 24)
	for i := range data {
		data[i] = i
	}
	require.NoError(t, m.AddTensor("t", data, 2, 3, 4))
	tensor, err := GetTensor[int](m, "t", 2, 3, 4)
	require.NoError(t, err)

	assert.Equal(t, []int{12, 4, 1}, tensor.Strides())
	assert.Equal(t, 0, tensor.At(0, 0, 0))
	assert.Equal(t, 7, tensor.At(0, 1, 3))
	assert.Equal(t, 23, tensor.At(1, 2, 3))

	assert.Panics(t, func() { tensor.At(0, 0) })
	assert.Panics(t, func() { tensor.At(0, 3, 0) })
	assert.Panics(t, func() { tensor.At(-1, 0, 0) })
}
