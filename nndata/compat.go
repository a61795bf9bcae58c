// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nndata

import (
	"fmt"

	"github.com/garncarz/depthai-core/nndata/dtype"
	"github.com/garncarz/depthai-core/nndata/header"
)

// SetLayer adds a one-dimensional tensor.
//
// Deprecated: use AddTensor.
func (m *Message) SetLayer(name string, data any) error {
	return m.AddTensor(name, data)
}

// GetLayer returns the descriptor of the first tensor with the given name,
// and whether it exists.
//
// Deprecated: use Layers or GetTensor.
func (m *Message) GetLayer(name string) (header.Descriptor, bool) {
	return m.registry.Find(name)
}

// GetLayerUInt8 returns the raw bytes of a dtype.ByteQuantized tensor.
//
// Deprecated: use GetTensor.
func (m *Message) GetLayerUInt8(name string) ([]uint8, error) {
	if err := m.checkLayerDataType(name, dtype.ByteQuantized); err != nil {
		return nil, err
	}
	t, err := GetTensor[uint8](m, name)
	return t.Data(), err
}

// GetLayerFP16 returns the values of a dtype.HalfFloat tensor, widened to
// float32.
//
// Deprecated: use GetTensor.
func (m *Message) GetLayerFP16(name string) ([]float32, error) {
	if err := m.checkLayerDataType(name, dtype.HalfFloat); err != nil {
		return nil, err
	}
	t, err := GetTensor[float32](m, name)
	return t.Data(), err
}

// GetFirstLayerUInt8 is like GetLayerUInt8, for the first tensor.
// It returns nil if the Message has no tensors.
//
// Deprecated: use GetFirstTensor.
func (m *Message) GetFirstLayerUInt8() ([]uint8, error) {
	d, ok := m.registry.First()
	if !ok {
		return nil, nil
	}
	return m.GetLayerUInt8(d.Name)
}

// GetFirstLayerFP16 is like GetLayerFP16, for the first tensor.
// It returns nil if the Message has no tensors.
//
// Deprecated: use GetFirstTensor.
func (m *Message) GetFirstLayerFP16() ([]float32, error) {
	d, ok := m.registry.First()
	if !ok {
		return nil, nil
	}
	return m.GetLayerFP16(d.Name)
}

func (m *Message) checkLayerDataType(name string, want dtype.DataType) error {
	dt, ok := m.LayerDataType(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if dt != want {
		return fmt.Errorf("%w: tensor %q has data type %s, not %s", ErrInvalidArgument, name, dt, want)
	}
	return nil
}
