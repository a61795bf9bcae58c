// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nndata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage_LegacyLayers(t *testing.T) {
	m := NewMessage()

	u8, err := m.GetFirstLayerUInt8()
	assert.NoError(t, err)
	assert.Nil(t, u8)
	fp16, err := m.GetFirstLayerFP16()
	assert.NoError(t, err)
	assert.Nil(t, fp16)

	require.NoError(t, m.SetLayer("u", []int{4, 5}))
	require.NoError(t, m.SetLayer("f", []float64{0.25}))

	u8, err = m.GetLayerUInt8("u")
	require.NoError(t, err)
	assert.Equal(t, []uint8{4, 5}, u8)

	fp16, err = m.GetLayerFP16("f")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.25}, fp16)

	u8, err = m.GetFirstLayerUInt8()
	require.NoError(t, err)
	assert.Equal(t, []uint8{4, 5}, u8)

	_, err = m.GetFirstLayerFP16()
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = m.GetLayerUInt8("f")
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = m.GetLayerFP16("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
