// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nndata

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"
	"testing/iotest"
	"time"

	"github.com/garncarz/depthai-core/nndata/arena"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMessage(t *testing.T) *Message {
	t.Helper()
	m := NewMessage().
		SetSequenceNum(7).
		SetTimestamp(1500 * time.Millisecond).
		SetTimestampDevice(900 * time.Millisecond)
	require.NoError(t, m.AddTensor("a", []int{1, 2, 3}))
	require.NoError(t, m.AddTensor("b", []float32{1.5, 2.5, -4, 0.5, 8, 16}, 2, 3))
	require.NoError(t, m.AddTensor("a", []uint16{300}))
	return m
}

func TestMessage_WriteTo(t *testing.T) {
	m := newTestMessage(t)

	var buf bytes.Buffer
	n, err := m.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)

	b := buf.Bytes()
	headerSize := int(binary.LittleEndian.Uint64(b[:8]))
	assert.Zero(t, (8+headerSize)%arena.Alignment)
	assert.Equal(t, m.Bytes(), b[8+headerSize:])

	jsonHeader := string(b[8 : 8+headerSize])
	assert.Contains(t, jsonHeader, `{"tensors":[{"name":"a","offset":0,"data_type":"U8F","dims":[3],"strides":[1]},`)
	assert.Contains(t, jsonHeader, `"metadata":{"sequence_num":7,"timestamp":1500000000,"timestamp_device":900000000}}`)

	mb, err := m.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, b, mb)
}

func TestMessage_WriteTo_Empty(t *testing.T) {
	b, err := NewMessage().MarshalBinary()
	require.NoError(t, err)
	require.Len(t, b, 2*arena.Alignment)

	m, err := Deserialize(b)
	require.NoError(t, err)
	assert.Zero(t, m.Len())
	assert.Zero(t, m.DataLen())
}

func TestMessage_WriteTo_WriterError(t *testing.T) {
	m := newTestMessage(t)
	_, err := m.WriteTo(failingWriter{})
	assert.ErrorIs(t, err, assert.AnError)
	assert.ErrorContains(t, err, "failed to write header size")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, assert.AnError
}

func TestDeserialize(t *testing.T) {
	orig := newTestMessage(t)
	b, err := orig.MarshalBinary()
	require.NoError(t, err)

	m, err := Deserialize(b)
	require.NoError(t, err)
	assertSameMessage(t, orig, m)

	// appending keeps working on a deserialized message
	require.NoError(t, m.AddTensor("c", []int{5}))
	d, ok := m.GetLayer("c")
	require.True(t, ok)
	assert.Equal(t, 192, d.Offset)
	c, err := GetTensor[int](m, "c")
	require.NoError(t, err)
	assert.Equal(t, []int{5}, c.Data())
	// the source buffer is untouched
	assert.Equal(t, orig.Bytes(), b[len(b)-orig.DataLen():])
}

func TestDeserialize_Failure(t *testing.T) {
	t.Run("truncated size", func(t *testing.T) {
		_, err := Deserialize([]byte{1, 2})
		assert.EqualError(t, err, "failed to read NNData header: failed to read header size: unexpected EOF")
	})

	t.Run("truncated padding", func(t *testing.T) {
		b := makeSerialized(`{}`, 0)
		binary.LittleEndian.PutUint64(b, 100)
		_, err := Deserialize(b)
		assert.EqualError(t, err, "failed to read NNData header: truncated header: 108 bytes expected, 10 available")
	})

	t.Run("truncated data", func(t *testing.T) {
		b, err := newTestMessage(t).MarshalBinary()
		require.NoError(t, err)
		_, err = Deserialize(b[:len(b)-1])
		assert.ErrorContains(t, err, `NNData header is invalid: invalid tensor "a" (index 2)`)
	})

	t.Run("misaligned tensor", func(t *testing.T) {
		b := makeSerialized(`{"tensors":[{"name":"a","offset":1,"data_type":"U8F","dims":[1],"strides":[1]}]}`, 2)
		_, err := Deserialize(b)
		assert.EqualError(t, err, `NNData header is invalid: invalid tensor "a" (index 0): offset 1 is not a multiple of 64`)
	})
}

func TestReadAll(t *testing.T) {
	orig := newTestMessage(t)
	b, err := orig.MarshalBinary()
	require.NoError(t, err)

	m, err := ReadAll(iotest.OneByteReader(bytes.NewReader(b)), 0)
	require.NoError(t, err)
	assertSameMessage(t, orig, m)

	t.Run("header size limit", func(t *testing.T) {
		_, err := ReadAll(bytes.NewReader(b), 20)
		assert.ErrorContains(t, err, "failed to read NNData header: failed to JSON-decode header")
	})

	t.Run("reader error", func(t *testing.T) {
		r := io.MultiReader(bytes.NewReader(b[:70]), iotest.ErrReader(assert.AnError))
		_, err := ReadAll(r, 0)
		assert.Error(t, err)
	})
}

func assertSameMessage(t *testing.T, want, got *Message) {
	t.Helper()
	assert.Equal(t, want.SequenceNum(), got.SequenceNum())
	assert.Equal(t, want.Timestamp(), got.Timestamp())
	assert.Equal(t, want.TimestampDevice(), got.TimestampDevice())
	assert.Equal(t, want.Layers(), got.Layers())
	assert.Equal(t, want.Bytes(), got.Bytes())

	for _, name := range want.LayerNames() {
		wt, err := GetTensor[float64](want, name)
		require.NoError(t, err)
		gt, err := GetTensor[float64](got, name)
		require.NoError(t, err)
		assert.Equal(t, wt, gt)
	}
}

func makeSerialized(jsonHeader string, byteBufferSize int) []byte {
	var b bytes.Buffer
	var size [8]byte
	binary.LittleEndian.PutUint64(size[:], uint64(len(jsonHeader)))
	b.Write(size[:])
	b.WriteString(jsonHeader)
	b.Write(make([]byte, byteBufferSize))
	return b.Bytes()
}
