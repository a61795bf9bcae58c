// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nndata

import (
	"fmt"
	"time"

	"github.com/garncarz/depthai-core/nndata/arena"
	"github.com/garncarz/depthai-core/nndata/convert"
	"github.com/garncarz/depthai-core/nndata/dtype"
	"github.com/garncarz/depthai-core/nndata/header"
	"k8s.io/klog/v2"
)

// Message carries tensors and their metadata.
//
// The zero value is not usable: create messages with NewMessage.
type Message struct {
	arena    *arena.Arena
	registry *header.Registry

	timestamp       time.Duration
	timestampDevice time.Duration
	sequenceNum     int64
}

// NewMessage creates an empty Message.
func NewMessage() *Message {
	return NewMessageSize(0)
}

// NewMessageSize creates an empty Message whose byte-buffer can grow up
// to maxSize bytes. A zero or negative maxSize selects
// arena.DefaultMaxSize.
func NewMessageSize(maxSize int) *Message {
	return &Message{
		arena:    arena.New(maxSize),
		registry: header.NewRegistry(nil),
	}
}

// AddTensor converts data and appends it to the byte-buffer, registering
// it under the given name.
//
// Data must be a slice of integers (int8 to int64, uint8 to uint64, int,
// uint) or floating point numbers (float32, float64). Integers are
// truncated to bytes (values outside [0, 255] wrap around), floating point
// numbers are rounded to half precision. The data is read in row-major
// order.
//
// The shape lists the size of each dimension, outer to inner. If omitted,
// a one-dimensional tensor of len(data) elements is implied. The product
// of the shape must match the length of data.
//
// Names need not be unique, but lookups by name always resolve to the
// first tensor added with that name.
//
// If an error is returned, the Message is left unchanged.
func (m *Message) AddTensor(name string, data any, shape ...int) error {
	dt, n, err := convert.Family(data)
	if err != nil {
		return fmt.Errorf("%w: tensor %q: %w", ErrInvalidArgument, name, err)
	}

	dims := shape
	if len(dims) == 0 {
		dims = []int{n}
	}
	shapeSize, err := header.NumElements(dims)
	if err != nil {
		return fmt.Errorf("%w: tensor %q: %w", ErrInvalidArgument, name, err)
	}
	if shapeSize != n {
		return fmt.Errorf("%w: tensor %q: the size computed from shape %v (%d) does not match data length (%d)",
			ErrInvalidArgument, name, dims, shapeSize, n)
	}

	size := n * dt.Size()
	offset, err := m.arena.Reserve(size)
	if err != nil {
		return fmt.Errorf("failed to reserve %d bytes for tensor %q: %w", size, name, err)
	}
	buf, err := m.arena.Slice(offset, size)
	if err == nil {
		err = convert.Narrow(buf, data)
	}
	if err != nil {
		// family and size were validated above
		panic(fmt.Errorf("unexpected failure writing tensor %q: %w", name, err))
	}

	d := header.NewDescriptor(name, offset, dt, dims)
	m.registry.Add(d)

	klog.V(4).InfoS("Added tensor", "name", name, "dataType", dt, "dims", dims, "offset", offset, "bytes", size)
	return nil
}

// LayerNames returns the names of all tensors, in the order they were
// added. It returns nil if there are no tensors.
func (m *Message) LayerNames() []string {
	return m.registry.Names()
}

// Layers returns the descriptors of all tensors, in the order they were
// added. It returns nil if there are no tensors.
func (m *Message) Layers() []header.Descriptor {
	return m.registry.Descriptors()
}

// HasLayer reports whether a tensor with the given name exists.
func (m *Message) HasLayer(name string) bool {
	return m.registry.Contains(name)
}

// LayerDataType returns the storage type of the named tensor, and whether
// the tensor exists.
func (m *Message) LayerDataType(name string) (dtype.DataType, bool) {
	d, ok := m.registry.Find(name)
	if !ok {
		return 0, false
	}
	return d.DataType, true
}

// Len returns how many tensors are stored within the Message.
func (m *Message) Len() int {
	return m.registry.Len()
}

// Bytes returns the byte-buffer holding the data of all tensors.
//
// The value returned is NOT a copy: it must be treated as read-only.
func (m *Message) Bytes() []byte {
	return m.arena.Bytes()
}

// DataLen returns the length in bytes of the byte-buffer.
func (m *Message) DataLen() int {
	return m.arena.Len()
}

// Timestamp returns the host-correlated timestamp, relative to the steady
// clock epoch.
func (m *Message) Timestamp() time.Duration {
	return m.timestamp
}

// SetTimestamp sets the host-correlated timestamp.
func (m *Message) SetTimestamp(ts time.Duration) *Message {
	m.timestamp = ts
	return m
}

// TimestampDevice returns the timestamp captured from the device monotonic
// clock, not synchronized to host time.
func (m *Message) TimestampDevice() time.Duration {
	return m.timestampDevice
}

// SetTimestampDevice sets the device timestamp.
func (m *Message) SetTimestampDevice(ts time.Duration) *Message {
	m.timestampDevice = ts
	return m
}

// SequenceNum returns the message sequence number.
func (m *Message) SequenceNum() int64 {
	return m.sequenceNum
}

// SetSequenceNum sets the message sequence number.
func (m *Message) SetSequenceNum(n int64) *Message {
	m.sequenceNum = n
	return m
}

func (m *Message) metadata() header.Metadata {
	return header.Metadata{
		SequenceNum:     m.sequenceNum,
		Timestamp:       m.timestamp,
		TimestampDevice: m.timestampDevice,
	}
}

func (m *Message) setMetadata(md header.Metadata) {
	m.sequenceNum = md.SequenceNum
	m.timestamp = md.Timestamp
	m.timestampDevice = md.TimestampDevice
}
