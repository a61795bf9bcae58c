// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nndata

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/bits"

	"github.com/garncarz/depthai-core/nndata/convert"
	"github.com/garncarz/depthai-core/nndata/dtype"
	"github.com/garncarz/depthai-core/nndata/header"
)

// LazyMessage allows to read a serialized Message lazy-loading data of
// individual tensors.
type LazyMessage struct {
	rs       io.ReadSeeker
	registry *header.Registry
	metadata header.Metadata
	// dataOffset is the byte-buffer offset relative to the start of rs
	dataOffset int64
	dataLen    int
}

// LazyTensor provides information about a tensor and allows lazy loading
// its data.
type LazyTensor struct {
	rs io.ReadSeeker
	d  header.Descriptor
	// dataOffset is the byte-buffer offset relative to the start of rs
	dataOffset int64
}

// NewLazy reads from "rs" the NNData header and validates it, then
// returns a new LazyMessage in case of success, otherwise nil and an error.
//
// If headerSizeLimit is set to a positive number, its value is used to
// limit the reading of the header. A value of zero, or a negative number,
// have no limiting effects.
//
// The current "seek" position of "rs" is used as a base for all further
// seek-based operations, and the byte-buffer is assumed to extend up to the
// end of "rs".
//
// In order to allow lazy loading of tensors data, the given io.ReadSeeker
// must remain available for operations as long as you are handling
// a LazyMessage object and any LazyTensor obtained from it.
func NewLazy(rs io.ReadSeeker, headerSizeLimit int) (*LazyMessage, error) {
	initialOffset, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("failed to get initial offset: %w", err)
	}

	head, err := readHeader(rs, headerSizeLimit)
	if err != nil {
		return nil, err
	}

	byteBufferOffset, err := checkedAddNonNegInt64(initialOffset, int64(head.ByteBufferOffset))
	if err != nil {
		return nil, fmt.Errorf("failed to calculate total byte-buffer offset: %w", err)
	}

	end, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to seek to end: %w", err)
	}
	dataLen := end - byteBufferOffset
	if dataLen < 0 || dataLen > math.MaxInt {
		return nil, fmt.Errorf("invalid byte-buffer length %d", dataLen)
	}
	if err = head.Validate(int(dataLen)); err != nil {
		return nil, fmt.Errorf("NNData header is invalid: %w", err)
	}

	return &LazyMessage{
		rs:         rs,
		registry:   header.NewRegistry(head.Tensors),
		metadata:   head.Metadata,
		dataOffset: byteBufferOffset,
		dataLen:    int(dataLen),
	}, nil
}

// Metadata returns the sequence number and timestamps read from the header.
func (lm *LazyMessage) Metadata() header.Metadata {
	return lm.metadata
}

// LayerNames returns the names of all tensors, in the order they were
// added. It returns nil if there are no tensors.
func (lm *LazyMessage) LayerNames() []string {
	return lm.registry.Names()
}

// Layers returns the descriptors of all tensors.
func (lm *LazyMessage) Layers() []header.Descriptor {
	return lm.registry.Descriptors()
}

// HasLayer reports whether a tensor with the given name exists.
func (lm *LazyMessage) HasLayer(name string) bool {
	return lm.registry.Contains(name)
}

// LazyTensor returns the first LazyTensor with the given name, and whether
// it has been found.
//
// If ok is false, the LazyTensor is the zero-value, and must not be used.
func (lm *LazyMessage) LazyTensor(name string) (_ LazyTensor, ok bool) {
	d, ok := lm.registry.Find(name)
	if !ok {
		return LazyTensor{}, false
	}
	return LazyTensor{
		rs:         lm.rs,
		d:          d,
		dataOffset: lm.dataOffset,
	}, true
}

// Message reads the whole byte-buffer and returns a fully loaded Message.
func (lm *LazyMessage) Message() (*Message, error) {
	if _, err := lm.rs.Seek(lm.dataOffset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to seek to byte-buffer offset: %w", err)
	}
	data := make([]byte, lm.dataLen)
	if _, err := io.ReadFull(lm.rs, data); err != nil {
		return nil, fmt.Errorf("failed to read byte-buffer: %w", err)
	}
	return newMessageFromHeader(header.Header{
		Tensors:  lm.registry.Descriptors(),
		Metadata: lm.metadata,
	}, data)
}

// Name returns the name of the tensor.
func (lt LazyTensor) Name() string {
	return lt.d.Name
}

// DataType returns the storage type of the tensor.
func (lt LazyTensor) DataType() dtype.DataType {
	return lt.d.DataType
}

// Shape returns the shape of the tensor.
//
// If the shape is zero-length, it returns nil, otherwise a new slice
// is allocated and returned.
func (lt LazyTensor) Shape() []int {
	return copyShape(lt.d.Dims)
}

// ReadData reads and returns the stored bytes of the tensor.
func (lt LazyTensor) ReadData() ([]byte, error) {
	size, err := lt.d.ByteSize()
	if err != nil || size == 0 {
		return nil, err
	}
	if err = lt.seekTensorData(); err != nil {
		return nil, err
	}
	data := make([]byte, size)
	if _, err = io.ReadFull(lt.rs, data); err != nil {
		return nil, fmt.Errorf("failed to read tensor data: %w", err)
	}
	return data, nil
}

// WriteTo reads the stored tensor bytes and copies them to the given
// io.Writer. This method satisfies io.WriterTo interface.
func (lt LazyTensor) WriteTo(w io.Writer) (int64, error) {
	size, err := lt.d.ByteSize()
	if err != nil || size == 0 {
		return 0, err
	}
	if err = lt.seekTensorData(); err != nil {
		return 0, err
	}
	return io.CopyN(w, lt.rs, int64(size))
}

func (lt LazyTensor) seekTensorData() error {
	offset, err := checkedAddNonNegInt64(lt.dataOffset, int64(lt.d.Offset))
	if err != nil {
		return fmt.Errorf("failed to calculate tensor data offset: %w", err)
	}
	if _, err = lt.rs.Seek(offset, io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek to tensor data offset: %w", err)
	}
	return nil
}

// LoadTensor reads the data of a LazyTensor and widens it to T, the same
// way GetTensor does.
func LoadTensor[T convert.Number](lt LazyTensor) (Tensor[T], error) {
	n, err := header.NumElements(lt.d.Dims)
	if err != nil {
		return Tensor[T]{}, fmt.Errorf("invalid dims for tensor %q: %w", lt.d.Name, err)
	}
	data, err := lt.ReadData()
	if err != nil {
		return Tensor[T]{}, err
	}
	return widenTensor[T](lt.d, data, n)
}

var errInt64SumOverflow = errors.New("int64 sum overflow")

func checkedAddNonNegInt64(a, b int64) (int64, error) {
	if a < 0 || b < 0 {
		return 0, fmt.Errorf("unexpected negative number")
	}
	if a == 0 || b == 0 {
		return a + b, nil
	}
	sum, carry := bits.Add64(uint64(a), uint64(b), 0)
	if carry != 0 || sum > math.MaxInt64 {
		return 0, errInt64SumOverflow
	}
	return int64(sum), nil
}
