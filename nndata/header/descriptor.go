// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package header

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/garncarz/depthai-core/nndata/dtype"
)

// Descriptor locates and types one tensor within an NNData byte-buffer.
//
// Data is row-major ("C") ordered; Strides are expressed in bytes and
// run parallel to Dims.
type Descriptor struct {
	Name     string         `json:"name"`
	Offset   int            `json:"offset"`
	DataType dtype.DataType `json:"data_type"`
	Dims     Dims           `json:"dims"`
	Strides  Dims           `json:"strides"`
}

// NewDescriptor builds a Descriptor whose Strides are the row-major byte
// strides of dims for the given data type.
func NewDescriptor(name string, offset int, dt dtype.DataType, dims []int) Descriptor {
	return Descriptor{
		Name:     name,
		Offset:   offset,
		DataType: dt,
		Dims:     copyDims(dims),
		Strides:  RowMajorStrides(dims, dt.Size()),
	}
}

// RowMajorStrides returns, for each axis, elementSize times the number of
// elements spanned by one step along that axis.
func RowMajorStrides(dims []int, elementSize int) Dims {
	if len(dims) == 0 {
		return nil
	}
	strides := make(Dims, len(dims))
	stride := elementSize
	for i := len(dims) - 1; i >= 0; i-- {
		strides[i] = stride
		stride *= dims[i]
	}
	return strides
}

// ByteSize returns the number of bytes the tensor occupies in the
// byte-buffer.
func (d Descriptor) ByteSize() (int, error) {
	if err := d.DataType.Validate(); err != nil {
		return 0, err
	}
	n, err := NumElements(d.Dims)
	if err != nil {
		return 0, err
	}
	hi, size := bits.Mul(uint(n), uint(d.DataType.Size()))
	if hi != 0 || size > math.MaxInt {
		return 0, fmt.Errorf("int overflow computing tensor byte size")
	}
	return int(size), nil
}

// Clone returns a deep copy of the Descriptor.
func (d Descriptor) Clone() Descriptor {
	d.Dims = copyDims(d.Dims)
	d.Strides = copyDims(d.Strides)
	return d
}

// NumElements returns the product of dims, failing on negative values or
// int overflow. An empty dims counts as zero elements.
func NumElements(dims []int) (int, error) {
	if len(dims) == 0 {
		return 0, nil
	}
	size := uint(1)
	for _, v := range dims {
		if v < 0 {
			return 0, fmt.Errorf("dims contain negative value %d", v)
		}
		var hi uint
		if hi, size = bits.Mul(size, uint(v)); hi != 0 || size > math.MaxInt {
			return 0, fmt.Errorf("int overflow computing tensor elements size from dims")
		}
	}
	return int(size), nil
}

func copyDims(dims []int) Dims {
	if len(dims) == 0 {
		return nil
	}
	d := make(Dims, len(dims))
	copy(d, dims)
	return d
}
