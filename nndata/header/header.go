// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package header describes the tensors of an NNData byte-buffer: the
// Descriptor of each tensor, the ordered Registry holding them, and the
// JSON header written ahead of the byte-buffer when a message is
// serialized.
//
// A serialized message is laid out as follows:
//
//	[8 bytes]  N, little-endian uint64
//	[N bytes]  JSON header, right-padded with spaces so that 8+N is a
//	           multiple of 64
//	[...]      byte-buffer
//
// The JSON header is an object with a "tensors" array of Descriptors, in
// insertion order, and a "metadata" object:
//
//	{
//	  "tensors": [
//	    {"name": "a", "offset": 0, "data_type": "U8F", "dims": [3], "strides": [1]}
//	  ],
//	  "metadata": {"sequence_num": 7, "timestamp": 1000, "timestamp_device": 900}
//	}
//
// Timestamps are nanoseconds.
package header

import (
	"encoding/json"
	"time"
)

// Header provides tensors information and message metadata.
type Header struct {
	Tensors  []Descriptor
	Metadata Metadata
	// ByteBufferOffset indicates the byte index position where the byte-buffer
	// is expected to start, relative to the beginning of the whole
	// serialized data stream (or file).
	ByteBufferOffset int
}

// Metadata holds the scalar values travelling along with the tensors.
type Metadata struct {
	SequenceNum int64 `json:"sequence_num"`
	// Timestamp is host-correlated.
	Timestamp time.Duration `json:"timestamp"`
	// TimestampDevice comes from the device monotonic clock.
	TimestampDevice time.Duration `json:"timestamp_device"`
}

type jsonHeader struct {
	Tensors  []Descriptor `json:"tensors"`
	Metadata Metadata     `json:"metadata"`
}

// MarshalJSON serializes the Tensors and Metadata of the Header.
// ByteBufferOffset is not part of the JSON representation.
func (h Header) MarshalJSON() ([]byte, error) {
	tensors := h.Tensors
	if tensors == nil {
		tensors = []Descriptor{}
	}
	return json.Marshal(jsonHeader{Tensors: tensors, Metadata: h.Metadata})
}
