// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nndata

import (
	"bytes"
	"fmt"
	"io"

	"github.com/garncarz/depthai-core/nndata/arena"
	"github.com/garncarz/depthai-core/nndata/header"
	"k8s.io/klog/v2"
)

// ReadAll reads and interprets a whole serialized Message from "r".
// Everything following the header, up to EOF, is taken as the
// byte-buffer.
//
// If headerSizeLimit is set to a positive number, its value is used to
// limit the reading of the header. This can be useful to guard against
// attacks or tampered/garbage data, avoiding giant memory allocations
// to hold header information. A value of zero, or a negative number, have
// no limiting effects.
func ReadAll(r io.Reader, headerSizeLimit int) (*Message, error) {
	head, err := readHeader(r, headerSizeLimit)
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(io.LimitReader(r, int64(arena.DefaultMaxSize)+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read byte-buffer: %w", err)
	}
	return newMessageFromHeader(head, data)
}

// Deserialize interprets a whole serialized Message from "b".
//
// The byte-buffer portion of "b" is retained by the Message without copy:
// the caller must not modify "b" afterwards.
func Deserialize(b []byte) (*Message, error) {
	head, err := readHeader(bytes.NewReader(b), 0)
	if err != nil {
		return nil, err
	}
	if head.ByteBufferOffset > len(b) {
		return nil, fmt.Errorf("failed to read NNData header: truncated header: %d bytes expected, %d available",
			head.ByteBufferOffset, len(b))
	}
	return newMessageFromHeader(head, b[head.ByteBufferOffset:])
}

func readHeader(r io.Reader, sizeLimit int) (header.Header, error) {
	if sizeLimit > 0 {
		r = io.LimitReader(r, int64(sizeLimit))
	}
	head, err := header.Read(r)
	if err != nil {
		return header.Header{}, fmt.Errorf("failed to read NNData header: %w", err)
	}
	return head, nil
}

func newMessageFromHeader(head header.Header, data []byte) (*Message, error) {
	if err := head.Validate(len(data)); err != nil {
		return nil, fmt.Errorf("NNData header is invalid: %w", err)
	}
	a, err := arena.FromBytes(data, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load byte-buffer: %w", err)
	}
	m := &Message{
		arena:    a,
		registry: header.NewRegistry(head.Tensors),
	}
	m.setMetadata(head.Metadata)
	klog.V(4).InfoS("Read message", "tensors", len(head.Tensors), "dataLen", len(data), "sequenceNum", m.sequenceNum)
	return m, nil
}
