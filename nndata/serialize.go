// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nndata

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/garncarz/depthai-core/nndata/arena"
	"github.com/garncarz/depthai-core/nndata/header"
	"k8s.io/klog/v2"
)

// WriteTo serializes the Message to "w": the header size, the JSON
// header, and the byte-buffer. See package header for the layout.
// This method satisfies io.WriterTo interface.
func (m *Message) WriteTo(w io.Writer) (int64, error) {
	head := header.Header{
		Tensors:  m.registry.Descriptors(),
		Metadata: m.metadata(),
	}
	n, err := writeHeader(w, head)
	if err != nil {
		return n, err
	}
	dn, err := w.Write(m.arena.Bytes())
	n += int64(dn)
	if err != nil {
		return n, fmt.Errorf("failed to write byte-buffer: %w", err)
	}
	klog.V(4).InfoS("Serialized message", "tensors", len(head.Tensors), "bytes", n)
	return n, nil
}

// MarshalBinary serializes the Message in memory.
// This method satisfies encoding.BinaryMarshaler interface.
func (m *Message) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var headerPadding = bytes.Repeat([]byte{' '}, arena.Alignment)

func writeHeader(w io.Writer, head header.Header) (int64, error) {
	jsonHeader, err := head.MarshalJSON()
	if err != nil {
		return 0, err
	}

	jsonLen := len(jsonHeader)
	// the byte-buffer must start at an aligned position
	toAlign := (arena.Alignment - (8+jsonLen)%arena.Alignment) % arena.Alignment

	if err = writeHeaderSize(w, jsonLen+toAlign); err != nil {
		return 0, err
	}
	if _, err = w.Write(jsonHeader); err != nil {
		return 8, fmt.Errorf("failed to write header: %w", err)
	}
	if toAlign > 0 {
		if _, err = w.Write(headerPadding[:toAlign]); err != nil {
			return int64(8 + jsonLen), fmt.Errorf("failed to write header padding: %w", err)
		}
	}
	return int64(8 + jsonLen + toAlign), nil
}

func writeHeaderSize(w io.Writer, n int) error {
	var arr [8]byte
	buf := arr[:]
	binary.LittleEndian.PutUint64(buf, uint64(n))
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("failed to write header size: %w", err)
	}
	return nil
}
