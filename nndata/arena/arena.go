// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package arena provides the append-only, alignment-aware byte-buffer
// backing the tensors of one NNData message.
package arena

import (
	"errors"
	"fmt"
	"math"
)

// Alignment is the byte boundary every reserved region starts on.
const Alignment = 64

// DefaultMaxSize is the size limit applied when none is given.
// Tensor offsets travel as unsigned 32-bit values.
const DefaultMaxSize = min(math.MaxInt, math.MaxUint32)

var (
	// ErrOutOfMemory is returned when the arena cannot grow to satisfy
	// a reservation.
	ErrOutOfMemory = errors.New("out of memory")
	// ErrInvalidSize is returned for negative sizes.
	ErrInvalidSize = errors.New("invalid size")
)

// Arena is a growable byte-buffer. Bytes are only ever appended: regions
// returned by Reserve stay valid, and are never moved relative to the
// buffer start, for the lifetime of the Arena.
//
// An Arena is not safe for concurrent use.
type Arena struct {
	buf     []byte
	maxSize int
}

// New creates an empty Arena that can grow up to maxSize bytes.
// A zero or negative maxSize selects DefaultMaxSize.
func New(maxSize int) *Arena {
	return &Arena{maxSize: normalizeMaxSize(maxSize)}
}

// FromBytes creates an Arena whose content is b. The slice is retained
// without copy.
func FromBytes(b []byte, maxSize int) (*Arena, error) {
	maxSize = normalizeMaxSize(maxSize)
	if len(b) > maxSize {
		return nil, fmt.Errorf("%w: %d bytes exceed arena limit %d", ErrOutOfMemory, len(b), maxSize)
	}
	return &Arena{buf: b[:len(b):len(b)], maxSize: maxSize}, nil
}

func normalizeMaxSize(n int) int {
	if n <= 0 || n > DefaultMaxSize {
		return DefaultMaxSize
	}
	return n
}

// Reserve appends a zero-filled region of payloadSize bytes, preceded by
// as many zero padding bytes as needed for the region to start at a
// multiple of Alignment. It returns the offset of the region.
//
// On failure the Arena is left untouched.
func (a *Arena) Reserve(payloadSize int) (int, error) {
	if payloadSize < 0 {
		return 0, fmt.Errorf("%w: negative payload size %d", ErrInvalidSize, payloadSize)
	}
	offset := a.AlignedLen()
	if offset > a.maxSize || payloadSize > a.maxSize-offset {
		return 0, fmt.Errorf("%w: cannot reserve %d bytes at offset %d, arena limit is %d",
			ErrOutOfMemory, payloadSize, offset, a.maxSize)
	}
	end := offset + payloadSize

	if end <= cap(a.buf) {
		// the spare capacity was zeroed by make and never written
		a.buf = a.buf[:end]
		return offset, nil
	}

	grown := make([]byte, end, growCap(cap(a.buf), end, a.maxSize))
	copy(grown, a.buf)
	a.buf = grown
	return offset, nil
}

func growCap(oldCap, need, limit int) int {
	c := oldCap * 2
	if c < need || c < 0 {
		c = need
	}
	if c > limit {
		c = limit
	}
	return c
}

// Len returns the number of bytes written so far, padding included.
func (a *Arena) Len() int {
	return len(a.buf)
}

// AlignedLen returns Len rounded up to the next multiple of Alignment,
// that is the offset the next reservation would get.
func (a *Arena) AlignedLen() int {
	n := len(a.buf)
	if rem := n % Alignment; rem != 0 {
		n += Alignment - rem
	}
	return n
}

// MaxSize returns the maximum number of bytes the Arena can hold.
func (a *Arena) MaxSize() int {
	return a.maxSize
}

// Bytes returns the whole content of the Arena.
//
// The value returned is NOT a copy and must be treated as read-only.
func (a *Arena) Bytes() []byte {
	return a.buf[:len(a.buf):len(a.buf)]
}

// Slice returns the n bytes starting at offset. It fails if the range
// is not entirely within the Arena.
func (a *Arena) Slice(offset, n int) ([]byte, error) {
	if offset < 0 || n < 0 || offset > len(a.buf) || n > len(a.buf)-offset {
		return nil, fmt.Errorf("byte range [%d, %d+%d) out of arena bounds [0, %d)", offset, offset, n, len(a.buf))
	}
	return a.buf[offset : offset+n : offset+n], nil
}
