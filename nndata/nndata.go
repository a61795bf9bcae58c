// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package nndata implements NNData messages: several named tensors packed
// into one contiguous byte-buffer for transmission over a bandwidth
// constrained link.
//
// Each tensor is narrowed before being stored: integral values become
// unsigned bytes (dtype.ByteQuantized), floating point values become
// IEEE-754 half precision numbers (dtype.HalfFloat). Every tensor starts
// at an offset multiple of 64 bytes within the byte-buffer, the gap from
// the previous tensor being zero-filled.
//
// A Message is built by one goroutine at a time and, once handed over to
// a transport, must be treated as read-only. Distinct messages are fully
// independent.
package nndata

import (
	"errors"

	"github.com/garncarz/depthai-core/nndata/arena"
)

var (
	// ErrNotFound is returned when a requested tensor does not exist.
	ErrNotFound = errors.New("tensor not found")
	// ErrInvalidArgument is returned for unsupported data types and for
	// shapes inconsistent with the data.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrOutOfMemory is returned when the byte-buffer cannot grow enough
	// to hold a new tensor.
	ErrOutOfMemory = arena.ErrOutOfMemory
)
