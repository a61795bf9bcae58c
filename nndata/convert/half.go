// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package convert

import (
	"encoding/binary"

	"github.com/x448/float16"
)

// PutHalf encodes v as a little-endian half precision value into b[0:2].
// It panics if len(b) < 2.
func PutHalf(b []byte, v float32) {
	binary.LittleEndian.PutUint16(b, float16.Fromfloat32(v).Bits())
}

// Half decodes the little-endian half precision value held in b[0:2].
// It panics if len(b) < 2.
func Half(b []byte) float32 {
	return float16.Frombits(binary.LittleEndian.Uint16(b)).Float32()
}
