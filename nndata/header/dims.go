// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package header

import "encoding/json"

// Dims is a list of per-axis values (element counts or byte strides).
type Dims []int

// MarshalJSON prevents a nil Dims to be serialized as "null",
// preferring an empty array "[]" instead.
func (d Dims) MarshalJSON() ([]byte, error) {
	if d == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]int(d))
}
