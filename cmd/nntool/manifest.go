// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/garncarz/depthai-core/nndata"
	"gopkg.in/yaml.v3"
)

// Manifest describes the content of a message to pack.
type Manifest struct {
	SequenceNum     int64          `yaml:"sequence_num"`
	Timestamp       time.Duration  `yaml:"timestamp"`
	TimestampDevice time.Duration  `yaml:"timestamp_device"`
	Tensors         []TensorSource `yaml:"tensors"`
}

// TensorSource is a tensor listed in a Manifest. Type is either "int",
// stored as bytes, or "float", stored as half precision values.
type TensorSource struct {
	Name   string    `yaml:"name"`
	Type   string    `yaml:"type"`
	Shape  []int     `yaml:"shape"`
	Values []float64 `yaml:"values"`
}

func loadManifest(r io.Reader) (Manifest, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return Manifest{}, fmt.Errorf("manifest is empty")
		}
		return Manifest{}, fmt.Errorf("parsing manifest: %w", err)
	}
	return m, nil
}

// Message builds a message with the tensors of the Manifest, in order.
func (m Manifest) Message(maxSize int) (*nndata.Message, error) {
	msg := nndata.NewMessageSize(maxSize).
		SetSequenceNum(m.SequenceNum).
		SetTimestamp(m.Timestamp).
		SetTimestampDevice(m.TimestampDevice)

	for i, ts := range m.Tensors {
		data, err := ts.data()
		if err != nil {
			return nil, fmt.Errorf("tensor %q (index %d): %w", ts.Name, i, err)
		}
		if err = msg.AddTensor(ts.Name, data, ts.Shape...); err != nil {
			return nil, fmt.Errorf("adding tensor %q (index %d): %w", ts.Name, i, err)
		}
	}
	return msg, nil
}

func (ts TensorSource) data() (any, error) {
	switch ts.Type {
	case "float":
		return ts.Values, nil
	case "int":
		out := make([]int64, len(ts.Values))
		for i, v := range ts.Values {
			if v != math.Trunc(v) || v < math.MinInt64 || v >= math.MaxInt64 {
				return nil, fmt.Errorf("value %v at index %d is not an integer", v, i)
			}
			out[i] = int64(v)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unknown type %q, expected \"int\" or \"float\"", ts.Type)
}
