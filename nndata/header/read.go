// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package header

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/garncarz/depthai-core/nndata/dtype"
)

type rawDecodedHeader map[string]any

const (
	tensorsKey  = "tensors"
	metadataKey = "metadata"
)

// Read reads and parses from "r" the initial part of a serialized
// NNData stream.
//
// Note that after successfully reading and parsing, NO validation is
// performed on the obtained Header.
//
// The caller is responsible for guarding against reading data up to a lower
// limit, for example for protection against bad/corrupted data. This can be
// done by providing a reader implementation with a limiting mechanism in
// place. For example, see io.LimitedReader.
func Read(r io.Reader) (Header, error) {
	size, err := readHeaderSize(r)
	switch {
	case err != nil:
		return Header{}, err
	case size < 2: // a bare minimum header is "{}"
		return Header{}, fmt.Errorf("header size too small: %d", size)
	case size > math.MaxInt-8: // 8 bytes are the uint64 "size", already read
		return Header{}, fmt.Errorf("header size too large: %d", size)
	}

	raw, err := readAndDecodeJSON(r, int64(size))
	if err != nil {
		return Header{}, fmt.Errorf("failed to JSON-decode header: %w", err)
	}

	h, err := convertRawHeader(raw)
	if err != nil {
		return Header{}, err
	}

	h.ByteBufferOffset = 8 + int(size) // take into account "size" uint64 bytes
	return h, nil
}

func readHeaderSize(r io.Reader) (uint64, error) {
	var arr [8]byte
	b := arr[:]
	if _, err := io.ReadFull(r, b); err != nil {
		return 0, fmt.Errorf("failed to read header size: %w", err)
	}
	return binary.LittleEndian.Uint64(b), nil
}

func readAndDecodeJSON(r io.Reader, size int64) (rawDecodedHeader, error) {
	dec := json.NewDecoder(&io.LimitedReader{R: r, N: size})
	dec.UseNumber()

	var raw rawDecodedHeader
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	// take care of possible padding spaces after JSON object
	if off := dec.InputOffset(); off != size {
		if _, err := dec.Token(); err == nil {
			return nil, fmt.Errorf("unexpected data at byte offset %d", off)
		} else if err != io.EOF {
			return nil, err
		}
	}
	return raw, nil
}

func convertRawHeader(raw rawDecodedHeader) (h Header, err error) {
	for key := range raw {
		if key != tensorsKey && key != metadataKey {
			return Header{}, fmt.Errorf("unknown header key %q", key)
		}
	}
	if rawMeta, ok := raw[metadataKey]; ok {
		if h.Metadata, err = convertRawMetadata(rawMeta); err != nil {
			return Header{}, fmt.Errorf("failed to interpret header metadata: %w", err)
		}
	}
	if rawTensors, ok := raw[tensorsKey]; ok {
		if h.Tensors, err = convertRawTensors(rawTensors); err != nil {
			return Header{}, err
		}
	}
	return h, nil
}

func convertRawMetadata(value any) (m Metadata, err error) {
	raw, ok := value.(map[string]any)
	if !ok {
		return Metadata{}, errors.New("found non-object value")
	}
	for key, rawVal := range raw {
		var v int64
		if v, err = convertInt64(rawVal); err != nil {
			return Metadata{}, fmt.Errorf("%q: %w", key, err)
		}
		switch key {
		case "sequence_num":
			m.SequenceNum = v
		case "timestamp":
			m.Timestamp = time.Duration(v)
		case "timestamp_device":
			m.TimestampDevice = time.Duration(v)
		default:
			return Metadata{}, fmt.Errorf("unknown key %q", key)
		}
	}
	return m, nil
}

func convertRawTensors(value any) ([]Descriptor, error) {
	rawSlice, ok := value.([]any)
	if !ok {
		return nil, errors.New(`found non-array "tensors" value`)
	}
	if len(rawSlice) == 0 {
		return nil, nil
	}
	tensors := make([]Descriptor, len(rawSlice))
	for i, rawItem := range rawSlice {
		rawObj, ok := rawItem.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("failed to interpret header tensor at index %d: found non-object value", i)
		}
		var err error
		if tensors[i], err = convertRawDescriptor(rawObj); err != nil {
			return nil, fmt.Errorf("failed to interpret header tensor at index %d: %w", i, err)
		}
	}
	return tensors, nil
}

func convertRawDescriptor(raw map[string]any) (d Descriptor, err error) {
	if d.Name, err = convertRawName(raw); err != nil {
		return
	}
	if d.Offset, err = convertRawOffset(raw); err != nil {
		return
	}
	if d.DataType, err = convertRawDataType(raw); err != nil {
		return
	}
	if d.Dims, err = convertRawDims(raw, "dims"); err != nil {
		return
	}
	if d.Strides, err = convertRawDims(raw, "strides"); err != nil {
		return
	}
	if len(raw) != 5 {
		err = errors.New("JSON object contains unknown keys")
	}
	return
}

func convertRawName(raw map[string]any) (string, error) {
	rawName, ok := raw["name"]
	if !ok {
		return "", errors.New(`"name" is missing`)
	}
	name, ok := rawName.(string)
	if !ok {
		return "", errors.New(`found non-string "name" value`)
	}
	return name, nil
}

func convertRawOffset(raw map[string]any) (int, error) {
	rawOffset, ok := raw["offset"]
	if !ok {
		return 0, errors.New(`"offset" is missing`)
	}
	offset, err := convertNonNegInt(rawOffset)
	if err != nil {
		return 0, fmt.Errorf(`failed to interpret "offset" value: %w`, err)
	}
	return offset, nil
}

func convertRawDataType(raw map[string]any) (dtype.DataType, error) {
	rawDataType, ok := raw["data_type"]
	if !ok {
		return 0, errors.New(`"data_type" is missing`)
	}
	strDataType, ok := rawDataType.(string)
	if !ok {
		return 0, errors.New(`found non-string "data_type" value`)
	}
	var dt dtype.DataType
	if err := dt.UnmarshalText([]byte(strDataType)); err != nil {
		return 0, fmt.Errorf(`invalid "data_type" value: %q`, strDataType)
	}
	return dt, nil
}

func convertRawDims(raw map[string]any, key string) (Dims, error) {
	rawDims, ok := raw[key]
	if !ok {
		return nil, fmt.Errorf("%q is missing", key)
	}
	rawSlice, ok := rawDims.([]any)
	if !ok {
		return nil, fmt.Errorf("found non-array %q value", key)
	}
	if len(rawSlice) == 0 {
		return nil, nil
	}
	dims := make(Dims, len(rawSlice))
	for i, rawItem := range rawSlice {
		var err error
		if dims[i], err = convertNonNegInt(rawItem); err != nil {
			return nil, fmt.Errorf("failed to interpret %q value at index %d: %w", key, i, err)
		}
	}
	return dims, nil
}

func convertNonNegInt(value any) (int, error) {
	jNum, ok := value.(json.Number)
	if !ok {
		return 0, errors.New("value is not a number")
	}
	num, err := strconv.ParseInt(jNum.String(), 10, strconv.IntSize)
	if err != nil {
		return 0, fmt.Errorf("failed to convert value %q to int: %w", jNum.String(), err)
	}
	if num < 0 {
		return 0, fmt.Errorf("value is negative: %d", num)
	}
	return int(num), nil
}

func convertInt64(value any) (int64, error) {
	jNum, ok := value.(json.Number)
	if !ok {
		return 0, errors.New("value is not a number")
	}
	num, err := strconv.ParseInt(jNum.String(), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to convert value %q to int64: %w", jNum.String(), err)
	}
	return num, nil
}
