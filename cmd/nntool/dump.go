// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/garncarz/depthai-core/internal/blobs"
	"github.com/garncarz/depthai-core/nndata"
	"github.com/garncarz/depthai-core/nndata/header"
	"k8s.io/klog/v2"
)

func dump(ctx context.Context, stdout io.Writer, in string, headerLimit int, firstFP16 bool) error {
	r, err := blobs.Open(ctx, in)
	if err != nil {
		return err
	}
	defer r.Close()

	if err = dumpMessage(ctx, stdout, r, headerLimit, firstFP16); err != nil {
		return fmt.Errorf("reading %q: %w", in, err)
	}
	return nil
}

func dumpMessage(ctx context.Context, stdout io.Writer, r io.Reader, headerLimit int, firstFP16 bool) error {
	log := klog.FromContext(ctx)

	// local files are seekable: only the requested tensor data gets loaded
	if rs, ok := r.(io.ReadSeeker); ok {
		log.V(2).Info("reading message lazily")
		lm, err := nndata.NewLazy(rs, headerLimit)
		if err != nil {
			return err
		}
		printSummary(stdout, lm.Metadata(), lm.Layers())
		if !firstFP16 || len(lm.LayerNames()) == 0 {
			return nil
		}
		lt, _ := lm.LazyTensor(lm.LayerNames()[0])
		t, err := nndata.LoadTensor[float32](lt)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "first: %v\n", t.Data())
		return nil
	}

	msg, err := nndata.ReadAll(r, headerLimit)
	if err != nil {
		return err
	}
	printSummary(stdout, header.Metadata{
		SequenceNum:     msg.SequenceNum(),
		Timestamp:       msg.Timestamp(),
		TimestampDevice: msg.TimestampDevice(),
	}, msg.Layers())
	if !firstFP16 || msg.Len() == 0 {
		return nil
	}
	t, err := nndata.GetFirstTensor[float32](msg)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "first: %v\n", t.Data())
	return nil
}

func printSummary(w io.Writer, md header.Metadata, layers []header.Descriptor) {
	fmt.Fprintf(w, "sequence_num=%d timestamp=%v timestamp_device=%v\n",
		md.SequenceNum, md.Timestamp, md.TimestampDevice)
	for _, d := range layers {
		fmt.Fprintf(w, "%s %s offset=%d dims=%v strides=%v\n",
			d.Name, d.DataType, d.Offset, []int(d.Dims), []int(d.Strides))
	}
}
