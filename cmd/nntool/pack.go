// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/garncarz/depthai-core/internal/blobs"
	"k8s.io/klog/v2"
)

func pack(ctx context.Context, manifestPath, out string, maxSize int) error {
	log := klog.FromContext(ctx)

	f, err := os.Open(manifestPath)
	if err != nil {
		return fmt.Errorf("opening manifest: %w", err)
	}
	defer f.Close()

	manifest, err := loadManifest(f)
	if err != nil {
		return err
	}
	msg, err := manifest.Message(maxSize)
	if err != nil {
		return err
	}

	w, err := blobs.Create(ctx, out)
	if err != nil {
		return err
	}
	n, err := msg.WriteTo(w)
	if err != nil {
		w.Close()
		return fmt.Errorf("writing message to %q: %w", out, err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("writing message to %q: %w", out, err)
	}

	log.Info("packed message", "destination", out, "tensors", msg.Len(), "bytes", n)
	return nil
}
