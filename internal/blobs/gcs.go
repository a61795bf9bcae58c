// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package blobs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"cloud.google.com/go/storage"
	"k8s.io/klog/v2"
)

type gcsReader struct {
	*storage.Reader
	client *storage.Client
}

func openGCS(ctx context.Context, loc Location) (*gcsReader, error) {
	log := klog.FromContext(ctx)

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating GCS storage client: %w", err)
	}

	log.Info("downloading blob from GCS", "source", loc)

	r, err := client.Bucket(loc.Bucket).Object(loc.Object).NewReader(ctx)
	if err != nil {
		client.Close()
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, fmt.Errorf("opening object from GCS %q: %w", loc, os.ErrNotExist)
		}
		return nil, fmt.Errorf("opening object from GCS %q: %w", loc, err)
	}
	return &gcsReader{Reader: r, client: client}, nil
}

func (r *gcsReader) Close() error {
	err := r.Reader.Close()
	if cerr := r.client.Close(); err == nil {
		err = cerr
	}
	return err
}

type gcsWriter struct {
	*storage.Writer
	client    *storage.Client
	log       klog.Logger
	loc       Location
	startedAt time.Time
}

func createGCS(ctx context.Context, loc Location) (*gcsWriter, error) {
	log := klog.FromContext(ctx)

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating GCS storage client: %w", err)
	}

	log.Info("uploading blob to GCS", "destination", loc)

	w := client.Bucket(loc.Bucket).Object(loc.Object).NewWriter(ctx)
	w.ContentType = "application/octet-stream"
	return &gcsWriter{
		Writer:    w,
		client:    client,
		log:       log,
		loc:       loc,
		startedAt: time.Now(),
	}, nil
}

func (w *gcsWriter) Close() error {
	defer w.client.Close()
	if err := w.Writer.Close(); err != nil {
		return fmt.Errorf("closing GCS writer: %w", err)
	}
	w.log.Info("uploaded blob to GCS", "url", w.loc, "bytes", w.Attrs().Size, "duration", time.Since(w.startedAt))
	return nil
}
