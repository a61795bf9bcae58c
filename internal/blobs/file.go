// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package blobs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"k8s.io/klog/v2"
)

func openFile(ctx context.Context, path string) (*os.File, error) {
	klog.FromContext(ctx).V(2).Info("opening local file", "path", path)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	return f, nil
}

// atomicFile writes to a temp file, renamed to its destination on Close.
type atomicFile struct {
	log             klog.Logger
	tempFile        *os.File
	destinationPath string
	closed          bool
}

var _ io.WriteCloser = (*atomicFile)(nil)

func createFile(ctx context.Context, destinationPath string) (*atomicFile, error) {
	log := klog.FromContext(ctx)

	dir := filepath.Dir(destinationPath)
	tempFile, err := os.CreateTemp(dir, ".nndata-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp file: %w", err)
	}
	log.V(2).Info("writing local file", "path", destinationPath, "temp", tempFile.Name())

	return &atomicFile{
		log:             log,
		tempFile:        tempFile,
		destinationPath: destinationPath,
	}, nil
}

func (f *atomicFile) Write(p []byte) (int, error) {
	return f.tempFile.Write(p)
}

func (f *atomicFile) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true

	shouldDeleteTempFile := true
	defer func() {
		if shouldDeleteTempFile {
			if err := os.Remove(f.tempFile.Name()); err != nil {
				f.log.Error(err, "removing temp file", "path", f.tempFile.Name())
			}
		}
	}()

	if err := f.tempFile.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(f.tempFile.Name(), f.destinationPath); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}
	shouldDeleteTempFile = false
	return nil
}
