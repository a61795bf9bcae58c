// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package blobs opens serialized messages for reading and writing, either
// on the local filesystem or on Google Cloud Storage.
package blobs

import (
	"context"
	"fmt"
	"io"
	"strings"
)

const gcsScheme = "gs://"

// Location identifies a blob: a GCS object when Bucket is set, a local
// file otherwise.
type Location struct {
	Bucket string
	Object string
	Path   string
}

// ParseLocation interprets "gs://bucket/object" URLs as GCS objects, and
// anything else as a local path.
func ParseLocation(s string) (Location, error) {
	if s == "" {
		return Location{}, fmt.Errorf("empty location")
	}
	if !strings.HasPrefix(s, gcsScheme) {
		return Location{Path: s}, nil
	}
	bucket, object, ok := strings.Cut(strings.TrimPrefix(s, gcsScheme), "/")
	if !ok || bucket == "" || object == "" {
		return Location{}, fmt.Errorf("invalid GCS URL %q: expected gs://<bucket>/<object>", s)
	}
	return Location{Bucket: bucket, Object: object}, nil
}

// IsGCS reports whether the location refers to a GCS object.
func (l Location) IsGCS() bool {
	return l.Bucket != ""
}

func (l Location) String() string {
	if l.IsGCS() {
		return gcsScheme + l.Bucket + "/" + l.Object
	}
	return l.Path
}

// Open opens the blob at location for reading.
//
// Local files are returned as *os.File, which also implements io.Seeker.
// If the blob does not exist, the error satisfies
// errors.Is(err, os.ErrNotExist).
func Open(ctx context.Context, location string) (io.ReadCloser, error) {
	loc, err := ParseLocation(location)
	if err != nil {
		return nil, err
	}
	if loc.IsGCS() {
		r, err := openGCS(ctx, loc)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
	f, err := openFile(ctx, loc.Path)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Create opens the blob at location for writing. Content becomes visible
// only once Close returns successfully.
func Create(ctx context.Context, location string) (io.WriteCloser, error) {
	loc, err := ParseLocation(location)
	if err != nil {
		return nil, err
	}
	if loc.IsGCS() {
		w, err := createGCS(ctx, loc)
		if err != nil {
			return nil, err
		}
		return w, nil
	}
	f, err := createFile(ctx, loc.Path)
	if err != nil {
		return nil, err
	}
	return f, nil
}
