// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command nntool packs YAML manifests into serialized NNData messages, and
// dumps the content of serialized messages.
//
// Usage:
//
//	nntool [klog flags] pack -manifest m.yaml -out out.nnd
//	nntool [klog flags] dump -in out.nnd [-first-fp16]
//
// Locations can be local paths or gs://<bucket>/<object> URLs.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"k8s.io/klog/v2"
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	if err := run(context.Background(), flag.Args(), os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("expected a command: pack or dump")
	}
	switch args[0] {
	case "pack":
		return runPack(ctx, args[1:])
	case "dump":
		return runDump(ctx, args[1:], stdout)
	}
	return fmt.Errorf("unknown command %q: expected pack or dump", args[0])
}

func runPack(ctx context.Context, args []string) error {
	var manifestPath, out string
	maxSize := 0

	fs := flag.NewFlagSet("pack", flag.ContinueOnError)
	fs.StringVar(&manifestPath, "manifest", manifestPath, "path of the YAML manifest")
	fs.StringVar(&out, "out", out, "destination path or gs:// URL")
	fs.IntVar(&maxSize, "max-size", maxSize, "maximum byte-buffer size (0 for no limit)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if manifestPath == "" || out == "" {
		return fmt.Errorf("pack: -manifest and -out are required")
	}
	return pack(ctx, manifestPath, out, maxSize)
}

func runDump(ctx context.Context, args []string, stdout io.Writer) error {
	var in string
	firstFP16 := false
	headerLimit := 0
	if s := os.Getenv("NNTOOL_HEADER_LIMIT"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("parsing NNTOOL_HEADER_LIMIT: %w", err)
		}
		headerLimit = v
	}

	fs := flag.NewFlagSet("dump", flag.ContinueOnError)
	fs.StringVar(&in, "in", in, "source path or gs:// URL")
	fs.BoolVar(&firstFP16, "first-fp16", firstFP16, "print the first tensor widened to float32")
	fs.IntVar(&headerLimit, "header-limit", headerLimit, "maximum header size in bytes (0 for no limit)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if in == "" {
		return fmt.Errorf("dump: -in is required")
	}
	return dump(ctx, stdout, in, headerLimit, firstFP16)
}
