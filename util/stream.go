// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package util

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/golang/snappy"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/hts/bgzf"
	"github.com/klauspost/compress/gzip"
)

// StdioPath names stdin when passed to Open and stdout when passed to Create.
const StdioPath = "-"

// Codec identifies the compression applied to a stream.
type Codec int

const (
	// Plain is uncompressed text.
	Plain Codec = iota
	// Gzip is gzip; multi-member files (including BGZF) are read in full.
	Gzip
	// BGZF is blocked gzip as used by BAM and tabix.  It reads as Gzip.
	BGZF
	// Snappy is the snappy framing format.
	Snappy
)

// DetermineCodec guesses the codec from the path suffix.
func DetermineCodec(path string) Codec {
	switch {
	case strings.HasSuffix(path, ".bgz"):
		return BGZF
	case strings.HasSuffix(path, ".sz"), strings.HasSuffix(path, ".snappy"):
		return Snappy
	}
	if fileio.DetermineType(path) == fileio.Gzip {
		return Gzip
	}
	return Plain
}

// readCloser chains a decompressor in front of the underlying file.
type readCloser struct {
	io.Reader
	closers []func() error
}

func (r *readCloser) Close() error {
	var err errors.Once
	for _, c := range r.closers {
		err.Set(c())
	}
	return err.Err()
}

// Open opens path for reading, decompressing according to the suffix.
// StdioPath reads the standard input, which is never decompressed.
func Open(ctx context.Context, path string) (io.ReadCloser, error) {
	if path == StdioPath {
		return &readCloser{Reader: os.Stdin}, nil
	}
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "open", path)
	}
	rc := &readCloser{
		Reader:  in.Reader(ctx),
		closers: []func() error{func() error { return in.Close(ctx) }},
	}
	switch DetermineCodec(path) {
	case Gzip, BGZF:
		gz, err := gzip.NewReader(rc.Reader)
		if err != nil {
			_ = in.Close(ctx)
			return nil, errors.E(err, "gzip", path)
		}
		rc.Reader = gz
		rc.closers = append([]func() error{gz.Close}, rc.closers...)
	case Snappy:
		rc.Reader = snappy.NewReader(rc.Reader)
	}
	return rc, nil
}

// writeCloser flushes the compressor, then closes the file.
type writeCloser struct {
	io.Writer
	closers []func() error
}

func (w *writeCloser) Close() error {
	var err errors.Once
	for _, c := range w.closers {
		err.Set(c())
	}
	return err.Err()
}

// Create creates path for writing, compressing according to the suffix.  An
// empty path or StdioPath writes to the standard output uncompressed; closing
// it does not close os.Stdout.
func Create(ctx context.Context, path string) (io.WriteCloser, error) {
	if path == "" || path == StdioPath {
		return &writeCloser{Writer: os.Stdout}, nil
	}
	out, err := file.Create(ctx, path)
	if err != nil {
		return nil, errors.E(err, "create", path)
	}
	wc := &writeCloser{
		Writer:  out.Writer(ctx),
		closers: []func() error{func() error { return out.Close(ctx) }},
	}
	var compressor io.WriteCloser
	switch DetermineCodec(path) {
	case Gzip:
		compressor = gzip.NewWriter(wc.Writer)
	case BGZF:
		compressor = bgzf.NewWriter(wc.Writer, 1)
	case Snappy:
		compressor = snappy.NewBufferedWriter(wc.Writer)
	}
	if compressor != nil {
		wc.Writer = compressor
		wc.closers = append([]func() error{compressor.Close}, wc.closers...)
	}
	return wc, nil
}
