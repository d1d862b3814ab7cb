// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package annotate

import (
	"context"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/txannotate/util"
)

// Annotate assigns every read in inPath to its best transcript in refPath and
// writes one line per assigned read to outPath.  An empty outPath, or "-",
// writes to stdout.  If opts.SummaryPath is set, per-chromosome counts are
// written there as well.
func Annotate(ctx context.Context, inPath, refPath, outPath string, opts Opts) (RunStats, error) {
	idx, err := ReadRefIndex(ctx, refPath)
	if err != nil {
		return RunStats{}, err
	}
	batches, err := readBatches(ctx, inPath)
	if err != nil {
		return RunStats{}, err
	}
	log.Printf("%s: %d chromosome(s) to process", inPath, len(batches))
	results, stats, err := Run(batches, idx, opts)
	if err != nil {
		return stats, errors.E(err, "annotate", inPath)
	}
	if err := writeResults(ctx, outPath, results); err != nil {
		return stats, err
	}
	if opts.SummaryPath != "" {
		if err := writeSummaryFile(ctx, opts.SummaryPath, results); err != nil {
			return stats, err
		}
	}
	log.Printf("%s: done, %v", inPath, stats)
	return stats, nil
}

func readBatches(ctx context.Context, path string) (batches []*Batch, err error) {
	in, err := util.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := in.Close(); cerr != nil && err == nil {
			err = errors.E(cerr, "close", path)
		}
	}()
	if batches, err = GroupReads(in); err != nil {
		return nil, errors.E(err, "reads", path)
	}
	return batches, nil
}

func writeResults(ctx context.Context, path string, results []BatchResult) error {
	out, err := util.Create(ctx, path)
	if err != nil {
		return err
	}
	e := errors.Once{}
	for _, r := range results {
		if _, err := out.Write(r.Data); err != nil {
			e.Set(errors.E(err, "write", path))
			break
		}
	}
	if err := out.Close(); err != nil {
		e.Set(errors.E(err, "close", path))
	}
	return e.Err()
}

func writeSummaryFile(ctx context.Context, path string, results []BatchResult) error {
	out, err := util.Create(ctx, path)
	if err != nil {
		return err
	}
	e := errors.Once{}
	if err := WriteSummary(out, results); err != nil {
		e.Set(errors.E(err, "summary", path))
	}
	if err := out.Close(); err != nil {
		e.Set(errors.E(err, "close", path))
	}
	return e.Err()
}
