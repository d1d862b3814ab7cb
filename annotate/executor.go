// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package annotate

import (
	"bytes"
	"fmt"
	"io"
	"runtime"

	"blainsmith.com/go/seahash"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/txannotate/encoding/gpd"
	"github.com/grailbio/txannotate/interval"
	"github.com/pkg/errors"
)

type readLine struct {
	lineNum int
	line    string
}

// Batch is the raw read lines of one chromosome, in input order.
type Batch struct {
	Chrom string
	reads []readLine
}

// Len returns the number of reads in the batch.
func (b *Batch) Len() int { return len(b.reads) }

// GroupReads splits the GPD lines of r by chromosome.  Batches are returned
// in order of the first appearance of their chromosome.  Only the chromosome
// column is examined here; the rest of each line is parsed by Run.
func GroupReads(r io.Reader) ([]*Batch, error) {
	var (
		batches []*Batch
		byChrom = map[string]*Batch{}
		sc      = gpd.NewScanner(r)
	)
	for sc.Scan() {
		chrom, err := gpd.Chrom(sc.Bytes())
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", sc.LineNum())
		}
		b, ok := byChrom[string(chrom)]
		if !ok {
			b = &Batch{Chrom: string(chrom)}
			byChrom[b.Chrom] = b
			batches = append(batches, b)
		}
		b.reads = append(b.reads, readLine{lineNum: sc.LineNum(), line: sc.Text()})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return batches, nil
}

// BatchResult is the output of one batch.
type BatchResult struct {
	Chrom string
	// Data is the formatted output lines, in input order.
	Data  []byte
	Stats Stats
}

// BatchError reports the failure of the batch of one chromosome.
type BatchError struct {
	Chrom string
	Err   error
}

func (e *BatchError) Error() string { return fmt.Sprintf("chromosome %s: %v", e.Chrom, e.Err) }

// Cause returns the underlying error, for errors.Cause.
func (e *BatchError) Cause() error { return e.Err }

// annotateBatch matches every read of b against c.  If region is non-nil,
// reads that do not overlap it are dropped.  It does not touch any shared
// state, so batches can run concurrently.
func annotateBatch(b *Batch, c *ChromIndex, region *interval.Range, opts *Opts) (BatchResult, error) {
	var (
		buf   bytes.Buffer
		w     = tsv.NewWriter(&buf)
		stats Stats
	)
	for _, rl := range b.reads {
		read, err := gpd.ParseString(rl.line)
		if err != nil {
			return BatchResult{}, errors.Wrapf(err, "line %d", rl.lineNum)
		}
		if region != nil && !read.Range.Overlaps(*region) {
			stats.Filtered++
			continue
		}
		stats.Reads++
		candidates, nOverlap := FindCandidates(&read, c, opts)
		best, ok := Rank(&read, candidates)
		if !ok {
			if nOverlap == 0 {
				stats.NoCandidate++
			} else {
				stats.Rejected++
			}
			continue
		}
		stats.Matched++
		if best.Full {
			stats.Full++
		} else {
			stats.Partial++
		}
		if err := writeMatch(w, &Match{LineNum: rl.lineNum, Read: read, Candidate: best}); err != nil {
			return BatchResult{}, err
		}
	}
	if err := w.Flush(); err != nil {
		return BatchResult{}, err
	}
	stats.Digest = seahash.Sum64(buf.Bytes())
	return BatchResult{Chrom: b.Chrom, Data: buf.Bytes(), Stats: stats}, nil
}

// Run annotates the batches in parallel, one chromosome per task.  Batches
// whose chromosome is not in idx are skipped; they are counted in
// RunStats.SkippedReads.  If opts.Region is set, reads outside it are counted
// in Stats.Filtered and otherwise ignored.  The results are in the order of
// batches, regardless of the order in which the tasks finish.  The first
// failing batch aborts the run with a *BatchError.
func Run(batches []*Batch, idx *RefIndex, opts Opts) ([]BatchResult, RunStats, error) {
	var (
		stats   RunStats
		units   []*Batch
		indexes []*ChromIndex
		region  *interval.Range
	)
	if opts.Region != "" {
		r, err := interval.ParseRegionString(opts.Region)
		if err != nil {
			return nil, stats, err
		}
		region = &r
	}
	for _, b := range batches {
		if region != nil && b.Chrom != region.Chrom {
			stats.Filtered += b.Len()
			continue
		}
		c := idx.Chrom(b.Chrom)
		if c == nil {
			log.Debug.Printf("%s: not in reference, skipping %d read(s)", b.Chrom, b.Len())
			stats.SkippedBatches++
			stats.SkippedReads += b.Len()
			continue
		}
		units = append(units, b)
		indexes = append(indexes, c)
	}
	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}

	// The progress counter is owned by a single goroutine.
	done := make(chan string, len(units))
	progressDone := make(chan struct{})
	go func() {
		n := 0
		for chrom := range done {
			n++
			log.Printf("%s: %d/%d groups finished", chrom, n, len(units))
		}
		close(progressDone)
	}()

	results := make([]BatchResult, len(units))
	err := traverse.Limit(parallelism).Each(len(units), func(i int) error {
		r, err := annotateBatch(units[i], indexes[i], region, &opts)
		if err != nil {
			return &BatchError{Chrom: units[i].Chrom, Err: err}
		}
		results[i] = r
		done <- r.Chrom
		return nil
	})
	close(done)
	<-progressDone
	if err != nil {
		return nil, stats, err
	}
	for _, r := range results {
		stats.Stats = stats.Stats.Merge(r.Stats)
	}
	stats.Batches = len(results)
	return results, stats, nil
}
