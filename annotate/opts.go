// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package annotate

// Opts controls matching and execution.
type Opts struct {
	// Parallelism is the max number of chromosomes processed at once.  Zero
	// means runtime.NumCPU().  With Parallelism 1 the run is fully sequential.
	Parallelism int

	// Region, if nonempty, restricts annotation to reads overlapping it.  It
	// is a samtools-style region: "chr1", "chr1:1001-2000" or "chr1:1500".
	Region string

	// SummaryPath, if nonempty, receives a per-chromosome TSV of Stats.
	SummaryPath string

	// SingleExonMinOverlap and SingleExonMinFrac apply when the read or the
	// transcript has one exon.  The pair matches if the bounding intervals
	// share at least SingleExonMinOverlap bases, or at least SingleExonMinFrac
	// of the shorter interval.
	SingleExonMinOverlap int
	SingleExonMinFrac    float64

	// MultiExonMinOverlap is the minimum overlap, in bases, for a read exon to
	// match a transcript exon when both sides have multiple exons.
	MultiExonMinOverlap int
	// MultiExonEndFrac is the minimum overlap, as a fraction of the shorter
	// exon, when either exon is the first or last of its record.
	MultiExonEndFrac float64
	// MultiExonMidFrac is the same for a pair of internal exons.
	MultiExonMidFrac float64
}

// DefaultOpts sets the default values to Opts.
var DefaultOpts = Opts{
	Parallelism:          0,
	SingleExonMinOverlap: 100,
	SingleExonMinFrac:    0.5,
	MultiExonMinOverlap:  10,
	MultiExonEndFrac:     0,
	MultiExonMidFrac:     0.8,
}
