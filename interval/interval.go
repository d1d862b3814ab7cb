// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package interval

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// PosType is the coordinate type of a Range.
type PosType int32

const posTypeMax = math.MaxInt32

// Range represents a single interval, with 0-based half-open coordinates
// [Start, End).  Start <= End always holds for a valid Range.
type Range struct {
	Chrom string
	Start PosType
	End   PosType
}

// Len returns the number of bases covered by r.
func (r Range) Len() int { return int(r.End - r.Start) }

// Validate checks the coordinate invariants of r.
func (r Range) Validate() error {
	if r.Start < 0 {
		return fmt.Errorf("interval.Range: negative start coordinate %d", r.Start)
	}
	if r.End < r.Start || r.End >= posTypeMax {
		return fmt.Errorf("interval.Range: invalid coordinate pair [%d, %d)", r.Start, r.End)
	}
	return nil
}

// OverlapSize returns the number of bases shared by r and o.  Ranges on
// different chromosomes never overlap.
func (r Range) OverlapSize(o Range) int {
	if r.Chrom != o.Chrom {
		return 0
	}
	start, end := r.Start, r.End
	if o.Start > start {
		start = o.Start
	}
	if o.End < end {
		end = o.End
	}
	if end <= start {
		return 0
	}
	return int(end - start)
}

// Overlaps checks whether r and o share at least one base.  An empty range
// overlaps nothing.
func (r Range) Overlaps(o Range) bool {
	return r.Chrom == o.Chrom && r.Start < r.End && o.Start < o.End &&
		r.Start < o.End && o.Start < r.End
}

// String renders r as a region string "chrom:start-end".  The start is
// converted to 1-based, so the text names a closed interval, the form
// samtools and ParseRegionString accept.
func (r Range) String() string {
	return r.Chrom + ":" + strconv.Itoa(int(r.Start)+1) + "-" + strconv.Itoa(int(r.End))
}

// ParseRegionString parses a samtools-style region, the inverse of
// Range.String.  Accepted forms are
//
//   chrom:first-last   1-based closed interval, e.g. chr1:101-300
//   chrom:pos          a single 1-based position
//   chrom              the whole chromosome, [0, posTypeMax-1)
//
// The chromosome name may itself contain colons; the last one separates the
// coordinates.
func ParseRegionString(region string) (Range, error) {
	if region == "" {
		return Range{}, fmt.Errorf("interval.ParseRegionString: empty region")
	}
	colon := strings.LastIndexByte(region, ':')
	if colon < 0 {
		return Range{Chrom: region, Start: 0, End: posTypeMax - 1}, nil
	}
	r := Range{Chrom: region[:colon]}
	if r.Chrom == "" {
		return Range{}, fmt.Errorf("interval.ParseRegionString: %q: empty chromosome", region)
	}
	coords := region[colon+1:]
	firstStr, lastStr := coords, coords
	if dash := strings.IndexByte(coords, '-'); dash >= 0 {
		firstStr, lastStr = coords[:dash], coords[dash+1:]
	}
	first, err := parsePos1(firstStr)
	if err != nil {
		return Range{}, fmt.Errorf("interval.ParseRegionString: %q: %v", region, err)
	}
	last, err := parsePos1(lastStr)
	if err != nil {
		return Range{}, fmt.Errorf("interval.ParseRegionString: %q: %v", region, err)
	}
	if last < first {
		return Range{}, fmt.Errorf("interval.ParseRegionString: %q: end before start", region)
	}
	r.Start, r.End = PosType(first-1), PosType(last)
	return r, nil
}

// parsePos1 parses a 1-based coordinate.
func parsePos1(s string) (int64, error) {
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, err
	}
	if v <= 0 || v >= posTypeMax {
		return 0, fmt.Errorf("position %d out of range", v)
	}
	return v, nil
}
