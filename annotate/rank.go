// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package annotate

import (
	"github.com/grailbio/txannotate/encoding/gpd"
)

// Candidate is a transcript scored against one read.
type Candidate struct {
	Transcript *Transcript
	Metrics
}

// overlapFrac returns min(overlap/readLen, overlap/txLen) as a fraction
// num/den.  That is overlap/max(readLen, txLen), which can be compared
// exactly by cross-multiplication.
func (c *Candidate) overlapFrac(read *gpd.Record) (num, den int64) {
	den = int64(max(read.Len(), c.Transcript.Len()))
	if den == 0 {
		return 0, 1
	}
	return int64(c.OverlapSize), den
}

// candidateLess reports whether a ranks strictly before b for read.
func candidateLess(read *gpd.Record, a, b *Candidate) bool {
	if a.Full != b.Full {
		return a.Full
	}
	if a.Subset != b.Subset {
		return a.Subset
	}
	if a.ConsecutiveExons != b.ConsecutiveExons {
		return a.ConsecutiveExons > b.ConsecutiveExons
	}
	if a.MatchedExons != b.MatchedExons {
		return a.MatchedExons > b.MatchedExons
	}
	aNum, aDen := a.overlapFrac(read)
	bNum, bDen := b.overlapFrac(read)
	if l, r := aNum*bDen, bNum*aDen; l != r {
		return l > r
	}
	// Transcripts are discovered in reference order, so the ID tie-break is
	// the discovery order.
	return a.Transcript.ID < b.Transcript.ID
}

// Rank returns the best candidate for read.  It returns false if candidates
// is empty.  The result does not depend on the order of candidates.
func Rank(read *gpd.Record, candidates []Candidate) (Candidate, bool) {
	if len(candidates) == 0 {
		return Candidate{}, false
	}
	best := 0
	for i := 1; i < len(candidates); i++ {
		if candidateLess(read, &candidates[i], &candidates[best]) {
			best = i
		}
	}
	return candidates[best], true
}

// FindCandidates scores read against every transcript in c whose bounding
// interval overlaps it.  nOverlap is the number of transcripts scored,
// including the ones that did not pass the thresholds.
func FindCandidates(read *gpd.Record, c *ChromIndex, opts *Opts) (candidates []Candidate, nOverlap int) {
	txs := c.Overlapping(read.Range)
	for _, tx := range txs {
		if m, ok := Score(read, &tx.Record, opts); ok {
			candidates = append(candidates, Candidate{Transcript: tx, Metrics: m})
		}
	}
	return candidates, len(txs)
}
