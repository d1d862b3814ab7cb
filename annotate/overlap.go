// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package annotate

import (
	"github.com/grailbio/txannotate/encoding/gpd"
)

// Metrics describes how a read's exons agree with one transcript.
type Metrics struct {
	// Full is true if every exon of both the read and the transcript takes
	// part in a matching exon pair.
	Full bool
	// Subset is true if every exon of the record with fewer exons takes part
	// in a matching exon pair.
	Subset bool
	// MatchedExons is the number of transcript exons matched by at least one
	// read exon.
	MatchedExons int
	// ConsecutiveExons is the length of the longest run of adjacent matched
	// transcript exons.
	ConsecutiveExons int
	// OverlapSize is the overlap of the bounding intervals, in bases.
	OverlapSize int
}

// Score compares read against tx.  It returns false if no exon pair passes
// the thresholds in opts.  The bounding intervals of read and tx are expected
// to overlap; callers obtain tx from ChromIndex.Overlapping.
func Score(read, tx *gpd.Record, opts *Opts) (Metrics, bool) {
	if read.NExon() == 1 || tx.NExon() == 1 {
		return scoreSingleExon(read, tx, opts)
	}
	return scoreMultiExon(read, tx, opts)
}

func scoreSingleExon(read, tx *gpd.Record, opts *Opts) (Metrics, bool) {
	overlap := read.Range.OverlapSize(tx.Range)
	if overlap == 0 {
		return Metrics{}, false
	}
	readLen, txLen := read.Len(), tx.Len()
	if overlap < opts.SingleExonMinOverlap &&
		float64(overlap) < opts.SingleExonMinFrac*float64(min(readLen, txLen)) {
		return Metrics{}, false
	}
	return Metrics{
		Full:             overlap == readLen && overlap == txLen,
		Subset:           overlap == readLen || overlap == txLen,
		MatchedExons:     1,
		ConsecutiveExons: 1,
		OverlapSize:      overlap,
	}, true
}

func scoreMultiExon(read, tx *gpd.Record, opts *Opts) (Metrics, bool) {
	nRead, nTx := read.NExon(), tx.NExon()
	readHit := make([]bool, nRead)
	txHit := make([]bool, nTx)
	matched := false
	for i, re := range read.Exons {
		readTerminal := i == 0 || i == nRead-1
		for j, te := range tx.Exons {
			if te.Start >= re.End {
				break // exons are sorted
			}
			ov := re.OverlapSize(te)
			if ov == 0 || ov < opts.MultiExonMinOverlap {
				continue
			}
			minFrac := opts.MultiExonMidFrac
			if readTerminal || j == 0 || j == nTx-1 {
				minFrac = opts.MultiExonEndFrac
			}
			if float64(ov) < minFrac*float64(min(re.Len(), te.Len())) {
				continue
			}
			readHit[i], txHit[j], matched = true, true, true
		}
	}
	if !matched {
		return Metrics{}, false
	}
	m := Metrics{OverlapSize: read.Range.OverlapSize(tx.Range)}
	run := 0
	for _, hit := range txHit {
		if !hit {
			run = 0
			continue
		}
		m.MatchedExons++
		if run++; run > m.ConsecutiveExons {
			m.ConsecutiveExons = run
		}
	}
	allRead, allTx := allTrue(readHit), allTrue(txHit)
	m.Full = allRead && allTx
	switch {
	case nRead < nTx:
		m.Subset = allRead
	case nTx < nRead:
		m.Subset = allTx
	default:
		m.Subset = allRead || allTx
	}
	return m, true
}

func allTrue(v []bool) bool {
	for _, b := range v {
		if !b {
			return false
		}
	}
	return true
}

func min(x, y int) int {
	if x < y {
		return x
	}
	return y
}

func max(x, y int) int {
	if x > y {
		return x
	}
	return y
}
