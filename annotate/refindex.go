// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package annotate

import (
	"context"
	"fmt"
	"io"
	"sort"

	itree "github.com/biogo/store/interval"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/txannotate/encoding/gpd"
	"github.com/grailbio/txannotate/interval"
	"github.com/grailbio/txannotate/util"
)

// Transcript is a reference transcript.  It is immutable once added to a
// RefIndex, and is shared by all workers.
type Transcript struct {
	gpd.Record
	// ID is the 1-based line number of the transcript in the reference file.
	// It is unique within a RefIndex.
	ID int
}

// txInterval is the interval-tree element for a transcript's bounding
// interval.
type txInterval struct{ tx *Transcript }

func (iv txInterval) Overlap(b itree.IntRange) bool {
	r := iv.tx.Range
	return int(r.Start) < b.End && b.Start < int(r.End)
}
func (iv txInterval) ID() uintptr { return uintptr(iv.tx.ID) }
func (iv txInterval) Range() itree.IntRange {
	return itree.IntRange{Start: int(iv.tx.Range.Start), End: int(iv.tx.Range.End)}
}

// rangeQuery selects tree elements sharing at least one base with the query.
type rangeQuery struct{ start, end int }

func (q rangeQuery) Overlap(b itree.IntRange) bool { return b.Start < q.end && q.start < b.End }

// ChromIndex holds the reference transcripts of one chromosome.  It is
// read-only after construction, so concurrent lookups are safe.
type ChromIndex struct {
	chrom       string
	transcripts []*Transcript // in reference order
	tree        itree.IntTree
}

// Chrom returns the chromosome name.
func (c *ChromIndex) Chrom() string { return c.chrom }

// Len returns the number of transcripts on the chromosome.
func (c *ChromIndex) Len() int { return len(c.transcripts) }

// Overlapping returns the transcripts whose bounding interval shares at least
// one base with r, sorted by ID.
func (c *ChromIndex) Overlapping(r interval.Range) []*Transcript {
	if r.Chrom != c.chrom || r.Len() == 0 {
		return nil
	}
	hits := c.tree.Get(rangeQuery{start: int(r.Start), end: int(r.End)})
	if len(hits) == 0 {
		return nil
	}
	txs := make([]*Transcript, len(hits))
	for i, h := range hits {
		txs[i] = h.(txInterval).tx
	}
	sort.Slice(txs, func(i, j int) bool { return txs[i].ID < txs[j].ID })
	return txs
}

// RefIndex maps chromosome names to their reference transcripts.
type RefIndex struct {
	chroms     map[string]*ChromIndex
	chromNames []string // in order of first appearance
	nTx        int
}

// NewRefIndex builds an index over txs.  IDs must be positive and unique.
// The transcripts are not copied or modified.
func NewRefIndex(txs []*Transcript) (*RefIndex, error) {
	idx := &RefIndex{chroms: map[string]*ChromIndex{}}
	seen := make(map[int]struct{}, len(txs))
	for _, tx := range txs {
		if tx.ID <= 0 {
			return nil, fmt.Errorf("annotate.NewRefIndex: transcript %s has invalid ID %d", tx.TranscriptName, tx.ID)
		}
		if _, ok := seen[tx.ID]; ok {
			return nil, fmt.Errorf("annotate.NewRefIndex: duplicate transcript ID %d", tx.ID)
		}
		seen[tx.ID] = struct{}{}
		c, ok := idx.chroms[tx.Chrom()]
		if !ok {
			c = &ChromIndex{chrom: tx.Chrom()}
			idx.chroms[c.chrom] = c
			idx.chromNames = append(idx.chromNames, c.chrom)
		}
		c.transcripts = append(c.transcripts, tx)
		// An empty interval can never overlap a read.
		if tx.Len() == 0 {
			continue
		}
		if err := c.tree.Insert(txInterval{tx}, true); err != nil {
			return nil, errors.E(err, fmt.Sprintf("annotate.NewRefIndex: insert transcript %d", tx.ID))
		}
	}
	for _, c := range idx.chroms {
		c.tree.AdjustRanges()
	}
	idx.nTx = len(txs)
	return idx, nil
}

// Chrom returns the transcripts of the given chromosome, or nil if the
// reference has none.
func (idx *RefIndex) Chrom(name string) *ChromIndex { return idx.chroms[name] }

// Chroms lists the chromosome names in order of first appearance.
func (idx *RefIndex) Chroms() []string { return idx.chromNames }

// Len returns the total number of transcripts.
func (idx *RefIndex) Len() int { return idx.nTx }

// LoadRefIndex reads reference transcripts in GPD format from r.  Each
// transcript's ID is its line number.  Any malformed line fails the whole
// load.
func LoadRefIndex(r io.Reader) (*RefIndex, error) {
	var txs []*Transcript
	sc := gpd.NewScanner(r)
	for sc.Scan() {
		rec, err := sc.Record()
		if err != nil {
			return nil, err
		}
		txs = append(txs, &Transcript{Record: rec, ID: sc.LineNum()})
		if len(txs)%100000 == 0 {
			log.Debug.Printf("reference: %d transcripts", len(txs))
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return NewRefIndex(txs)
}

// ReadRefIndex is a wrapper for LoadRefIndex that takes a path instead of an
// io.Reader.
func ReadRefIndex(ctx context.Context, path string) (idx *RefIndex, err error) {
	in, err := util.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := in.Close(); cerr != nil && err == nil {
			err = errors.E(cerr, "close", path)
		}
	}()
	if idx, err = LoadRefIndex(in); err != nil {
		return nil, errors.E(err, "reference", path)
	}
	log.Printf("Reference %s loaded, %d transcript(s) on %d chromosome(s)", path, idx.Len(), len(idx.Chroms()))
	return idx, nil
}
