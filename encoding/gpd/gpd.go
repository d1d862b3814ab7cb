// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package gpd parses GPD ("genePred with gene name") records.  A GPD line has
// eleven tab-separated columns:
//
//   geneName name chrom strand txStart txEnd cdsStart cdsEnd exonCount exonStarts exonEnds
//
// for example
//
//   DDX11L1	ENST00000456328.2	chr1	+	11868	14409	14409	14409	3	11868,12612,13220,	12227,12721,14409,
//
// Coordinates are 0-based and half-open, as in UCSC genePred tables.  The
// exon lists are comma-separated and may carry a trailing comma.  Columns past
// the eleventh are ignored.  Reads aligned with long-read tools are often
// written in the same format, with the read name in the name column.
package gpd

import (
	"bytes"
	"strconv"

	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/grailbio/txannotate/interval"
	"github.com/pkg/errors"
)

const (
	colGeneName = iota
	colName
	colChrom
	colStrand
	colTxStart
	colTxEnd
	colCDSStart
	colCDSEnd
	colExonCount
	colExonStarts
	colExonEnds
	nColumn
)

// Record is one parsed GPD line.
type Record struct {
	// GeneName is the first column.  For reads it is the best known gene, or
	// any placeholder the upstream tool wrote.
	GeneName string
	// TranscriptName is the second column.  It may be empty for reads.
	TranscriptName string
	// Strand is '+', '-' or '.'.
	Strand byte
	// Range is the bounding interval [txStart, txEnd).
	Range interval.Range
	// CDSStart and CDSEnd delimit the coding region; reads usually set both to
	// txEnd.
	CDSStart, CDSEnd interval.PosType
	// Exons are sorted, non-overlapping and lie within Range.
	Exons []interval.Range
}

// Chrom returns the chromosome name.
func (r *Record) Chrom() string { return r.Range.Chrom }

// NExon returns the number of exons.
func (r *Record) NExon() int { return len(r.Exons) }

// Len returns the length of the bounding interval, i.e. the genomic span
// txEnd-txStart including introns.  It is not the spliced length, the sum of
// the exon lengths.
func (r *Record) Len() int { return r.Range.Len() }

// splitTabs stores up to len(tokens) tab-separated fields of line in tokens,
// returning the number of fields saved.  Unlike strings.Split it neither
// allocates nor collapses empty fields.
func splitTabs(tokens [][]byte, line []byte) int {
	pos := 0
	for tokenIdx := range tokens {
		end := bytes.IndexByte(line[pos:], '\t')
		if end < 0 {
			tokens[tokenIdx] = line[pos:]
			return tokenIdx + 1
		}
		tokens[tokenIdx] = line[pos : pos+end]
		pos += end + 1
	}
	return len(tokens)
}

func parsePos(token []byte, name string) (interval.PosType, error) {
	v, err := strconv.ParseInt(gunsafe.BytesToString(token), 10, 32)
	if err != nil {
		return 0, errors.Wrapf(err, "gpd: bad %s", name)
	}
	return interval.PosType(v), nil
}

// parsePosList parses a comma-separated list of coordinates.  An empty last
// element, produced by the customary trailing comma, is ignored.
func parsePosList(token []byte, name string, dst []interval.PosType) ([]interval.PosType, error) {
	for len(token) > 0 {
		var elem []byte
		if comma := bytes.IndexByte(token, ','); comma >= 0 {
			elem, token = token[:comma], token[comma+1:]
		} else {
			elem, token = token, nil
		}
		v, err := parsePos(elem, name)
		if err != nil {
			return nil, err
		}
		dst = append(dst, v)
	}
	return dst, nil
}

// Chrom extracts the chromosome column of line without parsing the rest of
// it.  The result aliases line.
func Chrom(line []byte) ([]byte, error) {
	var tokens [colChrom + 2][]byte
	if n := splitTabs(tokens[:], line); n <= colChrom+1 {
		return nil, errors.Errorf("gpd: %d columns, expect at least %d", n, nColumn)
	}
	if len(tokens[colChrom]) == 0 {
		return nil, errors.New("gpd: empty chromosome name")
	}
	return tokens[colChrom], nil
}

// ParseString is Parse for a string line.
func ParseString(line string) (Record, error) {
	return Parse(gunsafe.StringToBytes(line))
}

// Parse parses one GPD line.  A trailing newline is tolerated.  Parse does not
// retain line; all strings in the result are copies.
func Parse(line []byte) (rec Record, err error) {
	line = bytes.TrimRight(line, "\r\n")
	var tokens [nColumn + 1][]byte
	if n := splitTabs(tokens[:], line); n < nColumn {
		err = errors.Errorf("gpd: %d columns, expect at least %d", n, nColumn)
		return
	}
	if len(tokens[colChrom]) == 0 {
		err = errors.New("gpd: empty chromosome name")
		return
	}
	if len(tokens[colStrand]) != 1 {
		err = errors.Errorf("gpd: bad strand '%s'", tokens[colStrand])
		return
	}
	rec.GeneName = string(tokens[colGeneName])
	rec.TranscriptName = string(tokens[colName])
	rec.Strand = tokens[colStrand][0]
	rec.Range.Chrom = string(tokens[colChrom])
	if rec.Range.Start, err = parsePos(tokens[colTxStart], "txStart"); err != nil {
		return
	}
	if rec.Range.End, err = parsePos(tokens[colTxEnd], "txEnd"); err != nil {
		return
	}
	if err = rec.Range.Validate(); err != nil {
		err = errors.Wrap(err, "gpd: transcript range")
		return
	}
	if rec.CDSStart, err = parsePos(tokens[colCDSStart], "cdsStart"); err != nil {
		return
	}
	if rec.CDSEnd, err = parsePos(tokens[colCDSEnd], "cdsEnd"); err != nil {
		return
	}
	nExon, e := strconv.Atoi(gunsafe.BytesToString(tokens[colExonCount]))
	if e != nil {
		err = errors.Wrap(e, "gpd: bad exonCount")
		return
	}
	if nExon <= 0 {
		err = errors.Errorf("gpd: exonCount %d, expect at least one exon", nExon)
		return
	}
	// One backing array for both lists; the ends are appended after the
	// starts.
	pos := make([]interval.PosType, 0, 2*nExon)
	if pos, err = parsePosList(tokens[colExonStarts], "exonStarts", pos); err != nil {
		return
	}
	if len(pos) != nExon {
		err = errors.Errorf("gpd: exonCount is %d but found %d exon starts", nExon, len(pos))
		return
	}
	if pos, err = parsePosList(tokens[colExonEnds], "exonEnds", pos); err != nil {
		return
	}
	if len(pos) != 2*nExon {
		err = errors.Errorf("gpd: exonCount is %d but found %d exon ends", nExon, len(pos)-nExon)
		return
	}
	rec.Exons = make([]interval.Range, nExon)
	for i := range rec.Exons {
		ex := interval.Range{Chrom: rec.Range.Chrom, Start: pos[i], End: pos[nExon+i]}
		if ex.Start > ex.End {
			err = errors.Errorf("gpd: exon %d has inverted range [%d, %d)", i, ex.Start, ex.End)
			return
		}
		if ex.Start < rec.Range.Start || ex.End > rec.Range.End {
			err = errors.Errorf("gpd: exon %d [%d, %d) outside transcript [%d, %d)",
				i, ex.Start, ex.End, rec.Range.Start, rec.Range.End)
			return
		}
		if i > 0 && ex.Start < rec.Exons[i-1].End {
			err = errors.Errorf("gpd: exon %d starts at %d, before the end of exon %d (%d)",
				i, ex.Start, i-1, rec.Exons[i-1].End)
			return
		}
		rec.Exons[i] = ex
	}
	return
}
