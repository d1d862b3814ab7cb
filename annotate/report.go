// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package annotate

import (
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/txannotate/encoding/gpd"
)

// Match is a read together with the transcript it was assigned to.
type Match struct {
	// LineNum is the 1-based line number of the read in the input.
	LineNum int
	Read    gpd.Record
	Candidate
}

// Type returns "full" if every exon of the read and the transcript matched,
// and "partial" otherwise.
func (m *Match) Type() string {
	if m.Full {
		return "full"
	}
	return "partial"
}

// writeMatch emits one output line for m.  The columns are
//
//   line number, read gene, transcript gene, transcript name, match type,
//   matched exons, consecutive exons, read exons, transcript exons,
//   overlap bases, read length, transcript length, read range,
//   transcript range, transcript ID
//
// Ranges are 1-based and closed, e.g. "chr1:101-300".
func writeMatch(w *tsv.Writer, m *Match) error {
	tx := m.Transcript
	w.WriteUint32(uint32(m.LineNum))
	w.WriteString(m.Read.GeneName)
	w.WriteString(tx.GeneName)
	w.WriteString(tx.TranscriptName)
	w.WriteString(m.Type())
	w.WriteUint32(uint32(m.MatchedExons))
	w.WriteUint32(uint32(m.ConsecutiveExons))
	w.WriteUint32(uint32(m.Read.NExon()))
	w.WriteUint32(uint32(tx.NExon()))
	w.WriteUint32(uint32(m.OverlapSize))
	w.WriteUint32(uint32(m.Read.Len()))
	w.WriteUint32(uint32(tx.Len()))
	w.WriteString(m.Read.Range.String())
	w.WriteString(tx.Range.String())
	w.WriteUint32(uint32(tx.ID))
	return w.EndLine()
}
