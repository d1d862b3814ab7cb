// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

/*Package annotate assigns each read, given as a GPD record, to the reference
  transcript whose exon structure it matches best, and reports the quality of
  the match.

  Matching happens in four steps.

  1. The reference GPD is loaded into a RefIndex, which holds one interval tree
     per chromosome.  Each transcript keeps its line number in the reference
     file as a permanent ID.

  2. For each read, the transcripts whose bounding interval overlaps the read
     are scored by Score.  Single-exon comparisons are judged on the bounding
     intervals alone; multi-exon comparisons count exon pairs that overlap
     well enough (see Opts).

  3. Rank orders the scored candidates by (full match, subset match, longest
     run of consecutive matched exons, matched exons, the smaller of the two
     overlap fractions)
     and picks the first.

  4. Reads are grouped by chromosome and each group is processed as one
     independent job (Run).  Reads without a match produce no output.

  The output has one tab-separated line per matched read:

    line        1-based line number of the read in the input
    read_gene   read gene name (GPD column 1)
    gene        gene name of the matched transcript
    transcript  name of the matched transcript
    type        "full" or "partial"
    exons       number of transcript exons matched by the read
    consecutive longest run of consecutive matched transcript exons
    read_exons  number of exons in the read
    tx_exons    number of exons in the transcript
    overlap     overlap of the bounding intervals, in bases
    read_len    length of the read's bounding interval
    tx_len      length of the transcript's bounding interval
    read_range  read range, as chrom:start-end, 1-based closed
    tx_range    transcript range, same format
    tx_id       line number of the transcript in the reference file

  Output batches are written in the order chromosomes first appear in the
  input, so the output is not globally sorted by line number.
*/
package annotate
