package annotate

import (
	"fmt"
	"io"

	"github.com/grailbio/base/tsv"
)

// Stats counts the outcome of the reads of one batch, or of a whole run.
type Stats struct {
	// Reads is the number of reads processed.  Reads outside Opts.Region are
	// not included.
	Reads int
	// Matched is the number of reads assigned to a transcript, i.e. the number
	// of output lines.  Matched = Full + Partial.
	Matched int
	Full    int
	Partial int
	// NoCandidate is the # of reads that overlap no transcript.
	NoCandidate int
	// Rejected is the # of reads that overlap some transcripts, but none of
	// them passed the exon thresholds.
	Rejected int
	// Filtered is the # of reads outside Opts.Region.
	Filtered int
	// Digest is the seahash of the batch output.  For a whole run it is the
	// sum of the batch digests, so it does not depend on batch order.
	Digest uint64
}

// Merge adds the field values of the two Stats objects and creates new Stats.
func (s Stats) Merge(o Stats) Stats {
	s.Reads += o.Reads
	s.Matched += o.Matched
	s.Full += o.Full
	s.Partial += o.Partial
	s.NoCandidate += o.NoCandidate
	s.Rejected += o.Rejected
	s.Filtered += o.Filtered
	s.Digest += o.Digest
	return s
}

// RunStats describes a complete run.
type RunStats struct {
	Stats
	// Batches is the number of chromosomes processed.
	Batches int
	// SkippedBatches and SkippedReads count the chromosomes absent from the
	// reference, and their reads.
	SkippedBatches int
	SkippedReads   int
}

func (s RunStats) String() string {
	return fmt.Sprintf("reads=%d matched=%d full=%d partial=%d nocandidate=%d rejected=%d skipped=%d filtered=%d digest=%016x",
		s.Reads+s.SkippedReads+s.Filtered, s.Matched, s.Full, s.Partial, s.NoCandidate, s.Rejected,
		s.SkippedReads, s.Filtered, s.Digest)
}

var summaryHeader = []string{"chrom", "reads", "matched", "full", "partial", "no_candidate", "rejected", "digest"}

// WriteSummary writes one TSV row per batch result, with a header line.
func WriteSummary(out io.Writer, results []BatchResult) error {
	w := tsv.NewWriter(out)
	for _, col := range summaryHeader {
		w.WriteString(col)
	}
	if err := w.EndLine(); err != nil {
		return err
	}
	for _, r := range results {
		w.WriteString(r.Chrom)
		w.WriteUint32(uint32(r.Stats.Reads))
		w.WriteUint32(uint32(r.Stats.Matched))
		w.WriteUint32(uint32(r.Stats.Full))
		w.WriteUint32(uint32(r.Stats.Partial))
		w.WriteUint32(uint32(r.Stats.NoCandidate))
		w.WriteUint32(uint32(r.Stats.Rejected))
		w.WriteString(fmt.Sprintf("%016x", r.Stats.Digest))
		if err := w.EndLine(); err != nil {
			return err
		}
	}
	return w.Flush()
}
