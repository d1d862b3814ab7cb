package annotate

import (
	"bytes"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

const exampleOutput = "1\tRG\tG1\tTX1\tfull\t2\t2\t2\t2\t200\t200\t200\tchr1:101-300\tchr1:101-300\t1\n"

func exampleIndex(t *testing.T) *RefIndex {
	ref := gpdLine("G1", "TX1", "chr1", exon{100, 150}, exon{250, 300})
	idx, err := LoadRefIndex(strings.NewReader(ref))
	assert.NoError(t, err)
	return idx
}

func TestGroupReads(t *testing.T) {
	reads := strings.Join([]string{
		gpdLine("R1", "", "chr2", exon{0, 10}),
		gpdLine("R2", "", "chr1", exon{0, 10}),
		"",
		gpdLine("R3", "", "chr2", exon{0, 10}),
	}, "\n")
	batches, err := GroupReads(strings.NewReader(reads))
	assert.NoError(t, err)
	assert.EQ(t, len(batches), 2)
	expect.EQ(t, batches[0].Chrom, "chr2")
	expect.EQ(t, batches[0].Len(), 2)
	expect.EQ(t, batches[0].reads[1].lineNum, 4)
	expect.EQ(t, batches[1].Chrom, "chr1")
	expect.EQ(t, batches[1].reads[0].lineNum, 2)

	_, err = GroupReads(strings.NewReader(reads + "\nR4\t\n"))
	assert.NotNil(t, err)
	expect.HasSubstr(t, err.Error(), "line 5")
}

func TestRunExample(t *testing.T) {
	idx := exampleIndex(t)
	reads := strings.Join([]string{
		gpdLine("RG", "", "chr1", exon{100, 152}, exon{248, 300}),
		gpdLine("RG", "", "chr2", exon{100, 152}, exon{248, 300}),
		gpdLine("RG", "", "chr1", exon{1000, 1100}),
		gpdLine("RG", "", "chr1", exon{155, 170}, exon{180, 240}),
	}, "\n")
	batches, err := GroupReads(strings.NewReader(reads))
	assert.NoError(t, err)
	results, stats, err := Run(batches, idx, DefaultOpts)
	assert.NoError(t, err)
	assert.EQ(t, len(results), 1)
	expect.EQ(t, results[0].Chrom, "chr1")
	expect.EQ(t, string(results[0].Data), exampleOutput)

	expect.EQ(t, stats.Batches, 1)
	expect.EQ(t, stats.SkippedBatches, 1)
	expect.EQ(t, stats.SkippedReads, 1)
	expect.EQ(t, stats.Reads, 3)
	expect.EQ(t, stats.Matched, 1)
	expect.EQ(t, stats.Full, 1)
	expect.EQ(t, stats.Partial, 0)
	expect.EQ(t, stats.NoCandidate, 1)
	expect.EQ(t, stats.Rejected, 1)
	expect.EQ(t, stats.Digest, results[0].Stats.Digest)
}

func TestRunUnknownChrom(t *testing.T) {
	idx := exampleIndex(t)
	batches, err := GroupReads(strings.NewReader(gpdLine("RG", "", "chr2", exon{100, 300})))
	assert.NoError(t, err)
	results, stats, err := Run(batches, idx, DefaultOpts)
	assert.NoError(t, err)
	expect.EQ(t, len(results), 0)
	expect.EQ(t, stats.SkippedReads, 1)
}

func TestRunMalformedRead(t *testing.T) {
	idx := exampleIndex(t)
	reads := gpdLine("RG", "", "chr1", exon{100, 300}) + "\n" + "RG\t\tchr1\t+\t300\t100\t0\t0\t1\t300,\t100,\n"
	batches, err := GroupReads(strings.NewReader(reads))
	assert.NoError(t, err)
	_, _, err = Run(batches, idx, DefaultOpts)
	assert.NotNil(t, err)
	berr, ok := err.(*BatchError)
	assert.True(t, ok, "%T", err)
	expect.EQ(t, berr.Chrom, "chr1")
	expect.HasSubstr(t, err.Error(), "line 2")
}

// randomGPD generates transcripts or reads on a few chromosomes, with exons
// placed on a coarse grid so that many of them overlap.
func randomGPD(r *rand.Rand, prefix string, n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		chrom := fmt.Sprintf("chr%d", r.Intn(5)+1)
		pos := r.Intn(200) * 50
		var exons []exon
		for j := r.Intn(4); j >= 0; j-- {
			start := pos + r.Intn(3)*5
			end := start + 20 + r.Intn(150)
			exons = append(exons, exon{start, end})
			pos = end + 10 + r.Intn(300)
		}
		b.WriteString(gpdLine(fmt.Sprintf("%s%d", prefix, i), fmt.Sprintf("%sT%d", prefix, i), chrom, exons...))
		b.WriteByte('\n')
	}
	return b.String()
}

func TestRunParallelism(t *testing.T) {
	r := rand.New(rand.NewSource(0))
	idx, err := LoadRefIndex(strings.NewReader(randomGPD(r, "G", 2000)))
	assert.NoError(t, err)
	reads := randomGPD(r, "R", 5000)

	run := func(parallelism int) ([]byte, RunStats) {
		batches, err := GroupReads(strings.NewReader(reads))
		assert.NoError(t, err)
		opts := DefaultOpts
		opts.Parallelism = parallelism
		results, stats, err := Run(batches, idx, opts)
		assert.NoError(t, err)
		var buf bytes.Buffer
		for _, res := range results {
			buf.Write(res.Data)
		}
		return buf.Bytes(), stats
	}
	want, wantStats := run(1)
	expect.True(t, wantStats.Matched > 0)
	expect.EQ(t, bytes.Count(want, []byte{'\n'}), wantStats.Matched)
	expect.True(t, wantStats.Matched <= wantStats.Reads)
	expect.EQ(t, wantStats.Reads, 5000)
	for _, parallelism := range []int{2, 4, 0} {
		got, stats := run(parallelism)
		expect.EQ(t, string(got), string(want), "parallelism %d", parallelism)
		expect.EQ(t, stats, wantStats, "parallelism %d", parallelism)
	}
}

func TestRunRegion(t *testing.T) {
	idx := exampleIndex(t)
	reads := strings.Join([]string{
		gpdLine("RG", "", "chr1", exon{100, 152}, exon{248, 300}),
		gpdLine("RG", "", "chr1", exon{1000, 1100}),
		gpdLine("RG", "", "chr2", exon{100, 152}, exon{248, 300}),
	}, "\n")
	batches, err := GroupReads(strings.NewReader(reads))
	assert.NoError(t, err)

	opts := DefaultOpts
	opts.Region = "chr1:101-200"
	results, stats, err := Run(batches, idx, opts)
	assert.NoError(t, err)
	assert.EQ(t, len(results), 1)
	expect.EQ(t, string(results[0].Data), exampleOutput)
	expect.EQ(t, stats.Reads, 1)
	expect.EQ(t, stats.Filtered, 2)
	expect.EQ(t, stats.SkippedReads, 0)

	// A bare chromosome name keeps all of its reads.
	opts.Region = "chr1"
	results, stats, err = Run(batches, idx, opts)
	assert.NoError(t, err)
	assert.EQ(t, len(results), 1)
	expect.EQ(t, string(results[0].Data), exampleOutput)
	expect.EQ(t, stats.Reads, 2)
	expect.EQ(t, stats.NoCandidate, 1)
	expect.EQ(t, stats.Filtered, 1)

	// The region ends right before the read starts.
	opts.Region = "chr1:1-100"
	results, stats, err = Run(batches, idx, opts)
	assert.NoError(t, err)
	expect.EQ(t, string(results[0].Data), "")
	expect.EQ(t, stats.Filtered, 3)

	opts.Region = "chr1:200-100"
	_, _, err = Run(batches, idx, opts)
	expect.NotNil(t, err)
}
