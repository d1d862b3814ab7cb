package annotate

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
	"github.com/grailbio/txannotate/util"
)

func writeFile(ctx context.Context, t *testing.T, path, data string) {
	w, err := util.Create(ctx, path)
	assert.NoError(t, err)
	_, err = w.Write([]byte(data))
	assert.NoError(t, err)
	assert.NoError(t, w.Close())
}

func TestAnnotate(t *testing.T) {
	ctx := context.Background()
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tempDir)

	refPath := filepath.Join(tempDir, "ref.gpd.gz")
	writeFile(ctx, t, refPath, strings.Join([]string{
		gpdLine("G1", "TX1", "chr1", exon{100, 150}, exon{250, 300}),
		gpdLine("G3", "TX3", "chr3", exon{1000, 2000}),
	}, "\n"))
	inPath := filepath.Join(tempDir, "reads.gpd.sz")
	writeFile(ctx, t, inPath, strings.Join([]string{
		gpdLine("RG", "", "chr1", exon{100, 152}, exon{248, 300}),
		gpdLine("R2", "", "chr2", exon{100, 300}),
		gpdLine("R3", "", "chr3", exon{1900, 2100}),
	}, "\n")+"\n")
	outPath := filepath.Join(tempDir, "out.tsv")
	opts := DefaultOpts
	opts.Parallelism = 2
	opts.SummaryPath = filepath.Join(tempDir, "summary.tsv")

	stats, err := Annotate(ctx, inPath, refPath, outPath, opts)
	assert.NoError(t, err)
	expect.EQ(t, stats.Matched, 2)
	expect.EQ(t, stats.Full, 1)
	expect.EQ(t, stats.Partial, 1)
	expect.EQ(t, stats.SkippedReads, 1)

	got, err := ioutil.ReadFile(outPath)
	assert.NoError(t, err)
	expect.EQ(t, string(got), exampleOutput+
		"3\tR3\tG3\tTX3\tpartial\t1\t1\t1\t1\t100\t200\t1000\tchr3:1901-2100\tchr3:1001-2000\t2\n")

	summary, err := ioutil.ReadFile(opts.SummaryPath)
	assert.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(summary)), "\n")
	assert.EQ(t, len(lines), 3)
	expect.EQ(t, lines[0], "chrom\treads\tmatched\tfull\tpartial\tno_candidate\trejected\tdigest")
	expect.HasSubstr(t, lines[1], "chr1\t1\t1\t1\t0\t0\t0\t")
	expect.HasSubstr(t, lines[2], "chr3\t1\t1\t0\t1\t0\t0\t")

	// The digest depends only on the output.
	opts.Parallelism = 1
	opts.SummaryPath = ""
	stats2, err := Annotate(ctx, inPath, refPath, filepath.Join(tempDir, "out2.tsv.gz"), opts)
	assert.NoError(t, err)
	expect.EQ(t, stats2.Digest, stats.Digest)
}

func TestAnnotateBadReference(t *testing.T) {
	ctx := context.Background()
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tempDir)

	refPath := filepath.Join(tempDir, "ref.gpd")
	writeFile(ctx, t, refPath, gpdLine("G1", "TX1", "chr1", exon{100, 150})+"\nG2\tTX2\tchr1\t+\t0\t10\t0\t10\t2\t0,\t10,\n")
	inPath := filepath.Join(tempDir, "reads.gpd")
	writeFile(ctx, t, inPath, gpdLine("RG", "", "chr1", exon{100, 150})+"\n")
	outPath := filepath.Join(tempDir, "out.tsv")

	_, err := Annotate(ctx, inPath, refPath, outPath, DefaultOpts)
	assert.NotNil(t, err)
	expect.HasSubstr(t, err.Error(), "line 2")
	_, err = os.Stat(outPath)
	expect.True(t, os.IsNotExist(err))
}

func TestAnnotateBadRead(t *testing.T) {
	ctx := context.Background()
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tempDir)

	refPath := filepath.Join(tempDir, "ref.gpd")
	writeFile(ctx, t, refPath, gpdLine("G1", "TX1", "chr1", exon{100, 150})+"\n")
	inPath := filepath.Join(tempDir, "reads.gpd")
	writeFile(ctx, t, inPath, gpdLine("RG", "", "chr1", exon{100, 150})+"\nRG\t\tchr1\t+\tx\t150\t0\t0\t1\t100,\t150,\n")

	_, err := Annotate(ctx, inPath, refPath, filepath.Join(tempDir, "out.tsv"), DefaultOpts)
	assert.NotNil(t, err)
	expect.HasSubstr(t, err.Error(), "chromosome chr1")
	expect.HasSubstr(t, err.Error(), "line 2")
}
