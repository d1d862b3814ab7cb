package util

import (
	"context"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func TestDetermineCodec(t *testing.T) {
	expect.EQ(t, DetermineCodec("reads.gpd"), Plain)
	expect.EQ(t, DetermineCodec("reads.gpd.gz"), Gzip)
	expect.EQ(t, DetermineCodec("reads.gpd.bgz"), BGZF)
	expect.EQ(t, DetermineCodec("reads.gpd.sz"), Snappy)
	expect.EQ(t, DetermineCodec("s3://bucket/reads.gpd.snappy"), Snappy)
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tempDir)

	// Large enough to span several BGZF blocks.
	data := strings.Repeat("GENE\tTX\tchr1\t+\t0\t10\t10\t10\t1\t0,\t10,\n", 5000)
	for _, name := range []string{"a.gpd", "a.gpd.gz", "a.gpd.bgz", "a.gpd.sz"} {
		path := filepath.Join(tempDir, name)
		w, err := Create(ctx, path)
		assert.NoError(t, err)
		_, err = w.Write([]byte(data))
		assert.NoError(t, err)
		assert.NoError(t, w.Close())

		if DetermineCodec(path) != Plain {
			raw, err := ioutil.ReadFile(path)
			assert.NoError(t, err)
			expect.True(t, len(raw) < len(data), name)
		}

		r, err := Open(ctx, path)
		assert.NoError(t, err)
		got, err := ioutil.ReadAll(r)
		assert.NoError(t, err)
		assert.NoError(t, r.Close())
		expect.EQ(t, string(got), data, name)
	}
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(context.Background(), "/nonexistent/reads.gpd")
	expect.NotNil(t, err)
}
