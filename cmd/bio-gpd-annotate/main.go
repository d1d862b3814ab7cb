// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

/*
bio-gpd-annotate assigns each read of a GPD file to its best matching
transcript in a GPD reference annotation.

	bio-gpd-annotate -r reference.gpd.gz [-o out.tsv] [-threads N] reads.gpd

-region chr:first-last restricts the run to reads overlapping the region.
Paths may be local or s3://.  "-" reads stdin; an empty or "-" output writes
stdout.  Suffixes .gz, .bgz and .sz select compression.

Each output line has 15 tab-separated columns: read line number, read gene,
transcript gene, transcript name, full/partial, matched exons, consecutive
matched exons, read exons, transcript exons, overlap bases, read length,
transcript length, read range, transcript range, and transcript ID (its line
number in the reference).  Reads that match nothing are not reported.
*/
package main

import (
	"fmt"
	"runtime"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/file/s3file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/txannotate/annotate"
	"v.io/x/lib/cmdline"
)

type annotateFlags struct {
	refPath     string
	outPath     string
	summaryPath string
	threads     int
	opts        annotate.Opts
}

func newCmdRoot() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "bio-gpd-annotate",
		Short:    "Assign GPD reads to reference transcripts",
		ArgsName: "reads.gpd",
		LookPath: false,
	}
	flags := annotateFlags{opts: annotate.DefaultOpts}
	cmd.Flags.StringVar(&flags.refPath, "r", "", "Reference transcripts in GPD format. Required.")
	cmd.Flags.StringVar(&flags.refPath, "reference", "", "Same as -r.")
	cmd.Flags.StringVar(&flags.outPath, "o", "", "Output path. Empty or \"-\" means stdout.")
	cmd.Flags.StringVar(&flags.outPath, "output", "", "Same as -o.")
	cmd.Flags.IntVar(&flags.threads, "threads", runtime.NumCPU(), "Max number of chromosomes processed in parallel.")
	cmd.Flags.StringVar(&flags.opts.Region, "region", "",
		"If set, annotate only reads overlapping this region. Format as <chrom>:<1-based first pos>-<last pos>, <chrom>:<1-based pos>, or just <chrom>.")
	cmd.Flags.StringVar(&flags.summaryPath, "summary", "", "If set, write per-chromosome counts to this path as TSV.")
	cmd.Flags.IntVar(&flags.opts.SingleExonMinOverlap, "single-exon-min-overlap", flags.opts.SingleExonMinOverlap,
		"Single-exon reads or transcripts match if they share at least this many bases")
	cmd.Flags.Float64Var(&flags.opts.SingleExonMinFrac, "single-exon-min-frac", flags.opts.SingleExonMinFrac,
		"... or at least this fraction of the shorter of the two")
	cmd.Flags.IntVar(&flags.opts.MultiExonMinOverlap, "multi-exon-min-overlap", flags.opts.MultiExonMinOverlap,
		"Min number of bases shared by a read exon and a transcript exon")
	cmd.Flags.Float64Var(&flags.opts.MultiExonEndFrac, "multi-exon-end-frac", flags.opts.MultiExonEndFrac,
		"Min overlap, as a fraction of the shorter exon, when either exon is first or last")
	cmd.Flags.Float64Var(&flags.opts.MultiExonMidFrac, "multi-exon-mid-frac", flags.opts.MultiExonMidFrac,
		"Min overlap, as a fraction of the shorter exon, between two internal exons")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return fmt.Errorf("bio-gpd-annotate takes one input path, but got %v", argv)
		}
		return run(flags, argv[0])
	})
	return cmd
}

func run(flags annotateFlags, inPath string) error {
	if flags.refPath == "" {
		return fmt.Errorf("-r (reference GPD path) is required")
	}
	if flags.threads < 1 {
		return fmt.Errorf("-threads must be positive, got %d", flags.threads)
	}
	opts := flags.opts
	opts.Parallelism = flags.threads
	opts.SummaryPath = flags.summaryPath
	stats, err := annotate.Annotate(vcontext.Background(), inPath, flags.refPath, flags.outPath, opts)
	if err != nil {
		return err
	}
	log.Printf("%s: %d of %d read(s) assigned, %d full", inPath, stats.Matched,
		stats.Reads+stats.SkippedReads+stats.Filtered, stats.Full)
	return nil
}

func main() {
	file.RegisterImplementation("s3", func() file.Implementation {
		return s3file.NewImplementation(s3file.NewDefaultProvider(session.Options{}), s3file.Options{})
	})
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(newCmdRoot())
}
