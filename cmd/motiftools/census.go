package main

import (
	"flag"
	"fmt"

	"github.com/dasnellings/motifTools/census"
	"github.com/dasnellings/motifTools/report"
	"github.com/dasnellings/motifTools/seqio"
	"github.com/dasnellings/motifTools/shuffle"
	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
)

func censusUsage(censusFlags *flag.FlagSet) {
	fmt.Print(
		"census - score every word in the positives for enrichment against the negatives\n\n" +
			"Usage:\n" +
			"  motiftools census [options] -p positives.fa [-n negatives.fa] > words.txt\n\n" +
			"Options:\n")
	censusFlags.PrintDefaults()
}

func runCensus(args []string) {
	var err error
	censusFlags := flag.NewFlagSet("census", flag.ExitOnError)

	posFile := censusFlags.String("p", "", "Positive sequence file.")
	negFile := censusFlags.String("n", "", "Negative sequence file. Defaults to the shuffled positives.")
	output := censusFlags.String("o", "stdout", "Output file.")
	mink := censusFlags.Int("mink", 3, "Minimum word width.")
	maxk := censusFlags.Int("maxk", 8, "Maximum word width.")
	norc := censusFlags.Bool("norc", false, "Count the given strand only.")
	seed := censusFlags.Int64("s", 1, "Seed for shuffling the positives. Ignored with -n.")
	threads := censusFlags.Int("threads", 1, "Number of threads used for scoring.")

	err = censusFlags.Parse(args)
	exception.PanicOnErr(err)
	censusFlags.Usage = func() { censusUsage(censusFlags) }

	if *posFile == "" {
		censusFlags.Usage()
		errExit("\nERROR: must have input for -p")
	}
	if *mink < 1 || *mink > *maxk {
		errExit("ERROR: need 1 <= mink <= maxk")
	}
	if *threads < 1 {
		errExit("ERROR: threads must be >= 1.")
	}

	wordCensus(*posFile, *negFile, *output, *mink, *maxk, *norc, *seed, *threads)
}

func wordCensus(posFile, negFile, output string, mink, maxk int, norc bool, seed int64, threads int) {
	pos := seqio.Strings(seqio.Read(posFile))
	var neg []string
	if negFile != "" {
		neg = seqio.Strings(seqio.Read(negFile))
	} else {
		neg = shuffle.Strings(pos, seed)
	}

	table := census.Apply(census.Words(pos, mink, maxk, norc), census.Words(neg, mink, maxk, norc), len(pos), len(neg), threads)

	out := fileio.EasyCreate(output)
	err := report.WriteListing(out, table)
	exception.PanicOnErr(err)
	err = out.Close()
	exception.PanicOnErr(err)
}
