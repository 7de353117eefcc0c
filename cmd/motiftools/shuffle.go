package main

import (
	"flag"
	"fmt"

	"github.com/dasnellings/motifTools/seqio"
	"github.com/dasnellings/motifTools/shuffle"
	"github.com/vertgenlab/gonomics/exception"
)

func shuffleUsage(shuffleFlags *flag.FlagSet) {
	fmt.Print(
		"shuffle - shuffle each sequence keeping its dinucleotide counts\n\n" +
			"Usage:\n" +
			"  motiftools shuffle [options] -i input.fa -o shuffled.fa\n\n" +
			"Options:\n")
	shuffleFlags.PrintDefaults()
}

func runShuffle(args []string) {
	var err error
	shuffleFlags := flag.NewFlagSet("shuffle", flag.ExitOnError)

	input := shuffleFlags.String("i", "", "Input FASTA file.")
	output := shuffleFlags.String("o", "stdout", "Output FASTA file.")
	seed := shuffleFlags.Int64("s", 1, "Random seed.")

	err = shuffleFlags.Parse(args)
	exception.PanicOnErr(err)
	shuffleFlags.Usage = func() { shuffleUsage(shuffleFlags) }

	if *input == "" {
		shuffleFlags.Usage()
		errExit("\nERROR: must have input for -i")
	}

	seqs := seqio.Read(*input)
	shuffled := shuffle.Strings(seqio.Strings(seqs), *seed)
	for i := range seqs {
		seqs[i].Seq = shuffled[i]
	}
	seqio.Write(*output, seqs)
}
