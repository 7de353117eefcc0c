package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"
	"time"

	"github.com/dasnellings/motifTools/discover"
	"github.com/dasnellings/motifTools/report"
	"github.com/dasnellings/motifTools/seqio"
	"github.com/dasnellings/motifTools/session"
	"github.com/dasnellings/motifTools/shuffle"
	"github.com/pkg/profile"
	"github.com/vertgenlab/gonomics/exception"
)

func discoverUsage(discoverFlags *flag.FlagSet) {
	fmt.Print(
		"discover - find short IUPAC patterns enriched in positive sequences relative to negative sequences\n\n" +
			"Usage:\n" +
			"  motiftools discover [options] -p positives.fa [-n negatives.fa]\n\n" +
			"If -n is not given the positives are dinucleotide shuffled to make the negatives.\n" +
			"Flags given on the command line override values read with -config.\n\n" +
			"Options:\n")
	discoverFlags.PrintDefaults()
}

func runDiscover(args []string) {
	var err error
	discoverFlags := flag.NewFlagSet("discover", flag.ExitOnError)
	defaults := session.Defaults()

	posFile := discoverFlags.String("p", "", "Positive sequence file (FASTA, may be gzipped). Required.")
	negFile := discoverFlags.String("n", "", "Negative sequence file (FASTA, may be gzipped). Should match the length distribution of the positives.")
	outDir := discoverFlags.String("o", "", "Create this output directory. Fails if it already exists.")
	clobberDir := discoverFlags.String("oc", "motiftools_out", "Create this output directory, overwriting files already in it.")
	configFile := discoverFlags.String("config", "", "YAML file with search parameters.")
	norc := discoverFlags.Bool("norc", defaults.GivenOnly, "Search the given strand only.")
	consensus := discoverFlags.Bool("c", defaults.UseConsensus, "Convert extended patterns to consensus sequences and refine by Hamming distance.")
	minw := discoverFlags.Int("minw", defaults.MinW, "Minimum motif width. Defaults to mink.")
	maxw := discoverFlags.Int("maxw", defaults.MaxW, "Maximum motif width. Defaults to maxk, or to minw when only minw is given.")
	w := discoverFlags.Int("w", session.Unset, "Set minw and maxw to this width.")
	mink := discoverFlags.Int("mink", defaults.MinK, "Minimum core width.")
	maxk := discoverFlags.Int("maxk", defaults.MaxK, "Maximum core width.")
	k := discoverFlags.Int("k", session.Unset, "Set mink and maxk to this width.")
	ngen := discoverFlags.Int("g", defaults.NGen, "Number of patterns to generalize per round.")
	nref := discoverFlags.Int("r", defaults.NRef, "Number of patterns to refine per round.")
	ethresh := discoverFlags.Float64("e", defaults.EThresh, "Stop when the best motif has an E-value above this.")
	addPThresh := discoverFlags.Float64("a", defaults.AddPThresh, "p-value a word needs to be added to a pattern.")
	maxMotifs := discoverFlags.Int("m", defaults.MaxMotifs, "Stop after this many motifs. 0 for no limit.")
	maxTime := discoverFlags.Int("t", 0, "Stop after this many seconds. 0 for no limit.")
	seed := discoverFlags.Int64("s", defaults.Seed, "Seed for shuffling the positives. Ignored with -n.")
	threads := discoverFlags.Int("threads", defaults.Threads, "Number of threads used for scoring.")
	desc := discoverFlags.String("desc", "", "Description stored in the XML report.")
	descFile := discoverFlags.String("dfile", "", "File with the description stored in the XML report.")
	eps := discoverFlags.Bool("eps", false, "Draw EPS logos.")
	png := discoverFlags.Bool("png", false, "Draw PNG logos.")
	listAll := discoverFlags.Bool("l", false, "Print the enrichment of every pattern scored in the first search to stdout.")
	verbose := discoverFlags.Int("v", 2, "Verbosity from 1 (quiet) to 5 (dump).")
	cpuprofile := discoverFlags.Bool("cpuprofile", false, "write cpu profile")
	memprofile := discoverFlags.Bool("memprofile", false, "write memory profile")

	err = discoverFlags.Parse(args)
	exception.PanicOnErr(err)
	discoverFlags.Usage = func() { discoverUsage(discoverFlags) }

	if *posFile == "" {
		discoverFlags.Usage()
		errExit("\nERROR: must have input for -p")
	}
	if *verbose < 1 || *verbose > 5 {
		errExit("ERROR: -v must be between 1 and 5")
	}
	if *memprofile && *cpuprofile {
		errExit("ERROR: -memprofile and -cpuprofile are mutually exclusive.")
	}
	if *memprofile {
		defer profile.Start(profile.MemProfile).Stop()
	}
	if *cpuprofile {
		defer profile.Start(profile.CPUProfile).Stop()
	}

	cfg := defaults
	if *configFile != "" {
		f, err := os.Open(*configFile)
		exception.PanicOnErr(err)
		err = cfg.Decode(f)
		exception.PanicOnErr(f.Close())
		if err != nil {
			errExit(fmt.Sprintf("ERROR: reading %s: %s", *configFile, err))
		}
	}

	// flags set on the command line win over the config file
	discoverFlags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "norc":
			cfg.GivenOnly = *norc
		case "c":
			cfg.UseConsensus = *consensus
		case "minw":
			cfg.MinW = *minw
		case "maxw":
			cfg.MaxW = *maxw
		case "w":
			cfg.MinW, cfg.MaxW = *w, *w
		case "mink":
			cfg.MinK = *mink
		case "maxk":
			cfg.MaxK = *maxk
		case "k":
			cfg.MinK, cfg.MaxK = *k, *k
		case "g":
			cfg.NGen = *ngen
		case "r":
			cfg.NRef = *nref
		case "e":
			cfg.EThresh = *ethresh
		case "a":
			cfg.AddPThresh = *addPThresh
		case "m":
			cfg.MaxMotifs = *maxMotifs
		case "t":
			cfg.MaxTime = time.Duration(*maxTime) * time.Second
		case "s":
			cfg.Seed = *seed
		case "threads":
			cfg.Threads = *threads
		}
	})
	if cfg.Threads < 1 {
		errExit("ERROR: threads must be >= 1.")
	}

	dir, clobber := *clobberDir, true
	if *outDir != "" {
		dir, clobber = *outDir, false
	}

	description := *desc
	if *descFile != "" {
		data, err := os.ReadFile(*descFile)
		exception.PanicOnErr(err)
		description = string(data)
	}

	motifDiscovery(*posFile, *negFile, dir, clobber, cfg, cleanDescription(description),
		commandLine("motiftools discover", args), *eps, *png, *listAll, *verbose)
}

func motifDiscovery(posFile, negFile, dir string, clobber bool, cfg session.Config, description, cmdLine string, eps, png, listAll bool, verbose int) {
	logger := session.NewLogger(verbose, os.Stderr)

	logger.Info().Str("file", posFile).Msg("reading positive sequences")
	pos := seqio.Strings(seqio.Read(posFile))
	var neg []string
	if negFile != "" {
		logger.Info().Str("file", negFile).Msg("reading negative sequences")
		neg = seqio.Strings(seqio.Read(negFile))
	} else {
		logger.Info().Int64("seed", cfg.Seed).Msg("shuffling positive sequences")
		neg = shuffle.Strings(pos, cfg.Seed)
	}

	s, err := session.New(cfg, pos, neg, logger)
	if err != nil {
		errExit(fmt.Sprintf("ERROR: %s", err))
	}

	if clobber {
		err = os.MkdirAll(dir, 0755)
	} else {
		err = os.Mkdir(dir, 0755)
		if errors.Is(err, fs.ErrExist) {
			errExit(fmt.Sprintf("ERROR: output directory %s already exists. Use -oc to overwrite it.", dir))
		}
	}
	exception.PanicOnErr(err)

	model := report.NewModel(cmdLine, posFile, negFile, s)
	model.Description = description
	out := report.New(dir, model, report.NewLogoWriter(dir, eps, png))

	res, err := discover.Run(s, out)
	if err != nil {
		log.Fatalf("ERROR: %s", err)
	}
	err = out.Close(res, s.Elapsed())
	exception.PanicOnErr(err)

	logger.Info().Int("motifs", len(res.Motifs)).Str("stop", string(res.Stop)).
		Str("dir", dir).Msg("finished")
	if listAll && res.Listing != nil {
		err = report.WriteListing(os.Stdout, res.Listing)
		exception.PanicOnErr(err)
	}
}

// commandLine rebuilds the command line, quoting arguments with spaces.
func commandLine(prog string, args []string) string {
	s := new(strings.Builder)
	s.WriteString(prog)
	for _, arg := range args {
		if strings.ContainsAny(arg, " \t\n") {
			fmt.Fprintf(s, " %q", arg)
		} else {
			s.WriteString(" " + arg)
		}
	}
	return s.String()
}

// cleanDescription uses unix line endings, merges runs of blank lines and
// drops trailing newlines.
func cleanDescription(d string) string {
	d = strings.ReplaceAll(d, "\r\n", "\n")
	d = strings.ReplaceAll(d, "\r", "\n")
	for strings.Contains(d, "\n\n\n") {
		d = strings.ReplaceAll(d, "\n\n\n", "\n\n")
	}
	return strings.TrimRight(d, "\n")
}
