// Package hamming aligns a consensus word to sequences by Hamming distance
// and estimates the enrichment of words one letter away from it.
package hamming

import (
	"strings"

	"github.com/dasnellings/motifTools/enrich"
	"github.com/dasnellings/motifTools/iupac"
)

// Site is the closest window of a sequence to a word.
type Site struct {
	Start int
	RC    bool
	Dist  int

	// Window is the sequence window read on the word's strand.
	Window string
}

func mismatch(c, b byte) int {
	if iupac.Matches(c, b) {
		return 0
	}
	return 1
}

// Distance counts the positions where window does not match word. A
// sequence N always mismatches.
func Distance(word, window string) int {
	var d int
	for i := 0; i < len(word); i++ {
		d += mismatch(word[i], window[i])
	}
	return d
}

// BestSite returns the closest window of s to word on the allowed strands.
// Ties go to the given strand, then to the leftmost window. Sequences
// shorter than word have no site and report false.
func BestSite(word, s string, givenOnly bool) (Site, bool) {
	w := len(word)
	if len(s) < w {
		return Site{}, false
	}
	rc := iupac.ReverseComplement(word)
	best := Site{Dist: w + 1}
	var d int
	for i := 0; i+w <= len(s); i++ {
		if d = Distance(word, s[i:i+w]); d < best.Dist {
			best = Site{Start: i, Dist: d}
		}
	}
	if !givenOnly {
		for i := 0; i+w <= len(s); i++ {
			if d = Distance(rc, s[i:i+w]); d < best.Dist {
				best = Site{Start: i, RC: true, Dist: d}
			}
		}
	}
	best.Window = s[best.Start : best.Start+w]
	if best.RC {
		best.Window = iupac.ReverseComplement(best.Window)
	}
	return best, true
}

// Sites returns the best site of word in every sequence. Sequences shorter
// than word get a site one mismatch further than the word is long.
func Sites(word string, seqs []string, givenOnly bool) []Site {
	ans := make([]Site, len(seqs))
	var found bool
	for i := range seqs {
		if ans[i], found = BestSite(word, seqs[i], givenOnly); !found {
			ans[i] = Site{Dist: len(word) + 1}
		}
	}
	return ans
}

func within(sites []Site, dist int) int {
	var ans int
	for i := range sites {
		if sites[i].Dist <= dist {
			ans++
		}
	}
	return ans
}

// Alignment is the most enriched Hamming ball around a word.
type Alignment struct {
	Record enrich.Record

	// Aln holds the best site of every positive sequence within the
	// record's distance, read on the word's strand.
	Aln []string
}

func best(word string, pos, neg []Site) enrich.Record {
	P, N := len(pos), len(neg)
	var ans enrich.Record
	var r enrich.Record
	for d := 0; d <= len(word); d++ {
		r = enrich.NewConsensusRecord(within(pos, d), P, within(neg, d), N, d)
		if d == 0 || r.LogPValue < ans.LogPValue {
			ans = r
		}
	}
	return ans
}

// BestAlignment picks the distance from word at which the sequences with a
// site that close are most enriched in the positives. Ties go to the
// smaller distance.
func BestAlignment(word string, pos, neg []string, givenOnly bool) Alignment {
	posSites := Sites(word, pos, givenOnly)
	ans := Alignment{Record: best(word, posSites, Sites(word, neg, givenOnly))}
	for i := range posSites {
		if posSites[i].Dist <= ans.Record.Distance {
			ans.Aln = append(ans.Aln, posSites[i].Window)
		}
	}
	return ans
}

// RecordAt counts the sequences with a site within dist of word.
func RecordAt(word string, dist int, pos, neg []string, givenOnly bool) enrich.Record {
	return enrich.NewConsensusRecord(
		within(Sites(word, pos, givenOnly), dist), len(pos),
		within(Sites(word, neg, givenOnly), dist), len(neg), dist)
}

// Neighbors returns the exact record of word at its best distance, and
// estimated records for every word one substitution from letters away. An
// estimate assumes each sequence's best site stays where it was for word and
// only the substituted column changes its distance.
func Neighbors(word, letters string, pos, neg []string, givenOnly bool) (enrich.Record, enrich.Table) {
	posSites := Sites(word, pos, givenOnly)
	negSites := Sites(word, neg, givenOnly)
	actual := best(word, posSites, negSites)
	d := actual.Distance

	estimated := make(enrich.Table)
	b := []byte(word)
	var r enrich.Record
	for i := range b {
		for j := 0; j < len(letters); j++ {
			if letters[j] == word[i] {
				continue
			}
			b[i] = letters[j]
			r = enrich.NewConsensusRecord(
				shifted(posSites, word, i, letters[j], d), len(pos),
				shifted(negSites, word, i, letters[j], d), len(neg), d)
			r.Estimated = true
			estimated[iupac.Canonical(string(b), givenOnly)] = r
		}
		b[i] = word[i]
	}
	return actual, estimated
}

// shifted counts sites within dist once column i of word is changed to c.
func shifted(sites []Site, word string, i int, c byte, dist int) int {
	var ans, d int
	for k := range sites {
		if sites[k].Window == "" {
			continue
		}
		d = sites[k].Dist - mismatch(word[i], sites[k].Window[i]) + mismatch(c, sites[k].Window[i])
		if d <= dist {
			ans++
		}
	}
	return ans
}

// Align returns every non-overlapping window within dist of word, scanning
// left to right, read on the word's strand. Windows holding an N are skipped.
func Align(word string, dist int, seqs []string, givenOnly bool) []string {
	var aln []string
	scan(word, dist, seqs, givenOnly, func(seq, start int, rc bool) {
		window := seqs[seq][start : start+len(word)]
		if rc {
			window = iupac.ReverseComplement(window)
		}
		aln = append(aln, window)
	})
	return aln
}

// Erase replaces every non-overlapping window within dist of word with N.
// Windows already holding an N are left alone, so erasing twice changes
// nothing further. Seqs are modified in place.
func Erase(word string, dist int, seqs []string, givenOnly bool) {
	var b []byte
	last := -1
	flush := func() {
		if b != nil {
			seqs[last] = string(b)
			b = nil
		}
	}
	scan(word, dist, seqs, givenOnly, func(seq, start int, rc bool) {
		if seq != last {
			flush()
			last = seq
			b = []byte(seqs[seq])
		}
		for i := start; i < start+len(word); i++ {
			b[i] = 'N'
		}
	})
	flush()
}

func scan(word string, dist int, seqs []string, givenOnly bool, found func(seq, start int, rc bool)) {
	w := len(word)
	rc := iupac.ReverseComplement(word)
	var s string
	for k := range seqs {
		s = seqs[k]
		for i := 0; i+w <= len(s); {
			// erased runs are never matched again
			if j := strings.LastIndexByte(s[i:i+w], 'N'); j >= 0 {
				i += j + 1
				continue
			}
			switch {
			case Distance(word, s[i:i+w]) <= dist:
				found(k, i, false)
				i += w
			case !givenOnly && Distance(rc, s[i:i+w]) <= dist:
				found(k, i, true)
				i += w
			default:
				i++
			}
		}
	}
}
