package match

import (
	"regexp"
	"strings"

	"github.com/dasnellings/motifTools/iupac"
)

// Matcher finds a pattern in DNA strings.
type Matcher struct {
	re *regexp.Regexp
}

func classes(pattern string) string {
	s := new(strings.Builder)
	for i := 0; i < len(pattern); i++ {
		s.WriteByte('[')
		s.WriteString(iupac.Expand(pattern[i]))
		s.WriteByte(']')
	}
	return s.String()
}

// Compile expands every IUPAC letter of pattern to the bases it matches.
// Unless givenOnly is set the matcher also accepts the reverse complement.
func Compile(pattern string, givenOnly bool) *Matcher {
	expr := classes(pattern)
	if !givenOnly {
		expr += "|" + classes(iupac.ReverseComplement(pattern))
	}
	return &Matcher{re: regexp.MustCompile(expr)}
}

// Whole matches s in full against pattern on the given strand only.
func Whole(pattern string) *Matcher {
	return &Matcher{re: regexp.MustCompile("^" + classes(pattern) + "$")}
}

// MatchString reports whether s contains a match.
func (m *Matcher) MatchString(s string) bool {
	return m.re.MatchString(s)
}

// FindAll returns every non-overlapping, leftmost match in s.
func (m *Matcher) FindAll(s string) []string {
	return m.re.FindAllString(s, -1)
}

// FindAllIndex returns the spans of every non-overlapping match in s.
func (m *Matcher) FindAllIndex(s string) [][]int {
	return m.re.FindAllStringIndex(s, -1)
}

// Count returns how many of seqs contain at least one match.
func Count(m *Matcher, seqs []string) int {
	var ans int
	for i := range seqs {
		if m.MatchString(seqs[i]) {
			ans++
		}
	}
	return ans
}

// Align collects every non-overlapping match of pattern on either accepted
// strand of seqs, each turned to read on the pattern's strand.
func Align(pattern string, seqs []string, givenOnly bool) []string {
	var aln []string
	both := Compile(pattern, givenOnly)
	given := Compile(pattern, true)
	for i := range seqs {
		for _, m := range both.FindAll(seqs[i]) {
			if given.MatchString(m) {
				aln = append(aln, m)
			} else {
				aln = append(aln, iupac.ReverseComplement(m))
			}
		}
	}
	return aln
}

// BestOffset returns the most common start position of given strand matches
// of pattern in seqs. Ties go to the larger offset.
func BestOffset(pattern string, seqs []string) int {
	given := Compile(pattern, true)
	var counts []int
	for i := range seqs {
		if len(counts) < len(seqs[i]) {
			counts = append(counts, make([]int, len(seqs[i])-len(counts))...)
		}
		for _, span := range given.FindAllIndex(seqs[i]) {
			counts[span[0]]++
		}
	}
	var best int
	for offset := range counts {
		if counts[offset] >= counts[best] {
			best = offset
		}
	}
	return best
}

// Erase replaces every match of pattern in seqs with a run of N of the same
// length. Seqs are modified in place. Erased spans can never match again.
func Erase(pattern string, seqs []string, givenOnly bool) {
	ens := strings.Repeat("N", len(pattern))
	m := Compile(pattern, givenOnly)
	for i := range seqs {
		seqs[i] = m.re.ReplaceAllLiteralString(seqs[i], ens)
	}
}
