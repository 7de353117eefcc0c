// Package generalize turns enriched exact words into IUPAC patterns by
// adding one ambiguous letter at a time.
//
// Counts for an ambiguous letter are estimated from the counts of the two
// letters it is the union of, assuming the two sets of matching sequences
// are independent:
//
//	p = round(p1 + p2 - p1*p2/P)
//
// The estimate is only used for ranking. The best patterns are recounted
// exactly before they leave the package.
package generalize

import (
	"math"

	"github.com/dasnellings/motifTools/census"
	"github.com/dasnellings/motifTools/enrich"
	"github.com/dasnellings/motifTools/iupac"
	"github.com/dasnellings/motifTools/match"
	"github.com/dasnellings/motifTools/session"
)

type counts struct {
	p, n int
}

func union(a, b counts, P, N int) counts {
	return counts{
		p: int(math.Round(float64(a.p+b.p) - float64(a.p*b.p)/float64(P))),
		n: int(math.Round(float64(a.n+b.n) - float64(a.n*b.n)/float64(N))),
	}
}

// One stores in out an estimated record for every pattern with one more
// ambiguous letter than pattern that can be built from significant records
// (log p-value below logThresh) in tab. Only columns holding a base are
// generalized, and patterns starting or ending with N are not stored.
func One(pattern string, tab, out enrich.Table, logThresh float64, givenOnly bool) {
	P, N := tab[pattern].PosTotal, tab[pattern].NegTotal
	col := make(map[byte]counts, len(iupac.Letters))
	b := []byte(pattern)
	var key string
	var r enrich.Record
	var found bool
	for i := range b {
		if !iupac.IsBase(pattern[i]) {
			continue
		}
		clear(col)

		// STEP 1: significant base variants of column i
		for j := 0; j < len(iupac.Bases); j++ {
			b[i] = iupac.Bases[j]
			key = iupac.Canonical(string(b), givenOnly)
			if r, found = tab[key]; found && r.LogPValue < logThresh {
				col[iupac.Bases[j]] = counts{p: r.Pos, n: r.Neg}
			}
		}

		// STEP 2: build ambiguity codes bottom-up
		for j := 0; j < len(iupac.Ambigs); j++ {
			pair := iupac.Pairs[iupac.Ambigs[j]]
			c1, found1 := col[pair[0]]
			c2, found2 := col[pair[1]]
			if found1 && found2 {
				col[iupac.Ambigs[j]] = union(c1, c2, P, N)
			}
		}

		// STEP 3: keep the genuinely ambiguous letters
		for j := 0; j < len(iupac.Ambigs); j++ {
			c, found := col[iupac.Ambigs[j]]
			if !found {
				continue
			}
			b[i] = iupac.Ambigs[j]
			if b[0] == 'N' || b[len(b)-1] == 'N' {
				continue
			}
			r = enrich.NewRecord(c.p, P, c.n, N)
			r.Estimated = true
			out[iupac.Canonical(string(b), givenOnly)] = r
		}
		b[i] = pattern[i]
	}
}

// All generalizes the top NGen patterns of words to one ambiguous letter,
// then the top NGen of those to two, and so on up to maxW ambiguous letters.
// The NGen best generalized patterns are recounted exactly against the
// session's current sequences. The answer holds every generalized pattern
// and every record of words.
func All(s *session.Session, words enrich.Table, maxW int) (enrich.Table, error) {
	final := make(enrich.Table)
	old := words
	logThresh := s.LogAddPThresh()
	for nAmbigs := 1; nAmbigs <= maxW && len(old) > 0; nAmbigs++ {
		if err := s.Check(); err != nil {
			return nil, err
		}
		top := old.Top(s.NGen)
		s.Log.Debug().Int("patterns", len(top)).Int("of", len(old)).Int("ambigs", nAmbigs).Msg("generalizing")
		next := make(enrich.Table)
		for _, pattern := range top {
			if nAmbigs > len(pattern) {
				continue
			}
			One(pattern, old, next, logThresh, s.GivenOnly)
		}
		final.Merge(next)
		old = next
	}

	Exact(s, final, s.NGen)
	final.Merge(words)
	return final, nil
}

// Exact replaces the records of the k best patterns of tab with exact
// counts against the session's current sequences.
func Exact(s *session.Session, tab enrich.Table, k int) {
	top := tab.Top(k)
	s.Log.Debug().Int("patterns", len(top)).Msg("computing exact p-values")
	recs := match.Records(top, s.Pos, s.Neg, s.GivenOnly, s.Threads)
	for i := range top {
		tab[top[i]] = recs[i]
	}
}

// Cores counts and scores every exact word of width minW to maxW in the
// session's sequences and generalizes the best of them.
func Cores(s *session.Session, minW, maxW int) (enrich.Table, error) {
	pos := census.Words(s.Pos, minW, maxW, s.GivenOnly)
	neg := census.Words(s.Neg, minW, maxW, s.GivenOnly)
	words := census.Apply(pos, neg, len(s.Pos), len(s.Neg), s.Threads)
	s.Log.Debug().Int("words", len(words)).Int("minw", minW).Int("maxw", maxW).Msg("word census")
	return All(s, words, maxW)
}
