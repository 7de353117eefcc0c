// Package refine improves a pattern by greedy single-letter substitution.
package refine

import (
	"github.com/dasnellings/motifTools/enrich"
	"github.com/dasnellings/motifTools/hamming"
	"github.com/dasnellings/motifTools/iupac"
	"github.com/dasnellings/motifTools/match"
	"github.com/dasnellings/motifTools/pwm"
	"github.com/dasnellings/motifTools/session"
)

// ConsensusLetters are the substitutions tried on a consensus word.
const ConsensusLetters = "ACGTN"

// Refiner runs greedy refinements that share one record table. Every
// record computed is written to the table. A pattern is refined at most
// once per Refiner.
type Refiner struct {
	s     *session.Session
	table enrich.Table
	done  map[string]bool

	// Scored counts the patterns whose records were computed.
	Scored int
}

// New returns a Refiner writing into table.
func New(s *session.Session, table enrich.Table) *Refiner {
	return &Refiner{s: s, table: table, done: make(map[string]bool)}
}

// Exact refines candidates by trying every letter of letters at every
// position and recounting each new pattern. It returns every candidate kept
// in a round and every improvement found.
func (r *Refiner) Exact(candidates enrich.Table, letters string) (enrich.Table, error) {
	return r.all(candidates, func(pattern string, improved enrich.Table) {
		r.substitute(pattern, letters, improved)
	})
}

// Consensus refines candidate words using estimated records of their
// Hamming-1 neighbors. The actual record of each refined word goes into
// the table; the estimates only steer the search.
func (r *Refiner) Consensus(candidates enrich.Table) (enrich.Table, error) {
	return r.all(candidates, r.neighbors)
}

// all keeps the NRef best candidates each round, refines those not yet
// refined, and stops once a round improves nothing.
func (r *Refiner) all(candidates enrich.Table, refine func(string, enrich.Table)) (enrich.Table, error) {
	ans := make(enrich.Table)
	improved := candidates
	for step := 1; len(improved) > 0; step++ {
		if err := r.s.Check(); err != nil {
			return nil, err
		}
		top := improved.Top(r.s.NRef)
		r.s.Log.Debug().Int("step", step).Int("candidates", len(improved)).Str("best", top[0]).
			Str("p", enrich.FormatLog(improved[top[0]].LogPValue)).Msg("refining")
		next := make(enrich.Table)
		for _, pattern := range top {
			ans[pattern] = improved[pattern]
			if r.done[pattern] {
				r.s.Log.Trace().Str("pattern", pattern).Msg("already refined")
				continue
			}
			r.done[pattern] = true
			refine(pattern, next)
		}
		ans.Merge(next)
		improved = next
	}
	return ans, nil
}

func (r *Refiner) substitute(pattern, letters string, improved enrich.Table) {
	parent := r.table[pattern].LogPValue
	var keys, patterns []string
	seen := make(map[string]bool)
	b := []byte(pattern)
	var key string
	for i := range b {
		for j := 0; j < len(letters); j++ {
			if letters[j] == pattern[i] {
				continue
			}
			b[i] = letters[j]
			key = iupac.Canonical(string(b), r.s.GivenOnly)
			if _, found := r.table[key]; !found && !seen[key] {
				seen[key] = true
				keys = append(keys, key)
				patterns = append(patterns, string(b))
			}
		}
		b[i] = pattern[i]
	}

	recs := match.Records(patterns, r.s.Pos, r.s.Neg, r.s.GivenOnly, r.s.Threads)
	r.Scored += len(recs)
	for i := range keys {
		if recs[i].LogPValue < parent {
			improved[keys[i]] = recs[i]
		}
		r.table[keys[i]] = recs[i]
	}
}

func (r *Refiner) neighbors(word string, improved enrich.Table) {
	actual, estimated := hamming.Neighbors(word, ConsensusLetters, r.s.Pos, r.s.Neg, r.s.GivenOnly)
	r.Scored++
	r.table[word] = actual
	r.s.Log.Trace().Str("word", word).Int("distance", actual.Distance).
		Str("p", enrich.FormatLog(actual.LogPValue)).Msg("actual consensus record")
	for key, rec := range estimated {
		if rec.LogPValue < actual.LogPValue {
			improved[key] = rec
		}
	}
}

// FromPattern narrows pattern to the letters seen in its positive matches,
// records it exactly, and refines it over every IUPAC letter.
func FromPattern(s *session.Session, table enrich.Table, pattern string) (enrich.Table, error) {
	if aln := match.Align(pattern, s.Pos, s.GivenOnly); len(aln) > 0 {
		pattern = pwm.FromAlignment(aln, 0).Specialize(pattern)
	}
	rec := match.Record(pattern, s.Pos, s.Neg, s.GivenOnly)
	s.Log.Info().Str("pattern", pattern).Str("p", enrich.FormatLog(rec.LogPValue)).Msg("extended pattern")
	key := iupac.Canonical(pattern, s.GivenOnly)
	table[key] = rec
	return New(s, table).Exact(enrich.Table{key: rec}, iupac.Letters)
}

// FromConsensus aligns consensus by Hamming distance, replaces it by the
// consensus of that alignment, and refines the result by estimated
// Hamming-1 neighbors.
func FromConsensus(s *session.Session, table enrich.Table, consensus string) (enrich.Table, error) {
	aln := hamming.BestAlignment(consensus, s.Pos, s.Neg, s.GivenOnly)
	s.Log.Info().Str("consensus", consensus).Int("distance", aln.Record.Distance).
		Str("p", enrich.FormatLog(aln.Record.LogPValue)).Msg("best consensus")
	if len(aln.Aln) > 0 {
		consensus = pwm.FromAlignment(aln.Aln, 0).ConsensusSequence()
		aln = hamming.BestAlignment(consensus, s.Pos, s.Neg, s.GivenOnly)
		s.Log.Info().Str("consensus", consensus).Int("distance", aln.Record.Distance).
			Str("p", enrich.FormatLog(aln.Record.LogPValue)).Msg("consensus after realignment")
	}
	key := iupac.Canonical(consensus, s.GivenOnly)
	return New(s, table).Consensus(enrich.Table{key: aln.Record})
}
