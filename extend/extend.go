// Package extend widens the best core pattern to the final motif width by
// finding a second enriched core in the sequence flanking it.
package extend

import (
	"strings"

	"github.com/dasnellings/motifTools/enrich"
	"github.com/dasnellings/motifTools/generalize"
	"github.com/dasnellings/motifTools/match"
	"github.com/dasnellings/motifTools/pwm"
	"github.com/dasnellings/motifTools/refine"
	"github.com/dasnellings/motifTools/session"
	"github.com/vertgenlab/gonomics/numbers"
)

type side int

const (
	left side = iota
	right
)

func (d side) String() string {
	if d == right {
		return "right"
	}
	return "left"
}

// secondary is the best core found in one flank.
type secondary struct {
	pattern string
	gap     int
	rec     enrich.Record
	flank   []string
	side    side
}

// Refine specializes a widened pattern, or in consensus mode realigns it,
// and refines it. Every record computed is added to table.
func Refine(s *session.Session, table enrich.Table, pattern string) error {
	var err error
	if s.UseConsensus {
		_, err = refine.FromConsensus(s, table, pattern)
	} else {
		_, err = refine.FromPattern(s, table, pattern)
	}
	return err
}

// Widen extends the best pattern of table to the session's MaxW with the
// best core of its flanks and pads the result with N evenly on both sides,
// the extra N on the right. It reports false for an empty table.
func Widen(s *session.Session, table enrich.Table) (string, bool, error) {
	prim, found := table.Best(nil)
	if !found {
		return "", false, nil
	}
	s.Log.Info().Str("primary", prim).Str("p", enrich.FormatLog(table[prim].LogPValue)).
		Int("width", s.MaxW).Msg("extending primary core")

	pattern := prim
	if pad := s.MaxW - len(prim); pad >= s.MinK {
		var err error
		if pattern, err = combine(s, prim, pad); err != nil {
			return "", false, err
		}
	}

	pad := s.MaxW - len(pattern)
	l := pad / 2
	return strings.Repeat("N", l) + pattern + strings.Repeat("N", pad-l), true, nil
}

// combine joins prim with the better of the best cores of its two flanks,
// spaced as they most often are in the positives.
func combine(s *session.Session, prim string, pad int) (string, error) {
	w := len(prim)
	padded := strings.Repeat("N", pad) + prim + strings.Repeat("N", pad)
	posAln := match.Align(padded, s.Pos, s.GivenOnly)
	negAln := match.Align(padded, s.Neg, s.GivenOnly)

	var best *secondary
	for _, d := range []side{left, right} {
		posFlank := flanks(posAln, d, w, pad)
		cand, err := search(s, posFlank, flanks(negAln, d, w, pad), d, pad)
		if err != nil {
			return "", err
		}
		if cand == nil {
			s.Log.Debug().Str("side", d.String()).Msg("no secondary core")
			continue
		}
		s.Log.Debug().Str("side", d.String()).Str("pattern", cand.pattern).Int("gap", cand.gap).
			Str("p", enrich.FormatLog(cand.rec.LogPValue)).Msg("best secondary core")
		if best == nil || cand.rec.LogPValue < best.rec.LogPValue {
			best = cand
		}
	}
	if best == nil {
		return prim, nil
	}

	scnd := best.pattern
	if s.UseConsensus {
		prim = consensus(prim, s.Pos, s.GivenOnly)
		scnd = consensus(scnd, best.flank, s.GivenOnly)
	}
	s.Log.Info().Str("secondary", scnd).Str("side", best.side.String()).Int("gap", best.gap).Msg("combining cores")
	gap := strings.Repeat("N", best.gap)
	if best.side == left {
		return scnd + gap + prim, nil
	}
	return prim + gap + scnd, nil
}

func flanks(aln []string, d side, w, pad int) []string {
	ans := make([]string, len(aln))
	for i := range aln {
		if d == left {
			ans[i] = aln[i][:pad]
		} else {
			ans[i] = aln[i][w+pad:]
		}
	}
	return ans
}

// search finds the best core in one flank. A flank without candidates
// gives nil.
func search(s *session.Session, posFlank, negFlank []string, d side, pad int) (*secondary, error) {
	table, err := generalize.Cores(s.Sub(posFlank, negFlank), s.MinK, s.MaxK)
	if err != nil {
		return nil, err
	}
	pattern, found := table.Best(nil)
	if !found {
		return nil, nil
	}
	// a core found only on the other strand has no given strand offset
	offset := numbers.Min(match.BestOffset(pattern, posFlank), pad-len(pattern))
	ans := &secondary{pattern: pattern, rec: table[pattern], flank: posFlank, side: d}
	if d == left {
		ans.gap = pad - len(pattern) - offset
	} else {
		ans.gap = offset
	}
	return ans, nil
}

func consensus(pattern string, seqs []string, givenOnly bool) string {
	aln := match.Align(pattern, seqs, givenOnly)
	if len(aln) == 0 {
		return pattern
	}
	return pwm.FromAlignment(aln, 0).ConsensusSequence()
}
