// Package discover runs the find, report, erase loop that turns a pair of
// sequence sets into a list of discriminative motifs.
package discover

import (
	"errors"
	"math"

	"github.com/dasnellings/motifTools/enrich"
	"github.com/dasnellings/motifTools/extend"
	"github.com/dasnellings/motifTools/generalize"
	"github.com/dasnellings/motifTools/hamming"
	"github.com/dasnellings/motifTools/iupac"
	"github.com/dasnellings/motifTools/match"
	"github.com/dasnellings/motifTools/session"
	"github.com/felixgeelhaar/statekit"
	"golang.org/x/exp/slices"
)

// Stop tells why the loop ended.
type Stop string

const (
	StopEValue Stop = "evalue"
	StopCount  Stop = "count"
	StopTime   Stop = "time"
)

// Component is a significant record of the final table whose pattern is
// covered by a motif.
type Component struct {
	Pattern   string // on the motif's strand
	Record    enrich.Record
	LogEValue float64
}

// Motif is a reported pattern. It is not changed after it is emitted.
type Motif struct {
	Index             int
	Pattern           string
	RC                string
	Record            enrich.Record
	LogEValue         float64
	UnerasedLogEValue float64

	// Aln holds the matches in the positives at the time the motif was
	// found, read on the pattern's strand.
	Aln        []string
	Components []Component
}

// Emitter receives each motif as soon as it is found.
type Emitter interface {
	Emit(m *Motif) error
}

// Result is the outcome of a run.
type Result struct {
	Motifs []*Motif
	Stop   Stop

	// Listing is the table of the first search, before anything was erased.
	Listing enrich.Table

	trail []statekit.StateID
}

type loop struct {
	s      *session.Session
	out    Emitter
	result *Result

	table   enrich.Table
	pattern string
	best    string
	err     error
}

// Run searches s for motifs until the E-value threshold, the motif count or
// the time limit is reached. Each motif is passed to out (which may be nil)
// before it is erased from both sequence sets. Errors other than running
// out of time end the run.
func Run(s *session.Session, out Emitter) (*Result, error) {
	machine, err := newMachine()
	if err != nil {
		return nil, err
	}
	ctx := &machineContext{log: s.Log, motif: 1}
	interp := statekit.NewInterpreter(machine)
	interp.UpdateContext(func(c **machineContext) {
		*c = ctx
	})
	interp.Start()
	defer interp.Stop()

	l := &loop{s: s, out: out, result: &Result{}}
	var event statekit.EventType
	for !interp.Done() {
		switch interp.State().Value {
		case stateSearching:
			event = l.search()
		case stateExtending:
			event = l.extend()
		case stateRefining:
			event = l.refine()
		case stateReporting:
			event = l.report()
		case stateErasing:
			event = l.erase()
		default:
			event = eventStop
		}
		interp.Send(newEvent(event))
	}
	l.result.trail = ctx.trail

	s.Log.Info().Str("stop", string(l.result.Stop)).Int("motifs", len(l.result.Motifs)).
		Int64("elapsed_ms", s.Elapsed().Milliseconds()).Msg("stopping")
	return l.result, l.err
}

// fail stops the loop, turning a timeout into a clean stop.
func (l *loop) fail(err error) statekit.EventType {
	if errors.Is(err, session.ErrTimeout) {
		l.result.Stop = StopTime
	} else {
		l.err = err
	}
	return eventStop
}

func (l *loop) search() statekit.EventType {
	l.s.Log.Info().Int("motif", len(l.result.Motifs)+1).Msg("looking for motif")
	if err := l.s.Check(); err != nil {
		return l.fail(err)
	}
	var err error
	if l.table, err = generalize.Cores(l.s, l.s.MinK, l.s.MaxK); err != nil {
		return l.fail(err)
	}
	if l.s.MaxW > l.s.MaxK {
		return eventExtend
	}
	return eventReport
}

func (l *loop) extend() statekit.EventType {
	var found bool
	var err error
	if l.pattern, found, err = extend.Widen(l.s, l.table); err != nil {
		return l.fail(err)
	}
	if !found {
		return eventReport
	}
	return eventRefine
}

func (l *loop) refine() statekit.EventType {
	if err := extend.Refine(l.s, l.table, l.pattern); err != nil {
		return l.fail(err)
	}
	return eventReport
}

// choose picks the best pattern of an allowed width. Estimated records are
// recounted until the best record is exact.
func (l *loop) choose() (string, bool) {
	keep := func(pattern string) bool {
		return len(pattern) >= l.s.MinW && len(pattern) <= l.s.MaxW
	}
	for {
		best, found := l.table.Best(keep)
		if !found || !l.table[best].Estimated {
			return best, found
		}
		l.table[best] = l.recount(best, l.table[best], l.s.Pos, l.s.Neg)
	}
}

// recount scores pattern exactly in pos and neg the way r was found.
func (l *loop) recount(pattern string, r enrich.Record, pos, neg []string) enrich.Record {
	if r.Provenance == enrich.Consensus {
		return hamming.RecordAt(pattern, r.Distance, pos, neg, l.s.GivenOnly)
	}
	return match.Record(pattern, pos, neg, l.s.GivenOnly)
}

func (l *loop) report() statekit.EventType {
	if err := l.s.Check(); err != nil {
		return l.fail(err)
	}
	if l.result.Listing == nil {
		l.result.Listing = l.table
	}
	var found bool
	if l.best, found = l.choose(); !found {
		l.result.Stop = StopEValue
		return eventStop
	}
	r := l.table[l.best]
	logSize := math.Log(float64(len(l.table)))
	m := &Motif{
		Index:     len(l.result.Motifs) + 1,
		Pattern:   l.best,
		RC:        iupac.ReverseComplement(l.best),
		Record:    r,
		LogEValue: r.LogPValue + logSize,
	}
	unerased := l.recount(l.best, r, l.s.UnerasedPos, l.s.UnerasedNeg)
	m.UnerasedLogEValue = unerased.LogPValue + logSize
	l.s.Log.Info().Str("pattern", m.Pattern).Str("rc", m.RC).Str("type", r.Provenance.String()).
		Str("p", enrich.FormatLog(r.LogPValue)).Str("E", enrich.FormatLog(m.LogEValue)).
		Str("unerased_E", enrich.FormatLog(m.UnerasedLogEValue)).Msg("best pattern")

	if m.LogEValue > l.s.LogEThresh() {
		l.result.Stop = StopEValue
		return eventStop
	}

	if r.Provenance == enrich.Consensus {
		m.Aln = hamming.Align(l.best, r.Distance, l.s.Pos, l.s.GivenOnly)
	} else {
		m.Aln = match.Align(l.best, l.s.Pos, l.s.GivenOnly)
	}
	m.Components = components(l.best, l.table, l.s.LogAddPThresh(), logSize)
	l.result.Motifs = append(l.result.Motifs, m)
	if l.out != nil {
		if err := l.out.Emit(m); err != nil {
			return l.fail(err)
		}
	}

	if len(l.result.Motifs) == l.s.MaxMotifs {
		l.result.Stop = StopCount
		return eventStop
	}
	return eventErase
}

func (l *loop) erase() statekit.EventType {
	if err := l.s.Check(); err != nil {
		return l.fail(err)
	}
	r := l.table[l.best]
	l.s.Log.Info().Str("pattern", l.best).Msg("erasing")
	if r.Provenance == enrich.Consensus {
		hamming.Erase(l.best, r.Distance, l.s.Pos, l.s.GivenOnly)
		hamming.Erase(l.best, r.Distance, l.s.Neg, l.s.GivenOnly)
	} else {
		match.Erase(l.best, l.s.Pos, l.s.GivenOnly)
		match.Erase(l.best, l.s.Neg, l.s.GivenOnly)
	}
	return eventSearch
}

// components returns the significant records of table whose pattern, read
// on either strand, is matched in full by best on best's strand. Ambiguous
// letters in a pattern are never accepted.
func components(best string, table enrich.Table, logThresh, logSize float64) []Component {
	var ans []Component
	var pattern string
	whole := match.Whole(best)
	for key, r := range table {
		if r.LogPValue >= logThresh {
			continue
		}
		switch {
		case whole.MatchString(key):
			pattern = key
		case whole.MatchString(iupac.ReverseComplement(key)):
			pattern = iupac.ReverseComplement(key)
		default:
			continue
		}
		ans = append(ans, Component{Pattern: pattern, Record: r, LogEValue: r.LogPValue + logSize})
	}
	slices.SortFunc(ans, func(a, b Component) int {
		switch {
		case a.Record.LogPValue < b.Record.LogPValue:
			return -1
		case a.Record.LogPValue > b.Record.LogPValue:
			return 1
		case a.Pattern < b.Pattern:
			return -1
		case a.Pattern > b.Pattern:
			return 1
		}
		return 0
	})
	return ans
}
