package refine

import (
	"errors"
	"testing"

	"github.com/dasnellings/motifTools/enrich"
	"github.com/dasnellings/motifTools/iupac"
	"github.com/dasnellings/motifTools/match"
	"github.com/dasnellings/motifTools/session"
)

var pos = []string{
	"GGGACGTAGGG", "CCACGTACCCC", "TTACGTATTGG", "GACGTAGGGGC", "CACGTACCCAC",
	"GGGGGACGTAG", "ACGTAGGGGGG", "CCCCCACGTAC", "GGACGTAGGCC", "CGCGACGTAGG",
}

var neg = []string{
	"GGGGGGGGGGG", "CCCCCCCCCCC", "TTTTTTTTTTT", "AAAAAAAAAAA", "GCGCGCGCGCG",
	"ATATATATATA", "GGGCCCGGGCC", "TTTAAATTTAA", "CAGCAGCAGCA", "TGCTGCTGCTG",
}

func newSession(t *testing.T) *session.Session {
	cfg := session.Defaults()
	cfg.MinK, cfg.MaxK, cfg.MaxW = 3, 5, 5
	cfg.NRef = 2
	s, err := session.New(cfg, append([]string(nil), pos...), append([]string(nil), neg...), nil)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestDoneSetIsIdempotent(t *testing.T) {
	s := newSession(t)
	table := make(enrich.Table)
	key := iupac.Canonical("ACGTA", false)
	rec := match.Record("ACGTA", s.Pos, s.Neg, false)
	table[key] = rec

	r := New(s, table)
	if _, err := r.Exact(enrich.Table{key: rec}, iupac.Letters); err != nil {
		t.Fatal(err)
	}
	scored := r.Scored
	if scored == 0 {
		t.Fatal("nothing was scored")
	}
	ans, err := r.Exact(enrich.Table{key: rec}, iupac.Letters)
	if err != nil {
		t.Fatal(err)
	}
	if r.Scored != scored {
		t.Errorf("refining %s again scored %d more patterns", key, r.Scored-scored)
	}
	if _, found := ans[key]; !found {
		t.Error("the candidate should still be in the answer")
	}
}

func TestExactRecordsAreExact(t *testing.T) {
	s := newSession(t)
	table := make(enrich.Table)
	key := iupac.Canonical("ACGNA", false)
	table[key] = match.Record("ACGNA", s.Pos, s.Neg, false)
	if _, err := New(s, table).Exact(enrich.Table{key: table[key]}, iupac.Letters); err != nil {
		t.Fatal(err)
	}
	for pattern, r := range table {
		if r.Estimated {
			t.Errorf("%s has an estimated record", pattern)
		}
		if want := match.Record(pattern, s.Pos, s.Neg, false); want != r {
			t.Errorf("%s = %+v, recount %+v", pattern, r, want)
		}
	}
}

func TestFromPattern(t *testing.T) {
	s := newSession(t)
	table := make(enrich.Table)
	ans, err := FromPattern(s, table, "ACNTA")
	if err != nil {
		t.Fatal(err)
	}
	want := iupac.Canonical("ACGTA", false)
	r, found := table[want]
	if !found || r.Pos != len(pos) || r.Neg != 0 {
		t.Fatalf("ACNTA was not narrowed to ACGTA: %+v", r)
	}
	best, _ := ans.Best(nil)
	if ans[best].LogPValue > r.LogPValue {
		t.Errorf("refinement lost ground: %s %g > %g", best, ans[best].LogPValue, r.LogPValue)
	}
}

func TestFromConsensus(t *testing.T) {
	s := newSession(t)
	table := make(enrich.Table)
	if _, err := FromConsensus(s, table, "ACGTN"); err != nil {
		t.Fatal(err)
	}
	if len(table) == 0 {
		t.Fatal("no record was written")
	}
	for word, r := range table {
		if r.Estimated || r.Provenance != enrich.Consensus {
			t.Errorf("%s = %+v", word, r)
		}
	}
	best, _ := table.Best(nil)
	if table[best].Pos != len(pos) || table[best].Neg != 0 {
		t.Errorf("best consensus %s = %+v", best, table[best])
	}
}

func TestRefineStopsAtDeadline(t *testing.T) {
	s := newSession(t)
	s.Deadline = s.Start
	table := enrich.Table{"ACGTA": match.Record("ACGTA", s.Pos, s.Neg, false)}
	if _, err := New(s, table).Exact(table, iupac.Letters); !errors.Is(err, session.ErrTimeout) {
		t.Errorf("got %v", err)
	}
}
