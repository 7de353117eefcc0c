package generalize

import (
	"errors"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/dasnellings/motifTools/enrich"
	"github.com/dasnellings/motifTools/iupac"
	"github.com/dasnellings/motifTools/match"
	"github.com/dasnellings/motifTools/session"
)

func TestUnion(t *testing.T) {
	var tests = []struct {
		a, b counts
		P, N int
		want counts
	}{
		{counts{10, 2}, counts{10, 2}, 20, 20, counts{15, 4}},  // 20 - 5 = 15; 4 - 0.2 = 3.8
		{counts{1, 1}, counts{1, 1}, 2, 2, counts{2, 2}},       // 2 - 0.5 rounds away from zero
		{counts{0, 0}, counts{7, 3}, 10, 10, counts{7, 3}},     // empty set adds nothing
		{counts{20, 20}, counts{5, 5}, 20, 20, counts{20, 20}}, // full set absorbs
		{counts{3, 0}, counts{3, 0}, 6, 6, counts{5, 0}},       // 6 - 1.5 = 4.5 rounds to 5
	}
	for _, test := range tests {
		if got := union(test.a, test.b, test.P, test.N); got != test.want {
			t.Errorf("union(%v, %v, %d, %d) = %v, want %v", test.a, test.b, test.P, test.N, got, test.want)
		}
	}
}

func TestOne(t *testing.T) {
	P, N := 100, 100
	tab := enrich.Table{
		"AACT": enrich.NewRecord(30, P, 5, N),
		"AGCT": enrich.NewRecord(20, P, 5, N),
		"ATCT": enrich.NewRecord(1, P, 20, N), // not significant
	}
	out := make(enrich.Table)
	One("AACT", tab, out, math.Log(0.01), true)

	r, found := out["ARCT"]
	if !found {
		t.Fatalf("ARCT not generalized, got %v", out)
	}
	// 30 + 20 - 600/100 = 44; 5 + 5 - 25/100 = 9.75
	if r.Pos != 44 || r.Neg != 10 || !r.Estimated {
		t.Errorf("ARCT = %+v", r)
	}
	if _, found := out["AWCT"]; found {
		t.Error("AWCT built from an insignificant variant")
	}
	for pattern := range out {
		if pattern[0] == 'N' || pattern[len(pattern)-1] == 'N' {
			t.Errorf("%s has N at an end", pattern)
		}
		if iupac.IsExact(pattern) {
			t.Errorf("%s is not ambiguous", pattern)
		}
	}
}

func TestOneTriplet(t *testing.T) {
	P, N := 50, 50
	tab := enrich.Table{
		"TAT": enrich.NewRecord(20, P, 1, N),
		"TCT": enrich.NewRecord(20, P, 1, N),
		"TGT": enrich.NewRecord(20, P, 1, N),
		"TTT": enrich.NewRecord(20, P, 1, N),
	}
	out := make(enrich.Table)
	One("TAT", tab, out, math.Log(0.01), true)
	if _, found := out["TNT"]; !found {
		t.Error("TNT should be built from A and B")
	}
	if _, found := out["TVT"]; !found {
		t.Error("TVT should be built from A and S")
	}
	// the ends are generalized too, but never to N
	if _, found := out["NAT"]; found {
		t.Error("NAT has N at the start")
	}
}

func TestOneSkipsAmbiguousColumns(t *testing.T) {
	tab := enrich.Table{"RAC": enrich.NewRecord(10, 20, 0, 20)}
	out := make(enrich.Table)
	One("RAC", tab, out, 0, true)
	for pattern := range out {
		if pattern[0] != 'R' {
			t.Errorf("column 0 of RAC was changed: %s", pattern)
		}
	}
}

// plant makes num random sequences, each holding one of words. Without
// words the sequences are free of ACGT.
func plant(r *rand.Rand, num, length int, words ...string) []string {
	ans := make([]string, num)
	b := make([]byte, length)
	var word string
	for i := range ans {
		for {
			for j := range b {
				b[j] = "ACGT"[r.Intn(4)]
			}
			if len(words) > 0 {
				word = words[i%len(words)]
				at := r.Intn(length - len(word) + 1)
				copy(b[at:], word)
				break
			}
			if !match.Compile("ACGT", false).MatchString(string(b)) {
				break
			}
		}
		ans[i] = string(b)
	}
	return ans
}

func newSession(t *testing.T, pos, neg []string) *session.Session {
	cfg := session.Defaults()
	cfg.MinK, cfg.MaxK, cfg.MaxW = 4, 4, 4
	cfg.NGen = 20
	s, err := session.New(cfg, pos, neg, nil)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestGeneralizedPatternsMatchTheirWords(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	pos := plant(r, 40, 12, "ACGT", "ATGT")
	neg := plant(r, 40, 12)
	s := newSession(t, pos, neg)

	tab, err := Cores(s, 4, 4)
	if err != nil {
		t.Fatal(err)
	}
	if r := tab["ACGT"]; r.Pos < 20 || r.Neg != 0 || r.Estimated {
		t.Errorf("ACGT = %+v", r)
	}
	if _, found := tab[iupac.Canonical("AYGT", false)]; !found {
		t.Error("ACGT and ATGT were not generalized to AYGT")
	}
	var generalized int
	for pattern := range tab {
		if iupac.IsExact(pattern) {
			continue
		}
		generalized++
		// a pattern built from ACGT matches ACGT when it covers it
		cover := true
		for i := 0; i < 4; i++ {
			if !iupac.Matches(pattern[i], "ACGT"[i]) {
				cover = false
			}
		}
		if cover && !match.Compile(pattern, false).MatchString("ACGT") {
			t.Errorf("%s covers ACGT but does not match it", pattern)
		}
	}
	if generalized == 0 {
		t.Error("nothing was generalized")
	}
}

func TestAllRecountsTheBest(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	pos := plant(r, 40, 12, "ACGT", "ATGT")
	neg := plant(r, 40, 12)
	s := newSession(t, pos, neg)

	tab, err := Cores(s, 4, 4)
	if err != nil {
		t.Fatal(err)
	}
	generalized := make(enrich.Table)
	for pattern, rec := range tab {
		if !iupac.IsExact(pattern) {
			generalized[pattern] = rec
		}
	}
	// every non-estimated generalized record must equal an exact recount
	var exact int
	for pattern, rec := range generalized {
		if rec.Estimated {
			continue
		}
		exact++
		if want := match.Record(pattern, pos, neg, false); want != rec {
			t.Errorf("%s = %+v, exact recount %+v", pattern, rec, want)
		}
	}
	if exact == 0 || exact > s.NGen {
		t.Errorf("%d generalized records recounted, want 1-%d", exact, s.NGen)
	}
}

func TestAllStopsAtDeadline(t *testing.T) {
	cfg := session.Defaults()
	cfg.MaxTime = 1
	s, err := session.New(cfg, []string{strings.Repeat("ACGT", 5)}, []string{"TTTTTTTT"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	for s.Check() == nil {
	}
	if _, err := Cores(s, 3, 4); !errors.Is(err, session.ErrTimeout) {
		t.Errorf("Cores after deadline: %v", err)
	}
}
