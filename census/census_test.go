package census

import (
	"math/rand"
	"testing"
)

func randomSeqs(r *rand.Rand, num, length int) []string {
	ans := make([]string, num)
	b := make([]byte, length)
	for i := range ans {
		for j := range b {
			b[j] = "ACGT"[r.Intn(4)]
		}
		ans[i] = string(b)
	}
	return ans
}

func TestWordsPresenceNotOccurrence(t *testing.T) {
	seqs := []string{"ACGTACGTACGT", "TTTTACGT", "CCCC"}
	counts := Words(seqs, 4, 4, false)
	if c := counts["ACGT"]; c == nil || c.Seqs != 2 {
		t.Errorf("ACGT counted in %v sequences, want 2", c)
	}
	// AAAA is the canonical form of TTTT
	if c := counts["AAAA"]; c == nil || c.Seqs != 1 {
		t.Errorf("AAAA/TTTT counted in %v sequences, want 1", c)
	}
	if _, found := counts["TTTT"]; found {
		t.Error("TTTT should be stored under its canonical key AAAA")
	}
}

func TestWordsGivenStrand(t *testing.T) {
	counts := Words([]string{"TTTT"}, 4, 4, true)
	if _, found := counts["TTTT"]; !found {
		t.Error("given strand count should keep TTTT as is")
	}
	if _, found := counts["AAAA"]; found {
		t.Error("given strand count should not fold TTTT to AAAA")
	}
}

func TestWordsSkipAmbiguous(t *testing.T) {
	counts := Words([]string{"ACNGT"}, 2, 3, false)
	for w := range counts {
		for i := 0; i < len(w); i++ {
			if w[i] == 'N' {
				t.Errorf("word %q with N was counted", w)
			}
		}
	}
	if _, found := counts["AC"]; !found {
		t.Error("AC should be counted")
	}
}

func TestWordsBoundedBySetSize(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	seqs := randomSeqs(r, 40, 60)
	wide := Words(seqs, 3, 6, false)
	narrow := Words(seqs, 4, 4, false)
	for w, c := range wide {
		if c.Seqs > len(seqs) {
			t.Fatalf("%s counted in %d of %d sequences", w, c.Seqs, len(seqs))
		}
		if len(w) == 4 && narrow[w].Seqs != c.Seqs {
			t.Errorf("%s: width range 3-6 gave %d, width 4 alone gave %d", w, c.Seqs, narrow[w].Seqs)
		}
	}
}

func TestApply(t *testing.T) {
	pos := Words([]string{"AAACGTT", "ACGTCCC", "GGACGTG"}, 4, 4, false)
	neg := Words([]string{"CCCCCCC", "GGGGGGG", "ACGTTTT"}, 4, 4, false)
	tab := Apply(pos, neg, 3, 3, 2)
	r, found := tab["ACGT"]
	if !found {
		t.Fatal("ACGT not scored")
	}
	if r.Pos != 3 || r.Neg != 1 || r.PosTotal != 3 || r.NegTotal != 3 {
		t.Errorf("ACGT record = %+v", r)
	}
	if r.LogPValue >= 0 {
		t.Errorf("ACGT should be enriched, log p = %g", r.LogPValue)
	}
	if len(tab) != len(pos) {
		t.Errorf("Apply scored %d words, want %d", len(tab), len(pos))
	}
}
