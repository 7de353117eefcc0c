package shuffle

import (
	"math/rand"
	"testing"

	"github.com/vertgenlab/gonomics/dna"
)

func pairs(s string) map[string]int {
	ans := make(map[string]int)
	for i := 0; i+1 < len(s); i++ {
		ans[s[i:i+2]]++
	}
	return ans
}

func TestDinucleotideKeepsPairs(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	seqs := []string{
		"ACGTACGTTTGACCANNAGT",
		"AAAAAAAAAACCCCCCCCCC",
		"GATTACAGATTACAGATTACA",
		"ACGTNACGTN",
	}
	for _, s := range seqs {
		for k := 0; k < 20; k++ {
			got := dna.BasesToString(Dinucleotide(dna.StringToBases(s), r))
			if len(got) != len(s) || got[0] != s[0] || got[len(got)-1] != s[len(s)-1] {
				t.Fatalf("shuffle of %s = %s", s, got)
			}
			want := pairs(s)
			have := pairs(got)
			if len(want) != len(have) {
				t.Fatalf("shuffle of %s = %s changed the pairs", s, got)
			}
			for p, n := range want {
				if have[p] != n {
					t.Fatalf("shuffle of %s = %s has %d %s, want %d", s, got, have[p], p, n)
				}
			}
		}
	}
}

func TestDinucleotideShortSequences(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for _, s := range []string{"", "A", "AC"} {
		if got := dna.BasesToString(Dinucleotide(dna.StringToBases(s), r)); got != s {
			t.Errorf("shuffle of %q = %q", s, got)
		}
	}
}

func TestStringsIsRepeatable(t *testing.T) {
	seqs := []string{"ACGTTGCAACGTAGCTAGCTAGGATCCA", "TTTTGGGGCCCCAAAATGCA"}
	a := Strings(seqs, 3)
	b := Strings(seqs, 3)
	for i := range seqs {
		if a[i] != b[i] {
			t.Errorf("seed 3 gave %s then %s", a[i], b[i])
		}
	}
}
