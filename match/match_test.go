package match

import (
	"testing"

	"github.com/dasnellings/motifTools/iupac"
)

func TestCompileBothStrands(t *testing.T) {
	m := Compile("AAAC", false)
	if !m.MatchString("CCGTTTCC") {
		t.Error("reverse complement GTTT should match")
	}
	if Compile("AAAC", true).MatchString("CCGTTTCC") {
		t.Error("given strand matcher should not match GTTT")
	}
	if !Compile("RAC", true).MatchString("TTGACTT") {
		t.Error("R should match G")
	}
	if Compile("ANC", true).MatchString("ANC") {
		t.Error("pattern N must not match a sequence N")
	}
}

func TestCount(t *testing.T) {
	seqs := []string{"ACGTACGT", "TTTT", "GACGTC", "NNNN"}
	if got := Count(Compile("ACGT", false), seqs); got != 2 {
		t.Errorf("Count = %d, want 2", got)
	}
}

func TestAlignTurnsToGivenStrand(t *testing.T) {
	seqs := []string{"CCAAACGG", "GGGTTTCC"}
	aln := Align("AAAC", seqs, false)
	if len(aln) != 2 {
		t.Fatalf("Align = %v", aln)
	}
	for _, a := range aln {
		if a != "AAAC" {
			t.Errorf("aligned %q, want AAAC", a)
		}
	}
	if aln := Align("AAAC", seqs, true); len(aln) != 1 {
		t.Errorf("given strand alignment = %v", aln)
	}
}

func TestAlignNonOverlapping(t *testing.T) {
	aln := Align("AAA", []string{"AAAAAAA"}, true)
	if len(aln) != 2 {
		t.Errorf("Align = %v, want two non-overlapping matches", aln)
	}
}

func TestBestOffset(t *testing.T) {
	seqs := []string{"GATTT", "TGATT", "TGATT", "TTTGA"}
	if got := BestOffset("GA", seqs); got != 1 {
		t.Errorf("BestOffset = %d, want 1", got)
	}
	// ties go to the larger offset
	if got := BestOffset("GA", []string{"GAT", "TGA"}); got != 1 {
		t.Errorf("BestOffset with tie = %d, want 1", got)
	}
}

func TestEraseFixedPoint(t *testing.T) {
	seqs := []string{"TTACGTTT", "GGGTCCAAAC", "ACGTACGT"}
	Erase("ACGT", seqs, false)
	if seqs[0] != "TTNNNNTT" || seqs[2] != "NNNNNNNN" {
		t.Errorf("after erase: %v", seqs)
	}
	once := append([]string(nil), seqs...)
	Erase("ACGT", seqs, false)
	for i := range seqs {
		if seqs[i] != once[i] {
			t.Errorf("second erase changed %q to %q", once[i], seqs[i])
		}
	}
}

func TestEraseBothStrands(t *testing.T) {
	seqs := []string{"CCGTTTCC"}
	Erase("AAAC", seqs, false)
	if seqs[0] != "CCNNNNCC" {
		t.Errorf("erase = %q", seqs[0])
	}
}

func TestGeneralizedPatternMatchesWord(t *testing.T) {
	word := "ACGTAC"
	for i := 0; i < len(word); i++ {
		for j := 0; j < len(iupac.Ambigs); j++ {
			c := iupac.Ambigs[j]
			if !iupac.Matches(c, word[i]) {
				continue
			}
			pattern := word[:i] + string(c) + word[i+1:]
			if !Compile(pattern, false).MatchString(word) {
				t.Errorf("%s does not match %s", pattern, word)
			}
		}
	}
}

func TestRecords(t *testing.T) {
	pos := []string{"ACGTT", "TACGT", "AAAAA"}
	neg := []string{"CCCCC", "GGGGG", "TTTTT"}
	patterns := []string{"ACGT", "AAAA", "CCCC"}
	recs := Records(patterns, pos, neg, false, 2)
	if recs[0].Pos != 2 || recs[0].Neg != 0 {
		t.Errorf("ACGT = %+v", recs[0])
	}
	// TTTTT contains AAAA on the reverse strand
	if recs[1].Pos != 1 || recs[1].Neg != 1 {
		t.Errorf("AAAA = %+v", recs[1])
	}
	if recs[2].Pos != 0 || recs[2].Neg != 2 || recs[2].LogPValue != 0 {
		t.Errorf("CCCC = %+v", recs[2])
	}
}

func TestWhole(t *testing.T) {
	var tests = []struct {
		pattern, s string
		want       bool
	}{
		{"ACGN", "ACGT", true},
		{"ACGN", "ACGR", false},
		{"ACGN", "ACGTA", false},
		{"ACGN", "TACG", false},
		{"RYN", "GTA", true},
	}
	for _, test := range tests {
		if got := Whole(test.pattern).MatchString(test.s); got != test.want {
			t.Errorf("Whole(%s).MatchString(%s) = %v, want %v", test.pattern, test.s, got, test.want)
		}
	}
}
