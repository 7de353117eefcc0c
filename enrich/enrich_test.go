package enrich

import (
	"errors"
	"math"
	"testing"
)

func TestScoreNotEnriched(t *testing.T) {
	for P := 1; P <= 12; P++ {
		for N := 1; N <= 12; N++ {
			for p := 0; p <= P; p++ {
				for n := 0; n <= N; n++ {
					if p*N > n*P {
						continue
					}
					if got := Score(p, P, n, N); got != 0 {
						t.Fatalf("Score(%d,%d,%d,%d) = %g, want 0", p, P, n, N, got)
					}
				}
			}
		}
	}
}

func TestScoreKnownValues(t *testing.T) {
	// 5 of 5 positives and 0 of 5 negatives: 1/C(10,5)
	got := Score(5, 5, 0, 5)
	want := -math.Log(252)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Score(5,5,0,5) = %g, want %g", got, want)
	}

	// 2 of 2 positives, 0 of 2 negatives: 1/C(4,2)
	got = Score(2, 2, 0, 2)
	want = -math.Log(6)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Score(2,2,0,2) = %g, want %g", got, want)
	}

	// 2 of 2 positives, 1 of 2 negatives: Pr(X>=2), X ~ HG(4,3,2) = C(3,2)/C(4,2)
	got = Score(2, 2, 1, 2)
	want = math.Log(3.0 / 6.0)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Score(2,2,1,2) = %g, want %g", got, want)
	}
}

func TestScoreMonotone(t *testing.T) {
	prev := 0.0
	for p := 26; p <= 50; p++ {
		curr := Score(p, 50, 25, 50)
		if curr > prev {
			t.Errorf("Score(%d,50,25,50) = %g larger than for p-1 (%g)", p, curr, prev)
		}
		prev = curr
	}
}

func TestScoreLargeCountsFinite(t *testing.T) {
	got := Score(5000, 5000, 0, 5000)
	if math.IsInf(got, 0) || math.IsNaN(got) || got > -3000 {
		t.Errorf("Score(5000,5000,0,5000) = %g", got)
	}
}

func TestLogPValueInvalid(t *testing.T) {
	if _, err := LogPValue(6, 5, 0, 5); !errors.Is(err, ErrInvalidCounts) {
		t.Errorf("expected ErrInvalidCounts, got %v", err)
	}
}

func TestFormatLog(t *testing.T) {
	var tests = []struct {
		x    float64
		want string
	}{
		{math.Log(0.05), "5.0e-002"},
		{math.Log(1), "1.0e+000"},
		{math.Log(3.2e-45), "3.2e-045"},
		{-1000 * math.Log(10), "1.0e-1000"},
	}
	for _, test := range tests {
		if got := FormatLog(test.x); got != test.want {
			t.Errorf("FormatLog(%g) = %q, want %q", test.x, got, test.want)
		}
	}
}

func TestSortedTotalOrder(t *testing.T) {
	tab := Table{
		"CCC": {LogPValue: -2},
		"AAA": {LogPValue: -2},
		"GGG": {LogPValue: -5},
		"TTA": {LogPValue: 0},
	}
	got := tab.Sorted()
	want := []string{"GGG", "AAA", "CCC", "TTA"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Sorted() = %v, want %v", got, want)
		}
	}
	if top := tab.Top(2); len(top) != 2 || top[1] != "AAA" {
		t.Errorf("Top(2) = %v", top)
	}
	best, ok := tab.Best(func(k string) bool { return k != "GGG" })
	if !ok || best != "AAA" {
		t.Errorf("Best = %q, %v", best, ok)
	}
}
