package enrich

import (
	"math"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Provenance tells how a record's counts were obtained.
type Provenance int

const (
	// Pattern records count sequences matched by the pattern itself.
	Pattern Provenance = iota
	// Consensus records count sequences with a site within Distance
	// mismatches of the pattern.
	Consensus
)

func (p Provenance) String() string {
	if p == Consensus {
		return "consensus"
	}
	return "RE"
}

// Record holds the enrichment of one pattern.
type Record struct {
	Pos       int // positive sequences matching
	PosTotal  int
	Neg       int // negative sequences matching
	NegTotal  int
	LogPValue float64

	Provenance Provenance
	Distance   int // Hamming distance; meaningful for Consensus records only

	// Estimated records carry counts approximated by generalization and
	// must be recounted before they are reported.
	Estimated bool
}

// NewRecord scores the counts and returns a pattern record.
func NewRecord(p, P, n, N int) Record {
	return Record{Pos: p, PosTotal: P, Neg: n, NegTotal: N, LogPValue: Score(p, P, n, N)}
}

// NewConsensusRecord scores the counts of sites within dist mismatches.
func NewConsensusRecord(p, P, n, N, dist int) Record {
	r := NewRecord(p, P, n, N)
	r.Provenance = Consensus
	r.Distance = dist
	return r
}

// Table maps canonical patterns to their records.
type Table map[string]Record

// Less is the total order used for every ranking: p-value first, then
// pattern.
func Less(t Table, a, b string) bool {
	return compare(t[a].LogPValue, t[b].LogPValue, a, b) < 0
}

func compare(pa, pb float64, a, b string) int {
	switch {
	case pa < pb:
		return -1
	case pa > pb:
		return 1
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Sorted returns the table keys ordered by increasing p-value.
func (t Table) Sorted() []string {
	keys := maps.Keys(t)
	slices.SortFunc(keys, func(a, b string) int {
		return compare(t[a].LogPValue, t[b].LogPValue, a, b)
	})
	return keys
}

// Top returns at most k keys with the smallest p-values.
func (t Table) Top(k int) []string {
	keys := t.Sorted()
	if len(keys) > k {
		keys = keys[:k]
	}
	return keys
}

// Best returns the key with the smallest p-value among the keys accepted by
// keep (nil keeps everything).
func (t Table) Best(keep func(string) bool) (string, bool) {
	var best string
	var found bool
	bestP := math.Inf(1)
	for key, r := range t {
		if keep != nil && !keep(key) {
			continue
		}
		if !found || compare(r.LogPValue, bestP, key, best) < 0 {
			best, bestP, found = key, r.LogPValue, true
		}
	}
	return best, found
}

// Merge copies every record of src into t, overwriting existing keys.
func (t Table) Merge(src Table) {
	maps.Copy(t, src)
}
