// Package shuffle makes negative sequences by shuffling positives while
// keeping their dinucleotide counts (Altschul and Erickson, 1985).
package shuffle

import (
	"math/rand"

	"github.com/vertgenlab/gonomics/dna"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Dinucleotide returns a random permutation of seq with the same first and
// last base and the same count of every pair of adjacent bases.
func Dinucleotide(seq []dna.Base, r *rand.Rand) []dna.Base {
	ans := make([]dna.Base, len(seq))
	copy(ans, seq)
	if len(seq) < 3 {
		return ans
	}

	// STEP 1: build the edge list of every base
	edges := make(map[dna.Base][]dna.Base)
	for i := 0; i+1 < len(seq); i++ {
		edges[seq[i]] = append(edges[seq[i]], seq[i+1])
	}
	vertices := maps.Keys(edges)
	slices.Sort(vertices)
	last := seq[len(seq)-1]

	// STEP 2: choose a last edge out of every vertex so that they form a
	// tree rooted at the final base
	lastEdge := make(map[dna.Base]int, len(vertices))
	for {
		for _, v := range vertices {
			if v != last {
				lastEdge[v] = r.Intn(len(edges[v]))
			}
		}
		if rooted(edges, lastEdge, vertices, last) {
			break
		}
	}

	// STEP 3: shuffle the other edges and put the last edge at the end
	var e []dna.Base
	for _, v := range vertices {
		e = edges[v]
		if v != last {
			j := lastEdge[v]
			e[j], e[len(e)-1] = e[len(e)-1], e[j]
			e = e[:len(e)-1]
		}
		r.Shuffle(len(e), func(i, j int) {
			e[i], e[j] = e[j], e[i]
		})
	}

	// STEP 4: walk the edges from the first base
	next := make(map[dna.Base]int, len(vertices))
	var v dna.Base
	for i := 1; i < len(seq); i++ {
		v = ans[i-1]
		ans[i] = edges[v][next[v]]
		next[v]++
	}
	return ans
}

// rooted reports whether following last edges from every vertex reaches
// last without a cycle.
func rooted(edges map[dna.Base][]dna.Base, lastEdge map[dna.Base]int, vertices []dna.Base, last dna.Base) bool {
	var u dna.Base
	var steps int
	for _, v := range vertices {
		for u, steps = v, 0; u != last; steps++ {
			if steps > len(vertices) {
				return false
			}
			u = edges[u][lastEdge[u]]
		}
	}
	return true
}

// Strings shuffles every sequence of seqs with a generator seeded by seed,
// so the same input and seed always give the same output.
func Strings(seqs []string, seed int64) []string {
	r := rand.New(rand.NewSource(seed))
	ans := make([]string, len(seqs))
	for i := range seqs {
		ans[i] = dna.BasesToString(Dinucleotide(dna.StringToBases(seqs[i]), r))
	}
	return ans
}
