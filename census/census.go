package census

import (
	"runtime"
	"sync"

	"github.com/dasnellings/motifTools/enrich"
	"github.com/dasnellings/motifTools/iupac"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Count is the number of sequences containing a word. Last is the index of
// the last sequence counted, so a sequence is only counted once.
type Count struct {
	Seqs int
	Last int
}

// Words tallies, for every word of width minW to maxW, the number of
// sequences containing it at least once. Unless givenOnly is set a word and
// its reverse complement share the canonical key. Words with a letter other
// than A, C, G or T are skipped.
func Words(seqs []string, minW, maxW int, givenOnly bool) map[string]*Count {
	ans := make(map[string]*Count)
	var word string
	var c *Count
	var found bool
	for w := minW; w <= maxW; w++ {
		for seqNo := range seqs {
			s := seqs[seqNo]
			for i := 0; i+w <= len(s); i++ {
				word = s[i : i+w]
				if !iupac.IsExact(word) {
					continue
				}
				word = iupac.Canonical(word, givenOnly)
				if c, found = ans[word]; !found {
					ans[word] = &Count{Seqs: 1, Last: seqNo}
					continue
				}
				if c.Last < seqNo {
					c.Seqs++
					c.Last = seqNo
				}
			}
		}
	}
	return ans
}

// Apply scores every word seen in the positives against its count in the
// negatives. P and N are the sizes of the two sets.
func Apply(pos, neg map[string]*Count, P, N, threads int) enrich.Table {
	if threads < 1 {
		threads = runtime.NumCPU()
	}
	words := maps.Keys(pos)
	slices.Sort(words)
	records := make([]enrich.Record, len(words))

	chunk := (len(words) + threads - 1) / threads
	wg := new(sync.WaitGroup)
	for start := 0; start < len(words); start += chunk {
		end := start + chunk
		if end > len(words) {
			end = len(words)
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			var n int
			for i := start; i < end; i++ {
				n = 0
				if c, found := neg[words[i]]; found {
					n = c.Seqs
				}
				records[i] = enrich.NewRecord(pos[words[i]].Seqs, P, n, N)
			}
		}(start, end)
	}
	wg.Wait()

	ans := make(enrich.Table, len(words))
	for i := range words {
		ans[words[i]] = records[i]
	}
	return ans
}
