package match

import (
	"runtime"
	"sync"

	"github.com/dasnellings/motifTools/enrich"
)

// Record counts the positive and negative sequences matching pattern and
// scores them.
func Record(pattern string, pos, neg []string, givenOnly bool) enrich.Record {
	m := Compile(pattern, givenOnly)
	return enrich.NewRecord(Count(m, pos), len(pos), Count(m, neg), len(neg))
}

// Records computes Record for every pattern using up to threads goroutines.
// The answer is in the same order as patterns.
func Records(patterns []string, pos, neg []string, givenOnly bool, threads int) []enrich.Record {
	if threads < 1 {
		threads = runtime.NumCPU()
	}
	ans := make([]enrich.Record, len(patterns))
	jobs := make(chan int, threads)
	wg := new(sync.WaitGroup)
	for t := 0; t < threads; t++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				ans[i] = Record(patterns[i], pos, neg, givenOnly)
			}
		}()
	}
	for i := range patterns {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return ans
}
