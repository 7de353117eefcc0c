// Package enrich scores how strongly a pattern is over-represented in the
// positive sequences and keeps the per-pattern results.
package enrich

import (
	"errors"
	"fmt"
	"math"

	"github.com/vertgenlab/gonomics/exception"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/combin"
)

var ErrInvalidCounts = errors.New("invalid enrichment counts")

// Score returns the natural log of the one-sided hypergeometric p-value that
// P positives contain at least p successes given n successes among N
// negatives. Counts that are not enriched (p*N <= n*P) have p-value 1
// and the tail is never computed for them. Any arithmetic failure is fatal.
func Score(p, P, n, N int) float64 {
	ans, err := LogPValue(p, P, n, N)
	exception.PanicOnErr(err)
	return ans
}

// LogPValue is Score with the failure returned instead of raised.
func LogPValue(p, P, n, N int) (float64, error) {
	if p < 0 || n < 0 || p > P || n > N {
		return 0, fmt.Errorf("%w: p=%d P=%d n=%d N=%d", ErrInvalidCounts, p, P, n, N)
	}
	if p*N <= n*P {
		return 0, nil
	}
	ans := logHypergeometricTail(p, P, p+n, P+N)
	if math.IsNaN(ans) || math.IsInf(ans, 1) {
		return 0, fmt.Errorf("%w: tail diverged for p=%d P=%d n=%d N=%d", ErrInvalidCounts, p, P, n, N)
	}
	if ans > 0 {
		ans = 0
	}
	return ans, nil
}

// logHypergeometricTail is log Pr(X >= k) for X the number of successes in
// draws items taken from a population of total holding successes.
func logHypergeometricTail(k, draws, successes, total int) float64 {
	hi := draws
	if successes < hi {
		hi = successes
	}
	lo := k
	if failures := total - successes; draws-failures > lo {
		lo = draws - failures
	}
	if lo > hi {
		return math.Inf(-1)
	}
	denom := combin.LogGeneralizedBinomial(float64(total), float64(draws))
	terms := make([]float64, 0, hi-lo+1)
	for x := lo; x <= hi; x++ {
		terms = append(terms, combin.LogGeneralizedBinomial(float64(successes), float64(x))+
			combin.LogGeneralizedBinomial(float64(total-successes), float64(draws-x))-denom)
	}
	return floats.LogSumExp(terms)
}

var log10 = math.Log(10)

// FormatLog prints x given log(x), so values far below the smallest float64
// are still shown, e.g. "3.2e-045".
func FormatLog(logx float64) string {
	if math.IsInf(logx, -1) {
		return "0.0e+000"
	}
	log10x := logx / log10
	e := math.Floor(log10x)
	m := math.Pow(10, log10x-e)
	if m+0.05 >= 10 {
		m = 1
		e++
	}
	return fmt.Sprintf("%3.1fe%+04.0f", m, e)
}
