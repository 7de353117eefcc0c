// Package pwm builds position weight matrices from aligned motif matches.
package pwm

import (
	"math"
	"strings"

	"github.com/dasnellings/motifTools/iupac"
	"gonum.org/v1/gonum/stat"
)

// Alphabet is the column order of every matrix row.
const Alphabet = iupac.Bases

func index(b byte) int {
	return strings.IndexByte(Alphabet, b)
}

// PWM holds per-position letter frequencies.
type PWM struct {
	Freq   [][4]float64
	Counts [][4]int
	Sites  int
}

// FromAlignment counts the bases in each column of aln, which must hold
// strings of equal length. Non-ACGT letters are not counted. The pseudo
// count is spread evenly over the four letters.
func FromAlignment(aln []string, pseudo float64) *PWM {
	if len(aln) == 0 {
		return &PWM{}
	}
	w := len(aln[0])
	m := &PWM{
		Freq:   make([][4]float64, w),
		Counts: make([][4]int, w),
		Sites:  len(aln),
	}
	var j int
	for _, s := range aln {
		for i := 0; i < w && i < len(s); i++ {
			if j = index(s[i]); j >= 0 {
				m.Counts[i][j]++
			}
		}
	}
	var total int
	for i := range m.Counts {
		total = 0
		for j = range m.Counts[i] {
			total += m.Counts[i][j]
		}
		for j = range m.Counts[i] {
			if float64(total)+pseudo == 0 {
				m.Freq[i][j] = 0.25
				continue
			}
			m.Freq[i][j] = (float64(m.Counts[i][j]) + pseudo/4) / (float64(total) + pseudo)
		}
	}
	return m
}

// Width is the number of columns.
func (m *PWM) Width() int {
	return len(m.Freq)
}

// ReverseComplement returns the matrix of the opposite strand.
func (m *PWM) ReverseComplement() *PWM {
	w := m.Width()
	rc := &PWM{
		Freq:   make([][4]float64, w),
		Counts: make([][4]int, w),
		Sites:  m.Sites,
	}
	for i := 0; i < w; i++ {
		for j := 0; j < 4; j++ {
			rc.Freq[w-1-i][3-j] = m.Freq[i][j]
			rc.Counts[w-1-i][3-j] = m.Counts[i][j]
		}
	}
	return rc
}

// ConsensusSequence returns the most frequent base of every column, with
// ties to the first in alphabet order. Columns with no counted base are N.
func (m *PWM) ConsensusSequence() string {
	ans := make([]byte, m.Width())
	var best int
	for i := range m.Counts {
		best = 0
		for j := 1; j < 4; j++ {
			if m.Counts[i][j] > m.Counts[i][best] {
				best = j
			}
		}
		if m.Counts[i][best] == 0 {
			ans[i] = 'N'
		} else {
			ans[i] = Alphabet[best]
		}
	}
	return string(ans)
}

// Observed returns, per column, the bases seen at least once in
// alphabetical order.
func (m *PWM) Observed() []string {
	ans := make([]string, m.Width())
	var sb strings.Builder
	for i := range m.Counts {
		sb.Reset()
		for j := 0; j < 4; j++ {
			if m.Counts[i][j] > 0 {
				sb.WriteByte(Alphabet[j])
			}
		}
		ans[i] = sb.String()
	}
	return ans
}

// Specialize narrows every letter of pattern to the IUPAC letter for the
// bases observed in its column. Columns with nothing observed keep their
// letter.
func (m *PWM) Specialize(pattern string) string {
	ans := []byte(pattern)
	for i, bases := range m.Observed() {
		if i >= len(ans) {
			break
		}
		if c, found := iupac.FromBases(bases); found {
			ans[i] = c
		}
	}
	return string(ans)
}

// InformationContent returns the bits of information in every column.
func (m *PWM) InformationContent() []float64 {
	ans := make([]float64, m.Width())
	for i := range m.Freq {
		ans[i] = 2 - stat.Entropy(m.Freq[i][:])/math.Ln2
	}
	return ans
}

// LogOdds returns 100 times the log2 ratio of every frequency to the
// background, rounded. Zero frequencies get the given floor.
func (m *PWM) LogOdds(bg [4]float64, floor int) [][4]int {
	ans := make([][4]int, m.Width())
	for i := range m.Freq {
		for j := 0; j < 4; j++ {
			if m.Freq[i][j] == 0 || bg[j] == 0 {
				ans[i][j] = floor
				continue
			}
			ans[i][j] = int(math.Round(100 * math.Log2(m.Freq[i][j]/bg[j])))
		}
	}
	return ans
}

// Background returns the letter frequencies of seqs with one added count
// per letter. Non-ACGT letters are ignored.
func Background(seqs []string) [4]float64 {
	counts := [4]float64{1, 1, 1, 1}
	total := 4.0
	var j int
	for _, s := range seqs {
		for i := 0; i < len(s); i++ {
			if j = index(s[i]); j >= 0 {
				counts[j]++
				total++
			}
		}
	}
	for j = range counts {
		counts[j] /= total
	}
	return counts
}
