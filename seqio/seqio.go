// Package seqio reads and writes the FASTA files given to motif discovery.
package seqio

import (
	"strings"

	"github.com/dasnellings/motifTools/iupac"
	"github.com/vertgenlab/gonomics/dna"
	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fasta"
	"github.com/vertgenlab/gonomics/fileio"
)

// Seq is a named sequence over ACGTN.
type Seq struct {
	Name string
	Seq  string
}

// Read parses a FASTA file, plain or gzipped. Sequences are upper-cased,
// U becomes T and every other letter outside ACGT becomes N. Text before
// the first header is ignored.
func Read(filename string) []Seq {
	file := fileio.EasyOpen(filename)
	var answer []Seq
	var curr *strings.Builder
	var name, line string
	var done bool
	flush := func() {
		if curr != nil {
			answer = append(answer, Seq{Name: name, Seq: iupac.Collapse(curr.String())})
		}
	}
	for line, done = fileio.EasyNextRealLine(file); !done; line, done = fileio.EasyNextRealLine(file) {
		if strings.HasPrefix(line, ">") {
			flush()
			name = strings.TrimSpace(line[1:])
			curr = new(strings.Builder)
			continue
		}
		if curr != nil {
			curr.WriteString(strings.TrimSpace(line))
		}
	}
	flush()

	err := file.Close()
	exception.PanicOnErr(err)
	return answer
}

// Strings returns the sequences of seqs without their names.
func Strings(seqs []Seq) []string {
	ans := make([]string, len(seqs))
	for i := range seqs {
		ans[i] = seqs[i].Seq
	}
	return ans
}

// Write writes seqs to a FASTA file.
func Write(filename string, seqs []Seq) {
	recs := make([]fasta.Fasta, len(seqs))
	for i := range seqs {
		recs[i] = fasta.Fasta{Name: seqs[i].Name, Seq: dna.StringToBases(seqs[i].Seq)}
	}
	fasta.Write(filename, recs)
}
