// Package report writes the results of motif discovery: an XML report, a
// MEME-style text file, optional logos, and a listing of every scored word.
package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dasnellings/motifTools/discover"
	"github.com/dasnellings/motifTools/enrich"
	"github.com/dasnellings/motifTools/iupac"
	"github.com/dasnellings/motifTools/pwm"
	"github.com/dasnellings/motifTools/session"
	"github.com/guptarohit/asciigraph"
	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
)

// File names written to the output directory.
const (
	XMLFile  = "motifs.xml"
	TextFile = "motifs.txt"
)

// Model describes the inputs of a run.
type Model struct {
	CommandLine string
	PosFile     string
	PosCount    int
	NegFile     string // empty when the negatives are shuffled positives
	NegCount    int
	Background  [4]float64
	Config      session.Config
	Description string
	Host        string
	When        time.Time
}

// NewModel fills in the host and time of a run.
func NewModel(commandLine, posFile, negFile string, s *session.Session) Model {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	return Model{
		CommandLine: commandLine,
		PosFile:     posFile,
		PosCount:    len(s.UnerasedPos),
		NegFile:     negFile,
		NegCount:    len(s.UnerasedNeg),
		Background:  pwm.Background(s.UnerasedNeg),
		Config:      s.Config,
		Host:        host,
		When:        s.Start,
	}
}

// Writer is a discover.Emitter that writes each motif to the text report
// and its logos as it is found. The XML report is written by Close.
type Writer struct {
	dir   string
	model Model
	logos LogoWriter
	txt   *fileio.EasyWriter
	doc   xmlReport
}

// New creates the text report in dir and writes its header.
func New(dir string, model Model, logos LogoWriter) *Writer {
	if logos == nil {
		logos = NoLogos{}
	}
	w := &Writer{
		dir:   dir,
		model: model,
		logos: logos,
		txt:   fileio.EasyCreate(filepath.Join(dir, TextFile)),
		doc:   xmlReport{Version: Version, Model: newXMLModel(model)},
	}
	writeTextHeader(w.txt, model)
	return w
}

// Emit writes m to the text report and draws its logos.
func (w *Writer) Emit(m *discover.Motif) error {
	p := pwm.FromAlignment(m.Aln, 0)
	w.doc.Motifs = append(w.doc.Motifs, newXMLMotif(m, p))
	if err := writeTextMotif(w.txt, m, p, pwm.FromAlignment(m.Aln, 1), w.model.Background); err != nil {
		return err
	}
	if err := w.logos.EmitLogo(p, m.Index, m.Pattern, false); err != nil {
		return err
	}
	return w.logos.EmitLogo(p.ReverseComplement(), m.Index, m.RC, true)
}

// Close writes the XML report for res and closes the text report.
func (w *Writer) Close(res *discover.Result, elapsed time.Duration) error {
	w.doc.RunTime = xmlRunTime{
		CPU:  fmt.Sprintf("%.2f", cpuSeconds()),
		Real: fmt.Sprintf("%.2f", elapsed.Seconds()),
		Stop: string(res.Stop),
	}
	out := fileio.EasyCreate(filepath.Join(w.dir, XMLFile))
	err := writeXML(out, &w.doc)
	exception.PanicOnErr(out.Close())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w.txt, "# Stopped because %s. %d motifs found in %.1f seconds.\n",
		describeStop(res.Stop), len(res.Motifs), elapsed.Seconds())
	exception.PanicOnErr(w.txt.Close())
	return err
}

func describeStop(s discover.Stop) string {
	switch s {
	case discover.StopCount:
		return "the maximum number of motifs was found"
	case discover.StopTime:
		return "the time limit was reached"
	}
	return "the next motif was not significant"
}

func writeTextHeader(out io.Writer, model Model) {
	var err error
	_, err = fmt.Fprintf(out, "MEME version 4\n\nALPHABET= %s\n\n", pwm.Alphabet)
	exception.PanicOnErr(err)
	strands := "+ -"
	if model.Config.GivenOnly {
		strands = "+"
	}
	_, err = fmt.Fprintf(out, "strands: %s\n\nBackground letter frequencies (from %s):\n", strands, negativesName(model))
	exception.PanicOnErr(err)
	for j := range model.Background {
		_, err = fmt.Fprintf(out, "%c %.3f ", pwm.Alphabet[j], model.Background[j])
		exception.PanicOnErr(err)
	}
	_, err = fmt.Fprint(out, "\n\n")
	exception.PanicOnErr(err)
}

func negativesName(model Model) string {
	if model.NegFile == "" {
		return "shuffled positive sequences"
	}
	return model.NegFile
}

// writeTextMotif writes the components, the letter-probability matrix of p
// and the log-odds matrix of smooth against bg.
func writeTextMotif(out io.Writer, m *discover.Motif, p, smooth *pwm.PWM, bg [4]float64) error {
	e := enrich.FormatLog(m.LogEValue)
	b := new(strings.Builder)
	fmt.Fprintf(b, "MOTIF %s %s\n\n", m.Pattern, m.RC)
	fmt.Fprintf(b, "# %-10s %12s %12s %8s %8s %10s %10s\n", "", "Word", "RC Word", "Pos", "Neg", "P-value", "E-value")
	fmt.Fprintf(b, "# %-10s %12s %12s %8d %8d %10s %10s\n", "BEST", m.Pattern, m.RC,
		m.Record.Pos, m.Record.Neg, enrich.FormatLog(m.Record.LogPValue), e)
	for _, c := range m.Components {
		fmt.Fprintf(b, "# %-10s %12s %12s %8d %8d %10s %10s\n", "", c.Pattern, iupac.ReverseComplement(c.Pattern),
			c.Record.Pos, c.Record.Neg, enrich.FormatLog(c.Record.LogPValue), enrich.FormatLog(c.LogEValue))
	}

	fmt.Fprintf(b, "\nletter-probability matrix: alength= 4 w= %d nsites= %d E= %s\n", p.Width(), p.Sites, e)
	for i := range p.Freq {
		fmt.Fprintf(b, " %8.6f %8.6f %8.6f %8.6f\n", p.Freq[i][0], p.Freq[i][1], p.Freq[i][2], p.Freq[i][3])
	}

	fmt.Fprintf(b, "\nlog-odds matrix: alength= 4 w= %d n= %d bayes= 0 E= %s\n", smooth.Width(), smooth.Sites, e)
	for _, row := range smooth.LogOdds(bg, -1000) {
		fmt.Fprintf(b, " %6d %6d %6d %6d\n", row[0], row[1], row[2], row[3])
	}

	if ic := p.InformationContent(); len(ic) > 1 {
		b.WriteString("\n")
		graph := asciigraph.Plot(ic, asciigraph.Height(4), asciigraph.Precision(1),
			asciigraph.Caption("information content (bits)"))
		for _, line := range strings.Split(graph, "\n") {
			fmt.Fprintf(b, "# %s\n", line)
		}
	}
	b.WriteString("\n")
	_, err := io.WriteString(out, b.String())
	return err
}

// lowerAmbigs makes ambiguity letters lower case so they stand out.
func lowerAmbigs(pattern string) string {
	return strings.Map(func(r rune) rune {
		if r < 128 && !iupac.IsBase(byte(r)) {
			return r - 'A' + 'a'
		}
		return r
	}, pattern)
}

// WriteListing writes every record of table in ranking order with its
// reverse complement, counts, p-value and E-value.
func WriteListing(out io.Writer, table enrich.Table) error {
	logSize := math.Log(float64(len(table)))
	b := new(strings.Builder)
	b.WriteString("# WORD\tRC_WORD\tp\tP\tn\tN\tp-value\tE-value\n")
	var r enrich.Record
	for _, word := range table.Sorted() {
		r = table[word]
		fmt.Fprintf(b, "%s %s %6d %6d %6d %6d %s %s", lowerAmbigs(word), lowerAmbigs(iupac.ReverseComplement(word)),
			r.Pos, r.PosTotal, r.Neg, r.NegTotal, enrich.FormatLog(r.LogPValue), enrich.FormatLog(r.LogPValue+logSize))
		if r.Provenance == enrich.Consensus {
			fmt.Fprintf(b, " distance= %d", r.Distance)
		}
		b.WriteString("\n")
	}
	_, err := io.WriteString(out, b.String())
	return err
}
