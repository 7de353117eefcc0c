package report

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dasnellings/motifTools/discover"
	"github.com/dasnellings/motifTools/enrich"
	"github.com/dasnellings/motifTools/pwm"
)

// Version is written to the root element of the XML report.
const Version = "1.0.0"

const dateFormat = time.UnixDate

type xmlReport struct {
	XMLName xml.Name   `xml:"motif_discovery"`
	Version string     `xml:"version,attr"`
	Model   xmlModel   `xml:"model"`
	Motifs  []xmlMotif `xml:"motifs>motif"`
	RunTime xmlRunTime `xml:"run_time"`
}

type xmlModel struct {
	CommandLine string        `xml:"command_line"`
	Positives   xmlSeqs       `xml:"positives"`
	Negatives   xmlSeqs       `xml:"negatives"`
	Background  xmlBackground `xml:"background"`
	Stop        xmlStop       `xml:"stop"`
	NoRC        string        `xml:"norc"`
	NGen        int           `xml:"ngen"`
	AddPThresh  string        `xml:"add_pv_thresh"`
	Seed        int64         `xml:"seed"`
	Host        string        `xml:"host"`
	When        string        `xml:"when"`
	Description string        `xml:"description,omitempty"`
}

type xmlSeqs struct {
	Name        string `xml:"name,attr"`
	Count       int    `xml:"count,attr"`
	From        string `xml:"from,attr,omitempty"`
	File        string `xml:"file,attr,omitempty"`
	LastModDate string `xml:"last_mod_date,attr,omitempty"`
}

type xmlBackground struct {
	Type string `xml:"type,attr"`
	A    string `xml:"A,attr"`
	C    string `xml:"C,attr"`
	G    string `xml:"G,attr"`
	T    string `xml:"T,attr"`
	From string `xml:"from,attr"`
}

type xmlStop struct {
	EValue string `xml:"evalue,attr,omitempty"`
	Count  string `xml:"count,attr,omitempty"`
	Time   string `xml:"time,attr,omitempty"`
}

type xmlMotif struct {
	ID             string     `xml:"id,attr"`
	Seq            string     `xml:"seq,attr"`
	Length         int        `xml:"length,attr"`
	NSites         int        `xml:"nsites,attr"`
	P              int        `xml:"p,attr"`
	N              int        `xml:"n,attr"`
	PValue         string     `xml:"pvalue,attr"`
	EValue         string     `xml:"evalue,attr"`
	UnerasedEValue string     `xml:"unerased_evalue,attr"`
	Pos            []xmlPos   `xml:"pos"`
	Match          []xmlMatch `xml:"match"`
}

type xmlPos struct {
	I int    `xml:"i,attr"`
	A string `xml:"A,attr"`
	C string `xml:"C,attr"`
	G string `xml:"G,attr"`
	T string `xml:"T,attr"`
}

type xmlMatch struct {
	Seq    string `xml:"seq,attr"`
	P      int    `xml:"p,attr"`
	N      int    `xml:"n,attr"`
	PValue string `xml:"pvalue,attr"`
	EValue string `xml:"evalue,attr"`
}

type xmlRunTime struct {
	CPU  string `xml:"cpu,attr"`
	Real string `xml:"real,attr"`
	Stop string `xml:"stop,attr"`
}

// datasetName is the file name without directory or extension, with
// underscores read as spaces.
func datasetName(file string) string {
	name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	return strings.ReplaceAll(name, "_", " ")
}

func lastModified(file string) string {
	info, err := os.Stat(file)
	if err != nil {
		return ""
	}
	return info.ModTime().Format(dateFormat)
}

func newXMLModel(m Model) xmlModel {
	cfg := m.Config
	ans := xmlModel{
		CommandLine: m.CommandLine,
		Positives: xmlSeqs{
			Name:        datasetName(m.PosFile),
			Count:       m.PosCount,
			File:        m.PosFile,
			LastModDate: lastModified(m.PosFile),
		},
		Background: xmlBackground{
			Type: "dna",
			A:    fmt.Sprintf("%.3f", m.Background[0]),
			C:    fmt.Sprintf("%.3f", m.Background[1]),
			G:    fmt.Sprintf("%.3f", m.Background[2]),
			T:    fmt.Sprintf("%.3f", m.Background[3]),
			From: "dataset",
		},
		Stop:        xmlStop{EValue: fmt.Sprintf("%g", cfg.EThresh)},
		NoRC:        "FALSE",
		NGen:        cfg.NGen,
		AddPThresh:  fmt.Sprintf("%g", cfg.AddPThresh),
		Seed:        cfg.Seed,
		Host:        m.Host,
		When:        m.When.Format(dateFormat),
		Description: m.Description,
	}
	if m.NegFile == "" {
		ans.Negatives = xmlSeqs{Name: "shuffled positive sequences", Count: m.NegCount, From: "shuffled"}
	} else {
		ans.Negatives = xmlSeqs{
			Name:        datasetName(m.NegFile),
			Count:       m.NegCount,
			From:        "file",
			File:        m.NegFile,
			LastModDate: lastModified(m.NegFile),
		}
	}
	if cfg.MaxMotifs > 0 {
		ans.Stop.Count = fmt.Sprint(cfg.MaxMotifs)
	}
	if cfg.MaxTime > 0 {
		ans.Stop.Time = fmt.Sprint(int(cfg.MaxTime.Seconds()))
	}
	if cfg.GivenOnly {
		ans.NoRC = "TRUE"
	}
	return ans
}

func newXMLMotif(m *discover.Motif, p *pwm.PWM) xmlMotif {
	ans := xmlMotif{
		ID:             fmt.Sprintf("m%02d", m.Index),
		Seq:            m.Pattern,
		Length:         len(m.Pattern),
		NSites:         p.Sites,
		P:              m.Record.Pos,
		N:              m.Record.Neg,
		PValue:         enrich.FormatLog(m.Record.LogPValue),
		EValue:         enrich.FormatLog(m.LogEValue),
		UnerasedEValue: enrich.FormatLog(m.UnerasedLogEValue),
	}
	for i := range p.Freq {
		ans.Pos = append(ans.Pos, xmlPos{
			I: i + 1,
			A: fmt.Sprintf("%8.6f", p.Freq[i][0]),
			C: fmt.Sprintf("%8.6f", p.Freq[i][1]),
			G: fmt.Sprintf("%8.6f", p.Freq[i][2]),
			T: fmt.Sprintf("%8.6f", p.Freq[i][3]),
		})
	}
	for _, c := range m.Components {
		ans.Match = append(ans.Match, xmlMatch{
			Seq:    c.Pattern,
			P:      c.Record.Pos,
			N:      c.Record.Neg,
			PValue: enrich.FormatLog(c.Record.LogPValue),
			EValue: enrich.FormatLog(c.LogEValue),
		})
	}
	return ans
}

func writeXML(out io.Writer, doc *xmlReport) error {
	if _, err := io.WriteString(out, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(out)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return err
	}
	_, err := io.WriteString(out, "\n")
	return err
}
