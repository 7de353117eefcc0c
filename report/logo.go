package report

import (
	"fmt"
	"image/color"
	"path/filepath"

	"github.com/dasnellings/motifTools/pwm"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// LogoWriter draws the logo of a motif, once for each strand.
type LogoWriter interface {
	EmitLogo(p *pwm.PWM, index int, pattern string, rc bool) error
}

// NewLogoWriter picks the writer for the requested formats.
func NewLogoWriter(dir string, eps, png bool) LogoWriter {
	switch {
	case eps && png:
		return BothLogos{Dir: dir}
	case eps:
		return EPSLogos{Dir: dir}
	case png:
		return PNGLogos{Dir: dir}
	}
	return NoLogos{}
}

// NoLogos draws nothing.
type NoLogos struct{}

func (NoLogos) EmitLogo(*pwm.PWM, int, string, bool) error { return nil }

type EPSLogos struct{ Dir string }

func (l EPSLogos) EmitLogo(p *pwm.PWM, index int, pattern string, rc bool) error {
	return drawLogo(p, LogoName(l.Dir, index, pattern, rc, "eps"), pattern)
}

type PNGLogos struct{ Dir string }

func (l PNGLogos) EmitLogo(p *pwm.PWM, index int, pattern string, rc bool) error {
	return drawLogo(p, LogoName(l.Dir, index, pattern, rc, "png"), pattern)
}

type BothLogos struct{ Dir string }

func (l BothLogos) EmitLogo(p *pwm.PWM, index int, pattern string, rc bool) error {
	if err := drawLogo(p, LogoName(l.Dir, index, pattern, rc, "eps"), pattern); err != nil {
		return err
	}
	return drawLogo(p, LogoName(l.Dir, index, pattern, rc, "png"), pattern)
}

// LogoName is the file a logo is saved to, e.g. m01nc_ACGT.eps.
func LogoName(dir string, index int, pattern string, rc bool, ext string) string {
	strand := "nc"
	if rc {
		strand = "rc"
	}
	return filepath.Join(dir, fmt.Sprintf("m%02d%s_%s.%s", index, strand, pattern, ext))
}

var letterColors = [4]color.Color{
	color.RGBA{R: 0, G: 128, B: 0, A: 255},   // A
	color.RGBA{R: 0, G: 0, B: 255, A: 255},   // C
	color.RGBA{R: 255, G: 165, B: 0, A: 255}, // G
	color.RGBA{R: 255, G: 0, B: 0, A: 255},   // T
}

// drawLogo saves p as stacked bars, one per letter, each as high as the
// letter's share of the column's information content. The format follows
// the file extension.
func drawLogo(p *pwm.PWM, filename, title string) error {
	if p.Width() == 0 {
		return nil
	}
	ic := p.InformationContent()
	pl := plot.New()
	pl.Title.Text = title
	pl.Y.Label.Text = "bits"
	pl.Y.Min, pl.Y.Max = 0, 2
	pl.X.Tick.Marker = positionTicks(p.Width())

	width := vg.Points(20)
	var below *plotter.BarChart
	for j := 0; j < 4; j++ {
		heights := make(plotter.Values, p.Width())
		for i := range heights {
			heights[i] = p.Freq[i][j] * ic[i]
		}
		bars, err := plotter.NewBarChart(heights, width)
		if err != nil {
			return err
		}
		bars.Color = letterColors[j]
		bars.LineStyle.Width = 0
		if below != nil {
			bars.StackOn(below)
		}
		pl.Add(bars)
		pl.Legend.Add(pwm.Alphabet[j:j+1], bars)
		below = bars
	}
	pl.Legend.Top = true

	w := vg.Length(p.Width()+2) * width
	return pl.Save(w, 6*vg.Centimeter, filename)
}

type positionTicks int

func (n positionTicks) Ticks(min, max float64) []plot.Tick {
	var ans []plot.Tick
	for i := 0; i < int(n); i++ {
		if float64(i) >= min && float64(i) <= max {
			ans = append(ans, plot.Tick{Value: float64(i), Label: fmt.Sprint(i + 1)})
		}
	}
	return ans
}
