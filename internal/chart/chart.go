// Package chart draws the histogram figures with gonum/plot.
package chart

import (
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/couchcryptid/quake-report/internal/domain"
)

// Figure sizes in inches.
const (
	SingleWidth  = 10 * vg.Inch
	SingleHeight = 6 * vg.Inch
	PanelWidth   = 14 * vg.Inch
	PanelHeight  = 6 * vg.Inch
)

var (
	barFill  = color.RGBA{R: 0x4c, G: 0x72, B: 0xb0, A: 0x99}
	barEdge  = color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}
	kdeColor = color.RGBA{R: 0x4c, G: 0x72, B: 0xb0, A: 0xff}
)

// Histogram builds a count histogram of values in domain.DefaultBins equal
// bins, overlaid with a kernel density curve when the sample has spread.
func Histogram(values []float64, title, xLabel string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = xLabel
	p.Y.Label.Text = "Frecuencia"
	p.Add(plotter.NewGrid())

	bins := domain.BinValues(values, domain.DefaultBins)
	hb := make([]plotter.HistogramBin, len(bins))
	for i, b := range bins {
		hb[i] = plotter.HistogramBin{Min: b.Min, Max: b.Max, Weight: float64(b.Count)}
	}
	width := bins[0].Max - bins[0].Min
	hist := &plotter.Histogram{
		Bins:      hb,
		Width:     width,
		FillColor: barFill,
		LineStyle: plotter.DefaultLineStyle,
	}
	hist.LineStyle.Color = barEdge
	hist.LineStyle.Width = vg.Points(0.5)
	p.Add(hist)

	xs, ys := domain.DensityCurve(values, bins[0].Min, bins[len(bins)-1].Max, width)
	if xs != nil {
		pts := make(plotter.XYs, len(xs))
		for i := range xs {
			pts[i].X = xs[i]
			pts[i].Y = ys[i]
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("build density line: %w", err)
		}
		line.LineStyle.Color = kdeColor
		line.LineStyle.Width = vg.Points(2)
		p.Add(line)
	}
	return p, nil
}

// WritePNG renders a single plot as PNG.
func WritePNG(w io.Writer, p *plot.Plot, width, height vg.Length) error {
	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return fmt.Errorf("create png writer: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}

// WritePanels renders plots side by side in one PNG.
func WritePanels(w io.Writer, plots []*plot.Plot, width, height vg.Length) error {
	if len(plots) == 0 {
		return fmt.Errorf("write panels: no plots")
	}
	img := vgimg.New(width, height)
	dc := draw.New(img)

	tiles := draw.Tiles{
		Rows:      1,
		Cols:      len(plots),
		PadX:      vg.Millimeter * 4,
		PadY:      vg.Millimeter * 4,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}
	canvases := plot.Align([][]*plot.Plot{plots}, tiles, dc)
	for i, p := range plots {
		p.Draw(canvases[0][i])
	}

	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(w); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}
