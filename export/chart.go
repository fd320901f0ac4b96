package export

import (
	"bytes"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	reservoir "github.com/flywave/go-reservoir"
)

const (
	DefaultChartWidth  = 8 * vg.Inch
	DefaultChartHeight = 6 * vg.Inch
)

var zoneColors = map[reservoir.FluidZone]color.Color{
	reservoir.GasCap:  color.RGBA{R: 214, G: 39, B: 40, A: 255},
	reservoir.OilZone: color.RGBA{R: 44, G: 160, B: 44, A: 255},
	reservoir.Aquifer: color.RGBA{R: 31, G: 119, B: 180, A: 255},
}

// Chart is a rendered PNG image.
type Chart struct {
	Title string
	PNG   []byte
}

// surfaceGrid adapts a surface to plotter.GridXYZ. Undefined nodes are NaN.
type surfaceGrid struct {
	s *reservoir.Surface
}

func (g surfaceGrid) Dims() (c, r int) { return g.s.Width, g.s.Height }
func (g surfaceGrid) X(c int) float64  { return g.s.Xs[c] }
func (g surfaceGrid) Y(r int) float64  { return g.s.Ys[r] }

func (g surfaceGrid) Z(c, r int) float64 {
	z, ok := g.s.Depth(c, r)
	if !ok {
		return math.NaN()
	}
	return z
}

// StructureMap plots the surface as a heat map with the wells on top,
// coloured by fluid zone. Without a surface only the wells are drawn.
func StructureMap(m *reservoir.Model) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Top structure map"
	p.X.Label.Text = "X"
	p.Y.Label.Text = "Y"

	if s := m.Surface; s != nil {
		lo, hi, _ := s.DepthRange()
		if hi <= lo {
			hi = lo + 1
		}
		cm := moreland.SmoothBlueRed()
		cm.SetMin(lo)
		cm.SetMax(hi)
		// shallow is red
		hm := plotter.NewHeatMap(surfaceGrid{s}, palette.Reverse(cm).Palette(64))
		hm.Min, hm.Max = lo, hi
		hm.NaN = color.Transparent
		p.Add(hm)
	}

	for _, z := range []reservoir.FluidZone{reservoir.GasCap, reservoir.OilZone, reservoir.Aquifer} {
		var xys plotter.XYs
		for _, cp := range m.Classified {
			if cp.Zone == z {
				xys = append(xys, plotter.XY{X: cp.X, Y: cp.Y})
			}
		}
		if len(xys) == 0 {
			continue
		}
		sc, err := plotter.NewScatter(xys)
		if err != nil {
			return nil, err
		}
		sc.GlyphStyle.Color = zoneColors[z]
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		sc.GlyphStyle.Radius = vg.Points(4)
		p.Add(sc)
		p.Legend.Add(z.String(), sc)
	}
	p.Legend.Top = true
	return p, nil
}

// CrossSection plots the depth profile along the middle row of the grid
// together with the two contacts. Depth increases downwards.
func CrossSection(m *reservoir.Model) (*plot.Plot, error) {
	s := m.Surface
	if s == nil {
		return nil, ErrNoSurface
	}
	row := s.Height / 2

	p := plot.New()
	p.Title.Text = "Cross section"
	p.X.Label.Text = "X"
	p.Y.Label.Text = "Depth"
	p.Y.Scale = plot.InvertedScale{Normalizer: plot.LinearScale{}}

	// one line per run of defined nodes
	var run plotter.XYs
	flush := func() error {
		if len(run) > 0 {
			l, err := plotter.NewLine(run)
			if err != nil {
				return err
			}
			l.LineStyle.Width = vg.Points(2)
			p.Add(l)
		}
		run = nil
		return nil
	}
	for col := 0; col < s.Width; col++ {
		z, ok := s.Depth(col, row)
		if !ok {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		run = append(run, plotter.XY{X: s.Xs[col], Y: z})
	}
	if err := flush(); err != nil {
		return nil, err
	}

	rect := s.GetRect()
	for _, c := range []struct {
		name  string
		depth float64
		color color.Color
	}{
		{"GOC", m.Contacts.GOC, zoneColors[reservoir.GasCap]},
		{"WOC", m.Contacts.WOC, zoneColors[reservoir.Aquifer]},
	} {
		l, err := plotter.NewLine(plotter.XYs{{X: rect.Min[0], Y: c.depth}, {X: rect.Max[0], Y: c.depth}})
		if err != nil {
			return nil, err
		}
		l.LineStyle.Color = c.color
		l.LineStyle.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}
		p.Add(l)
		p.Legend.Add(c.name, l)
	}
	return p, nil
}

func writePNG(w io.Writer, p *plot.Plot, width, height vg.Length) error {
	if width == 0 {
		width = DefaultChartWidth
	}
	if height == 0 {
		height = DefaultChartHeight
	}
	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

// RenderStructureMap writes the structure map as a PNG image. Zero sizes
// use the defaults.
func RenderStructureMap(w io.Writer, m *reservoir.Model, width, height vg.Length) error {
	p, err := StructureMap(m)
	if err != nil {
		return err
	}
	return writePNG(w, p, width, height)
}

func RenderCrossSection(w io.Writer, m *reservoir.Model, width, height vg.Length) error {
	p, err := CrossSection(m)
	if err != nil {
		return err
	}
	return writePNG(w, p, width, height)
}

// Charts renders every chart available for m, in report order.
func Charts(m *reservoir.Model) ([]Chart, error) {
	var buf bytes.Buffer
	if err := RenderStructureMap(&buf, m, 0, 0); err != nil {
		return nil, err
	}
	charts := []Chart{{Title: "Top structure map", PNG: buf.Bytes()}}
	if m.Surface == nil {
		return charts, nil
	}
	var xs bytes.Buffer
	if err := RenderCrossSection(&xs, m, 0, 0); err != nil {
		return nil, err
	}
	return append(charts, Chart{Title: "Cross section", PNG: xs.Bytes()}), nil
}
