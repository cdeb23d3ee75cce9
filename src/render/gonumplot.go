package render

import (
	"bytes"
	"fmt"
	"image/color"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// GonumPlot renders charts as SVG via gonum/plot. Bars draw horizontally,
// one row per server with grouped runs stacked side by side, which matches
// the row-oriented geometry the bar height heuristics assume.
type GonumPlot struct{}

// MIME returns the encoding of rendered bytes.
func (GonumPlot) MIME() string { return "image/svg+xml" }

// RenderBars draws spec as a horizontal grouped bar chart.
func (GonumPlot) RenderBars(spec BarChartSpec) ([]byte, error) {
	if len(spec.Groups) == 0 || len(spec.Rows) == 0 {
		return nil, fmt.Errorf("bar chart needs at least one value")
	}
	p := plot.New()
	p.X.Label.Text = spec.XAxis.Label
	p.X.Min = 0
	p.X.Max = spec.XAxis.Max
	if ticks := plotTicks(spec.XAxis); ticks != nil {
		p.X.Tick.Marker = plot.ConstantTicks(ticks)
	}

	groupCount := len(spec.Groups)
	barW := vg.Points(12 / float64(groupCount))
	for gi, grp := range spec.Groups {
		values := make(plotter.Values, len(spec.Rows))
		copy(values, grp.Values)
		bars, err := plotter.NewBarChart(values, barW)
		if err != nil {
			return nil, fmt.Errorf("bar group %d: %w", gi, err)
		}
		bars.Horizontal = true
		bars.Color = rgbaFromHex(grp.Color)
		bars.LineStyle.Width = 0
		bars.Offset = vg.Length(float64(gi)-float64(groupCount-1)/2) * barW
		p.Add(bars)
		if grp.Label != "" {
			p.Legend.Add(grp.Label, bars)
		}
	}
	p.NominalY(spec.Rows...)
	p.Legend.Top = true

	return writeSVG(p, spec.Geometry)
}

// RenderLines draws spec as a multi-series line chart with a legend in the
// lower right, where distribution curves leave empty space.
func (GonumPlot) RenderLines(spec LineChartSpec) ([]byte, error) {
	if len(spec.Series) == 0 {
		return nil, fmt.Errorf("line chart needs at least one series")
	}
	p := plot.New()
	p.X.Label.Text = spec.XAxis.Label
	p.Y.Label.Text = spec.YAxis.Label
	p.X.Min, p.X.Max = 0, spec.XAxis.Max
	p.Y.Min, p.Y.Max = 0, spec.YAxis.Max
	if ticks := plotTicks(spec.XAxis); ticks != nil {
		p.X.Tick.Marker = plot.ConstantTicks(ticks)
	}
	if ticks := plotTicks(spec.YAxis); ticks != nil {
		p.Y.Tick.Marker = plot.ConstantTicks(ticks)
	}
	p.Add(plotter.NewGrid())

	for _, s := range spec.Series {
		pts := make(plotter.XYs, len(s.Xs))
		for i := range s.Xs {
			pts[i].X = s.Xs[i]
			pts[i].Y = s.Ys[i]
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("series %q: %w", s.Label, err)
		}
		line.Color = rgbaFromHex(s.Color)
		line.Width = vg.Points(2)
		p.Add(line)
		p.Legend.Add(s.Label, line)
	}

	return writeSVG(p, spec.Geometry)
}

func plotTicks(a Axis) []plot.Tick {
	if a.Tick <= 0 || a.Max <= 0 {
		return nil
	}
	step := float64(a.Tick)
	var ticks []plot.Tick
	for v := 0.0; v <= a.Max+step/2; v += step {
		ticks = append(ticks, plot.Tick{Value: v, Label: formatTick(v)})
	}
	return ticks
}

// rgbaFromHex parses a six-digit hex color, falling back to black on bad
// input so a palette mistake degrades instead of failing the render.
func rgbaFromHex(hex string) color.RGBA {
	c := color.RGBA{A: 255}
	if len(hex) != 6 {
		return c
	}
	if r, err := strconv.ParseUint(hex[0:2], 16, 8); err == nil {
		c.R = uint8(r)
	}
	if g, err := strconv.ParseUint(hex[2:4], 16, 8); err == nil {
		c.G = uint8(g)
	}
	if b, err := strconv.ParseUint(hex[4:6], 16, 8); err == nil {
		c.B = uint8(b)
	}
	return c
}

func writeSVG(p *plot.Plot, g Geometry) ([]byte, error) {
	wt, err := p.WriterTo(vg.Points(float64(g.Width)), vg.Points(float64(g.Height)), "svg")
	if err != nil {
		return nil, fmt.Errorf("svg writer: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write svg: %w", err)
	}
	return buf.Bytes(), nil
}
