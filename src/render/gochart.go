package render

import (
	"bytes"
	"fmt"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// GoChart renders charts as PNG via go-chart. Footer, when non-empty, is
// stamped near the bottom-left corner after the chart is drawn.
//
// go-chart draws vertical bars only, so bar charts come out with one column
// per (row, group) pair and the value axis on the left. Rows keep their order
// and groups stay adjacent within a row.
type GoChart struct {
	Footer string
}

// MIME returns the encoding of rendered bytes.
func (g *GoChart) MIME() string { return "image/png" }

// RenderBars draws spec as a column chart, one column per present value.
func (g *GoChart) RenderBars(spec BarChartSpec) ([]byte, error) {
	bars := flattenBars(spec)
	if len(bars) == 0 {
		return nil, fmt.Errorf("bar chart needs at least one value")
	}
	bc := chart.BarChart{
		Width:      spec.Geometry.Width,
		Height:     spec.Geometry.Height,
		BarWidth:   barWidth(spec.Geometry.Width, len(bars)),
		BarSpacing: 4,
		Background: chart.Style{Padding: chart.Box{Top: 14, Left: 16, Right: 12, Bottom: 24}},
		XAxis:      chart.Style{TextRotationDegrees: 45},
		YAxis: chart.YAxis{
			Name:  spec.XAxis.Label,
			Range: &chart.ContinuousRange{Min: 0, Max: spec.XAxis.Max},
			Ticks: axisTicks(spec.XAxis),
		},
		Bars: bars,
	}
	var buf bytes.Buffer
	if err := bc.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render bar chart: %w", err)
	}
	return g.stamp(buf.Bytes())
}

// RenderLines draws spec as a multi-series line chart with a legend.
func (g *GoChart) RenderLines(spec LineChartSpec) ([]byte, error) {
	if len(spec.Series) == 0 {
		return nil, fmt.Errorf("line chart needs at least one series")
	}
	series := make([]chart.Series, 0, len(spec.Series))
	for _, s := range spec.Series {
		st := chart.Style{
			StrokeColor: drawing.ColorFromHex(s.Color),
			StrokeWidth: 2,
		}
		xs, ys := s.Xs, s.Ys
		if len(xs) == 1 {
			// go-chart cannot render a zero-width domain; pad a twin point.
			xs = []float64{xs[0], xs[0] + 1}
			ys = []float64{ys[0], ys[0]}
		}
		series = append(series, chart.ContinuousSeries{Name: s.Label, XValues: xs, YValues: ys, Style: st})
	}
	ch := chart.Chart{
		Width:      spec.Geometry.Width,
		Height:     spec.Geometry.Height,
		Background: chart.Style{Padding: chart.Box{Top: 14, Left: 16, Right: 12, Bottom: 24}},
		XAxis: chart.XAxis{
			Name:  spec.XAxis.Label,
			Range: &chart.ContinuousRange{Min: 0, Max: spec.XAxis.Max},
			Ticks: axisTicks(spec.XAxis),
		},
		YAxis: chart.YAxis{
			Name:  spec.YAxis.Label,
			Range: &chart.ContinuousRange{Min: 0, Max: spec.YAxis.Max},
			Ticks: axisTicks(spec.YAxis),
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render line chart: %w", err)
	}
	return g.stamp(buf.Bytes())
}

func (g *GoChart) stamp(raw []byte) ([]byte, error) {
	if g.Footer == "" {
		return raw, nil
	}
	return stampFooter(raw, g.Footer)
}

// flattenBars lays out one chart.Value per present (row, group) value, rows
// in order, groups adjacent. The middle column of each row carries the row
// label so grouped rows read as one unit.
func flattenBars(spec BarChartSpec) []chart.Value {
	var bars []chart.Value
	for rowIdx, rowLabel := range spec.Rows {
		present := 0
		for _, grp := range spec.Groups {
			if rowIdx < len(grp.Values) {
				present++
			}
		}
		seen := 0
		for _, grp := range spec.Groups {
			if rowIdx >= len(grp.Values) {
				continue
			}
			label := ""
			if seen == present/2 {
				label = rowLabel
			}
			bars = append(bars, chart.Value{
				Value: grp.Values[rowIdx],
				Label: label,
				Style: chart.Style{FillColor: drawing.ColorFromHex(grp.Color), StrokeWidth: 0},
			})
			seen++
		}
	}
	return bars
}

func barWidth(totalWidth, barCount int) int {
	if barCount == 0 {
		return 1
	}
	w := (totalWidth-80)/barCount - 4
	if w < 2 {
		return 2
	}
	if w > 40 {
		return 40
	}
	return w
}

// axisTicks expands derived axis parameters into explicit tick marks. A zero
// tick increment defers to the backend.
func axisTicks(a Axis) []chart.Tick {
	if a.Tick <= 0 || a.Max <= 0 {
		return nil
	}
	step := float64(a.Tick)
	ticks := []chart.Tick{}
	for v := 0.0; v <= a.Max+step/2; v += step {
		ticks = append(ticks, chart.Tick{Value: v, Label: formatTick(v)})
	}
	return ticks
}

func formatTick(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}
