package charts

import (
	"fmt"
	"sort"

	log "github.com/sirupsen/logrus"

	"github.com/ognjen011/namebench3/src/nameserver"
	"github.com/ognjen011/namebench3/src/render"
)

// barBaseColor is the shade grouped run bars start from; later runs darken it
// three steps per run.
const barBaseColor = "4684ee"

// ServerDuration pairs a server with one representative duration, e.g. its
// fastest measured response.
type ServerDuration struct {
	Server   *nameserver.Nameserver
	Duration float64
}

// SeriesCurve is one server's compressed distribution curve, ready to order
// and render.
type SeriesCurve struct {
	Server *nameserver.Nameserver
	Points []DistributionPoint
}

// SortFunc orders distribution curves before rendering and color assignment.
type SortFunc func(a, b *SeriesCurve) bool

// Generator derives chart structures from benchmark data and hands them to a
// renderer. Construct with NewGenerator; the zero value has no renderer.
type Generator struct {
	renderer      render.Renderer
	palette       []string
	width         int
	durationChunk float64
	percentChunk  float64
}

// Option adjusts a Generator at construction.
type Option func(*Generator)

// WithPalette replaces the base color palette cycled across line series.
func WithPalette(colors []string) Option {
	return func(g *Generator) {
		if len(colors) > 0 {
			g.palette = colors
		}
	}
}

// WithChunks overrides the distribution compression chunk sizes. Non-positive
// values keep the defaults.
func WithChunks(durationChunk, percentChunk float64) Option {
	return func(g *Generator) {
		if durationChunk > 0 {
			g.durationChunk = durationChunk
		}
		if percentChunk > 0 {
			g.percentChunk = percentChunk
		}
	}
}

// WithWidth overrides the chart width in pixels. Heights stay derived from
// the bar count. Non-positive values keep the default.
func WithWidth(px int) Option {
	return func(g *Generator) {
		if px > 0 {
			g.width = px
		}
	}
}

// NewGenerator returns a Generator drawing through r.
func NewGenerator(r render.Renderer, opts ...Option) *Generator {
	g := &Generator{
		renderer:      r,
		palette:       BaseColors,
		width:         ChartWidth,
		durationChunk: DefaultDurationChunk,
		percentChunk:  DefaultPercentChunk,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// PerRunDurationBarGraph renders one bar group per benchmark run with a bar
// per server inside each group, so run-to-run drift is visible per server.
// Durations are per-run averages in ms, possibly ragged across servers. A
// positive scale overrides the derived duration axis maximum. Returns a data
// URI, or "" when there is nothing to draw.
func (g *Generator) PerRunDurationBarGraph(runs []nameserver.RunData, scale float64) (string, error) {
	maxRunAvg := -1.0
	runCount := 0
	rows := make([]string, 0, len(runs))
	for _, rd := range runs {
		rows = append(rows, rd.Server.Label())
		if len(rd.Durations) > runCount {
			runCount = len(rd.Durations)
		}
		for _, avg := range rd.Durations {
			if avg > maxRunAvg {
				maxRunAvg = avg
			}
		}
	}
	if maxRunAvg < 0 {
		log.Warnf("no duration data to graph across %d servers", len(runs))
		return "", nil
	}

	params := Scale(maxRunAvg)
	if scale > 0 {
		params = ScaleParams{Max: scale, Tick: GoodTicks(scale, defaultTickSize, defaultNumTicks)}
	}

	totalBars := 0
	groups := make([]render.BarGroup, runCount)
	for run := 0; run < runCount; run++ {
		values := make([]float64, len(runs))
		for i, rd := range runs {
			if run < len(rd.Durations) {
				values[i] = rd.Durations[run]
				totalBars++
			}
		}
		color := barBaseColor
		label := ""
		if runCount > 1 {
			darker, err := DarkenHexColor(barBaseColor, run*3)
			if err != nil {
				return "", err
			}
			color = darker
			label = fmt.Sprintf("Run %d", run+1)
		}
		groups[run] = render.BarGroup{Label: label, Color: color, Values: values}
	}

	spec := render.BarChartSpec{
		Geometry: render.Geometry{Width: g.width, Height: BarGraphHeight(totalBars)},
		Rows:     rows,
		Groups:   groups,
		XAxis:    render.Axis{Label: "Duration in ms.", Max: params.Max, Tick: params.Tick},
	}
	raw, err := g.renderer.RenderBars(spec)
	if err != nil {
		return "", fmt.Errorf("per-run duration bar graph: %w", err)
	}
	return render.DataURI(g.renderer.MIME(), raw), nil
}

// MinimumDurationBarGraph renders ranked fastest responses, one bar per
// server. fastest must already be ordered fastest first; its last entry
// bounds the duration axis unless a positive scale overrides it. Returns a
// data URI, or "" when fastest is empty.
func (g *Generator) MinimumDurationBarGraph(fastest []ServerDuration, scale float64) (string, error) {
	if len(fastest) == 0 {
		log.Warnf("no ranked durations to graph")
		return "", nil
	}
	rows := make([]string, len(fastest))
	values := make([]float64, len(fastest))
	for i, sd := range fastest {
		rows[i] = sd.Server.Label()
		values[i] = sd.Duration
	}

	params := Scale(fastest[len(fastest)-1].Duration)
	if scale > 0 {
		params = ScaleParams{Max: scale, Tick: GoodTicks(scale, defaultTickSize, defaultNumTicks)}
	}

	spec := render.BarChartSpec{
		Geometry: render.Geometry{Width: g.width, Height: BarGraphHeight(len(fastest))},
		Rows:     rows,
		Groups:   []render.BarGroup{{Color: barBaseColor, Values: values}},
		XAxis:    render.Axis{Label: "Duration in ms.", Max: params.Max, Tick: params.Tick},
	}
	raw, err := g.renderer.RenderBars(spec)
	if err != nil {
		return "", fmt.Errorf("minimum duration bar graph: %w", err)
	}
	return render.DataURI(g.renderer.MIME(), raw), nil
}

// DistributionLineGraph renders each server's cumulative latency distribution
// as one line: x is duration in ms, y the percentage of queries answered
// within it. Curve points past the axis maximum clip to the edge and the rest
// of that curve is dropped. sortBy overrides the default server ordering; nil
// sorts by system position, keeper flag, then name. Returns a data URI, or ""
// when no series has samples.
func (g *Generator) DistributionLineGraph(runs []nameserver.RunData, scale float64, sortBy SortFunc) (string, error) {
	curves := g.Distributions(runs)
	if len(curves) == 0 {
		log.Warnf("no distribution data to graph across %d servers", len(runs))
		return "", nil
	}
	if sortBy == nil {
		sortBy = func(a, b *SeriesCurve) bool { return nameserver.Less(a.Server, b.Server) }
	}
	sort.SliceStable(curves, func(i, j int) bool { return sortBy(&curves[i], &curves[j]) })

	maxValue := MaximumRunDuration(runs)
	if scale > 0 && scale < maxValue {
		maxValue = scale
	}
	if maxValue <= 0 {
		// A zero-width duration axis cannot render.
		maxValue = 1
	}

	series := make([]render.LineSeries, 0, len(curves))
	for idx, c := range curves {
		xs := make([]float64, 0, len(c.Points))
		ys := make([]float64, 0, len(c.Points))
		for _, pt := range c.Points {
			if pt.Duration > maxValue {
				// Pin one point to the edge so the line visibly leaves the
				// chart instead of stopping short.
				xs = append(xs, maxValue)
				ys = append(ys, pt.Percent)
				break
			}
			xs = append(xs, pt.Duration)
			ys = append(ys, pt.Percent)
		}
		series = append(series, render.LineSeries{
			Label: c.Server.Label(),
			Color: g.palette[idx%len(g.palette)],
			Xs:    xs,
			Ys:    ys,
		})
	}

	spec := render.LineChartSpec{
		Geometry: render.Geometry{Width: g.width, Height: ChartHeight},
		Series:   series,
		XAxis:    render.Axis{Label: "Duration in ms", Max: maxValue, Tick: GoodTicks(maxValue, defaultTickSize, defaultNumTicks)},
		YAxis:    render.Axis{Label: "Percentage of queries completed", Max: 100, Tick: 20},
	}
	raw, err := g.renderer.RenderLines(spec)
	if err != nil {
		return "", fmt.Errorf("distribution line graph: %w", err)
	}
	return render.DataURI(g.renderer.MIME(), raw), nil
}

// Distributions compresses every series that has samples using the
// generator's chunk configuration. Servers without samples are skipped.
func (g *Generator) Distributions(runs []nameserver.RunData) []SeriesCurve {
	curves := make([]SeriesCurve, 0, len(runs))
	for _, rd := range runs {
		pts := CumulativeDistribution(rd.Durations, g.durationChunk, g.percentChunk)
		if pts == nil {
			continue
		}
		curves = append(curves, SeriesCurve{Server: rd.Server, Points: pts})
	}
	return curves
}
