// Package render is the drawing boundary: it receives fully-derived geometry,
// axis limits, and labeled series, draws them, and returns encoded image
// bytes. Two backends are provided, go-chart (PNG) and gonum/plot (SVG);
// everything upstream stays backend-agnostic.
package render

// Geometry is the pixel size of one chart instance.
type Geometry struct {
	Width  int
	Height int
}

// Axis carries derived limits for one axis: the inclusive maximum and the
// tick increment. Tick 0 lets the backend choose.
type Axis struct {
	Label string
	Max   float64
	Tick  int
}

// BarGroup is one colored group of bar values, aligned to BarChartSpec.Rows.
// Rows beyond len(Values) have no bar for this group.
type BarGroup struct {
	Label  string
	Color  string
	Values []float64
}

// BarChartSpec describes a per-row bar chart, optionally grouped.
type BarChartSpec struct {
	Geometry Geometry
	Rows     []string
	Groups   []BarGroup
	XAxis    Axis
}

// LineSeries is one labeled, colored polyline. Xs and Ys are the same length.
type LineSeries struct {
	Label string
	Color string
	Xs    []float64
	Ys    []float64
}

// LineChartSpec describes a multi-series line chart with fixed axis limits.
type LineChartSpec struct {
	Geometry Geometry
	Series   []LineSeries
	XAxis    Axis
	YAxis    Axis
}

// Renderer turns derived chart structures into encoded image bytes.
// Implementations must not mutate the specs.
type Renderer interface {
	RenderBars(spec BarChartSpec) ([]byte, error)
	RenderLines(spec LineChartSpec) ([]byte, error)
	// MIME identifies the encoding of the rendered bytes, e.g. "image/png".
	MIME() string
}
