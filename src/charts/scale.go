package charts

import (
	"math"

	log "github.com/sirupsen/logrus"
)

// Rendered chart bounds in pixels. Bar charts grow with their row count but
// never past ChartHeight.
const (
	ChartWidth  = 720
	ChartHeight = 415
)

const (
	defaultTickSize = 2.5
	defaultNumTicks = 10.0
)

// ScaleParams carries the derived axis maximum and tick increment for one
// chart axis.
type ScaleParams struct {
	Max  float64
	Tick int
}

// GoodTicks picks a round tick increment for values in [0, maxValue]: the
// smallest doubling of tickSize whose tick count stays at or below numTicks.
// Degenerate inputs fall back to plain linear division, never below 1.
func GoodTicks(maxValue, tickSize, numTicks float64) int {
	if tickSize > 0 && numTicks > 0 && !math.IsNaN(maxValue) && !math.IsInf(maxValue, 0) {
		for tryTick := tickSize; tryTick < maxValue; {
			if maxValue/tryTick > numTicks {
				tryTick *= 2
				continue
			}
			return int(math.Round(tryTick))
		}
	}
	log.Warnf("no good tick size for maxValue=%v (tickSize=%v, numTicks=%v), using linear division", maxValue, tickSize, numTicks)
	if numTicks > 0 && !math.IsNaN(maxValue) && !math.IsInf(maxValue, 0) {
		if simple := int(maxValue / numTicks); simple >= 1 {
			return simple
		}
	}
	return 1
}

// Scale derives bar-chart axis parameters from the largest value to plot: the
// maximum rounded up to the next multiple of five, with a matching tick step.
func Scale(maxValue float64) ScaleParams {
	if maxValue <= 0 || math.IsNaN(maxValue) || math.IsInf(maxValue, 0) {
		return ScaleParams{Max: 5, Tick: 1}
	}
	max := math.Ceil(maxValue/5) * 5
	return ScaleParams{Max: max, Tick: GoodTicks(max, defaultTickSize, defaultNumTicks)}
}

// BarGraphHeight sizes a horizontal bar chart holding barCount bars, capped
// at ChartHeight.
func BarGraphHeight(barCount int) int {
	h := 52 + barCount*13
	if h > ChartHeight {
		return ChartHeight
	}
	return h
}
