package charts

import (
	"sort"

	"github.com/ognjen011/namebench3/src/nameserver"
)

// Default compression chunking: one candidate point per 1.5ms of duration,
// kept only when the cumulative percentage moved more than 3.5 points.
const (
	DefaultDurationChunk = 1.5
	DefaultPercentChunk  = 3.5
)

// DistributionPoint is one (percentage, duration) coordinate on a cumulative
// distribution curve: Percent of all samples completed within Duration.
type DistributionPoint struct {
	Percent  float64
	Duration float64
}

// CumulativeDistribution compresses raw duration samples into a short curve
// of cumulative DistributionPoints: at most one point per durationChunk step,
// emitted only when the percentage advanced more than percentChunk since the
// previous point. The curve always starts at (0, 0) and ends exactly at
// (100, max). An empty series yields nil. Non-positive chunk sizes use the
// defaults.
//
// The input is sorted once and walked with a single cursor instead of
// rescanning per step; the emitted points are identical either way.
func CumulativeDistribution(samples []float64, durationChunk, percentChunk float64) []DistributionPoint {
	if len(samples) == 0 {
		return nil
	}
	if durationChunk <= 0 {
		durationChunk = DefaultDurationChunk
	}
	if percentChunk <= 0 {
		percentChunk = DefaultPercentChunk
	}

	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)

	total := float64(len(sorted))
	maxSample := sorted[len(sorted)-1]
	points := []DistributionPoint{{Percent: 0, Duration: 0}}

	// Start below any real percentage so the first chunk always emits.
	lastPercent := -99.0
	idx := 0
	for chunkMax := sorted[0]; chunkMax < maxSample; chunkMax += durationChunk {
		for idx < len(sorted) && sorted[idx] <= chunkMax {
			idx++
		}
		percent := float64(idx) / total * 100
		if percent-lastPercent > percentChunk {
			points = append(points, DistributionPoint{Percent: percent, Duration: sorted[idx-1]})
			lastPercent = percent
		}
	}
	return append(points, DistributionPoint{Percent: 100, Duration: maxSample})
}

// MaximumRunDuration returns the longest duration found across every series,
// used to bound a shared axis. Zero when no series has samples.
func MaximumRunDuration(runs []nameserver.RunData) float64 {
	max := 0.0
	for _, rd := range runs {
		for _, d := range rd.Durations {
			if d > max {
				max = d
			}
		}
	}
	return max
}
