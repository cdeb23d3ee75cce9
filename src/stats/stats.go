// Package stats summarizes duration samples for report tables. Percentiles
// come from an HDR histogram recorded at microsecond resolution; min, mean,
// and max are taken from the raw samples so they stay exact.
package stats

import (
	"math"
	"sort"

	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/ognjen011/namebench3/src/nameserver"
)

// Histogram bounds in microseconds: 1µs to 5 minutes, 3 significant digits.
const (
	histMin     = 1
	histMax     = 5 * 60 * 1000 * 1000
	histSigFigs = 3
)

// Summary describes one server's duration samples in ms.
type Summary struct {
	Server *nameserver.Nameserver
	Count  int
	Min    float64
	Mean   float64
	Max    float64
	P50    float64
	P90    float64
	P99    float64
}

// Summarize reduces raw duration samples (ms) to a Summary. Returns a zero
// Summary with Count 0 when samples is empty.
func Summarize(server *nameserver.Nameserver, samples []float64) Summary {
	s := Summary{Server: server, Count: len(samples)}
	if len(samples) == 0 {
		return s
	}

	h := hdrhistogram.New(histMin, histMax, histSigFigs)
	s.Min = math.Inf(1)
	sum := 0.0
	for _, d := range samples {
		if d < s.Min {
			s.Min = d
		}
		if d > s.Max {
			s.Max = d
		}
		sum += d
		us := int64(math.Round(d * 1000))
		if us < histMin {
			us = histMin
		}
		if us > histMax {
			us = histMax
		}
		h.RecordValue(us)
	}
	s.Mean = sum / float64(len(samples))
	s.P50 = float64(h.ValueAtQuantile(50)) / 1000
	s.P90 = float64(h.ValueAtQuantile(90)) / 1000
	s.P99 = float64(h.ValueAtQuantile(99)) / 1000
	return s
}

// SummarizeAll summarizes every series that has samples, ranked by ascending
// mean so the fastest server leads the table. Mean ties fall back to the
// server sort order.
func SummarizeAll(runs []nameserver.RunData) []Summary {
	out := make([]Summary, 0, len(runs))
	for _, rd := range runs {
		if len(rd.Durations) == 0 {
			continue
		}
		out = append(out, Summarize(rd.Server, rd.Durations))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Mean != out[j].Mean {
			return out[i].Mean < out[j].Mean
		}
		return nameserver.Less(out[i].Server, out[j].Server)
	})
	return out
}
