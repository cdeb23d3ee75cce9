package stats

import (
	"math"
	"testing"

	"github.com/ognjen011/namebench3/src/nameserver"
)

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(&nameserver.Nameserver{Name: "a"}, nil)
	if s.Count != 0 || s.Min != 0 || s.Mean != 0 || s.Max != 0 {
		t.Fatalf("empty summary = %+v, want zero values", s)
	}
}

func TestSummarizeBasics(t *testing.T) {
	ns := &nameserver.Nameserver{Name: "a", IP: "10.0.0.1"}
	samples := []float64{10, 20, 30, 40}
	s := Summarize(ns, samples)

	if s.Count != 4 {
		t.Fatalf("count = %d, want 4", s.Count)
	}
	if s.Min != 10 || s.Max != 40 {
		t.Fatalf("min/max = %v/%v, want 10/40", s.Min, s.Max)
	}
	if s.Mean != 25 {
		t.Fatalf("mean = %v, want 25", s.Mean)
	}
	// Percentiles come from the histogram at 3 significant digits, so allow
	// a small quantization error.
	if math.Abs(s.P50-20) > 0.5 {
		t.Fatalf("p50 = %v, want about 20", s.P50)
	}
	if math.Abs(s.P99-40) > 0.5 {
		t.Fatalf("p99 = %v, want about 40", s.P99)
	}
	if s.P50 > s.P90 || s.P90 > s.P99 {
		t.Fatalf("percentiles not monotonic: p50=%v p90=%v p99=%v", s.P50, s.P90, s.P99)
	}
}

func TestSummarizeSingleSample(t *testing.T) {
	s := Summarize(&nameserver.Nameserver{Name: "a"}, []float64{12.5})
	if s.Min != 12.5 || s.Max != 12.5 || s.Mean != 12.5 {
		t.Fatalf("single sample summary = %+v, want all 12.5", s)
	}
	if math.Abs(s.P50-12.5) > 0.1 || math.Abs(s.P99-12.5) > 0.1 {
		t.Fatalf("percentiles = p50=%v p99=%v, want about 12.5", s.P50, s.P99)
	}
}

func TestSummarizeClampsOutOfRange(t *testing.T) {
	s := Summarize(&nameserver.Nameserver{Name: "a"}, []float64{0.0001, 10 * 60 * 1000})
	if s.Min != 0.0001 || s.Max != 10*60*1000 {
		t.Fatalf("raw min/max = %v/%v, want untouched extremes", s.Min, s.Max)
	}
}

func TestSummarizeAllSkipsEmptySeries(t *testing.T) {
	runs := []nameserver.RunData{
		{Server: &nameserver.Nameserver{Name: "a"}, Durations: []float64{5}},
		{Server: &nameserver.Nameserver{Name: "b"}},
		{Server: &nameserver.Nameserver{Name: "c"}, Durations: []float64{7, 9}},
	}
	got := SummarizeAll(runs)
	if len(got) != 2 {
		t.Fatalf("got %d summaries, want 2", len(got))
	}
	if got[0].Server.Name != "a" || got[1].Server.Name != "c" {
		t.Fatalf("order = [%q %q], want [a c]", got[0].Server.Name, got[1].Server.Name)
	}
}

func TestSummarizeAllRanksByMean(t *testing.T) {
	runs := []nameserver.RunData{
		{Server: &nameserver.Nameserver{Name: "slow"}, Durations: []float64{40, 60}},
		{Server: &nameserver.Nameserver{Name: "fast"}, Durations: []float64{5, 15}},
		{Server: &nameserver.Nameserver{Name: "mid"}, Durations: []float64{20, 30}},
	}
	got := SummarizeAll(runs)
	if len(got) != 3 {
		t.Fatalf("got %d summaries, want 3", len(got))
	}
	want := []string{"fast", "mid", "slow"}
	for i, name := range want {
		if got[i].Server.Name != name {
			t.Fatalf("rank %d = %q, want %q", i, got[i].Server.Name, name)
		}
	}
}

func TestSummarizeAllMeanTiesUseServerOrder(t *testing.T) {
	pos := 0
	runs := []nameserver.RunData{
		{Server: &nameserver.Nameserver{Name: "zeta"}, Durations: []float64{10}},
		{Server: &nameserver.Nameserver{Name: "system", SystemPosition: &pos}, Durations: []float64{10}},
	}
	got := SummarizeAll(runs)
	if got[0].Server.Name != "system" || got[1].Server.Name != "zeta" {
		t.Fatalf("tie order = [%q %q], want system server first",
			got[0].Server.Name, got[1].Server.Name)
	}
}
