package main

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/ognjen011/namebench3/src/nameserver"
	"github.com/ognjen011/namebench3/src/render"
	"github.com/ognjen011/namebench3/src/results"
)

func TestNewRendererSelection(t *testing.T) {
	r, err := newRenderer("png", "hint")
	if err != nil {
		t.Fatalf("png renderer: %v", err)
	}
	if _, ok := r.(*render.GoChart); !ok {
		t.Fatalf("png renderer = %T, want *render.GoChart", r)
	}

	r, err = newRenderer("SVG", "")
	if err != nil {
		t.Fatalf("svg renderer: %v", err)
	}
	if _, ok := r.(render.GonumPlot); !ok {
		t.Fatalf("svg renderer = %T, want render.GonumPlot", r)
	}

	if _, err := newRenderer("bmp", ""); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestDemoServerShapes(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	sr := demoServer(0, 3, 5, rng)
	if sr.Name != "Local resolver" || sr.IP != "192.168.1.1" {
		t.Fatalf("first server = %q/%q, want local resolver seed", sr.Name, sr.IP)
	}
	if sr.SystemPosition == nil || *sr.SystemPosition != 0 || !sr.IsKeeper {
		t.Fatalf("first server should be the system resolver, got %+v", sr)
	}
	if len(sr.RunDurationsMs) != 3 {
		t.Fatalf("got %d runs, want 3", len(sr.RunDurationsMs))
	}
	for r, run := range sr.RunDurationsMs {
		if len(run) != 5 {
			t.Fatalf("run %d has %d queries, want 5", r, len(run))
		}
		for _, d := range run {
			if d < 1 {
				t.Fatalf("duration %v below clamp", d)
			}
		}
	}

	later := demoServer(2, 1, 1, rng)
	if later.SystemPosition != nil || later.IsKeeper {
		t.Fatalf("non-first server should have no system flags, got %+v", later)
	}
}

func TestDemoServerNameCycling(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	sr := demoServer(len(demoSeeds), 1, 1, rng)
	if !strings.HasSuffix(sr.Name, " 2") {
		t.Fatalf("cycled name = %q, want suffixed duplicate", sr.Name)
	}
	if sr.IP == demoSeeds[0].ip {
		t.Fatalf("cycled server reused IP %q", sr.IP)
	}
}

func TestAnnotateCountriesMissingDatabase(t *testing.T) {
	rs := &results.RunSet{Servers: []*results.ServerResult{
		{Name: "Alpha", IP: "8.8.8.8"},
	}}
	annotateCountries(rs, "/nonexistent/geoip.mmdb")
	if rs.Servers[0].Name != "Alpha" {
		t.Fatalf("name = %q, want unchanged without a database", rs.Servers[0].Name)
	}
}

func TestLabelTruncation(t *testing.T) {
	short := &nameserver.Nameserver{Name: "Short", IP: "10.0.0.1"}
	if got := label(short); got != "Short" {
		t.Fatalf("label = %q, want Short", got)
	}
	long := &nameserver.Nameserver{Name: strings.Repeat("x", 40), IP: "10.0.0.1"}
	if got := label(long); len(got) != 26 || !strings.HasSuffix(got, "...") {
		t.Fatalf("label = %q (len %d), want 26 chars ending in ...", got, len(got))
	}
}
