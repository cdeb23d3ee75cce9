package results

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func resetWriter() {
	resultChan = nil
	writerOnce = sync.Once{}
	fallbackWriteOnce = sync.Once{}
	resultPath = ""
}

func intp(v int) *int { return &v }

func sampleEnvelope(runTag, name, ip string, durations [][]float64) *ResultEnvelope {
	return &ResultEnvelope{
		Meta: NewMeta(runTag, 10),
		Server: &ServerResult{
			Name:           name,
			IP:             ip,
			RunDurationsMs: durations,
		},
	}
}

func TestWriteAndLoadRoundTrip(t *testing.T) {
	resetWriter()
	path := filepath.Join(t.TempDir(), "results.jsonl")
	InitResultWriter(path)
	WriteResult(sampleEnvelope("20260821_1200", "Alpha", "10.0.0.1", [][]float64{{10, 20}, {30}}))
	WriteResult(sampleEnvelope("20260821_1200", "Beta", "10.0.0.2", [][]float64{{5}}))
	CloseResultWriter()
	resetWriter()

	rs, err := Load(path, LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if rs.RunTag != "20260821_1200" {
		t.Fatalf("run tag = %q, want 20260821_1200", rs.RunTag)
	}
	if len(rs.Servers) != 2 {
		t.Fatalf("got %d servers, want 2", len(rs.Servers))
	}
	if rs.Servers[0].Name != "Alpha" || rs.Servers[1].Name != "Beta" {
		t.Fatalf("server order = [%q %q], want file order", rs.Servers[0].Name, rs.Servers[1].Name)
	}
	if rs.Meta == nil || rs.Meta.SchemaVersion != SchemaVersion {
		t.Fatalf("meta = %+v, want schema version %d", rs.Meta, SchemaVersion)
	}
	if rs.Meta.RunID == "" || rs.Meta.TimestampUTC == "" {
		t.Fatalf("meta missing run id or timestamp: %+v", rs.Meta)
	}
}

func TestWriteResultFallbackWithoutInit(t *testing.T) {
	resetWriter()
	path := filepath.Join(t.TempDir(), "results.jsonl")
	resultPath = path

	WriteResult(sampleEnvelope("tag", "Alpha", "10.0.0.1", [][]float64{{1}}))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read results: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	var env ResultEnvelope
	if err := json.Unmarshal([]byte(lines[0]), &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if env.Server == nil || env.Server.Name != "Alpha" {
		t.Fatalf("envelope = %+v, want server Alpha", env)
	}
}

func TestLoadSkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.jsonl")
	valid, _ := json.Marshal(sampleEnvelope("tag", "Alpha", "10.0.0.1", [][]float64{{1}}))
	foreign, _ := json.Marshal(&ResultEnvelope{
		Meta:   &Meta{RunTag: "tag", SchemaVersion: SchemaVersion + 1},
		Server: &ServerResult{Name: "Old", IP: "10.0.0.9"},
	})
	content := strings.Join([]string{
		"this is not json",
		string(foreign),
		`{"meta":null,"server_result":null}`,
		string(valid),
		"",
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	rs, err := Load(path, LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(rs.Servers) != 1 || rs.Servers[0].Name != "Alpha" {
		t.Fatalf("servers = %+v, want only Alpha", rs.Servers)
	}
}

func TestLoadSelectsRunTag(t *testing.T) {
	resetWriter()
	path := filepath.Join(t.TempDir(), "results.jsonl")
	resultPath = path
	WriteResult(sampleEnvelope("first", "Alpha", "10.0.0.1", [][]float64{{1}}))
	WriteResult(sampleEnvelope("second", "Beta", "10.0.0.2", [][]float64{{2}}))

	rs, err := Load(path, LoadOptions{RunTag: "first"})
	if err != nil {
		t.Fatalf("Load first: %v", err)
	}
	if rs.RunTag != "first" || len(rs.Servers) != 1 || rs.Servers[0].Name != "Alpha" {
		t.Fatalf("got %+v, want run first with Alpha", rs)
	}

	latest, err := Load(path, LoadOptions{})
	if err != nil {
		t.Fatalf("Load latest: %v", err)
	}
	if latest.RunTag != "second" {
		t.Fatalf("latest run tag = %q, want second", latest.RunTag)
	}

	if _, err := Load(path, LoadOptions{RunTag: "missing"}); !errors.Is(err, ErrNoResults) {
		t.Fatalf("unknown run tag error = %v, want ErrNoResults", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.jsonl"), LoadOptions{}); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.jsonl")
	if err := os.WriteFile(path, []byte("not json\n\n"), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := Load(path, LoadOptions{}); !errors.Is(err, ErrNoResults) {
		t.Fatalf("empty file error = %v, want ErrNoResults", err)
	}
}

func TestRunSetShapes(t *testing.T) {
	rs := &RunSet{
		RunTag: "tag",
		Servers: []*ServerResult{
			{Name: "Alpha", IP: "10.0.0.1", RunDurationsMs: [][]float64{{10, 20}, {30}}},
			{Name: "Beta", IP: "10.0.0.2", RunDurationsMs: [][]float64{{}, {3}}},
			{Name: "Empty", IP: "10.0.0.3"},
		},
	}

	flat := rs.RunData()
	if len(flat) != 3 {
		t.Fatalf("RunData entries = %d, want 3", len(flat))
	}
	if got := flat[0].Durations; len(got) != 3 || got[0] != 10 || got[2] != 30 {
		t.Fatalf("Alpha flattened = %v, want [10 20 30]", got)
	}
	if flat[2].Durations != nil {
		t.Fatalf("Empty flattened = %v, want nil", flat[2].Durations)
	}

	avgs := rs.PerRunAverages()
	if got := avgs[0].Durations; len(got) != 2 || got[0] != 15 || got[1] != 30 {
		t.Fatalf("Alpha averages = %v, want [15 30]", got)
	}
	if got := avgs[1].Durations; len(got) != 1 || got[0] != 3 {
		t.Fatalf("Beta averages = %v, want [3]", got)
	}

	ranked := rs.FastestRanking()
	if len(ranked) != 2 {
		t.Fatalf("ranked entries = %d, want 2 (empty server dropped)", len(ranked))
	}
	if ranked[0].Server.Name != "Beta" || ranked[0].Duration != 3 {
		t.Fatalf("fastest = %+v, want Beta at 3", ranked[0])
	}
	if ranked[1].Server.Name != "Alpha" || ranked[1].Duration != 10 {
		t.Fatalf("second = %+v, want Alpha at 10", ranked[1])
	}
}

func TestServerResultNameserver(t *testing.T) {
	sr := &ServerResult{Name: "Alpha", IP: "10.0.0.1", SystemPosition: intp(0), IsKeeper: true}
	ns := sr.Nameserver()
	if ns.Name != "Alpha" || ns.IP != "10.0.0.1" || !ns.IsKeeper {
		t.Fatalf("Nameserver() = %+v, want fields copied", ns)
	}
	if ns.SystemPosition == nil || *ns.SystemPosition != 0 {
		t.Fatalf("SystemPosition = %v, want 0", ns.SystemPosition)
	}
}
