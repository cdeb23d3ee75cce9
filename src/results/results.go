// Package results reads and writes benchmark results as JSONL: one envelope
// per line carrying run metadata plus a single server's raw per-run
// durations. Files accumulate runs by appending, so one file can hold many
// runs distinguished by run tag.
package results

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"runtime"
	"sort"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/ognjen011/namebench3/src/charts"
	"github.com/ognjen011/namebench3/src/nameserver"
)

// SchemaVersion is the compatibility version for the JSONL meta+server_result
// structure. Lines with a different version are skipped on load.
const SchemaVersion = 1

// DefaultResultsFile is where results land when no path is configured.
const DefaultResultsFile = "namebench_results.jsonl"

// ErrNoResults reports that a results file held no usable lines for the
// requested run.
var ErrNoResults = errors.New("no usable results")

// Meta holds environment and run metadata, written on every line so each is
// self-describing.
type Meta struct {
	TimestampUTC  string `json:"timestamp_utc"`
	RunID         string `json:"run_id"`
	RunTag        string `json:"run_tag,omitempty"`
	Hostname      string `json:"hostname,omitempty"`
	OS            string `json:"os,omitempty"`
	Arch          string `json:"arch,omitempty"`
	QueryCount    int    `json:"query_count,omitempty"`
	SchemaVersion int    `json:"schema_version"`
}

// ServerResult is one server's measurements: raw query durations in ms,
// grouped per benchmark run.
type ServerResult struct {
	Name           string      `json:"name"`
	IP             string      `json:"ip"`
	SystemPosition *int        `json:"system_position,omitempty"`
	IsKeeper       bool        `json:"is_keeper,omitempty"`
	RunDurationsMs [][]float64 `json:"run_durations_ms"`
}

// ResultEnvelope is the root object written as one JSONL line.
type ResultEnvelope struct {
	Meta   *Meta         `json:"meta"`
	Server *ServerResult `json:"server_result"`
}

// NewMeta stamps run metadata for a fresh benchmark run. The run ID is unique
// per call; the run tag groups lines written by the same run.
func NewMeta(runTag string, queryCount int) *Meta {
	hostname, _ := os.Hostname()
	return &Meta{
		TimestampUTC:  time.Now().UTC().Format(time.RFC3339),
		RunID:         uuid.NewString(),
		RunTag:        runTag,
		Hostname:      hostname,
		OS:            runtime.GOOS,
		Arch:          runtime.GOARCH,
		QueryCount:    queryCount,
		SchemaVersion: SchemaVersion,
	}
}

// Nameserver converts the stored identity fields for chart labeling and
// ordering.
func (sr *ServerResult) Nameserver() *nameserver.Nameserver {
	return &nameserver.Nameserver{
		Name:           sr.Name,
		IP:             sr.IP,
		SystemPosition: sr.SystemPosition,
		IsKeeper:       sr.IsKeeper,
	}
}

// RunSet is one benchmark run loaded back from a results file: the servers in
// file order plus the metadata of the run's first line.
type RunSet struct {
	RunTag  string
	Meta    *Meta
	Servers []*ServerResult
}

// LoadOptions filter what Load keeps.
type LoadOptions struct {
	// RunTag selects a specific run. Empty loads the run appended last.
	RunTag string
}

// Load reads a JSONL results file and returns one run. Lines that are
// malformed, have a different schema version, or miss their meta or
// server_result are skipped rather than failing the whole file.
func Load(path string, opts LoadOptions) (*RunSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open results file: %w", err)
	}
	defer f.Close()

	sets := map[string]*RunSet{}
	lastTag := ""
	skipped := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var env ResultEnvelope
		if err := json.Unmarshal(line, &env); err != nil || env.Meta == nil || env.Server == nil {
			skipped++
			continue
		}
		if env.Meta.SchemaVersion != SchemaVersion {
			skipped++
			continue
		}
		if opts.RunTag != "" && env.Meta.RunTag != opts.RunTag {
			continue
		}
		tag := env.Meta.RunTag
		rs, ok := sets[tag]
		if !ok {
			rs = &RunSet{RunTag: tag, Meta: env.Meta}
			sets[tag] = rs
		}
		rs.Servers = append(rs.Servers, env.Server)
		lastTag = tag
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read results file: %w", err)
	}
	if skipped > 0 {
		log.Warnf("skipped %d unusable lines in %s", skipped, path)
	}

	if opts.RunTag != "" {
		rs, ok := sets[opts.RunTag]
		if !ok {
			return nil, fmt.Errorf("%w: run tag %q not found in %s", ErrNoResults, opts.RunTag, path)
		}
		return rs, nil
	}
	rs, ok := sets[lastTag]
	if !ok {
		return nil, fmt.Errorf("%w in %s", ErrNoResults, path)
	}
	return rs, nil
}

// RunData flattens each server's raw durations across runs, the shape the
// distribution line graph consumes.
func (rs *RunSet) RunData() []nameserver.RunData {
	out := make([]nameserver.RunData, 0, len(rs.Servers))
	for _, sr := range rs.Servers {
		var all []float64
		for _, run := range sr.RunDurationsMs {
			all = append(all, run...)
		}
		out = append(out, nameserver.RunData{Server: sr.Nameserver(), Durations: all})
	}
	return out
}

// PerRunAverages reduces each server to one mean duration per run, the shape
// the per-run bar graph consumes. Runs without samples are dropped, so the
// result can be ragged.
func (rs *RunSet) PerRunAverages() []nameserver.RunData {
	out := make([]nameserver.RunData, 0, len(rs.Servers))
	for _, sr := range rs.Servers {
		avgs := make([]float64, 0, len(sr.RunDurationsMs))
		for _, run := range sr.RunDurationsMs {
			if len(run) == 0 {
				continue
			}
			sum := 0.0
			for _, d := range run {
				sum += d
			}
			avgs = append(avgs, sum/float64(len(run)))
		}
		out = append(out, nameserver.RunData{Server: sr.Nameserver(), Durations: avgs})
	}
	return out
}

// FastestRanking returns each server's fastest single response, ordered
// fastest first, the shape the minimum duration bar graph consumes. Servers
// without samples are dropped. Ties keep the default server order.
func (rs *RunSet) FastestRanking() []charts.ServerDuration {
	ranked := make([]charts.ServerDuration, 0, len(rs.Servers))
	for _, sr := range rs.Servers {
		fastest := -1.0
		for _, run := range sr.RunDurationsMs {
			for _, d := range run {
				if fastest < 0 || d < fastest {
					fastest = d
				}
			}
		}
		if fastest < 0 {
			continue
		}
		ranked = append(ranked, charts.ServerDuration{Server: sr.Nameserver(), Duration: fastest})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Duration != ranked[j].Duration {
			return ranked[i].Duration < ranked[j].Duration
		}
		return nameserver.Less(ranked[i].Server, ranked[j].Server)
	})
	return ranked
}
