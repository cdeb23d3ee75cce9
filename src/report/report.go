// Package report renders a self-contained HTML page from one benchmark run:
// the three charts inline as data URIs plus a latency summary table.
package report

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/ognjen011/namebench3/src/results"
	"github.com/ognjen011/namebench3/src/stats"
)

// Data is the view model for one report page. Chart fields are data URIs;
// empty ones drop their section. They are typed template.URL because
// html/template treats data: URLs as unsafe by default.
type Data struct {
	Title            string
	GeneratedAt      string
	Meta             *results.Meta
	Summaries        []stats.Summary
	MeanDurationsURI template.URL
	FastestURI       template.URL
	DistributionURI  template.URL
}

// NewData assembles the view model with a timestamped default title.
func NewData(meta *results.Meta, summaries []stats.Summary) Data {
	title := "Nameserver benchmark"
	if meta != nil && meta.RunTag != "" {
		title = fmt.Sprintf("Nameserver benchmark %s", meta.RunTag)
	}
	return Data{
		Title:       title,
		GeneratedAt: time.Now().Format("2006-01-02 15:04:05"),
		Meta:        meta,
		Summaries:   summaries,
	}
}

// Write renders the report page to w.
func Write(w io.Writer, data Data) error {
	if err := reportTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

var reportTemplate = template.Must(template.New("benchmark-report").Parse(reportTemplateHTML))

const reportTemplateHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>{{ .Title }}</title>
  <style>
    body { font-family: "Helvetica Neue", Arial, sans-serif; margin: 2em auto; max-width: 860px; color: #222; }
    h1 { font-size: 1.5em; }
    h2 { font-size: 1.15em; margin-top: 2em; }
    .meta { color: #666; font-size: 0.85em; }
    img { max-width: 100%; border: 1px solid #ddd; padding: 4px; background: #fff; }
    table { border-collapse: collapse; width: 100%; margin-top: 0.8em; }
    th, td { border: 1px solid #ccc; padding: 4px 8px; text-align: right; font-size: 0.9em; }
    th { background: #f0f4f8; }
    td:first-child, th:first-child { text-align: left; }
  </style>
</head>
<body>
  <h1>{{ .Title }}</h1>
  <p class="meta">Generated {{ .GeneratedAt }}{{ with .Meta }} &middot; host {{ .Hostname }} ({{ .OS }}/{{ .Arch }}) &middot; {{ .QueryCount }} queries per run &middot; run {{ .RunID }}{{ end }}</p>

{{ if .MeanDurationsURI }}
  <h2>Mean response duration per run</h2>
  <img src="{{ .MeanDurationsURI }}" alt="Mean duration per run">
{{ end }}

{{ if .FastestURI }}
  <h2>Fastest individual response</h2>
  <img src="{{ .FastestURI }}" alt="Fastest response ranking">
{{ end }}

{{ if .DistributionURI }}
  <h2>Response duration distribution</h2>
  <img src="{{ .DistributionURI }}" alt="Cumulative duration distribution">
{{ end }}

{{ if .Summaries }}
  <h2>Latency summary (ms)</h2>
  <table>
    <tr><th>Server</th><th>Samples</th><th>Min</th><th>Mean</th><th>P50</th><th>P90</th><th>P99</th><th>Max</th></tr>
  {{ range .Summaries }}
    <tr>
      <td>{{ .Server.Label }}</td>
      <td>{{ .Count }}</td>
      <td>{{ printf "%.1f" .Min }}</td>
      <td>{{ printf "%.1f" .Mean }}</td>
      <td>{{ printf "%.1f" .P50 }}</td>
      <td>{{ printf "%.1f" .P90 }}</td>
      <td>{{ printf "%.1f" .P99 }}</td>
      <td>{{ printf "%.1f" .Max }}</td>
    </tr>
  {{ end }}
  </table>
{{ end }}
</body>
</html>
`
