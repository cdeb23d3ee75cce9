// nbchart renders latency charts and HTML reports from nameserver benchmark
// results stored as JSONL.
//
// Examples:
//
//	nbchart demo --servers 6 --runs 3
//	nbchart render --file namebench_results.jsonl --out report.html
//	nbchart render --format svg --scale 150 --print-uris
//	nbchart inspect --file namebench_results.jsonl
//	NBCHART_FILE=run.jsonl nbchart render
package main

import (
	"fmt"
	"html/template"
	"math"
	"math/rand"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ognjen011/namebench3/src/charts"
	"github.com/ognjen011/namebench3/src/logging"
	"github.com/ognjen011/namebench3/src/nameserver"
	"github.com/ognjen011/namebench3/src/render"
	"github.com/ognjen011/namebench3/src/report"
	"github.com/ognjen011/namebench3/src/results"
	"github.com/ognjen011/namebench3/src/stats"
)

var version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "nbchart",
	Short: "Charts and reports for nameserver benchmark results",
	Long: `nbchart turns JSONL benchmark results into latency charts (bar graphs
and cumulative distribution lines) and a self-contained HTML report.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.SetLevel(viper.GetString("log_level"))
	},
	Run: func(cmd *cobra.Command, args []string) {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Printf("nbchart version %s\n", version)
			return
		}
		cmd.Help()
	},
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render charts and an HTML report from a results file",
	RunE:  runRender,
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Write a synthetic benchmark run for trying out the renderer",
	RunE:  runDemo,
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print a latency summary table for a results file",
	RunE:  runInspect,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("file", results.DefaultResultsFile, "results file (JSONL)")
	pf.String("run-tag", "", "run tag to select; latest run when empty")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")

	viper.BindPFlag("file", pf.Lookup("file"))
	viper.BindPFlag("run_tag", pf.Lookup("run-tag"))
	viper.BindPFlag("log_level", pf.Lookup("log-level"))

	rf := renderCmd.Flags()
	rf.String("out", "namebench_report.html", "HTML report output path")
	rf.String("format", "png", "chart format: png or svg")
	rf.Float64("scale", 0, "duration axis maximum in ms; 0 derives it from the data")
	rf.Float64("duration-chunk", charts.DefaultDurationChunk, "distribution compression step in ms")
	rf.Float64("percent-chunk", charts.DefaultPercentChunk, "minimum percentage movement per distribution point")
	rf.String("footer", "", "text stamped on png charts")
	rf.String("geoip-db", "", "GeoIP database for country-annotated server names")
	rf.Bool("print-uris", false, "print chart data URIs instead of writing a report")
	viper.BindPFlag("out", rf.Lookup("out"))
	viper.BindPFlag("format", rf.Lookup("format"))
	viper.BindPFlag("footer", rf.Lookup("footer"))
	viper.BindPFlag("geoip_db", rf.Lookup("geoip-db"))

	df := demoCmd.Flags()
	df.Int("servers", 6, "number of synthetic servers")
	df.Int("runs", 3, "benchmark runs per server")
	df.Int("queries", 40, "queries per run")
	df.Int64("seed", 1, "random seed")

	viper.SetEnvPrefix("nbchart")
	viper.AutomaticEnv()

	rootCmd.AddCommand(renderCmd, demoCmd, inspectCmd)
}

func newRenderer(format, footer string) (render.Renderer, error) {
	switch strings.ToLower(format) {
	case "png":
		return &render.GoChart{Footer: footer}, nil
	case "svg":
		if footer != "" {
			log.Warnf("footer text is only stamped on png output")
		}
		return render.GonumPlot{}, nil
	default:
		return nil, fmt.Errorf("unknown chart format %q (want png or svg)", format)
	}
}

// annotateCountries rewrites server names to "name (CC)" using a GeoIP
// database. Lookup failures leave names alone.
func annotateCountries(rs *results.RunSet, dbPath string) {
	for _, sr := range rs.Servers {
		ns := sr.Nameserver()
		if ns.AnnotateCountry(dbPath) {
			sr.Name = ns.Name
		}
	}
}

func runRender(cmd *cobra.Command, args []string) error {
	defer logging.TimeTrack(time.Now(), "render")

	rs, err := results.Load(viper.GetString("file"), results.LoadOptions{RunTag: viper.GetString("run_tag")})
	if err != nil {
		return err
	}
	log.Infof("loaded run %q with %d servers", rs.RunTag, len(rs.Servers))

	if db := viper.GetString("geoip_db"); db != "" {
		annotateCountries(rs, db)
	}

	renderer, err := newRenderer(viper.GetString("format"), viper.GetString("footer"))
	if err != nil {
		return err
	}
	durationChunk, _ := cmd.Flags().GetFloat64("duration-chunk")
	percentChunk, _ := cmd.Flags().GetFloat64("percent-chunk")
	scale, _ := cmd.Flags().GetFloat64("scale")
	gen := charts.NewGenerator(renderer, charts.WithChunks(durationChunk, percentChunk))

	meanURI, err := gen.PerRunDurationBarGraph(rs.PerRunAverages(), scale)
	if err != nil {
		return err
	}
	fastURI, err := gen.MinimumDurationBarGraph(rs.FastestRanking(), scale)
	if err != nil {
		return err
	}
	distURI, err := gen.DistributionLineGraph(rs.RunData(), scale, nil)
	if err != nil {
		return err
	}

	if printURIs, _ := cmd.Flags().GetBool("print-uris"); printURIs {
		fmt.Printf("mean_duration_per_run: %s\n", meanURI)
		fmt.Printf("fastest_response: %s\n", fastURI)
		fmt.Printf("duration_distribution: %s\n", distURI)
		return nil
	}

	data := report.NewData(rs.Meta, stats.SummarizeAll(rs.RunData()))
	data.MeanDurationsURI = template.URL(meanURI)
	data.FastestURI = template.URL(fastURI)
	data.DistributionURI = template.URL(distURI)

	out := viper.GetString("out")
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer f.Close()
	if err := report.Write(f, data); err != nil {
		return err
	}
	log.Infof("report written to %s", out)
	return nil
}

func runDemo(cmd *cobra.Command, args []string) error {
	servers, _ := cmd.Flags().GetInt("servers")
	runCount, _ := cmd.Flags().GetInt("runs")
	queries, _ := cmd.Flags().GetInt("queries")
	seed, _ := cmd.Flags().GetInt64("seed")
	if servers < 1 || runCount < 1 || queries < 1 {
		return fmt.Errorf("servers, runs, and queries must all be at least 1")
	}

	runTag := viper.GetString("run_tag")
	if runTag == "" {
		runTag = time.Now().Format("20060102_150405")
	}
	path := viper.GetString("file")

	results.InitResultWriter(path)
	defer results.CloseResultWriter()

	meta := results.NewMeta(runTag, queries)
	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < servers; i++ {
		sr := demoServer(i, runCount, queries, rng)
		results.WriteResult(&results.ResultEnvelope{Meta: meta, Server: sr})
	}
	log.Infof("wrote %d servers to %s (run tag %s)", servers, path, runTag)
	fmt.Printf("Demo run %s written. Render it with:\n  nbchart render --file %s --run-tag %s\n", runTag, path, runTag)
	return nil
}

var demoSeeds = []struct {
	name string
	ip   string
}{
	{"Local resolver", "192.168.1.1"},
	{"Google Public DNS", "8.8.8.8"},
	{"Cloudflare", "1.1.1.1"},
	{"Quad9", "9.9.9.9"},
	{"OpenDNS", "208.67.222.222"},
	{"Level 3", "4.2.2.1"},
}

func demoServer(i, runCount, queries int, rng *rand.Rand) *results.ServerResult {
	seed := demoSeeds[i%len(demoSeeds)]
	name := seed.name
	ip := seed.ip
	if i >= len(demoSeeds) {
		name = fmt.Sprintf("%s %d", seed.name, i/len(demoSeeds)+1)
		ip = fmt.Sprintf("10.20.%d.%d", i/250, i%250+1)
	}

	base := 6 + float64(i)*7 + rng.Float64()*4
	durations := make([][]float64, runCount)
	for r := range durations {
		qs := make([]float64, queries)
		for q := range qs {
			d := base + rng.NormFloat64()*base/4
			if d < 1 {
				d = 1
			}
			qs[q] = math.Round(d*100) / 100
		}
		durations[r] = qs
	}

	sr := &results.ServerResult{Name: name, IP: ip, RunDurationsMs: durations}
	if i == 0 {
		pos := 0
		sr.SystemPosition = &pos
		sr.IsKeeper = true
	}
	return sr
}

func runInspect(cmd *cobra.Command, args []string) error {
	rs, err := results.Load(viper.GetString("file"), results.LoadOptions{RunTag: viper.GetString("run_tag")})
	if err != nil {
		return err
	}

	if m := rs.Meta; m != nil {
		fmt.Printf("Run %s (%s on %s/%s, %d queries per run, id %s)\n",
			rs.RunTag, m.Hostname, m.OS, m.Arch, m.QueryCount, m.RunID)
	} else {
		fmt.Printf("Run %s\n", rs.RunTag)
	}

	summaries := stats.SummarizeAll(rs.RunData())
	if len(summaries) == 0 {
		fmt.Println("No samples recorded.")
		return nil
	}
	fmt.Printf("%-26s %-16s %8s %8s %8s %8s %8s %8s %8s\n",
		"SERVER", "IP", "SAMPLES", "MIN", "MEAN", "P50", "P90", "P99", "MAX")
	for _, s := range summaries {
		fmt.Printf("%-26s %-16s %8d %8.1f %8.1f %8.1f %8.1f %8.1f %8.1f\n",
			label(s.Server), s.Server.IP, s.Count, s.Min, s.Mean, s.P50, s.P90, s.P99, s.Max)
	}

	fastest := rs.FastestRanking()
	if len(fastest) > 0 {
		fmt.Printf("\nFastest response: %s (%.1f ms)\n", fastest[0].Server.Label(), fastest[0].Duration)
	}
	return nil
}

func label(ns *nameserver.Nameserver) string {
	l := ns.Label()
	if len(l) > 26 {
		return l[:23] + "..."
	}
	return l
}
