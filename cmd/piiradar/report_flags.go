package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/hemlocksec/pii-radar/internal/allowlist"
	"github.com/hemlocksec/pii-radar/internal/config"
	"github.com/hemlocksec/pii-radar/internal/engine"
	"github.com/hemlocksec/pii-radar/internal/model"
	"github.com/hemlocksec/pii-radar/internal/report"
)

// reportFlags holds the flags shared by every reporting subcommand
// (scan, scan-db, api): output format, destination, confidence/country
// filters, and the ambient config/plugin-dir overrides.
type reportFlags struct {
	format        *string
	output        *string
	countries     *string
	minConfidence *string
	noContext     *bool
	noProgress    *bool
	fullPaths     *bool
	pluginDir     *string
	configPath    *string
	allowlistPath *string
	workers       *int
}

func addReportFlags(fs *flag.FlagSet) *reportFlags {
	return &reportFlags{
		format:        fs.String("format", "terminal", "output format: terminal|json|json-compact|html|csv"),
		output:        fs.String("output", "", "output file (default stdout)"),
		countries:     fs.String("countries", "", "comma-separated ISO country codes to restrict findings to"),
		minConfidence: fs.String("min-confidence", "low", "minimum confidence to report: low|medium|high"),
		noContext:     fs.Bool("no-context", false, "disable the GDPR Article 9 context analyzer"),
		noProgress:    fs.Bool("no-progress", false, "disable progress output"),
		fullPaths:     fs.Bool("full-paths", false, "print full source paths in terminal output"),
		pluginDir:     fs.String("plugin-dir", "", "directory of .detector.toml plugin descriptors"),
		configPath:    fs.String("config", "", "path to a piiradar configuration file"),
		allowlistPath: fs.String("allowlist", "", "path to a newline-delimited value allowlist"),
		workers:       fs.Int("j", 0, "number of worker goroutines (default: number of CPUs)"),
	}
}

// resolve applies config-file/environment fallbacks for flags not set on
// the command line, honoring CLI > config file > environment > defaults.
func (r *reportFlags) resolve(cfg *config.File) {
	if *r.pluginDir == "" {
		*r.pluginDir = cfg.String("plugin-dir", os.Getenv(config.PluginDirEnvVar))
	}
	if *r.minConfidence == "low" {
		*r.minConfidence = cfg.String("min-confidence", *r.minConfidence)
	}
}

func (r *reportFlags) engineOptions() (engine.Options, error) {
	conf, ok := model.ParseConfidence(*r.minConfidence)
	if !ok {
		return engine.Options{}, fmt.Errorf("invalid --min-confidence %q", *r.minConfidence)
	}

	var al *allowlist.Allowlist
	var err error
	if *r.allowlistPath != "" {
		al, err = allowlist.Load(*r.allowlistPath)
		if err != nil {
			return engine.Options{}, err
		}
	}

	opts := engine.Options{
		Workers:        *r.workers,
		MinConfidence:  conf,
		Countries:      parseCountries(*r.countries),
		DisableContext: *r.noContext,
		Allowlist:      al,
	}
	if !*r.noProgress {
		opts.Progress = func(processed, total int) {
			fmt.Fprintf(os.Stderr, "\rscanned %d items", processed)
		}
	}
	return opts, nil
}

func parseCountries(csv string) map[string]struct{} {
	if csv == "" {
		return nil
	}
	out := map[string]struct{}{}
	for _, c := range strings.Split(csv, ",") {
		c = strings.TrimSpace(strings.ToUpper(c))
		if c != "" {
			out[c] = struct{}{}
		}
	}
	return out
}

// writeReport renders results per the chosen format to the chosen
// destination and returns whether any match was found.
func (r *reportFlags) writeReport(results *model.ScanResults) (bool, error) {
	var w = os.Stdout
	if *r.output != "" {
		f, err := os.Create(*r.output)
		if err != nil {
			return false, fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	var err error
	switch *r.format {
	case "terminal":
		report.WriteTerminal(w, results, *r.fullPaths)
	case "json":
		err = report.WriteJSON(w, results, false)
	case "json-compact":
		err = report.WriteJSON(w, results, true)
	case "html":
		err = report.WriteHTML(w, results)
	case "csv":
		err = report.WriteCSV(w, results)
	default:
		err = fmt.Errorf("unknown --format %q", *r.format)
	}
	if err != nil {
		return false, err
	}
	return results.TotalMatches() > 0, nil
}
