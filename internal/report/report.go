// Package report renders a completed scan as JSON, CSV, HTML, or a
// human-readable terminal summary, via encoding/json and html/template,
// with counts and durations rendered through dustin/go-humanize in the
// terminal summary only (the HTML page shows the raw duration, and the
// JSON/CSV machine formats stay exact, unhumanized).
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/hemlocksec/pii-radar/internal/model"
)

// jsonReport is the on-disk shape of the JSON report: scan.*, stats.*,
// extraction.*, findings[].
type jsonReport struct {
	Scan struct {
		ID         string    `json:"id"`
		StartedAt  time.Time `json:"started_at"`
		DurationMS int64     `json:"duration_ms"`
	} `json:"scan"`
	Stats      model.Stats `json:"stats"`
	Extraction struct {
		ExtractedOK int64                     `json:"extracted_ok"`
		Failures    []model.ExtractionFailure `json:"failures"`
	} `json:"extraction"`
	Findings  []model.FileResult `json:"findings"`
	HostStats *model.HostStats   `json:"host_stats,omitempty"`
}

func toJSONReport(r *model.ScanResults) jsonReport {
	var out jsonReport
	out.Scan.ID = r.ID.String()
	out.Scan.StartedAt = r.StartedAt
	out.Scan.DurationMS = r.Duration.Milliseconds()
	out.Stats = r.Stats
	out.Extraction.ExtractedOK = r.ExtractedOK
	out.Extraction.Failures = r.ExtractionFailures
	out.Findings = r.Findings
	out.HostStats = r.HostStats
	return out
}

// WriteJSON encodes r as the persisted JSON report shape. compact disables
// indentation (the `json-compact` format).
func WriteJSON(w io.Writer, r *model.ScanResults, compact bool) error {
	enc := json.NewEncoder(w)
	if !compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(toJSONReport(r))
}

// csvHeader is the fixed CSV column order.
var csvHeader = []string{
	"source", "line", "column", "detector_id", "country", "category",
	"confidence", "severity", "gdpr_article9", "value_masked",
}

// WriteCSV writes one row per match across every finding, in the column
// order used by the report.
func WriteCSV(w io.Writer, r *model.ScanResults) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, fr := range r.Findings {
		for _, m := range fr.Matches {
			row := []string{
				fr.SourceID,
				fmt.Sprintf("%d", m.Location.Line),
				fmt.Sprintf("%d", m.Location.Column),
				m.DetectorID,
				m.Country,
				string(m.Category),
				m.Confidence.String(),
				m.Severity.String(),
				string(m.GdprArticle9Category),
				m.ValueMasked,
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTerminal renders a short, human-readable summary to w using
// fmt.Printf-style lines and go-humanize for durations and counts.
func WriteTerminal(w io.Writer, r *model.ScanResults, fullPaths bool) {
	fmt.Fprintf(w, "Scanned %s items (%s with matches) in %s\n",
		humanize.Comma(r.Stats.ItemsScanned),
		humanize.Comma(r.Stats.ItemsWithMatches),
		humanize.RelTime(r.StartedAt, r.StartedAt.Add(r.Duration), "", ""))
	fmt.Fprintf(w, "Total matches: %s\n", humanize.Comma(r.Stats.TotalMatches))

	for _, fr := range r.Findings {
		if len(fr.Matches) == 0 {
			continue
		}
		source := fr.SourceID
		if !fullPaths {
			source = filepath.Base(source)
		}
		fmt.Fprintf(w, "\n[FOUND] %s: %d match(es)\n", source, len(fr.Matches))
		for _, m := range fr.Matches {
			fmt.Fprintf(w, "  - %s (%s, %s) %s at line %d\n",
				m.DetectorName, m.Confidence, m.Severity, m.ValueMasked, m.Location.Line)
		}
	}

	if len(r.ExtractionFailures) > 0 {
		fmt.Fprintf(w, "\nExtraction failures:\n")
		for _, f := range r.ExtractionFailures {
			fmt.Fprintf(w, "  - %s: %s\n", f.SourceID, f.Reason)
		}
	}
}
