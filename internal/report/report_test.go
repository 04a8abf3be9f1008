package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/hemlocksec/pii-radar/internal/model"
)

func sampleResults() *model.ScanResults {
	r := model.NewScanResults()
	r.AddFileResult(model.FileResult{
		SourceID: "med.txt",
		Matches: []model.Match{
			{
				DetectorID:           "nl_bsn",
				DetectorName:         "Dutch BSN",
				Country:              "NL",
				Category:             model.CategoryNationalID,
				ValueMasked:          "111****33",
				Confidence:           model.ConfidenceHigh,
				Severity:             model.SeverityCritical,
				GdprArticle9Category: model.ArticleMedical,
				Location:             model.Location{Path: "med.txt", Line: 1, Column: 22},
			},
		},
	})
	r.AddExtractionFailure("corrupt.pdf", "corrupted file")
	return r
}

func TestWriteJSONProducesExpectedShape(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleResults(), false); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decoding JSON report: %v", err)
	}
	for _, key := range []string{"scan", "stats", "extraction", "findings"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("expected top-level key %q in JSON report", key)
		}
	}
	scan := decoded["scan"].(map[string]interface{})
	if _, ok := scan["started_at"]; !ok {
		t.Errorf("expected scan.started_at")
	}
	if _, ok := scan["duration_ms"]; !ok {
		t.Errorf("expected scan.duration_ms")
	}
}

func TestWriteCSVHasExactColumnOrder(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleResults()); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}
	r := csv.NewReader(&buf)
	rows, err := r.ReadAll()
	if err != nil {
		t.Fatalf("reading CSV: %v", err)
	}
	want := []string{"source", "line", "column", "detector_id", "country", "category", "confidence", "severity", "gdpr_article9", "value_masked"}
	if len(rows) < 2 {
		t.Fatalf("expected header + at least 1 data row, got %d rows", len(rows))
	}
	for i, col := range want {
		if rows[0][i] != col {
			t.Errorf("header[%d] = %q, want %q", i, rows[0][i], col)
		}
	}
	if rows[1][0] != "med.txt" || rows[1][9] != "111****33" {
		t.Errorf("unexpected data row: %v", rows[1])
	}
}

func TestWriteTerminalMentionsMatchesAndFailures(t *testing.T) {
	var buf bytes.Buffer
	WriteTerminal(&buf, sampleResults(), true)
	out := buf.String()
	if !strings.Contains(out, "med.txt") {
		t.Errorf("expected terminal output to mention med.txt, got %q", out)
	}
	if !strings.Contains(out, "corrupt.pdf") {
		t.Errorf("expected terminal output to mention the extraction failure, got %q", out)
	}
}

func TestWriteHTMLProducesValidMarkup(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteHTML(&buf, sampleResults()); err != nil {
		t.Fatalf("WriteHTML() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "<html") {
		t.Errorf("expected HTML output to contain an <html> tag")
	}
	if !strings.Contains(out, "med.txt") {
		t.Errorf("expected HTML output to mention med.txt")
	}
}
