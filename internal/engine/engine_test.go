package engine

import (
	"context"
	"testing"

	"github.com/hemlocksec/pii-radar/internal/allowlist"
	"github.com/hemlocksec/pii-radar/internal/detect"
	"github.com/hemlocksec/pii-radar/internal/detect/builtin"
	"github.com/hemlocksec/pii-radar/internal/model"
)

type stubItem struct {
	id   string
	text string
	err  error
}

func (s stubItem) SourceID() string             { return s.id }
func (s stubItem) Text() (string, error)        { return s.text, s.err }
func (s stubItem) Location() detect.LocationContext {
	return detect.LocationContext{SourceID: s.id}
}
func (s stubItem) ExtractionUsed() bool { return false }

func newBuiltinRegistry(t *testing.T, detectors ...detect.Detector) *detect.Registry {
	t.Helper()
	reg := detect.NewRegistry()
	for _, d := range detectors {
		if err := reg.Register(d); err != nil {
			t.Fatalf("Register() error = %v", err)
		}
	}
	return reg
}

func runOne(t *testing.T, reg *detect.Registry, opts Options, text string) []model.Match {
	t.Helper()
	opts.DisableContext = true
	e := New(reg, opts)
	items := make(chan Item, 1)
	items <- stubItem{id: "mem://1", text: text}
	close(items)
	results := e.Scan(context.Background(), items)
	if len(results.Findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(results.Findings))
	}
	return results.Findings[0].Matches
}

func TestScanFindsValidatedNationalID(t *testing.T) {
	reg := newBuiltinRegistry(t, builtin.NLBSNDetector())
	matches := runOne(t, reg, Options{Workers: 2}, "Account number 111222333 was updated on file.")
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].ValueMasked != "111****33" {
		t.Errorf("ValueMasked = %q, want %q", matches[0].ValueMasked, "111****33")
	}
}

func TestContextAnalyzerUpgradesSeverity(t *testing.T) {
	reg := newBuiltinRegistry(t, builtin.NLBSNDetector())
	e := New(reg, Options{Workers: 1})
	items := make(chan Item, 1)
	items <- stubItem{id: "mem://1", text: "Patient John Doe BSN 111222333 diagnosed with diabetes."}
	close(items)
	results := e.Scan(context.Background(), items)
	matches := results.Findings[0].Matches
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Severity != model.SeverityCritical {
		t.Errorf("Severity = %v, want Critical", matches[0].Severity)
	}
	if matches[0].GdprArticle9Category != model.ArticleMedical {
		t.Errorf("GdprArticle9Category = %v, want medical", matches[0].GdprArticle9Category)
	}
}

func TestAllowlistSuppressesKnownValue(t *testing.T) {
	reg := newBuiltinRegistry(t, builtin.NLBSNDetector())
	matches := runOne(t, reg, Options{Workers: 1, Allowlist: mustAllowlist("111222333")}, "Account number 111222333 was updated on file.")
	if len(matches) != 0 {
		t.Fatalf("expected allowlisted value to be suppressed, got %d matches", len(matches))
	}
}

func mustAllowlist(values ...string) *allowlist.Allowlist {
	a := allowlist.New()
	for _, v := range values {
		a.Add(v)
	}
	return a
}

func TestMinConfidenceFiltersLowConfidenceMatches(t *testing.T) {
	reg := newBuiltinRegistry(t, builtin.EmailDetector())
	matches := runOne(t, reg, Options{Workers: 1, MinConfidence: model.ConfidenceHigh}, "contact jane@example.com for details")
	if len(matches) != 0 {
		t.Fatalf("expected medium-confidence email match to be filtered out, got %d", len(matches))
	}

	matches = runOne(t, reg, Options{Workers: 1, MinConfidence: model.ConfidenceMedium}, "contact jane@example.com for details")
	if len(matches) != 1 {
		t.Fatalf("expected email match to survive at its own confidence level, got %d", len(matches))
	}
}

func TestCountryFilterKeepsUniversalDetectors(t *testing.T) {
	reg := newBuiltinRegistry(t, builtin.NLBSNDetector(), builtin.IBANDetector())
	matches := runOne(t, reg, Options{
		Workers:   1,
		Countries: map[string]struct{}{"DE": {}},
	}, "IBAN NL91ABNA0417164300 on file.")
	if len(matches) != 1 {
		t.Fatalf("expected universal IBAN detector to still fire, got %d matches", len(matches))
	}
}

func TestResolveOverlapsPrefersHigherConfidence(t *testing.T) {
	order := []string{"low_conf", "high_conf"}
	matches := []model.Match{
		{DetectorID: "low_conf", Confidence: model.ConfidenceMedium, Start: 0, End: 10},
		{DetectorID: "high_conf", Confidence: model.ConfidenceHigh, Start: 2, End: 8},
	}
	kept := resolveOverlaps(matches, order)
	if len(kept) != 1 || kept[0].DetectorID != "high_conf" {
		t.Fatalf("expected the higher-confidence match to win, got %+v", kept)
	}
}

func TestResolveOverlapsPrefersLongerSpanOnTie(t *testing.T) {
	order := []string{"short", "long"}
	matches := []model.Match{
		{DetectorID: "short", Confidence: model.ConfidenceHigh, Start: 0, End: 4},
		{DetectorID: "long", Confidence: model.ConfidenceHigh, Start: 0, End: 10},
	}
	kept := resolveOverlaps(matches, order)
	if len(kept) != 1 || kept[0].DetectorID != "long" {
		t.Fatalf("expected the longer span to win, got %+v", kept)
	}
}

func TestResolveOverlapsPrefersEarlierRegistryOrderOnFullTie(t *testing.T) {
	order := []string{"first", "second"}
	matches := []model.Match{
		{DetectorID: "second", Confidence: model.ConfidenceHigh, Start: 0, End: 10},
		{DetectorID: "first", Confidence: model.ConfidenceHigh, Start: 0, End: 10},
	}
	kept := resolveOverlaps(matches, order)
	if len(kept) != 1 || kept[0].DetectorID != "first" {
		t.Fatalf("expected the earlier-registered detector to win, got %+v", kept)
	}
}

func TestResolveOverlapsKeepsNonOverlappingMatches(t *testing.T) {
	order := []string{"a", "b"}
	matches := []model.Match{
		{DetectorID: "a", Confidence: model.ConfidenceHigh, Start: 0, End: 5},
		{DetectorID: "b", Confidence: model.ConfidenceHigh, Start: 20, End: 25},
	}
	kept := resolveOverlaps(matches, order)
	if len(kept) != 2 {
		t.Fatalf("expected both disjoint matches to survive, got %d", len(kept))
	}
}

func TestScanIsDeterministicAcrossWorkerCounts(t *testing.T) {
	reg := newBuiltinRegistry(t, builtin.NLBSNDetector(), builtin.IBANDetector())
	text := "BSN 111222333 and IBAN NL91ABNA0417164300 both present."

	var baseline []model.Match
	for _, workers := range []int{1, 2, 8} {
		e := New(reg, Options{Workers: workers, DisableContext: true})
		items := make(chan Item, 1)
		items <- stubItem{id: "mem://1", text: text}
		close(items)
		results := e.Scan(context.Background(), items)
		got := results.Findings[0].Matches
		if baseline == nil {
			baseline = got
			continue
		}
		if len(got) != len(baseline) {
			t.Fatalf("worker count %d produced %d matches, want %d", workers, len(got), len(baseline))
		}
	}
}

func TestScanRecordsExtractionFailure(t *testing.T) {
	reg := newBuiltinRegistry(t, builtin.NLBSNDetector())
	e := New(reg, Options{Workers: 1})
	items := make(chan Item, 1)
	items <- extractionFailureItem{id: "file://broken.pdf"}
	close(items)
	results := e.Scan(context.Background(), items)
	if len(results.ExtractionFailures) != 1 {
		t.Fatalf("expected 1 extraction failure, got %d", len(results.ExtractionFailures))
	}
	if results.ExtractionFailures[0].SourceID != "file://broken.pdf" {
		t.Errorf("SourceID = %q, want file://broken.pdf", results.ExtractionFailures[0].SourceID)
	}
}

type extractionFailureItem struct{ id string }

func (e extractionFailureItem) SourceID() string { return e.id }
func (e extractionFailureItem) Text() (string, error) {
	return "", &extractErr{"corrupted file"}
}
func (e extractionFailureItem) Location() detect.LocationContext {
	return detect.LocationContext{SourceID: e.id}
}
func (e extractionFailureItem) ExtractionUsed() bool { return true }

type extractErr struct{ msg string }

func (e *extractErr) Error() string { return e.msg }
