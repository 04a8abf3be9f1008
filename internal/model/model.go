// Package model defines the shared data types produced and consumed by the
// scanning engine: matches, per-source results, and scan-wide aggregates.
package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Confidence ranks how certain a detector is that value_raw is a genuine
// instance of its PII kind. Ordered: Low < Medium < High.
type Confidence int

const (
	ConfidenceLow Confidence = iota
	ConfidenceMedium
	ConfidenceHigh
)

func (c Confidence) String() string {
	switch c {
	case ConfidenceLow:
		return "low"
	case ConfidenceMedium:
		return "medium"
	case ConfidenceHigh:
		return "high"
	default:
		return "unknown"
	}
}

// ParseConfidence parses the lowercase CLI/config spelling of a Confidence.
func ParseConfidence(s string) (Confidence, bool) {
	switch s {
	case "low":
		return ConfidenceLow, true
	case "medium":
		return ConfidenceMedium, true
	case "high":
		return ConfidenceHigh, true
	default:
		return ConfidenceLow, false
	}
}

// Severity ranks how serious a finding is. Ordered: Low < Medium < High < Critical.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// ParseSeverity parses the lowercase CLI/config spelling of a Severity.
func ParseSeverity(s string) (Severity, bool) {
	switch s {
	case "low":
		return SeverityLow, true
	case "medium":
		return SeverityMedium, true
	case "high":
		return SeverityHigh, true
	case "critical":
		return SeverityCritical, true
	default:
		return SeverityLow, false
	}
}

// Category groups detectors by the kind of data they find.
type Category string

const (
	CategoryNationalID Category = "national_id"
	CategoryFinancial  Category = "financial"
	CategoryPersonal   Category = "personal"
	CategoryMedical    Category = "medical"
	CategorySecret     Category = "secret"
	CategoryCustom     Category = "custom"
)

// GdprArticle9Category names a special category of personal data under
// Article 9 GDPR. The zero value means "not applicable".
type GdprArticle9Category string

const (
	ArticleNone      GdprArticle9Category = ""
	ArticleMedical   GdprArticle9Category = "medical"
	ArticleBiometric GdprArticle9Category = "biometric"
	ArticleGenetic   GdprArticle9Category = "genetic"
	ArticleCriminal  GdprArticle9Category = "criminal"
)

// UniversalCountry is the sentinel value meaning "not tied to one country".
const UniversalCountry = "universal"

// Location pins a Match to a place in its source. The field groups below
// belong to file, database, and HTTP sources; Path carries the item's source
// id for every kind of source.
type Location struct {
	// File sources.
	Path   string `json:"path,omitempty"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`

	// Shared by file and byte-offset-addressable sources.
	ByteOffset int64 `json:"byte_offset"`

	// DB sources.
	TableOrCollection string `json:"table,omitempty"`
	RowKey            string `json:"row_key,omitempty"`
	ColumnOrField     string `json:"column,omitempty"`

	// HTTP API sources.
	URL            string `json:"url,omitempty"`
	Method         string `json:"method,omitempty"`
	ResponseOffset int64  `json:"response_offset,omitempty"`
}

// Match is one detected PII occurrence.
type Match struct {
	ID uuid.UUID `json:"id"`

	DetectorID   string   `json:"detector_id"`
	DetectorName string   `json:"detector_name"`
	Country      string   `json:"country"`
	Category     Category `json:"category"`

	// Brand is set by the credit-card detector to the card network
	// classified from the value's prefix and length (Visa, Mastercard,
	// Amex, Discover); empty for every other detector.
	Brand string `json:"brand,omitempty"`

	ValueRaw    string `json:"-"`
	ValueMasked string `json:"value_masked"`
	ValueHash   string `json:"value_hash,omitempty"`

	Location Location `json:"location"`

	Confidence Confidence `json:"confidence"`
	Severity   Severity   `json:"severity"`

	GdprArticle9Category GdprArticle9Category `json:"gdpr_article9_category,omitempty"`
	ContextSnippet       string               `json:"context_snippet,omitempty"`

	// Start/End are byte offsets into the scanned text blob, used for
	// overlap resolution; not serialized (Location.ByteOffset carries the
	// reporting-facing offset).
	Start int `json:"-"`
	End   int `json:"-"`
}

// MarshalJSON renders Confidence/Severity as their string spellings.
type matchJSON struct {
	ID                   uuid.UUID            `json:"id"`
	DetectorID           string               `json:"detector_id"`
	DetectorName         string               `json:"detector_name"`
	Country              string               `json:"country"`
	Category             Category             `json:"category"`
	Brand                string               `json:"brand,omitempty"`
	ValueMasked          string               `json:"value_masked"`
	ValueHash            string               `json:"value_hash,omitempty"`
	Location             Location             `json:"location"`
	Confidence           string               `json:"confidence"`
	Severity             string               `json:"severity"`
	GdprArticle9Category GdprArticle9Category `json:"gdpr_article9_category,omitempty"`
	ContextSnippet       string               `json:"context_snippet,omitempty"`
}

// MarshalJSON renders Match with Confidence/Severity as their string names.
func (m Match) MarshalJSON() ([]byte, error) {
	return json.Marshal(matchJSON{
		ID:                   m.ID,
		DetectorID:           m.DetectorID,
		DetectorName:         m.DetectorName,
		Country:              m.Country,
		Category:             m.Category,
		Brand:                m.Brand,
		ValueMasked:          m.ValueMasked,
		ValueHash:            m.ValueHash,
		Location:             m.Location,
		Confidence:           m.Confidence.String(),
		Severity:             m.Severity.String(),
		GdprArticle9Category: m.GdprArticle9Category,
		ContextSnippet:       m.ContextSnippet,
	})
}

// UnmarshalJSON parses a Match previously rendered by MarshalJSON. ValueRaw,
// Start and End are not recoverable from the report form and remain zero.
func (m *Match) UnmarshalJSON(data []byte) error {
	var aux matchJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	conf, ok := ParseConfidence(aux.Confidence)
	if !ok {
		return fmt.Errorf("model: unknown confidence %q", aux.Confidence)
	}
	sev, ok := ParseSeverity(aux.Severity)
	if !ok {
		return fmt.Errorf("model: unknown severity %q", aux.Severity)
	}
	m.ID = aux.ID
	m.DetectorID = aux.DetectorID
	m.DetectorName = aux.DetectorName
	m.Country = aux.Country
	m.Category = aux.Category
	m.Brand = aux.Brand
	m.ValueMasked = aux.ValueMasked
	m.ValueHash = aux.ValueHash
	m.Location = aux.Location
	m.Confidence = conf
	m.Severity = sev
	m.GdprArticle9Category = aux.GdprArticle9Category
	m.ContextSnippet = aux.ContextSnippet
	return nil
}

// ExtractionFailure records why a source's document extraction failed.
type ExtractionFailure struct {
	SourceID string `json:"source_id"`
	Reason   string `json:"reason"`
}

// FileResult is the per-source-item outcome of a scan.
type FileResult struct {
	SourceID       string  `json:"source_id"`
	Matches        []Match `json:"matches"`
	ExtractionUsed bool    `json:"extraction_used,omitempty"`
	Error          string  `json:"error,omitempty"`
}

// Stats holds the counters tracked across a scan.
type Stats struct {
	ItemsScanned     int64            `json:"items_scanned"`
	ItemsWithMatches int64            `json:"items_with_matches"`
	TotalMatches     int64            `json:"total_matches"`
	ByDetector       map[string]int64 `json:"by_detector"`
	BySeverity       map[string]int64 `json:"by_severity"`
}

// NewStats returns a Stats with initialized maps.
func NewStats() Stats {
	return Stats{
		ByDetector: map[string]int64{},
		BySeverity: map[string]int64{},
	}
}

// HostSample is one point-in-time host resource reading.
type HostSample struct {
	Timestamp   time.Time `json:"timestamp"`
	CPUPercent  float64   `json:"cpu_percent"`
	MemPercent  float64   `json:"mem_percent"`
	MemUsedMiB  uint64    `json:"mem_used_mib"`
	MemTotalMiB uint64    `json:"mem_total_mib"`
}

// HostStats brackets a scan with resource samples taken at start and end.
type HostStats struct {
	Start HostSample `json:"start"`
	End   HostSample `json:"end"`
}

// ScanResults is the per-invocation aggregate the engine produces.
type ScanResults struct {
	ID        uuid.UUID     `json:"id"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`

	Stats Stats `json:"stats"`

	ExtractedOK        int64               `json:"extracted_ok"`
	ExtractionFailures []ExtractionFailure `json:"extraction_failures"`

	Findings []FileResult `json:"findings"`

	HostStats *HostStats `json:"host_stats,omitempty"`
}

// NewScanResults returns an empty, ready-to-populate ScanResults.
func NewScanResults() *ScanResults {
	return &ScanResults{
		ID:        uuid.New(),
		StartedAt: time.Now(),
		Stats:     NewStats(),
	}
}

// AddFileResult folds one FileResult into the aggregate, recomputing
// counters. A result that is purely an extraction failure (an error, no
// matches, extraction attempted) is counted here but not added to
// Findings; the caller records it separately via AddExtractionFailure.
func (r *ScanResults) AddFileResult(fr FileResult) {
	r.Stats.ItemsScanned++
	if len(fr.Matches) > 0 {
		r.Stats.ItemsWithMatches++
	}
	for _, m := range fr.Matches {
		r.Stats.TotalMatches++
		r.Stats.ByDetector[m.DetectorID]++
		r.Stats.BySeverity[m.Severity.String()]++
	}
	if fr.Error != "" && len(fr.Matches) == 0 && fr.ExtractionUsed {
		return
	}
	r.Findings = append(r.Findings, fr)
}

// AddExtractionFailure records a document-extraction failure.
func (r *ScanResults) AddExtractionFailure(sourceID, reason string) {
	r.ExtractionFailures = append(r.ExtractionFailures, ExtractionFailure{SourceID: sourceID, Reason: reason})
}

// TotalMatches returns the number of matches across all findings, which must
// equal Stats.TotalMatches by construction.
func (r *ScanResults) TotalMatches() int64 {
	var n int64
	for _, fr := range r.Findings {
		n += int64(len(fr.Matches))
	}
	return n
}

// FilterByMinConfidence returns a new ScanResults containing only matches
// with confidence >= level. Counters are recomputed; the receiver is
// untouched.
func (r *ScanResults) FilterByMinConfidence(level Confidence) *ScanResults {
	return r.filterMatches(func(m Match) bool { return m.Confidence >= level })
}

// FilterByCountries returns a new ScanResults containing only matches whose
// country is in the given set, or is the universal sentinel.
func (r *ScanResults) FilterByCountries(countries map[string]struct{}) *ScanResults {
	if len(countries) == 0 {
		return r.filterMatches(func(Match) bool { return true })
	}
	return r.filterMatches(func(m Match) bool {
		if m.Country == UniversalCountry {
			return true
		}
		_, ok := countries[m.Country]
		return ok
	})
}

func (r *ScanResults) filterMatches(keep func(Match) bool) *ScanResults {
	out := &ScanResults{
		ID:                  r.ID,
		StartedAt:           r.StartedAt,
		Duration:            r.Duration,
		Stats:               NewStats(),
		ExtractedOK:         r.ExtractedOK,
		ExtractionFailures:  append([]ExtractionFailure(nil), r.ExtractionFailures...),
		HostStats:           r.HostStats,
	}
	for _, fr := range r.Findings {
		var kept []Match
		for _, m := range fr.Matches {
			if keep(m) {
				kept = append(kept, m)
			}
		}
		nfr := FileResult{SourceID: fr.SourceID, ExtractionUsed: fr.ExtractionUsed, Error: fr.Error, Matches: kept}
		out.Stats.ItemsScanned++
		if len(kept) > 0 {
			out.Stats.ItemsWithMatches++
		}
		for _, m := range kept {
			out.Stats.TotalMatches++
			out.Stats.ByDetector[m.DetectorID]++
			out.Stats.BySeverity[m.Severity.String()]++
		}
		out.Findings = append(out.Findings, nfr)
	}
	return out
}

// DetectorRecord is a registry entry describing one detector.
type DetectorRecord struct {
	ID              string
	Name            string
	Country         string
	Category        Category
	DefaultSeverity Severity
	Enabled         bool
}

// PatternConfig is one regex alternative within a PluginDescriptor.
type PatternConfig struct {
	Pattern     string `toml:"pattern"`
	Confidence  string `toml:"confidence"`
	Description string `toml:"description,omitempty"`
}

// ValidationConfig constrains which pattern matches a PluginDescriptor accepts.
type ValidationConfig struct {
	MinLength       int    `toml:"min_length,omitempty"`
	MaxLength       int    `toml:"max_length,omitempty"`
	RequiredPrefix  string `toml:"required_prefix,omitempty"`
	RequiredSuffix  string `toml:"required_suffix,omitempty"`
	Checksum        string `toml:"checksum,omitempty"`
}

// PluginDescriptor is the declarative detector definition loaded from a
// `.detector.toml` file.
type PluginDescriptor struct {
	ID          string   `toml:"id"`
	Name        string   `toml:"name"`
	Country     string   `toml:"country"`
	Category    string   `toml:"category"`
	Description string   `toml:"description,omitempty"`
	Severity    string   `toml:"severity"`

	Patterns []PatternConfig `toml:"patterns"`

	Validation *ValidationConfig `toml:"validation,omitempty"`

	Examples        []string `toml:"examples,omitempty"`
	ContextKeywords []string `toml:"context_keywords,omitempty"`
}
