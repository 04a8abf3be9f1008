// Package artcontext implements the context analyzer: a bounded-window
// scan around each match for GDPR Article 9 special-category keywords,
// applying a first-match-wins category order when keyword categories
// overlap within one window (see DESIGN.md).
package artcontext

import (
	"strings"
	"unicode"

	"github.com/hemlocksec/pii-radar/internal/mask"
	"github.com/hemlocksec/pii-radar/internal/model"
)

// DefaultWindow is the number of characters searched on each side of a
// match when no configured window is given.
const DefaultWindow = 120

var medicalKeywords = []string{
	"patient", "diagnos", "treatment", "medical", "clinic", "hospital",
	"prescription", "disease",
}

var biometricKeywords = []string{
	"fingerprint", "biometric", "facial recognition", "iris scan",
}

var geneticKeywords = []string{
	"dna", "genome", "genetic test", "chromosom",
}

var criminalKeywords = []string{
	"conviction", "criminal record", "offense", "arrest", "sentence",
}

// category pairs a GDPR Article 9 category with its keyword set, checked
// in fixed precedence order: Medical, then Biometric, then Genetic, then
// Criminal.
type category struct {
	name     model.GdprArticle9Category
	keywords []string
}

var categories = []category{
	{model.ArticleMedical, medicalKeywords},
	{model.ArticleBiometric, biometricKeywords},
	{model.ArticleGenetic, geneticKeywords},
	{model.ArticleCriminal, criminalKeywords},
}

func containsAny(haystack string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(haystack, kw) {
			return true
		}
	}
	return false
}

// Analyzer searches a bounded window of text around a match for Article 9
// keywords and decides the severity upgrade policy.
type Analyzer struct {
	window int
}

// NewAnalyzer returns an Analyzer using the given window size. A
// non-positive window falls back to DefaultWindow.
func NewAnalyzer(window int) *Analyzer {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Analyzer{window: window}
}

// Analyze inspects the window of text around [start, end) and returns the
// first matched Article 9 category (model.ArticleNone if no category
// matched) along with a context snippet with the matched value masked.
func (a *Analyzer) Analyze(text string, start, end int, rawValue string) (model.GdprArticle9Category, string) {
	winStart := start - a.window
	if winStart < 0 {
		winStart = 0
	}
	winEnd := end + a.window
	if winEnd > len(text) {
		winEnd = len(text)
	}
	window := text[winStart:winEnd]
	lower := strings.ToLower(window)

	var matched model.GdprArticle9Category
	for _, c := range categories {
		if containsAny(lower, c.keywords) {
			matched = c.name
			break
		}
	}

	snippet := maskSnippet(window, start-winStart, end-winStart, rawValue)
	return matched, snippet
}

// ApplySeverity implements the severity-upgrade policy: if a category
// matched, upgrade to Critical (never downgraded by any other rule);
// otherwise the detector's own default severity is preserved.
func ApplySeverity(defaultSeverity model.Severity, matchedCategory model.GdprArticle9Category) model.Severity {
	if matchedCategory != model.ArticleNone {
		return model.SeverityCritical
	}
	return defaultSeverity
}

func maskSnippet(window string, relStart, relEnd int, rawValue string) string {
	if relStart < 0 {
		relStart = 0
	}
	if relEnd > len(window) {
		relEnd = len(window)
	}
	if relStart >= relEnd || relEnd > len(window) {
		return collapseWhitespace(window)
	}
	masked := mask.Generic(rawValue)
	return collapseWhitespace(window[:relStart] + masked + window[relEnd:])
}

func collapseWhitespace(s string) string {
	var b strings.Builder
	prevSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !prevSpace {
				b.WriteRune(' ')
			}
			prevSpace = true
			continue
		}
		prevSpace = false
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}
