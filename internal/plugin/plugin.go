// Package plugin implements the declarative, configuration-driven detector
// runtime: a single Detector variant parameterized by a PluginDescriptor.
// Regexes are compiled once at construction time and construction fails
// fast on an invalid descriptor (bad regex, missing required field,
// unknown confidence/severity spelling) so registry construction can
// surface the fatal PluginInvalid error before any scanning starts.
package plugin

import (
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/hemlocksec/pii-radar/internal/artcontext"
	"github.com/hemlocksec/pii-radar/internal/checksum"
	"github.com/hemlocksec/pii-radar/internal/detect"
	"github.com/hemlocksec/pii-radar/internal/mask"
	"github.com/hemlocksec/pii-radar/internal/model"
)

type compiledPattern struct {
	re         *regexp.Regexp
	confidence model.Confidence
}

// Detector is a single detector instance built from a PluginDescriptor.
type Detector struct {
	descriptor model.PluginDescriptor
	patterns   []compiledPattern
	severity   model.Severity
	category   model.Category
	country    string
}

// New validates and compiles a PluginDescriptor into a Detector. Any
// structural problem (missing id/name, no patterns, invalid regex,
// unrecognized confidence/severity/checksum spelling) is returned as an
// error — this is the PluginInvalid error kind, fatal to registry
// construction.
func New(d model.PluginDescriptor) (*Detector, error) {
	if d.ID == "" {
		return nil, fmt.Errorf("plugin: descriptor missing id")
	}
	if d.Name == "" {
		return nil, fmt.Errorf("plugin: descriptor %q missing name", d.ID)
	}
	if len(d.Patterns) == 0 {
		return nil, fmt.Errorf("plugin: descriptor %q has no patterns", d.ID)
	}

	severity := model.SeverityMedium
	if d.Severity != "" {
		sev, ok := model.ParseSeverity(strings.ToLower(d.Severity))
		if !ok {
			return nil, fmt.Errorf("plugin: descriptor %q has unknown severity %q", d.ID, d.Severity)
		}
		severity = sev
	}

	country := d.Country
	if country == "" {
		country = model.UniversalCountry
	}

	if d.Validation != nil {
		switch d.Validation.Checksum {
		case "", "none", "luhn", "mod11", "iban":
		default:
			return nil, fmt.Errorf("plugin: descriptor %q has unknown checksum %q", d.ID, d.Validation.Checksum)
		}
	}

	compiled := make([]compiledPattern, 0, len(d.Patterns))
	for i, p := range d.Patterns {
		re, err := regexp.Compile(p.Pattern)
		if err != nil {
			return nil, fmt.Errorf("plugin: descriptor %q pattern %d: invalid regex: %w", d.ID, i, err)
		}
		conf, ok := model.ParseConfidence(strings.ToLower(p.Confidence))
		if !ok {
			return nil, fmt.Errorf("plugin: descriptor %q pattern %d has unknown confidence %q", d.ID, i, p.Confidence)
		}
		compiled = append(compiled, compiledPattern{re: re, confidence: conf})
	}

	det := &Detector{
		descriptor: d,
		patterns:   compiled,
		severity:   severity,
		category:   model.CategoryCustom,
		country:    country,
	}

	for _, ex := range d.Examples {
		if len(det.validateCandidate(ex)) == 0 && !det.matchesAnyPattern(ex) {
			return nil, fmt.Errorf("plugin: descriptor %q example %q does not match any pattern", d.ID, ex)
		}
	}

	return det, nil
}

func (d *Detector) matchesAnyPattern(s string) bool {
	for _, p := range d.patterns {
		if p.re.MatchString(s) {
			return true
		}
	}
	return false
}

func (d *Detector) ID() string                      { return d.descriptor.ID }
func (d *Detector) Name() string                    { return d.descriptor.Name }
func (d *Detector) Country() string                 { return d.country }
func (d *Detector) Category() model.Category        { return d.category }
func (d *Detector) DefaultSeverity() model.Severity { return d.severity }

// candidateConfidence is returned by validateCandidate for each surviving
// match span; it carries the pattern-assigned confidence prior to the
// context-keyword boost.
type candidateConfidence struct {
	span       []int
	confidence model.Confidence
}

// validateCandidate runs the matching and validation steps over the full
// text: pattern match, prefix/suffix check, length check, checksum dispatch. It does not
// apply the context-keyword boost (step 5), which needs the caller's
// context window.
func (d *Detector) validateCandidate(text string) []candidateConfidence {
	var out []candidateConfidence
	for _, p := range d.patterns {
		for _, span := range p.re.FindAllStringIndex(text, -1) {
			raw := text[span[0]:span[1]]
			if !d.accept(raw) {
				continue
			}
			out = append(out, candidateConfidence{span: span, confidence: p.confidence})
		}
	}
	return out
}

func (d *Detector) accept(raw string) bool {
	v := d.descriptor.Validation
	if v == nil {
		return true
	}
	if v.RequiredPrefix != "" && !strings.HasPrefix(raw, v.RequiredPrefix) {
		return false
	}
	if v.RequiredSuffix != "" && !strings.HasSuffix(raw, v.RequiredSuffix) {
		return false
	}
	if v.MinLength > 0 && len(raw) < v.MinLength {
		return false
	}
	if v.MaxLength > 0 && len(raw) > v.MaxLength {
		return false
	}
	if v.Checksum != "" && v.Checksum != "none" {
		if !checksum.ByName(v.Checksum, normalizeForChecksum(raw)) {
			return false
		}
	}
	return true
}

func normalizeForChecksum(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func valueHash(raw string) string {
	sum := blake2b.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func bumpConfidence(c model.Confidence) model.Confidence {
	if c < model.ConfidenceHigh {
		return c + 1
	}
	return c
}

// Detect implements detect.Detector. It runs pattern+validation, then
// applies the context-keyword confidence boost using the
// default context window, and emits category=custom, country=descriptor
// value matches.
func (d *Detector) Detect(text string, loc detect.LocationContext) []model.Match {
	candidates := d.validateCandidate(text)
	if len(candidates) == 0 {
		return nil
	}
	out := make([]model.Match, 0, len(candidates))
	for _, c := range candidates {
		raw := text[c.span[0]:c.span[1]]
		confidence := c.confidence
		if len(d.descriptor.ContextKeywords) > 0 && d.contextKeywordPresent(text, c.span[0], c.span[1]) {
			confidence = bumpConfidence(confidence)
		}
		out = append(out, model.Match{
			DetectorID:   d.descriptor.ID,
			DetectorName: d.descriptor.Name,
			Country:      d.country,
			Category:     d.category,
			ValueRaw:     raw,
			ValueMasked:  mask.Generic(raw),
			ValueHash:    valueHash(raw),
			Confidence:   confidence,
			Severity:     d.severity,
			Start:        c.span[0],
			End:          c.span[1],
			Location: model.Location{
				Path:              loc.SourceID,
				ByteOffset:        int64(c.span[0]),
				TableOrCollection: loc.TableOrCollection,
				RowKey:            loc.RowKey,
				ColumnOrField:     loc.ColumnOrField,
				URL:               loc.URL,
				Method:            loc.Method,
			},
		})
	}
	return out
}

func (d *Detector) contextKeywordPresent(text string, start, end int) bool {
	winStart := start - artcontext.DefaultWindow
	if winStart < 0 {
		winStart = 0
	}
	winEnd := end + artcontext.DefaultWindow
	if winEnd > len(text) {
		winEnd = len(text)
	}
	window := strings.ToLower(text[winStart:winEnd])
	for _, kw := range d.descriptor.ContextKeywords {
		if strings.Contains(window, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
