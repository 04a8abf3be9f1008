package builtin

import (
	"regexp"

	"github.com/hemlocksec/pii-radar/internal/detect"
	"github.com/hemlocksec/pii-radar/internal/mask"
	"github.com/hemlocksec/pii-radar/internal/model"
)

// vendorPrefix pairs a known secret-vendor regex with a human name; any
// match is High confidence without needing the entropy floor, since the
// prefix itself is a strong structural signal.
type vendorPrefix struct {
	name    string
	pattern *regexp.Regexp
}

var vendorPrefixes = []vendorPrefix{
	{"AWS Access Key", regexp.MustCompile(`\bAKIA[0-9A-Z]{16}\b`)},
	{"GitHub Token", regexp.MustCompile(`\bghp_[0-9A-Za-z]{36}\b`)},
	{"Stripe Live Key", regexp.MustCompile(`\bsk_live_[0-9A-Za-z]{24,}\b`)},
	{"Google API Key", regexp.MustCompile(`\bAIza[0-9A-Za-z_-]{35}\b`)},
	{"JWT", regexp.MustCompile(`\beyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}\b`)},
}

var genericSecretCandidate = regexp.MustCompile(`\b[A-Za-z0-9+/_=-]{20,}\b`)

const secretEntropyFloor = 3.5
const secretMinLength = 20

// secretDetector combines known-vendor prefixes with a generic
// Shannon-entropy floor for base64/hex-ish blobs.
type secretDetector struct{}

func SecretDetector() detect.Detector { return secretDetector{} }

func (secretDetector) ID() string                     { return "universal_secret" }
func (secretDetector) Name() string                   { return "API Key / Secret" }
func (secretDetector) Country() string                { return model.UniversalCountry }
func (secretDetector) Category() model.Category       { return model.CategorySecret }
func (secretDetector) DefaultSeverity() model.Severity { return model.SeverityHigh }

func (secretDetector) Detect(text string, loc detect.LocationContext) []model.Match {
	var out []model.Match
	claimed := make([]bool, len(text)+1)

	emit := func(span []int, raw, detectorName string, confidence model.Confidence) {
		out = append(out, model.Match{
			DetectorID:   "universal_secret",
			DetectorName: detectorName,
			Country:      model.UniversalCountry,
			Category:     model.CategorySecret,
			ValueRaw:     raw,
			ValueMasked:  mask.Generic(raw),
			ValueHash:    valueHash(raw),
			Confidence:   confidence,
			Severity:     model.SeverityHigh,
			Start:        span[0],
			End:          span[1],
			Location: model.Location{
				Path:              loc.SourceID,
				ByteOffset:        int64(span[0]),
				TableOrCollection: loc.TableOrCollection,
				RowKey:            loc.RowKey,
				ColumnOrField:     loc.ColumnOrField,
				URL:               loc.URL,
				Method:            loc.Method,
			},
		})
		for i := span[0]; i < span[1]; i++ {
			claimed[i] = true
		}
	}

	for _, vp := range vendorPrefixes {
		for _, span := range vp.pattern.FindAllStringIndex(text, -1) {
			emit(span, text[span[0]:span[1]], vp.name, model.ConfidenceHigh)
		}
	}

	for _, span := range genericSecretCandidate.FindAllStringIndex(text, -1) {
		overlapsClaimed := false
		for i := span[0]; i < span[1]; i++ {
			if claimed[i] {
				overlapsClaimed = true
				break
			}
		}
		if overlapsClaimed {
			continue
		}
		candidate := text[span[0]:span[1]]
		if len(candidate) < secretMinLength {
			continue
		}
		if mask.IsLikelyBase64Secret(candidate) || mask.IsLikelyHexSecret(candidate) ||
			mask.IsHighEntropy(candidate, secretEntropyFloor) {
			emit(span, candidate, "API Key / Secret", model.ConfidenceMedium)
		}
	}

	return out
}
