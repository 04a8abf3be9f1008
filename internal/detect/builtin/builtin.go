// Package builtin implements the one-per-PII-kind detectors, each composing
// a regex with a checksum validator and a masking strategy, generalized
// across the full country set and the checksum-strength confidence rule
// this project requires.
package builtin

import (
	"encoding/hex"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/hemlocksec/pii-radar/internal/checksum"
	"github.com/hemlocksec/pii-radar/internal/detect"
	"github.com/hemlocksec/pii-radar/internal/mask"
	"github.com/hemlocksec/pii-radar/internal/model"
)

// regexValidatorDetector is the shared implementation behind every
// checksum-backed national identifier / account number detector: find
// candidates with pattern, normalize, validate, mask.
type regexValidatorDetector struct {
	id       string
	name     string
	country  string
	category model.Category
	severity model.Severity

	pattern   *regexp.Regexp
	normalize func(string) string
	validate  func(string) bool
	maskFn    func(string) string

	// weakCheck additionally accepts a structurally-plausible-but-unvalidated
	// candidate at Medium confidence (e.g. right length, right charset).
	weakCheck func(normalized string) bool

	// classify, when set, derives a Match.Brand from the normalized value
	// (e.g. the card network for CreditCardDetector). Returning "" leaves
	// Brand unset.
	classify func(normalized string) string
}

func (d *regexValidatorDetector) ID() string                       { return d.id }
func (d *regexValidatorDetector) Name() string                     { return d.name }
func (d *regexValidatorDetector) Country() string                  { return d.country }
func (d *regexValidatorDetector) Category() model.Category         { return d.category }
func (d *regexValidatorDetector) DefaultSeverity() model.Severity  { return d.severity }

func valueHash(raw string) string {
	sum := blake2b.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func (d *regexValidatorDetector) Detect(text string, loc detect.LocationContext) []model.Match {
	idxs := d.pattern.FindAllStringIndex(text, -1)
	if len(idxs) == 0 {
		return nil
	}
	matches := make([]model.Match, 0, len(idxs))
	for _, span := range idxs {
		raw := text[span[0]:span[1]]
		normalized := raw
		if d.normalize != nil {
			normalized = d.normalize(raw)
		}

		var confidence model.Confidence
		switch {
		case d.validate != nil && d.validate(normalized):
			confidence = model.ConfidenceHigh
		case d.weakCheck != nil && d.weakCheck(normalized):
			confidence = model.ConfidenceMedium
		default:
			continue
		}

		maskedVal := raw
		if d.maskFn != nil {
			maskedVal = d.maskFn(raw)
		} else {
			maskedVal = mask.Generic(raw)
		}

		var brand string
		if d.classify != nil {
			brand = d.classify(normalized)
		}

		matches = append(matches, model.Match{
			DetectorID:   d.id,
			DetectorName: d.name,
			Country:      d.country,
			Category:     d.category,
			Brand:        brand,
			ValueRaw:     raw,
			ValueMasked:  maskedVal,
			ValueHash:    valueHash(raw),
			Confidence:   confidence,
			Severity:     d.severity,
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
	}
	return matches
}

func stripNonDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func stripSpacesDashes(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, s)
}

// IBANDetector validates IBANs via mod-97.
func IBANDetector() detect.Detector {
	return &regexValidatorDetector{
		id:        "universal_iban",
		name:      "IBAN",
		country:   model.UniversalCountry,
		category:  model.CategoryFinancial,
		severity:  model.SeverityHigh,
		pattern:   regexp.MustCompile(`\b[A-Z]{2}\d{2}[A-Z0-9]{10,30}\b`),
		normalize: func(s string) string { return strings.ToUpper(stripSpacesDashes(s)) },
		validate:  checksum.IBAN,
		maskFn:    mask.IBAN,
	}
}

// CreditCardDetector validates payment card numbers via Luhn and classifies
// the card network from its IIN prefix and length.
func CreditCardDetector() detect.Detector {
	return &regexValidatorDetector{
		id:        "universal_credit_card",
		name:      "Credit Card",
		country:   model.UniversalCountry,
		category:  model.CategoryFinancial,
		severity:  model.SeverityHigh,
		pattern:   regexp.MustCompile(`\b(?:\d[ -]?){13,19}\b`),
		normalize: stripNonDigits,
		validate: func(s string) bool {
			return len(s) >= 13 && len(s) <= 19 && checksum.Luhn(s)
		},
		maskFn:   mask.CreditCard,
		classify: cardBrand,
	}
}

// cardBrand classifies a normalized (digits-only) card number by IIN prefix
// and length, the same Visa/Mastercard/Amex/Discover ranges the card schemes
// publish. An unrecognized prefix returns "".
func cardBrand(digits string) string {
	n := len(digits)
	switch {
	case strings.HasPrefix(digits, "4") && (n == 13 || n == 16 || n == 19):
		return "Visa"
	case hasPrefixInRange(digits, 51, 55) && n == 16:
		return "Mastercard"
	case hasPrefixInRange(digits, 2221, 2720) && n == 16:
		return "Mastercard"
	case (strings.HasPrefix(digits, "34") || strings.HasPrefix(digits, "37")) && n == 15:
		return "Amex"
	case strings.HasPrefix(digits, "6011") && n == 16:
		return "Discover"
	case hasPrefixInRange(digits, 644, 649) && n == 16:
		return "Discover"
	case strings.HasPrefix(digits, "65") && n == 16:
		return "Discover"
	default:
		return ""
	}
}

// hasPrefixInRange reports whether digits starts with a prefix whose
// numeric value, read at the same digit width as lo and hi, falls within
// [lo, hi].
func hasPrefixInRange(digits string, lo, hi int) bool {
	width := len(strconv.Itoa(lo))
	if len(digits) < width {
		return false
	}
	prefix, err := strconv.Atoi(digits[:width])
	if err != nil {
		return false
	}
	return prefix >= lo && prefix <= hi
}

// NLBSNDetector validates Dutch BSNs via 11-proef.
func NLBSNDetector() detect.Detector {
	return &regexValidatorDetector{
		id:        "nl_bsn",
		name:      "Dutch BSN",
		country:   "NL",
		category:  model.CategoryNationalID,
		severity:  model.SeverityHigh,
		pattern:   regexp.MustCompile(`\b\d{9}\b`),
		normalize: stripNonDigits,
		validate:  checksum.DutchBSN,
	}
}

// DESteuerIDDetector validates German tax IDs via the modified mod-11 rule.
func DESteuerIDDetector() detect.Detector {
	return &regexValidatorDetector{
		id:        "de_steuer_id",
		name:      "German Steuer-ID",
		country:   "DE",
		category:  model.CategoryNationalID,
		severity:  model.SeverityHigh,
		pattern:   regexp.MustCompile(`\b\d{11}\b`),
		normalize: stripNonDigits,
		validate:  checksum.GermanSteuerID,
	}
}

// FRNIRDetector validates French NIR (social security) numbers.
func FRNIRDetector() detect.Detector {
	return &regexValidatorDetector{
		id:        "fr_nir",
		name:      "French NIR",
		country:   "FR",
		category:  model.CategoryNationalID,
		severity:  model.SeverityHigh,
		pattern:   regexp.MustCompile(`\b[12]\d{2}(0[1-9]|1[0-2])(\d{2}|2[AB])\d{8}\b`),
		normalize: func(s string) string { return strings.ToUpper(stripSpacesDashes(s)) },
		validate:  checksum.FrenchNIR,
	}
}

// ITCodiceFiscaleDetector validates Italian Codice Fiscale identifiers.
func ITCodiceFiscaleDetector() detect.Detector {
	return &regexValidatorDetector{
		id:        "it_codice_fiscale",
		name:      "Italian Codice Fiscale",
		country:   "IT",
		category:  model.CategoryNationalID,
		severity:  model.SeverityHigh,
		pattern:   regexp.MustCompile(`\b[A-Za-z]{6}\d{2}[A-Za-z]\d{2}[A-Za-z]\d{3}[A-Za-z]\b`),
		normalize: strings.ToUpper,
		validate:  checksum.ItalianCodiceFiscale,
	}
}

// ESDNINIEDetector validates Spanish DNI/NIE identifiers.
func ESDNINIEDetector() detect.Detector {
	return &regexValidatorDetector{
		id:        "es_dni_nie",
		name:      "Spanish DNI/NIE",
		country:   "ES",
		category:  model.CategoryNationalID,
		severity:  model.SeverityHigh,
		pattern:   regexp.MustCompile(`\b[XYZxyz0-9]\d{7}[A-Za-z]\b`),
		normalize: func(s string) string { return strings.ToUpper(stripSpacesDashes(s)) },
		validate:  checksum.SpanishDNINIE,
	}
}

// GBNHSDetector validates UK NHS numbers.
func GBNHSDetector() detect.Detector {
	return &regexValidatorDetector{
		id:        "gb_nhs",
		name:      "UK NHS Number",
		country:   "GB",
		category:  model.CategoryMedical,
		severity:  model.SeverityHigh,
		pattern:   regexp.MustCompile(`\b\d{3}[ -]?\d{3}[ -]?\d{4}\b`),
		normalize: stripNonDigits,
		validate:  checksum.UKNHS,
	}
}

// BERRNDetector validates Belgian national register numbers.
func BERRNDetector() detect.Detector {
	return &regexValidatorDetector{
		id:        "be_rrn",
		name:      "Belgian RRN",
		country:   "BE",
		category:  model.CategoryNationalID,
		severity:  model.SeverityHigh,
		pattern:   regexp.MustCompile(`\b\d{2}[.\- ]?\d{2}[.\- ]?\d{2}[.\- ]?\d{3}[.\- ]?\d{2}\b`),
		normalize: stripNonDigits,
		validate:  checksum.BelgianRRN,
	}
}

// PLPESELDetector validates Polish PESEL identifiers.
func PLPESELDetector() detect.Detector {
	return &regexValidatorDetector{
		id:        "pl_pesel",
		name:      "Polish PESEL",
		country:   "PL",
		category:  model.CategoryNationalID,
		severity:  model.SeverityHigh,
		pattern:   regexp.MustCompile(`\b\d{11}\b`),
		normalize: stripNonDigits,
		validate:  checksum.PolishPESEL,
	}
}

// DKCPRDetector validates Danish CPR numbers.
func DKCPRDetector() detect.Detector {
	return &regexValidatorDetector{
		id:        "dk_cpr",
		name:      "Danish CPR",
		country:   "DK",
		category:  model.CategoryNationalID,
		severity:  model.SeverityHigh,
		pattern:   regexp.MustCompile(`\b\d{6}[ -]?\d{4}\b`),
		normalize: stripNonDigits,
		validate:  checksum.DanishCPR,
	}
}

// SEPersonnummerDetector validates Swedish personnummer.
func SEPersonnummerDetector() detect.Detector {
	return &regexValidatorDetector{
		id:        "se_personnummer",
		name:      "Swedish Personnummer",
		country:   "SE",
		category:  model.CategoryNationalID,
		severity:  model.SeverityHigh,
		pattern:   regexp.MustCompile(`\b\d{2}(?:\d{2})?\d{2}\d{2}[+-]?\d{4}\b`),
		normalize: stripNonDigits,
		validate:  checksum.SwedishPersonnummer,
	}
}

// NOFodselsnummerDetector validates Norwegian fødselsnummer.
func NOFodselsnummerDetector() detect.Detector {
	return &regexValidatorDetector{
		id:        "no_fodselsnummer",
		name:      "Norwegian Fodselsnummer",
		country:   "NO",
		category:  model.CategoryNationalID,
		severity:  model.SeverityHigh,
		pattern:   regexp.MustCompile(`\b\d{6}[ -]?\d{5}\b`),
		normalize: stripNonDigits,
		validate:  checksum.NorwegianFodselsnummer,
	}
}

// FIHETUDetector validates Finnish henkilötunnus.
func FIHETUDetector() detect.Detector {
	return &regexValidatorDetector{
		id:        "fi_hetu",
		name:      "Finnish HETU",
		country:   "FI",
		category:  model.CategoryNationalID,
		severity:  model.SeverityHigh,
		pattern:   regexp.MustCompile(`\b\d{6}[-+A]\d{3}[0-9A-Za-z]\b`),
		normalize: strings.ToUpper,
		validate:  checksum.FinnishHETU,
	}
}

// PTNIFDetector validates Portuguese NIF identifiers.
func PTNIFDetector() detect.Detector {
	return &regexValidatorDetector{
		id:        "pt_nif",
		name:      "Portuguese NIF",
		country:   "PT",
		category:  model.CategoryNationalID,
		severity:  model.SeverityHigh,
		pattern:   regexp.MustCompile(`\b\d{9}\b`),
		normalize: stripNonDigits,
		validate:  checksum.PortugueseNIF,
	}
}

var emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

// emailDetector has no checksum validator; it is Medium confidence unless
// promoted elsewhere (context keywords never change Email's confidence,
// only the context analyzer's severity).
type emailDetector struct{}

func EmailDetector() detect.Detector { return emailDetector{} }

func (emailDetector) ID() string                      { return "universal_email" }
func (emailDetector) Name() string                    { return "Email Address" }
func (emailDetector) Country() string                 { return model.UniversalCountry }
func (emailDetector) Category() model.Category        { return model.CategoryPersonal }
func (emailDetector) DefaultSeverity() model.Severity { return model.SeverityMedium }

func (emailDetector) Detect(text string, loc detect.LocationContext) []model.Match {
	idxs := emailPattern.FindAllStringIndex(text, -1)
	if len(idxs) == 0 {
		return nil
	}
	out := make([]model.Match, 0, len(idxs))
	for _, span := range idxs {
		raw := text[span[0]:span[1]]
		out = append(out, model.Match{
			DetectorID:   "universal_email",
			DetectorName: "Email Address",
			Country:      model.UniversalCountry,
			Category:     model.CategoryPersonal,
			ValueRaw:     raw,
			ValueMasked:  mask.Email(raw),
			ValueHash:    valueHash(raw),
			Confidence:   model.ConfidenceMedium,
			Severity:     model.SeverityMedium,
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
	}
	return out
}

var phonePattern = regexp.MustCompile(`\+?\d{1,3}[ .-]?\(?\d{2,4}\)?[ .-]?\d{3,4}[ .-]?\d{3,4}`)

type phoneDetector struct{}

func PhoneDetector() detect.Detector { return phoneDetector{} }

func (phoneDetector) ID() string                      { return "universal_phone" }
func (phoneDetector) Name() string                    { return "Phone Number" }
func (phoneDetector) Country() string                 { return model.UniversalCountry }
func (phoneDetector) Category() model.Category        { return model.CategoryPersonal }
func (phoneDetector) DefaultSeverity() model.Severity { return model.SeverityLow }

func (phoneDetector) Detect(text string, loc detect.LocationContext) []model.Match {
	idxs := phonePattern.FindAllStringIndex(text, -1)
	if len(idxs) == 0 {
		return nil
	}
	out := make([]model.Match, 0, len(idxs))
	for _, span := range idxs {
		raw := text[span[0]:span[1]]
		digits := stripNonDigits(raw)
		if len(digits) < 7 || len(digits) > 15 {
			continue
		}
		out = append(out, model.Match{
			DetectorID:   "universal_phone",
			DetectorName: "Phone Number",
			Country:      model.UniversalCountry,
			Category:     model.CategoryPersonal,
			ValueRaw:     raw,
			ValueMasked:  mask.Phone(raw),
			ValueHash:    valueHash(raw),
			Confidence:   model.ConfidenceLow,
			Severity:     model.SeverityLow,
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
	}
	return out
}

// All returns every built-in detector in a stable order: national
// identifiers first (grouped by country), then account numbers, then
// generic personal-data detectors, then secret detectors.
func All() []detect.Detector {
	return []detect.Detector{
		NLBSNDetector(),
		DESteuerIDDetector(),
		FRNIRDetector(),
		ITCodiceFiscaleDetector(),
		ESDNINIEDetector(),
		GBNHSDetector(),
		BERRNDetector(),
		PLPESELDetector(),
		DKCPRDetector(),
		SEPersonnummerDetector(),
		NOFodselsnummerDetector(),
		FIHETUDetector(),
		PTNIFDetector(),
		IBANDetector(),
		CreditCardDetector(),
		EmailDetector(),
		PhoneDetector(),
		SecretDetector(),
	}
}
