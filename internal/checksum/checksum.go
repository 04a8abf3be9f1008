// Package checksum provides pure, side-effect-free validators that
// distinguish structurally valid identifiers and account numbers from mere
// pattern matches. Every function here accepts a normalized string and
// returns a boolean; none of them allocate beyond what the algorithm needs,
// and none of them can fail on well-formed input (malformed input simply
// returns false).
package checksum

import (
	"math/big"
	"strings"
)

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func digit(s string, i int) int {
	return int(s[i] - '0')
}

// Luhn implements the standard right-to-left doubling mod-10 checksum used
// by credit cards and the Swedish Personnummer.
func Luhn(s string) bool {
	if !allDigits(s) || len(s) < 2 {
		return false
	}
	sum := 0
	alt := false
	for i := len(s) - 1; i >= 0; i-- {
		d := digit(s, i)
		if alt {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		alt = !alt
	}
	return sum%10 == 0
}

var ibanLengths = map[string]int{
	"AD": 24, "AE": 23, "AT": 20, "AZ": 28, "BA": 20, "BE": 16, "BG": 22,
	"BH": 22, "BR": 29, "CH": 21, "CR": 22, "CY": 28, "CZ": 24, "DE": 22,
	"DK": 18, "DO": 28, "EE": 20, "ES": 24, "FI": 18, "FO": 18, "FR": 27,
	"GB": 22, "GE": 22, "GI": 23, "GL": 18, "GR": 27, "GT": 28, "HR": 21,
	"HU": 28, "IE": 22, "IL": 23, "IS": 26, "IT": 27, "JO": 30, "KW": 30,
	"KZ": 20, "LB": 28, "LC": 32, "LI": 21, "LT": 20, "LU": 20, "LV": 21,
	"MC": 27, "MD": 24, "ME": 22, "MK": 19, "MR": 27, "MT": 31, "MU": 30,
	"NL": 18, "NO": 15, "PK": 24, "PL": 28, "PS": 29, "PT": 25, "QA": 29,
	"RO": 24, "RS": 22, "SA": 24, "SC": 31, "SE": 24, "SI": 19, "SK": 24,
	"SM": 27, "ST": 25, "TL": 23, "TN": 24, "TR": 26, "UA": 29, "VG": 24,
	"XK": 20,
}

// IBAN validates an International Bank Account Number using the mod-97
// algorithm: move the first four characters to the end, remap letters A-Z
// to 10-35, interpret as a big integer, and require n mod 97 == 1.
// The country length table is consulted only as a sanity check, never as
// the basis for acceptance.
func IBAN(s string) bool {
	s = strings.ToUpper(strings.ReplaceAll(s, " ", ""))
	if len(s) < 4 || len(s) > 34 {
		return false
	}
	cc := s[:2]
	if cc[0] < 'A' || cc[0] > 'Z' || cc[1] < 'A' || cc[1] > 'Z' {
		return false
	}
	if s[2] < '0' || s[2] > '9' || s[3] < '0' || s[3] > '9' {
		return false
	}
	if wantLen, ok := ibanLengths[cc]; ok && len(s) != wantLen {
		return false
	}
	rearranged := s[4:] + s[:4]

	var b strings.Builder
	for _, r := range rearranged {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteString(itoa(int(r-'A') + 10))
		default:
			return false
		}
	}
	n, ok := new(big.Int).SetString(b.String(), 10)
	if !ok {
		return false
	}
	return new(big.Int).Mod(n, big.NewInt(97)).Cmp(big.NewInt(1)) == 0
}

func itoa(n int) string {
	if n < 10 {
		return string('0' + byte(n))
	}
	return string([]byte{'0' + byte(n/10), '0' + byte(n%10)})
}

// DutchBSN implements the 11-proef checksum for Dutch citizen service
// numbers (burgerservicenummer): 9 digits d1..d9,
// (9*d1+8*d2+7*d3+6*d4+5*d5+4*d6+3*d7+2*d8-d9) mod 11 == 0, rejecting an
// all-zero payload.
func DutchBSN(s string) bool {
	if len(s) != 9 || !allDigits(s) {
		return false
	}
	if s == "000000000" {
		return false
	}
	weights := [9]int{9, 8, 7, 6, 5, 4, 3, 2, -1}
	sum := 0
	for i, w := range weights {
		sum += w * digit(s, i)
	}
	return sum%11 == 0
}

// GermanSteuerID implements the modified mod-11 checksum for the German tax
// identification number, plus the digit-distribution rule: exactly one
// digit among the first 10 appears 2 or 3 times, every other digit appears
// exactly once.
func GermanSteuerID(s string) bool {
	if len(s) != 11 || !allDigits(s) {
		return false
	}
	var counts [10]int
	for i := 0; i < 10; i++ {
		counts[digit(s, i)]++
	}
	repeated := 0
	for _, c := range counts {
		switch c {
		case 0, 1:
		case 2, 3:
			repeated++
		default:
			return false
		}
	}
	if repeated != 1 {
		return false
	}

	m := 10
	for i := 0; i < 10; i++ {
		d := digit(s, i)
		sVal := (d + m) % 10
		if sVal == 0 {
			sVal = 10
		}
		m = (2 * sVal) % 11
	}
	check := (11 - m) % 10
	return check == digit(s, 10)
}

// FrenchNIR validates the 15-digit French national identification number,
// with Corsica department substitution (2A -> 19, 2B -> 18).
func FrenchNIR(s string) bool {
	if len(s) != 15 {
		return false
	}
	body := s[:13]
	check := s[13:]
	if !allDigits(check) {
		return false
	}
	normalized := strings.ToUpper(body)
	normalized = strings.Replace(normalized, "2A", "19", 1)
	normalized = strings.Replace(normalized, "2B", "18", 1)
	if !allDigits(normalized) || len(normalized) != 13 {
		return false
	}
	n, ok := new(big.Int).SetString(normalized, 10)
	if !ok {
		return false
	}
	rem := new(big.Int).Mod(n, big.NewInt(97)).Int64()
	wantCheck := 97 - rem
	gotCheck, err := parseInt2(check)
	if err != nil {
		return false
	}
	return int64(gotCheck) == wantCheck
}

func parseInt2(s string) (int, error) {
	if len(s) != 2 || !allDigits(s) {
		return 0, errNotTwoDigits
	}
	return digit(s, 0)*10 + digit(s, 1), nil
}

var errNotTwoDigits = &checksumError{"expected exactly two digits"}

type checksumError struct{ msg string }

func (e *checksumError) Error() string { return e.msg }

// italianOdd and italianEven are the fixed lookup tables for the Italian
// Codice Fiscale checksum, keyed by character (0-9, A-Z) for odd (1-based)
// and even positions among the first 15 characters.
var italianOdd = map[byte]int{
	'0': 1, '1': 0, '2': 5, '3': 7, '4': 9, '5': 13, '6': 15, '7': 17, '8': 19, '9': 21,
	'A': 1, 'B': 0, 'C': 5, 'D': 7, 'E': 9, 'F': 13, 'G': 15, 'H': 17, 'I': 19, 'J': 21,
	'K': 2, 'L': 4, 'M': 18, 'N': 20, 'O': 11, 'P': 3, 'Q': 6, 'R': 8, 'S': 12, 'T': 14,
	'U': 16, 'V': 10, 'W': 22, 'X': 25, 'Y': 24, 'Z': 23,
}

var italianEven = map[byte]int{
	'0': 0, '1': 1, '2': 2, '3': 3, '4': 4, '5': 5, '6': 6, '7': 7, '8': 8, '9': 9,
	'A': 0, 'B': 1, 'C': 2, 'D': 3, 'E': 4, 'F': 5, 'G': 6, 'H': 7, 'I': 8, 'J': 9,
	'K': 10, 'L': 11, 'M': 12, 'N': 13, 'O': 14, 'P': 15, 'Q': 16, 'R': 17, 'S': 18, 'T': 19,
	'U': 20, 'V': 21, 'W': 22, 'X': 23, 'Y': 24, 'Z': 25,
}

// ItalianCodiceFiscale implements the 16-character checksum: sum the first
// 15 characters via the odd/even lookup tables, check = 'A' + (sum mod 26).
func ItalianCodiceFiscale(s string) bool {
	s = strings.ToUpper(s)
	if len(s) != 16 {
		return false
	}
	sum := 0
	for i := 0; i < 15; i++ {
		c := s[i]
		var v int
		var ok bool
		if i%2 == 0 {
			v, ok = italianOdd[c]
		} else {
			v, ok = italianEven[c]
		}
		if !ok {
			return false
		}
		sum += v
	}
	want := byte('A' + sum%26)
	return s[15] == want
}

const spanishCheckLetters = "TRWAGMYFPDXBNJZSQVHLCKE"

// SpanishDNINIE validates an 8-digit Spanish DNI, or a NIE (first character
// X/Y/Z mapped to 0/1/2), via check letter = checkLetters[n mod 23].
func SpanishDNINIE(s string) bool {
	s = strings.ToUpper(s)
	if len(s) != 9 {
		return false
	}
	body := s[:8]
	letter := s[8]
	switch body[0] {
	case 'X':
		body = "0" + body[1:]
	case 'Y':
		body = "1" + body[1:]
	case 'Z':
		body = "2" + body[1:]
	}
	if !allDigits(body) {
		return false
	}
	n, ok := new(big.Int).SetString(body, 10)
	if !ok {
		return false
	}
	idx := new(big.Int).Mod(n, big.NewInt(23)).Int64()
	return spanishCheckLetters[idx] == letter
}

// UKNHS validates a UK NHS number: weights 10..2 against the first 9
// digits, r = sum mod 11, check = 11-r except r==0 (check=0) and r==1
// (invalid).
func UKNHS(s string) bool {
	if len(s) != 10 || !allDigits(s) {
		return false
	}
	sum := 0
	w := 10
	for i := 0; i < 9; i++ {
		sum += w * digit(s, i)
		w--
	}
	r := sum % 11
	var check int
	switch r {
	case 0:
		check = 0
	case 1:
		return false
	default:
		check = 11 - r
	}
	return check == digit(s, 9)
}

// BelgianRRN validates a Belgian national register number: N = first 9
// digits, C = 97-(N mod 97); valid if C equals the last two digits
// (pre-2000 birth) or, after prepending "2" to N, on retry (post-2000
// birth).
func BelgianRRN(s string) bool {
	if len(s) != 11 || !allDigits(s) {
		return false
	}
	n := s[:9]
	want, err := parseInt2(s[9:])
	if err != nil {
		return false
	}
	check := func(digits string) int64 {
		n, ok := new(big.Int).SetString(digits, 10)
		if !ok {
			return -1
		}
		rem := new(big.Int).Mod(n, big.NewInt(97)).Int64()
		return 97 - rem
	}
	if check(n) == int64(want) {
		return true
	}
	return check("2"+n) == int64(want)
}

// PolishPESEL validates the weighted mod-10 Polish PESEL checksum.
func PolishPESEL(s string) bool {
	if len(s) != 11 || !allDigits(s) {
		return false
	}
	weights := [10]int{1, 3, 7, 9, 1, 3, 7, 9, 1, 3}
	sum := 0
	for i, w := range weights {
		sum += w * digit(s, i)
	}
	check := (10 - sum%10) % 10
	return check == digit(s, 10)
}

// DanishCPR validates the weighted mod-11 Danish CPR checksum.
func DanishCPR(s string) bool {
	if len(s) != 10 || !allDigits(s) {
		return false
	}
	weights := [10]int{4, 3, 2, 7, 6, 5, 4, 3, 2, 1}
	sum := 0
	for i, w := range weights {
		sum += w * digit(s, i)
	}
	return sum%11 == 0
}

// SwedishPersonnummer applies Luhn to the last 10 digits of a
// YYMMDD-XXXX / YYYYMMDD-XXXX personnummer.
func SwedishPersonnummer(s string) bool {
	digitsOnly := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	if len(digitsOnly) < 10 {
		return false
	}
	return Luhn(digitsOnly[len(digitsOnly)-10:])
}

// NorwegianFodselsnummer validates the two mod-11 check digits K1 and K2 of
// an 11-digit Norwegian fødselsnummer.
func NorwegianFodselsnummer(s string) bool {
	if len(s) != 11 || !allDigits(s) {
		return false
	}
	k1Weights := [9]int{3, 7, 6, 1, 8, 9, 4, 5, 2}
	k2Weights := [10]int{5, 4, 3, 2, 7, 6, 5, 4, 3, 2}

	sum1 := 0
	for i, w := range k1Weights {
		sum1 += w * digit(s, i)
	}
	k1 := 11 - sum1%11
	if k1 == 11 {
		k1 = 0
	}
	if k1 == 10 {
		return false
	}
	if k1 != digit(s, 9) {
		return false
	}

	sum2 := 0
	for i, w := range k2Weights {
		sum2 += w * digit(s, i)
	}
	k2 := 11 - sum2%11
	if k2 == 11 {
		k2 = 0
	}
	if k2 == 10 {
		return false
	}
	return k2 == digit(s, 10)
}

const finnishCheckChars = "0123456789ABCDEFHJKLMNPRSTUVWXY"

// FinnishHETU validates the 11-character Finnish henkilötunnus: N is the
// decimal integer of DDMMYYNNN (9 digits), check = checkChars[N mod 31].
func FinnishHETU(s string) bool {
	s = strings.ToUpper(s)
	if len(s) != 11 {
		return false
	}
	digits := s[:6] + s[7:10]
	if !allDigits(digits) {
		return false
	}
	n, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return false
	}
	idx := new(big.Int).Mod(n, big.NewInt(31)).Int64()
	return finnishCheckChars[idx] == s[10]
}

// PortugueseNIF validates the mod-11 Portuguese NIF checksum: weights 9..2
// over the first 8 digits, r = sum mod 11, check = 0 if r in {0,1} else
// 11-r.
func PortugueseNIF(s string) bool {
	if len(s) != 9 || !allDigits(s) {
		return false
	}
	weights := [8]int{9, 8, 7, 6, 5, 4, 3, 2}
	sum := 0
	for i, w := range weights {
		sum += w * digit(s, i)
	}
	r := sum % 11
	check := 0
	if r > 1 {
		check = 11 - r
	}
	return check == digit(s, 8)
}

// Mod11BSN is an alias for DutchBSN, used as the default resolution of the
// plugin descriptor checksum kind "mod11" (see DESIGN.md).
func Mod11BSN(s string) bool { return DutchBSN(s) }

// ByName dispatches to a named validator, as used by the plugin runtime's
// validation.checksum field. The recognized names are "luhn", "mod11",
// "iban", and "none" (which always succeeds).
func ByName(name, value string) bool {
	switch name {
	case "luhn":
		return Luhn(value)
	case "mod11":
		return Mod11BSN(value)
	case "iban":
		return IBAN(value)
	case "none", "":
		return true
	default:
		return false
	}
}
