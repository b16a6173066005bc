package util

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	reSpaces    = regexp.MustCompile(`\s+`)
	reNonDigit  = regexp.MustCompile(`\D`)
	reFloatZero = regexp.MustCompile(`^\d+\.0+$`)
)

// CleanColumnName folds a header to its canonical matching form: NFKD
// decomposition, combining marks and non-ASCII runes dropped, trimmed,
// lowercased. Config headers and report headers are matched on this form.
func CleanColumnName(name string) string {
	t := transform.Chain(
		norm.NFKD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })),
	)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

func NormalizeSpaces(input string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(input, " "))
}

func DigitsOnly(input string) string {
	return reNonDigit.ReplaceAllString(input, "")
}

// TrimFloatZero strips a trailing ".0" fraction from float-like strings, so
// numeric identifiers read back from a spreadsheet keep their plain form.
func TrimFloatZero(input string) string {
	s := strings.TrimSpace(input)
	if reFloatZero.MatchString(s) {
		return s[:strings.Index(s, ".")]
	}
	return s
}

// IsBlank reports whether a cell holds no usable value. Spreadsheet reads
// surface missing cells as "" or the literal "nan".
func IsBlank(input string) bool {
	s := strings.ToLower(strings.TrimSpace(input))
	return s == "" || s == "nan"
}

func CleanModelCode(input string) string {
	s := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(input), " ", ""))
	out := strings.Builder{}
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '+' || r == '=' {
			out.WriteRune(r)
		}
	}
	return out.String()
}

func CleanManufacturerName(input string) string {
	s := strings.TrimSpace(input)
	out := strings.Builder{}
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			out.WriteRune(r)
		}
	}
	return strings.ToLower(out.String())
}
