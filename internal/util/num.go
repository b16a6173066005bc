package util

import (
	"regexp"
	"strconv"
	"strings"
)

var reAccountingNeg = regexp.MustCompile(`^\(\$?[\d,]+\.\d{2}\)$`)

// ParseWholeNumber reads an integer out of a spreadsheet cell, tolerating
// thousands separators and float-style fractions ("1,234", "1234.0").
func ParseWholeNumber(input string) (int64, bool) {
	s := strings.ReplaceAll(strings.TrimSpace(input), ",", "")
	if s == "" {
		return 0, false
	}
	parsed, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return int64(parsed), true
}

// ParsePrice reads a money amount, handling currency symbols, thousands
// separators and accounting-style negatives: ($1,234.56) -> -1234.56.
func ParsePrice(input string) (float64, bool) {
	s := strings.TrimSpace(input)
	if IsBlank(s) {
		return 0, false
	}
	if reAccountingNeg.MatchString(s) {
		s = "-" + strings.Trim(s, "()")
	}
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	parsed, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return parsed, true
}

// PadDigits extracts the integer part of a numeric cell and left-pads its
// digits with zeros to the given width.
func PadDigits(input string, width int) string {
	if IsBlank(input) {
		return ""
	}
	parsed, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(input), ",", ""), 64)
	if err != nil {
		return ""
	}
	digits := DigitsOnly(strconv.FormatInt(int64(parsed), 10))
	if digits == "" {
		return ""
	}
	for len(digits) < width {
		digits = "0" + digits
	}
	return digits
}
