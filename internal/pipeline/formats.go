package pipeline

import (
	"strconv"
	"strings"
	"time"

	"repnorm/internal/util"
)

// Format rule names as they appear in the configuration workbook. Matching
// is case-insensitive on the cleaned name; unknown rules pass values through.
const (
	FormatText        = "text"
	FormatShortDate   = "short date"
	FormatWholeNumber = "whole number"
	FormatPad9        = "pad9"
	FormatTONo        = "tono"
	FormatPrice       = "price"
	FormatModelNo     = "modelno"
	FormatMfgName     = "mfgname"
)

var dateInputLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"01/02/2006",
	"1/2/2006",
	"2006/01/02",
	"01-02-2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

type formatter struct {
	dateLayout string
}

func newFormatter(dateLayout string) formatter {
	if dateLayout == "" {
		dateLayout = "01/02/2006"
	}
	return formatter{dateLayout: dateLayout}
}

func (f formatter) apply(rule, value string) string {
	switch strings.ToLower(strings.TrimSpace(rule)) {
	case FormatText:
		return strings.TrimSpace(value)
	case FormatShortDate:
		return f.shortDate(value)
	case FormatWholeNumber:
		n, _ := util.ParseWholeNumber(value)
		return strconv.FormatInt(n, 10)
	case FormatPad9:
		return util.PadDigits(value, 9)
	case FormatTONo:
		if util.IsBlank(value) {
			return ""
		}
		return util.TrimFloatZero(value)
	case FormatPrice:
		amount, _ := util.ParsePrice(value)
		return strconv.FormatFloat(amount, 'f', 2, 64)
	default:
		return value
	}
}

// shortDate reparses a date cell and renders it in the configured output
// layout. Unparseable cells come out empty rather than failing the run.
func (f formatter) shortDate(value string) string {
	s := strings.TrimSpace(value)
	if util.IsBlank(s) {
		return ""
	}
	for _, layout := range dateInputLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed.Format(f.dateLayout)
		}
	}
	return ""
}
