package rules

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"repnorm/internal"
	"repnorm/internal/util"
)

const (
	headerSource  = "original column name"
	headerTarget  = "desired standard name"
	headerFormat  = "rule"
	headerReport  = "report name"
	headerIsNew   = "is new field?"
	headerDerived = "derived from"
)

// Load reads the rule table from the first sheet of the configuration
// workbook. When reportName is non-empty, only rules tagged with that report
// name (or with none) are kept. Row order is preserved.
func Load(path, reportName string) ([]internal.Rule, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &internal.ConfigError{Path: path, Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &internal.ConfigError{Path: path, Err: fmt.Errorf("workbook has no sheets")}
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &internal.ConfigError{Path: path, Err: err}
	}
	if len(rows) == 0 {
		return nil, &internal.ConfigError{Path: path, Err: fmt.Errorf("sheet %s is empty", sheets[0])}
	}

	cols := map[string]int{}
	for i, h := range rows[0] {
		cols[util.CleanColumnName(h)] = i
	}
	for _, required := range []string{headerSource, headerTarget, headerFormat} {
		if _, ok := cols[required]; !ok {
			return nil, &internal.ConfigError{Path: path, Err: fmt.Errorf("missing column %q", required)}
		}
	}

	pick := func(row []string, header string) string {
		idx, ok := cols[header]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	out := make([]internal.Rule, 0, len(rows)-1)
	for _, row := range rows[1:] {
		target := pick(row, headerTarget)
		if target == "" || strings.EqualFold(target, "not used") {
			continue
		}

		rule := internal.Rule{
			ReportName:   pick(row, headerReport),
			SourceColumn: pick(row, headerSource),
			TargetColumn: target,
			Format:       pick(row, headerFormat),
			DerivedFrom:  pick(row, headerDerived),
		}
		rule.IsNew = strings.EqualFold(pick(row, headerIsNew), "yes")

		if reportName != "" && rule.ReportName != "" && !strings.EqualFold(rule.ReportName, reportName) {
			continue
		}
		if rule.SourceColumn == "" && !rule.IsNew {
			continue
		}
		out = append(out, rule)
	}

	return out, nil
}
