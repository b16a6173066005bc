package pipeline

import (
	"fmt"
	"strings"

	"repnorm/internal"
	"repnorm/internal/util"
)

// Options steer one application pass.
type Options struct {
	Policy     internal.Policy
	DateLayout string
}

// Result carries the three views of an applied report. Normalized is the
// table written out; Ignored holds the columns no rule referenced; Raw is
// the input as read.
type Result struct {
	Normalized internal.Table
	Ignored    internal.Table
	Raw        internal.Table
	Mapped     int
	Passed     int
	Skipped    []string
}

const cleanSuffix = "_Clean"

// Apply runs the rule set over a report table. Rules apply in config order;
// each source column is consumed at most once. Under the lenient policy a
// rule whose source column is missing is skipped and reported in
// Result.Skipped; under the strict policy it aborts with a RuleError.
func Apply(table internal.Table, rules []internal.Rule, opts Options) (Result, error) {
	f := newFormatter(opts.DateLayout)

	// Report columns keyed by cleaned name, first occurrence wins.
	byClean := map[string]string{}
	for _, col := range table.Columns {
		key := util.CleanColumnName(col)
		if _, ok := byClean[key]; !ok {
			byClean[key] = col
		}
	}

	type mapped struct {
		rule   internal.Rule
		source string
	}
	plan := make([]mapped, 0, len(rules))
	used := map[string]bool{}
	targets := map[string]bool{}
	skipped := []string{}

	for _, rule := range rules {
		if rule.IsNew {
			// Derived fields are produced from other rules' outputs, not
			// read from the report; the INDEX column is handled below.
			continue
		}
		source, ok := byClean[util.CleanColumnName(rule.SourceColumn)]
		if !ok {
			if opts.Policy == internal.PolicyStrict {
				return Result{}, &internal.RuleError{
					SourceColumn: rule.SourceColumn,
					TargetColumn: rule.TargetColumn,
					Err:          fmt.Errorf("column not found in report"),
				}
			}
			skipped = append(skipped, rule.SourceColumn)
			continue
		}
		if targets[rule.TargetColumn] {
			return Result{}, &internal.RuleError{
				SourceColumn: rule.SourceColumn,
				TargetColumn: rule.TargetColumn,
				Err:          fmt.Errorf("duplicate target column"),
			}
		}
		targets[rule.TargetColumn] = true
		if isCleaningRule(rule.Format) {
			targets[rule.TargetColumn+cleanSuffix] = true
		}
		used[source] = true
		plan = append(plan, mapped{rule: rule, source: source})
	}

	normalized := internal.Table{}
	modelCleanCol, padCol := "", ""
	for _, m := range plan {
		normalized.Columns = append(normalized.Columns, m.rule.TargetColumn)
		switch strings.ToLower(strings.TrimSpace(m.rule.Format)) {
		case FormatModelNo:
			normalized.Columns = append(normalized.Columns, m.rule.TargetColumn+cleanSuffix)
			modelCleanCol = m.rule.TargetColumn + cleanSuffix
		case FormatMfgName:
			normalized.Columns = append(normalized.Columns, m.rule.TargetColumn+cleanSuffix)
		case FormatPad9:
			padCol = m.rule.TargetColumn
		}
	}

	// Unreferenced columns pass through after the mapped ones, unless the
	// name is already taken by a rule target.
	passthrough := []string{}
	ignored := internal.Table{}
	for _, col := range table.Columns {
		if used[col] {
			continue
		}
		ignored.Columns = append(ignored.Columns, col)
		if !targets[col] {
			passthrough = append(passthrough, col)
		}
	}
	normalized.Columns = append(normalized.Columns, passthrough...)

	for _, row := range table.Rows {
		out := make(internal.Row, len(normalized.Columns))
		for _, m := range plan {
			value := row[m.source]
			switch strings.ToLower(strings.TrimSpace(m.rule.Format)) {
			case FormatModelNo:
				out[m.rule.TargetColumn] = value
				out[m.rule.TargetColumn+cleanSuffix] = util.CleanModelCode(value)
			case FormatMfgName:
				out[m.rule.TargetColumn] = value
				out[m.rule.TargetColumn+cleanSuffix] = util.CleanManufacturerName(value)
			default:
				out[m.rule.TargetColumn] = f.apply(m.rule.Format, value)
			}
		}
		for _, col := range passthrough {
			out[col] = row[col]
		}
		normalized.Rows = append(normalized.Rows, out)

		ignRow := make(internal.Row, len(ignored.Columns))
		for _, col := range ignored.Columns {
			ignRow[col] = row[col]
		}
		ignored.Rows = append(ignored.Rows, ignRow)
	}

	// A cleaned model code plus a padded item number identify a part; join
	// them into a leading INDEX column when both are present.
	if modelCleanCol != "" && padCol != "" && !targets["INDEX"] {
		normalized.Columns = append([]string{"INDEX"}, normalized.Columns...)
		for _, row := range normalized.Rows {
			row["INDEX"] = row[modelCleanCol] + "|" + row[padCol]
		}
	}

	return Result{
		Normalized: normalized,
		Ignored:    ignored,
		Raw:        table,
		Mapped:     len(plan),
		Passed:     len(passthrough),
		Skipped:    skipped,
	}, nil
}

func isCleaningRule(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatModelNo, FormatMfgName:
		return true
	default:
		return false
	}
}
