package pipeline

import (
	"errors"
	"testing"

	"repnorm/internal"
)

func row(pairs ...string) internal.Row {
	r := internal.Row{}
	for i := 0; i+1 < len(pairs); i += 2 {
		r[pairs[i]] = pairs[i+1]
	}
	return r
}

func TestApplyRenameAndFormat(t *testing.T) {
	table := internal.Table{
		Columns: []string{"Name", "dob"},
		Rows:    []internal.Row{row("Name", "Alice", "dob", "2020-01-05")},
	}
	rules := []internal.Rule{
		{SourceColumn: "dob", TargetColumn: "DateOfBirth", Format: "Short Date"},
	}

	res, err := Apply(table, rules, Options{Policy: internal.PolicyLenient})
	if err != nil {
		t.Fatal(err)
	}
	got := res.Normalized.Rows[0]
	if got["DateOfBirth"] != "01/05/2020" {
		t.Fatalf("DateOfBirth=%q", got["DateOfBirth"])
	}
	if got["Name"] != "Alice" {
		t.Fatalf("passthrough lost: %+v", got)
	}
	if res.Normalized.Columns[0] != "DateOfBirth" || res.Normalized.Columns[1] != "Name" {
		t.Fatalf("columns=%v", res.Normalized.Columns)
	}
}

func TestApplyMatchesColumnsCaseInsensitively(t *testing.T) {
	table := internal.Table{
		Columns: []string{"  Item No  "},
		Rows:    []internal.Row{row("  Item No  ", "1234")},
	}
	rules := []internal.Rule{
		{SourceColumn: "item no", TargetColumn: "ItemNo", Format: "Pad9"},
	}

	res, err := Apply(table, rules, Options{Policy: internal.PolicyStrict})
	if err != nil {
		t.Fatal(err)
	}
	if res.Normalized.Rows[0]["ItemNo"] != "000001234" {
		t.Fatalf("got %+v", res.Normalized.Rows[0])
	}
}

func TestApplyLenientSkipsMissingColumn(t *testing.T) {
	table := internal.Table{
		Columns: []string{"Name"},
		Rows:    []internal.Row{row("Name", "Alice")},
	}
	rules := []internal.Rule{
		{SourceColumn: "ssn", TargetColumn: "SSN", Format: "Text"},
	}

	res, err := Apply(table, rules, Options{Policy: internal.PolicyLenient})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Skipped) != 1 || res.Skipped[0] != "ssn" {
		t.Fatalf("skipped=%v", res.Skipped)
	}
	if res.Normalized.Rows[0]["Name"] != "Alice" {
		t.Fatalf("row changed: %+v", res.Normalized.Rows[0])
	}
}

func TestApplyStrictFailsOnMissingColumn(t *testing.T) {
	table := internal.Table{Columns: []string{"Name"}, Rows: []internal.Row{row("Name", "Alice")}}
	rules := []internal.Rule{
		{SourceColumn: "ssn", TargetColumn: "SSN", Format: "Text"},
	}

	_, err := Apply(table, rules, Options{Policy: internal.PolicyStrict})
	var ruleErr *internal.RuleError
	if !errors.As(err, &ruleErr) {
		t.Fatalf("want RuleError, got %v", err)
	}
	if ruleErr.SourceColumn != "ssn" {
		t.Fatalf("unexpected error: %+v", ruleErr)
	}
}

func TestApplyDuplicateTargetFails(t *testing.T) {
	table := internal.Table{Columns: []string{"a", "b"}, Rows: []internal.Row{row("a", "1", "b", "2")}}
	rules := []internal.Rule{
		{SourceColumn: "a", TargetColumn: "X", Format: "Text"},
		{SourceColumn: "b", TargetColumn: "X", Format: "Text"},
	}

	_, err := Apply(table, rules, Options{Policy: internal.PolicyLenient})
	var ruleErr *internal.RuleError
	if !errors.As(err, &ruleErr) {
		t.Fatalf("want RuleError, got %v", err)
	}
}

func TestApplyCleaningRulesAddCleanColumns(t *testing.T) {
	table := internal.Table{
		Columns: []string{"model", "mfg"},
		Rows:    []internal.Row{row("model", "AB-12 X", "mfg", "Acme, Inc.")},
	}
	rules := []internal.Rule{
		{SourceColumn: "model", TargetColumn: "ModelNo", Format: "ModelNo"},
		{SourceColumn: "mfg", TargetColumn: "MfgName", Format: "MfgName"},
	}

	res, err := Apply(table, rules, Options{Policy: internal.PolicyStrict})
	if err != nil {
		t.Fatal(err)
	}
	got := res.Normalized.Rows[0]
	if got["ModelNo"] != "AB-12 X" || got["ModelNo_Clean"] != "ab12x" {
		t.Fatalf("model: %+v", got)
	}
	if got["MfgName"] != "Acme, Inc." || got["MfgName_Clean"] != "acmeinc" {
		t.Fatalf("mfg: %+v", got)
	}
}

func TestApplyBuildsIndexColumn(t *testing.T) {
	table := internal.Table{
		Columns: []string{"model", "item"},
		Rows:    []internal.Row{row("model", "AB-12", "item", "77")},
	}
	rules := []internal.Rule{
		{SourceColumn: "model", TargetColumn: "ModelNo", Format: "ModelNo"},
		{SourceColumn: "item", TargetColumn: "ItemNo", Format: "Pad9"},
	}

	res, err := Apply(table, rules, Options{Policy: internal.PolicyStrict})
	if err != nil {
		t.Fatal(err)
	}
	if res.Normalized.Columns[0] != "INDEX" {
		t.Fatalf("columns=%v", res.Normalized.Columns)
	}
	if got := res.Normalized.Rows[0]["INDEX"]; got != "ab12|000000077" {
		t.Fatalf("INDEX=%q", got)
	}
}

func TestApplyIgnoredTableHoldsUnmatchedColumns(t *testing.T) {
	table := internal.Table{
		Columns: []string{"a", "b", "c"},
		Rows:    []internal.Row{row("a", "1", "b", "2", "c", "3")},
	}
	rules := []internal.Rule{
		{SourceColumn: "a", TargetColumn: "A", Format: "Text"},
	}

	res, err := Apply(table, rules, Options{Policy: internal.PolicyStrict})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Ignored.Columns) != 2 || res.Ignored.Columns[0] != "b" || res.Ignored.Columns[1] != "c" {
		t.Fatalf("ignored=%v", res.Ignored.Columns)
	}
	if res.Ignored.Rows[0]["b"] != "2" {
		t.Fatalf("ignored rows=%+v", res.Ignored.Rows)
	}
	if res.Mapped != 1 || res.Passed != 2 {
		t.Fatalf("mapped=%d passed=%d", res.Mapped, res.Passed)
	}
}
