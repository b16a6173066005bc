package internal

import "fmt"

// Policy controls what happens when a rule references a column the report
// does not have.
type Policy string

const (
	PolicyLenient Policy = "lenient"
	PolicyStrict  Policy = "strict"
)

func ParsePolicy(value string) (Policy, error) {
	switch Policy(value) {
	case PolicyLenient, PolicyStrict:
		return Policy(value), nil
	case "":
		return PolicyLenient, nil
	default:
		return "", fmt.Errorf("unknown policy: %s (want lenient or strict)", value)
	}
}

// Rule is one row of the configuration workbook: rename SourceColumn to
// TargetColumn and push values through the Format transform.
type Rule struct {
	ReportName   string
	SourceColumn string
	TargetColumn string
	Format       string
	IsNew        bool
	DerivedFrom  string
}

// Row maps column name to the raw cell value. Cells stay strings; format
// transforms decide how to interpret them.
type Row map[string]string

// Table is an ordered tabular view of a report. Columns fixes the column
// order, Rows hold the cells.
type Table struct {
	Columns []string
	Rows    []Row
}

// RunRecord is one normalization run as stored in the history database.
type RunRecord struct {
	ID            int
	TraceID       string
	InputPath     string
	OutputPath    string
	ReportName    string
	Policy        string
	RowsIn        int
	RowsOut       int
	ColumnsMapped int
	ColumnsPassed int
	RulesSkipped  int
	TotalMs       float64
	CreatedAt     string
}

type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string { return fmt.Sprintf("config %s: %v", e.Path, e.Err) }
func (e *ConfigError) Unwrap() error { return e.Err }

type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string { return fmt.Sprintf("read %s: %v", e.Path, e.Err) }
func (e *ReadError) Unwrap() error { return e.Err }

type RuleError struct {
	SourceColumn string
	TargetColumn string
	Err          error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("rule %s -> %s: %v", e.SourceColumn, e.TargetColumn, e.Err)
}
func (e *RuleError) Unwrap() error { return e.Err }

type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string { return fmt.Sprintf("write %s: %v", e.Path, e.Err) }
func (e *WriteError) Unwrap() error { return e.Err }
