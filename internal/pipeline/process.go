package pipeline

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"repnorm/internal"
	"repnorm/internal/config"
	"repnorm/internal/report"
	"repnorm/internal/rules"
	"repnorm/internal/storage"
)

// Service wires the loader, reader, applicator and writers into one run and
// records each run in the history database.
type Service struct {
	db  *storage.DB
	cfg config.Config
}

func NewService(db *storage.DB, cfg config.Config) *Service {
	return &Service{db: db, cfg: cfg}
}

type RunOptions struct {
	InputPath  string
	ConfigPath string
	ReportName string
	Policy     internal.Policy
	ExportXLSX bool
}

type RunResult struct {
	OutputPath   string
	WorkbookPath string
	RowsIn       int
	RowsOut      int
	Mapped       int
	Passed       int
	Skipped      []string
}

func (s *Service) Run(opts RunOptions) (RunResult, error) {
	start := time.Now()

	ruleSet, err := rules.Load(opts.ConfigPath, opts.ReportName)
	if err != nil {
		return RunResult{}, err
	}
	table, err := report.Read(opts.InputPath)
	if err != nil {
		return RunResult{}, err
	}

	res, err := Apply(table, ruleSet, Options{Policy: opts.Policy, DateLayout: s.cfg.DateOutputLayout})
	if err != nil {
		return RunResult{}, err
	}

	outputPath := OutputPath(opts.InputPath)
	if err := WriteCSV(res.Normalized, outputPath); err != nil {
		return RunResult{}, err
	}

	result := RunResult{
		OutputPath: outputPath,
		RowsIn:     len(table.Rows),
		RowsOut:    len(res.Normalized.Rows),
		Mapped:     res.Mapped,
		Passed:     res.Passed,
		Skipped:    res.Skipped,
	}
	if opts.ExportXLSX {
		result.WorkbookPath = WorkbookPath(opts.InputPath)
		if err := WriteWorkbook(res, result.WorkbookPath); err != nil {
			return RunResult{}, err
		}
	}

	if s.db != nil {
		_ = s.db.InsertRun(internal.RunRecord{
			TraceID:       traceID(),
			InputPath:     opts.InputPath,
			OutputPath:    outputPath,
			ReportName:    opts.ReportName,
			Policy:        string(opts.Policy),
			RowsIn:        result.RowsIn,
			RowsOut:       result.RowsOut,
			ColumnsMapped: result.Mapped,
			ColumnsPassed: result.Passed,
			RulesSkipped:  len(result.Skipped),
			TotalMs:       float64(time.Since(start).Milliseconds()),
		})
		_ = s.db.SetMetadata("lastConfigPath", opts.ConfigPath)
	}

	return result, nil
}

func traceID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("run-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}
