package pipeline

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"repnorm/internal"
)

// OutputPath derives the normalized CSV path: <basename>_processed.csv in
// the report's own directory.
func OutputPath(inputPath string) string {
	dir := filepath.Dir(inputPath)
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	return filepath.Join(dir, base+"_processed.csv")
}

// WorkbookPath is the xlsx sibling of OutputPath.
func WorkbookPath(inputPath string) string {
	out := OutputPath(inputPath)
	return strings.TrimSuffix(out, ".csv") + ".xlsx"
}

// WriteCSV serializes a table, header first, overwriting any existing file.
func WriteCSV(table internal.Table, outputPath string) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return &internal.WriteError{Path: outputPath, Err: err}
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(table.Columns); err != nil {
		return &internal.WriteError{Path: outputPath, Err: err}
	}
	record := make([]string, len(table.Columns))
	for _, row := range table.Rows {
		for i, col := range table.Columns {
			record[i] = row[col]
		}
		if err := w.Write(record); err != nil {
			return &internal.WriteError{Path: outputPath, Err: err}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return &internal.WriteError{Path: outputPath, Err: err}
	}
	if err := f.Close(); err != nil {
		return &internal.WriteError{Path: outputPath, Err: err}
	}
	return nil
}

// WriteWorkbook writes the Processed, Ignored and Raw views of a run as
// three sheets of one workbook.
func WriteWorkbook(res Result, outputPath string) error {
	f := excelize.NewFile()

	sheets := []struct {
		name  string
		table internal.Table
	}{
		{name: "Processed", table: res.Normalized},
		{name: "Ignored", table: res.Ignored},
		{name: "Raw", table: res.Raw},
	}

	for i, s := range sheets {
		if i == 0 {
			_ = f.SetSheetName(f.GetSheetName(0), s.name)
		} else {
			if _, err := f.NewSheet(s.name); err != nil {
				return &internal.WriteError{Path: outputPath, Err: err}
			}
		}
		for c, col := range s.table.Columns {
			cell, _ := excelize.CoordinatesToCellName(c+1, 1)
			_ = f.SetCellValue(s.name, cell, col)
		}
		for r, row := range s.table.Rows {
			for c, col := range s.table.Columns {
				cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
				_ = f.SetCellValue(s.name, cell, row[col])
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return &internal.WriteError{Path: outputPath, Err: err}
	}
	if err := f.SaveAs(outputPath); err != nil {
		return &internal.WriteError{Path: outputPath, Err: err}
	}
	return nil
}
