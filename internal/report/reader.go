package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/xuri/excelize/v2"

	"repnorm/internal"
	"repnorm/internal/util"
)

type format string

const (
	formatCSV  format = "csv"
	formatXLSX format = "xlsx"
	formatHTML format = "html"
)

// Read loads a report file into a Table. The format comes from the file
// extension, with a content sniff for unknown extensions.
func Read(path string) (internal.Table, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return internal.Table{}, &internal.ReadError{Path: path, Err: err}
	}

	var table internal.Table
	switch detectFormat(path, blob) {
	case formatCSV:
		table, err = readCSV(blob)
	case formatXLSX:
		table, err = readXLSX(blob)
	case formatHTML:
		table, err = readHTML(blob)
	default:
		err = fmt.Errorf("unsupported report format: %s", filepath.Ext(path))
	}
	if err != nil {
		return internal.Table{}, &internal.ReadError{Path: path, Err: err}
	}
	return table, nil
}

func detectFormat(path string, blob []byte) format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return formatCSV
	case ".xlsx", ".xls":
		return formatXLSX
	case ".htm", ".html":
		return formatHTML
	}

	trimmed := bytes.TrimLeft(blob, " \t\r\n")
	switch {
	case bytes.HasPrefix(blob, []byte("PK")):
		return formatXLSX
	case bytes.HasPrefix(trimmed, []byte("<")):
		return formatHTML
	default:
		return formatCSV
	}
}

func readCSV(blob []byte) (internal.Table, error) {
	r := csv.NewReader(bytes.NewReader(blob))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return internal.Table{}, fmt.Errorf("empty report")
	}
	if err != nil {
		return internal.Table{}, err
	}

	columns := uniqueColumns(header)
	table := internal.Table{Columns: columns}
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return internal.Table{}, err
		}
		table.Rows = append(table.Rows, recordToRow(columns, record))
	}
	return table, nil
}

func readXLSX(blob []byte) (internal.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(blob))
	if err != nil {
		return internal.Table{}, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return internal.Table{}, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return internal.Table{}, err
	}
	if len(rows) == 0 {
		return internal.Table{}, fmt.Errorf("empty report")
	}

	headerRow := detectHeaderRow(rows)
	columns := uniqueColumns(rows[headerRow])
	table := internal.Table{Columns: columns}
	for _, row := range rows[headerRow+1:] {
		if emptyRecord(row) {
			continue
		}
		table.Rows = append(table.Rows, recordToRow(columns, row))
	}
	return table, nil
}

// detectHeaderRow scans the first rows of a sheet for the most likely header:
// more than two non-empty cells of which more than one is non-numeric.
// Reports exported from ERP systems often carry title rows above the header.
func detectHeaderRow(rows [][]string) int {
	limit := len(rows)
	if limit > 5 {
		limit = 5
	}
	for i := 0; i < limit; i++ {
		nonEmpty, textual := 0, 0
		for _, cell := range rows[i] {
			c := strings.TrimSpace(cell)
			if c == "" {
				continue
			}
			nonEmpty++
			if _, err := strconv.ParseFloat(c, 64); err != nil {
				textual++
			}
		}
		if nonEmpty > 2 && textual > 1 {
			return i
		}
	}
	return 0
}

func readHTML(blob []byte) (internal.Table, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(blob))
	if err != nil {
		return internal.Table{}, err
	}

	var table internal.Table
	found := false
	doc.Find("table").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		rows := sel.Find("tr")
		if rows.Length() < 2 {
			return true
		}

		header := []string{}
		rows.First().Find("th,td").Each(func(_ int, cell *goquery.Selection) {
			header = append(header, util.NormalizeSpaces(cell.Text()))
		})
		columns := uniqueColumns(header)
		table = internal.Table{Columns: columns}

		rows.Slice(1, rows.Length()).Each(func(_ int, row *goquery.Selection) {
			cells := []string{}
			row.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
				cells = append(cells, util.NormalizeSpaces(cell.Text()))
			})
			if emptyRecord(cells) {
				return
			}
			table.Rows = append(table.Rows, recordToRow(columns, cells))
		})
		found = true
		return false
	})
	if !found {
		return internal.Table{}, fmt.Errorf("no table found in html report")
	}
	return table, nil
}

// uniqueColumns trims header cells and disambiguates repeated names with a
// numeric suffix so the Table keeps one value per column.
func uniqueColumns(header []string) []string {
	seen := map[string]int{}
	out := make([]string, 0, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		if n, ok := seen[name]; ok {
			seen[name] = n + 1
			name = fmt.Sprintf("%s_%d", name, n+1)
		}
		seen[name] = seen[name] + 1
		out = append(out, name)
	}
	return out
}

func recordToRow(columns []string, record []string) internal.Row {
	row := make(internal.Row, len(columns))
	for i, col := range columns {
		if i < len(record) {
			row[col] = record[i]
		} else {
			row[col] = ""
		}
	}
	return row
}

func emptyRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
