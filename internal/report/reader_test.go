package report

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"repnorm/internal"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadCSV(t *testing.T) {
	path := writeFile(t, "report.csv", "Name,dob\nAlice,2020-01-05\nBob,2021-02-06\n")

	table, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(table.Columns) != 2 || len(table.Rows) != 2 {
		t.Fatalf("cols=%d rows=%d", len(table.Columns), len(table.Rows))
	}
	if table.Rows[0]["Name"] != "Alice" || table.Rows[1]["dob"] != "2021-02-06" {
		t.Fatalf("unexpected rows: %+v", table.Rows)
	}
}

func TestReadCSVShortRecordPadded(t *testing.T) {
	path := writeFile(t, "report.csv", "a,b,c\n1,2\n")

	table, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if table.Rows[0]["c"] != "" {
		t.Fatalf("want empty pad, got %q", table.Rows[0]["c"])
	}
}

func TestReadXLSXDetectsHeaderRow(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	// Title row above the real header.
	_ = f.SetCellValue(sheet, "A1", "Monthly Vendor Report")
	for c, h := range []string{"Name", "dob", "Amount"} {
		cell, _ := excelize.CoordinatesToCellName(c+1, 2)
		_ = f.SetCellValue(sheet, cell, h)
	}
	for c, v := range []any{"Alice", "2020-01-05", 12} {
		cell, _ := excelize.CoordinatesToCellName(c+1, 3)
		_ = f.SetCellValue(sheet, cell, v)
	}
	path := filepath.Join(t.TempDir(), "report.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}

	table, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(table.Columns) != 3 || table.Columns[0] != "Name" {
		t.Fatalf("columns=%v", table.Columns)
	}
	if len(table.Rows) != 1 || table.Rows[0]["Name"] != "Alice" {
		t.Fatalf("rows=%+v", table.Rows)
	}
}

func TestReadHTMLTable(t *testing.T) {
	html := `<html><body><table>
<tr><th>Name</th><th>dob</th></tr>
<tr><td> Alice </td><td>2020-01-05</td></tr>
</table></body></html>`
	path := writeFile(t, "report.html", html)

	table, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(table.Rows) != 1 || table.Rows[0]["Name"] != "Alice" {
		t.Fatalf("rows=%+v", table.Rows)
	}
}

func TestReadSniffsFormatWithoutExtension(t *testing.T) {
	path := writeFile(t, "report", "x,y\n1,2\n")

	table, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(table.Rows) != 1 {
		t.Fatalf("rows=%d", len(table.Rows))
	}
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "absent.csv"))
	var readErr *internal.ReadError
	if !errors.As(err, &readErr) {
		t.Fatalf("want ReadError, got %v", err)
	}
}

func TestReadDuplicateHeaders(t *testing.T) {
	path := writeFile(t, "report.csv", "Name,Name\nAlice,Bob\n")

	table, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if table.Columns[1] != "Name_2" {
		t.Fatalf("columns=%v", table.Columns)
	}
	if table.Rows[0]["Name"] != "Alice" || table.Rows[0]["Name_2"] != "Bob" {
		t.Fatalf("rows=%+v", table.Rows)
	}
}
