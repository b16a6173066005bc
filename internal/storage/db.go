package storage

import (
	"database/sql"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"repnorm/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  inputPath TEXT NOT NULL,
  outputPath TEXT NOT NULL,
  reportName TEXT,
  policy TEXT NOT NULL,
  rowsIn INTEGER NOT NULL,
  rowsOut INTEGER NOT NULL,
  columnsMapped INTEGER NOT NULL,
  columnsPassed INTEGER NOT NULL,
  rulesSkipped INTEGER NOT NULL,
  totalMs REAL NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_runs_inputPath ON runs(inputPath);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

func (d *DB) InsertRun(rec internal.RunRecord) error {
	_, err := d.conn.Exec(`
INSERT INTO runs (
  traceId, inputPath, outputPath, reportName, policy,
  rowsIn, rowsOut, columnsMapped, columnsPassed, rulesSkipped, totalMs
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.TraceID, rec.InputPath, rec.OutputPath, rec.ReportName, rec.Policy,
		rec.RowsIn, rec.RowsOut, rec.ColumnsMapped, rec.ColumnsPassed, rec.RulesSkipped, rec.TotalMs)
	return err
}

func (d *DB) ListRuns(limit int) ([]internal.RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := d.conn.Query(`
SELECT id, traceId, inputPath, outputPath, COALESCE(reportName, ''), policy,
       rowsIn, rowsOut, columnsMapped, columnsPassed, rulesSkipped, totalMs, createdAt
FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []internal.RunRecord{}
	for rows.Next() {
		var rec internal.RunRecord
		if err := rows.Scan(
			&rec.ID, &rec.TraceID, &rec.InputPath, &rec.OutputPath, &rec.ReportName, &rec.Policy,
			&rec.RowsIn, &rec.RowsOut, &rec.ColumnsMapped, &rec.ColumnsPassed, &rec.RulesSkipped,
			&rec.TotalMs, &rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (d *DB) LastRunForInput(inputPath string) (internal.RunRecord, bool, error) {
	row := d.conn.QueryRow(`
SELECT id, traceId, inputPath, outputPath, COALESCE(reportName, ''), policy,
       rowsIn, rowsOut, columnsMapped, columnsPassed, rulesSkipped, totalMs, createdAt
FROM runs WHERE inputPath = ? ORDER BY id DESC LIMIT 1`, inputPath)

	var rec internal.RunRecord
	err := row.Scan(
		&rec.ID, &rec.TraceID, &rec.InputPath, &rec.OutputPath, &rec.ReportName, &rec.Policy,
		&rec.RowsIn, &rec.RowsOut, &rec.ColumnsMapped, &rec.ColumnsPassed, &rec.RulesSkipped,
		&rec.TotalMs, &rec.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return internal.RunRecord{}, false, nil
	}
	if err != nil {
		return internal.RunRecord{}, false, err
	}
	return rec, true, nil
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value, updatedAt) VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value=excluded.value, updatedAt=CURRENT_TIMESTAMP`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (string, bool, error) {
	row := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key)
	var value string
	err := row.Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}
