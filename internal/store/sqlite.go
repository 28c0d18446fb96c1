package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/prospect-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS scan_runs (
	id           TEXT PRIMARY KEY,
	mode         TEXT NOT NULL,
	params       TEXT NOT NULL,
	status       TEXT NOT NULL DEFAULT 'running',
	record_count INTEGER NOT NULL DEFAULT 0,
	group_count  INTEGER NOT NULL DEFAULT 0,
	coverage     TEXT,
	summary      TEXT,
	error        TEXT,
	created_at   DATETIME NOT NULL DEFAULT (datetime('now')),
	completed_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_scan_runs_status ON scan_runs(status);
CREATE INDEX IF NOT EXISTS idx_scan_runs_mode ON scan_runs(mode);
CREATE INDEX IF NOT EXISTS idx_scan_runs_created_at ON scan_runs(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateScanRun(ctx context.Context, mode model.Mode, params model.ScanParams) (*model.ScanRun, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal params")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO scan_runs (id, mode, params, status, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, string(mode), string(paramsJSON), string(model.ScanStatusRunning), now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert scan run")
	}

	return &model.ScanRun{
		ID:        id,
		Mode:      mode,
		Params:    params,
		Status:    model.ScanStatusRunning,
		CreatedAt: now,
	}, nil
}

func (s *SQLiteStore) CompleteScanRun(ctx context.Context, runID string, outcome RunOutcome) error {
	var coverageJSON sql.NullString
	if outcome.Coverage != nil {
		b, err := json.Marshal(outcome.Coverage)
		if err != nil {
			return eris.Wrap(err, "sqlite: marshal coverage")
		}
		coverageJSON = sql.NullString{String: string(b), Valid: true}
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE scan_runs SET status = ?, record_count = ?, group_count = ?, coverage = ?, summary = ?, completed_at = ? WHERE id = ?`,
		string(model.ScanStatusComplete), outcome.RecordCount, outcome.GroupCount,
		coverageJSON, outcome.Summary, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: complete scan run %s", runID)
	}
	return checkRowsAffected(res, "scan_run", runID)
}

func (s *SQLiteStore) FailScanRun(ctx context.Context, runID string, scanErr string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE scan_runs SET status = ?, error = ?, completed_at = ? WHERE id = ?`,
		string(model.ScanStatusFailed), scanErr, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: fail scan run %s", runID)
	}
	return checkRowsAffected(res, "scan_run", runID)
}

func (s *SQLiteStore) GetScanRun(ctx context.Context, runID string) (*model.ScanRun, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, mode, params, status, record_count, group_count, coverage, summary, error, created_at, completed_at
		 FROM scan_runs WHERE id = ?`,
		runID,
	)
	return scanRun(row)
}

func (s *SQLiteStore) ListScanRuns(ctx context.Context, filter RunFilter) ([]model.ScanRun, error) {
	query := `SELECT id, mode, params, status, record_count, group_count, coverage, summary, error, created_at, completed_at
	          FROM scan_runs WHERE 1=1`
	var args []any

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	if filter.Mode != "" {
		query += ` AND mode = ?`
		args = append(args, string(filter.Mode))
	}
	if filter.PostalCode != "" {
		query += ` AND json_extract(params, '$.postal_code') = ?`
		args = append(args, filter.PostalCode)
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list scan runs")
	}
	defer rows.Close()

	var runs []model.ScanRun
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: list scan runs iterate")
}

// helpers

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRun(row scannable) (*model.ScanRun, error) {
	var r model.ScanRun
	var paramsJSON string
	var coverageJSON, summary, scanErr sql.NullString
	var completedAt sql.NullTime

	err := row.Scan(&r.ID, &r.Mode, &paramsJSON, &r.Status, &r.RecordCount, &r.GroupCount,
		&coverageJSON, &summary, &scanErr, &r.CreatedAt, &completedAt)
	if err == sql.ErrNoRows {
		return nil, eris.New("scan run not found")
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan run row")
	}

	if err := json.Unmarshal([]byte(paramsJSON), &r.Params); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal params")
	}
	if coverageJSON.Valid {
		r.Coverage = &model.Coverage{}
		if err := json.Unmarshal([]byte(coverageJSON.String), r.Coverage); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal coverage")
		}
	}
	r.Summary = summary.String
	r.Error = scanErr.String
	if completedAt.Valid {
		t := completedAt.Time
		r.CompletedAt = &t
	}
	return &r, nil
}
